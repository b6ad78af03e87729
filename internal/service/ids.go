package service

import (
	"strconv"
	"sync"
	"time"
)

// millisIDs issues unix-millisecond IDs that never repeat within the process,
// even when two saves land in the same millisecond.
type millisIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newMillisIDs(now func() time.Time) *millisIDs {
	if now == nil {
		now = time.Now
	}
	return &millisIDs{now: now}
}

func (g *millisIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}
