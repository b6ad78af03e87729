// Package kvstore is the durable key-value byte store behind the records store.
// Each collection is one opaque entry; values are whole serialized collections.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/config"
)

// ErrNotFound is returned by Get when the key holds no entry.
var ErrNotFound = errors.New("kvstore: key not found")

// Store reads and overwrites whole entries. Put replaces the previous value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the backend named by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		store Store
		err   error
	)
	switch cfg.Storage.Backend {
	case config.BackendFile:
		store, err = NewFileStore(cfg.Storage.Dir)
	case config.BackendRedis:
		store, err = OpenRedis(ctx, cfg.Redis)
	case config.BackendPostgres:
		store, err = OpenPostgres(ctx, cfg.Database)
	case config.BackendBadger:
		store, err = OpenBadger(cfg.Storage.BadgerDir)
	case config.BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	logger.Info("durable store ready", zap.String("backend", cfg.Storage.Backend))
	return store, nil
}
