package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for admission and diary dates.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseDate accepts the ISO-8601 shapes the portal stores, with or without a time part.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayPart returns the text before any 'T' separator.
func DayPart(raw string) string {
	day, _, _ := strings.Cut(raw, "T")
	return day
}

// Timestamp formats t the way audit fields are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
