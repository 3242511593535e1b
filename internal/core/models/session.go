package models

import (
	"errors"
	"time"
)

// ChantSession represents one continuous chanting period. A session with a
// nil EndedAt is the running session; at most one such row exists in the
// store at any time.
type ChantSession struct {
	ID          int64
	RemoteID    string // remote document id, empty until mirrored
	TypeLabel   string // e.g. "관세음보살"
	CustomLabel string // free text when the user typed their own chant
	StartedAt   int64  // epoch millis
	EndedAt     *int64 // nil while running
	Count       int    // cumulative count at last update
	YMD         string // "2006-01-02", derived from StartedAt in local time
	UserID      string // owning account, empty when signed out
	UpdatedAt   int64  // epoch millis of last local write
	SyncedAt    int64  // epoch millis of last successful push, 0 = never
}

// Running reports whether the session is still open.
func (s *ChantSession) Running() bool {
	return s.EndedAt == nil
}

// Validate checks if the session has required fields
func (s *ChantSession) Validate() error {
	if s.TypeLabel == "" {
		return errors.New("type_label is required")
	}
	if s.StartedAt <= 0 {
		return errors.New("started_at is required")
	}
	if s.YMD == "" {
		return errors.New("ymd is required")
	}
	return nil
}

// DayKey returns the calendar-day key for t in local time.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
