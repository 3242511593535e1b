package models

import "fmt"

// CountSource identifies what triggered a count change. It is a closed set;
// the persisted text form round-trips through ParseCountSource, which rejects
// anything outside the set with a typed error.
type CountSource string

const (
	SourceVoice       CountSource = "VOICE"
	SourceManualSmall CountSource = "MANUAL_SMALL"
	SourceManualBig   CountSource = "MANUAL_BIG"
)

// UnknownSourceError is returned when a stored source value is not one of
// the known CountSource constants.
type UnknownSourceError struct {
	Value string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown count source %q", e.Value)
}

// ParseCountSource validates a persisted source value.
func ParseCountSource(s string) (CountSource, error) {
	switch CountSource(s) {
	case SourceVoice, SourceManualSmall, SourceManualBig:
		return CountSource(s), nil
	}
	return "", &UnknownSourceError{Value: s}
}

// CountLogEntry is one discrete counting event. Entries are append-only
// except for the voice marker: the zero-delta VOICE entry written at session
// start is finalized in place when the session stops (delta recomputed,
// EndTimestamp set). At most one VOICE entry per day has a nil EndTimestamp.
type CountLogEntry struct {
	ID           int64
	YMD          string
	Timestamp    int64 // epoch millis, de-facto unique key within a day
	Source       CountSource
	Delta        int
	Total        int    // cumulative count after this event
	EndTimestamp *int64 // VOICE only: when the voice segment closed
}

// Open reports whether this is a voice marker that has not been finalized.
func (e *CountLogEntry) Open() bool {
	return e.Source == SourceVoice && e.EndTimestamp == nil
}
