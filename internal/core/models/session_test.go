package models

import (
	"errors"
	"testing"
	"time"
)

func TestSessionValidation(t *testing.T) {
	end := int64(2000)
	tests := []struct {
		name    string
		session ChantSession
		wantErr bool
	}{
		{
			name: "valid running session",
			session: ChantSession{
				TypeLabel: "관세음보살",
				StartedAt: 1000,
				YMD:       "2025-10-01",
			},
			wantErr: false,
		},
		{
			name: "valid stopped session",
			session: ChantSession{
				TypeLabel: "지장보살",
				StartedAt: 1000,
				EndedAt:   &end,
				Count:     42,
				YMD:       "2025-10-01",
			},
			wantErr: false,
		},
		{
			name: "missing type label",
			session: ChantSession{
				StartedAt: 1000,
				YMD:       "2025-10-01",
			},
			wantErr: true,
		},
		{
			name: "missing start time",
			session: ChantSession{
				TypeLabel: "관세음보살",
				YMD:       "2025-10-01",
			},
			wantErr: true,
		},
		{
			name: "missing day key",
			session: ChantSession{
				TypeLabel: "관세음보살",
				StartedAt: 1000,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunning(t *testing.T) {
	s := ChantSession{TypeLabel: "관세음보살", StartedAt: 1000, YMD: "2025-10-01"}
	if !s.Running() {
		t.Error("session without EndedAt should be running")
	}
	end := int64(5000)
	s.EndedAt = &end
	if s.Running() {
		t.Error("session with EndedAt should not be running")
	}
}

func TestParseCountSource(t *testing.T) {
	tests := []struct {
		in      string
		want    CountSource
		wantErr bool
	}{
		{"VOICE", SourceVoice, false},
		{"MANUAL_SMALL", SourceManualSmall, false},
		{"MANUAL_BIG", SourceManualBig, false},
		{"voice", "", true},
		{"", "", true},
		{"BUTTON", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCountSource(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCountSource(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCountSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if tt.wantErr {
				var unknown *UnknownSourceError
				if !errors.As(err, &unknown) {
					t.Errorf("expected UnknownSourceError, got %T", err)
				} else if unknown.Value != tt.in {
					t.Errorf("UnknownSourceError.Value = %q, want %q", unknown.Value, tt.in)
				}
			}
		})
	}
}

func TestDayKey(t *testing.T) {
	ts := time.Date(2025, 10, 13, 23, 59, 0, 0, time.Local)
	if got := DayKey(ts); got != "2025-10-13" {
		t.Errorf("DayKey() = %q, want 2025-10-13", got)
	}
}

func TestVoiceMarkerOpen(t *testing.T) {
	e := CountLogEntry{Source: SourceVoice, Delta: 0, Total: 0}
	if !e.Open() {
		t.Error("voice entry without end timestamp should be open")
	}
	end := int64(100)
	e.EndTimestamp = &end
	if e.Open() {
		t.Error("finalized voice entry should not be open")
	}
	manual := CountLogEntry{Source: SourceManualSmall}
	if manual.Open() {
		t.Error("manual entry is never an open marker")
	}
}
