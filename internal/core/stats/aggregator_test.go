package stats

import (
	"testing"
	"time"

	"yeomju/internal/core/models"
)

func session(ymd string, count int) models.ChantSession {
	d, _ := time.ParseInLocation("2006-01-02", ymd, time.Local)
	return models.ChantSession{
		TypeLabel: "관세음보살",
		StartedAt: d.UnixMilli(),
		Count:     count,
		YMD:       ymd,
	}
}

func TestLoadEmpty(t *testing.T) {
	if got := Load(nil, ByDay, nil); len(got) != 0 {
		t.Errorf("Load(nil) = %v, want empty", got)
	}
}

func TestLoadGroupsByDay(t *testing.T) {
	sessions := []models.ChantSession{
		session("2025-10-01", 5),
		session("2025-10-01", 3),
		session("2025-10-02", 7),
	}

	got := Load(sessions, ByDay, nil)
	want := []TimePoint{
		{Label: "2025-10-01", Total: 8},
		{Label: "2025-10-02", Total: 7},
	}
	if len(got) != len(want) {
		t.Fatalf("Load() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Load()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLoadGroupLabels(t *testing.T) {
	start := time.Date(2025, 12, 1, 7, 30, 0, 0, time.Local)
	s := models.ChantSession{
		TypeLabel: "관세음보살",
		StartedAt: start.UnixMilli(),
		Count:     10,
		YMD:       "2025-12-01",
	}

	tests := []struct {
		name string
		agg  Aggregation
		want string
	}{
		{"hour", ByHour, "07시"},
		{"day", ByDay, "2025-12-01"},
		{"week", ByWeek, "2025-49주"},
		{"month", ByMonth, "2025-12월"},
		{"year", ByYear, "2025년"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Load([]models.ChantSession{s}, tt.agg, nil)
			if len(got) != 1 {
				t.Fatalf("Load() = %v, want one point", got)
			}
			if got[0].Label != tt.want {
				t.Errorf("label = %q, want %q", got[0].Label, tt.want)
			}
			if got[0].Total != 10 {
				t.Errorf("total = %d, want 10", got[0].Total)
			}
		})
	}
}

func TestLoadTypeFilter(t *testing.T) {
	gwanseum := session("2025-10-01", 5)
	jijang := models.ChantSession{TypeLabel: "지장보살", StartedAt: 1, Count: 3, YMD: "2025-10-01"}
	custom := models.ChantSession{TypeLabel: "직접 입력", CustomLabel: "옴 마니 반메 훔", StartedAt: 1, Count: 2, YMD: "2025-10-01"}
	blankCustom := models.ChantSession{TypeLabel: "직접 입력", CustomLabel: "   ", StartedAt: 1, Count: 99, YMD: "2025-10-01"}
	sessions := []models.ChantSession{gwanseum, jijang, custom, blankCustom}

	t.Run("exact label", func(t *testing.T) {
		f := models.TypeGwanseum
		got := Load(sessions, ByDay, &f)
		if len(got) != 1 || got[0].Total != 5 {
			t.Errorf("Load(GWANSEUM) = %v, want total 5", got)
		}
	})

	t.Run("custom matches non-blank custom label only", func(t *testing.T) {
		f := models.TypeCustom
		got := Load(sessions, ByDay, &f)
		if len(got) != 1 || got[0].Total != 2 {
			t.Errorf("Load(CUSTOM) = %v, want total 2", got)
		}
	})

	t.Run("nothing survives filter", func(t *testing.T) {
		f := models.TypeNamuAmitabul
		if got := Load(sessions, ByDay, &f); len(got) != 0 {
			t.Errorf("Load(NAMU_AMITABUL) = %v, want empty", got)
		}
	})
}

func TestParseAggregation(t *testing.T) {
	tests := []struct {
		in      string
		want    Aggregation
		wantErr bool
	}{
		{"hour", ByHour, false},
		{"Day", ByDay, false},
		{"WEEK", ByWeek, false},
		{"month", ByMonth, false},
		{"year", ByYear, false},
		{"decade", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAggregation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAggregation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseAggregation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
