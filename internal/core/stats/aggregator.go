// Package stats derives grouped chant totals from session history. Grouping
// runs over an in-memory snapshot, not a storage query: full history fits in
// memory at personal-app scale.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"yeomju/internal/core/models"
)

// Aggregation selects the grouping unit.
type Aggregation int

const (
	ByHour Aggregation = iota
	ByDay
	ByWeek
	ByMonth
	ByYear
)

// ParseAggregation maps a CLI flag value to an Aggregation.
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(s) {
	case "hour":
		return ByHour, nil
	case "day":
		return ByDay, nil
	case "week":
		return ByWeek, nil
	case "month":
		return ByMonth, nil
	case "year":
		return ByYear, nil
	}
	return 0, fmt.Errorf("unknown aggregation %q (want hour, day, week, month or year)", s)
}

// TimePoint is one group's total, labeled by its time bucket.
type TimePoint struct {
	Label string // "07시", "2025-12-01", "2025-49주", "2025-12월", "2025년"
	Total int
}

// Load filters sessions by chant type, groups them by the aggregation unit
// and sums each group's count. Results sort ascending by label. A nil filter
// matches everything; TypeCustom matches sessions with a non-blank custom
// label; any other type matches its exact label.
func Load(sessions []models.ChantSession, agg Aggregation, filter *models.ChantType) []TimePoint {
	if len(sessions) == 0 {
		return nil
	}

	filtered := sessions
	if filter != nil {
		filtered = filtered[:0:0]
		for _, s := range sessions {
			if matches(s, *filter) {
				filtered = append(filtered, s)
			}
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	grouped := make(map[string]int)
	for _, s := range filtered {
		grouped[label(s, agg)] += s.Count
	}

	points := make([]TimePoint, 0, len(grouped))
	for l, total := range grouped {
		points = append(points, TimePoint{Label: l, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	return points
}

func matches(s models.ChantSession, t models.ChantType) bool {
	if t.IsCustom() {
		return strings.TrimSpace(s.CustomLabel) != ""
	}
	return s.TypeLabel == t.Label()
}

func label(s models.ChantSession, agg Aggregation) string {
	switch agg {
	case ByHour:
		h := time.UnixMilli(s.StartedAt).In(time.Local).Hour()
		return fmt.Sprintf("%02d시", h)
	case ByDay:
		return s.YMD
	case ByWeek:
		d := dayOf(s)
		year, week := d.ISOWeek()
		return fmt.Sprintf("%04d-%02d주", year, week)
	case ByMonth:
		d := dayOf(s)
		return fmt.Sprintf("%04d-%02d월", d.Year(), int(d.Month()))
	case ByYear:
		return fmt.Sprintf("%d년", dayOf(s).Year())
	}
	return s.YMD
}

// dayOf parses the session's ymd key; a malformed key falls back to the
// start timestamp so a corrupt row degrades instead of panicking.
func dayOf(s models.ChantSession) time.Time {
	d, err := time.ParseInLocation("2006-01-02", s.YMD, time.Local)
	if err != nil {
		return time.UnixMilli(s.StartedAt).In(time.Local)
	}
	return d
}
