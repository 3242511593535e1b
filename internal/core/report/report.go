// Package report renders a day of chanting as shareable text.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"

	"yeomju/internal/core/models"
)

const DefaultTemplate = `{{date}} 염불 기록
{{#sessions}}
- {{label}}: {{count}}회 ({{started}}, {{duration}})
{{/sessions}}
합계: {{total}}회
`

// Build renders the day report for the given sessions. A custom template at
// <configDir>/report_template.txt overrides the default.
func Build(configDir, ymd string, sessions []models.ChantSession) (string, error) {
	template := DefaultTemplate
	if configDir != "" {
		if data, err := os.ReadFile(filepath.Join(configDir, "report_template.txt")); err == nil {
			template = string(data)
		}
	}

	total := 0
	items := make([]map[string]interface{}, 0, len(sessions))
	for _, s := range sessions {
		total += s.Count

		label := s.TypeLabel
		if s.CustomLabel != "" {
			label = s.CustomLabel
		}
		started := time.UnixMilli(s.StartedAt).In(time.Local)

		duration := "진행 중"
		if s.EndedAt != nil {
			ended := time.UnixMilli(*s.EndedAt).In(time.Local)
			duration = strings.TrimSpace(humanize.RelTime(started, ended, "", ""))
		}

		items = append(items, map[string]interface{}{
			"label":    label,
			"count":    s.Count,
			"started":  started.Format("15:04"),
			"duration": duration,
		})
	}

	data := map[string]interface{}{
		"date":     ymd,
		"sessions": items,
		"total":    total,
	}

	out, err := mustache.Render(template, data)
	if err != nil {
		// Fall back to a plain summary if the template fails
		return fmt.Sprintf("%s 염불 기록: %d회", ymd, total), nil
	}
	return out, nil
}
