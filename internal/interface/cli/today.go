package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"yeomju/internal/core/models"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's sessions",
	RunE:  runToday,
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ymd := models.DayKey(time.Now())
	sessions, err := e.db.SessionsOfDay(ymd)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Printf("No sessions on %s\n", ymd)
		return nil
	}

	total := 0
	for _, s := range sessions {
		started := time.UnixMilli(s.StartedAt).In(time.Local)
		state := "진행 중" // still running
		if s.EndedAt != nil {
			state = humanize.Time(time.UnixMilli(*s.EndedAt).In(time.Local))
		}
		label := s.TypeLabel
		if s.CustomLabel != "" {
			label = s.CustomLabel
		}
		fmt.Printf("%s  %-16s %5d  (%s)\n", started.Format("15:04"), label, s.Count, state)
		total += s.Count
	}
	fmt.Printf("\n%s 합계: %d\n", ymd, total)
	return nil
}
