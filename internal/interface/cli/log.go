package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"yeomju/internal/core/models"
)

var logDelete []int64

var logCmd = &cobra.Command{
	Use:   "log [when]",
	Short: "Show a day's count log",
	Long: `List every count event of a day, newest first.

The day can be an exact date or natural language:
  yeomju log
  yeomju log yesterday
  yeomju log 2025-10-01
  yeomju log last monday

Delete entries by their timestamp:
  yeomju log --delete 1759293127000`,
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().Int64SliceVar(&logDelete, "delete", nil, "Delete log entries by timestamp (repeatable)")
}

func runLog(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if len(logDelete) > 0 {
		if err := e.db.DeleteLogsByTimestamps(logDelete); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
		fmt.Printf("Deleted %d entry(s)\n", len(logDelete))
		return nil
	}

	day, err := parseDay(args)
	if err != nil {
		return err
	}
	ymd := models.DayKey(day)

	entries, err := e.db.LogsOfDay(ymd)
	if err != nil {
		return fmt.Errorf("failed to load log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Printf("No entries on %s\n", ymd)
		return nil
	}

	for _, entry := range entries {
		at := time.UnixMilli(entry.Timestamp).In(time.Local)
		switch {
		case entry.Open():
			fmt.Printf("%s  %-13s      (음성 구간 진행 중)  [%d]\n", at.Format("15:04:05"), entry.Source, entry.Timestamp)
		case entry.Source == models.SourceVoice:
			end := time.UnixMilli(*entry.EndTimestamp).In(time.Local)
			fmt.Printf("%s  %-13s %+4d → %-5d (~%s)  [%d]\n",
				at.Format("15:04:05"), entry.Source, entry.Delta, entry.Total, end.Format("15:04:05"), entry.Timestamp)
		default:
			fmt.Printf("%s  %-13s %+4d → %-5d  [%d]\n",
				at.Format("15:04:05"), entry.Source, entry.Delta, entry.Total, entry.Timestamp)
		}
	}
	return nil
}
