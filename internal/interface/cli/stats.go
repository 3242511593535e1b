package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"yeomju/internal/core/models"
	"yeomju/internal/core/stats"
)

var (
	statsBy   string
	statsType string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chant totals over time",
	Long: `Group chant counts by hour, day, week, month or year.

Examples:
  yeomju stats                       Daily totals, all chants
  yeomju stats --by month            Monthly totals
  yeomju stats --by week --type gwanseum`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsBy, "by", "day", "Grouping: hour, day, week, month or year")
	statsCmd.Flags().StringVar(&statsType, "type", "", "Only count one chant type")
}

func runStats(cmd *cobra.Command, args []string) error {
	agg, err := stats.ParseAggregation(statsBy)
	if err != nil {
		return err
	}

	var filter *models.ChantType
	if statsType != "" {
		filter, err = chantTypeFromFlag(statsType)
		if err != nil {
			return err
		}
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	sessions, err := e.db.AllSessions()
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	points := stats.Load(sessions, agg, filter)
	if len(points) == 0 {
		fmt.Println("No sessions yet")
		return nil
	}

	grand := 0
	for _, p := range points {
		fmt.Printf("%-14s %6d\n", p.Label, p.Total)
		grand += p.Total
	}
	fmt.Printf("%-14s %6d\n", "합계", grand)
	return nil
}
