package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show a month's daily totals",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMonth,
}

func init() {
	rootCmd.AddCommand(monthCmd)
}

func runMonth(cmd *cobra.Command, args []string) error {
	first := time.Now().In(time.Local)
	if len(args) > 0 {
		parsed, err := time.ParseInLocation("2006-01", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM)", args[0])
		}
		first = parsed
	}
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	totals, err := e.db.DayTotals(first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("failed to load totals: %w", err)
	}
	if len(totals) == 0 {
		fmt.Printf("No sessions in %s\n", first.Format("2006-01"))
		return nil
	}

	grand := 0
	for _, d := range totals {
		fmt.Printf("%s %6d\n", d.YMD, d.Total)
		grand += d.Total
	}
	fmt.Printf("%s월 합계: %d\n", first.Format("2006-01"), grand)
	return nil
}
