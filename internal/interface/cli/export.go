package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"yeomju/internal/core/models"
	"yeomju/internal/core/report"
)

var (
	exportOutput string
	exportCopy   bool
)

var exportCmd = &cobra.Command{
	Use:   "export [when]",
	Short: "Export a day report",
	Long: `Render a day of chanting as shareable text.

By default the report prints to stdout. Use --copy to put it on the
clipboard or --output to write a file. A custom mustache template at
~/.config/yeomju/report_template.txt overrides the default layout.

Examples:
  yeomju export
  yeomju export yesterday --copy
  yeomju export 2025-10-01 -o report.txt`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write the report to a file")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the report to the clipboard")
}

func runExport(cmd *cobra.Command, args []string) error {
	day, err := parseDay(args)
	if err != nil {
		return err
	}
	ymd := models.DayKey(day)

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	sessions, err := e.db.SessionsOfDay(ymd)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	out, err := report.Build(e.cfg.ConfigDir, ymd, sessions)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if exportCopy {
		if err := clipboard.WriteAll(out); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Println("Report copied to clipboard")
		return nil
	}

	if exportOutput != "" {
		path := exportOutput
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Printf("Exported report to: %s\n", path)
		return nil
	}

	fmt.Print(out)
	return nil
}
