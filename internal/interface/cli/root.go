package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath      string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "yeomju",
	Short: "Chant counter",
	Long: `yeomju - count chants by voice or by hand

A personal chanting companion: start a session, count with keyboard or
speech-keyword detection, and review totals by day, week, month or year.
Counts live in a local sqlite database and mirror to your account when
signed in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	// Global flags; empty default means "use the configured path"
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: from config)")
}
