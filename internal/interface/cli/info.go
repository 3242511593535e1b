package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show database and account info",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	fmt.Println("yeomju")
	fmt.Println("======")
	fmt.Println()

	var totalSessions int
	if err := e.db.QueryRow("SELECT COUNT(*) FROM chant_sessions").Scan(&totalSessions); err != nil {
		return fmt.Errorf("failed to count sessions: %w", err)
	}
	fmt.Printf("Sessions:     %d\n", totalSessions)

	var totalLogs int
	if err := e.db.QueryRow("SELECT COUNT(*) FROM chant_logs").Scan(&totalLogs); err != nil {
		return fmt.Errorf("failed to count log entries: %w", err)
	}
	fmt.Printf("Log entries:  %d\n", totalLogs)

	var grandTotal int
	if err := e.db.QueryRow("SELECT COALESCE(SUM(count), 0) FROM chant_sessions").Scan(&grandTotal); err != nil {
		return fmt.Errorf("failed to sum counts: %w", err)
	}
	fmt.Printf("Total count:  %d\n", grandTotal)
	fmt.Println()

	if u := e.auth.Current(); u != nil {
		fmt.Printf("Signed in as: %s\n", u.Email)
		var unsynced int
		if err := e.db.QueryRow("SELECT COUNT(*) FROM chant_sessions WHERE user_id IS NOT NULL AND synced_at < updated_at").Scan(&unsynced); err == nil {
			fmt.Printf("Unsynced:     %d\n", unsynced)
		}
	} else {
		fmt.Println("Signed in as: (not signed in)")
	}
	fmt.Println()

	fmt.Printf("Database:     %s\n", e.cfg.DBPath)
	if fileInfo, err := os.Stat(e.cfg.DBPath); err == nil {
		fmt.Printf("Size:         %s\n", formatBytes(fileInfo.Size()))
	}
	fmt.Printf("Language:     %s\n", e.cfg.Language)
	if len(e.cfg.RecognizerCommand) > 0 {
		fmt.Printf("Recognizer:   %v\n", e.cfg.RecognizerCommand)
	} else {
		fmt.Println("Recognizer:   (none; voice counting disabled)")
	}
	return nil
}

// formatBytes formats bytes into human-readable format
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
