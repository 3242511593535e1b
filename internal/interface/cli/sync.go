package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"yeomju/internal/core/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync with your account",
	Long: `Push locally changed sessions to your account and pull the remote
history into the local database. Requires being signed in.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if e.remote == nil {
		return fmt.Errorf("no remote endpoint configured (set remote_endpoint in config.toml)")
	}
	if e.auth.Current() == nil {
		return fmt.Errorf("not signed in (run 'yeomju login <email>')")
	}

	w := sync.NewWorker(e.db, e.remote, e.auth, 0)

	n, err := w.Pull(cmd.Context())
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	fmt.Printf("Pulled %d session(s)\n", n)

	if err := w.Push(cmd.Context()); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}
