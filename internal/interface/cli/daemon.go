package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"yeomju/internal/core/sync"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background sync worker",
	Long: `Run the sync worker in the foreground: every sync interval, sessions
changed since their last push are uploaded to your account.

Stop with Ctrl-C. Requires being signed in and a configured remote
endpoint.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Sync interval: %s\n", e.cfg.SyncInterval)
	w := sync.NewWorker(e.db, e.remote, e.auth, e.cfg.SyncInterval)
	if err := w.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
