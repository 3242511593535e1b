package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yeomju/internal/core/sync"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to sync your counts",
	Long: `Sign in with email and password. The password is read from stdin.

After signing in, your remote history is pulled into the local database
and new sessions mirror to your account.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if e.cfg.AuthEndpoint == "" {
		return fmt.Errorf("no auth endpoint configured (set auth_endpoint in config.toml)")
	}

	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	user, err := e.auth.SignIn(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", user.Email)

	// Pull remote history right away, the way the app does on sign-in.
	if e.remote != nil {
		w := sync.NewWorker(e.db, e.remote, e.auth, 0)
		n, err := w.Pull(context.Background())
		if err != nil {
			fmt.Printf("Warning: could not pull remote history: %v\n", err)
			return nil
		}
		fmt.Printf("Pulled %d session(s) from your account\n", n)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	e.auth.SignOut()
	fmt.Println("Signed out")
	return nil
}
