package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"yeomju/internal/core/chant"
	"yeomju/internal/core/counting"
	"yeomju/internal/core/voice"
	"yeomju/internal/interface/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive counter",
	Long:  "Launch the interactive terminal counter: start sessions, count by key or by voice, watch the day's log.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	repo := chant.NewRepository(e.db, e.remote, e.auth)
	newSpeech := func() voice.Engine {
		if len(e.cfg.RecognizerCommand) > 0 {
			return voice.NewCommandEngine(e.cfg.RecognizerCommand)
		}
		return voice.NopEngine{}
	}
	engine, err := counting.NewEngine(repo, newSpeech, e.cfg.Language, e.cfg.BigStep)
	if err != nil {
		return fmt.Errorf("failed to start counter: %w", err)
	}

	model := tui.New(engine)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Leave a running session running: it is adopted on next launch.
	return nil
}
