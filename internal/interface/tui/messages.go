package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"yeomju/internal/core/counting"
)

type stateMsg struct {
	state counting.State
}

type listeningMsg struct {
	listening bool
}

type heardMsg struct {
	text string
}

// waitForState blocks on the engine's state channel and converts the next
// snapshot into a message. Re-issued after every receipt.
func waitForState(ch <-chan counting.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: <-ch}
	}
}

func waitForListening(ch <-chan bool) tea.Cmd {
	return func() tea.Msg {
		return listeningMsg{listening: <-ch}
	}
}

func waitForHeard(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return heardMsg{text: <-ch}
	}
}
