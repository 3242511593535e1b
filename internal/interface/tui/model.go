// Package tui is the interactive counter screen: the live count, the
// running session, voice status and the day's recent log, driven by the
// counting engine's observable state.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"yeomju/internal/core/counting"
	"yeomju/internal/core/models"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputCustomLabel
	inputBigStep
)

type Model struct {
	engine *counting.Engine

	state     counting.State
	listening bool
	heard     string

	typeIdx int
	input   textinput.Model
	mode    inputMode

	width  int
	height int
	err    error

	stateCh     <-chan counting.State
	listeningCh <-chan bool
	heardCh     <-chan string
	cancels     []func()
}

func New(engine *counting.Engine) Model {
	stateCh, cancelState := engine.State().Subscribe()
	listeningCh, cancelListening := engine.Listening().Subscribe()
	heardCh, cancelHeard := engine.Heard().Subscribe()

	ti := textinput.New()
	ti.CharLimit = 64

	return Model{
		engine:      engine,
		state:       engine.State().Load(),
		input:       ti,
		stateCh:     stateCh,
		listeningCh: listeningCh,
		heardCh:     heardCh,
		cancels:     []func(){cancelState, cancelListening, cancelHeard},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.stateCh),
		waitForListening(m.listeningCh),
		waitForHeard(m.heardCh),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = msg.state
		return m, waitForState(m.stateCh)

	case listeningMsg:
		m.listening = msg.listening
		return m, waitForListening(m.listeningCh)

	case heardMsg:
		m.heard = msg.text
		return m, waitForHeard(m.heardCh)

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch msg.String() {
	case "ctrl+c", "q":
		for _, cancel := range m.cancels {
			cancel()
		}
		return m, tea.Quit

	case " ", "j":
		m.engine.ChangeCount(1, models.SourceManualSmall, true)
		return m, nil

	case "b":
		m.engine.ChangeCount(m.state.BigStep, models.SourceManualBig, true)
		return m, nil

	case "x":
		m.engine.ChangeCount(-1, models.SourceManualSmall, true)
		return m, nil

	case "X":
		m.engine.ChangeCount(-m.state.BigStep, models.SourceManualBig, true)
		return m, nil

	case "s", "enter":
		if m.state.Running() {
			m.err = m.engine.StopSession()
			return m, nil
		}
		t := models.ChantTypes()[m.typeIdx]
		if t.IsCustom() {
			m.mode = inputCustomLabel
			m.input.Placeholder = "직접 입력할 염불"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
		m.err = m.engine.StartSession(t, "")
		return m, nil

	case "tab", "t":
		if !m.state.Running() {
			m.typeIdx = (m.typeIdx + 1) % len(models.ChantTypes())
		}
		return m, nil

	case "g":
		m.mode = inputBigStep
		m.input.Placeholder = strconv.Itoa(m.state.BigStep)
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = inputNone
		m.input.Blur()
		return m, nil

	case "enter":
		value := m.input.Value()
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()

		switch mode {
		case inputCustomLabel:
			m.err = m.engine.StartSession(models.TypeCustom, value)
		case inputBigStep:
			step, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				m.err = fmt.Errorf("big step must be a number")
			} else {
				m.err = m.engine.SetBigStep(step)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("염주"))
	b.WriteString("\n\n")

	b.WriteString(countStyle.Render(fmt.Sprintf("%d", m.state.Count)))
	b.WriteString("\n\n")

	if m.state.Running() {
		label := m.state.Session.TypeLabel
		if m.state.Session.CustomLabel != "" {
			label = m.state.Session.CustomLabel
		}
		b.WriteString(labelStyle.Render(label))
		started := time.UnixMilli(m.state.Session.StartedAt).In(time.Local)
		b.WriteString(helpStyle.Render(fmt.Sprintf("  %s부터", started.Format("15:04"))))
		if m.listening {
			b.WriteString("  ")
			b.WriteString(listeningStyle.Render("듣는 중"))
		}
		b.WriteString("\n")
		if m.heard != "" {
			b.WriteString(heardStyle.Render("〝" + m.heard + "〞"))
			b.WriteString("\n")
		}
	} else {
		t := models.ChantTypes()[m.typeIdx]
		b.WriteString(helpStyle.Render("선택: "))
		b.WriteString(labelStyle.Render(t.Label()))
		b.WriteString(helpStyle.Render("  (tab: 바꾸기, s: 시작)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.mode != inputNone {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	for i, entry := range m.state.Logs {
		if i >= 8 {
			break
		}
		b.WriteString(logStyle.Render(formatLogLine(entry)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	help := "space/j: +1  b: +%d  x: -1  X: -%d  s: 시작/종료  g: 단위  q: 종료"
	b.WriteString(helpStyle.Render(fmt.Sprintf(help, m.state.BigStep, m.state.BigStep)))
	b.WriteString("\n")

	return b.String()
}

func formatLogLine(entry models.CountLogEntry) string {
	at := time.UnixMilli(entry.Timestamp).In(time.Local).Format("15:04:05")
	if entry.Open() {
		return fmt.Sprintf("%s  음성 구간 진행 중", at)
	}
	return fmt.Sprintf("%s  %-13s %+4d → %d", at, entry.Source, entry.Delta, entry.Total)
}
