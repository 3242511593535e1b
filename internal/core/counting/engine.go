// Package counting holds the counter state machine: the current count, the
// running session, the big-step size and the day's recent log entries, all
// replaced as one atomic snapshot. Persistence is optimistic: the snapshot
// updates first and storage writes follow in the background.
package counting

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"yeomju/internal/core/chant"
	"yeomju/internal/core/models"
	"yeomju/internal/core/voice"
	"yeomju/internal/core/watch"
)

// maxLogEntries bounds the in-memory log list; older entries stay in the
// store and are reachable through the log queries.
const maxLogEntries = 100

// State is one snapshot of the counter.
type State struct {
	Count   int
	Session *models.ChantSession // nil when no session is running
	BigStep int
	Logs    []models.CountLogEntry // newest first, capped
	Marker  *models.CountLogEntry  // open voice marker of the running session
}

// Running reports whether a session is in progress.
func (s State) Running() bool {
	return s.Session != nil
}

// Engine drives counting. All mutation goes through the observable State;
// callers never see a half-applied transition.
type Engine struct {
	repo      *chant.Repository
	newSpeech func() voice.Engine
	language  string
	now       func() time.Time

	state     *watch.Value[State]
	listening *watch.Value[bool]
	heard     *watch.Value[string]

	mu        sync.Mutex
	stopVoice func()
}

// NewEngine creates an engine over the repository. newSpeech builds a fresh
// recognition engine per session (recognizers are single-use once released).
// A session left running by a previous process is adopted as the running
// session, along with its day's log entries.
func NewEngine(repo *chant.Repository, newSpeech func() voice.Engine, language string, bigStep int) (*Engine, error) {
	if bigStep <= 0 {
		bigStep = 10
	}
	e := &Engine{
		repo:      repo,
		newSpeech: newSpeech,
		language:  language,
		now:       time.Now,
		state:     watch.NewValue(State{BigStep: bigStep}),
		listening: watch.NewValue(false),
		heard:     watch.NewValue(""),
	}

	running, err := repo.CurrentRunning()
	if err != nil {
		return nil, fmt.Errorf("recover running session: %w", err)
	}

	ymd := models.DayKey(e.now())
	if running != nil {
		ymd = running.YMD
	}
	logs, err := repo.LogsOfDay(ymd)
	if err != nil {
		return nil, fmt.Errorf("load day log: %w", err)
	}
	if len(logs) > maxLogEntries {
		logs = logs[:maxLogEntries]
	}

	var marker *models.CountLogEntry
	if running != nil {
		for i := range logs {
			if logs[i].Open() {
				marker = &logs[i]
				break
			}
		}
	}

	st := State{BigStep: bigStep, Logs: logs, Session: running, Marker: marker}
	if running != nil {
		st.Count = running.Count
	}
	e.state.Store(st)
	return e, nil
}

// State returns the observable counter state.
func (e *Engine) State() *watch.Value[State] {
	return e.state
}

// Listening reports whether keyword recognition is capturing.
func (e *Engine) Listening() *watch.Value[bool] {
	return e.listening
}

// Heard exposes the last text the recognizer produced.
func (e *Engine) Heard() *watch.Value[string] {
	return e.heard
}

// ChangeCount applies delta to the count, clamping at zero. When shouldLog
// is set the change is prepended to the day's log and stored; voice hits
// pass shouldLog=false because the session's voice marker already covers
// them. The new absolute count is persisted against the running session in
// the background.
func (e *Engine) ChangeCount(delta int, source models.CountSource, shouldLog bool) {
	ts := e.now()
	millis := ts.UnixMilli()
	ymd := models.DayKey(ts)

	st := e.state.Update(func(s State) State {
		next := s.Count + delta
		if next < 0 {
			next = 0
		}
		if shouldLog {
			entry := models.CountLogEntry{
				YMD:       ymd,
				Timestamp: millis,
				Source:    source,
				Delta:     next - s.Count,
				Total:     next,
			}
			logs := make([]models.CountLogEntry, 0, len(s.Logs)+1)
			logs = append(logs, entry)
			logs = append(logs, s.Logs...)
			if len(logs) > maxLogEntries {
				logs = logs[:maxLogEntries]
			}
			s.Logs = logs
		}
		s.Count = next
		return s
	})

	if shouldLog {
		entry := st.Logs[0]
		go func() { _, _ = e.repo.InsertLog(&entry) }()
	}
	if st.Session != nil {
		sess := *st.Session
		count := st.Count
		go func() { _ = e.repo.SetCount(&sess, count) }()
	}
}

// StartSession opens a session for the chant type, resets the count, writes
// the open voice marker and begins keyword listening. Custom chant text is
// trimmed; blank custom text falls back to the type label. Fails when a
// session is already running.
func (e *Engine) StartSession(t models.ChantType, customLabel string) error {
	if e.state.Load().Running() {
		return fmt.Errorf("a session is already running")
	}

	start := e.now()
	label := t.Label()
	custom := ""
	chantText := label
	if t.IsCustom() {
		custom = strings.TrimSpace(customLabel)
		if custom != "" {
			chantText = custom
		}
	}

	sess := &models.ChantSession{
		TypeLabel:   label,
		CustomLabel: custom,
		StartedAt:   start.UnixMilli(),
		YMD:         models.DayKey(start),
	}
	if _, err := e.repo.StartSession(sess); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	marker := &models.CountLogEntry{
		YMD:       sess.YMD,
		Timestamp: start.UnixMilli(),
		Source:    models.SourceVoice,
		Delta:     0,
		Total:     0,
	}
	if id, err := e.repo.InsertLog(marker); err == nil {
		marker.ID = id
	}

	e.state.Update(func(s State) State {
		logs := make([]models.CountLogEntry, 0, len(s.Logs)+1)
		logs = append(logs, *marker)
		logs = append(logs, s.Logs...)
		if len(logs) > maxLogEntries {
			logs = logs[:maxLogEntries]
		}
		s.Count = 0
		s.Session = sess
		s.Marker = marker
		s.Logs = logs
		return s
	})

	e.startVoice(KeywordsFor(chantText))
	return nil
}

// StopSession closes the running session: persists the end time, stops
// keyword listening and finalizes the voice marker with the voice segment's
// delta and end time. A call with no running session is a no-op.
func (e *Engine) StopSession() error {
	st := e.state.Load()
	if st.Session == nil {
		return nil
	}

	end := e.now().UnixMilli()
	e.stopVoiceSession()

	sess := *st.Session
	sess.Count = st.Count
	if err := e.repo.StopSession(&sess, end); err != nil {
		return fmt.Errorf("stop session: %w", err)
	}

	var finalized *models.CountLogEntry
	if st.Marker != nil {
		fin := *st.Marker
		fin.Delta = st.Count - fin.Total
		fin.Total = st.Count
		fin.EndTimestamp = &end
		if err := e.repo.UpdateLog(&fin); err == nil {
			finalized = &fin
		}
	}

	e.state.Update(func(s State) State {
		s.Session = nil
		s.Marker = nil
		if finalized != nil {
			logs := make([]models.CountLogEntry, len(s.Logs))
			copy(logs, s.Logs)
			for i := range logs {
				if logs[i].YMD == finalized.YMD && logs[i].Timestamp == finalized.Timestamp {
					logs[i] = *finalized
					break
				}
			}
			s.Logs = logs
		}
		return s
	})
	return nil
}

// SetBigStep changes the big-increment size. Non-positive values are
// rejected.
func (e *Engine) SetBigStep(step int) error {
	if step <= 0 {
		return fmt.Errorf("big step must be positive, got %d", step)
	}
	e.state.Update(func(s State) State {
		s.BigStep = step
		return s
	})
	return nil
}

// DeleteLogEntries removes the log rows with the given timestamps from the
// store and the snapshot. Empty input is a no-op.
func (e *Engine) DeleteLogEntries(timestamps []int64) error {
	if len(timestamps) == 0 {
		return nil
	}
	if err := e.repo.DeleteLogsByTimestamps(timestamps); err != nil {
		return fmt.Errorf("delete log entries: %w", err)
	}

	drop := make(map[int64]bool, len(timestamps))
	for _, ts := range timestamps {
		drop[ts] = true
	}
	e.state.Update(func(s State) State {
		logs := make([]models.CountLogEntry, 0, len(s.Logs))
		for _, l := range s.Logs {
			if !drop[l.Timestamp] {
				logs = append(logs, l)
			}
		}
		s.Logs = logs
		return s
	})
	return nil
}

// startVoice spins up a fresh recognition session and forwards its
// observables onto the engine-level ones so subscribers survive session
// turnover.
func (e *Engine) startVoice(keywords []string) {
	vs := voice.NewSession(e.newSpeech(), e.language)

	lch, lcancel := vs.Listening().Subscribe()
	hch, hcancel := vs.Heard().Subscribe()
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case v := <-lch:
				e.listening.Store(v)
			case t := <-hch:
				e.heard.Store(t)
			case <-done:
				return
			}
		}
	}()

	e.mu.Lock()
	e.stopVoice = func() {
		lcancel()
		hcancel()
		close(done)
		<-exited
		vs.Stop()
		e.listening.Store(false)
	}
	e.mu.Unlock()

	vs.Start(keywords, func() {
		e.ChangeCount(1, models.SourceVoice, false)
	})
	// Reflect the start outcome immediately; later transitions arrive via the
	// forwarding goroutine.
	e.listening.Store(vs.Listening().Load())
}

func (e *Engine) stopVoiceSession() {
	e.mu.Lock()
	stop := e.stopVoice
	e.stopVoice = nil
	e.mu.Unlock()
	if stop != nil {
		stop()
	}
}
