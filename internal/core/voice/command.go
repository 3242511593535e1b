package voice

import (
	"bufio"
	"os/exec"
	"sync"
	"time"
)

// DefaultListenTimeout is how long one listen cycle waits for a transcript
// line before reporting a recoverable timeout.
const DefaultListenTimeout = 10 * time.Second

// CommandEngine adapts an external speech-to-text process into the Engine
// contract. The configured command is expected to print one transcript per
// line on stdout (e.g. a whisper/vosk streaming wrapper). Each line is
// delivered as the final result of the current listen cycle; a cycle with no
// line within the timeout reports ErrTimeout, which the session treats as
// recoverable and retries.
type CommandEngine struct {
	argv    []string
	timeout time.Duration

	mu       sync.Mutex
	cmd      *exec.Cmd
	lines    chan string
	cancelCh chan struct{} // aborts the in-flight listen cycle
	released bool
}

// NewCommandEngine creates an engine running argv. A nil or empty argv
// yields an unavailable engine.
func NewCommandEngine(argv []string) *CommandEngine {
	return &CommandEngine{argv: argv, timeout: DefaultListenTimeout}
}

// Available implements Engine. The engine is available when a command is
// configured and resolvable on PATH.
func (e *CommandEngine) Available() bool {
	if len(e.argv) == 0 {
		return false
	}
	_, err := exec.LookPath(e.argv[0])
	return err == nil
}

// StartListening implements Engine. The recognizer process is spawned on
// the first cycle and shared by all subsequent ones until Release.
func (e *CommandEngine) StartListening(cfg ListenConfig, l Listener) error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return nil
	}
	if e.cmd == nil {
		if err := e.spawnLocked(cfg); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	// A new cycle supersedes any still-pending one.
	if e.cancelCh != nil {
		close(e.cancelCh)
	}
	cancelCh := make(chan struct{})
	e.cancelCh = cancelCh
	lines := e.lines
	timeout := e.timeout
	e.mu.Unlock()

	go func() {
		select {
		case line, ok := <-lines:
			if !ok {
				// Recognizer process died; not recoverable from here.
				l.OnError(ErrClient)
				return
			}
			l.OnResults([]string{line})
		case <-time.After(timeout):
			l.OnError(ErrTimeout)
		case <-cancelCh:
		}
	}()
	return nil
}

func (e *CommandEngine) spawnLocked(cfg ListenConfig) error {
	cmd := exec.Command(e.argv[0], append(e.argv[1:], "--language", cfg.Language)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if text := scanner.Text(); text != "" {
				lines <- text
			}
		}
		close(lines)
	}()

	e.cmd = cmd
	e.lines = lines
	return nil
}

// StopListening implements Engine. Ends the in-flight cycle without
// delivering further callbacks; the process keeps running for the next one.
func (e *CommandEngine) StopListening() {
	e.Cancel()
}

// Cancel implements Engine.
func (e *CommandEngine) Cancel() {
	e.mu.Lock()
	if e.cancelCh != nil {
		close(e.cancelCh)
		e.cancelCh = nil
	}
	e.mu.Unlock()
}

// Release implements Engine. Kills the recognizer process; the engine is
// unusable afterwards.
func (e *CommandEngine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released = true
	if e.cancelCh != nil {
		close(e.cancelCh)
		e.cancelCh = nil
	}
	if e.cmd != nil && e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
		go func(c *exec.Cmd) { _ = c.Wait() }(e.cmd)
	}
	e.cmd = nil
}
