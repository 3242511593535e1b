// Package voice wraps a one-shot speech recognition engine into a
// continuously-listening keyword session. The engine itself is an external
// collaborator: implementations only have to deliver utterance candidates
// and error codes to a Listener.
package voice

// ErrorCode classifies engine failures. Timeout and no-match are recoverable
// and restart capture in place; everything else ends the session.
type ErrorCode int

const (
	ErrTimeout ErrorCode = iota + 1
	ErrNoMatch
	ErrAudio
	ErrBusy
	ErrClient
	ErrNetwork
)

// Recoverable reports whether the session should retry capture after this
// error instead of going inert.
func (c ErrorCode) Recoverable() bool {
	return c == ErrTimeout || c == ErrNoMatch
}

func (c ErrorCode) String() string {
	switch c {
	case ErrTimeout:
		return "timeout"
	case ErrNoMatch:
		return "no-match"
	case ErrAudio:
		return "audio"
	case ErrBusy:
		return "busy"
	case ErrClient:
		return "client"
	case ErrNetwork:
		return "network"
	}
	return "unknown"
}

// Listener receives the callbacks of one listen cycle.
type Listener interface {
	// OnPartialResults delivers interim utterance candidates.
	OnPartialResults(candidates []string)
	// OnResults delivers the final candidates of the cycle. The cycle is
	// over after this call; a continuous session issues a new listen.
	OnResults(candidates []string)
	// OnError ends the cycle with an error code.
	OnError(code ErrorCode)
}

// ListenConfig parametrizes one listen cycle.
type ListenConfig struct {
	Language       string // BCP-47 tag, e.g. "ko-KR"
	PartialResults bool
}

// Engine is the platform recognition engine. A single listen cycle runs per
// StartListening call; Cancel aborts the in-flight cycle without callbacks,
// StopListening ends it gracefully, Release frees all engine resources.
type Engine interface {
	Available() bool
	StartListening(cfg ListenConfig, l Listener) error
	StopListening()
	Cancel()
	Release()
}

// NopEngine reports recognition unavailable. Used on platforms with no
// recognizer configured; a session started on it stays silently idle.
type NopEngine struct{}

func (NopEngine) Available() bool { return false }

func (NopEngine) StartListening(ListenConfig, Listener) error { return nil }

func (NopEngine) StopListening() {}

func (NopEngine) Cancel() {}

func (NopEngine) Release() {}
