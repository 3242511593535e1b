package voice

import (
	"strings"
	"sync"
	"time"

	"yeomju/internal/core/watch"
)

// HitCooldown is the minimum gap between two accepted keyword matches. One
// spoken phrase surfaces in several overlapping partial callbacks; the
// cooldown collapses them into a single hit.
const HitCooldown = 1000 * time.Millisecond

// Session keeps an engine listening continuously and fires onHit at most
// once per cooldown window when a keyword appears in recognized speech.
//
// The engine only supports one-shot listen cycles, so the session re-issues
// a listen request after every final result and after every recoverable
// error. An unrecoverable error leaves the session inert; the caller
// discovers this by observing Listening, never via an error return.
type Session struct {
	engine Engine
	cfg    ListenConfig
	now    func() time.Time

	listening *watch.Value[bool]
	heard     *watch.Value[string]

	mu        sync.Mutex
	active    bool // should keep listening; cleared only by Stop or a fatal error
	keywords  []string
	onHit     func()
	lastHitAt time.Time
}

// NewSession creates a session bound to an engine. language is the BCP-47
// tag passed to every listen cycle.
func NewSession(engine Engine, language string) *Session {
	return &Session{
		engine:    engine,
		cfg:       ListenConfig{Language: language, PartialResults: true},
		now:       time.Now,
		listening: watch.NewValue(false),
		heard:     watch.NewValue(""),
	}
}

// Listening exposes whether the session is capturing (or restarting
// capture). False in the initial state, after Stop, and after a fatal
// engine error.
func (s *Session) Listening() *watch.Value[bool] {
	return s.listening
}

// Heard exposes the last recognized text, updated on every partial or final
// result regardless of match outcome. Diagnostic only.
func (s *Session) Heard() *watch.Value[string] {
	return s.heard
}

// Start begins continuous capture for the given keywords. If the platform
// reports recognition unavailable this is a silent no-op: Listening stays
// false and no error is returned.
func (s *Session) Start(keywords []string, onHit func()) {
	if !s.engine.Available() {
		return
	}

	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	s.mu.Lock()
	s.active = true
	s.keywords = lowered
	s.onHit = onHit
	s.mu.Unlock()

	s.listening.Store(true)
	if err := s.engine.StartListening(s.cfg, s); err != nil {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		s.listening.Store(false)
	}
}

// Stop ends the session and releases engine resources. Idempotent; after
// Stop returns, no further onHit invocations originate from this session
// (a hit already in flight may still complete).
func (s *Session) Stop() {
	s.mu.Lock()
	wasActive := s.active
	s.active = false
	s.mu.Unlock()

	s.listening.Store(false)
	if wasActive {
		s.engine.Cancel()
		s.engine.StopListening()
	}
	s.engine.Release()
}

// OnPartialResults implements Listener.
func (s *Session) OnPartialResults(candidates []string) {
	s.parse(candidates)
}

// OnResults implements Listener. A final result ends the engine's listen
// cycle, so a new one is issued immediately.
func (s *Session) OnResults(candidates []string) {
	s.parse(candidates)
	s.restart()
}

// OnError implements Listener. Recoverable errors restart capture in place;
// anything else ends the session without propagating past this boundary.
func (s *Session) OnError(code ErrorCode) {
	if code.Recoverable() {
		s.engine.Cancel()
		s.restart()
		return
	}

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
	s.listening.Store(false)
}

// parse checks one batch of utterance candidates against the keyword set.
// Substring containment tolerates recognizer noise around the keyword; a
// keyword inside an unrelated longer phrase also matches, an accepted
// false-positive tradeoff.
func (s *Session) parse(candidates []string) {
	if len(candidates) == 0 {
		return
	}
	text := strings.ToLower(strings.Join(candidates, " "))
	s.heard.Store(text)

	now := s.now()

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	if now.Sub(s.lastHitAt) < HitCooldown {
		s.mu.Unlock()
		return
	}
	matched := false
	for _, k := range s.keywords {
		if strings.Contains(text, k) {
			matched = true
			break
		}
	}
	if matched {
		s.lastHitAt = now
	}
	onHit := s.onHit
	s.mu.Unlock()

	if matched && onHit != nil {
		onHit()
	}
}

func (s *Session) restart() {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if !active {
		return
	}
	if err := s.engine.StartListening(s.cfg, s); err != nil {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		s.listening.Store(false)
	}
}
