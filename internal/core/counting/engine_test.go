package counting

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"yeomju/internal/core/chant"
	"yeomju/internal/core/db"
	"yeomju/internal/core/models"
	"yeomju/internal/core/voice"
)

type fakeSpeech struct {
	mu        sync.Mutex
	available bool
	listener  voice.Listener
	starts    int
	released  bool
}

func (f *fakeSpeech) Available() bool { return f.available }

func (f *fakeSpeech) StartListening(cfg voice.ListenConfig, l voice.Listener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = l
	f.starts++
	return nil
}

func (f *fakeSpeech) StopListening() {}
func (f *fakeSpeech) Cancel()       {}

func (f *fakeSpeech) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
}

func (f *fakeSpeech) speak(text string) {
	f.mu.Lock()
	l := f.listener
	f.mu.Unlock()
	if l != nil {
		l.OnPartialResults([]string{text})
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestEngine(t *testing.T) (*Engine, *chant.Repository, *fakeSpeech, *fakeClock) {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	repo := chant.NewRepository(database, nil, nil)
	speech := &fakeSpeech{available: true}
	eng, err := NewEngine(repo, func() voice.Engine { return speech }, "ko-KR", 10)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	clock := &fakeClock{t: time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local)}
	eng.now = clock.Now
	return eng, repo, speech, clock
}

// waitFor polls cond until it holds or the deadline passes. Background
// persistence is fire-and-forget, so storage assertions poll.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestChangeCountClampsAtZero(t *testing.T) {
	eng, _, _, clock := newTestEngine(t)

	eng.ChangeCount(3, models.SourceManualSmall, true)
	clock.Advance(time.Millisecond)
	eng.ChangeCount(-10, models.SourceManualBig, true)

	st := eng.State().Load()
	if st.Count != 0 {
		t.Errorf("count = %d, want 0 after clamp", st.Count)
	}
	if len(st.Logs) != 2 {
		t.Fatalf("logs = %d entries, want 2", len(st.Logs))
	}
	// The clamped entry records the applied delta, not the requested one.
	if st.Logs[0].Delta != -3 || st.Logs[0].Total != 0 {
		t.Errorf("clamped entry = %+v, want delta -3 total 0", st.Logs[0])
	}
}

func TestChangeCountLogsAndPersists(t *testing.T) {
	eng, repo, _, _ := newTestEngine(t)

	eng.ChangeCount(1, models.SourceManualSmall, true)

	st := eng.State().Load()
	if st.Count != 1 {
		t.Errorf("count = %d, want 1", st.Count)
	}
	if len(st.Logs) != 1 || st.Logs[0].Source != models.SourceManualSmall || st.Logs[0].Total != 1 {
		t.Errorf("logs = %+v, want one MANUAL_SMALL entry with total 1", st.Logs)
	}

	ymd := st.Logs[0].YMD
	waitFor(t, func() bool {
		logs, err := repo.LogsOfDay(ymd)
		return err == nil && len(logs) == 1
	}, "log entry never reached the store")
}

func TestStartSession(t *testing.T) {
	eng, repo, speech, _ := newTestEngine(t)

	if err := eng.StartSession(models.TypeGwanseum, ""); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	st := eng.State().Load()
	if !st.Running() || st.Count != 0 {
		t.Errorf("state = %+v, want running with count 0", st)
	}
	if st.Marker == nil || !st.Marker.Open() {
		t.Errorf("marker = %+v, want open voice marker", st.Marker)
	}
	if speech.starts != 1 {
		t.Errorf("speech starts = %d, want 1", speech.starts)
	}
	if !eng.Listening().Load() {
		t.Error("Listening() = false, want true while capturing")
	}

	running, err := repo.CurrentRunning()
	if err != nil || running == nil {
		t.Fatalf("CurrentRunning() = %v, %v; want the new session", running, err)
	}
	if running.TypeLabel != "관세음보살" {
		t.Errorf("persisted label = %q", running.TypeLabel)
	}

	if err := eng.StartSession(models.TypeJijang, ""); err == nil {
		t.Error("second StartSession() should fail while one is running")
	}
}

func TestStartSessionCustomLabelFallback(t *testing.T) {
	eng, repo, _, _ := newTestEngine(t)

	if err := eng.StartSession(models.TypeCustom, "   "); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	running, _ := repo.CurrentRunning()
	if running.TypeLabel != "직접 입력" || running.CustomLabel != "" {
		t.Errorf("session = %+v, want type label fallback and blank custom", running)
	}
}

func TestVoiceHitCountsWithoutLogging(t *testing.T) {
	eng, _, speech, clock := newTestEngine(t)

	if err := eng.StartSession(models.TypeGwanseum, ""); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Second)

	speech.speak("관세음 보살 관세음 보살")

	st := eng.State().Load()
	if st.Count != 1 {
		t.Errorf("count = %d, want 1 after voice hit", st.Count)
	}
	if len(st.Logs) != 1 {
		t.Errorf("logs = %d entries, want only the marker (voice hits don't log)", len(st.Logs))
	}
	waitFor(t, func() bool {
		return eng.Heard().Load() != ""
	}, "Heard() never carried the recognized text")
}

func TestStopSessionFinalizesMarker(t *testing.T) {
	eng, repo, speech, clock := newTestEngine(t)

	if err := eng.StartSession(models.TypeJijang, ""); err != nil {
		t.Fatal(err)
	}
	ymd := eng.State().Load().Session.YMD

	clock.Advance(time.Second)
	eng.ChangeCount(5, models.SourceManualBig, true)
	clock.Advance(time.Second)

	if err := eng.StopSession(); err != nil {
		t.Fatalf("StopSession() error = %v", err)
	}

	st := eng.State().Load()
	if st.Running() || st.Marker != nil {
		t.Errorf("state after stop = %+v, want no session and no marker", st)
	}
	if eng.Listening().Load() {
		t.Error("Listening() should be false after stop")
	}
	if !speech.released {
		t.Error("speech engine should be released on stop")
	}

	running, _ := repo.CurrentRunning()
	if running != nil {
		t.Errorf("CurrentRunning() = %+v, want nil", running)
	}
	sessions, _ := repo.SessionsOfDay(ymd)
	if len(sessions) != 1 || sessions[0].Count != 5 || sessions[0].EndedAt == nil {
		t.Errorf("persisted session = %+v, want count 5 and an end time", sessions)
	}

	waitFor(t, func() bool {
		logs, err := repo.LogsOfDay(ymd)
		if err != nil {
			return false
		}
		for _, l := range logs {
			if l.Source == models.SourceVoice && l.EndTimestamp != nil && l.Delta == 5 && l.Total == 5 {
				return true
			}
		}
		return false
	}, "voice marker was never finalized in the store")

	// Stopping again is a no-op.
	if err := eng.StopSession(); err != nil {
		t.Errorf("second StopSession() error = %v", err)
	}
}

func TestSetBigStep(t *testing.T) {
	eng, _, _, _ := newTestEngine(t)

	if err := eng.SetBigStep(0); err == nil {
		t.Error("SetBigStep(0) should be rejected")
	}
	if err := eng.SetBigStep(-3); err == nil {
		t.Error("SetBigStep(-3) should be rejected")
	}
	if err := eng.SetBigStep(108); err != nil {
		t.Fatalf("SetBigStep(108) error = %v", err)
	}
	if got := eng.State().Load().BigStep; got != 108 {
		t.Errorf("big step = %d, want 108", got)
	}
}

func TestDeleteLogEntries(t *testing.T) {
	eng, repo, _, clock := newTestEngine(t)

	eng.ChangeCount(1, models.SourceManualSmall, true)
	first := eng.State().Load().Logs[0].Timestamp
	clock.Advance(time.Second)
	eng.ChangeCount(1, models.SourceManualSmall, true)

	ymd := eng.State().Load().Logs[0].YMD
	waitFor(t, func() bool {
		logs, err := repo.LogsOfDay(ymd)
		return err == nil && len(logs) == 2
	}, "log entries never reached the store")

	if err := eng.DeleteLogEntries(nil); err != nil {
		t.Errorf("DeleteLogEntries(nil) error = %v", err)
	}

	if err := eng.DeleteLogEntries([]int64{first}); err != nil {
		t.Fatalf("DeleteLogEntries() error = %v", err)
	}
	st := eng.State().Load()
	if len(st.Logs) != 1 || st.Logs[0].Timestamp == first {
		t.Errorf("logs after delete = %+v, want the deleted timestamp gone", st.Logs)
	}
	logs, _ := repo.LogsOfDay(ymd)
	if len(logs) != 1 {
		t.Errorf("store has %d entries after delete, want 1", len(logs))
	}
}

func TestRecoveryAdoptsRunningSession(t *testing.T) {
	eng, repo, speech, clock := newTestEngine(t)

	if err := eng.StartSession(models.TypeNamuAmitabul, ""); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Second)
	eng.ChangeCount(3, models.SourceManualSmall, true)

	waitFor(t, func() bool {
		running, err := repo.CurrentRunning()
		return err == nil && running != nil && running.Count == 3
	}, "count never persisted against the running session")
	ymd := eng.State().Load().Session.YMD
	waitFor(t, func() bool {
		logs, err := repo.LogsOfDay(ymd)
		return err == nil && len(logs) == 2
	}, "manual log entry never reached the store")

	// Same store, fresh process.
	eng2, err := NewEngine(repo, func() voice.Engine { return speech }, "ko-KR", 10)
	if err != nil {
		t.Fatalf("NewEngine() after restart error = %v", err)
	}
	st := eng2.State().Load()
	if !st.Running() || st.Count != 3 {
		t.Errorf("recovered state = count %d running %v, want count 3 running", st.Count, st.Running())
	}
	if st.Session.TypeLabel != "나무 아미타불" {
		t.Errorf("recovered label = %q", st.Session.TypeLabel)
	}
	if st.Marker == nil || !st.Marker.Open() {
		t.Errorf("recovered marker = %+v, want the open voice marker", st.Marker)
	}
	if len(st.Logs) != 2 {
		t.Errorf("recovered logs = %d entries, want marker plus manual entry", len(st.Logs))
	}
}
