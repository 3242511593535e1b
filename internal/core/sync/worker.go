// Package sync reconciles the local store with the remote document store:
// push uploads locally changed sessions, pull downloads the user's remote
// history. Both require a signed-in user; without one they are no-ops.
package sync

import (
	"context"
	"fmt"
	"time"

	"yeomju/internal/core/auth"
	"yeomju/internal/core/db"
	"yeomju/internal/core/remote"
)

const pushBatchSize = 50

// Worker handles background push of unsynced sessions
type Worker struct {
	db       *db.DB
	remote   *remote.Client
	auth     *auth.Provider
	interval time.Duration
}

// NewWorker creates a new background sync worker. A non-positive interval
// falls back to five minutes.
func NewWorker(database *db.DB, rc *remote.Client, ap *auth.Provider, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Worker{
		db:       database,
		remote:   rc,
		auth:     ap,
		interval: interval,
	}
}

// Start begins the background sync loop
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Initial pass
	fmt.Println("Starting background sync worker...")
	if err := w.Push(ctx); err != nil {
		fmt.Printf("Initial sync error: %v\n", err)
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Shutting down sync worker...")
			return ctx.Err()
		case <-ticker.C:
			if err := w.Push(ctx); err != nil {
				fmt.Printf("Sync error: %v\n", err)
			}
		}
	}
}

// Push uploads every session whose local write is newer than its last
// successful push. A session that fails to upload stays unsynced and is
// retried on the next pass.
func (w *Worker) Push(ctx context.Context) error {
	user := w.auth.Current()
	if user == nil {
		return nil
	}

	sessions, err := w.db.UnsyncedSessions(pushBatchSize)
	if err != nil {
		return fmt.Errorf("list unsynced: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	fmt.Printf("[%s] Pushing %d session(s)...\n", time.Now().Format("15:04:05"), len(sessions))

	successCount := 0
	errorCount := 0
	for i := range sessions {
		s := &sessions[i]
		if err := w.remote.UpsertSession(ctx, user.ID, s); err != nil {
			fmt.Printf("  [%d/%d] Session %d failed: %v\n", i+1, len(sessions), s.ID, err)
			errorCount++
			continue
		}
		if err := w.db.MarkSynced(s.ID, time.Now().UnixMilli()); err != nil {
			fmt.Printf("  [%d/%d] Session %d mark failed: %v\n", i+1, len(sessions), s.ID, err)
			errorCount++
			continue
		}
		successCount++
	}

	fmt.Printf("  Done: %d pushed, %d failed\n", successCount, errorCount)
	return nil
}

// Pull downloads the user's full remote history and upserts it locally,
// deduplicating on the remote document id. Returns how many documents were
// stored.
func (w *Worker) Pull(ctx context.Context) (int, error) {
	user := w.auth.Current()
	if user == nil {
		return 0, fmt.Errorf("not signed in")
	}

	sessions, err := w.remote.FetchAllSessions(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("fetch remote sessions: %w", err)
	}
	if len(sessions) == 0 {
		return 0, nil
	}
	if err := w.db.InsertSessions(sessions); err != nil {
		return 0, fmt.Errorf("store remote sessions: %w", err)
	}
	return len(sessions), nil
}
