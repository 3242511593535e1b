// Package chant is the storage facade the counting engine and the
// interfaces talk to. It owns the local database and mirrors session
// writes to the remote document store best-effort: a mirror failure never
// surfaces to the caller.
package chant

import (
	"context"
	"time"

	"yeomju/internal/core/auth"
	"yeomju/internal/core/db"
	"yeomju/internal/core/models"
	"yeomju/internal/core/remote"
)

const mirrorTimeout = 5 * time.Second

// Repository wraps the local store with optional remote mirroring. remote
// may be nil (no endpoint configured); auth may be nil (never signed in).
type Repository struct {
	db     *db.DB
	remote *remote.Client
	auth   *auth.Provider
}

func NewRepository(database *db.DB, rc *remote.Client, ap *auth.Provider) *Repository {
	return &Repository{db: database, remote: rc, auth: ap}
}

// userID returns the signed-in user id, empty when mirroring is off.
func (r *Repository) userID() string {
	if r.auth == nil {
		return ""
	}
	if u := r.auth.Current(); u != nil {
		return u.ID
	}
	return ""
}

// mirror runs fn against the remote store in the background, dropping any
// error. Writes stay local-first: the sync worker reconciles later.
func (r *Repository) mirror(fn func(ctx context.Context, uid string) error) {
	uid := r.userID()
	if r.remote == nil || uid == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		_ = fn(ctx, uid)
	}()
}

// StartSession persists a new running session and mirrors it.
func (r *Repository) StartSession(s *models.ChantSession) (int64, error) {
	s.UserID = r.userID()
	s.UpdatedAt = time.Now().UnixMilli()
	id, err := r.db.InsertSession(s)
	if err != nil {
		return 0, err
	}
	s.ID = id
	snapshot := *s
	r.mirror(func(ctx context.Context, uid string) error {
		return r.remote.UpsertSession(ctx, uid, &snapshot)
	})
	return id, nil
}

// SetCount persists the session's absolute count and mirrors the single
// changed field.
func (r *Repository) SetCount(s *models.ChantSession, count int) error {
	s.Count = count
	s.UpdatedAt = time.Now().UnixMilli()
	if err := r.db.UpdateSession(s); err != nil {
		return err
	}
	id := s.ID
	r.mirror(func(ctx context.Context, uid string) error {
		return r.remote.UpdateSessionField(ctx, uid, id, "count", count)
	})
	return nil
}

// StopSession persists the session's end timestamp and mirrors the full
// final document.
func (r *Repository) StopSession(s *models.ChantSession, endMillis int64) error {
	s.EndedAt = &endMillis
	s.UpdatedAt = time.Now().UnixMilli()
	if err := r.db.UpdateSession(s); err != nil {
		return err
	}
	snapshot := *s
	r.mirror(func(ctx context.Context, uid string) error {
		return r.remote.UpsertSession(ctx, uid, &snapshot)
	})
	return nil
}

// CurrentRunning returns the running session, nil when none.
func (r *Repository) CurrentRunning() (*models.ChantSession, error) {
	return r.db.CurrentRunning()
}

func (r *Repository) SessionsOfDay(ymd string) ([]models.ChantSession, error) {
	return r.db.SessionsOfDay(ymd)
}

func (r *Repository) DayTotals(fromYMD, toYMD string) ([]db.DayCount, error) {
	return r.db.DayTotals(fromYMD, toYMD)
}

func (r *Repository) AllSessions() ([]models.ChantSession, error) {
	return r.db.AllSessions()
}

func (r *Repository) InsertLog(e *models.CountLogEntry) (int64, error) {
	return r.db.InsertLog(e)
}

func (r *Repository) UpdateLog(e *models.CountLogEntry) error {
	return r.db.UpdateLog(e)
}

func (r *Repository) LogsOfDay(ymd string) ([]models.CountLogEntry, error) {
	return r.db.LogsOfDay(ymd)
}

func (r *Repository) DeleteLogsByTimestamps(timestamps []int64) error {
	return r.db.DeleteLogsByTimestamps(timestamps)
}
