package db

import (
	"database/sql"
	"fmt"

	"yeomju/internal/core/models"
)

const sessionColumns = `id, type_label, COALESCE(custom_label, ''), started_at, ended_at,
	count, ymd, COALESCE(user_id, ''), COALESCE(remote_id, ''), updated_at, synced_at`

func scanSession(row interface{ Scan(...interface{}) error }) (*models.ChantSession, error) {
	var s models.ChantSession
	var endedAt sql.NullInt64
	err := row.Scan(
		&s.ID,
		&s.TypeLabel,
		&s.CustomLabel,
		&s.StartedAt,
		&endedAt,
		&s.Count,
		&s.YMD,
		&s.UserID,
		&s.RemoteID,
		&s.UpdatedAt,
		&s.SyncedAt,
	)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Int64
	}
	return &s, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// InsertSession stores a new session and returns its local id.
func (db *DB) InsertSession(s *models.ChantSession) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	res, err := db.conn.Exec(`
		INSERT INTO chant_sessions
		(type_label, custom_label, started_at, ended_at, count, ymd, user_id, remote_id, updated_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.TypeLabel, nullable(s.CustomLabel), s.StartedAt, nullableInt(s.EndedAt),
		s.Count, s.YMD, nullable(s.UserID), nullable(s.RemoteID), s.UpdatedAt, s.SyncedAt)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return res.LastInsertId()
}

// UpdateSession writes all mutable fields of an existing session.
func (db *DB) UpdateSession(s *models.ChantSession) error {
	_, err := db.conn.Exec(`
		UPDATE chant_sessions
		SET type_label = ?, custom_label = ?, started_at = ?, ended_at = ?,
			count = ?, ymd = ?, user_id = ?, remote_id = ?, updated_at = ?, synced_at = ?
		WHERE id = ?
	`, s.TypeLabel, nullable(s.CustomLabel), s.StartedAt, nullableInt(s.EndedAt),
		s.Count, s.YMD, nullable(s.UserID), nullable(s.RemoteID), s.UpdatedAt, s.SyncedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update session %d: %w", s.ID, err)
	}
	return nil
}

// InsertSessions bulk-stores sessions, deduplicating on remote id so a cloud
// pull can be replayed without doubling history.
func (db *DB) InsertSessions(list []models.ChantSession) error {
	if len(list) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range list {
		_, err = tx.Exec(`
			INSERT INTO chant_sessions
			(type_label, custom_label, started_at, ended_at, count, ymd, user_id, remote_id, updated_at, synced_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(remote_id) DO UPDATE SET
				type_label = excluded.type_label,
				custom_label = excluded.custom_label,
				started_at = excluded.started_at,
				ended_at = excluded.ended_at,
				count = excluded.count,
				ymd = excluded.ymd,
				user_id = excluded.user_id,
				updated_at = excluded.updated_at,
				synced_at = excluded.synced_at
		`, s.TypeLabel, nullable(s.CustomLabel), s.StartedAt, nullableInt(s.EndedAt),
			s.Count, s.YMD, nullable(s.UserID), nullable(s.RemoteID), s.UpdatedAt, s.SyncedAt)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}

	return tx.Commit()
}

// CurrentRunning returns the session with no end timestamp, or nil.
func (db *DB) CurrentRunning() (*models.ChantSession, error) {
	row := db.conn.QueryRow(`
		SELECT ` + sessionColumns + `
		FROM chant_sessions WHERE ended_at IS NULL LIMIT 1
	`)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SessionsOfDay returns all sessions for a day, newest first.
func (db *DB) SessionsOfDay(ymd string) ([]models.ChantSession, error) {
	rows, err := db.conn.Query(`
		SELECT `+sessionColumns+`
		FROM chant_sessions WHERE ymd = ? ORDER BY started_at DESC
	`, ymd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ChantSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// DayCount is the summed count of one calendar day.
type DayCount struct {
	YMD   string
	Total int
}

// DayTotals returns per-day summed counts within an inclusive ymd range.
func (db *DB) DayTotals(fromYMD, toYMD string) ([]DayCount, error) {
	rows, err := db.conn.Query(`
		SELECT ymd, SUM(count) AS total
		FROM chant_sessions
		WHERE ymd BETWEEN ? AND ?
		GROUP BY ymd
		ORDER BY ymd
	`, fromYMD, toYMD)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.YMD, &dc.Total); err != nil {
			return nil, err
		}
		totals = append(totals, dc)
	}
	return totals, rows.Err()
}

// AllSessions returns every stored session. Used by the stats aggregator,
// which groups in application code.
func (db *DB) AllSessions() ([]models.ChantSession, error) {
	rows, err := db.conn.Query(`SELECT ` + sessionColumns + ` FROM chant_sessions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ChantSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// UnsyncedSessions returns sessions owned by a user that changed since their
// last successful push, oldest first.
func (db *DB) UnsyncedSessions(limit int) ([]models.ChantSession, error) {
	rows, err := db.conn.Query(`
		SELECT `+sessionColumns+`
		FROM chant_sessions
		WHERE user_id IS NOT NULL AND user_id != ''
		  AND synced_at < updated_at
		ORDER BY updated_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ChantSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// MarkSynced records a successful push.
func (db *DB) MarkSynced(id int64, at int64) error {
	_, err := db.conn.Exec(`UPDATE chant_sessions SET synced_at = ? WHERE id = ?`, at, id)
	return err
}
