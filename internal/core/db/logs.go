package db

import (
	"database/sql"
	"fmt"
	"strings"

	"yeomju/internal/core/models"
)

// InsertLog stores a log entry and returns its id. The stored source text is
// validated on read, not trusted blindly (see LogsOfDay).
func (db *DB) InsertLog(e *models.CountLogEntry) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO chant_logs (ymd, timestamp, source, delta, total, end_timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.YMD, e.Timestamp, string(e.Source), e.Delta, e.Total, nullableInt(e.EndTimestamp))
	if err != nil {
		return 0, fmt.Errorf("insert log: %w", err)
	}
	return res.LastInsertId()
}

// UpdateLog rewrites the mutable fields of an entry, keyed by day and
// timestamp. Only the voice marker is ever updated after insert.
func (db *DB) UpdateLog(e *models.CountLogEntry) error {
	_, err := db.conn.Exec(`
		UPDATE chant_logs
		SET delta = ?, total = ?, end_timestamp = ?
		WHERE ymd = ? AND timestamp = ?
	`, e.Delta, e.Total, nullableInt(e.EndTimestamp), e.YMD, e.Timestamp)
	if err != nil {
		return fmt.Errorf("update log %d: %w", e.Timestamp, err)
	}
	return nil
}

// LogsOfDay returns the day's entries, newest first. Rows whose source text
// is outside the known set surface a typed UnknownSourceError.
func (db *DB) LogsOfDay(ymd string) ([]models.CountLogEntry, error) {
	rows, err := db.conn.Query(`
		SELECT id, ymd, timestamp, source, delta, total, end_timestamp
		FROM chant_logs WHERE ymd = ? ORDER BY timestamp DESC
	`, ymd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.CountLogEntry
	for rows.Next() {
		var e models.CountLogEntry
		var source string
		var end sql.NullInt64
		if err := rows.Scan(&e.ID, &e.YMD, &e.Timestamp, &source, &e.Delta, &e.Total, &end); err != nil {
			return nil, err
		}
		e.Source, err = models.ParseCountSource(source)
		if err != nil {
			return nil, fmt.Errorf("log %d: %w", e.ID, err)
		}
		if end.Valid {
			e.EndTimestamp = &end.Int64
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteLogsByTimestamps bulk-removes entries. No-op on an empty set.
func (db *DB) DeleteLogsByTimestamps(timestamps []int64) error {
	if len(timestamps) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(timestamps))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(timestamps))
	for i, ts := range timestamps {
		args[i] = ts
	}

	_, err := db.conn.Exec(`DELETE FROM chant_logs WHERE timestamp IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("delete logs: %w", err)
	}
	return nil
}
