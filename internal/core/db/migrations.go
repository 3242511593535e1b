package db

import "fmt"

// migrate applies database migrations for existing databases
func (db *DB) migrate() error {
	// Migration 1: Add synced_at for the background push worker
	if err := db.migration001AddSyncedAt(); err != nil {
		return fmt.Errorf("migration 001: %w", err)
	}

	return nil
}

// migration001AddSyncedAt adds the synced_at column if it doesn't exist
func (db *DB) migration001AddSyncedAt() error {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('chant_sessions')
		WHERE name = 'synced_at'
	`).Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.conn.Exec(`ALTER TABLE chant_sessions ADD COLUMN synced_at INTEGER NOT NULL DEFAULT 0`)
		if err != nil {
			return err
		}
	}

	return nil
}
