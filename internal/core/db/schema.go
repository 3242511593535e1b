package db

func (db *DB) initSchema() error {
	schema := `
	-- Chant sessions: one row per continuous counting period.
	-- ended_at IS NULL marks the running session; at most one exists.
	CREATE TABLE IF NOT EXISTS chant_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type_label TEXT NOT NULL,
		custom_label TEXT,
		started_at INTEGER NOT NULL,
		ended_at INTEGER,
		count INTEGER NOT NULL DEFAULT 0,
		ymd TEXT NOT NULL,
		user_id TEXT,
		remote_id TEXT UNIQUE,
		updated_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_chant_sessions_ymd ON chant_sessions(ymd);
	CREATE INDEX IF NOT EXISTS idx_chant_sessions_ended_at ON chant_sessions(ended_at);
	CREATE INDEX IF NOT EXISTS idx_chant_sessions_user_id ON chant_sessions(user_id);

	-- Count log: append-only audit trail of count changes. The voice marker
	-- row (source VOICE) is written once per session, finalized on stop.
	CREATE TABLE IF NOT EXISTS chant_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ymd TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		source TEXT NOT NULL,
		delta INTEGER NOT NULL,
		total INTEGER NOT NULL,
		end_timestamp INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_chant_logs_ymd ON chant_logs(ymd);
	CREATE INDEX IF NOT EXISTS idx_chant_logs_timestamp ON chant_logs(timestamp);
	`

	_, err := db.conn.Exec(schema)
	return err
}
