package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS session (
			id         INTEGER PRIMARY KEY CHECK(id = 1),
			access     TEXT NOT NULL,
			refresh    TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY,
			username   TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name  TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS activities (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			kind                 TEXT NOT NULL,
			status               TEXT NOT NULL,
			start_unix           INTEGER NOT NULL,
			end_unix             INTEGER NOT NULL CHECK(end_unix >= start_unix),
			employee_description TEXT NOT NULL DEFAULT '',
			public_description   TEXT NOT NULL DEFAULT '',
			client_id            INTEGER,
			property_id          INTEGER,
			request_id           INTEGER,
			responsible_user_id  INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_activities_start ON activities(start_unix);
		CREATE INDEX IF NOT EXISTS idx_activities_responsible ON activities(responsible_user_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
