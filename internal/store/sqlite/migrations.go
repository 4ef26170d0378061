package sqlite

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (s *Store) Migrate() error {
	if _, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := s.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (s *Store) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      TEXT NOT NULL,
			content      TEXT NOT NULL,
			entry_date   TEXT NOT NULL,
			weather_desc TEXT,
			weather_icon TEXT,
			weather_temp REAL,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL,
			UNIQUE (user_id, entry_date)
		)`,

		`CREATE TABLE IF NOT EXISTS observations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id      INTEGER REFERENCES entries(id),
			emotion_type  TEXT NOT NULL,
			intensity     REAL NOT NULL,
			user_id       TEXT NOT NULL,
			observed_date TEXT NOT NULL,
			week_start    TEXT,
			week_end      TEXT,
			extracted_at  TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_user_date
			ON entries(user_id, entry_date)`,

		`CREATE INDEX IF NOT EXISTS idx_observations_user_date
			ON observations(user_id, observed_date)`,

		`CREATE INDEX IF NOT EXISTS idx_observations_user_week
			ON observations(user_id, week_start, week_end)`,

		`CREATE INDEX IF NOT EXISTS idx_observations_entry
			ON observations(entry_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.conn.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := s.conn.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := s.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return nil
}
