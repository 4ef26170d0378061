// Package postgres is the production storage backend for daymark server
// deployments, backed by a PostgreSQL pool. The SQLite backend remains the
// default for single-user CLI use.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements journal.EntryStore and journal.ObservationStore over a
// pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the database at dsn, pings it, and ensures the schema
// exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// migrate creates the schema when missing. Dates are stored as DATE and
// timestamps as TIMESTAMPTZ; columns mirror the SQLite backend.
func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id           BIGSERIAL PRIMARY KEY,
			user_id      TEXT NOT NULL,
			content      TEXT NOT NULL,
			entry_date   DATE NOT NULL,
			weather_desc TEXT,
			weather_icon TEXT,
			weather_temp DOUBLE PRECISION,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, entry_date)
		)`,

		`CREATE TABLE IF NOT EXISTS observations (
			id            BIGSERIAL PRIMARY KEY,
			entry_id      BIGINT REFERENCES entries(id),
			emotion_type  TEXT NOT NULL,
			intensity     DOUBLE PRECISION NOT NULL,
			user_id       TEXT NOT NULL,
			observed_date DATE NOT NULL,
			week_start    DATE,
			week_end      DATE,
			extracted_at  TIMESTAMPTZ NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_observations_user_date
			ON observations(user_id, observed_date)`,

		`CREATE INDEX IF NOT EXISTS idx_observations_entry
			ON observations(entry_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	return nil
}
