package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/blackwell-systems/daymark/internal/journal"
)

const entryColumns = `id, user_id, content, entry_date, weather_desc, weather_icon, weather_temp, created_at, updated_at`

// SaveEntry inserts the entry when its ID is zero and updates it otherwise.
func (s *Store) SaveEntry(ctx context.Context, entry *journal.Entry) error {
	var desc, icon *string
	var temp *float64
	if entry.Weather != nil {
		desc = &entry.Weather.Description
		temp = &entry.Weather.TempC
		if entry.Weather.Icon != "" {
			icon = &entry.Weather.Icon
		}
	}

	if entry.ID == 0 {
		return s.pool.QueryRow(ctx,
			`INSERT INTO entries (user_id, content, entry_date, weather_desc, weather_icon, weather_temp, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id`,
			entry.UserID, entry.Content, entry.EntryDate, desc, icon, temp,
			entry.CreatedAt, entry.UpdatedAt,
		).Scan(&entry.ID)
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE entries
		 SET content = $1, entry_date = $2, weather_desc = $3, weather_icon = $4, weather_temp = $5, updated_at = $6
		 WHERE id = $7`,
		entry.Content, entry.EntryDate, desc, icon, temp, entry.UpdatedAt, entry.ID,
	)
	return err
}

// EntryByID returns the entry with the given id, or nil when absent.
func (s *Store) EntryByID(ctx context.Context, id int64) (*journal.Entry, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)
	return scanEntry(row)
}

// EntryByDate returns the user's entry for the given calendar date, or nil.
func (s *Store) EntryByDate(ctx context.Context, userID string, date time.Time) (*journal.Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE user_id = $1 AND entry_date = $2`,
		userID, date)
	return scanEntry(row)
}

// EntriesInRange returns the user's entries ordered by date ascending.
func (s *Store) EntriesInRange(ctx context.Context, userID string, start, end time.Time) ([]journal.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3
		 ORDER BY entry_date`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// AllEntries returns every entry ordered by date ascending.
func (s *Store) AllEntries(ctx context.Context) ([]journal.Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY entry_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// DeleteEntry removes the entry with the given id.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	return err
}

func scanEntryFields(row pgx.Row) (journal.Entry, error) {
	var e journal.Entry
	var desc, icon *string
	var temp *float64

	err := row.Scan(&e.ID, &e.UserID, &e.Content, &e.EntryDate, &desc, &icon, &temp, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return journal.Entry{}, err
	}

	if desc != nil {
		e.Weather = &journal.Weather{Description: *desc}
		if icon != nil {
			e.Weather.Icon = *icon
		}
		if temp != nil {
			e.Weather.TempC = *temp
		}
	}
	return e, nil
}

func scanEntry(row pgx.Row) (*journal.Entry, error) {
	e, err := scanEntryFields(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]journal.Entry, error) {
	var entries []journal.Entry
	for rows.Next() {
		e, err := scanEntryFields(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
