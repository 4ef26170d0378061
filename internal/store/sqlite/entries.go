package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/blackwell-systems/daymark/internal/journal"
)

const entryColumns = `id, user_id, content, entry_date, weather_desc, weather_icon, weather_temp, created_at, updated_at`

// SaveEntry inserts the entry when its ID is zero and updates it otherwise.
// On insert the store assigns the ID.
func (s *Store) SaveEntry(ctx context.Context, entry *journal.Entry) error {
	var desc, icon sql.NullString
	var temp sql.NullFloat64
	if entry.Weather != nil {
		desc = sql.NullString{String: entry.Weather.Description, Valid: true}
		icon = sql.NullString{String: entry.Weather.Icon, Valid: entry.Weather.Icon != ""}
		temp = sql.NullFloat64{Float64: entry.Weather.TempC, Valid: true}
	}

	if entry.ID == 0 {
		result, err := s.conn.ExecContext(ctx,
			`INSERT INTO entries (user_id, content, entry_date, weather_desc, weather_icon, weather_temp, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.UserID, entry.Content, entry.EntryDate.Format(time.DateOnly),
			desc, icon, temp,
			entry.CreatedAt.UTC().Format(time.RFC3339), entry.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		entry.ID = id
		return nil
	}

	_, err := s.conn.ExecContext(ctx,
		`UPDATE entries
		 SET content = ?, entry_date = ?, weather_desc = ?, weather_icon = ?, weather_temp = ?, updated_at = ?
		 WHERE id = ?`,
		entry.Content, entry.EntryDate.Format(time.DateOnly),
		desc, icon, temp,
		entry.UpdatedAt.UTC().Format(time.RFC3339), entry.ID,
	)
	return err
}

// EntryByID returns the entry with the given id, or nil when absent.
func (s *Store) EntryByID(ctx context.Context, id int64) (*journal.Entry, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	return scanEntry(row)
}

// EntryByDate returns the user's entry for the given calendar date, or nil.
func (s *Store) EntryByDate(ctx context.Context, userID string, date time.Time) (*journal.Entry, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE user_id = ? AND entry_date = ?`,
		userID, date.Format(time.DateOnly))
	return scanEntry(row)
}

// EntriesInRange returns the user's entries with start <= entry_date <= end,
// ordered by date ascending.
func (s *Store) EntriesInRange(ctx context.Context, userID string, start, end time.Time) ([]journal.Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE user_id = ? AND entry_date >= ? AND entry_date <= ?
		 ORDER BY entry_date`,
		userID, start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// AllEntries returns every entry in the store, ordered by date ascending.
func (s *Store) AllEntries(ctx context.Context) ([]journal.Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY entry_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// DeleteEntry removes the entry with the given id. Deleting a missing id is
// not an error.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntryFields(sc rowScanner) (journal.Entry, error) {
	var e journal.Entry
	var entryDate, createdAt, updatedAt string
	var desc, icon sql.NullString
	var temp sql.NullFloat64

	err := sc.Scan(&e.ID, &e.UserID, &e.Content, &entryDate, &desc, &icon, &temp, &createdAt, &updatedAt)
	if err != nil {
		return journal.Entry{}, err
	}

	e.EntryDate, _ = time.Parse(time.DateOnly, entryDate)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if desc.Valid {
		e.Weather = &journal.Weather{
			Description: desc.String,
			Icon:        icon.String,
			TempC:       temp.Float64,
		}
	}
	return e, nil
}

func scanEntry(row *sql.Row) (*journal.Entry, error) {
	e, err := scanEntryFields(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]journal.Entry, error) {
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
