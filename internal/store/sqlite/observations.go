package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/blackwell-systems/daymark/internal/journal"
)

const observationColumns = `id, entry_id, emotion_type, intensity, user_id, observed_date, week_start, week_end, extracted_at`

// SaveObservation inserts the observation when its ID is zero and updates it
// otherwise. On insert the store assigns the ID.
func (s *Store) SaveObservation(ctx context.Context, obs *journal.Observation) error {
	entryID := nullInt64(obs.EntryID)
	weekStart := nullDate(obs.WeekStart)
	weekEnd := nullDate(obs.WeekEnd)

	if obs.ID == 0 {
		result, err := s.conn.ExecContext(ctx,
			`INSERT INTO observations (entry_id, emotion_type, intensity, user_id, observed_date, week_start, week_end, extracted_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			entryID, obs.EmotionType, obs.Intensity, obs.UserID,
			obs.ObservedDate.Format(time.DateOnly), weekStart, weekEnd,
			obs.ExtractedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		obs.ID = id
		return nil
	}

	_, err := s.conn.ExecContext(ctx,
		`UPDATE observations
		 SET entry_id = ?, emotion_type = ?, intensity = ?, user_id = ?, observed_date = ?, week_start = ?, week_end = ?, extracted_at = ?
		 WHERE id = ?`,
		entryID, obs.EmotionType, obs.Intensity, obs.UserID,
		obs.ObservedDate.Format(time.DateOnly), weekStart, weekEnd,
		obs.ExtractedAt.UTC().Format(time.RFC3339), obs.ID,
	)
	return err
}

// SaveObservations inserts a batch and returns the stored copies with IDs
// assigned, in input order.
func (s *Store) SaveObservations(ctx context.Context, obs []journal.Observation) ([]journal.Observation, error) {
	saved := make([]journal.Observation, 0, len(obs))
	for i := range obs {
		o := obs[i]
		if err := s.SaveObservation(ctx, &o); err != nil {
			return nil, err
		}
		saved = append(saved, o)
	}
	return saved, nil
}

// ObservationByID returns the observation with the given id, or nil.
func (s *Store) ObservationByID(ctx context.Context, id int64) (*journal.Observation, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+observationColumns+` FROM observations WHERE id = ?`, id)
	obs, err := scanObservationFields(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obs, nil
}

// DeleteByEntryID removes every observation derived from the given entry.
func (s *Store) DeleteByEntryID(ctx context.Context, entryID int64) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM observations WHERE entry_id = ?`, entryID)
	return err
}

// ObservationsInRange returns the user's observations with
// start <= observed_date <= end, ordered by date ascending.
func (s *Store) ObservationsInRange(ctx context.Context, userID string, start, end time.Time) ([]journal.Observation, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+observationColumns+` FROM observations
		 WHERE user_id = ? AND observed_date >= ? AND observed_date <= ?
		 ORDER BY observed_date`,
		userID, start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectObservations(rows)
}

// ObservationsInWeek returns the user's observations whose stored week
// window overlaps [weekStart, weekEnd], ordered by date ascending.
func (s *Store) ObservationsInWeek(ctx context.Context, userID string, weekStart, weekEnd time.Time) ([]journal.Observation, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+observationColumns+` FROM observations
		 WHERE user_id = ? AND week_start IS NOT NULL AND week_start >= ? AND week_end <= ?
		 ORDER BY observed_date`,
		userID, weekStart.Format(time.DateOnly), weekEnd.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectObservations(rows)
}

// DeleteObservation removes the observation with the given id.
func (s *Store) DeleteObservation(ctx context.Context, id int64) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM observations WHERE id = ?`, id)
	return err
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullDate(v *time.Time) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.Format(time.DateOnly), Valid: true}
}

func scanObservationFields(sc rowScanner) (journal.Observation, error) {
	var o journal.Observation
	var entryID sql.NullInt64
	var observedDate, extractedAt string
	var weekStart, weekEnd sql.NullString

	err := sc.Scan(&o.ID, &entryID, &o.EmotionType, &o.Intensity, &o.UserID,
		&observedDate, &weekStart, &weekEnd, &extractedAt)
	if err != nil {
		return journal.Observation{}, err
	}

	if entryID.Valid {
		id := entryID.Int64
		o.EntryID = &id
	}
	o.ObservedDate, _ = time.Parse(time.DateOnly, observedDate)
	o.ExtractedAt, _ = time.Parse(time.RFC3339, extractedAt)
	if weekStart.Valid {
		t, _ := time.Parse(time.DateOnly, weekStart.String)
		o.WeekStart = &t
	}
	if weekEnd.Valid {
		t, _ := time.Parse(time.DateOnly, weekEnd.String)
		o.WeekEnd = &t
	}
	return o, nil
}

func collectObservations(rows *sql.Rows) ([]journal.Observation, error) {
	var obs []journal.Observation
	for rows.Next() {
		o, err := scanObservationFields(rows)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}
