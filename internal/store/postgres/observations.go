package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/blackwell-systems/daymark/internal/journal"
)

const observationColumns = `id, entry_id, emotion_type, intensity, user_id, observed_date, week_start, week_end, extracted_at`

// SaveObservation inserts the observation when its ID is zero and updates it
// otherwise.
func (s *Store) SaveObservation(ctx context.Context, obs *journal.Observation) error {
	if obs.ID == 0 {
		return s.pool.QueryRow(ctx,
			`INSERT INTO observations (entry_id, emotion_type, intensity, user_id, observed_date, week_start, week_end, extracted_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id`,
			obs.EntryID, obs.EmotionType, obs.Intensity, obs.UserID,
			obs.ObservedDate, obs.WeekStart, obs.WeekEnd, obs.ExtractedAt,
		).Scan(&obs.ID)
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE observations
		 SET entry_id = $1, emotion_type = $2, intensity = $3, user_id = $4, observed_date = $5, week_start = $6, week_end = $7, extracted_at = $8
		 WHERE id = $9`,
		obs.EntryID, obs.EmotionType, obs.Intensity, obs.UserID,
		obs.ObservedDate, obs.WeekStart, obs.WeekEnd, obs.ExtractedAt, obs.ID,
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
	row := s.pool.QueryRow(ctx,
		`SELECT `+observationColumns+` FROM observations WHERE id = $1`, id)
	o, err := scanObservationFields(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteByEntryID removes every observation derived from the given entry.
func (s *Store) DeleteByEntryID(ctx context.Context, entryID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM observations WHERE entry_id = $1`, entryID)
	return err
}

// ObservationsInRange returns the user's observations ordered by date.
func (s *Store) ObservationsInRange(ctx context.Context, userID string, start, end time.Time) ([]journal.Observation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+observationColumns+` FROM observations
		 WHERE user_id = $1 AND observed_date >= $2 AND observed_date <= $3
		 ORDER BY observed_date`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectObservations(rows)
}

// ObservationsInWeek returns the user's observations whose stored week
// window falls inside [weekStart, weekEnd].
func (s *Store) ObservationsInWeek(ctx context.Context, userID string, weekStart, weekEnd time.Time) ([]journal.Observation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+observationColumns+` FROM observations
		 WHERE user_id = $1 AND week_start IS NOT NULL AND week_start >= $2 AND week_end <= $3
		 ORDER BY observed_date`,
		userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectObservations(rows)
}

// DeleteObservation removes the observation with the given id.
func (s *Store) DeleteObservation(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM observations WHERE id = $1`, id)
	return err
}

func scanObservationFields(row pgx.Row) (journal.Observation, error) {
	var o journal.Observation
	err := row.Scan(&o.ID, &o.EntryID, &o.EmotionType, &o.Intensity, &o.UserID,
		&o.ObservedDate, &o.WeekStart, &o.WeekEnd, &o.ExtractedAt)
	if err != nil {
		return journal.Observation{}, err
	}
	return o, nil
}

func collectObservations(rows pgx.Rows) ([]journal.Observation, error) {
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
