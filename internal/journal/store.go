package journal

import (
	"context"
	"time"
)

// EntryStore persists journal entries. Save assigns the ID on first insert
// and must keep it stable on updates.
type EntryStore interface {
	SaveEntry(ctx context.Context, entry *Entry) error
	EntryByID(ctx context.Context, id int64) (*Entry, error)
	EntryByDate(ctx context.Context, userID string, date time.Time) (*Entry, error)
	EntriesInRange(ctx context.Context, userID string, start, end time.Time) ([]Entry, error)
	AllEntries(ctx context.Context) ([]Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
}

// ObservationStore persists derived emotion observations. Lookups return nil
// (not an error) when nothing matches an ID.
type ObservationStore interface {
	SaveObservation(ctx context.Context, obs *Observation) error
	SaveObservations(ctx context.Context, obs []Observation) ([]Observation, error)
	ObservationByID(ctx context.Context, id int64) (*Observation, error)
	DeleteByEntryID(ctx context.Context, entryID int64) error
	ObservationsInRange(ctx context.Context, userID string, start, end time.Time) ([]Observation, error)
	ObservationsInWeek(ctx context.Context, userID string, weekStart, weekEnd time.Time) ([]Observation, error)
	DeleteObservation(ctx context.Context, id int64) error
}
