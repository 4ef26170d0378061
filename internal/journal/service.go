package journal

import (
	"context"
	"strings"
	"time"

	"github.com/blackwell-systems/daymark/internal/logger"
)

// SaveResult reports an entry write. The write itself succeeded whenever the
// surrounding call returned no error; Observation is nil and DeriveErr set
// when emotion derivation failed afterwards, which callers treat as a
// degraded result rather than a failure.
type SaveResult struct {
	Entry       Entry
	Observation *Observation
	DeriveErr   error
}

// Service implements the entry workflows: save-or-update by date, edit by
// id, reads, and cascading delete. Derivation failures never roll back an
// entry write.
type Service struct {
	entries      EntryStore
	observations ObservationStore
	deriver      *Deriver
	now          func() time.Time
}

// NewService wires the entry service.
func NewService(entries EntryStore, observations ObservationStore, deriver *Deriver) *Service {
	return &Service{
		entries:      entries,
		observations: observations,
		deriver:      deriver,
		now:          time.Now,
	}
}

func validateEntry(userID, content string, date time.Time) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Reason: "must not be blank"}
	}
	if date.IsZero() {
		return &ValidationError{Field: "entry_date", Reason: "is required"}
	}
	if userID == "" {
		return &ValidationError{Field: "user_id", Reason: "is required"}
	}
	return nil
}

// SaveEntry stores the user's entry for date, updating in place when one
// already exists for that (user, date). Emotion derivation runs after the
// write; its failure is reported in the result, not as an error.
func (s *Service) SaveEntry(ctx context.Context, userID string, date time.Time, content string, weather *Weather) (SaveResult, error) {
	if err := validateEntry(userID, content, date); err != nil {
		return SaveResult{}, err
	}
	date = DateOf(date)

	existing, err := s.entries.EntryByDate(ctx, userID, date)
	if err != nil {
		return SaveResult{}, err
	}

	var entry *Entry
	if existing != nil {
		existing.Content = content
		existing.Weather = weather
		existing.UpdatedAt = s.now()
		entry = existing
	} else {
		now := s.now()
		entry = &Entry{
			UserID:    userID,
			Content:   content,
			EntryDate: date,
			Weather:   weather,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err := s.entries.SaveEntry(ctx, entry); err != nil {
		return SaveResult{}, err
	}

	return s.derive(ctx, entry, existing != nil), nil
}

// UpdateEntry edits the entry with the given id. Editing another user's
// entry is a permission error; an unknown id is not found.
func (s *Service) UpdateEntry(ctx context.Context, id int64, userID string, date time.Time, content string, weather *Weather) (SaveResult, error) {
	if err := validateEntry(userID, content, date); err != nil {
		return SaveResult{}, err
	}

	entry, err := s.entries.EntryByID(ctx, id)
	if err != nil {
		return SaveResult{}, err
	}
	if entry == nil {
		return SaveResult{}, ErrNotFound
	}
	if entry.UserID != userID {
		return SaveResult{}, ErrPermissionDenied
	}

	entry.Content = content
	entry.EntryDate = DateOf(date)
	entry.Weather = weather
	entry.UpdatedAt = s.now()

	if err := s.entries.SaveEntry(ctx, entry); err != nil {
		return SaveResult{}, err
	}

	return s.derive(ctx, entry, true), nil
}

// derive runs (re)derivation after a successful write and folds the outcome
// into a SaveResult. rederive discards the entry's prior observations first.
func (s *Service) derive(ctx context.Context, entry *Entry, rederive bool) SaveResult {
	res := SaveResult{Entry: *entry}

	var obs *Observation
	var err error
	if rederive {
		obs, err = s.deriver.RederiveForEntry(ctx, entry)
	} else {
		obs, err = s.deriver.DeriveForEntry(ctx, entry)
	}
	if err != nil {
		logger.Error("emotion derivation failed", "entry_id", entry.ID, "err", err)
		res.DeriveErr = err
		return res
	}

	res.Observation = obs
	return res
}

// EntryByDate returns the user's entry for date, or ErrNotFound.
func (s *Service) EntryByDate(ctx context.Context, userID string, date time.Time) (*Entry, error) {
	entry, err := s.entries.EntryByDate(ctx, userID, DateOf(date))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

// EntryByID returns the entry if it exists and belongs to userID. A foreign
// owner reads the same as a missing id.
func (s *Service) EntryByID(ctx context.Context, id int64, userID string) (*Entry, error) {
	entry, err := s.entries.EntryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.UserID != userID {
		return nil, ErrNotFound
	}
	return entry, nil
}

// EntriesInRange returns the user's entries with start <= date <= end.
func (s *Service) EntriesInRange(ctx context.Context, userID string, start, end time.Time) ([]Entry, error) {
	return s.entries.EntriesInRange(ctx, userID, DateOf(start), DateOf(end))
}

// DeleteEntry removes the entry and its derived observations. Observations
// go first so a failure cannot orphan them behind a deleted entry.
func (s *Service) DeleteEntry(ctx context.Context, id int64, userID string) error {
	entry, err := s.entries.EntryByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotFound
	}
	if entry.UserID != userID {
		return ErrPermissionDenied
	}

	if err := s.observations.DeleteByEntryID(ctx, id); err != nil {
		return err
	}
	if err := s.entries.DeleteEntry(ctx, id); err != nil {
		return err
	}

	logger.Info("entry deleted", "entry_id", id, "user", userID)
	return nil
}
