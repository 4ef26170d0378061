package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/daymark/internal/classify"
	"github.com/blackwell-systems/daymark/internal/logger"
)

// Deriver keeps each entry's emotion observations in sync with its latest
// content. All classification goes through a single Classifier; each call
// either succeeds within its timeout or counts as a hard per-item failure.
type Deriver struct {
	observations ObservationStore
	classifier   classify.Classifier
	now          func() time.Time
}

// NewDeriver returns a Deriver over the given store and classifier.
func NewDeriver(observations ObservationStore, classifier classify.Classifier) *Deriver {
	return &Deriver{
		observations: observations,
		classifier:   classifier,
		now:          time.Now,
	}
}

// DeriveForEntry classifies the entry's content and persists exactly one
// observation for it, dated to the entry's calendar date and tagged with the
// Monday-Sunday week containing it. The gateway reports confidence on a
// 0-100 scale; intensity stores it normalized to [0,1].
func (d *Deriver) DeriveForEntry(ctx context.Context, entry *Entry) (*Observation, error) {
	result, err := d.classifier.Classify(ctx, entry.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	if result.EmotionType == "" {
		return nil, fmt.Errorf("%w: empty label", ErrClassificationUnavailable)
	}

	weekStart, weekEnd := WeekBounds(entry.EntryDate)
	entryID := entry.ID
	obs := &Observation{
		EntryID:      &entryID,
		EmotionType:  result.EmotionType,
		Intensity:    result.Confidence / 100,
		UserID:       entry.UserID,
		ObservedDate: DateOf(entry.EntryDate),
		WeekStart:    &weekStart,
		WeekEnd:      &weekEnd,
		ExtractedAt:  d.now(),
	}

	if err := d.observations.SaveObservation(ctx, obs); err != nil {
		return nil, fmt.Errorf("saving observation: %w", err)
	}

	logger.Debug("derived emotion", "entry_id", entry.ID, "emotion", obs.EmotionType, "intensity", obs.Intensity)
	return obs, nil
}

// RederiveForEntry discards every observation referencing the entry and
// derives a fresh one. Used on entry edits so stale labels never linger.
// The delete-then-recreate pair is not atomic against concurrent reads.
func (d *Deriver) RederiveForEntry(ctx context.Context, entry *Entry) (*Observation, error) {
	if err := d.observations.DeleteByEntryID(ctx, entry.ID); err != nil {
		return nil, fmt.Errorf("clearing prior observations for entry %d: %w", entry.ID, err)
	}
	return d.DeriveForEntry(ctx, entry)
}

// DeriveForWeek clears the user's observations in [weekStart, weekEnd] and
// classifies each entry independently. One entry's failure is logged and
// skipped; it never aborts the rest. The successfully derived observations
// come back in entry processing order, so callers can report n-of-N.
func (d *Deriver) DeriveForWeek(ctx context.Context, entries []Entry, userID string, weekStart, weekEnd time.Time) ([]Observation, error) {
	stale, err := d.observations.ObservationsInRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("loading observations to clear: %w", err)
	}
	for _, obs := range stale {
		if err := d.observations.DeleteObservation(ctx, obs.ID); err != nil {
			return nil, fmt.Errorf("clearing observation %d: %w", obs.ID, err)
		}
	}

	derived := make([]Observation, 0, len(entries))
	for i := range entries {
		obs, err := d.DeriveForEntry(ctx, &entries[i])
		if err != nil {
			logger.Warn("skipping entry in weekly derivation", "entry_id", entries[i].ID, "err", err)
			continue
		}
		derived = append(derived, *obs)
	}

	logger.Info("weekly derivation finished",
		"user", userID, "classified", len(derived), "total", len(entries),
		"week_start", weekStart.Format(time.DateOnly))
	return derived, nil
}
