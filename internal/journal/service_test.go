package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/daymark/internal/classify"
	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/store/sqlite"
)

// stubClassifier returns a fixed result, or fails every call when err is set.
type stubClassifier struct {
	emotion    string
	confidence float64
	err        error
	calls      int
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (classify.Result, error) {
	s.calls++
	if s.err != nil {
		return classify.Result{}, s.err
	}
	return classify.Result{EmotionType: s.emotion, Confidence: s.confidence}, nil
}

func newFixture(t *testing.T, classifier classify.Classifier) (*journal.Service, *journal.Deriver, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	deriver := journal.NewDeriver(store, classifier)
	return journal.NewService(store, store, deriver), deriver, store
}

func monday() time.Time {
	return time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
}

func TestSaveEntry_DerivesObservation(t *testing.T) {
	svc, _, store := newFixture(t, &stubClassifier{emotion: "joy", confidence: 85})
	ctx := context.Background()

	res, err := svc.SaveEntry(ctx, "u1", monday(), "a good day", nil)
	require.NoError(t, err)
	require.NoError(t, res.DeriveErr)
	require.NotZero(t, res.Entry.ID)
	require.NotNil(t, res.Observation)
	require.Equal(t, "joy", res.Observation.EmotionType)
	require.InDelta(t, 0.85, res.Observation.Intensity, 1e-9)

	// The observation is week-tagged to the Monday-Sunday window.
	require.NotNil(t, res.Observation.WeekStart)
	require.True(t, res.Observation.WeekStart.Equal(monday()))
	require.True(t, res.Observation.WeekEnd.Equal(monday().AddDate(0, 0, 6)))

	obs, err := store.ObservationsInRange(ctx, "u1", monday(), monday())
	require.NoError(t, err)
	require.Len(t, obs, 1)
}

func TestSaveEntry_SameDateUpdatesInPlace(t *testing.T) {
	svc, _, store := newFixture(t, &stubClassifier{emotion: "joy", confidence: 80})
	ctx := context.Background()

	first, err := svc.SaveEntry(ctx, "u1", monday(), "morning draft", nil)
	require.NoError(t, err)
	second, err := svc.SaveEntry(ctx, "u1", monday(), "evening rewrite", nil)
	require.NoError(t, err)

	require.Equal(t, first.Entry.ID, second.Entry.ID)

	entries, err := store.AllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "evening rewrite", entries[0].Content)

	// Rederivation replaced, not appended.
	obs, err := store.ObservationsInRange(ctx, "u1", monday(), monday())
	require.NoError(t, err)
	require.Len(t, obs, 1)
}

func TestSaveEntry_ClassifierFailureIsNonFatal(t *testing.T) {
	svc, _, store := newFixture(t, &stubClassifier{err: errors.New("gateway down")})
	ctx := context.Background()

	res, err := svc.SaveEntry(ctx, "u1", monday(), "still worth saving", nil)
	require.NoError(t, err)
	require.Nil(t, res.Observation)
	require.ErrorIs(t, res.DeriveErr, journal.ErrClassificationUnavailable)

	// The entry write survived.
	entry, err := store.EntryByDate(ctx, "u1", monday())
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "still worth saving", entry.Content)
}

func TestSaveEntry_Validation(t *testing.T) {
	svc, _, _ := newFixture(t, &stubClassifier{emotion: "joy"})
	ctx := context.Background()

	_, err := svc.SaveEntry(ctx, "u1", monday(), "   ", nil)
	require.True(t, journal.IsValidation(err), "blank content should be a validation error")

	_, err = svc.SaveEntry(ctx, "u1", time.Time{}, "content", nil)
	require.True(t, journal.IsValidation(err), "zero date should be a validation error")

	_, err = svc.SaveEntry(ctx, "", monday(), "content", nil)
	require.True(t, journal.IsValidation(err), "empty user should be a validation error")
}

func TestUpdateEntry_OwnershipAndExistence(t *testing.T) {
	svc, _, _ := newFixture(t, &stubClassifier{emotion: "joy", confidence: 70})
	ctx := context.Background()

	res, err := svc.SaveEntry(ctx, "u1", monday(), "original", nil)
	require.NoError(t, err)

	_, err = svc.UpdateEntry(ctx, res.Entry.ID, "intruder", monday(), "hijack", nil)
	require.ErrorIs(t, err, journal.ErrPermissionDenied)

	_, err = svc.UpdateEntry(ctx, 9999, "u1", monday(), "ghost", nil)
	require.ErrorIs(t, err, journal.ErrNotFound)

	updated, err := svc.UpdateEntry(ctx, res.Entry.ID, "u1", monday(), "edited", nil)
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Entry.Content)
}

func TestEntryByID_ForeignOwnerReadsAsNotFound(t *testing.T) {
	svc, _, _ := newFixture(t, &stubClassifier{emotion: "joy"})
	ctx := context.Background()

	res, err := svc.SaveEntry(ctx, "u1", monday(), "private", nil)
	require.NoError(t, err)

	_, err = svc.EntryByID(ctx, res.Entry.ID, "u2")
	require.ErrorIs(t, err, journal.ErrNotFound)

	got, err := svc.EntryByID(ctx, res.Entry.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, "private", got.Content)
}

func TestDeleteEntry_CascadesToObservations(t *testing.T) {
	svc, _, store := newFixture(t, &stubClassifier{emotion: "joy", confidence: 90})
	ctx := context.Background()

	res, err := svc.SaveEntry(ctx, "u1", monday(), "to be removed", nil)
	require.NoError(t, err)
	require.NotNil(t, res.Observation)

	require.NoError(t, svc.DeleteEntry(ctx, res.Entry.ID, "u1"))

	entry, err := store.EntryByID(ctx, res.Entry.ID)
	require.NoError(t, err)
	require.Nil(t, entry)

	obs, err := store.ObservationsInRange(ctx, "u1", monday(), monday())
	require.NoError(t, err)
	require.Empty(t, obs)
}

func TestDeleteEntry_Errors(t *testing.T) {
	svc, _, _ := newFixture(t, &stubClassifier{emotion: "joy"})
	ctx := context.Background()

	require.ErrorIs(t, svc.DeleteEntry(ctx, 42, "u1"), journal.ErrNotFound)

	res, err := svc.SaveEntry(ctx, "u1", monday(), "mine", nil)
	require.NoError(t, err)
	require.ErrorIs(t, svc.DeleteEntry(ctx, res.Entry.ID, "u2"), journal.ErrPermissionDenied)
}

func TestDeriveForWeek_SkipsFailedEntries(t *testing.T) {
	// Fail the first classification, succeed afterwards.
	classifier := &flakyClassifier{failFirst: 1, emotion: "calm", confidence: 60}
	svc, deriver, store := newFixture(t, classifier)
	ctx := context.Background()

	var entries []journal.Entry
	for i := 0; i < 3; i++ {
		res, err := svc.SaveEntry(ctx, "u1", monday().AddDate(0, 0, i), "day", nil)
		require.NoError(t, err)
		entries = append(entries, res.Entry)
	}

	classifier.calls = 0
	classifier.failFirst = 1
	weekStart, weekEnd := journal.WeekBounds(monday())
	derived, err := deriver.DeriveForWeek(ctx, entries, "u1", weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, derived, 2, "the failed entry is skipped, not fatal")

	obs, err := store.ObservationsInRange(ctx, "u1", weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, obs, 2, "stale observations were replaced by the rerun")
}

func TestRederiveForEntry_ReplacesStaleObservation(t *testing.T) {
	classifier := &stubClassifier{emotion: "joy", confidence: 80}
	svc, deriver, store := newFixture(t, classifier)
	ctx := context.Background()

	res, err := svc.SaveEntry(ctx, "u1", monday(), "good", nil)
	require.NoError(t, err)

	classifier.emotion = "sadness"
	obs, err := deriver.RederiveForEntry(ctx, &res.Entry)
	require.NoError(t, err)
	require.Equal(t, "sadness", obs.EmotionType)

	all, err := store.ObservationsInRange(ctx, "u1", monday(), monday())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "sadness", all[0].EmotionType)
}

// flakyClassifier fails its first failFirst calls after each reset.
type flakyClassifier struct {
	failFirst  int
	emotion    string
	confidence float64
	calls      int
}

func (f *flakyClassifier) Classify(ctx context.Context, text string) (classify.Result, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return classify.Result{}, errors.New("transient failure")
	}
	return classify.Result{EmotionType: f.emotion, Confidence: f.confidence}, nil
}
