package insight

import (
	"fmt"
	"testing"
	"time"

	"github.com/blackwell-systems/daymark/internal/emotion"
	"github.com/blackwell-systems/daymark/internal/journal"
)

func day(d int) time.Time {
	// 2026-08-24 is a Monday; day(0) through day(6) cover one week.
	return time.Date(2026, time.August, 24+d, 0, 0, 0, 0, time.UTC)
}

func entryOn(d int) journal.Entry {
	return journal.Entry{UserID: "u1", Content: "text", EntryDate: day(d)}
}

func obsOn(d int, emotionType string, intensity float64) journal.Observation {
	return journal.Observation{
		EmotionType:  emotionType,
		Intensity:    intensity,
		UserID:       "u1",
		ObservedDate: day(d),
	}
}

// fixedConditions maps every date to the same label.
type fixedConditions string

func (f fixedConditions) ConditionFor(time.Time) string { return string(f) }

// --- trend ---

func TestTrendFacet_FirstWeek(t *testing.T) {
	got := trendFacet([]emotion.Share{{EmotionType: "joy", Percentage: 100}}, nil)
	want := "This is your first week of entries."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTrendFacet_EmptyCurrentWeek(t *testing.T) {
	got := trendFacet(nil, []emotion.Share{{EmotionType: "joy", Percentage: 100}})
	want := "There isn't enough emotion data to compare with last week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTrendFacet_DominantChanged(t *testing.T) {
	got := trendFacet(
		[]emotion.Share{{EmotionType: "calm", Percentage: 60}},
		[]emotion.Share{{EmotionType: "anxiety", Percentage: 55}},
	)
	want := "Last week's 'anxiety' gave way to more 'calm' this week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTrendFacet_Increase(t *testing.T) {
	got := trendFacet(
		[]emotion.Share{{EmotionType: "joy", Percentage: 70}},
		[]emotion.Share{{EmotionType: "joy", Percentage: 60}},
	)
	want := "You felt joy 10% more than last week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTrendFacet_Decrease(t *testing.T) {
	got := trendFacet(
		[]emotion.Share{{EmotionType: "joy", Percentage: 50}},
		[]emotion.Share{{EmotionType: "joy", Percentage: 62}},
	)
	want := "You felt joy 12% less than last week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTrendFacet_SimilarWithinThreshold(t *testing.T) {
	for _, delta := range []float64{-5, -2, 0, 3, 5} {
		got := trendFacet(
			[]emotion.Share{{EmotionType: "joy", Percentage: 60 + delta}},
			[]emotion.Share{{EmotionType: "joy", Percentage: 60}},
		)
		want := "You felt a similar level of joy to last week."
		if got != want {
			t.Errorf("delta %.0f: got %q, want %q", delta, got, want)
		}
	}
}

// --- dominant ---

func TestDominantFacet(t *testing.T) {
	got := dominantFacet([]emotion.Share{
		{EmotionType: "joy", Percentage: 70},
		{EmotionType: "sadness", Percentage: 30},
	})
	want := "You mostly felt 'joy' this week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := dominantFacet(nil); got != "No emotion records this week." {
		t.Errorf("got %q for empty week", got)
	}
}

// --- day pattern ---

func TestDayPatternFacet_StrongestDay(t *testing.T) {
	entries := []journal.Entry{entryOn(0), entryOn(1), entryOn(2)}
	observations := []journal.Observation{
		obsOn(0, "joy", 0.4),
		obsOn(1, "joy", 0.9),
		obsOn(2, "calm", 0.5),
	}
	got := dayPatternFacet(entries, observations)
	want := "Your emotions ran strongest on Tuesdays."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDayPatternFacet_TieGoesToEarlierWeekday(t *testing.T) {
	entries := []journal.Entry{entryOn(0), entryOn(3)}
	observations := []journal.Observation{
		obsOn(0, "joy", 0.7),
		obsOn(3, "calm", 0.7),
	}
	got := dayPatternFacet(entries, observations)
	want := "Your emotions ran strongest on Mondays."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDayPatternFacet_NoData(t *testing.T) {
	got := dayPatternFacet(nil, nil)
	want := "There isn't enough data to spot a day-of-week pattern yet."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDayPatternFacet_NoDateOverlap(t *testing.T) {
	// Observations exist but none match an entry's date.
	got := dayPatternFacet([]journal.Entry{entryOn(0)}, []journal.Observation{obsOn(4, "joy", 0.5)})
	want := "Your emotions were fairly even across the week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// --- environment ---

func TestEnvironmentFacet_ReportsPairing(t *testing.T) {
	entries := []journal.Entry{entryOn(0), entryOn(1)}
	observations := []journal.Observation{
		obsOn(0, "joy", 0.8),
		obsOn(1, "joy", 0.6),
	}
	got := environmentFacet(entries, observations, fixedConditions("rainy"))
	want := "On rainy days you often felt 'joy'."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnvironmentFacet_UsesDayDominantEmotion(t *testing.T) {
	// Two observations on one day; the stronger one names the day.
	entries := []journal.Entry{entryOn(0)}
	observations := []journal.Observation{
		obsOn(0, "anxiety", 0.3),
		obsOn(0, "calm", 0.7),
	}
	got := environmentFacet(entries, observations, fixedConditions("clear"))
	want := "On clear days you often felt 'calm'."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnvironmentFacet_NoData(t *testing.T) {
	got := environmentFacet(nil, nil, fixedConditions("clear"))
	want := "There isn't enough data to link conditions with emotions."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnvironmentFacet_NoOverlap(t *testing.T) {
	got := environmentFacet([]journal.Entry{entryOn(0)}, []journal.Observation{obsOn(3, "joy", 0.5)}, fixedConditions("clear"))
	want := "No clear pattern between conditions and emotions this week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// --- personal ---

func TestPersonalFacet_ConsistentEntriesWinOverVariety(t *testing.T) {
	entries := make([]journal.Entry, 6)
	for i := range entries {
		entries[i] = entryOn(i)
	}
	current := []emotion.Share{
		{EmotionType: "joy", Percentage: 60},
		{EmotionType: "calm", Percentage: 40},
	}
	got := personalFacet(entries, current)
	want := "You kept 6 consistent entries this week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPersonalFacet_EmotionVariety(t *testing.T) {
	entries := []journal.Entry{entryOn(0), entryOn(1)}
	current := []emotion.Share{
		{EmotionType: "joy", Percentage: 50},
		{EmotionType: "anger", Percentage: 30},
		{EmotionType: "calm", Percentage: 20},
	}
	got := personalFacet(entries, current)
	want := "You felt 3 different emotions this week."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPersonalFacet_NoEntries(t *testing.T) {
	got := personalFacet(nil, nil)
	want := "Record more entries for a deeper analysis."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPersonalFacet_Default(t *testing.T) {
	got := personalFacet([]journal.Entry{entryOn(0)}, []emotion.Share{{EmotionType: "joy", Percentage: 100}})
	want := "Steady journaling is a great way to understand yourself."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// --- whole analysis ---

func TestAnalyze_FillsAllFacets(t *testing.T) {
	entries := []journal.Entry{entryOn(0), entryOn(1)}
	observations := []journal.Observation{obsOn(0, "joy", 0.8), obsOn(1, "calm", 0.5)}
	current := emotion.Summarize(observations)

	weekly := Analyze(Input{
		Entries:      entries,
		Observations: observations,
		Current:      current,
		Previous:     nil,
	}, fixedConditions("cloudy"))

	for i, facet := range []string{weekly.Trend, weekly.Dominant, weekly.DayPattern, weekly.Environment, weekly.Personal} {
		if facet == "" {
			t.Errorf("facet %d is empty", i)
		}
	}
	if weekly.Trend != "This is your first week of entries." {
		t.Errorf("unexpected trend %q", weekly.Trend)
	}
}

func TestCycleProvider_Deterministic(t *testing.T) {
	p := CycleProvider{}
	d := day(2)
	if p.ConditionFor(d) != p.ConditionFor(d) {
		t.Error("expected the same label for the same date")
	}
	if p.ConditionFor(d) == "" {
		t.Error("expected a non-empty label")
	}
}

func TestCycleProvider_CyclesWithDayOfYear(t *testing.T) {
	p := CycleProvider{}
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		seen[p.ConditionFor(day(i))] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 distinct labels over 5 consecutive days, got %d: %v", len(seen), keys(seen))
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func ExampleAnalyze() {
	observations := []journal.Observation{obsOn(0, "joy", 0.8)}
	weekly := Analyze(Input{
		Entries:      []journal.Entry{entryOn(0)},
		Observations: observations,
		Current:      emotion.Summarize(observations),
	}, fixedConditions("clear"))
	fmt.Println(weekly.Dominant)
	// Output: You mostly felt 'joy' this week.
}
