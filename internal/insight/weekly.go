// Package insight composes the weekly narrative: five short statements
// comparing the current week's emotions against the previous week's. Each
// facet has its own rule set and degrades to an explanatory placeholder
// when its inputs are missing, so Analyze never fails.
package insight

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/daymark/internal/emotion"
	"github.com/blackwell-systems/daymark/internal/journal"
)

// trendThreshold is the percentage-point delta below which week-over-week
// movement of the same dominant emotion reads as "similar".
const trendThreshold = 5.0

// Weekly is the five-facet narrative for one week.
type Weekly struct {
	Trend       string `json:"trend"`
	Dominant    string `json:"dominant"`
	DayPattern  string `json:"day_pattern"`
	Environment string `json:"environment"`
	Personal    string `json:"personal"`
}

// Input carries one week of raw material plus both aggregated distributions.
// Previous covers the seven days immediately before the current window.
type Input struct {
	Entries      []journal.Entry
	Observations []journal.Observation
	Current      []emotion.Share
	Previous     []emotion.Share
}

// Analyze produces all five facets. provider may be nil, in which case the
// cycling placeholder provider is used for the environment facet.
func Analyze(in Input, provider ConditionProvider) Weekly {
	if provider == nil {
		provider = CycleProvider{}
	}
	return Weekly{
		Trend:       trendFacet(in.Current, in.Previous),
		Dominant:    dominantFacet(in.Current),
		DayPattern:  dayPatternFacet(in.Entries, in.Observations),
		Environment: environmentFacet(in.Entries, in.Observations, provider),
		Personal:    personalFacet(in.Entries, in.Current),
	}
}

// trendFacet compares the dominant emotion of the current and previous week.
func trendFacet(current, previous []emotion.Share) string {
	if len(previous) == 0 {
		return "This is your first week of entries."
	}

	cur, okCur := emotion.Dominant(current)
	prev, okPrev := emotion.Dominant(previous)
	if !okCur || !okPrev {
		return "There isn't enough emotion data to compare with last week."
	}

	if cur.EmotionType != prev.EmotionType {
		return fmt.Sprintf("Last week's '%s' gave way to more '%s' this week.", prev.EmotionType, cur.EmotionType)
	}

	delta := cur.Percentage - prev.Percentage
	switch {
	case delta > trendThreshold:
		return fmt.Sprintf("You felt %s %.0f%% more than last week.", cur.EmotionType, delta)
	case delta < -trendThreshold:
		return fmt.Sprintf("You felt %s %.0f%% less than last week.", cur.EmotionType, math.Abs(delta))
	default:
		return fmt.Sprintf("You felt a similar level of %s to last week.", cur.EmotionType)
	}
}

// dominantFacet names the week's strongest emotion.
func dominantFacet(current []emotion.Share) string {
	dom, ok := emotion.Dominant(current)
	if !ok {
		return "No emotion records this week."
	}
	return fmt.Sprintf("You mostly felt '%s' this week.", dom.EmotionType)
}

// dayPatternFacet finds the day of week with the highest mean observation
// intensity, matching observations to entries by exact calendar date.
func dayPatternFacet(entries []journal.Entry, observations []journal.Observation) string {
	if len(entries) == 0 || len(observations) == 0 {
		return "There isn't enough data to spot a day-of-week pattern yet."
	}

	type bucket struct {
		sum   float64
		count int
	}
	byDay := make(map[time.Weekday]*bucket)

	for _, entry := range entries {
		for _, obs := range observations {
			if !journal.SameDate(obs.ObservedDate, entry.EntryDate) {
				continue
			}
			day := entry.EntryDate.Weekday()
			b := byDay[day]
			if b == nil {
				b = &bucket{}
				byDay[day] = b
			}
			b.sum += obs.Intensity
			b.count++
		}
	}

	if len(byDay) == 0 {
		return "Your emotions were fairly even across the week."
	}

	var best time.Weekday
	bestMean := -1.0
	// Walk Monday..Sunday so ties resolve to the earlier day.
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(time.Monday) + i) % 7)
		b := byDay[day]
		if b == nil {
			continue
		}
		if mean := b.sum / float64(b.count); mean > bestMean {
			bestMean = mean
			best = day
		}
	}

	return fmt.Sprintf("Your emotions ran strongest on %ss.", best)
}

// environmentFacet pairs each recorded day's condition label with that day's
// dominant emotion, then reports the most frequent pairing.
func environmentFacet(entries []journal.Entry, observations []journal.Observation, provider ConditionProvider) string {
	if len(entries) == 0 || len(observations) == 0 {
		return "There isn't enough data to link conditions with emotions."
	}

	byCondition := make(map[string][]string)
	for _, entry := range entries {
		var dayObs []journal.Observation
		for _, obs := range observations {
			if journal.SameDate(obs.ObservedDate, entry.EntryDate) {
				dayObs = append(dayObs, obs)
			}
		}
		if len(dayObs) == 0 {
			continue
		}

		dom, ok := emotion.Dominant(emotion.Summarize(dayObs))
		if !ok {
			continue
		}
		condition := provider.ConditionFor(entry.EntryDate)
		byCondition[condition] = append(byCondition[condition], dom.EmotionType)
	}

	if len(byCondition) == 0 {
		return "No clear pattern between conditions and emotions this week."
	}

	condition := maxByCount(byCondition)
	label := mostFrequent(byCondition[condition])
	return fmt.Sprintf("On %s days you often felt '%s'.", condition, label)
}

// maxByCount picks the key with the most values; ties go alphabetical.
func maxByCount(m map[string][]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if len(m[k]) > len(m[best]) {
			best = k
		}
	}
	return best
}

// mostFrequent picks the most common string; ties go alphabetical.
func mostFrequent(values []string) string {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// personalRule is one (predicate, formatter) pair of the personalized note
// table. Rules are evaluated top-down and the first match wins.
type personalRule struct {
	matches func(entries []journal.Entry, current []emotion.Share) bool
	render  func(entries []journal.Entry, current []emotion.Share) string
}

var personalRules = []personalRule{
	{
		matches: func(entries []journal.Entry, _ []emotion.Share) bool {
			return len(entries) == 0
		},
		render: func(_ []journal.Entry, _ []emotion.Share) string {
			return "Record more entries for a deeper analysis."
		},
	},
	{
		matches: func(entries []journal.Entry, _ []emotion.Share) bool {
			return len(entries) >= 5
		},
		render: func(entries []journal.Entry, _ []emotion.Share) string {
			return fmt.Sprintf("You kept %d consistent entries this week.", len(entries))
		},
	},
	{
		matches: func(_ []journal.Entry, current []emotion.Share) bool {
			return distinctEmotions(current) > 1
		},
		render: func(_ []journal.Entry, current []emotion.Share) string {
			return fmt.Sprintf("You felt %d different emotions this week.", distinctEmotions(current))
		},
	},
	{
		matches: func(_ []journal.Entry, _ []emotion.Share) bool { return true },
		render: func(_ []journal.Entry, _ []emotion.Share) string {
			return "Steady journaling is a great way to understand yourself."
		},
	},
}

// personalFacet runs the rule table.
func personalFacet(entries []journal.Entry, current []emotion.Share) string {
	for _, rule := range personalRules {
		if rule.matches(entries, current) {
			return rule.render(entries, current)
		}
	}
	return "" // unreachable: the last rule always matches
}

func distinctEmotions(distribution []emotion.Share) int {
	seen := make(map[string]struct{})
	for _, s := range distribution {
		seen[s.EmotionType] = struct{}{}
	}
	return len(seen)
}
