package insight

import "time"

// ConditionProvider maps a calendar date to a categorical environment label
// ("clear", "rain", ...). The weekly analysis only counts label occurrences,
// so any deterministic provider works; a real weather source can be plugged
// in without touching the analysis.
type ConditionProvider interface {
	ConditionFor(date time.Time) string
}

// defaultConditions are the labels CycleProvider rotates through.
var defaultConditions = []string{"clear", "cloudy", "rainy", "snowy", "foggy"}

// CycleProvider is a stand-in provider that cycles labels by day of year.
// It is NOT a real environmental signal; it exists so the correlation facet
// has deterministic input until a weather-backed provider replaces it.
type CycleProvider struct {
	Labels []string
}

// ConditionFor returns the label for date's day of year.
func (p CycleProvider) ConditionFor(date time.Time) string {
	labels := p.Labels
	if len(labels) == 0 {
		labels = defaultConditions
	}
	return labels[date.YearDay()%len(labels)]
}
