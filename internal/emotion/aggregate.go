// Package emotion collapses sets of emotion observations into ranked
// distributions. Everything here is pure computation; nothing is stored.
package emotion

import (
	"sort"

	"github.com/blackwell-systems/daymark/internal/journal"
)

// Share is one emotion's slice of a distribution: the mean intensity of its
// observations and its percentage of the total intensity across all groups.
type Share struct {
	EmotionType      string  `json:"emotion_type"`
	AverageIntensity float64 `json:"average_intensity"`
	Percentage       float64 `json:"percentage"`
}

// Summarize groups observations by emotion type and computes each group's
// average intensity and percentage of the summed intensity. The result is
// sorted by percentage descending; equal percentages fall back to
// alphabetical emotion type so the order is reproducible. An empty input
// yields an empty distribution, and a zero total intensity yields zero
// percentages rather than dividing by zero.
func Summarize(observations []journal.Observation) []Share {
	if len(observations) == 0 {
		return nil
	}

	type group struct {
		sum   float64
		count int
	}
	groups := make(map[string]*group)
	var total float64

	for _, obs := range observations {
		g := groups[obs.EmotionType]
		if g == nil {
			g = &group{}
			groups[obs.EmotionType] = g
		}
		g.sum += obs.Intensity
		g.count++
		total += obs.Intensity
	}

	shares := make([]Share, 0, len(groups))
	for emotionType, g := range groups {
		s := Share{
			EmotionType:      emotionType,
			AverageIntensity: g.sum / float64(g.count),
		}
		if total > 0 {
			s.Percentage = g.sum / total * 100
		}
		shares = append(shares, s)
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percentage != shares[j].Percentage {
			return shares[i].Percentage > shares[j].Percentage
		}
		return shares[i].EmotionType < shares[j].EmotionType
	})

	return shares
}

// Dominant returns the highest-percentage share of a distribution produced
// by Summarize. The second return is false for an empty distribution.
func Dominant(distribution []Share) (Share, bool) {
	if len(distribution) == 0 {
		return Share{}, false
	}
	return distribution[0], true
}
