package output

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/daymark/internal/emotion"
	"github.com/blackwell-systems/daymark/internal/insight"
)

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// ShareBar renders one distribution entry as a labeled percentage bar.
// Example: "joy        ██████████████░░░░░░  73.7%  (avg 0.70)"
func ShareBar(share emotion.Share, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(share.Percentage / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := EmotionStyle(share.EmotionType)

	return fmt.Sprintf(" %-12s %s %5.1f%%  %s",
		share.EmotionType,
		style.Render(bar),
		share.Percentage,
		StyleMuted.Render(fmt.Sprintf("(avg %.2f)", share.AverageIntensity)))
}

// Distribution renders a full distribution, one bar per line.
func Distribution(shares []emotion.Share, width int) string {
	if len(shares) == 0 {
		return StyleMuted.Render(" no emotion records")
	}
	lines := make([]string, 0, len(shares))
	for _, s := range shares {
		lines = append(lines, ShareBar(s, width))
	}
	return strings.Join(lines, "\n")
}

// WeeklyInsight renders the five narrative facets as a bulleted block.
func WeeklyInsight(w insight.Weekly) string {
	facets := []string{w.Trend, w.Dominant, w.DayPattern, w.Environment, w.Personal}
	var sb strings.Builder
	for _, f := range facets {
		sb.WriteString(" ")
		sb.WriteString(StyleBold.Render("•"))
		sb.WriteString(" ")
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	return sb.String()
}
