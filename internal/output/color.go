// Package output provides styled terminal rendering helpers for daymark.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#ce93d8")

	// ColorPositive is used for pleasant emotions and upward trends.
	ColorPositive = lipgloss.Color("#66bb6a")

	// ColorNegative is used for difficult emotions and downward trends.
	ColorNegative = lipgloss.Color("#ef5350")

	// ColorNeutral is used for neutral emotions.
	ColorNeutral = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	// StyleHeader is used for section headers.
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// StylePositive is used for pleasant emotion values.
	StylePositive = lipgloss.NewStyle().
			Foreground(ColorPositive)

	// StyleNegative is used for difficult emotion values.
	StyleNegative = lipgloss.NewStyle().
			Foreground(ColorNegative)

	// StyleNeutral is used for neutral emotion values.
	StyleNeutral = lipgloss.NewStyle().
			Foreground(ColorNeutral)

	// StyleMuted is used for de-emphasized text.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleBold is used for emphasized text.
	StyleBold = lipgloss.NewStyle().
			Bold(true)
)

// positiveEmotions and negativeEmotions drive bar coloring; anything else
// renders neutral.
var positiveEmotions = map[string]bool{
	"joy": true, "happiness": true, "calm": true, "love": true, "excitement": true,
}

var negativeEmotions = map[string]bool{
	"sadness": true, "anger": true, "anxiety": true, "fear": true, "disgust": true,
}

// EmotionStyle returns the style for an emotion label.
func EmotionStyle(emotionType string) lipgloss.Style {
	switch {
	case positiveEmotions[emotionType]:
		return StylePositive
	case negativeEmotions[emotionType]:
		return StyleNegative
	default:
		return StyleNeutral
	}
}

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally. When disabled, all
// package-level styles are reassigned to unstyled renderers.
func SetNoColor(disabled bool) {
	noColor = disabled
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StylePositive = plain
		StyleNegative = plain
		StyleNeutral = plain
		StyleMuted = plain
		StyleBold = plain
	}
}

// AutoDetect disables color when stdout is not a terminal.
func AutoDetect() {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		SetNoColor(true)
	}
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}
