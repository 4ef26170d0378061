package output

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/daymark/internal/emotion"
	"github.com/blackwell-systems/daymark/internal/insight"
)

func init() {
	// Keep rendered strings free of ANSI sequences in tests.
	SetNoColor(true)
}

func TestTable_Render(t *testing.T) {
	table := NewTable("ID", "DATE", "ENTRY")
	table.AddRow("1", "2026-08-24", "a good monday")
	table.AddRow("2", "2026-08-25", "tuesday")

	got := table.Render()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[0], "ID") || !strings.Contains(lines[0], "ENTRY") {
		t.Errorf("header missing columns: %q", lines[0])
	}
	if !strings.Contains(lines[2], "a good monday") {
		t.Errorf("first row missing content: %q", lines[2])
	}
}

func TestTable_ShortRowIsPadded(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("only")

	got := table.Render()
	if !strings.Contains(got, "only") {
		t.Errorf("expected row content, got %q", got)
	}
}

func TestTable_Empty(t *testing.T) {
	if got := (&Table{}).Render(); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}

func TestShareBar_FillsProportionally(t *testing.T) {
	bar := ShareBar(emotion.Share{EmotionType: "joy", AverageIntensity: 0.7, Percentage: 50}, 20)
	if !strings.Contains(bar, "joy") {
		t.Errorf("expected emotion label, got %q", bar)
	}
	if got := strings.Count(bar, "█"); got != 10 {
		t.Errorf("expected 10 filled cells at 50%%, got %d", got)
	}
	if !strings.Contains(bar, "50.0%") {
		t.Errorf("expected percentage, got %q", bar)
	}
	if !strings.Contains(bar, "avg 0.70") {
		t.Errorf("expected average intensity, got %q", bar)
	}
}

func TestShareBar_ClampsOverflow(t *testing.T) {
	bar := ShareBar(emotion.Share{EmotionType: "joy", Percentage: 150}, 10)
	if got := strings.Count(bar, "█"); got != 10 {
		t.Errorf("expected full bar, got %d cells", got)
	}
}

func TestDistribution_Empty(t *testing.T) {
	got := Distribution(nil, 20)
	if !strings.Contains(got, "no emotion records") {
		t.Errorf("expected empty placeholder, got %q", got)
	}
}

func TestWeeklyInsight_OneLinePerFacet(t *testing.T) {
	got := WeeklyInsight(insight.Weekly{
		Trend:       "t",
		Dominant:    "d",
		DayPattern:  "p",
		Environment: "e",
		Personal:    "n",
	})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 facet lines, got %d:\n%s", len(lines), got)
	}
	for _, line := range lines {
		if !strings.Contains(line, "•") {
			t.Errorf("expected bullet in %q", line)
		}
	}
}

func TestEmotionStyle_Categories(t *testing.T) {
	// Styles collapse to plain under no-color; category mapping still holds.
	for _, positive := range []string{"joy", "calm", "love"} {
		if !positiveEmotions[positive] {
			t.Errorf("expected %q to be positive", positive)
		}
	}
	for _, negative := range []string{"sadness", "anger", "anxiety"} {
		if !negativeEmotions[negative] {
			t.Errorf("expected %q to be negative", negative)
		}
	}
	if positiveEmotions["boredom"] || negativeEmotions["boredom"] {
		t.Error("unknown emotions should be neutral")
	}
}
