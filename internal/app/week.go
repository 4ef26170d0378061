package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/daymark/internal/emotion"
	"github.com/blackwell-systems/daymark/internal/insight"
	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/output"
)

var weekFlagDate string

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Weekly emotion report and insight",
	Long: `Week aggregates the Monday-Sunday week containing a date into a ranked
emotion distribution, and builds a five-part narrative comparing it with
the previous week.`,
	RunE: runWeek,
}

func init() {
	weekCmd.Flags().StringVar(&weekFlagDate, "date", "", "Any date inside the week as YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(weekCmd)
}

// weekReport is the JSON shape of the weekly view.
type weekReport struct {
	WeekStart    string          `json:"week_start"`
	WeekEnd      string          `json:"week_end"`
	Distribution []emotion.Share `json:"distribution"`
	Insight      insight.Weekly  `json:"insight"`
}

func runWeek(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	date, err := parseDateFlag(weekFlagDate)
	if err != nil {
		return err
	}

	report, err := buildWeekReport(cmd, env, date)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println(output.Section(fmt.Sprintf("Week of %s – %s", report.WeekStart, report.WeekEnd)))
	fmt.Println()
	fmt.Println(output.Distribution(report.Distribution, 20))
	fmt.Println()
	fmt.Println(output.Section("Insight"))
	fmt.Println()
	fmt.Print(output.WeeklyInsight(report.Insight))
	return nil
}

// buildWeekReport loads both weeks' observations, this week's entries, and
// assembles the distribution plus narrative. It is shared with the analyze
// command, which reports the same view after re-deriving.
func buildWeekReport(cmd *cobra.Command, env *env, date time.Time) (*weekReport, error) {
	ctx := cmd.Context()
	weekStart, weekEnd := journal.WeekBounds(date)
	prevStart, prevEnd := journal.PreviousWeekBounds(date)

	entries, err := env.service.EntriesInRange(ctx, env.userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	current, err := env.obs.ObservationsInRange(ctx, env.userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("loading observations: %w", err)
	}
	previous, err := env.obs.ObservationsInRange(ctx, env.userID, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("loading previous week: %w", err)
	}

	distribution := emotion.Summarize(current)
	weekly := insight.Analyze(insight.Input{
		Entries:      entries,
		Observations: current,
		Current:      distribution,
		Previous:     emotion.Summarize(previous),
	}, nil)

	return &weekReport{
		WeekStart:    weekStart.Format(time.DateOnly),
		WeekEnd:      weekEnd.Format(time.DateOnly),
		Distribution: distribution,
		Insight:      weekly,
	}, nil
}
