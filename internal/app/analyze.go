package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/output"
)

var analyzeFlagDate string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Re-run emotion analysis for a week",
	Long: `Analyze discards the emotion observations for the Monday-Sunday week
containing a date and re-classifies every entry in it. Entries whose
classification fails are skipped and can be retried later; the command
fails only when no entry at all could be classified.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlagDate, "date", "", "Any date inside the week as YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	date, err := parseDateFlag(analyzeFlagDate)
	if err != nil {
		return err
	}
	weekStart, weekEnd := journal.WeekBounds(date)

	entries, err := env.service.EntriesInRange(cmd.Context(), env.userID, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Printf("No entries in the week of %s.\n", weekStart.Format(time.DateOnly))
		return nil
	}

	derived, err := env.deriver.DeriveForWeek(cmd.Context(), entries, env.userID, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("weekly analysis: %w", err)
	}
	if len(derived) == 0 {
		return fmt.Errorf("%w: none of %d entries could be classified", journal.ErrClassificationUnavailable, len(entries))
	}

	fmt.Printf("Classified %d of %d entries.\n", len(derived), len(entries))
	if len(derived) < len(entries) {
		fmt.Println(output.StyleMuted.Render("Some entries were skipped; run analyze again to retry them."))
	}
	fmt.Println()

	report, err := buildWeekReport(cmd, env, date)
	if err != nil {
		return err
	}
	fmt.Println(output.Section(fmt.Sprintf("Week of %s – %s", report.WeekStart, report.WeekEnd)))
	fmt.Println()
	fmt.Println(output.Distribution(report.Distribution, 20))
	return nil
}
