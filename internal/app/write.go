package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/logger"
	"github.com/blackwell-systems/daymark/internal/output"
	"github.com/blackwell-systems/daymark/internal/weather"
)

var (
	writeFlagMessage string
	writeFlagDate    string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Save today's journal entry",
	Long: `Write saves one free-text entry for a calendar date. Writing again on
the same date replaces the entry's content in place. After the write the
entry is classified into an emotion; if classification is unavailable the
entry is still saved and the emotion is filled in by a later analyze run.`,
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().StringVarP(&writeFlagMessage, "message", "m", "", "Entry text (omit for an interactive editor)")
	writeCmd.Flags().StringVar(&writeFlagDate, "date", "", "Entry date as YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	date, err := parseDateFlag(writeFlagDate)
	if err != nil {
		return err
	}

	content := writeFlagMessage
	if content == "" {
		content, err = promptForEntry(date)
		if err != nil {
			return err
		}
	}

	// A missing conditions snapshot never blocks the write.
	var conditions *journal.Weather
	if env.cfg.Weather.Enabled {
		conditions = fetchConditions(cmd, env)
	}

	res, err := env.service.SaveEntry(cmd.Context(), env.userID, date, content, conditions)
	if err != nil {
		var verr *journal.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid entry: %s %s", verr.Field, verr.Reason)
		}
		return fmt.Errorf("saving entry: %w", err)
	}

	fmt.Printf("Saved entry for %s.\n", res.Entry.EntryDate.Format(time.DateOnly))
	if conditions != nil {
		fmt.Printf("Conditions: %s, %.1f°C\n", conditions.Description, conditions.TempC)
	}

	switch {
	case res.DeriveErr != nil:
		fmt.Println(output.StyleMuted.Render("Emotion analysis is unavailable right now; run 'daymark analyze' later."))
	case res.Observation != nil:
		style := output.EmotionStyle(res.Observation.EmotionType)
		fmt.Printf("Emotion: %s (intensity %.2f)\n",
			style.Render(res.Observation.EmotionType), res.Observation.Intensity)
	}
	return nil
}

// promptForEntry opens a text form when no --message was given.
func promptForEntry(date time.Time) (string, error) {
	var content string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Journal entry for %s", date.Format(time.DateOnly))).
				Description("How was your day?").
				CharLimit(4000).
				Value(&content),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("reading entry: %w", err)
	}
	return content, nil
}

// fetchConditions grabs a current-weather snapshot; failures log and return nil.
func fetchConditions(cmd *cobra.Command, env *env) *journal.Weather {
	client := weather.NewClient("", 10*time.Second)
	conditions, err := client.Current(cmd.Context(), env.cfg.Weather.Latitude, env.cfg.Weather.Longitude)
	if err != nil {
		logger.Warn("weather lookup failed", "err", err)
		return nil
	}
	return conditions
}
