package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/daymark/internal/emotion"
	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/output"
)

var showFlagDate string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show an entry and its emotion",
	Long: `Show prints the entry for a date along with the emotion derived from
it and any conditions snapshot captured at write time.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFlagDate, "date", "", "Entry date as YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(showCmd)
}

// showResult is the JSON shape for a single-entry view.
type showResult struct {
	Entry    journal.Entry   `json:"entry"`
	Emotions []emotion.Share `json:"emotions,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	date, err := parseDateFlag(showFlagDate)
	if err != nil {
		return err
	}

	entry, err := env.service.EntryByDate(cmd.Context(), env.userID, date)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			return fmt.Errorf("no entry for %s", date.Format(time.DateOnly))
		}
		return fmt.Errorf("loading entry: %w", err)
	}

	obs, err := env.obs.ObservationsInRange(cmd.Context(), env.userID, date, date)
	if err != nil {
		return fmt.Errorf("loading observations: %w", err)
	}
	shares := emotion.Summarize(obs)

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(showResult{Entry: *entry, Emotions: shares})
	}

	fmt.Println(output.Section(entry.EntryDate.Format("Monday, January 2, 2006")))
	fmt.Println()
	fmt.Println(" " + entry.Content)
	fmt.Println()

	if entry.Weather != nil {
		fmt.Printf(" %s\n", output.StyleMuted.Render(
			fmt.Sprintf("Conditions: %s, %.1f°C", entry.Weather.Description, entry.Weather.TempC)))
	}

	if len(shares) == 0 {
		fmt.Println(output.StyleMuted.Render(" No emotion derived yet; run 'daymark analyze'."))
		return nil
	}
	fmt.Println(output.Distribution(shares, 20))
	return nil
}
