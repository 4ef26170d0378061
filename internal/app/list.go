package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/daymark/internal/output"
)

var (
	listFlagFrom string
	listFlagTo   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries in a date range",
	Long: `List shows your entries ordered by date. Without flags it covers the
last 30 days.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFlagFrom, "from", "", "Start date as YYYY-MM-DD (default: 30 days ago)")
	listCmd.Flags().StringVar(&listFlagTo, "to", "", "End date as YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	to, err := parseDateFlag(listFlagTo)
	if err != nil {
		return err
	}
	from := to.AddDate(0, 0, -30)
	if listFlagFrom != "" {
		from, err = parseDateFlag(listFlagFrom)
		if err != nil {
			return err
		}
	}
	if from.After(to) {
		return fmt.Errorf("--from %s is after --to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	entries, err := env.service.EntriesInRange(cmd.Context(), env.userID, from, to)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries in range.")
		return nil
	}

	table := output.NewTable("ID", "DATE", "ENTRY")
	for _, e := range entries {
		table.AddRow(
			fmt.Sprintf("%d", e.ID),
			e.EntryDate.Format(time.DateOnly),
			truncate(e.Content, 60),
		)
	}
	table.Print()
	fmt.Printf("\n%d entries\n", len(entries))
	return nil
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
