package app

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/daymark/internal/journal"
)

var deleteFlagYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete an entry and its derived emotions",
	Long: `Delete removes an entry by id together with every emotion observation
derived from it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteFlagYes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id %q", args[0])
	}

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if !deleteFlagYes {
		var confirmed bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete entry %d and its emotion records?", id)).
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := env.service.DeleteEntry(cmd.Context(), id, env.userID); err != nil {
		switch {
		case errors.Is(err, journal.ErrNotFound):
			return fmt.Errorf("no entry with id %d", id)
		case errors.Is(err, journal.ErrPermissionDenied):
			return fmt.Errorf("entry %d belongs to another user", id)
		}
		return fmt.Errorf("deleting entry: %w", err)
	}

	fmt.Printf("Deleted entry %d.\n", id)
	return nil
}
