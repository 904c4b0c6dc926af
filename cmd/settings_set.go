package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/vcs"
)

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a settings value and commit it",
	Long: `Set a dotted settings key to the given value. The full settings are
re-resolved with the new value applied, validated against the schema,
written atomically to the tracked settings file, and committed to the
settings repository.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	ctx := cmd.Context()

	// Validate before touching disk: a value that breaks the schema
	// never reaches the tracked file.
	resolved, err := resolver().WithOverride(key, value)
	if err != nil {
		return err
	}

	content, err := resolved.ToTOML()
	if err != nil {
		return err
	}

	store, err := settingsStore(ctx)
	if err != nil {
		return err
	}

	if err := store.SaveAndCommit(ctx, content, vcs.CommitMessage(key)); err != nil {
		return err
	}

	logSuccess("Set %s = %s", key, value)
	return nil
}
