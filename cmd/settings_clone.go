package cmd

import (
	"github.com/spf13/cobra"
)

var settingsCloneCmd = &cobra.Command{
	Use:   "clone [dir]",
	Short: "Clone the device's settings repository",
	Long: `Clone the settings repository assigned to this device by Lattice
Cloud. The destination defaults to the local settings directory.
Cloning is idempotent: an existing checkout of the same repository is
left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsClone,
}

func init() {
	settingsCmd.AddCommand(settingsCloneCmd)
}

func runSettingsClone(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := settingsStore(ctx)
	if err != nil {
		return err
	}

	dir := store.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	stop := startSpinner("Cloning settings repository...")
	err = store.CloneInto(ctx, dir)
	stop()
	if err != nil {
		return err
	}

	logSuccess("Settings repository ready at %s", dir)
	return nil
}
