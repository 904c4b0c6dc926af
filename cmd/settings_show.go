package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/settings"
)

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	format, err := settings.ParseFormat(settingsFormat)
	if err != nil {
		return err
	}

	resolved, err := resolver().Resolve()
	if err != nil {
		return err
	}

	rendered, err := settings.Render(resolved, format)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
	return nil
}
