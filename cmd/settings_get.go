package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/settings"
)

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a settings value by dotted key",
	Long: `Print the effective value for a dotted settings key, for example
"octoprint.base_url". Without a key the full effective settings are
printed, like "settings show".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsGet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	format, err := settings.ParseFormat(settingsFormat)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return runSettingsShow(cmd, args)
	}
	key := args[0]

	// Nothing may reach stdout unless the lookup succeeds, so scripts
	// can trust captured output on a zero exit.
	value, err := resolver().FindValue(key)
	if err != nil {
		return err
	}

	rendered, err := settings.RenderValue(key, value, format)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
	return nil
}
