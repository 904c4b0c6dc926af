package cmd

import (
	"github.com/spf13/cobra"
)

var settingsFormat string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage device settings",
	Long: `Inspect and edit the layered device settings.

The effective settings are resolved from compiled-in defaults, the
tracked settings file, and BEACON_* environment variables, in that
order of precedence. Edits are committed to the device's settings
repository.`,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.PersistentFlags().StringVarP(&settingsFormat, "format", "f", "toml", "Output format (json or toml)")
}
