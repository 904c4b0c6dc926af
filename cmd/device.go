package cmd

import (
	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage the device's cloud identity",
	Long: `Inspect and refresh the device records mirrored from Lattice Cloud.
The device identity and license records are cached locally so most
commands work without a network round trip.`,
}

func init() {
	rootCmd.AddCommand(deviceCmd)
}
