package cmd

import (
	"github.com/spf13/cobra"
)

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Verify and activate the device license",
}

func init() {
	rootCmd.AddCommand(licenseCmd)
}
