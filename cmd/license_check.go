package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/app"
	"github.com/lattice-labs/beacon-ctl/internal/check"
)

var licenseCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the local license against Lattice Cloud",
	Long: `Compare the locally cached license against the device's active
license in Lattice Cloud, reporting progress through a verification
task. A match activates the license; a mismatch fails the task with a
diagnostic and exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: runLicenseCheck,
}

func init() {
	licenseCmd.AddCommand(licenseCheckCmd)
}

func runLicenseCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	device, err := requireDevice(ctx)
	if err != nil {
		return err
	}

	checker := check.NewChecker(apiClient(), app.Default.Licenses, device)

	stop := startSpinner("Verifying license...")
	license, err := checker.Run(ctx)
	stop()
	if err != nil {
		return err
	}

	logSuccess("License %d verified and active", license.ID)
	return nil
}
