package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/app"
	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

var licenseActivateCmd = &cobra.Command{
	Use:   "activate [id]",
	Short: "Mark a license active in Lattice Cloud",
	Long: `Activate a license without running the comparison flow. The id
defaults to the locally cached license. Most devices should use
"license check" instead; activate exists for recovering from a
partially completed check.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLicenseActivate,
}

func init() {
	licenseCmd.AddCommand(licenseActivateCmd)
}

func runLicenseActivate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var licenseID int
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.ValidationError("license id must be an integer: " + args[0])
		}
		licenseID = id
	} else {
		license, err := app.Default.RequireLicense(ctx)
		if err != nil {
			return err
		}
		licenseID = license.ID
	}

	stop := startSpinner("Activating license...")
	activated, err := apiClient().ActivateLicense(ctx, licenseID)
	stop()
	if err != nil {
		return err
	}

	// Keep the mirror aligned with what the cloud now reports.
	if _, err := app.Default.Licenses.Hydrate(ctx); err != nil {
		logWarning("License activated but the local mirror could not be refreshed: %v", err)
	}

	logSuccess("License %d activated", activated.ID)
	return nil
}
