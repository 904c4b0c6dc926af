package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/app"
)

var deviceSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local device and license mirrors",
	Long: `Fetch the device identity and license records from Lattice Cloud and
overwrite the local cache files. Use this after signup or whenever the
cached records have gone stale.`,
	Args: cobra.NoArgs,
	RunE: runDeviceSync,
}

func init() {
	deviceCmd.AddCommand(deviceSyncCmd)
}

func runDeviceSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	stop := startSpinner("Syncing device records...")
	device, err := app.Default.Devices.Hydrate(ctx)
	if err != nil {
		stop()
		return err
	}
	license, err := app.Default.Licenses.Hydrate(ctx)
	stop()
	if err != nil {
		return err
	}

	logSuccess("Synced device %s (id %d)", device.Hostname, device.ID)
	logSuccess("Synced license %d", license.ID)
	return nil
}
