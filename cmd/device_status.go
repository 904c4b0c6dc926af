package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/api"
	"github.com/lattice-labs/beacon-ctl/internal/app"
)

var deviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached device identity and license",
	Args:  cobra.NoArgs,
	RunE:  runDeviceStatus,
}

func init() {
	deviceCmd.AddCommand(deviceStatusCmd)
}

var (
	statusTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	statusLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(14)
	statusWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	statusOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func runDeviceStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Status reads only the local mirrors. A missing record renders as
	// degraded output instead of failing the whole command.
	app.Default.LoadModels(ctx)
	device := app.Default.Device()
	license := app.Default.License()

	var b strings.Builder

	b.WriteString(statusTitleStyle.Render("Device"))
	b.WriteString("\n")
	if device == nil {
		b.WriteString(statusWarnStyle.Render("  not registered - run `beacon-ctl device sync` after signup"))
		b.WriteString("\n")
	} else {
		writeStatusRow(&b, "Hostname", device.Hostname)
		writeStatusRow(&b, "Device ID", strconv.Itoa(device.ID))
		if !device.CreatedAt.IsZero() {
			writeStatusRow(&b, "Registered", device.CreatedAt.Format(time.RFC3339))
		}
	}

	b.WriteString("\n")
	b.WriteString(statusTitleStyle.Render("License"))
	b.WriteString("\n")
	if license == nil {
		b.WriteString(statusWarnStyle.Render("  no license on record"))
		b.WriteString("\n")
	} else {
		writeStatusRow(&b, "License ID", strconv.Itoa(license.ID))
		writeStatusRow(&b, "Fingerprint", license.Fingerprint)
		if license.Activated {
			writeStatusRow(&b, "Activated", statusOKStyle.Render("yes"))
		} else {
			writeStatusRow(&b, "Activated", statusWarnStyle.Render("no"))
		}
		writeStatusRow(&b, "Last check", lastCheckSummary(license.LastCheckTask))
	}

	fmt.Fprint(cmd.OutOrStdout(), b.String())
	return nil
}

func writeStatusRow(b *strings.Builder, label, value string) {
	b.WriteString("  ")
	b.WriteString(statusLabelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

func lastCheckSummary(task *api.Task) string {
	if task == nil || task.LastStatus == nil {
		return "never"
	}
	status := string(task.LastStatus.Status)
	switch task.LastStatus.Status {
	case api.StatusSuccess:
		return statusOKStyle.Render(status)
	case api.StatusFailed, api.StatusTimeout:
		return statusWarnStyle.Render(status)
	default:
		return status
	}
}
