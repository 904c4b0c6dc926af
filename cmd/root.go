package cmd

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/lattice-labs/beacon-ctl/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "beacon-ctl",
	Short: "Lattice beacon device management CLI",
	Long: `beacon-ctl manages a network-attached beacon device: its layered
settings, its cached identity and license records, and the verification
tasks reported back to Lattice Cloud.

Settings are resolved from compiled-in defaults, the tracked settings
file, the BEACON_* environment, and explicit overrides. Edits are
committed to the device's settings repository, so version history is
the audit trail.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)

// startSpinner shows a progress spinner around a long remote operation.
// Returns a cleanup function to defer. In verbose mode the spinner is
// suppressed so it cannot interleave with debug logs.
func startSpinner(message string) func() {
	if verbose {
		logInfo("%s", message)
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	if err := s.Color("cyan"); err != nil {
		logging.Debug("failed to set spinner color", "error", err)
	}
	s.Start()

	return func() {
		s.Stop()
	}
}
