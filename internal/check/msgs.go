package check

// Status-update detail and help-link text reported to the cloud during
// a license check.
const (
	startedDetail = "Verifying device license against Lattice Cloud"

	failedDetail = "Cached license does not match the active license for this device"
	failedHelp   = "https://docs.lattice-labs.io/guides/license-mismatch"

	successDetail = "Device license verified and activated"
	successHelp   = "https://docs.lattice-labs.io/guides/license"
)
