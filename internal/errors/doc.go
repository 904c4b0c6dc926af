// Package errors provides typed errors with exit codes for beacon-ctl.
//
// # Error Types
//
// BeaconError is the base error type that wraps an error with an exit code:
//
//	type BeaconError struct {
//	    Code    int         // Exit code
//	    Message string      // User-facing message
//	    Cause   error       // Wrapped error
//	    Kind    ServiceKind // Failure category for service errors
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess          = 0  // Success
//	ExitGeneralError     = 1  // General/unknown errors
//	ExitConfigError      = 2  // Malformed settings layer or schema violation
//	ExitKeyNotFound      = 3  // Settings key absent from every layer
//	ExitPersistError     = 4  // Settings file write failure
//	ExitVcsError         = 5  // Clone/stage/commit failure
//	ExitServiceError     = 6  // Remote API failure
//	ExitSignupIncomplete = 7  // Required cached record missing
//	ExitLicenseMismatch  = 8  // Cached license differs from remote
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.KeyNotFound("octoprint.api_key")
//	errors.VcsError("commit failed", err)
//	errors.ServiceError(errors.ServiceAuth, "token rejected", err)
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
