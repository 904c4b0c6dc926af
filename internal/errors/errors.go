package errors

import (
	"errors"
	"fmt"
)

// Exit codes for beacon-ctl
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitConfigError      = 2
	ExitKeyNotFound      = 3
	ExitPersistError     = 4
	ExitVcsError         = 5
	ExitServiceError     = 6
	ExitSignupIncomplete = 7
	ExitLicenseMismatch  = 8
)

// ServiceKind categorizes remote API failures. A single tagged category
// replaces one error variant per endpoint, which would otherwise grow
// with every new API operation.
type ServiceKind string

const (
	ServiceTransport  ServiceKind = "transport"
	ServiceNotFound   ServiceKind = "not-found"
	ServiceValidation ServiceKind = "validation"
	ServiceAuth       ServiceKind = "auth"
)

// BeaconError is the base error type for beacon-ctl
type BeaconError struct {
	Code    int
	Message string
	Cause   error
	Kind    ServiceKind // set only for service errors
}

func (e *BeaconError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BeaconError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *BeaconError) ExitCode() int {
	return e.Code
}

// New creates a new BeaconError
func New(code int, message string) *BeaconError {
	return &BeaconError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a BeaconError
func Wrap(code int, message string, cause error) *BeaconError {
	return &BeaconError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ConfigError returns an error for a malformed or invalid settings layer
func ConfigError(message string, cause error) *BeaconError {
	return Wrap(ExitConfigError, message, cause)
}

// KeyNotFound returns an error for a settings key absent from every layer
func KeyNotFound(key string) *BeaconError {
	return New(ExitKeyNotFound, fmt.Sprintf("settings key not found: %s", key))
}

// PersistError returns an error for a settings file write failure
func PersistError(message string, cause error) *BeaconError {
	return Wrap(ExitPersistError, message, cause)
}

// VcsError returns an error for clone/stage/commit failures
func VcsError(message string, cause error) *BeaconError {
	return Wrap(ExitVcsError, message, cause)
}

// ServiceError returns an error for a remote API failure, tagged with
// its failure category.
func ServiceError(kind ServiceKind, message string, cause error) *BeaconError {
	err := Wrap(ExitServiceError, message, cause)
	err.Kind = kind
	return err
}

// SignupIncomplete returns an error for a required cached record that is
// absent with no remote identity established. The cache path tells the
// operator which record is missing.
func SignupIncomplete(cache string) *BeaconError {
	return New(ExitSignupIncomplete, fmt.Sprintf("signup incomplete - failed to read from %s", cache))
}

// LicenseMismatch returns an error for a cached license that does not
// match the remote active license
func LicenseMismatch(localID, activeID int) *BeaconError {
	return New(ExitLicenseMismatch, fmt.Sprintf("license mismatch local=%d active=%d", localID, activeID))
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *BeaconError {
	return New(ExitGeneralError, message)
}

// KindOf returns the service failure category of an error, or an empty
// string if the error is not a service error.
func KindOf(err error) ServiceKind {
	var beaconErr *BeaconError
	if errors.As(err, &beaconErr) {
		return beaconErr.Kind
	}
	return ""
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var beaconErr *BeaconError
	if errors.As(err, &beaconErr) {
		return beaconErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
