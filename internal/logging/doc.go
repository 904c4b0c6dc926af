// Package logging provides logging utilities for beacon-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("hydrating cache", "path", path)
//	logging.Warn("falling back to anonymous API access", "creds", path)
//
// # User Output
//
// User-facing messages are formatted with colored status indicators:
//
//	logging.UserInfo("Cloning settings repository...")
//	logging.UserSuccess("Settings committed: %s", message)
//	logging.UserWarning("No cached device identity")
//	logging.UserError("License check failed: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
package logging
