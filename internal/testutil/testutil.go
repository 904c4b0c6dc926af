// Package testutil provides test utilities for integration tests
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lattice-labs/beacon-ctl/internal/api"
	"github.com/lattice-labs/beacon-ctl/internal/app"
	"github.com/lattice-labs/beacon-ctl/internal/config"
)

// TestEnv holds the test environment
type TestEnv struct {
	T       *testing.T
	TmpDir  string
	Paths   *config.Paths
	API     *api.MockClient
	App     *app.App
	cleanup func()
}

// NewTestEnv creates a new test environment with a mock API client
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()

	paths := &config.Paths{
		ConfigDir:   filepath.Join(tmpDir, "config"),
		StateDir:    filepath.Join(tmpDir, "state"),
		SettingsDir: filepath.Join(tmpDir, "state", "settings"),
	}

	for _, dir := range []string{
		paths.ConfigDir,
		paths.StateDir,
		paths.SettingsDir,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	mockAPI := api.NewMockClient()

	testApp := app.New(
		app.WithPaths(paths),
		app.WithAPI(mockAPI),
	)

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(testApp)

	env := &TestEnv{
		T:      t,
		TmpDir: tmpDir,
		Paths:  paths,
		API:    mockAPI,
		App:    testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}

	return env
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// WriteSettingsFile writes the tracked settings file content
func (e *TestEnv) WriteSettingsFile(content string) {
	e.T.Helper()

	if err := os.WriteFile(e.Paths.SettingsFile(), []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write settings file: %v", err)
	}
}

// SeedDevice writes a device record into the cache and registers it
// with the mock API under its hostname
func (e *TestEnv) SeedDevice(device *api.Device) {
	e.T.Helper()

	e.API.AddDevice(device.Hostname, device)
	e.writeCache(e.Paths.DeviceCacheFile(), device)
}

// SeedLicense writes a license record into the cache and sets it as
// the mock API's active license
func (e *TestEnv) SeedLicense(license *api.License) {
	e.T.Helper()

	e.API.ActiveLicense = license
	e.writeCache(e.Paths.LicenseCacheFile(), license)
}

func (e *TestEnv) writeCache(path string, record any) {
	e.T.Helper()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		e.T.Fatalf("Failed to marshal record: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		e.T.Fatalf("Failed to write cache file %s: %v", path, err)
	}
}

// DefaultDevice returns a basic device record for testing
func DefaultDevice() *api.Device {
	return &api.Device{
		ID:       7,
		Hostname: "beacon-01",
	}
}

// DefaultLicense returns a basic license record for testing
func DefaultLicense() *api.License {
	return &api.License{
		ID:          1,
		Device:      7,
		Fingerprint: "abc",
	}
}
