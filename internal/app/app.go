// Package app provides the application context for beacon-ctl.
// It allows dependency injection for testing.
package app

import (
	"context"
	"os"

	"github.com/lattice-labs/beacon-ctl/internal/api"
	"github.com/lattice-labs/beacon-ctl/internal/cache"
	"github.com/lattice-labs/beacon-ctl/internal/config"
	"github.com/lattice-labs/beacon-ctl/internal/errors"
	"github.com/lattice-labs/beacon-ctl/internal/logging"
	"github.com/lattice-labs/beacon-ctl/internal/settings"
)

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *config.Paths

	// API is the Lattice Cloud client
	API api.Client

	// Devices caches the device identity record
	Devices *cache.Store[api.Device]

	// Licenses caches the license record
	Licenses *cache.Store[api.License]

	// In-memory slots populated by LoadModels. Either may stay nil
	// after a failed hydration; operations that need a record go
	// through RequireDevice/RequireLicense.
	device  *api.Device
	license *api.License
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithAPI sets a custom API client
func WithAPI(client api.Client) Option {
	return func(a *App) {
		a.API = client
	}
}

// New creates a new App with the given options.
// If an API client is not provided via WithAPI, one is built from the
// cached credentials file, falling back to anonymous access against
// the resolved cloud base URL.
func New(opts ...Option) *App {
	app := &App{
		Paths: config.DefaultPaths(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.API == nil {
		app.API = api.ClientFromCredentials(app.Paths.CredentialsFile(), app.cloudBaseURL())
	}

	app.Devices = cache.New(app.Paths.DeviceCacheFile(), app.fetchDevice)
	app.Licenses = cache.New(app.Paths.LicenseCacheFile(), app.fetchLicense)

	return app
}

// cloudBaseURL resolves the configured cloud URL, falling back to the
// compiled-in default when settings cannot be resolved yet.
func (a *App) cloudBaseURL() string {
	resolved, err := settings.NewResolver(a.Paths).Resolve()
	if err != nil {
		logging.Debug("failed to resolve settings for cloud URL, using default", "error", err)
		return settings.Defaults().Cloud.BaseURL
	}
	return resolved.Cloud.BaseURL
}

func (a *App) fetchDevice(ctx context.Context) (*api.Device, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "failed to read hostname", err)
	}
	return a.API.FetchDeviceByHostname(ctx, hostname)
}

func (a *App) fetchLicense(ctx context.Context) (*api.License, error) {
	device, err := a.RequireDevice(ctx)
	if err != nil {
		return nil, err
	}
	return a.API.FetchActiveLicense(ctx, device.ID)
}

// LoadModels populates the device and license slots from their caches.
// A failed hydration leaves the slot empty instead of aborting, so the
// process starts degraded rather than crashing outright.
func (a *App) LoadModels(ctx context.Context) {
	device, err := a.Devices.Load(ctx)
	if err != nil {
		logging.Error("failed to load device record", "cache", a.Devices.Path(), "error", err)
		a.device = nil
	} else {
		a.device = device
	}

	license, err := a.Licenses.Load(ctx)
	if err != nil {
		logging.Error("failed to load license record", "cache", a.Licenses.Path(), "error", err)
		a.license = nil
	} else {
		a.license = license
	}
}

// Device returns the cached device slot, which may be nil.
func (a *App) Device() *api.Device {
	return a.device
}

// License returns the cached license slot, which may be nil.
func (a *App) License() *api.License {
	return a.license
}

// RequireDevice returns the device record, loading it on demand.
// An empty slot that cannot be filled is a SignupIncomplete error.
func (a *App) RequireDevice(ctx context.Context) (*api.Device, error) {
	if a.device != nil {
		return a.device, nil
	}
	device, err := a.Devices.Load(ctx)
	if err != nil {
		return nil, errors.SignupIncomplete(a.Devices.Path())
	}
	a.device = device
	return device, nil
}

// RequireLicense returns the license record, loading it on demand.
func (a *App) RequireLicense(ctx context.Context) (*api.License, error) {
	if a.license != nil {
		return a.license, nil
	}
	license, err := a.Licenses.Load(ctx)
	if err != nil {
		return nil, errors.SignupIncomplete(a.Licenses.Path())
	}
	a.license = license
	return license, nil
}

// Resolver returns a settings resolver over the app's paths.
func (a *App) Resolver() *settings.Resolver {
	return settings.NewResolver(a.Paths)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
