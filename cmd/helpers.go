package cmd

import (
	"context"

	"github.com/lattice-labs/beacon-ctl/internal/api"
	"github.com/lattice-labs/beacon-ctl/internal/app"
	"github.com/lattice-labs/beacon-ctl/internal/config"
	"github.com/lattice-labs/beacon-ctl/internal/settings"
	"github.com/lattice-labs/beacon-ctl/internal/vcs"
)

// paths returns the default paths configuration.
// This is a helper to reduce repetition in commands.
func paths() *config.Paths {
	return app.Default.Paths
}

// apiClient returns the application's API client.
func apiClient() api.Client {
	return app.Default.API
}

// resolver returns a settings resolver over the configured paths.
func resolver() *settings.Resolver {
	return app.Default.Resolver()
}

// requireDevice loads the cached device identity or fails with a
// SignupIncomplete error.
func requireDevice(ctx context.Context) (*api.Device, error) {
	return app.Default.RequireDevice(ctx)
}

// settingsStore builds the versioned store for the device's settings
// repository. The repository URL comes from the cloud, so the device
// identity must already be established.
func settingsStore(ctx context.Context) (*vcs.Store, error) {
	device, err := requireDevice(ctx)
	if err != nil {
		return nil, err
	}

	repo, err := apiClient().SettingsRepo(ctx, device.ID)
	if err != nil {
		return nil, err
	}

	p := paths()
	return vcs.New(repo.URL, p.SettingsDir, config.SettingsFileName), nil
}
