// Package check implements the license verification flow: compare the
// cached license against the remote active license while reporting
// progress through a verification task.
package check

import (
	"context"

	"github.com/lattice-labs/beacon-ctl/internal/api"
	"github.com/lattice-labs/beacon-ctl/internal/cache"
	"github.com/lattice-labs/beacon-ctl/internal/errors"
	"github.com/lattice-labs/beacon-ctl/internal/logging"
)

// Checker runs license checks for one device.
type Checker struct {
	client   api.Client
	licenses *cache.Store[api.License]
	device   *api.Device
}

// NewChecker returns a checker for the given device and license cache.
func NewChecker(client api.Client, licenses *cache.Store[api.License], device *api.Device) *Checker {
	return &Checker{
		client:   client,
		licenses: licenses,
		device:   device,
	}
}

// Run verifies that the cached license matches the remote active
// license, driving the check task through Started and exactly one
// terminal status. On a match the license is re-activated remotely and
// the cache refreshed; on a mismatch the task fails with a diagnostic
// and the cache is left untouched for inspection.
func (c *Checker) Run(ctx context.Context) (*api.License, error) {
	cached, err := c.licenses.Load(ctx)
	if err != nil {
		return nil, err
	}
	logging.Info("checking validity of cached license", "fingerprint", cached.Fingerprint)

	active, err := c.client.FetchActiveLicense(ctx, c.device.ID)
	if err != nil {
		return nil, err
	}
	logging.Info("retrieved active license", "device", c.device.ID, "fingerprint", active.Fingerprint)

	reporter := NewReporter(c.client, c.device.ID)
	taskID, err := reporter.EnsureStarted(ctx, active.LastCheckTask)
	if err != nil {
		return nil, err
	}

	if cached.ID != active.ID || cached.Fingerprint != active.Fingerprint {
		if err := reporter.ReportTerminal(ctx, taskID, api.StatusFailed, failedDetail, failedHelp); err != nil {
			return nil, err
		}
		return nil, errors.LicenseMismatch(cached.ID, active.ID)
	}

	activated, err := c.client.ActivateLicense(ctx, active.ID)
	if err != nil {
		return nil, err
	}

	if err := reporter.ReportTerminal(ctx, taskID, api.StatusSuccess, successDetail, successHelp); err != nil {
		return nil, err
	}

	// The activated copy is now authoritative; refresh the mirror.
	if _, err := c.licenses.Hydrate(ctx); err != nil {
		return nil, err
	}

	return activated, nil
}
