package check

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lattice-labs/beacon-ctl/internal/api"
	"github.com/lattice-labs/beacon-ctl/internal/cache"
	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

type checkEnv struct {
	mock      *api.MockClient
	device    *api.Device
	licenses  *cache.Store[api.License]
	cachePath string
}

func setupCheck(t *testing.T) *checkEnv {
	t.Helper()

	mock := api.NewMockClient()
	device := &api.Device{ID: 7, Hostname: "beacon-01"}
	cachePath := filepath.Join(t.TempDir(), "license.json")
	licenses := cache.New(cachePath, func(ctx context.Context) (*api.License, error) {
		return mock.FetchActiveLicense(ctx, device.ID)
	})

	return &checkEnv{
		mock:      mock,
		device:    device,
		licenses:  licenses,
		cachePath: cachePath,
	}
}

func (e *checkEnv) seedCache(t *testing.T, license *api.License) {
	t.Helper()
	data, err := json.Marshal(license)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(e.cachePath, data, 0644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
}

// createdTaskID returns the id of the single task created through the
// mock, failing the test if the count differs.
func (e *checkEnv) createdTaskID(t *testing.T, want int) int {
	t.Helper()
	calls := e.mock.GetCallsFor("CreateTask")
	if len(calls) != want {
		t.Fatalf("CreateTask calls = %d, want %d", len(calls), want)
	}
	if want == 0 {
		return 0
	}
	for id := range e.mock.Tasks {
		return id
	}
	t.Fatal("no task recorded")
	return 0
}

func TestRun_NoActiveTask_MatchingLicense(t *testing.T) {
	env := setupCheck(t)
	env.seedCache(t, &api.License{ID: 1, Device: 7, Fingerprint: "abc"})
	env.mock.ActiveLicense = &api.License{ID: 1, Device: 7, Fingerprint: "abc"}

	checker := NewChecker(env.mock, env.licenses, env.device)
	license, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !license.Activated {
		t.Error("returned license should be activated")
	}

	// Exactly one Started followed by exactly one terminal update
	taskID := env.createdTaskID(t, 1)
	statuses := env.mock.StatusesFor(taskID)
	want := []api.Status{api.StatusStarted, api.StatusSuccess}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("status[%d] = %s, want %s", i, statuses[i], want[i])
		}
	}
}

func TestRun_FingerprintMismatch(t *testing.T) {
	env := setupCheck(t)
	env.seedCache(t, &api.License{ID: 1, Device: 7, Fingerprint: "abc"})
	env.mock.ActiveLicense = &api.License{ID: 1, Device: 7, Fingerprint: "xyz"}

	checker := NewChecker(env.mock, env.licenses, env.device)
	_, err := checker.Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail on a fingerprint mismatch")
	}
	if got := errors.GetExitCode(err); got != errors.ExitLicenseMismatch {
		t.Errorf("exit code = %d, want ExitLicenseMismatch", got)
	}

	taskID := env.createdTaskID(t, 1)
	statuses := env.mock.StatusesFor(taskID)
	want := []api.Status{api.StatusStarted, api.StatusFailed}
	if len(statuses) != len(want) || statuses[1] != api.StatusFailed {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}

	// Terminal update carries a populated diagnostic
	task := env.mock.Tasks[taskID]
	if task.History[1].Detail == "" {
		t.Error("failed update should carry a detail string")
	}
	if task.History[1].HelpURL == "" {
		t.Error("failed update should carry a help link")
	}

	// Mismatch must not trigger remote activation
	if calls := env.mock.GetCallsFor("ActivateLicense"); len(calls) != 0 {
		t.Errorf("ActivateLicense calls = %d, want 0", len(calls))
	}
}

func TestRun_IDMismatch(t *testing.T) {
	env := setupCheck(t)
	env.seedCache(t, &api.License{ID: 1, Device: 7, Fingerprint: "abc"})
	env.mock.ActiveLicense = &api.License{ID: 2, Device: 7, Fingerprint: "abc"}

	checker := NewChecker(env.mock, env.licenses, env.device)
	_, err := checker.Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail when license ids differ")
	}
	if got := errors.GetExitCode(err); got != errors.ExitLicenseMismatch {
		t.Errorf("exit code = %d, want ExitLicenseMismatch", got)
	}
}

func TestRun_LastTaskStarted_NoDuplicateUpdate(t *testing.T) {
	env := setupCheck(t)
	env.seedCache(t, &api.License{ID: 1, Device: 7, Fingerprint: "abc"})
	env.mock.ActiveLicense = &api.License{
		ID: 1, Device: 7, Fingerprint: "abc",
		LastCheckTask: &api.Task{
			ID:         55,
			Device:     7,
			TaskType:   api.TaskTypeSystemCheck,
			Active:     true,
			LastStatus: &api.StatusUpdate{Status: api.StatusStarted},
		},
	}

	checker := NewChecker(env.mock, env.licenses, env.device)
	if _, err := checker.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	env.createdTaskID(t, 0)
	statuses := env.mock.StatusesFor(55)
	if len(statuses) != 1 || statuses[0] != api.StatusSuccess {
		t.Errorf("statuses = %v, want only the terminal update on the existing task", statuses)
	}
}

func TestRun_LastTaskPending_Acknowledged(t *testing.T) {
	env := setupCheck(t)
	env.seedCache(t, &api.License{ID: 1, Device: 7, Fingerprint: "abc"})
	env.mock.ActiveLicense = &api.License{
		ID: 1, Device: 7, Fingerprint: "abc",
		LastCheckTask: &api.Task{
			ID:         55,
			Device:     7,
			TaskType:   api.TaskTypeSystemCheck,
			Active:     true,
			LastStatus: &api.StatusUpdate{Status: api.StatusPending},
		},
	}

	checker := NewChecker(env.mock, env.licenses, env.device)
	if _, err := checker.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	env.createdTaskID(t, 0)
	statuses := env.mock.StatusesFor(55)
	want := []api.Status{api.StatusStarted, api.StatusSuccess}
	if len(statuses) != len(want) || statuses[0] != want[0] || statuses[1] != want[1] {
		t.Errorf("statuses = %v, want %v", statuses, want)
	}
}

func TestRun_LastTaskTerminal_FreshTask(t *testing.T) {
	env := setupCheck(t)
	env.seedCache(t, &api.License{ID: 1, Device: 7, Fingerprint: "abc"})
	env.mock.ActiveLicense = &api.License{
		ID: 1, Device: 7, Fingerprint: "abc",
		LastCheckTask: &api.Task{
			ID:         55,
			Device:     7,
			TaskType:   api.TaskTypeSystemCheck,
			LastStatus: &api.StatusUpdate{Status: api.StatusFailed},
		},
	}

	checker := NewChecker(env.mock, env.licenses, env.device)
	if _, err := checker.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// A closed task is not reused
	if statuses := env.mock.StatusesFor(55); len(statuses) != 0 {
		t.Errorf("closed task received updates: %v", statuses)
	}

	calls := env.mock.GetCallsFor("CreateTask")
	if len(calls) != 1 {
		t.Fatalf("CreateTask calls = %d, want 1", len(calls))
	}
}

func TestRun_SubmitFailurePropagates(t *testing.T) {
	env := setupCheck(t)
	env.seedCache(t, &api.License{ID: 1, Device: 7, Fingerprint: "abc"})
	env.mock.ActiveLicense = &api.License{ID: 1, Device: 7, Fingerprint: "abc"}
	env.mock.SetError("SubmitTaskStatus", fmt.Errorf("cloud rejected update"))

	checker := NewChecker(env.mock, env.licenses, env.device)
	_, err := checker.Run(context.Background())
	if err == nil {
		t.Fatal("Run should surface status submission failures")
	}
}

func TestRun_RefreshesCacheOnSuccess(t *testing.T) {
	env := setupCheck(t)
	env.seedCache(t, &api.License{ID: 1, Device: 7, Fingerprint: "abc"})
	env.mock.ActiveLicense = &api.License{ID: 1, Device: 7, Fingerprint: "abc"}

	checker := NewChecker(env.mock, env.licenses, env.device)
	if _, err := checker.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(env.cachePath)
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	var onDisk api.License
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("cache not valid JSON: %v", err)
	}
	if !onDisk.Activated {
		t.Error("cache should hold the activated license after a successful check")
	}
}
