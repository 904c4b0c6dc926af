package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	full := append([]string{"-C", dir,
		"-c", "user.name=test",
		"-c", "user.email=test@test",
	}, args...)
	out, err := exec.Command("git", full...).CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %s: %v", strings.Join(args, " "), out, err)
	}
	return string(out)
}

// newRemote creates a seed repository containing an initial settings file.
func newRemote(t *testing.T) string {
	t.Helper()
	remote := filepath.Join(t.TempDir(), "settings-remote")
	if err := os.MkdirAll(remote, 0755); err != nil {
		t.Fatalf("Failed to create remote dir: %v", err)
	}
	runGit(t, remote, "init")
	if err := os.WriteFile(filepath.Join(remote, "beacon.toml"), []byte("[cloud]\nbase_url = \"https://cloud.lattice-labs.io\"\n"), 0644); err != nil {
		t.Fatalf("Failed to seed settings file: %v", err)
	}
	runGit(t, remote, "add", "beacon.toml")
	runGit(t, remote, "commit", "-m", "initial settings")
	return remote
}

func TestCloneInto(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	remote := newRemote(t)
	dir := filepath.Join(t.TempDir(), "checkout")
	store := New(remote, dir, "beacon.toml")

	if err := store.CloneInto(ctx, dir); err != nil {
		t.Fatalf("CloneInto failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "beacon.toml")); err != nil {
		t.Errorf("settings file missing after clone: %v", err)
	}

	// Idempotent on the same repository
	if err := store.CloneInto(ctx, dir); err != nil {
		t.Errorf("CloneInto should be idempotent, got: %v", err)
	}
}

func TestCloneInto_DifferentRepo(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	remoteA := newRemote(t)
	remoteB := newRemote(t)

	dir := filepath.Join(t.TempDir(), "checkout")
	if err := New(remoteA, dir, "beacon.toml").CloneInto(ctx, dir); err != nil {
		t.Fatalf("CloneInto failed: %v", err)
	}

	err := New(remoteB, dir, "beacon.toml").CloneInto(ctx, dir)
	if err == nil {
		t.Fatal("CloneInto should fail when the directory holds a different repository")
	}
	if got := errors.GetExitCode(err); got != errors.ExitVcsError {
		t.Errorf("exit code = %d, want ExitVcsError", got)
	}
}

func TestCloneInto_NonEmptyForeignDir(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	remote := newRemote(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	err := New(remote, dir, "beacon.toml").CloneInto(ctx, dir)
	if err == nil {
		t.Fatal("CloneInto should refuse a non-empty foreign directory")
	}
}

func TestSaveAndCommit_SequentialCommits(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	remote := newRemote(t)
	dir := filepath.Join(t.TempDir(), "checkout")
	store := New(remote, dir, "beacon.toml")
	if err := store.CloneInto(ctx, dir); err != nil {
		t.Fatalf("CloneInto failed: %v", err)
	}

	first := "[cloud]\nbase_url = \"https://a.example.com\"\n"
	if err := store.SaveAndCommit(ctx, first, "cloud.base_url updated"); err != nil {
		t.Fatalf("first SaveAndCommit failed: %v", err)
	}

	second := "[cloud]\nbase_url = \"https://b.example.com\"\n"
	if err := store.SaveAndCommit(ctx, second, "cloud.base_url updated again"); err != nil {
		t.Fatalf("second SaveAndCommit failed: %v", err)
	}

	// Two distinct commits on top of the seed commit
	out := runGit(t, dir, "log", "--format=%s")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("commit count = %d, want 3: %q", len(lines), lines)
	}
	if lines[0] != "cloud.base_url updated again" || lines[1] != "cloud.base_url updated" {
		t.Errorf("unexpected commit messages: %q", lines)
	}

	// File content matches the latest commit
	data, err := os.ReadFile(store.FilePath())
	if err != nil {
		t.Fatalf("Failed to read settings file: %v", err)
	}
	if string(data) != second {
		t.Errorf("file content = %q, want %q", data, second)
	}

	diverged, err := store.Diverged(ctx)
	if err != nil {
		t.Fatalf("Diverged failed: %v", err)
	}
	if diverged {
		t.Error("file and HEAD should agree after a successful SaveAndCommit")
	}
}

func TestSaveAndCommit_DefaultMessage(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	remote := newRemote(t)
	dir := filepath.Join(t.TempDir(), "checkout")
	store := New(remote, dir, "beacon.toml")
	if err := store.CloneInto(ctx, dir); err != nil {
		t.Fatalf("CloneInto failed: %v", err)
	}

	if err := store.SaveAndCommit(ctx, "[cloud]\nbase_url = \"https://c.example.com\"\n", ""); err != nil {
		t.Fatalf("SaveAndCommit failed: %v", err)
	}

	msg, err := store.HeadMessage(ctx)
	if err != nil {
		t.Fatalf("HeadMessage failed: %v", err)
	}
	if !strings.Contains(msg, "beacon.toml updated at ") {
		t.Errorf("HeadMessage = %q, want generated default message", msg)
	}
}

func TestSaveAndCommit_CommitFailureLeavesFile(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	// A directory that is not a git checkout: the write succeeds, the
	// commit fails, and the file is NOT rolled back.
	dir := t.TempDir()
	store := New("unused", dir, "beacon.toml")

	content := "[cloud]\nbase_url = \"https://d.example.com\"\n"
	err := store.SaveAndCommit(ctx, content, "msg")
	if err == nil {
		t.Fatal("SaveAndCommit should fail outside a git checkout")
	}
	if got := errors.GetExitCode(err); got != errors.ExitVcsError {
		t.Errorf("exit code = %d, want ExitVcsError", got)
	}

	data, readErr := os.ReadFile(store.FilePath())
	if readErr != nil {
		t.Fatalf("settings file should survive the failed commit: %v", readErr)
	}
	if string(data) != content {
		t.Errorf("file content = %q, want %q", data, content)
	}
}

func TestCommitMessage(t *testing.T) {
	msg := CommitMessage("octoprint.api_key")
	if !strings.HasPrefix(msg, "octoprint.api_key updated at ") {
		t.Errorf("CommitMessage = %q", msg)
	}
}
