// Package vcs implements the versioned settings store: the tracked
// settings file lives in a git checkout, every save is committed, and
// version history is the audit trail for settings edits.
package vcs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lattice-labs/beacon-ctl/internal/errors"
	"github.com/lattice-labs/beacon-ctl/internal/logging"
)

// Store wraps a git checkout holding the canonical settings file.
type Store struct {
	// RepoURL is the origin of the settings repository.
	RepoURL string

	// Dir is the local checkout directory.
	Dir string

	// FileName is the tracked settings file inside Dir.
	FileName string

	// CommitName and CommitEmail identify the device in commit metadata.
	CommitName  string
	CommitEmail string

	// mu serializes the write-then-commit window within this process.
	// Cross-process racing writers are coordinated only by the atomic
	// rename and commit ordering; see the package docs.
	mu sync.Mutex
}

// New returns a store for the given settings repository and checkout.
func New(repoURL, dir, fileName string) *Store {
	return &Store{
		RepoURL:     repoURL,
		Dir:         dir,
		FileName:    fileName,
		CommitName:  "beacon-ctl",
		CommitEmail: "beacon-ctl@localhost",
	}
}

// FilePath returns the absolute path of the tracked settings file.
func (s *Store) FilePath() string {
	return filepath.Join(s.Dir, s.FileName)
}

// IsRepo reports whether dir holds a git checkout.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	// .git can be a directory (normal repo) or a file (worktree)
	return info.IsDir() || info.Mode().IsRegular()
}

// CloneInto clones the settings repository into dir. It is idempotent
// when dir already holds a checkout of the same repository; a non-empty
// directory holding anything else is a VcsError.
func (s *Store) CloneInto(ctx context.Context, dir string) error {
	if IsRepo(dir) {
		origin, err := s.git(ctx, dir, "remote", "get-url", "origin")
		if err != nil {
			return errors.VcsError("failed to inspect existing checkout "+dir, err)
		}
		if strings.TrimSpace(origin) != s.RepoURL {
			return errors.VcsError(fmt.Sprintf("directory %s holds a different repository (%s)", dir, strings.TrimSpace(origin)), nil)
		}
		logging.Debug("settings checkout already present", "dir", dir)
		return nil
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return errors.VcsError("directory is not empty and is not a settings checkout: "+dir, nil)
	}

	cmd := exec.CommandContext(ctx, "git", "clone", s.RepoURL, dir)
	if output, err := cmd.CombinedOutput(); err != nil {
		return errors.VcsError(fmt.Sprintf("failed to clone settings repository: %s", strings.TrimSpace(string(output))), err)
	}

	logging.Info("cloned settings repository", "url", s.RepoURL, "dir", dir)
	return nil
}

// CommitMessage generates the default commit message for a key edit.
func CommitMessage(key string) string {
	return fmt.Sprintf("%s updated at %s", key, time.Now().Format(time.RFC3339))
}

// SaveAndCommit writes the canonical settings text atomically and
// commits it. The file appears complete or not at all: content goes to
// a temp file in the same directory and is renamed over the target.
//
// A staging/commit failure does NOT roll back the file write. Disk
// state may then be ahead of version history; callers can detect the
// divergence with Diverged and must re-commit or reconcile.
func (s *Store) SaveAndCommit(ctx context.Context, content, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message == "" {
		message = CommitMessage(s.FileName)
	}

	if err := s.writeAtomic(content); err != nil {
		return err
	}

	if _, err := s.git(ctx, s.Dir, "add", s.FileName); err != nil {
		return errors.VcsError("failed to stage "+s.FileName, err)
	}

	if _, err := s.git(ctx, s.Dir,
		"-c", "user.name="+s.CommitName,
		"-c", "user.email="+s.CommitEmail,
		"commit", "-m", message); err != nil {
		return errors.VcsError("failed to commit "+s.FileName, err)
	}

	logging.Info("committed settings", "file", s.FileName, "message", message)
	return nil
}

// Diverged reports whether the settings file on disk differs from the
// last commit, the partial-failure state left behind by a SaveAndCommit
// that wrote but failed to commit.
func (s *Store) Diverged(ctx context.Context) (bool, error) {
	out, err := s.git(ctx, s.Dir, "status", "--porcelain", "--", s.FileName)
	if err != nil {
		return false, errors.VcsError("failed to check settings status", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// HeadMessage returns the subject of the latest commit.
func (s *Store) HeadMessage(ctx context.Context) (string, error) {
	out, err := s.git(ctx, s.Dir, "log", "-1", "--format=%s")
	if err != nil {
		return "", errors.VcsError("failed to read settings history", err)
	}
	return strings.TrimSpace(out), nil
}

func (s *Store) writeAtomic(content string) error {
	tmp, err := os.CreateTemp(s.Dir, s.FileName+".tmp-*")
	if err != nil {
		return errors.PersistError("failed to create temp settings file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.PersistError("failed to write settings file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.PersistError("failed to flush settings file", err)
	}

	if err := os.Rename(tmpName, s.FilePath()); err != nil {
		os.Remove(tmpName)
		return errors.PersistError("failed to replace settings file", err)
	}
	return nil
}

// git runs a repository-scoped git command and returns its stdout.
func (s *Store) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(output)), err)
	}
	return string(output), nil
}
