// Package cache provides a read-through file cache for
// remote-authoritative records. The remote service is the system of
// record; the on-disk JSON copy is a mirror that is overwritten
// wholesale on every hydration and never merged or deleted.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lattice-labs/beacon-ctl/internal/logging"
)

// FetchFunc retrieves the authoritative record from the remote service.
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// Store caches one record kind at one injected file path. The path is
// a constructor parameter so tests can point at temporary directories;
// process-wide singleton semantics come from the fixed default paths
// in the config package.
type Store[T any] struct {
	path  string
	fetch FetchFunc[T]
}

// New returns a cache store for the given path and fetch operation.
func New[T any](path string, fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{path: path, fetch: fetch}
}

// Path returns the on-disk location of the cached record.
func (s *Store[T]) Path() string {
	return s.path
}

// Load returns the cached record, trusting the local copy without a
// remote round-trip. Any read failure (missing file, corrupt JSON)
// falls through to Hydrate. Freshness is the caller's concern.
func (s *Store[T]) Load(ctx context.Context) (*T, error) {
	record, err := s.read()
	if err == nil {
		return record, nil
	}

	logging.Warn("failed to read cached record, hydrating from remote", "path", s.path, "error", err)
	return s.Hydrate(ctx)
}

// Hydrate fetches the record from the remote service and overwrites
// the on-disk copy. A fetch failure propagates with no partial write.
func (s *Store[T]) Hydrate(ctx context.Context) (*T, error) {
	record, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.write(record); err != nil {
		return nil, err
	}

	logging.Info("hydrated cached record", "path", s.path)
	return record, nil
}

func (s *Store[T]) read() (*T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// write replaces the cached file atomically so readers never observe a
// partially written record.
func (s *Store[T]) write(record *T) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}
