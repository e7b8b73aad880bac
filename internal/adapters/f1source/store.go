package f1source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Store caches upstream responses between runs. Session telemetry is
// immutable once a session has finished, so entries never expire and the
// pipeline never clears the cache.
type Store interface {
	// Get returns the cached payload for key, with ok=false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Put stores the payload for key.
	Put(ctx context.Context, key string, data []byte) error
}

// FileStore implements Store with one file per entry under a cache
// directory. The directory is created if absent.
type FileStore struct {
	dir string
}

// NewFileStore opens (and if needed creates) the cache directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, ErrNoCacheDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating cache dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory path.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads a cache entry.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading cache entry %s", key)
	}
	return data, true, nil
}

// Put writes a cache entry atomically (write-then-rename) so a crashed run
// never leaves a truncated entry behind.
func (s *FileStore) Put(_ context.Context, key string, data []byte) error {
	final := s.path(key)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing cache entry %s", key)
	}
	if err := os.Rename(tmp, final); err != nil {
		return errors.Wrapf(err, "committing cache entry %s", key)
	}
	return nil
}
