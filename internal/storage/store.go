package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Fixed keys for the persisted catalog state. The values under these keys
// are JSON arrays and double as the backup interchange format.
const (
	ProgramsKey  = "streamflix-programs"
	PlaylistsKey = "streamflix-playlists"
)

var ErrKeyRequired = errors.New("storage key is required")

// Store is a synchronous string key-value substrate. Get reports absence
// separately from failure; Set may fail (disk full, permissions) and the
// caller decides how much to care.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore keeps one file per key inside a directory on an afero
// filesystem. Writes go through a temp file and rename so a crashed write
// never leaves a half-written value behind.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage directory not provided")
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{fs: fsys, dir: dir}, nil
}

func (s *FileStore) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrKeyRequired
	}
	// Keys are fixed identifiers, but never let one escape the directory.
	if key != filepath.Base(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *FileStore) Set(key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	err = s.fs.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
