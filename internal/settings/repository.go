package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Repository stores settings values by key.
type Repository interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (any, bool)
	// Set stores the value and persists it.
	Set(key string, value any) error
}

// FileRepository is a Repository backed by a TOML file.
type FileRepository struct {
	path string

	mu     sync.Mutex
	values map[string]any
}

// DefaultPath returns the settings file location in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wifichan", "settings.toml"), nil
}

// Open loads the settings file at path. A missing file is not an error; it
// is created on the first Set.
func Open(path string) (*FileRepository, error) {
	r := &FileRepository{
		path:   path,
		values: make(map[string]any),
	}
	if _, err := toml.DecodeFile(path, &r.values); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	return r, nil
}

// Path returns the file backing the repository.
func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Get(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return v, ok
}

func (r *FileRepository) Set(key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.values[key]
	r.values[key] = value
	if err := r.save(); err != nil {
		if existed {
			r.values[key] = previous
		} else {
			delete(r.values, key)
		}
		return err
	}
	return nil
}

// save writes the values to a temporary file next to the target and renames
// it into place so readers never see a partial file.
func (r *FileRepository) save() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	defer os.Remove(f.Name())

	if err := toml.NewEncoder(f).Encode(r.values); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := os.Rename(f.Name(), r.path); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
