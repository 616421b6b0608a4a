// Package storage provides durable key/value persistence for binder state.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

const (
	// binderDir is the name of the binder data directory.
	binderDir = ".binder"
	// dataDir is the subdirectory holding one file per key.
	dataDir = "data"
	// configFile is the name of the storage config file within .binder/.
	configFile = "config.yaml"
	// dbFile is the SQLite database used by the sqlite backend.
	dbFile = "binder.db"
)

// Backend kinds accepted in .binder/config.yaml.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var (
	// ErrNotFound is returned by a Backend when a key has never been written.
	ErrNotFound = errors.New("key not found")

	// keyRegex restricts keys to names that are safe as file names.
	keyRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

// Backend is a durable key/value store for serialized state.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Delete(key string) error
	Close() error
}

// StorageConfig contains settings stored in .binder/config.yaml.
type StorageConfig struct {
	Version int    `yaml:"version"`
	Backend string `yaml:"backend"`
}

// Storage provides access to a .binder/ directory.
type Storage struct {
	root string // path to directory containing .binder/
}

// ValidateKey checks that key is usable as a storage key.
func ValidateKey(key string) error {
	if !keyRegex.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// ValidateBackend checks that kind names a supported backend.
func ValidateBackend(kind string) error {
	switch kind {
	case BackendFile, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", kind, BackendFile, BackendSQLite)
	}
}

// Open returns a Storage for the given directory.
// Returns error if .binder/ does not exist.
func Open(dir string) (*Storage, error) {
	path := filepath.Join(dir, binderDir)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".binder/ directory not found in %s (run `binder init`)", dir)
		}
		return nil, fmt.Errorf("failed to access .binder/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".binder is not a directory")
	}

	return &Storage{root: dir}, nil
}

// Init creates a .binder/ directory using the given backend kind.
// An empty kind selects the file backend.
// Returns error if .binder/ already exists.
func Init(dir string, backend string) (*Storage, error) {
	path := filepath.Join(dir, binderDir)

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf(".binder/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .binder/: %w", err)
	}

	if backend == "" {
		backend = BackendFile
	}
	if err := ValidateBackend(backend); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(path, dataDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create .binder/data/: %w", err)
	}

	cfg := StorageConfig{Version: 1, Backend: backend}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, configFile), cfgData, 0644); err != nil {
		os.RemoveAll(path)
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	return &Storage{root: dir}, nil
}

// Root returns the root directory containing .binder/.
func (s *Storage) Root() string {
	return s.root
}

// BinderPath returns the path to the .binder/ directory.
func (s *Storage) BinderPath() string {
	return filepath.Join(s.root, binderDir)
}

// StorageConfig reads .binder/config.yaml.
// A missing backend field means the file backend.
func (s *Storage) StorageConfig() (*StorageConfig, error) {
	data, err := os.ReadFile(filepath.Join(s.BinderPath(), configFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read .binder/config.yaml: %w", err)
	}

	var cfg StorageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse .binder/config.yaml: %w", err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	if err := ValidateBackend(cfg.Backend); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OpenBackend opens the backend configured for this directory.
// The caller must Close it.
func (s *Storage) OpenBackend() (Backend, error) {
	cfg, err := s.StorageConfig()
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendSQLite:
		return NewSQLiteBackend(filepath.Join(s.BinderPath(), dbFile))
	default:
		return NewFileBackend(filepath.Join(s.BinderPath(), dataDir))
	}
}

// FileBackend stores each key as <dir>/<key>.yaml.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a FileBackend rooted at dir, creating it if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// keyPath returns the file path for a key.
func (b *FileBackend) keyPath(key string) string {
	return filepath.Join(b.dir, key+".yaml")
}

// Get reads the value for key.
func (b *FileBackend) Get(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put writes the value for key. The file is replaced atomically.
func (b *FileBackend) Put(key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, b.keyPath(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *FileBackend) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.Remove(b.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for files.
func (b *FileBackend) Close() error {
	return nil
}
