// Package storage implements local device storage for user preferences.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/enet-chat/chat-server/internal/model"
)

// FileStore keeps preferences in a single YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored preferences. A missing file yields the zero value
// and no error; unknown theme values are dropped.
func (s *FileStore) Load() (model.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prefs model.Preferences
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("failed to read preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return model.Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if !prefs.Theme.Valid() {
		prefs.Theme = ""
	}
	return prefs, nil
}

// Save writes prefs, replacing the file atomically.
func (s *FileStore) Save(prefs model.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(&prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}

// MemoryStore keeps preferences in memory. Used by tests and when no
// preferences file can be written.
type MemoryStore struct {
	mu    sync.Mutex
	prefs model.Preferences
	saves int
}

// NewMemoryStore creates a MemoryStore holding initial.
func NewMemoryStore(initial model.Preferences) *MemoryStore {
	return &MemoryStore{prefs: initial}
}

// Load returns the held preferences.
func (s *MemoryStore) Load() (model.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs, nil
}

// Save replaces the held preferences.
func (s *MemoryStore) Save(prefs model.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
	s.saves++
	return nil
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
