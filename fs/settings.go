// Package fs provides file-based storage for settings and extracted pages.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fwojciec/pagesum"
)

// Ensure SettingsStore implements pagesum.SettingsStore at compile time.
var _ pagesum.SettingsStore = (*SettingsStore)(nil)

// SettingsStore keeps settings as a flat JSON object in a single file.
// A missing file is an empty store. Writes replace the file atomically.
type SettingsStore struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// NewSettingsStore creates a SettingsStore backed by path. The file is not
// read until Open is called.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path, values: map[string]string{}}
}

// Path returns the location of the settings file.
func (s *SettingsStore) Path() string {
	return s.path
}

// Open loads the settings file.
func (s *SettingsStore) Open() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	values := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parse settings %s: %w", s.path, err)
		}
	}
	if values == nil {
		values = map[string]string{}
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Get returns the value stored under key.
func (s *SettingsStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key and writes the file. An empty value removes
// the key.
func (s *SettingsStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.values)
	if value == "" {
		delete(next, key)
	} else {
		next[key] = value
	}

	if err := s.write(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *SettingsStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values)), nil
}

// write saves values to a temporary file in the same directory and renames
// it over the settings file.
func (s *SettingsStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
