package mock

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/fwojciec/pagesum"
)

var (
	_ pagesum.SettingsProvider = (*SettingsProvider)(nil)
	_ pagesum.SettingsStore    = (*Settings)(nil)
)

// SettingsProvider is a mock implementation of pagesum.SettingsProvider.
type SettingsProvider struct {
	GetFn func(ctx context.Context, key string) (string, bool, error)
}

func (p *SettingsProvider) Get(ctx context.Context, key string) (string, bool, error) {
	return p.GetFn(ctx, key)
}

// Settings is an in-memory pagesum.SettingsStore.
type Settings struct {
	mu     sync.Mutex
	values map[string]string
}

// NewSettings returns a Settings store holding a copy of values.
func NewSettings(values map[string]string) *Settings {
	m := make(map[string]string, len(values))
	maps.Copy(m, values)
	return &Settings{values: m}
}

func (s *Settings) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key. An empty value removes the key.
func (s *Settings) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.values, key)
		return nil
	}
	s.values[key] = value
	return nil
}

func (s *Settings) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.values)), nil
}
