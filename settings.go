package pagesum

import (
	"context"
	"slices"
)

// Settings keys.
const (
	SettingAPIKey      = "apiKey"
	SettingAPIModel    = "apiModel"
	SettingAPIURL      = "apiUrl"
	SettingAPIPath     = "apiPath"
	SettingAPIScript   = "apiScript"
	SettingAPIProvider = "apiProvider"
	SettingLanguage    = "language"
)

// SettingKeys lists every key understood by LoadConfig.
var SettingKeys = []string{
	SettingAPIKey,
	SettingAPIModel,
	SettingAPIURL,
	SettingAPIPath,
	SettingAPIScript,
	SettingAPIProvider,
	SettingLanguage,
}

// IsSettingKey reports whether key is a known settings key.
func IsSettingKey(key string) bool {
	return slices.Contains(SettingKeys, key)
}

// SettingsProvider is a read-only key-value view over persisted settings.
type SettingsProvider interface {
	// Get returns the value stored under key. ok is false if the key is
	// absent; err is reserved for storage failures.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// SettingsStore is a SettingsProvider that can also be written.
type SettingsStore interface {
	SettingsProvider

	// Set stores value under key and persists it. An empty value removes
	// the key.
	Set(ctx context.Context, key, value string) error

	// Keys returns the stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
}

// ChainSettings looks keys up in each provider in order. The first
// provider holding a non-empty value wins.
type ChainSettings []SettingsProvider

// Ensure ChainSettings implements SettingsProvider at compile time.
var _ SettingsProvider = ChainSettings(nil)

// Get implements SettingsProvider.
func (c ChainSettings) Get(ctx context.Context, key string) (string, bool, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		v, ok, err := p.Get(ctx, key)
		if err != nil {
			return "", false, err
		}
		if ok && v != "" {
			return v, true, nil
		}
	}
	return "", false, nil
}
