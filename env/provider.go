// Package env reads pagesum settings from environment variables and
// .env files.
package env

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/fwojciec/pagesum"
	"github.com/joho/godotenv"
)

// Ensure Provider implements pagesum.SettingsProvider at compile time.
var _ pagesum.SettingsProvider = (*Provider)(nil)

// vars lists the recognized environment variables.
type vars struct {
	APIKey       string `env:"PAGESUM_API_KEY"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	APIModel     string `env:"PAGESUM_API_MODEL"`
	APIURL       string `env:"PAGESUM_API_URL"`
	APIPath      string `env:"PAGESUM_API_PATH"`
	APIProvider  string `env:"PAGESUM_API_PROVIDER"`
	APIScript    string `env:"PAGESUM_API_SCRIPT"`
	Language     string `env:"PAGESUM_LANGUAGE"`
}

// Provider serves settings captured from the environment at load time.
type Provider struct {
	values map[string]string
}

// Option configures Load.
type Option func(*options)

type options struct {
	environ map[string]string
	dotenvs []string
}

// WithEnvironment replaces the process environment with m.
func WithEnvironment(m map[string]string) Option {
	return func(o *options) {
		o.environ = maps.Clone(m)
	}
}

// WithDotEnv reads variables from the given .env files. Missing files are
// ignored. Variables already present in the environment take precedence.
func WithDotEnv(paths ...string) Option {
	return func(o *options) {
		o.dotenvs = append(o.dotenvs, paths...)
	}
}

// Load reads the environment. PAGESUM_API_KEY falls back to OPENAI_API_KEY.
func Load(opts ...Option) (*Provider, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.environ == nil {
		o.environ = environ()
	}

	for _, path := range o.dotenvs {
		m, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range m {
			if _, ok := o.environ[k]; !ok {
				o.environ[k] = v
			}
		}
	}

	var v vars
	if err := env.ParseWithOptions(&v, env.Options{Environment: o.environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return &Provider{values: map[string]string{
		pagesum.SettingAPIKey:      cmp.Or(v.APIKey, v.OpenAIAPIKey),
		pagesum.SettingAPIModel:    v.APIModel,
		pagesum.SettingAPIURL:      v.APIURL,
		pagesum.SettingAPIPath:     v.APIPath,
		pagesum.SettingAPIProvider: v.APIProvider,
		pagesum.SettingAPIScript:   v.APIScript,
		pagesum.SettingLanguage:    v.Language,
	}}, nil
}

// Get returns the value of key if its variable is set and non-empty.
func (p *Provider) Get(_ context.Context, key string) (string, bool, error) {
	v := p.values[key]
	return v, v != "", nil
}

func environ() map[string]string {
	m := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}
