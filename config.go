package pagesum

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Defaults applied by LoadConfig.
const (
	DefaultModel       = "gpt-4o"
	DefaultAPIURL      = "https://api.openai.com"
	DefaultAPIPath     = "/v1/chat/completions"
	DefaultProvider    = ProviderOpenAI
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultTemperature = 0.5
)

var defaultPrompts = map[Language]string{
	LanguageChinese: "你是一个专业的信息摘要助手，我给你提供待总结的内容，内容可能是各种语言。请将内容进行总结，突出重点和难点，并以中文的Markdown格式返回。",
	LanguageEnglish: "You are a professional summarization assistant. I will give you content to summarize, which may be in any language. Summarize it, highlighting the key points and difficulties, and return the result in English as Markdown.",
}

// DefaultPrompt returns the system instruction used when none is configured.
func DefaultPrompt(lang Language) string {
	if p, ok := defaultPrompts[lang]; ok {
		return p
	}
	return defaultPrompts[DefaultLanguage]
}

// Config is the summarization configuration for a single request.
// It is built once by LoadConfig with every default already applied.
type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	Path         string
	Provider     string
	SystemPrompt string
	Temperature  float64
	Language     Language
}

// Endpoint returns the full chat completion URL.
func (c *Config) Endpoint() string {
	return c.BaseURL + c.Path
}

// Validate returns EAIREQUEST if the configuration cannot be used to send
// a summary request.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return Errorf(EAIREQUEST, "missing API key")
	}
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return Errorf(EAIREQUEST, "unknown provider %q", c.Provider)
	}
	return nil
}

// LoadConfig reads the settings record from p and applies defaults.
// A missing API key is not an error here; see Config.Validate.
func LoadConfig(ctx context.Context, p SettingsProvider) (*Config, error) {
	get := func(key, def string) (string, error) {
		v, ok, err := p.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("read setting %q: %w", key, err)
		}
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			return def, nil
		}
		return v, nil
	}

	var cfg Config
	var err error

	if cfg.APIKey, err = get(SettingAPIKey, ""); err != nil {
		return nil, err
	}
	provider, err := get(SettingAPIProvider, DefaultProvider)
	if err != nil {
		return nil, err
	}
	cfg.Provider = strings.ToLower(provider)

	lang, err := get(SettingLanguage, string(DefaultLanguage))
	if err != nil {
		return nil, err
	}
	cfg.Language = ParseLanguage(lang)

	model, url, path := DefaultModel, DefaultAPIURL, DefaultAPIPath
	if cfg.Provider == ProviderGemini {
		model, url, path = DefaultGeminiModel, "", ""
	}
	if cfg.Model, err = get(SettingAPIModel, model); err != nil {
		return nil, err
	}
	if cfg.BaseURL, err = get(SettingAPIURL, url); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Path, err = get(SettingAPIPath, path); err != nil {
		return nil, err
	}
	if cfg.Path != "" && !strings.HasPrefix(cfg.Path, "/") {
		cfg.Path = "/" + cfg.Path
	}
	if cfg.SystemPrompt, err = get(SettingAPIScript, DefaultPrompt(cfg.Language)); err != nil {
		return nil, err
	}
	cfg.Temperature = DefaultTemperature

	return &cfg, nil
}
