package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/pagesum"
)

// Run executes the config get command.
func (c *ConfigGetCmd) Run(deps *Dependencies) error {
	if !pagesum.IsSettingKey(c.Key) {
		return unknownKey(c.Key)
	}

	v, ok, err := deps.Store.Get(deps.Ctx, c.Key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not set", c.Key)
	}
	if c.Key == pagesum.SettingAPIKey && !c.Reveal {
		v = maskSecret(v)
	}
	fmt.Fprintln(deps.Stdout, v)
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	if !pagesum.IsSettingKey(c.Key) {
		return unknownKey(c.Key)
	}

	value := strings.TrimSpace(c.Value)
	switch c.Key {
	case pagesum.SettingAPIProvider:
		value = strings.ToLower(value)
		if value != "" && value != pagesum.ProviderOpenAI && value != pagesum.ProviderGemini {
			return fmt.Errorf("unknown provider %q (valid: %s, %s)", c.Value, pagesum.ProviderOpenAI, pagesum.ProviderGemini)
		}
	case pagesum.SettingLanguage:
		lower := strings.ToLower(value)
		if value != "" && !strings.HasPrefix(lower, string(pagesum.LanguageChinese)) && !strings.HasPrefix(lower, string(pagesum.LanguageEnglish)) {
			return fmt.Errorf("unsupported language %q (valid: %s, %s)", c.Value, pagesum.LanguageChinese, pagesum.LanguageEnglish)
		}
	}

	if err := deps.Store.Set(deps.Ctx, c.Key, value); err != nil {
		return err
	}
	if value == "" {
		fmt.Fprintf(deps.Stdout, "Removed %s\n", c.Key)
	} else {
		fmt.Fprintf(deps.Stdout, "Set %s\n", c.Key)
	}
	return nil
}

// Run executes the config list command.
func (c *ConfigListCmd) Run(deps *Dependencies) error {
	keys, err := deps.Store.Keys(deps.Ctx)
	if err != nil {
		return err
	}

	for _, key := range keys {
		v, _, err := deps.Store.Get(deps.Ctx, key)
		if err != nil {
			return err
		}
		if key == pagesum.SettingAPIKey {
			v = maskSecret(v)
		}
		fmt.Fprintf(deps.Stdout, "%s=%s\n", key, v)
	}
	return nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(pagesum.SettingKeys, ", "))
}

// maskSecret keeps the first three and last four characters of long secrets.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:3] + "****" + s[len(s)-4:]
}
