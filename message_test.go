package pagesum_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/pagesum"
	"github.com/stretchr/testify/assert"
)

func TestLocalizedMessage(t *testing.T) {
	t.Parallel()

	t.Run("maps every code to a distinct message", func(t *testing.T) {
		t.Parallel()

		errs := []error{
			pagesum.Errorf(pagesum.ENETWORK, "dial tcp"),
			pagesum.StatusError(500),
			pagesum.Errorf(pagesum.EHTMLPARSE, "bad charset"),
			pagesum.Errorf(pagesum.EEXTRACTION, "empty"),
			pagesum.Errorf(pagesum.ETOOSHORT, "5 runes"),
			pagesum.Errorf(pagesum.EUNKNOWN, "panic"),
			pagesum.Errorf(pagesum.EAIREQUEST, "missing API key"),
		}

		for _, lang := range []pagesum.Language{pagesum.LanguageChinese, pagesum.LanguageEnglish} {
			seen := make(map[string]bool)
			for _, err := range errs {
				msg := pagesum.LocalizedMessage(lang, err)
				assert.NotEmpty(t, msg)
				assert.False(t, seen[msg], "duplicate message %q", msg)
				seen[msg] = true
			}
		}
	})

	t.Run("interpolates HTTP status", func(t *testing.T) {
		t.Parallel()

		assert.Contains(t, pagesum.LocalizedMessage(pagesum.LanguageEnglish, pagesum.StatusError(404)), "404")
		assert.Contains(t, pagesum.LocalizedMessage(pagesum.LanguageChinese, pagesum.StatusError(404)), "404")
	})

	t.Run("interpolates AI request detail", func(t *testing.T) {
		t.Parallel()

		msg := pagesum.LocalizedMessage(pagesum.LanguageEnglish, pagesum.Errorf(pagesum.EAIREQUEST, "missing API key"))

		assert.Equal(t, "AI summary failed: missing API key", msg)
	})

	t.Run("hides internal diagnostics", func(t *testing.T) {
		t.Parallel()

		msg := pagesum.LocalizedMessage(pagesum.LanguageEnglish, pagesum.Errorf(pagesum.ENETWORK, "dial tcp 10.0.0.1:443: connection refused"))

		assert.NotContains(t, msg, "10.0.0.1")
	})

	t.Run("plain errors map to unknown", func(t *testing.T) {
		t.Parallel()

		msg := pagesum.LocalizedMessage(pagesum.LanguageEnglish, errors.New("runtime error: index out of range"))

		assert.Equal(t, "An unknown error occurred. Please try again later.", msg)
	})

	t.Run("nil error yields empty message", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, pagesum.LocalizedMessage(pagesum.LanguageEnglish, nil))
	})

	t.Run("unsupported language falls back to default", func(t *testing.T) {
		t.Parallel()

		err := pagesum.Errorf(pagesum.ETOOSHORT, "short")

		assert.Equal(t, pagesum.UserMessage(err), pagesum.LocalizedMessage("fr", err))
	})
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pagesum.LanguageEnglish, pagesum.ParseLanguage("en-US"))
	assert.Equal(t, pagesum.LanguageChinese, pagesum.ParseLanguage("zh_CN"))
	assert.Equal(t, pagesum.DefaultLanguage, pagesum.ParseLanguage(""))
	assert.Equal(t, pagesum.DefaultLanguage, pagesum.ParseLanguage("de"))
}
