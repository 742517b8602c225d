package pagesum

import (
	"errors"
	"fmt"
	"strings"
)

// Language selects the catalog used for user-facing messages and the
// default summary instruction.
type Language string

// Supported languages.
const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = LanguageChinese

// ParseLanguage normalizes a language tag such as "en-US" or "zh_CN".
// Unrecognized tags fall back to DefaultLanguage.
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "en"):
		return LanguageEnglish
	case strings.HasPrefix(s, "zh"):
		return LanguageChinese
	default:
		return DefaultLanguage
	}
}

type catalog struct {
	network    string
	httpStatus string // %d
	htmlParse  string
	extraction string
	tooShort   string
	unknown    string
	aiRequest  string // %s
}

var catalogs = map[Language]catalog{
	LanguageChinese: {
		network:    "无法连接到网址，请检查网络或网址是否正确。",
		httpStatus: "网页返回异常状态码：%d。",
		htmlParse:  "无法解析网页内容，可能网页结构异常。",
		extraction: "没找到有效正文内容，请换一个链接。",
		tooShort:   "网页内容过短，无法生成有效摘要。",
		unknown:    "出现未知错误，请稍后再试。",
		aiRequest:  "AI摘要生成失败: %s",
	},
	LanguageEnglish: {
		network:    "Could not connect to the URL. Check your network connection and the address.",
		httpStatus: "The page returned an unexpected status code: %d.",
		htmlParse:  "Could not parse the page content. The page may be malformed.",
		extraction: "No readable content was found. Try a different link.",
		tooShort:   "The page content is too short to summarize.",
		unknown:    "An unknown error occurred. Please try again later.",
		aiRequest:  "AI summary failed: %s",
	},
}

// UserMessage renders err as a user-facing sentence in DefaultLanguage.
func UserMessage(err error) string {
	return LocalizedMessage(DefaultLanguage, err)
}

// LocalizedMessage renders err as a user-facing sentence in lang.
// Only the HTTP status and the AI request detail are interpolated; every
// other diagnostic stays internal. Returns "" for a nil error.
func LocalizedMessage(lang Language, err error) string {
	if err == nil {
		return ""
	}

	c, ok := catalogs[lang]
	if !ok {
		c = catalogs[DefaultLanguage]
	}

	var e *Error
	if !errors.As(err, &e) {
		return c.unknown
	}

	switch e.Code {
	case ENETWORK:
		return c.network
	case EHTTPSTATUS:
		return fmt.Sprintf(c.httpStatus, e.Status)
	case EHTMLPARSE:
		return c.htmlParse
	case EEXTRACTION:
		return c.extraction
	case ETOOSHORT:
		return c.tooShort
	case EAIREQUEST:
		return fmt.Sprintf(c.aiRequest, e.Message)
	default:
		return c.unknown
	}
}
