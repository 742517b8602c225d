package pagesum

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the minimum number of runes of cleaned text worth
// sending to a summarizer.
const MinContentLength = 20

var (
	tagRe      = regexp.MustCompile(`<[^>]+>`)
	citationRe = regexp.MustCompile(`\[\d+\]`)
)

// Clean strips residual HTML tags and citation markers from text and
// normalizes whitespace.
//
// Lines that start with a citation marker (footnote and reference list
// entries) are dropped. Markers inside other lines are removed and the
// line's inner whitespace is collapsed. Surviving lines are trimmed, runs of
// blank lines collapse into a single blank line, and the result is trimmed.
// Clean is pure and idempotent.
func Clean(text string) string {
	text = tagRe.ReplaceAllString(text, "")

	var sb strings.Builder
	blank := true // suppresses leading blank lines
	for _, line := range strings.Split(text, "\n") {
		line, ok := stripCitations(strings.TrimSpace(line))
		if !ok {
			continue
		}

		if line == "" {
			if !blank {
				sb.WriteString("\n")
			}
			blank = true
			continue
		}

		sb.WriteString(line)
		sb.WriteString("\n")
		blank = false
	}

	return strings.TrimSpace(sb.String())
}

// stripCitations removes citation markers from a trimmed line. It reports
// false if the whole line should be dropped.
func stripCitations(line string) (string, bool) {
	if !citationRe.MatchString(line) {
		return line, true
	}
	if loc := citationRe.FindStringIndex(line); loc[0] == 0 {
		return "", false
	}

	// Removing one marker can expose another, e.g. "[[1]2]".
	for citationRe.MatchString(line) {
		line = citationRe.ReplaceAllString(line, "")
	}
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return "", false
	}
	return line, true
}

// CheckContent reports whether cleaned text is usable for summarization.
// Returns EEXTRACTION for empty text and ETOOSHORT for text shorter than
// MinContentLength runes.
func CheckContent(text string) error {
	if strings.TrimSpace(text) == "" {
		return Errorf(EEXTRACTION, "no text content extracted")
	}
	if n := utf8.RuneCountInString(text); n < MinContentLength {
		return Errorf(ETOOSHORT, "content has %d runes, need at least %d", n, MinContentLength)
	}
	return nil
}
