// Package htmltomarkdown renders HTML pages as Markdown text.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/pagesum"
)

// Ensure Extractor implements pagesum.Extractor at compile time.
var _ pagesum.Extractor = (*Extractor)(nil)

// Extractor wraps html-to-markdown to render HTML as Markdown. Headings,
// lists and tables keep their structure, which gives the summarizer more
// context than flat text.
type Extractor struct {
	conv *converter.Converter
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Extractor{conv: conv}
}

// Extract transforms HTML content into Markdown.
func (e *Extractor) Extract(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", pagesum.Errorf(pagesum.EHTMLPARSE, "empty HTML input")
	}

	result, err := e.conv.ConvertString(html)
	if err != nil {
		return "", pagesum.Errorf(pagesum.EHTMLPARSE, "convert HTML: %v", err)
	}

	return result, nil
}
