// Package goquery renders HTML pages as plain text using goquery.
package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagesum"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagesum.Extractor at compile time.
var _ pagesum.Extractor = (*Extractor)(nil)

// removeSelector matches elements whose content is never readable text.
const removeSelector = "head, script, style, noscript, template, svg, canvas, iframe, object, embed, [hidden]"

// Elements that start on a new line.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"caption": true, "dd": true, "details": true, "dialog": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hgroup": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"summary": true, "table": true, "tbody": true, "tfoot": true, "thead": true,
	"tr": true, "ul": true,
}

// Elements separated from their neighbours by a blank line.
var paragraphElements = map[string]bool{
	"article": true, "blockquote": true, "dl": true, "figure": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "ul": true,
}

// Extractor renders HTML as plain text, keeping paragraph and line breaks.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses rawHTML and returns its readable text.
func (e *Extractor) Extract(rawHTML string) (string, error) {
	if !utf8.ValidString(rawHTML) {
		return "", pagesum.Errorf(pagesum.EHTMLPARSE, "input is not valid UTF-8")
	}
	if strings.ContainsRune(rawHTML, 0) {
		return "", pagesum.Errorf(pagesum.EHTMLPARSE, "input contains NUL bytes")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", pagesum.Errorf(pagesum.EHTMLPARSE, "failed to parse HTML: %v", err)
	}

	doc.Find(removeSelector).Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var w textWriter
	for _, n := range root.Nodes {
		w.walk(n)
	}
	return strings.TrimSpace(w.sb.String()), nil
}

// textWriter accumulates rendered text. Line breaks and inter-word spaces
// are kept pending until the next word so they never pile up at the end.
type textWriter struct {
	sb       strings.Builder
	newlines int
	space    bool
	pre      int
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
		return
	default:
		return
	}

	tag := n.Data
	switch tag {
	case "br":
		w.newlines++
		w.space = false
		return
	case "img":
		return
	}

	gap := 0
	if blockElements[tag] {
		gap = 1
	}
	if paragraphElements[tag] {
		gap = 2
	}
	w.breakLine(gap)

	switch tag {
	case "li":
		w.write("* ")
	case "td", "th":
		w.space = true
	case "pre":
		w.pre++
		defer func() { w.pre-- }()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}

	w.breakLine(gap)
}

func (w *textWriter) breakLine(n int) {
	if n > w.newlines {
		w.newlines = n
	}
}

func (w *textWriter) text(s string) {
	if w.pre > 0 {
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			if i > 0 {
				w.newlines++
			}
			if line != "" {
				w.write(line)
			}
		}
		return
	}

	if s == "" {
		return
	}
	if r, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(r) {
		w.space = true
	}
	for _, word := range strings.Fields(s) {
		w.write(word)
		w.space = true
	}
	if r, _ := utf8.DecodeLastRuneInString(s); !unicode.IsSpace(r) {
		w.space = false
	}
}

// write emits s preceded by any pending line breaks or space.
func (w *textWriter) write(s string) {
	if w.sb.Len() > 0 {
		if w.newlines > 0 {
			w.sb.WriteString(strings.Repeat("\n", w.newlines))
		} else if w.space {
			w.sb.WriteByte(' ')
		}
	}
	w.newlines = 0
	w.space = false
	w.sb.WriteString(s)
}
