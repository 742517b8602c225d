package pagesum

// Extractor renders raw HTML as readable text.
type Extractor interface {
	// Extract discards markup, scripts and styles and returns a plain-text
	// approximation of html that preserves paragraph and line breaks.
	// Malformed HTML degrades to best-effort text; EHTMLPARSE is returned
	// only when the input cannot be read as text at all.
	Extract(html string) (string, error)
}
