package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// URLToPath converts a page URL to a relative file path under the page's
// host, using ext as the file extension.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL, ext string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	host := u.Hostname()
	if host == "" {
		host = "local"
	}

	path := strings.TrimPrefix(u.Path, "/")

	// Root or trailing slash → index file in that directory
	if path == "" || strings.HasSuffix(path, "/") {
		return filepath.Join(host, filepath.FromSlash(path), "index"+ext), nil
	}

	return filepath.Join(host, filepath.FromSlash(path)+ext), nil
}

// FormatPage formats extracted page text with YAML frontmatter.
func FormatPage(sourceURL, content string, fetched time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(sourceURL)
	b.WriteString("\nfetched: ")
	b.WriteString(fetched.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(content)
	b.WriteString("\n")
	return b.String()
}

// Writer writes extracted pages as files under a directory.
type Writer struct {
	baseDir string
	ext     string

	// Now returns the fetch timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a new Writer that writes files with extension ext
// (for example ".md") under baseDir.
func NewWriter(baseDir, ext string) *Writer {
	return &Writer{baseDir: baseDir, ext: ext, Now: time.Now}
}

// WritePage writes content extracted from sourceURL and returns the path of
// the written file.
func (w *Writer) WritePage(ctx context.Context, sourceURL, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	relPath, err := URLToPath(sourceURL, w.ext)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, relPath)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	if err := os.WriteFile(fullPath, []byte(FormatPage(sourceURL, content, now())), 0644); err != nil {
		return "", err
	}
	return fullPath, nil
}
