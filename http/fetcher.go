// Package http provides an HTTP-based implementation of pagesum.Fetcher
// for fetching pages that don't require JavaScript rendering.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/pagesum"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBodySize limits how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent is sent with every request. Some sites refuse clients
// that do not look like a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Ensure Fetcher implements pagesum.Fetcher at compile time.
var _ pagesum.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using a single HTTP GET.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits the number of body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithClient uses c instead of a fresh http.Client. The timeout option is
// ignored when a client is supplied.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the page at rawURL and returns its body as UTF-8 text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*pagesum.FetchResult, error) {
	u, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, pagesum.Errorf(pagesum.ENETWORK, "create request: %v", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pagesum.Errorf(pagesum.ENETWORK, "do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pagesum.StatusError(resp.StatusCode)
	}

	body, err := readBody(resp, f.maxBodySize)
	if err != nil {
		return nil, err
	}

	return &pagesum.FetchResult{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// readBody reads at most limit bytes of the response and converts them to
// UTF-8 using the declared or sniffed charset.
func readBody(resp *http.Response, limit int64) (string, error) {
	r, err := charset.NewReader(io.LimitReader(resp.Body, limit), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", pagesum.Errorf(pagesum.EHTMLPARSE, "decode charset: %v", err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", pagesum.Errorf(pagesum.ENETWORK, "read body: %v", err)
		}
		return "", pagesum.Errorf(pagesum.EHTMLPARSE, "read body: %v", err)
	}

	return string(body), nil
}

// NormalizeURL prepends https:// to scheme-less URLs and rejects anything
// that is not an http(s) URL with a host.
func NormalizeURL(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", pagesum.Errorf(pagesum.ENETWORK, "empty URL")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", pagesum.Errorf(pagesum.ENETWORK, "parse URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", pagesum.Errorf(pagesum.ENETWORK, "unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", pagesum.Errorf(pagesum.ENETWORK, "URL %q has no host", rawURL)
	}

	return u.String(), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
