package pagesum

import "context"

// FetchResult holds a fetched page.
type FetchResult struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Body is the response body decoded as UTF-8 text.
	Body string
}

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch issues a single request for url and returns the response body.
	// Returns ENETWORK if the request cannot be dispatched, EHTTPSTATUS if
	// the response status is not 2xx, and EHTMLPARSE if the body cannot be
	// read as text.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
