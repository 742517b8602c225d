// Package summarize implements pagesum.Summarizer on top of a provider
// backend chosen per request.
package summarize

import (
	"context"
	"errors"

	"github.com/fwojciec/pagesum"
)

// Ensure Client implements pagesum.Summarizer at compile time.
var _ pagesum.Summarizer = (*Client)(nil)

// BackendFunc creates the backend that serves cfg.
type BackendFunc func(ctx context.Context, cfg *pagesum.Config) (pagesum.SummarizerBackend, error)

// Client validates the configuration, builds the request, and returns the
// first choice of the backend response.
type Client struct {
	backend BackendFunc
}

// NewClient returns a Client that obtains backends from fn.
func NewClient(fn BackendFunc) *Client {
	return &Client{backend: fn}
}

// Summarize sends content to the configured provider. No request is made
// when cfg fails validation.
func (c *Client) Summarize(ctx context.Context, content string, cfg *pagesum.Config) (string, error) {
	if cfg == nil {
		return "", pagesum.Errorf(pagesum.EAIREQUEST, "missing configuration")
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	backend, err := c.backend(ctx, cfg)
	if err != nil {
		return "", asRequestError(err)
	}

	resp, err := backend.Summarize(ctx, pagesum.NewSummaryRequest(cfg, content))
	if err != nil {
		return "", asRequestError(err)
	}
	return resp.FirstContent()
}

// asRequestError leaves application errors untouched and reports anything
// else as EAIREQUEST.
func asRequestError(err error) error {
	var e *pagesum.Error
	if errors.As(err, &e) {
		return err
	}
	return pagesum.Errorf(pagesum.EAIREQUEST, "%v", err)
}
