// Package openai implements pagesum.SummarizerBackend for OpenAI-compatible
// chat completion endpoints.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/pagesum"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultTimeout bounds a single summary request.
const DefaultTimeout = 120 * time.Second

// Ensure Backend implements pagesum.SummarizerBackend at compile time.
var _ pagesum.SummarizerBackend = (*Backend)(nil)

// Backend posts chat completion requests to cfg.BaseURL + cfg.Path with
// bearer authentication. Requests are never retried.
type Backend struct {
	client openai.Client
	path   string
}

// Option configures a Backend.
type Option func(*settings)

type settings struct {
	timeout    time.Duration
	httpClient *http.Client
}

// WithTimeout sets the request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithHTTPClient uses c for outgoing requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

// NewBackend creates a Backend for cfg.
func NewBackend(cfg *pagesum.Config, opts ...Option) *Backend {
	s := settings{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&s)
	}

	reqOpts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(s.timeout),
	}
	if s.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(s.httpClient))
	}

	return &Backend{
		client: openai.NewClient(reqOpts...),
		path:   strings.TrimPrefix(cfg.Path, "/"),
	}
}

// Summarize sends req and decodes the chat completion response.
// Every failure is reported as EAIREQUEST.
func (b *Backend) Summarize(ctx context.Context, req *pagesum.SummaryRequest) (*pagesum.SummaryResponse, error) {
	var raw []byte
	if err := b.client.Post(ctx, b.path, req, &raw); err != nil {
		return nil, pagesum.Errorf(pagesum.EAIREQUEST, "%s", describe(err))
	}

	var resp pagesum.SummaryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, pagesum.Errorf(pagesum.EAIREQUEST, "decode response: %v", err)
	}

	return &resp, nil
}

// describe shortens API errors to their status and message.
func describe(err error) string {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Sprintf("HTTP %d: %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	}
	return err.Error()
}
