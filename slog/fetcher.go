// Package slog provides pagesum service decorators that log through log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesum"
)

// Ensure LoggingFetcher implements pagesum.Fetcher.
var _ pagesum.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   pagesum.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagesum.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *pagesum.FetchResult, err error) {
	defer func(begin time.Time) {
		var bytes, status int
		if res != nil {
			bytes, status = len(res.Body), res.StatusCode
		}
		f.logger.InfoContext(ctx, "fetch",
			"url", url,
			"status", status,
			"bytes", bytes,
			"duration", time.Since(begin),
			"code", pagesum.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
