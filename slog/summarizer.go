package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesum"
)

// Ensure LoggingBackend implements pagesum.SummarizerBackend.
var _ pagesum.SummarizerBackend = (*LoggingBackend)(nil)

// LoggingBackend wraps a SummarizerBackend with debug logging. The API key
// and message contents are never logged.
type LoggingBackend struct {
	next   pagesum.SummarizerBackend
	logger *slog.Logger
}

// NewLoggingBackend creates a new LoggingBackend.
func NewLoggingBackend(next pagesum.SummarizerBackend, logger *slog.Logger) *LoggingBackend {
	return &LoggingBackend{next: next, logger: logger}
}

// Summarize delegates to the wrapped backend and logs the request model,
// content size and number of choices returned.
func (b *LoggingBackend) Summarize(ctx context.Context, req *pagesum.SummaryRequest) (resp *pagesum.SummaryResponse, err error) {
	defer func(begin time.Time) {
		choices := 0
		if resp != nil {
			choices = len(resp.Choices)
		}
		b.logger.InfoContext(ctx, "summarize",
			"model", req.Model,
			"content_bytes", len(req.UserContent()),
			"choices", choices,
			"duration", time.Since(begin),
			"code", pagesum.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return b.next.Summarize(ctx, req)
}
