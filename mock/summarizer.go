package mock

import (
	"context"

	"github.com/fwojciec/pagesum"
)

var (
	_ pagesum.SummarizerBackend = (*SummarizerBackend)(nil)
	_ pagesum.Summarizer        = (*Summarizer)(nil)
)

// SummarizerBackend is a mock implementation of pagesum.SummarizerBackend.
type SummarizerBackend struct {
	SummarizeFn func(ctx context.Context, req *pagesum.SummaryRequest) (*pagesum.SummaryResponse, error)
}

func (b *SummarizerBackend) Summarize(ctx context.Context, req *pagesum.SummaryRequest) (*pagesum.SummaryResponse, error) {
	return b.SummarizeFn(ctx, req)
}

// Summarizer is a mock implementation of pagesum.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, content string, cfg *pagesum.Config) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, content string, cfg *pagesum.Config) (string, error) {
	return s.SummarizeFn(ctx, content, cfg)
}
