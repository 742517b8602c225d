// Package pipeline provides the public page summarization operations.
// It coordinates fetching, extraction, cleaning and summarization of pages.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/fwojciec/pagesum"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the number of URLs ExtractAll processes at once.
const DefaultConcurrency = 4

// Pipeline fetches pages, turns them into cleaned text and summarizes them.
// Every returned error is a *pagesum.Error.
type Pipeline struct {
	Fetcher    pagesum.Fetcher
	Extractor  pagesum.Extractor
	Settings   pagesum.SettingsProvider
	Summarizer pagesum.Summarizer
	Logger     *slog.Logger

	// Workers bounds concurrent extraction. Defaults to GOMAXPROCS.
	Workers int

	// Concurrency bounds the number of URLs ExtractAll fetches at once.
	Concurrency int

	once sync.Once
	sem  *semaphore.Weighted
}

// Result holds the outcome of extracting a single URL.
type Result struct {
	URL  string
	Text string
	Err  error
}

// ExtractContent fetches url and returns its cleaned text.
func (p *Pipeline) ExtractContent(ctx context.Context, url string) (text string, err error) {
	logger := p.requestLogger("extract", "url", url)
	defer p.finish(logger, time.Now(), &err)

	text, err = p.extract(ctx, url)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", pagesum.Errorf(pagesum.EEXTRACTION, "no text content in %s", url)
	}
	return text, nil
}

// Summarize summarizes text using the configuration read from Settings.
func (p *Pipeline) Summarize(ctx context.Context, text string) (summary string, err error) {
	logger := p.requestLogger("summarize", "bytes", len(text))
	defer p.finish(logger, time.Now(), &err)

	return p.summarize(ctx, text)
}

// ExtractAndSummarize extracts url and summarizes the result. A summary
// failure is returned as is, without the extracted text.
func (p *Pipeline) ExtractAndSummarize(ctx context.Context, url string) (summary string, err error) {
	logger := p.requestLogger("extract_and_summarize", "url", url)
	defer p.finish(logger, time.Now(), &err)

	text, err := p.extract(ctx, url)
	if err != nil {
		return "", err
	}
	return p.summarize(ctx, text)
}

// ExtractAll extracts every URL independently. Results are returned in the
// order of urls; a failed URL does not affect the others.
func (p *Pipeline) ExtractAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			text, err := p.ExtractContent(ctx, u)
			results[i] = Result{URL: u, Text: text, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Pipeline) extract(ctx context.Context, url string) (string, error) {
	res, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", classify(err)
	}
	text, err := p.clean(ctx, res.Body)
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

// clean runs extraction and cleaning under the worker semaphore.
func (p *Pipeline) clean(ctx context.Context, html string) (text string, err error) {
	sem := p.semaphore()
	if err := sem.Acquire(ctx, 1); err != nil {
		return "", pagesum.Errorf(pagesum.EUNKNOWN, "wait for extraction worker: %v", err)
	}
	defer sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			err = pagesum.Errorf(pagesum.EUNKNOWN, "extraction panicked: %v", r)
		}
	}()

	raw, err := p.Extractor.Extract(html)
	if err != nil {
		return "", err
	}
	return pagesum.Clean(raw), nil
}

func (p *Pipeline) summarize(ctx context.Context, text string) (string, error) {
	cfg, err := pagesum.LoadConfig(ctx, p.Settings)
	if err != nil {
		return "", pagesum.Errorf(pagesum.EUNKNOWN, "load settings: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if err := pagesum.CheckContent(text); err != nil {
		return "", err
	}

	summary, err := p.Summarizer.Summarize(ctx, text, cfg)
	if err != nil {
		if !isAppError(err) {
			return "", pagesum.Errorf(pagesum.EAIREQUEST, "%v", err)
		}
		return "", err
	}
	return summary, nil
}

func (p *Pipeline) semaphore() *semaphore.Weighted {
	p.once.Do(func() {
		workers := p.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		p.sem = semaphore.NewWeighted(int64(workers))
	})
	return p.sem
}

func (p *Pipeline) requestLogger(op string, args ...any) *slog.Logger {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("request_id", uuid.NewString(), "op", op)
	logger.Debug("start", args...)
	return logger
}

func (p *Pipeline) finish(logger *slog.Logger, begin time.Time, err *error) {
	if *err != nil {
		logger.Error("failed",
			"duration", time.Since(begin),
			"code", pagesum.ErrorCode(*err),
			"err", *err,
		)
		return
	}
	logger.Debug("finished", "duration", time.Since(begin))
}

// classify converts errors outside the taxonomy into EUNKNOWN.
func classify(err error) error {
	if isAppError(err) {
		return err
	}
	return pagesum.Errorf(pagesum.EUNKNOWN, "%v", err)
}

func isAppError(err error) bool {
	var e *pagesum.Error
	return errors.As(err, &e)
}
