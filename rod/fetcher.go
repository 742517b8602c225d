// Package rod fetches JavaScript-rendered pages with a headless Chrome browser.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/pagesum"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation and rendering of a single page.
const DefaultFetchTimeout = 30 * time.Second

// statusWait bounds how long Fetch waits for the document response event
// after the page has loaded.
const statusWait = time.Second

// Ensure Fetcher implements pagesum.Fetcher at compile time.
var _ pagesum.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration

	mu     sync.Mutex
	closed atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().
		Set("disable-dev-shm-usage").
		Set("disable-background-timer-throttling").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to url, waits for the load event, and returns the rendered
// HTML together with the status of the document response.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagesum.FetchResult, error) {
	if f.closed.Load() {
		return nil, pagesum.Errorf(pagesum.EUNKNOWN, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, pagesum.Errorf(pagesum.ENETWORK, "fetch %s: %v", url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, pagesum.Errorf(pagesum.EUNKNOWN, "open page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	var status atomic.Int64
	gotStatus := make(chan struct{})
	wait := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status.Store(int64(e.Response.Status))
		close(gotStatus)
		return true
	})
	go wait()

	if err := page.Navigate(url); err != nil {
		return nil, pagesum.Errorf(pagesum.ENETWORK, "navigate to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, pagesum.Errorf(pagesum.ENETWORK, "load %s: %v", url, err)
	}

	select {
	case <-gotStatus:
	case <-time.After(statusWait):
	}

	code := int(status.Load())
	if code != 0 && (code < 200 || code > 299) {
		return nil, pagesum.StatusError(code)
	}
	if code == 0 {
		code = 200
	}

	html, err := page.HTML()
	if err != nil {
		return nil, pagesum.Errorf(pagesum.EHTMLPARSE, "read rendered HTML: %v", err)
	}

	final := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		final = info.URL
	}

	return &pagesum.FetchResult{URL: final, StatusCode: code, Body: html}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.browser != nil {
		err = f.browser.Close()
	}
	if f.launcher != nil {
		f.launcher.Kill()
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}
