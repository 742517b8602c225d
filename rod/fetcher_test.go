//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/pagesum"
	"github.com/fwojciec/pagesum/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(t *testing.T, opts ...rod.Option) *rod.Fetcher {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests skipped in -short mode")
	}
	fetcher, err := rod.NewFetcher(opts...)
	if err != nil {
		t.Skipf("chrome unavailable: %v", err)
	}
	t.Cleanup(func() { _ = fetcher.Close() })
	return fetcher
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns rendered HTML", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
		}))
		defer srv.Close()

		res, err := newFetcher(t).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, res.Body, "JavaScript Rendered")
		assert.NotContains(t, res.Body, "Loading...")
	})

	t.Run("non-2xx document is a status error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<html><body>missing</body></html>`))
		}))
		defer srv.Close()

		_, err := newFetcher(t).Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, pagesum.EHTTPSTATUS, pagesum.ErrorCode(err))
		assert.Equal(t, http.StatusNotFound, pagesum.ErrorStatus(err))
	})

	t.Run("cancelled context is a network error", func(t *testing.T) {
		t.Parallel()

		fetcher := newFetcher(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, "http://example.com")

		assert.Equal(t, pagesum.ENETWORK, pagesum.ErrorCode(err))
	})

	t.Run("slow page times out", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
		}))
		defer srv.Close()

		_, err := newFetcher(t, rod.WithFetchTimeout(100*time.Millisecond)).Fetch(context.Background(), srv.URL)

		assert.Equal(t, pagesum.ENETWORK, pagesum.ErrorCode(err))
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		fetcher := newFetcher(t)

		require.NoError(t, fetcher.Close())
		require.NoError(t, fetcher.Close())
	})

	t.Run("fetch after close fails", func(t *testing.T) {
		t.Parallel()

		fetcher := newFetcher(t)
		require.NoError(t, fetcher.Close())

		_, err := fetcher.Fetch(context.Background(), "http://example.com")

		require.Error(t, err)
		assert.Contains(t, pagesum.ErrorMessage(err), "closed")
	})
}
