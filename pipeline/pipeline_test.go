package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/pagesum"
	psgoquery "github.com/fwojciec/pagesum/goquery"
	pshttp "github.com/fwojciec/pagesum/http"
	"github.com/fwojciec/pagesum/mock"
	"github.com/fwojciec/pagesum/openai"
	"github.com/fwojciec/pagesum/pipeline"
	"github.com/fwojciec/pagesum/summarize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const article = "Go is an open source programming language that makes it simple to build software."

func pageServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func fetcherReturning(body string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*pagesum.FetchResult, error) {
			return &pagesum.FetchResult{URL: url, StatusCode: 200, Body: body}, nil
		},
	}
}

func openAIClient() *summarize.Client {
	return summarize.NewClient(func(_ context.Context, cfg *pagesum.Config) (pagesum.SummarizerBackend, error) {
		return openai.NewBackend(cfg), nil
	})
}

func TestPipeline_ExtractContent(t *testing.T) {
	t.Parallel()

	t.Run("fetches extracts and cleans a page", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, http.StatusOK, `<html><body><p>Hello [1] world</p></body></html>`)
		p := &pipeline.Pipeline{
			Fetcher:   pshttp.NewFetcher(),
			Extractor: psgoquery.NewExtractor(),
		}

		got, err := p.ExtractContent(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "Hello world", got)
	})

	t.Run("404 maps to a message containing the status", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, http.StatusNotFound, "not found")
		p := &pipeline.Pipeline{
			Fetcher:   pshttp.NewFetcher(),
			Extractor: psgoquery.NewExtractor(),
		}

		_, err := p.ExtractContent(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, pagesum.EHTTPSTATUS, pagesum.ErrorCode(err))
		assert.Equal(t, 404, pagesum.ErrorStatus(err))
		assert.Contains(t, pagesum.UserMessage(err), "404")
		assert.Contains(t, pagesum.LocalizedMessage(pagesum.LanguageEnglish, err), "404")
	})

	t.Run("page without text is an extraction error", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher:   fetcherReturning(`<html><body><script>var x = 1;</script></body></html>`),
			Extractor: psgoquery.NewExtractor(),
		}

		_, err := p.ExtractContent(context.Background(), "https://example.com")

		assert.Equal(t, pagesum.EEXTRACTION, pagesum.ErrorCode(err))
	})

	t.Run("extractor errors keep their code", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher:   fetcherReturning("<p>\x00</p>"),
			Extractor: psgoquery.NewExtractor(),
		}

		_, err := p.ExtractContent(context.Background(), "https://example.com")

		assert.Equal(t, pagesum.EHTMLPARSE, pagesum.ErrorCode(err))
	})

	t.Run("plain fetch errors become unknown", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (*pagesum.FetchResult, error) {
					return nil, errors.New("boom")
				},
			},
			Extractor: psgoquery.NewExtractor(),
		}

		_, err := p.ExtractContent(context.Background(), "https://example.com")

		var appErr *pagesum.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, pagesum.EUNKNOWN, appErr.Code)
	})

	t.Run("extractor panic becomes unknown", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: fetcherReturning("<p>x</p>"),
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (string, error) {
					panic("bad node")
				},
			},
		}

		_, err := p.ExtractContent(context.Background(), "https://example.com")

		assert.Equal(t, pagesum.EUNKNOWN, pagesum.ErrorCode(err))
		assert.Contains(t, pagesum.ErrorMessage(err), "bad node")
	})

	t.Run("cancelled context stops waiting for a worker", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		started := make(chan struct{})
		p := &pipeline.Pipeline{
			Fetcher: fetcherReturning("<p>x</p>"),
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (string, error) {
					close(started)
					<-release
					return "x", nil
				},
			},
			Workers: 1,
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = p.ExtractContent(context.Background(), "https://example.com/a")
		}()
		<-started

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.ExtractContent(ctx, "https://example.com/b")

		close(release)
		<-done
		assert.Equal(t, pagesum.EUNKNOWN, pagesum.ErrorCode(err))
	})
}

func TestPipeline_Summarize(t *testing.T) {
	t.Parallel()

	t.Run("posts to the configured endpoint and returns the summary", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotAuth string
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
		}))
		t.Cleanup(api.Close)

		p := &pipeline.Pipeline{
			Settings: mock.NewSettings(map[string]string{
				pagesum.SettingAPIKey: "sk-test",
				pagesum.SettingAPIURL: api.URL,
			}),
			Summarizer: openAIClient(),
		}

		got, err := p.Summarize(context.Background(), article)

		require.NoError(t, err)
		assert.Equal(t, "hello", got)
		assert.Equal(t, "/v1/chat/completions", gotPath)
		assert.Equal(t, "Bearer sk-test", gotAuth)
	})

	t.Run("missing API key sends no request", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		t.Cleanup(api.Close)

		p := &pipeline.Pipeline{
			Settings: mock.NewSettings(map[string]string{
				pagesum.SettingAPIURL: api.URL,
			}),
			Summarizer: openAIClient(),
		}

		_, err := p.Summarize(context.Background(), article)

		assert.Equal(t, pagesum.EAIREQUEST, pagesum.ErrorCode(err))
		assert.Zero(t, calls.Load())
	})

	t.Run("empty choices is an AI request error", func(t *testing.T) {
		t.Parallel()

		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		t.Cleanup(api.Close)

		p := &pipeline.Pipeline{
			Settings: mock.NewSettings(map[string]string{
				pagesum.SettingAPIKey: "sk-test",
				pagesum.SettingAPIURL: api.URL,
			}),
			Summarizer: openAIClient(),
		}

		_, err := p.Summarize(context.Background(), article)

		assert.Equal(t, pagesum.EAIREQUEST, pagesum.ErrorCode(err))
	})

	t.Run("short text without an API key is an AI request error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		t.Cleanup(api.Close)

		p := &pipeline.Pipeline{
			Settings:   mock.NewSettings(map[string]string{pagesum.SettingAPIURL: api.URL}),
			Summarizer: openAIClient(),
		}

		_, err := p.Summarize(context.Background(), "hello")

		assert.Equal(t, pagesum.EAIREQUEST, pagesum.ErrorCode(err))
		assert.Equal(t, "missing API key", pagesum.ErrorMessage(err))
		assert.Zero(t, calls.Load())
	})

	t.Run("short text is rejected before calling the summarizer", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Settings: mock.NewSettings(map[string]string{pagesum.SettingAPIKey: "sk-test"}),
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(ctx context.Context, content string, cfg *pagesum.Config) (string, error) {
					t.Fatal("summarizer must not be called")
					return "", nil
				},
			},
		}

		_, err := p.Summarize(context.Background(), "too short")

		assert.Equal(t, pagesum.ETOOSHORT, pagesum.ErrorCode(err))
	})

	t.Run("settings failure is unknown", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Settings: &mock.SettingsProvider{
				GetFn: func(ctx context.Context, key string) (string, bool, error) {
					return "", false, errors.New("disk full")
				},
			},
		}

		_, err := p.Summarize(context.Background(), article)

		assert.Equal(t, pagesum.EUNKNOWN, pagesum.ErrorCode(err))
	})

	t.Run("plain summarizer errors become AI request errors", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Settings: mock.NewSettings(map[string]string{pagesum.SettingAPIKey: "sk-test"}),
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(ctx context.Context, content string, cfg *pagesum.Config) (string, error) {
					return "", errors.New("timeout")
				},
			},
		}

		_, err := p.Summarize(context.Background(), article)

		assert.Equal(t, pagesum.EAIREQUEST, pagesum.ErrorCode(err))
		assert.Contains(t, pagesum.UserMessage(err), "timeout")
	})
}

func TestPipeline_ExtractAndSummarize(t *testing.T) {
	t.Parallel()

	t.Run("summarizes the cleaned page text", func(t *testing.T) {
		t.Parallel()

		var gotContent string
		p := &pipeline.Pipeline{
			Fetcher:   fetcherReturning("<html><body><h1>Title</h1><p>" + article + "</p><p>[2] Footnote</p></body></html>"),
			Extractor: psgoquery.NewExtractor(),
			Settings:  mock.NewSettings(map[string]string{pagesum.SettingAPIKey: "sk-test"}),
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(ctx context.Context, content string, cfg *pagesum.Config) (string, error) {
					gotContent = content
					return "summary", nil
				},
			},
		}

		got, err := p.ExtractAndSummarize(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "summary", got)
		assert.Equal(t, "Title\n\n"+article, gotContent)
	})

	t.Run("summary failure does not fall back to text", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher:   fetcherReturning("<p>" + article + "</p>"),
			Extractor: psgoquery.NewExtractor(),
			Settings:  mock.NewSettings(map[string]string{pagesum.SettingAPIKey: "sk-test"}),
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(ctx context.Context, content string, cfg *pagesum.Config) (string, error) {
					return "", pagesum.Errorf(pagesum.EAIREQUEST, "HTTP 500")
				},
			},
		}

		got, err := p.ExtractAndSummarize(context.Background(), "https://example.com")

		assert.Empty(t, got)
		assert.Equal(t, pagesum.EAIREQUEST, pagesum.ErrorCode(err))
	})

	t.Run("short page is rejected before summarizing", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher:   fetcherReturning("<p>Hello world</p>"),
			Extractor: psgoquery.NewExtractor(),
			Settings:  mock.NewSettings(map[string]string{pagesum.SettingAPIKey: "sk-test"}),
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(ctx context.Context, content string, cfg *pagesum.Config) (string, error) {
					t.Fatal("summarizer must not be called")
					return "", nil
				},
			},
		}

		_, err := p.ExtractAndSummarize(context.Background(), "https://example.com")

		assert.Equal(t, pagesum.ETOOSHORT, pagesum.ErrorCode(err))
	})
}

func TestPipeline_ExtractAll(t *testing.T) {
	t.Parallel()

	t.Run("returns results in input order with independent failures", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (*pagesum.FetchResult, error) {
					if strings.HasSuffix(url, "/missing") {
						return nil, pagesum.StatusError(404)
					}
					return &pagesum.FetchResult{URL: url, StatusCode: 200, Body: "<p>page " + url + "</p>"}, nil
				},
			},
			Extractor:   psgoquery.NewExtractor(),
			Concurrency: 2,
		}

		urls := make([]string, 0, 6)
		for i := range 5 {
			urls = append(urls, fmt.Sprintf("https://example.com/%d", i))
		}
		urls = append(urls, "https://example.com/missing")

		results := p.ExtractAll(context.Background(), urls)

		require.Len(t, results, 6)
		for i := range 5 {
			assert.Equal(t, urls[i], results[i].URL)
			assert.NoError(t, results[i].Err)
			assert.Equal(t, "page "+urls[i], results[i].Text)
		}
		assert.Equal(t, pagesum.EHTTPSTATUS, pagesum.ErrorCode(results[5].Err))
	})

	t.Run("limits concurrent fetches", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (*pagesum.FetchResult, error) {
					n := inFlight.Add(1)
					defer inFlight.Add(-1)
					for {
						old := peak.Load()
						if n <= old || peak.CompareAndSwap(old, n) {
							break
						}
					}
					return &pagesum.FetchResult{URL: url, StatusCode: 200, Body: "<p>ok</p>"}, nil
				},
			},
			Extractor:   psgoquery.NewExtractor(),
			Concurrency: 3,
		}

		urls := make([]string, 20)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://example.com/%d", i)
		}

		results := p.ExtractAll(context.Background(), urls)

		assert.Len(t, results, 20)
		assert.LessOrEqual(t, peak.Load(), int32(3))
	})
}
