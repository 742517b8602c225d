package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagesum"
	"github.com/fwojciec/pagesum/env"
	"github.com/fwojciec/pagesum/fs"
	"github.com/fwojciec/pagesum/gemini"
	psgoquery "github.com/fwojciec/pagesum/goquery"
	"github.com/fwojciec/pagesum/htmltomarkdown"
	pshttp "github.com/fwojciec/pagesum/http"
	"github.com/fwojciec/pagesum/openai"
	"github.com/fwojciec/pagesum/pipeline"
	"github.com/fwojciec/pagesum/rod"
	psslog "github.com/fwojciec/pagesum/slog"
	"github.com/fwojciec/pagesum/sqlite"
	"github.com/fwojciec/pagesum/summarize"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Settings file path. Set before calling Run(); --settings overrides it.
	SettingsPath string

	// Stdin is read by the summarize command when no text argument is given.
	Stdin io.Reader

	// Environ replaces the process environment when non-nil.
	Environ map[string]string

	// Services for end-to-end testing. Nil fields are built from flags.
	Settings   pagesum.SettingsStore
	Fetcher    pagesum.Fetcher
	Summarizer pagesum.Summarizer

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		SettingsPath: defaultSettingsPath(),
		Stdin:        os.Stdin,
	}
}

// Close releases resources opened by Run.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments. Failures are reported on
// stderr before Run returns; pipeline failures are shown as user messages
// only.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagesum"),
		kong.Description("Fetch web pages, extract their text and summarize it with an LLM."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := fmt.Errorf("no command specified. Run 'pagesum --help' to see available commands")
		fmt.Fprintln(stderr, err)
		return err
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}
	defer m.Close()

	if err := m.wire(ctx, cli, kongCtx.Command(), deps); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}

	if err := kongCtx.Run(deps); err != nil {
		report(stderr, deps.Language, err)
		return err
	}
	return nil
}

// wire builds the services required by the parsed command.
func (m *Main) wire(ctx context.Context, cli *CLI, command string, deps *Dependencies) error {
	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	store := m.Settings
	if store == nil {
		path := m.SettingsPath
		if cli.Settings != "" {
			path = cli.Settings
		}
		s, closeFn, err := openSettings(ctx, path)
		if err != nil {
			return err
		}
		m.closers = append(m.closers, closeFn)
		store = s
	}
	deps.Store = store
	deps.Format = cli.Format

	envOpts := []env.Option{env.WithDotEnv(".env")}
	if m.Environ != nil {
		envOpts = []env.Option{env.WithEnvironment(m.Environ)}
	}
	envProvider, err := env.Load(envOpts...)
	if err != nil {
		return err
	}

	chain := pagesum.ChainSettings{envProvider, store}
	if cli.Lang != "" {
		chain = append(pagesum.ChainSettings{overrides{pagesum.SettingLanguage: cli.Lang}}, chain...)
	}
	deps.Language = pagesum.DefaultLanguage
	if v, ok, err := chain.Get(ctx, pagesum.SettingLanguage); err == nil && ok {
		deps.Language = pagesum.ParseLanguage(v)
	}

	// Settings commands only need the store.
	if strings.HasPrefix(command, "config") {
		return nil
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		if cli.Render {
			f, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
			if err != nil {
				return fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
			}
			fetcher = f
		} else {
			fetcher = pshttp.NewFetcher(pshttp.WithTimeout(cli.Timeout))
		}
		m.closers = append(m.closers, fetcher.Close)
	}

	var extractor pagesum.Extractor = psgoquery.NewExtractor()
	if cli.Format == formatMarkdown {
		extractor = htmltomarkdown.NewExtractor()
	}

	summarizer := m.Summarizer
	if summarizer == nil {
		summarizer = summarize.NewClient(backends(cli.AITimeout, logger, cli.Verbose))
	}

	if cli.Verbose {
		fetcher = psslog.NewLoggingFetcher(fetcher, logger)
		extractor = psslog.NewLoggingExtractor(extractor, logger)
	}

	deps.Pipeline = &pipeline.Pipeline{
		Fetcher:    fetcher,
		Extractor:  extractor,
		Settings:   chain,
		Summarizer: summarizer,
		Logger:     logger,
	}
	return nil
}

// backends returns the factory that selects a summarizer backend by provider.
func backends(timeout time.Duration, logger *slog.Logger, verbose bool) summarize.BackendFunc {
	return func(ctx context.Context, cfg *pagesum.Config) (pagesum.SummarizerBackend, error) {
		var backend pagesum.SummarizerBackend
		switch cfg.Provider {
		case pagesum.ProviderGemini:
			b, err := gemini.NewBackend(ctx, cfg, timeout)
			if err != nil {
				return nil, err
			}
			backend = b
		default:
			backend = openai.NewBackend(cfg, openai.WithTimeout(timeout))
		}
		if verbose {
			backend = psslog.NewLoggingBackend(backend, logger)
		}
		return backend, nil
	}
}

// openSettings opens the settings store at path. Paths ending in .db or
// .sqlite use SQLite; anything else is a JSON file.
func openSettings(ctx context.Context, path string) (pagesum.SettingsStore, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, nil, fmt.Errorf("create settings directory: %w", err)
		}
		db := sqlite.NewDB(path)
		if err := db.Open(ctx); err != nil {
			return nil, nil, fmt.Errorf("open settings database %q: %w", path, err)
		}
		return sqlite.NewSettingsStore(db), db.Close, nil
	default:
		s := fs.NewSettingsStore(path)
		if err := s.Open(); err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	}
}

// report writes err to w. Application errors are shown as user messages in
// lang; anything else is printed as is.
func report(w io.Writer, lang pagesum.Language, err error) {
	var e *pagesum.Error
	if errors.As(err, &e) {
		fmt.Fprintln(w, pagesum.LocalizedMessage(lang, err))
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func defaultSettingsPath() string {
	if path := os.Getenv("PAGESUM_SETTINGS"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(home, ".pagesum", "settings.json")
}

// overrides is a fixed set of settings taking precedence over other
// providers.
type overrides map[string]string

func (o overrides) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := o[key]
	return v, ok, nil
}
