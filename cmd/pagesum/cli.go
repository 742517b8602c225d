package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/pagesum"
	"github.com/fwojciec/pagesum/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Language pagesum.Language
	Format   string
	Store    pagesum.SettingsStore
	Pipeline *pipeline.Pipeline
}

// Output formats of extracted text.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Settings  string        `type:"path" help:"Settings file (.json, or .db/.sqlite for SQLite)"`
	Lang      string        `help:"Language of messages and summaries (zh, en)"`
	Timeout   time.Duration `default:"30s" help:"Page fetch timeout"`
	AITimeout time.Duration `name:"ai-timeout" default:"120s" help:"Summary request timeout"`
	Render    bool          `help:"Render pages with headless Chrome"`
	Format    string        `enum:"text,markdown" default:"text" help:"Extracted text format (text, markdown)"`
	Verbose   bool          `short:"v" help:"Log pipeline activity to stderr"`

	Extract   ExtractCmd   `cmd:"" help:"Print the cleaned text of one or more pages"`
	Summarize SummarizeCmd `cmd:"" help:"Summarize text given as an argument or on stdin"`
	Digest    DigestCmd    `cmd:"" help:"Extract a page and summarize it"`
	Config    ConfigCmd    `cmd:"" help:"Show and change settings"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs"`
	Output      string   `short:"o" type:"path" help:"Write each page to a file under this directory"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	Text string `arg:"" optional:"" help:"Text to summarize (read from stdin when omitted)"`
}

// DigestCmd is the "digest" subcommand.
type DigestCmd struct {
	URL string `arg:"" help:"Page URL"`
}

// ConfigCmd groups the settings subcommands.
type ConfigCmd struct {
	Get  ConfigGetCmd  `cmd:"" help:"Print a stored setting"`
	Set  ConfigSetCmd  `cmd:"" help:"Store a setting (an empty value removes it)"`
	List ConfigListCmd `cmd:"" help:"List stored settings"`
}

// ConfigGetCmd is the "config get" subcommand.
type ConfigGetCmd struct {
	Key    string `arg:"" help:"Setting key"`
	Reveal bool   `help:"Print the API key unmasked"`
}

// ConfigSetCmd is the "config set" subcommand.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting key"`
	Value string `arg:"" help:"Setting value"`
}

// ConfigListCmd is the "config list" subcommand.
type ConfigListCmd struct{}
