package main

import (
	"fmt"

	"github.com/fwojciec/pagesum"
	"github.com/fwojciec/pagesum/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if len(c.URLs) == 1 && c.Output == "" {
		text, err := deps.Pipeline.ExtractContent(deps.Ctx, c.URLs[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, text)
		return nil
	}

	deps.Pipeline.Concurrency = c.Concurrency
	results := deps.Pipeline.ExtractAll(deps.Ctx, c.URLs)

	var writer *fs.Writer
	if c.Output != "" {
		ext := ".txt"
		if deps.Format == formatMarkdown {
			ext = ".md"
		}
		writer = fs.NewWriter(c.Output, ext)
	}

	failed, printed := 0, false
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "%s: %s\n", r.URL, pagesum.LocalizedMessage(deps.Language, r.Err))
			continue
		}

		if writer != nil {
			path, err := writer.WritePage(deps.Ctx, r.URL, r.Text)
			if err != nil {
				return fmt.Errorf("write %s: %w", r.URL, err)
			}
			fmt.Fprintln(deps.Stdout, path)
			continue
		}

		if printed {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "==> %s <==\n%s\n", r.URL, r.Text)
		printed = true
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(results))
	}
	return nil
}
