package main

import (
	"fmt"
	"io"
	"strings"
)

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	text := c.Text
	if text == "" {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	summary, err := deps.Pipeline.Summarize(deps.Ctx, strings.TrimSpace(text))
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, summary)
	return nil
}
