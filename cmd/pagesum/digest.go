package main

import "fmt"

// Run executes the digest command.
func (c *DigestCmd) Run(deps *Dependencies) error {
	summary, err := deps.Pipeline.ExtractAndSummarize(deps.Ctx, c.URL)
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, summary)
	return nil
}
