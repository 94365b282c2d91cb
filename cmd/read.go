package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xscrape/xscrape/internal/render"
	"github.com/xscrape/xscrape/internal/scrape"
	"github.com/xscrape/xscrape/internal/tweet"
	"github.com/xscrape/xscrape/internal/xurl"
)

// newReadCmd creates the 'read' subcommand: fetch a single post and
// print it, without retries or output files. A quick way to test
// scraping.
func newReadCmd() *cobra.Command {
	var (
		format string
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "read <url>",
		Short: "Read a single post and display it",
		Long: `Fetches one post and prints it to stdout. Defaults to markdown
for easy reading.

Examples:
  xscrape read https://x.com/user/status/123
  xscrape read https://x.com/user/status/123 --format json
  xscrape read https://x.com/user/status/123 --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, args[0], format, raw)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: json, markdown, or md")
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "print the tool's raw JSON (ignores --format)")

	return cmd
}

func runRead(cmd *cobra.Command, url, format string, raw bool) error {
	markdown, err := markdownFormat(format)
	if err != nil {
		return err
	}

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	url = xurl.Normalize(url)
	data, err := a.Bird().ReadPost(cmd.Context(), url, "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if raw {
		fmt.Fprintln(out, string(data))
		return nil
	}

	rec, err := tweet.Normalize(data, url, a.Clock())
	if err != nil {
		return err
	}
	if markdown {
		result := scrape.Result{
			Input:   scrape.Input{URL: url},
			Outcome: scrape.Outcome{Record: &rec, Attempts: 1},
		}
		fmt.Fprintln(out, render.Markdown(result))
		return nil
	}

	encoded, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	fmt.Fprintln(out, string(encoded))
	return nil
}
