package render

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xscrape/xscrape/internal/bird"
	"github.com/xscrape/xscrape/internal/scrape"
	"github.com/xscrape/xscrape/internal/tweet"
)

func successResult() scrape.Result {
	return scrape.Result{
		Input: scrape.Input{URL: "https://x.com/someone/status/123"},
		Outcome: scrape.Outcome{
			Record: &tweet.Record{
				ID:           "123",
				URL:          "https://x.com/someone/status/123",
				Text:         "Hello world",
				CreatedAt:    time.Date(2026, 1, 8, 20, 25, 0, 0, time.UTC),
				AuthorHandle: "someone",
				AuthorName:   "Some One",
				Images:       []string{"https://pbs.twimg.com/media/abc.jpg?format=jpg&name=orig"},
				Videos:       []string{"https://video.twimg.com/vid.mp4"},
			},
			Attempts: 1,
		},
	}
}

func failedResult() scrape.Result {
	return scrape.Result{
		Input: scrape.Input{URL: "https://x.com/other/status/456"},
		Outcome: scrape.Outcome{
			Kind:     bird.KindRateLimited,
			Message:  "rate limit exceeded",
			Attempts: 5,
		},
	}
}

func TestToEnvelope(t *testing.T) {
	env := ToEnvelope(successResult())
	require.True(t, env.Success)
	require.Equal(t, "123", env.Data.ID)
	require.Empty(t, env.Error)

	env = ToEnvelope(failedResult())
	require.False(t, env.Success)
	require.Nil(t, env.Data)
	require.Contains(t, env.Error, string(bird.KindRateLimited))
	require.Contains(t, env.Error, "rate limit exceeded")
}

func TestJSONRoundTrips(t *testing.T) {
	out, err := JSON([]scrape.Result{successResult(), failedResult()})
	require.NoError(t, err)

	var envelopes []Envelope
	require.NoError(t, json.Unmarshal(out, &envelopes))
	require.Len(t, envelopes, 2)
	require.True(t, envelopes[0].Success)
	require.False(t, envelopes[1].Success)
}

func TestMarkdownSuccess(t *testing.T) {
	md := Markdown(successResult())
	require.Contains(t, md, "## Some One (@someone)")
	require.Contains(t, md, "Hello world")
	require.Contains(t, md, "**Posted:** 2026-01-08T20:25:00Z")
	require.Contains(t, md, "### Images (1)")
	require.Contains(t, md, "### Videos (1)")
	require.Contains(t, md, "[![Image 1](https://pbs.twimg.com/media/abc.jpg?format=jpg&name=large)](https://pbs.twimg.com/media/abc.jpg?format=jpg&name=orig)")
}

func TestMarkdownNoAuthorName(t *testing.T) {
	r := successResult()
	r.Outcome.Record.AuthorName = ""
	md := Markdown(r)
	require.Contains(t, md, "## @someone")
}

func TestMarkdownFailure(t *testing.T) {
	md := Markdown(failedResult())
	require.Contains(t, md, "Failed to scrape")
	require.Contains(t, md, "https://x.com/other/status/456")
	require.Contains(t, md, "rate limit exceeded")
}

func TestBatchMarkdown(t *testing.T) {
	md := BatchMarkdown([]scrape.Result{successResult(), failedResult()})
	require.Contains(t, md, "# Scraped Posts")
	require.Contains(t, md, "**Total:** 2 | **Success:** 1 | **Failed:** 1")
}

func TestBatchMarkdownEmpty(t *testing.T) {
	require.Equal(t, "# No posts scraped\n", BatchMarkdown(nil))
}

func TestOutputPath(t *testing.T) {
	postDate := time.Date(2026, 1, 8, 20, 25, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := OutputPath("out", "https://x.com/someone/status/123", "md", postDate, now)
	require.Equal(t, filepath.Join("out", "2026", "01", "08", "someone", "123.md"), got)
}

func TestOutputPathFallbacks(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := OutputPath("out", "not a url", "json", time.Time{}, now)
	require.Equal(t, filepath.Join("out", "2026", "03", "01", "unknown", "post.json"), got)
}

func TestBatchOutputPath(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC)

	single := BatchOutputPath("out", []string{"https://x.com/someone/status/123"}, "md", now)
	require.Equal(t, filepath.Join("out", "2026", "03", "01", "someone", "123.md"), single)

	multi := BatchOutputPath("out", []string{"a", "b"}, "md", now)
	require.Equal(t, filepath.Join("out", "2026", "03", "01", "batch_140509.md"), multi)
}
