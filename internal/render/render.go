// Package render turns batch results into their output representations:
// a JSON envelope per result, markdown documents, and the dated paths
// files are written under.
package render

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xscrape/xscrape/internal/scrape"
	"github.com/xscrape/xscrape/internal/tweet"
	"github.com/xscrape/xscrape/internal/xurl"
)

// Envelope is the JSON form of one result.
type Envelope struct {
	Success  bool          `json:"success"`
	URL      string        `json:"url"`
	Attempts int           `json:"attempts"`
	Data     *tweet.Record `json:"data"`
	Error    string        `json:"error,omitempty"`
}

// ToEnvelope converts a result into its JSON envelope.
func ToEnvelope(r scrape.Result) Envelope {
	env := Envelope{
		Success:  r.Outcome.Succeeded(),
		URL:      r.Input.URL,
		Attempts: r.Outcome.Attempts,
		Data:     r.Outcome.Record,
	}
	if !env.Success {
		env.Error = fmt.Sprintf("%s: %s", r.Outcome.Kind, r.Outcome.Message)
	}
	return env
}

// JSON renders results as an indented JSON array of envelopes.
func JSON(results []scrape.Result) ([]byte, error) {
	envelopes := make([]Envelope, 0, len(results))
	for _, r := range results {
		envelopes = append(envelopes, ToEnvelope(r))
	}
	out, err := json.MarshalIndent(envelopes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return out, nil
}

// Markdown renders one result as a markdown section.
func Markdown(r scrape.Result) string {
	if !r.Outcome.Succeeded() {
		return fmt.Sprintf("## ❌ Failed to scrape\n\n**URL:** %s\n\n**Error:** %s: %s\n",
			r.Input.URL, r.Outcome.Kind, r.Outcome.Message)
	}

	rec := r.Outcome.Record
	var b strings.Builder

	if rec.AuthorName != "" {
		fmt.Fprintf(&b, "## %s (@%s)\n\n", rec.AuthorName, rec.AuthorHandle)
	} else {
		fmt.Fprintf(&b, "## @%s\n\n", rec.AuthorHandle)
	}

	if rec.Text != "" {
		b.WriteString(rec.Text)
		b.WriteString("\n\n")
	}

	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "**Posted:** %s\n", rec.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "**URL:** [%s](%s)\n\n", rec.URL, rec.URL)

	if len(rec.Images) > 0 {
		fmt.Fprintf(&b, "### Images (%d)\n\n", len(rec.Images))
		for i, img := range rec.Images {
			// Inline a large variant; the link still points at the original.
			preview := tweet.FormatImageURL(img, "large")
			fmt.Fprintf(&b, "[![Image %d](%s)](%s)\n\n", i+1, preview, img)
		}
	}
	if len(rec.Videos) > 0 {
		fmt.Fprintf(&b, "### Videos (%d)\n\n", len(rec.Videos))
		for i, vid := range rec.Videos {
			fmt.Fprintf(&b, "- [Video %d](%s)\n", i+1, vid)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	return b.String()
}

// BatchMarkdown renders a whole batch as one markdown document with a
// success summary up top.
func BatchMarkdown(results []scrape.Result) string {
	if len(results) == 0 {
		return "# No posts scraped\n"
	}

	succeeded := 0
	for _, r := range results {
		if r.Outcome.Succeeded() {
			succeeded++
		}
	}

	var b strings.Builder
	b.WriteString("# Scraped Posts\n\n")
	fmt.Fprintf(&b, "**Total:** %d | **Success:** %d | **Failed:** %d\n\n---\n\n",
		len(results), succeeded, len(results)-succeeded)
	for _, r := range results {
		b.WriteString(Markdown(r))
		b.WriteString("\n")
	}
	return b.String()
}

// OutputPath builds the per-post path: baseDir/YYYY/MM/DD/author/id.ext.
// The date comes from the post when known, otherwise from now.
func OutputPath(baseDir, url, ext string, postDate, now time.Time) string {
	parsed := xurl.Parse(url)
	author := parsed.Username
	if author == "" {
		author = "unknown"
	}
	id := parsed.TweetID
	if id == "" {
		id = "post"
	}
	dt := postDate
	if dt.IsZero() {
		dt = now
	}
	return filepath.Join(baseDir,
		strconv.Itoa(dt.Year()),
		fmt.Sprintf("%02d", int(dt.Month())),
		fmt.Sprintf("%02d", dt.Day()),
		author,
		id+"."+ext,
	)
}

// BatchOutputPath builds the batch path. One URL gets the per-post
// layout; multiple URLs share baseDir/YYYY/MM/DD/batch_HHMMSS.ext.
func BatchOutputPath(baseDir string, urls []string, ext string, now time.Time) string {
	if len(urls) == 1 {
		return OutputPath(baseDir, urls[0], ext, time.Time{}, now)
	}
	return filepath.Join(baseDir,
		strconv.Itoa(now.Year()),
		fmt.Sprintf("%02d", int(now.Month())),
		fmt.Sprintf("%02d", now.Day()),
		fmt.Sprintf("batch_%02d%02d%02d.%s", now.Hour(), now.Minute(), now.Second(), ext),
	)
}
