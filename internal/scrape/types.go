// Package scrape coordinates concurrent post fetches against the bird
// tool, applying the retry policy and emitting progress events as work
// moves through the pool.
package scrape

import (
	"context"

	"github.com/xscrape/xscrape/internal/bird"
	"github.com/xscrape/xscrape/internal/tweet"
)

// Input is one unit of work: the post URL plus optional per-fetch
// overrides.
type Input struct {
	// URL is the post to fetch. Accepts x.com and twitter.com forms.
	URL string `json:"url"`

	// Proxy, when set, routes this fetch through the given proxy
	// instead of the client default.
	Proxy string `json:"proxy,omitempty"`
}

// Outcome is the terminal state of one fetch: either a normalized
// record or a classified failure, plus how many attempts it took.
type Outcome struct {
	Record   *tweet.Record `json:"record,omitempty"`
	Kind     bird.Kind     `json:"kind,omitempty"`
	Message  string        `json:"message,omitempty"`
	Attempts int           `json:"attempts"`
}

// Succeeded reports whether the fetch produced a record.
func (o Outcome) Succeeded() bool {
	return o.Record != nil
}

// Result pairs an input with its outcome. A batch returns one Result
// per input, in input order.
type Result struct {
	Input   Input   `json:"input"`
	Outcome Outcome `json:"outcome"`
}

// Client is the slice of the bird client the orchestrator needs.
type Client interface {
	ReadPost(ctx context.Context, url, proxyOverride string) ([]byte, error)
	RefreshQueryIDs(ctx context.Context) error
}
