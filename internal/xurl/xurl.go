// Package xurl parses and normalizes X/Twitter URLs.
package xurl

import (
	"regexp"
	"strings"
)

// Kind identifies what an X URL points at.
type Kind string

// Supported URL kinds.
const (
	KindTweet   Kind = "tweet"
	KindProfile Kind = "profile"
	KindUnknown Kind = "unknown"
)

var (
	tweetPattern   = regexp.MustCompile(`^https?://(?:www\.)?(?:x|twitter)\.com/([^/]+)/status/(\d+)`)
	profilePattern = regexp.MustCompile(`^https?://(?:www\.)?(?:x|twitter)\.com/([^/]+)/?$`)
)

// Parts holds the components extracted from an X URL.
type Parts struct {
	Username string
	TweetID  string
	Kind     Kind
}

// Parse extracts the username and tweet ID from an X or Twitter URL.
// URLs that match neither the tweet nor the profile shape come back as
// KindUnknown with empty components.
func Parse(url string) Parts {
	url = strings.TrimSpace(url)

	if m := tweetPattern.FindStringSubmatch(url); m != nil {
		return Parts{Username: m[1], TweetID: m[2], Kind: KindTweet}
	}
	if m := profilePattern.FindStringSubmatch(url); m != nil {
		return Parts{Username: m[1], Kind: KindProfile}
	}
	return Parts{Kind: KindUnknown}
}

// Normalize rewrites twitter.com URLs to the x.com domain.
func Normalize(url string) string {
	return strings.ReplaceAll(url, "twitter.com", "x.com")
}

// Truncate shortens text to maxLen runes at most, appending an ellipsis
// when it had to cut. Cuts happen on rune boundaries, never mid-codepoint.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
