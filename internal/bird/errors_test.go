package bird

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyPrecedence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		stderr string
		want   Kind
	}{
		{"unauthorized", "401 Unauthorized", KindAuthExpired},
		{"auth token lowercase", "invalid auth token", KindAuthExpired},
		{"auth wins over 404", "401 Unauthorized while resolving 404 page", KindAuthExpired},
		{"rate limited code", "429 Too Many Requests", KindRateLimited},
		{"rate limited text", "Rate limit hit, slow down", KindRateLimited},
		{"rate wins over 404", "rate limited fetching 404 resource", KindRateLimited},
		{"not found", "404 Not Found", KindNotFoundOrStale},
		{"generic", "Something went wrong", KindUnclassified},
		{"empty stderr", "", KindUnclassified},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Classify(1, tc.stderr))
		})
	}
}

func TestKindRetryable(t *testing.T) {
	t.Parallel()

	require.False(t, KindToolMissing.Retryable())
	require.False(t, KindAuthExpired.Retryable())
	require.True(t, KindRateLimited.Retryable())
	require.True(t, KindNotFoundOrStale.Retryable())
	require.True(t, KindTimeout.Retryable())
	require.True(t, KindMalformedOutput.Retryable())
	require.True(t, KindUnclassified.Retryable())
}

func TestKindNeedsRefresh(t *testing.T) {
	t.Parallel()

	require.True(t, KindNotFoundOrStale.NeedsRefresh())
	require.False(t, KindRateLimited.NeedsRefresh())
	require.False(t, KindAuthExpired.NeedsRefresh())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindRateLimited, Message: "rate limit exceeded"}
	require.Equal(t, KindRateLimited, KindOf(err))
	require.Equal(t, KindRateLimited, KindOf(fmt.Errorf("fetch: %w", err)))
	require.Equal(t, KindUnclassified, KindOf(errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindAuthExpired, Message: "authentication failed", Stderr: "401 Unauthorized"}
	require.Contains(t, err.Error(), "authentication failed")
	require.Contains(t, err.Error(), "401 Unauthorized")

	bare := &Error{Kind: KindToolMissing, Message: "bird not found on PATH"}
	require.Contains(t, bare.Error(), "bird not found on PATH")
}
