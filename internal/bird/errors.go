package bird

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed Bird CLI invocation. The set is closed; retry
// policy keys off it, so new kinds only need a mapping here and nothing in
// the orchestrator changes.
type Kind string

// Failure kinds attached to every *Error.
const (
	KindToolMissing     Kind = "tool_missing"
	KindAuthExpired     Kind = "auth_expired"
	KindRateLimited     Kind = "rate_limited"
	KindNotFoundOrStale Kind = "not_found_or_stale"
	KindTimeout         Kind = "timeout"
	KindMalformedOutput Kind = "malformed_output"
	KindUnclassified    Kind = "unclassified"
)

// Retryable reports whether waiting and invoking again can plausibly
// succeed. Missing binaries and expired credentials never heal on retry.
func (k Kind) Retryable() bool {
	switch k {
	case KindToolMissing, KindAuthExpired:
		return false
	default:
		return true
	}
}

// NeedsRefresh reports whether a query-id refresh should run before the
// next attempt. X rotates its GraphQL query ids; a 404 usually means the
// tool's cached ids went stale.
func (k Kind) NeedsRefresh() bool {
	return k == KindNotFoundOrStale
}

// Error is a failed Bird CLI invocation with its classification.
type Error struct {
	Kind     Kind
	Message  string
	Stderr   string
	ExitCode int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("bird: %s (%s)", e.Message, e.Kind)
	}
	return fmt.Sprintf("bird: %s (%s): %s", e.Message, e.Kind, e.Stderr)
}

// KindOf extracts the failure kind from an error chain. Errors that did not
// originate at the tool boundary come back as KindUnclassified.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnclassified
}

// Classify maps a nonzero exit and its stderr text to a failure kind.
// Matching is ordered; the first rule that hits wins. Stderr is the only
// diagnostic surface the tool exposes, so this is heuristic by necessity.
func Classify(exitCode int, stderr string) Kind {
	_ = exitCode // callers only classify nonzero exits; the code itself carries no signal
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(stderr, "401"),
		strings.Contains(stderr, "Unauthorized"),
		strings.Contains(lower, "auth"):
		return KindAuthExpired
	case strings.Contains(stderr, "429"),
		strings.Contains(lower, "rate"):
		return KindRateLimited
	case strings.Contains(stderr, "404"):
		return KindNotFoundOrStale
	default:
		return KindUnclassified
	}
}

func classifyMessage(kind Kind) string {
	switch kind {
	case KindAuthExpired:
		return "authentication failed; re-extract cookies from your browser"
	case KindRateLimited:
		return "rate limit exceeded; wait before retrying"
	case KindNotFoundOrStale:
		return "post not found or query ids outdated"
	default:
		return "bird cli failed"
	}
}
