// Package progress defines the telemetry events emitted by the scrape
// workers and the sink interface that consumes them. The orchestrator talks
// to an injected Emitter, never to process-global state.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageBatchStart   Stage = "BATCH_START"
	StageBatchDone    Stage = "BATCH_DONE"
	StageFetchStart   Stage = "FETCH_START"
	StageFetchRetry   Stage = "FETCH_RETRY"
	StageFetchRefresh Stage = "FETCH_REFRESH"
	StageFetchDone    Stage = "FETCH_DONE"
	StageFetchError   Stage = "FETCH_ERROR"
)

// Event captures a single milestone of batch progress.
type Event struct {
	// BatchID uniquely identifies a batch run using the 16-byte UUID form.
	BatchID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle milestone occurred.
	Stage Stage
	// URL is the fetch target; empty for batch-level events.
	URL string
	// Attempt is the 1-based invocation count consumed so far.
	Attempt int
	// Kind carries the failure classification for retry/error events.
	Kind string
	// Dur captures execution latency for fetch and batch completions.
	Dur time.Duration
	// Note lets emitters attach low-volume debug context (e.g. error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.BatchID == [16]byte{} {
		return errors.New("batch id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageBatchStart, StageBatchDone:
	case StageFetchStart, StageFetchDone:
		if e.URL == "" {
			return fmt.Errorf("%s requires url", e.Stage)
		}
	case StageFetchRetry, StageFetchRefresh, StageFetchError:
		if e.URL == "" {
			return fmt.Errorf("%s requires url", e.Stage)
		}
		if e.Kind == "" {
			return fmt.Errorf("%s requires kind", e.Stage)
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// BatchUUID converts the binary batch ID to uuid.UUID for reporting.
func (e Event) BatchUUID() uuid.UUID {
	return uuid.UUID(e.BatchID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
