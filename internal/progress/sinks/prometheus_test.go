package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/xscrape/xscrape/internal/progress"
)

func fetchEvent(stage progress.Stage, kind string) progress.Event {
	return progress.Event{
		BatchID: progress.UUIDToBytes(uuid.New()),
		TS:      time.Now().UTC(),
		Stage:   stage,
		URL:     "https://x.com/u/status/1",
		Attempt: 1,
		Kind:    kind,
		Dur:     time.Second,
	}
}

func TestPrometheusSinkCountsOutcomes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	batch := []progress.Event{
		fetchEvent(progress.StageFetchStart, ""),
		fetchEvent(progress.StageFetchRetry, "rate_limited"),
		fetchEvent(progress.StageFetchRetry, "rate_limited"),
		fetchEvent(progress.StageFetchRefresh, "not_found_or_stale"),
		fetchEvent(progress.StageFetchDone, ""),
	}
	require.NoError(t, sink.Consume(context.Background(), batch))

	require.Equal(t, float64(1), testutil.ToFloat64(sink.fetchesTotal.WithLabelValues("success")))
	require.Equal(t, float64(0), testutil.ToFloat64(sink.fetchesTotal.WithLabelValues("error")))
	require.Equal(t, float64(2), testutil.ToFloat64(sink.retriesTotal.WithLabelValues("rate_limited")))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.refreshesTotal))
	require.Equal(t, float64(0), testutil.ToFloat64(sink.fetchesInFlight))
}

func TestPrometheusSinkErrorOutcome(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	batch := []progress.Event{
		fetchEvent(progress.StageFetchStart, ""),
		fetchEvent(progress.StageFetchError, "auth_expired"),
	}
	require.NoError(t, sink.Consume(context.Background(), batch))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.fetchesTotal.WithLabelValues("error")))
}

func TestPrometheusSinkDoubleRegisterFails(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusSink(reg)
	require.NoError(t, err)
	_, err = NewPrometheusSink(reg)
	require.Error(t, err)
}

func TestLogSinkConsume(t *testing.T) {
	t.Parallel()

	sink := NewLogSink(nil)
	require.NoError(t, sink.Consume(context.Background(), []progress.Event{
		fetchEvent(progress.StageFetchDone, ""),
	}))
	require.NoError(t, sink.Close(context.Background()))
}
