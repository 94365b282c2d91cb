package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xscrape/xscrape/internal/progress"
)

// PrometheusSink exports scrape progress metrics. It owns all collectors for
// fetch outcomes, retries, refreshes, and batch runtime.
type PrometheusSink struct {
	batchesStarted prometheus.Counter
	batchRuntime   prometheus.Histogram

	fetchesInFlight prometheus.Gauge
	fetchesTotal    *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	refreshesTotal  prometheus.Counter
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		batchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xscrape_batches_started_total",
			Help: "Total scrape batches that have started.",
		}),
		batchRuntime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "xscrape_batch_runtime_seconds",
			Help:    "Wall time per completed batch.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		fetchesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xscrape_fetches_in_flight",
			Help: "Fetch jobs currently occupying a worker slot.",
		}),
		fetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xscrape_fetches_total",
			Help: "Completed fetch jobs partitioned by result.",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xscrape_fetch_duration_seconds",
			Help:    "Fetch job duration partitioned by result.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"result"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xscrape_retries_total",
			Help: "Retry waits partitioned by failure kind.",
		}, []string{"kind"}),
		refreshesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xscrape_query_id_refreshes_total",
			Help: "Best-effort query id refreshes triggered by stale fetches.",
		}),
	}
	for _, collector := range []prometheus.Collector{
		s.batchesStarted,
		s.batchRuntime,
		s.fetchesInFlight,
		s.fetchesTotal,
		s.fetchDuration,
		s.retriesTotal,
		s.refreshesTotal,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors using the provided batch. Safe for
// concurrent use by multiple goroutines.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	switch evt.Stage {
	case progress.StageBatchStart:
		s.batchesStarted.Inc()
	case progress.StageBatchDone:
		if evt.Dur > 0 {
			s.batchRuntime.Observe(evt.Dur.Seconds())
		}
	case progress.StageFetchStart:
		if evt.Attempt <= 1 {
			s.fetchesInFlight.Inc()
		}
	case progress.StageFetchRetry:
		s.retriesTotal.WithLabelValues(evt.Kind).Inc()
	case progress.StageFetchRefresh:
		s.refreshesTotal.Inc()
	case progress.StageFetchDone:
		s.fetchesInFlight.Dec()
		s.observeResult(evt, "success")
	case progress.StageFetchError:
		s.fetchesInFlight.Dec()
		s.observeResult(evt, "error")
	}
}

func (s *PrometheusSink) observeResult(evt progress.Event, result string) {
	s.fetchesTotal.WithLabelValues(result).Inc()
	if evt.Dur > 0 {
		s.fetchDuration.WithLabelValues(result).Observe(evt.Dur.Seconds())
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
