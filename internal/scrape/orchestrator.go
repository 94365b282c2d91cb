package scrape

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xscrape/xscrape/internal/bird"
	"github.com/xscrape/xscrape/internal/clock"
	iduuid "github.com/xscrape/xscrape/internal/id/uuid"
	"github.com/xscrape/xscrape/internal/progress"
	"github.com/xscrape/xscrape/internal/tweet"
	"github.com/xscrape/xscrape/internal/xurl"
)

// Config controls Orchestrator behavior.
type Config struct {
	// Concurrency is the number of fetches in flight at once.
	Concurrency int
	// MaxAttempts caps invocations per input, first try included.
	MaxAttempts int
	// RetryDelay is the pause between attempts for retryable failures.
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = 5
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 10 * time.Second
	}
	return c
}

// Orchestrator fans a batch of inputs out to a fixed pool of fetch
// workers and collects one outcome per input, preserving input order.
type Orchestrator struct {
	client  Client
	cfg     Config
	clock   clock.Clock
	emitter progress.Emitter
	logger  *zap.Logger
	ids     *iduuid.Generator
}

// New constructs an Orchestrator.
func New(client Client, cfg Config, clk clock.Clock, emitter progress.Emitter, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		client:  client,
		cfg:     cfg.withDefaults(),
		clock:   clk,
		emitter: emitter,
		logger:  logger,
		ids:     iduuid.NewGenerator(),
	}
}

// Run fetches every input and blocks until all workers drain. The
// returned slice always has len(inputs) entries in input order; inputs
// not attempted before ctx cancellation carry a canceled outcome.
func (o *Orchestrator) Run(ctx context.Context, inputs []Input) []Result {
	batchUUID := o.ids.NewBatchID()
	batchID := progress.UUIDToBytes(batchUUID)
	started := o.clock.Now()

	results := make([]Result, len(inputs))
	for i, in := range inputs {
		results[i] = Result{
			Input: in,
			Outcome: Outcome{
				Kind:    bird.KindUnclassified,
				Message: "batch canceled before fetch",
			},
		}
	}

	o.emit(progress.Event{
		BatchID: batchID,
		Stage:   progress.StageBatchStart,
		Note:    "batch of " + strconv.Itoa(len(inputs)),
	})

	jobs := make(chan int)
	workers := o.cfg.Concurrency
	if workers > len(inputs) {
		workers = len(inputs)
	}

	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := range jobs {
				results[i].Outcome = o.runJob(ctx, batchID, results[i].Input)
			}
		}()
	}

feed:
	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	for w := 0; w < workers; w++ {
		<-done
	}

	succeeded := 0
	for _, r := range results {
		if r.Outcome.Succeeded() {
			succeeded++
		}
	}
	o.emit(progress.Event{
		BatchID: batchID,
		Stage:   progress.StageBatchDone,
		Dur:     o.clock.Now().Sub(started),
		Note:    strconv.Itoa(succeeded) + "/" + strconv.Itoa(len(inputs)) + " succeeded",
	})
	o.logger.Info("batch finished",
		zap.Stringer("batch_id", batchUUID),
		zap.Int("inputs", len(inputs)),
		zap.Int("succeeded", succeeded),
	)
	return results
}

// runJob drives one input through the attempt loop. A refresh of the
// tool's query IDs is tried at most once per input.
func (o *Orchestrator) runJob(ctx context.Context, batchID [16]byte, in Input) Outcome {
	url := xurl.Normalize(in.URL)
	started := o.clock.Now()
	refreshed := false

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		attempts = attempt
		o.emit(progress.Event{
			BatchID: batchID,
			Stage:   progress.StageFetchStart,
			URL:     url,
			Attempt: attempt,
		})

		raw, err := o.client.ReadPost(ctx, url, in.Proxy)
		if err == nil {
			rec, normErr := tweet.Normalize(raw, url, o.clock)
			if normErr == nil {
				o.emit(progress.Event{
					BatchID: batchID,
					Stage:   progress.StageFetchDone,
					URL:     url,
					Attempt: attempt,
					Dur:     o.clock.Now().Sub(started),
				})
				return Outcome{Record: &rec, Attempts: attempt}
			}
			err = &bird.Error{Kind: bird.KindMalformedOutput, Message: normErr.Error()}
		}
		lastErr = err

		kind := bird.KindOf(err)
		if !kind.Retryable() || ctx.Err() != nil {
			break
		}
		if kind.NeedsRefresh() && !refreshed {
			refreshed = true
			o.emit(progress.Event{
				BatchID: batchID,
				Stage:   progress.StageFetchRefresh,
				URL:     url,
				Attempt: attempt,
				Kind:    string(kind),
			})
			if refreshErr := o.client.RefreshQueryIDs(ctx); refreshErr != nil {
				o.logger.Warn("query id refresh failed",
					zap.String("url", url),
					zap.Error(refreshErr),
				)
			}
		}
		if attempt == o.cfg.MaxAttempts {
			break
		}
		o.emit(progress.Event{
			BatchID: batchID,
			Stage:   progress.StageFetchRetry,
			URL:     url,
			Attempt: attempt,
			Kind:    string(kind),
			Note:    errText(err),
		})
		if !o.sleep(ctx) {
			break
		}
	}

	kind := bird.KindOf(lastErr)
	outcome := Outcome{
		Kind:     kind,
		Message:  errText(lastErr),
		Attempts: attempts,
	}
	o.emit(progress.Event{
		BatchID: batchID,
		Stage:   progress.StageFetchError,
		URL:     url,
		Attempt: outcome.Attempts,
		Kind:    string(kind),
		Dur:     o.clock.Now().Sub(started),
		Note:    outcome.Message,
	})
	o.logger.Warn("fetch failed",
		zap.String("url", url),
		zap.String("kind", string(kind)),
		zap.Int("attempts", outcome.Attempts),
	)
	return outcome
}

// sleep waits out the retry delay, returning false if the context
// finished first.
func (o *Orchestrator) sleep(ctx context.Context) bool {
	timer := time.NewTimer(o.cfg.RetryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (o *Orchestrator) emit(evt progress.Event) {
	if o.emitter == nil {
		return
	}
	evt.TS = o.clock.Now()
	o.emitter.Emit(evt)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

