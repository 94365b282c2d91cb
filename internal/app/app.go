// Package app initializes and holds long-lived application services,
// acting as a dependency injection container for the CLI commands.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xscrape/xscrape/internal/api"
	"github.com/xscrape/xscrape/internal/bird"
	"github.com/xscrape/xscrape/internal/clock"
	"github.com/xscrape/xscrape/internal/clock/system"
	"github.com/xscrape/xscrape/internal/config"
	"github.com/xscrape/xscrape/internal/logging"
	"github.com/xscrape/xscrape/internal/progress"
	"github.com/xscrape/xscrape/internal/progress/sinks"
	"github.com/xscrape/xscrape/internal/scrape"
)

// App holds the shared services the commands use.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	clock    clock.Clock
	client   *bird.Client
	hub      *progress.Hub
	registry *prometheus.Registry
	metrics  *api.Server
}

// Options tweak construction beyond what config carries.
type Options struct {
	// ConfigPath names an explicit config file; empty searches defaults.
	ConfigPath string
	// Verbose forces debug logging regardless of config.
	Verbose bool
	// MetricsAddr overrides the configured metrics listen address.
	MetricsAddr string
}

// New builds the service container. It fails fast when the bird binary
// is missing or configuration is invalid.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Verbose {
		cfg.Verbose = true
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := bird.NewClient(bird.Config{
		AuthToken:      cfg.AuthToken,
		CSRFToken:      cfg.CSRFToken,
		ProxyURL:       cfg.ProxyURL,
		ReadTimeout:    cfg.ReadTimeout,
		RefreshTimeout: cfg.RefreshTimeout,
		WhoamiTimeout:  cfg.WhoamiTimeout,
		VersionTimeout: cfg.VersionTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	promSink, err := sinks.NewPrometheusSink(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	hub := progress.NewHub(
		progress.Config{Logger: logger},
		sinks.NewLogSink(logger),
		promSink,
	)

	a := &App{
		cfg:      cfg,
		logger:   logger,
		clock:    system.New(),
		client:   client,
		hub:      hub,
		registry: registry,
	}
	if cfg.MetricsAddr != "" {
		a.metrics = api.NewServer(cfg.MetricsAddr, registry, logger)
		a.metrics.Start()
	}
	return a, nil
}

// Config returns the resolved configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Clock returns the wall clock.
func (a *App) Clock() clock.Clock {
	return a.clock
}

// Bird returns the bird client.
func (a *App) Bird() *bird.Client {
	return a.client
}

// Orchestrator builds a fetch pool wired to the app's client, clock,
// and progress hub.
func (a *App) Orchestrator(cfg scrape.Config) *scrape.Orchestrator {
	return scrape.New(a.client, cfg, a.clock, a.hub, a.logger)
}

// Close flushes progress sinks and stops the metrics listener.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.hub.Close(ctx); err != nil {
		a.logger.Warn("progress hub close failed", zap.Error(err))
	}
	if a.metrics != nil {
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics shutdown failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
