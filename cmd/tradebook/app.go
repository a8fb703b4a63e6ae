package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tradebook/internal/config"
	"tradebook/internal/engine"
	"tradebook/internal/observability"
	"tradebook/internal/quote"
	"tradebook/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "tradebook"

// app holds everything a command needs, wired from the environment.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	prices   *engine.PriceCache
	engine   *engine.Engine

	closers []func()
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(metricsNamespace, registry)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics,
	}

	ledger, err := a.openLedger(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	client := quote.NewClient(cfg.QuoteAPIKey, cfg.QuoteBaseURL, cfg.QuoteTimeout)
	if !client.Configured() {
		logger.Warn("QUOTE_API_KEY not set, current prices will be reported as unknown")
	}
	a.prices = engine.NewPriceCache(client, engine.NewPriceCacheConfig(cfg.PriceCacheTTL), logger, metrics)
	a.engine = engine.NewEngine(ledger, a.prices, engine.NewPortfolioConfig(cfg.FetchConcurrency), logger, metrics)
	return a, nil
}

func (a *app) openLedger(ctx context.Context) (engine.Ledger, error) {
	switch a.cfg.LedgerDriver {
	case config.DriverPostgres:
		db, err := repository.NewDatabase(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		a.logger.Debug("ledger opened", "driver", config.DriverPostgres)
		return db, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(a.cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		ledger, err := repository.OpenSQLite(a.cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := ledger.Close(); err != nil {
				a.logger.Warn("close sqlite", "err", err)
			}
		})
		a.logger.Debug("ledger opened", "driver", config.DriverSQLite, "path", a.cfg.SQLitePath)
		return ledger, nil

	default:
		a.logger.Warn("using in-memory ledger, trades are lost on exit")
		return repository.NewMemoryLedger(), nil
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
