package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"tradebook/internal/observability"
	"tradebook/types"

	"github.com/google/uuid"
)

type Engine struct {
	ledger          Ledger
	prices          PriceLookup
	portfolioConfig *PortfolioConfig
	logger          *slog.Logger
	metrics         *observability.Metrics

	clock func() time.Time
	newID func() string
}

func NewEngine(ledger Ledger, prices PriceLookup, portfolioConfig *PortfolioConfig, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if portfolioConfig == nil {
		portfolioConfig = NewPortfolioConfig(1)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNopMetrics()
	}
	return &Engine{
		ledger:          ledger,
		prices:          prices,
		portfolioConfig: portfolioConfig,
		logger:          logger,
		metrics:         metrics,
		clock:           time.Now,
		newID:           func() string { return uuid.New().String() },
	}
}

// RecordTrade normalises and validates trade, fills in a missing ID and
// execution time, and appends it to the ledger.
func (e *Engine) RecordTrade(ctx context.Context, trade types.TradeRecord) (types.TradeRecord, error) {
	trade.Symbol = types.NormalizeSymbol(trade.Symbol)
	if trade.ID == "" {
		trade.ID = e.newID()
	}
	if trade.ExecutedAt.IsZero() {
		trade.ExecutedAt = e.clock().UTC()
	}
	if err := validateTrade(trade); err != nil {
		return types.TradeRecord{}, err
	}

	stored, err := e.ledger.InsertTrade(ctx, trade)
	if err != nil {
		return types.TradeRecord{}, fmt.Errorf("insert trade: %w", err)
	}
	e.metrics.TradesRecorded.WithLabelValues(string(stored.Side)).Inc()
	e.logger.Info("trade recorded", "id", stored.ID, "symbol", stored.Symbol, "side", stored.Side,
		"quantity", stored.Quantity, "price", stored.Price)
	return stored, nil
}

func (e *Engine) Trades(ctx context.Context) ([]types.TradeRecord, error) {
	return e.ledger.ListTrades(ctx)
}

func (e *Engine) DeleteTrade(ctx context.Context, id string) error {
	if err := e.ledger.DeleteTrade(ctx, id); err != nil {
		return err
	}
	e.metrics.TradesDeleted.Inc()
	e.logger.Info("trade deleted", "id", id)
	return nil
}

// Portfolio values the whole ledger at the current time. The trade list it
// was computed from is returned alongside the view.
func (e *Engine) Portfolio(ctx context.Context) (types.PortfolioView, []types.TradeRecord, error) {
	start := time.Now()
	trades, err := e.ledger.ListTrades(ctx)
	if err != nil {
		return types.PortfolioView{}, nil, fmt.Errorf("list trades: %w", err)
	}
	positions, err := Aggregate(trades)
	if err != nil {
		return types.PortfolioView{}, nil, err
	}

	view := BuildViewConcurrent(ctx, positions, e.prices, e.clock(), e.portfolioConfig.fetchConcurrency)

	e.metrics.PortfolioBuilds.Inc()
	e.metrics.PortfolioDuration.Observe(time.Since(start).Seconds())
	return view, trades, nil
}

// Report builds the portfolio and its summary in one pass.
func (e *Engine) Report(ctx context.Context) (*Report, types.PortfolioView, []types.TradeRecord, error) {
	view, trades, err := e.Portfolio(ctx)
	if err != nil {
		return nil, types.PortfolioView{}, nil, err
	}
	return generateReport(view, trades), view, trades, nil
}
