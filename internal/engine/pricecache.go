package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"tradebook/internal/observability"
	"tradebook/types"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var QuoteNotConfiguredErr = errors.New("quote provider has no credentials")
var InvalidPriceErr = errors.New("quote price is not a finite number")

// fetchResult is the outcome of a single upstream call before it is
// collapsed into a cache entry.
type fetchResult struct {
	price  decimal.Decimal
	reason string
	err    error
}

func (r fetchResult) ok() bool {
	return r.reason == observability.ResultOK
}

type priceEntry struct {
	price     decimal.NullDecimal
	fetchedAt time.Time
}

// PriceCache resolves current prices, calling the quote provider at most once
// per symbol per TTL window. Failed fetches are cached as unknown prices for a
// full window as well.
type PriceCache struct {
	provider QuoteProvider
	ttl      time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu      sync.Mutex
	entries map[string]priceEntry
	flights singleflight.Group
}

func NewPriceCache(provider QuoteProvider, config *PriceCacheConfig, logger *slog.Logger, metrics *observability.Metrics) *PriceCache {
	if config == nil {
		config = NewPriceCacheConfig(DefaultPriceTTL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNopMetrics()
	}
	return &PriceCache{
		provider: provider,
		ttl:      config.ttl,
		logger:   logger,
		metrics:  metrics,
		entries:  make(map[string]priceEntry),
	}
}

// ResolvePrice returns the price of symbol as seen at now. The result is
// invalid when the price is unknown; errors never reach the caller.
func (c *PriceCache) ResolvePrice(ctx context.Context, symbol string, now time.Time) decimal.NullDecimal {
	symbol = types.NormalizeSymbol(symbol)
	if entry, ok := c.fresh(symbol, now); ok {
		c.metrics.PriceCacheHits.Inc()
		return entry.price
	}
	c.metrics.PriceCacheMisses.Inc()

	// Concurrent refreshes of one symbol share a single upstream call. The
	// fetch is detached from the caller's cancellation because its result is
	// stored for everyone.
	v, _, _ := c.flights.Do(symbol, func() (interface{}, error) {
		if entry, ok := c.fresh(symbol, now); ok {
			return entry.price, nil
		}
		res := c.fetch(context.WithoutCancel(ctx), symbol)
		c.metrics.QuoteFetches.WithLabelValues(res.reason).Inc()

		entry := priceEntry{fetchedAt: now}
		if res.ok() {
			entry.price = decimal.NewNullDecimal(res.price)
		} else if res.reason != observability.ResultNotConfigured {
			c.logger.Warn("quote fetch failed", "symbol", symbol, "reason", res.reason, "err", res.err)
		}
		c.store(symbol, entry)
		return entry.price, nil
	})
	return v.(decimal.NullDecimal)
}

func (c *PriceCache) fetch(ctx context.Context, symbol string) fetchResult {
	if c.provider == nil || !c.provider.Configured() {
		return fetchResult{reason: observability.ResultNotConfigured, err: QuoteNotConfiguredErr}
	}

	start := time.Now()
	raw, err := c.provider.FetchQuote(ctx, symbol)
	c.metrics.QuoteFetchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return fetchResult{reason: observability.ResultUpstreamError, err: err}
	}

	price, err := parsePrice(raw)
	if err != nil {
		return fetchResult{reason: observability.ResultInvalidPrice, err: err}
	}
	return fetchResult{price: price, reason: observability.ResultOK}
}

// parsePrice rejects empty strings, NaN and infinities.
func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q: %w", raw, InvalidPriceErr)
	}
	return price, nil
}

func (c *PriceCache) fresh(symbol string, now time.Time) (priceEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[symbol]
	if !ok || now.Sub(entry.fetchedAt) >= c.ttl {
		return priceEntry{}, false
	}
	return entry, true
}

func (c *PriceCache) store(symbol string, entry priceEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = entry
	c.metrics.PriceCacheEntries.Set(float64(len(c.entries)))
}

// Prune drops every entry that is stale at now and returns how many went.
func (c *PriceCache) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for symbol, entry := range c.entries {
		if now.Sub(entry.fetchedAt) >= c.ttl {
			delete(c.entries, symbol)
			removed++
		}
	}
	c.metrics.PriceCacheEntries.Set(float64(len(c.entries)))
	return removed
}

func (c *PriceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var _ PriceLookup = (*PriceCache)(nil)
