package engine

import (
	"time"
)

const DefaultPriceTTL = 60 * time.Second

type PriceCacheConfig struct {
	ttl time.Duration
}

// NewPriceCacheConfig falls back to DefaultPriceTTL for a non-positive ttl.
func NewPriceCacheConfig(ttl time.Duration) *PriceCacheConfig {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceCacheConfig{
		ttl: ttl,
	}
}

type PortfolioConfig struct {
	// fetchConcurrency <= 1 resolves prices one symbol at a time.
	fetchConcurrency int
}

func NewPortfolioConfig(fetchConcurrency int) *PortfolioConfig {
	return &PortfolioConfig{
		fetchConcurrency: fetchConcurrency,
	}
}

type ReportingConfig struct {
	currency    string
	printTrades bool
}

func NewReportingConfig(currency string, printTrades bool) *ReportingConfig {
	if currency == "" {
		currency = "USD"
	}
	return &ReportingConfig{
		currency:    currency,
		printTrades: printTrades,
	}
}
