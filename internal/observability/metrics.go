// Package observability provides Prometheus metrics for the portfolio service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Quote fetch outcomes used as the "result" label.
const (
	ResultOK            = "ok"
	ResultNotConfigured = "not_configured"
	ResultUpstreamError = "upstream_error"
	ResultInvalidPrice  = "invalid_price"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Price cache metrics
	PriceCacheHits    prometheus.Counter
	PriceCacheMisses  prometheus.Counter
	PriceCacheEntries prometheus.Gauge
	QuoteFetches      *prometheus.CounterVec
	QuoteFetchLatency prometheus.Histogram

	// Ledger metrics
	TradesRecorded *prometheus.CounterVec
	TradesDeleted  prometheus.Counter

	// Portfolio metrics
	PortfolioBuilds   prometheus.Counter
	PortfolioDuration prometheus.Histogram
}

// NewMetrics creates a Metrics instance registered on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "tradebook"
	}
	factory := promauto.With(reg)

	return &Metrics{
		PriceCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price_cache",
			Name:      "hits_total",
			Help:      "Price lookups served from a fresh cache entry",
		}),
		PriceCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price_cache",
			Name:      "misses_total",
			Help:      "Price lookups that found no entry or a stale one",
		}),
		PriceCacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "price_cache",
			Name:      "entries",
			Help:      "Current number of symbols held in the price cache",
		}),
		QuoteFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "fetches_total",
			Help:      "Upstream quote fetch attempts by result",
		}, []string{"result"}),
		QuoteFetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "fetch_latency_seconds",
			Help:      "Upstream quote fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		TradesRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_recorded_total",
			Help:      "Trades inserted into the ledger by side",
		}, []string{"side"}),
		TradesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_deleted_total",
			Help:      "Trades removed from the ledger",
		}),
		PortfolioBuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "builds_total",
			Help:      "Portfolio views computed",
		}),
		PortfolioDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "build_duration_seconds",
			Help:      "Time to aggregate the ledger and price every position",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// NewNopMetrics returns metrics bound to a private registry nobody scrapes.
func NewNopMetrics() *Metrics {
	return NewMetrics("", prometheus.NewRegistry())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
