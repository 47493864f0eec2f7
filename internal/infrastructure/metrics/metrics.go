package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Price metrics
	PricesSet           prometheus.Counter
	PriceUpdates        prometheus.Counter
	PriceConflicts      prometheus.Counter
	PriceUpdateDuration prometheus.Histogram
	PriceErrors         *prometheus.CounterVec

	// Book metrics
	BooksCreated prometheus.Counter

	// Revenue metrics
	RevenueComputations  prometheus.Counter
	RevenueEventsMatched prometheus.Counter
	RevenueEventsSkipped prometheus.Counter
	RevenueDuration      prometheus.Histogram

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Price metrics
		PricesSet: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_prices_set_total",
			Help: "Total number of initial prices set",
		}),
		PriceUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_price_updates_total",
			Help: "Total number of price updates applied",
		}),
		PriceConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_price_conflicts_total",
			Help: "Total number of price writes rejected as conflicts",
		}),
		PriceUpdateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookstore_price_update_duration_seconds",
			Help:    "Duration of price write operations",
			Buckets: prometheus.DefBuckets,
		}),
		PriceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookstore_price_errors_total",
				Help: "Total number of price operation errors by type",
			},
			[]string{"error_type"},
		),

		// Book metrics
		BooksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_books_created_total",
			Help: "Total number of books created",
		}),

		// Revenue metrics
		RevenueComputations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_revenue_computations_total",
			Help: "Total number of revenue reports computed",
		}),
		RevenueEventsMatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_revenue_events_matched_total",
			Help: "Total sale events matched to a price interval",
		}),
		RevenueEventsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_revenue_events_skipped_total",
			Help: "Total sale events with no applicable price interval",
		}),
		RevenueDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookstore_revenue_duration_seconds",
			Help:    "Duration of revenue computations",
			Buckets: prometheus.DefBuckets,
		}),

		// Cache metrics
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookstore_cache_hits_total",
				Help: "Total cache hits",
			},
			[]string{"key_type"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookstore_cache_misses_total",
				Help: "Total cache misses",
			},
			[]string{"key_type"},
		),
	}
}
