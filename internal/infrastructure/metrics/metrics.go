package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ledger.
type Metrics struct {
	// Ledger metrics
	TransactionsAdded   prometheus.Counter
	TransactionsUpdated prometheus.Counter
	TransactionsDeleted prometheus.Counter
	LedgerConflicts     prometheus.Counter
	LedgerErrors        *prometheus.CounterVec
	BalanceRecalcs      prometheus.Counter

	// Import metrics
	ImportsRun    prometheus.Counter
	RowsImported  prometheus.Counter
	RowsSkipped   prometheus.Counter
	ImportSeconds prometheus.Histogram

	// Rate resolver metrics
	RateLookups   *prometheus.CounterVec
	RateFailures  *prometheus.CounterVec
	RateCacheHits prometheus.Counter
	RateCacheMiss prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransactionsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_transactions_added_total",
			Help: "Total number of transactions added",
		}),
		TransactionsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_transactions_updated_total",
			Help: "Total number of transactions updated",
		}),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),
		LedgerConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_ledger_conflicts_total",
			Help: "Total optimistic-write conflicts, including retried ones",
		}),
		LedgerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_ledger_errors_total",
				Help: "Total ledger errors by type",
			},
			[]string{"error_type"},
		),
		BalanceRecalcs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_balance_recalculations_total",
			Help: "Total explicit balance recalculations",
		}),

		ImportsRun: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_imports_total",
			Help: "Total statement imports",
		}),
		RowsImported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_import_rows_imported_total",
			Help: "Total statement rows committed",
		}),
		RowsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_import_rows_skipped_total",
			Help: "Total statement rows skipped as duplicates",
		}),
		ImportSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbook_import_duration_seconds",
			Help:    "Duration of statement imports",
			Buckets: prometheus.DefBuckets,
		}),

		RateLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_rate_lookups_total",
				Help: "Total rate resolutions by source",
			},
			[]string{"source"},
		),
		RateFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_rate_failures_total",
				Help: "Total failed rate resolutions by path",
			},
			[]string{"path"},
		),
		RateCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_rate_cache_hits_total",
			Help: "Total rate cache hits",
		}),
		RateCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_rate_cache_misses_total",
			Help: "Total rate cache misses",
		}),
	}
}
