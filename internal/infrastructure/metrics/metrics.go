package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated   *prometheus.CounterVec
	AccountOperations *prometheus.CounterVec
	OperationErrors   *prometheus.CounterVec
	AmountPosted      *prometheus.CounterVec

	// Transfer metrics
	TransferDuration prometheus.Histogram
	TransferAmount   prometheus.Histogram

	// Accrual metrics
	AccrualRuns     *prometheus.CounterVec
	AccrualFailures *prometheus.CounterVec
	AccrualDuration *prometheus.HistogramVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Account metrics
		AccountsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_accounts_created_total",
				Help: "Total number of accounts created by type",
			},
			[]string{"account_type"},
		),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_account_operations_total",
				Help: "Total successful account operations by type",
			},
			[]string{"operation"},
		),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_operation_errors_total",
				Help: "Total failed account operations by error kind",
			},
			[]string{"operation", "kind"},
		),
		AmountPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_amount_posted_total",
				Help: "Sum of ledger entry amounts posted by entry type",
			},
			[]string{"entry_type"},
		),

		// Transfer metrics
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankcore_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankcore_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Accrual metrics
		AccrualRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_accrual_accounts_total",
				Help: "Accounts processed by accrual runs",
			},
			[]string{"kind"},
		),
		AccrualFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_accrual_failures_total",
				Help: "Accounts that failed during accrual runs",
			},
			[]string{"kind"},
		),
		AccrualDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_accrual_duration_seconds",
				Help:    "Duration of a full accrual batch",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankcore_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Cache metrics
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_cache_lookups_total",
				Help: "Account cache lookups by result",
			},
			[]string{"result"},
		),

		// Outbox metrics
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_outbox_published_total",
			Help: "Outbox events published",
		}),
		OutboxFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_outbox_failures_total",
			Help: "Outbox events that failed to publish",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}
