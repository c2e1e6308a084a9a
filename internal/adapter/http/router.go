package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bankcore/internal/adapter/http/handler"
	"github.com/iho/bankcore/internal/adapter/http/middleware"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
	"github.com/iho/bankcore/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	TransferHandler       *handler.TransferHandler
	EntryHandler          *handler.EntryHandler
	LedgerHandler         *handler.LedgerHandler
	AccrualHandler        *handler.AccrualHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	Metrics          *metrics.Metrics
	MetricsGatherer  prometheus.Gatherer
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.MetricsGatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/savings", cfg.AccountHandler.CreateSavings)
			r.Post("/checking", cfg.AccountHandler.CreateChecking)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/id/{id}", cfg.AccountHandler.GetByID)

			r.Route("/{number}", func(r chi.Router) {
				r.Get("/", cfg.AccountHandler.Get)
				r.Post("/deposit", cfg.AccountHandler.Deposit)
				r.Post("/withdraw", cfg.AccountHandler.Withdraw)
				r.Put("/deactivate", cfg.AccountHandler.Deactivate)
				r.Put("/activate", cfg.AccountHandler.Activate)

				r.Get("/entries", cfg.EntryHandler.ListByAccount)
				r.Get("/balance", cfg.EntryHandler.Balance)

				r.Get("/window", cfg.LedgerHandler.Window)
				r.Get("/reports/monthly", cfg.LedgerHandler.MonthlyReport)

				r.Get("/interest", cfg.AccrualHandler.PreviewInterest)
				r.Post("/interest", cfg.AccrualHandler.ApplyInterest)
				r.Post("/fee", cfg.AccrualHandler.ApplyFee)

				r.Get("/reconciliation", cfg.ReconciliationHandler.Account)
			})
		})

		r.Post("/transfers", cfg.TransferHandler.Create)
		r.Get("/entries/{reference}", cfg.EntryHandler.Get)

		// Batch accruals, driven by the external scheduler
		r.Route("/accruals", func(r chi.Router) {
			r.Post("/interest", cfg.AccrualHandler.RunInterest)
			r.Post("/fees", cfg.AccrualHandler.RunFees)
		})

		r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
	})

	return r
}
