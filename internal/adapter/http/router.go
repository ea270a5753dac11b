package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/finbook/finbook/internal/adapter/http/handler"
	"github.com/finbook/finbook/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BudgetHandler      *handler.BudgetHandler
	TransactionHandler *handler.TransactionHandler
	ImportHandler      *handler.ImportHandler
	LoanHandler        *handler.LoanHandler
	AssetHandler       *handler.AssetHandler
	CategoryHandler    *handler.CategoryHandler
	HealthHandler      *handler.HealthHandler
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", cfg.CategoryHandler.List)

		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", cfg.BudgetHandler.Create)
			r.Get("/", cfg.BudgetHandler.List)
			r.Get("/{id}", cfg.BudgetHandler.Get)
			r.Post("/{id}/recalculate", cfg.BudgetHandler.RecalculateBalance)
			r.Delete("/{id}/history", cfg.BudgetHandler.ClearHistory)

			r.Route("/{id}/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Add)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/totals", cfg.TransactionHandler.Totals)
				r.Get("/export", cfg.TransactionHandler.Export)
				r.Get("/events", cfg.TransactionHandler.Events)
				r.Post("/delete-confirmations", cfg.TransactionHandler.ConfirmDelete)
				r.Get("/{txnID}", cfg.TransactionHandler.Get)
				r.Put("/{txnID}", cfg.TransactionHandler.Update)
				r.Delete("/{txnID}", cfg.TransactionHandler.RequestDelete)
			})

			r.Post("/{id}/imports", cfg.ImportHandler.ImportStatement)

			r.Route("/{id}/loans", func(r chi.Router) {
				r.Post("/", cfg.LoanHandler.Create)
				r.Get("/summary", cfg.LoanHandler.Summary)
				r.Post("/{loanID}/payments", cfg.LoanHandler.RecordPayment)
				r.Delete("/{loanID}", cfg.LoanHandler.Delete)
			})

			r.Route("/{id}/assets", func(r chi.Router) {
				r.Post("/", cfg.AssetHandler.Create)
				r.Get("/summary", cfg.AssetHandler.Summary)
				r.Put("/{assetID}", cfg.AssetHandler.Update)
				r.Delete("/{assetID}", cfg.AssetHandler.Delete)
			})
		})
	})

	return r
}
