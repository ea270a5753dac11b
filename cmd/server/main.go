package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/finbook/finbook/internal/adapter/http"
	"github.com/finbook/finbook/internal/adapter/http/handler"
	postgresRepo "github.com/finbook/finbook/internal/adapter/repository/postgres"
	redisRepo "github.com/finbook/finbook/internal/adapter/repository/redis"
	"github.com/finbook/finbook/internal/infrastructure/config"
	"github.com/finbook/finbook/internal/infrastructure/logger"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
	"github.com/finbook/finbook/internal/infrastructure/postgres"
	"github.com/finbook/finbook/internal/infrastructure/redis"
	"github.com/finbook/finbook/internal/rates"
	"github.com/finbook/finbook/internal/statement"
	"github.com/finbook/finbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	baseLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = baseLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	baseLogger.Info().Msg("connected to postgres")

	// Apply pending migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		baseLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	baseLogger.Info().Msg("connected to redis")

	// Load categorization rules for statement imports
	var rules *statement.RuleSet
	if cfg.CategoryRulesPath != "" {
		rules, err = statement.LoadRules(cfg.CategoryRulesPath)
		if err != nil {
			baseLogger.Fatal().Err(err).Str("path", cfg.CategoryRulesPath).Msg("failed to load category rules")
		}
		baseLogger.Info().Int("rules", len(rules.Rules)).Msg("loaded category rules")
	}

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	budgetRepo := postgresRepo.NewBudgetRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	assetRepo := postgresRepo.NewAssetRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	retrier := postgresRepo.NewRetrier(logger.Component(baseLogger, "retrier"))
	idGen := postgresRepo.NewULIDGenerator()

	appMetrics := metrics.New()

	cache := redisRepo.NewCache(redisClient)
	confirmations := redisRepo.NewConfirmationStore(redisClient)
	events := redisRepo.NewEventBus(redisClient, logger.Component(baseLogger, "eventbus"))

	// Initialize rate resolver
	fiatSource := rates.NewFiatClient(cfg.FiatRatesURL, cfg.RateFetchTimeout)
	assetSource := rates.NewAssetClient(cfg.AssetQuotesURL, cfg.RateFetchTimeout)
	resolver := rates.NewResolver(fiatSource, assetSource, cache, cfg.RateCacheTTL, appMetrics, logger.Component(baseLogger, "rates"))

	// Initialize use cases
	budgetUC := usecase.NewBudgetUseCase(budgetRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, budgetRepo, txnRepo, resolver, idGen, retrier,
		confirmations, events, appMetrics, logger.Component(baseLogger, "ledger"))
	importUC := usecase.NewImportUseCase(txManager, budgetRepo, txnRepo, resolver, idGen, retrier,
		rules, events, appMetrics, logger.Component(baseLogger, "import"))
	feedUC := usecase.NewFeedUseCase(budgetRepo, txnRepo, resolver, events)
	loanUC := usecase.NewLoanUseCase(loanRepo, idGen)
	assetUC := usecase.NewAssetUseCase(assetRepo, resolver, idGen)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)

	// Seed the category catalog
	if err := categoryUC.SeedDefaults(ctx); err != nil {
		baseLogger.Fatal().Err(err).Msg("failed to seed categories")
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BudgetHandler:      handler.NewBudgetHandler(budgetUC, ledgerUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC, feedUC),
		ImportHandler:      handler.NewImportHandler(importUC),
		LoanHandler:        handler.NewLoanHandler(loanUC),
		AssetHandler:       handler.NewAssetHandler(assetUC),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		Logger:             logger.Component(baseLogger, "http"),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		baseLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			baseLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	baseLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	baseLogger.Info().Msg("server stopped")
}
