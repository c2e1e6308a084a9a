package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/bankcore/internal/adapter/http"
	"github.com/iho/bankcore/internal/adapter/http/handler"
	"github.com/iho/bankcore/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bankcore/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankcore/internal/adapter/repository/redis"
	"github.com/iho/bankcore/internal/infrastructure/config"
	"github.com/iho/bankcore/internal/infrastructure/eventpublisher"
	"github.com/iho/bankcore/internal/infrastructure/logger"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
	"github.com/iho/bankcore/internal/infrastructure/postgres"
	"github.com/iho/bankcore/internal/infrastructure/redis"
	"github.com/iho/bankcore/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.RunMigrations {
		migrator := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log)
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	outboxRepo := postgresRepo.NewOutboxRepository(pool)

	deps := usecase.Deps{
		TxManager:          postgresRepo.NewTxManager(pool),
		Retrier:            postgresRepo.NewRetrier(log).WithMaxRetries(cfg.MaxRetries),
		Accounts:           postgresRepo.NewAccountRepository(pool),
		Entries:            postgresRepo.NewEntryRepository(pool),
		Outbox:             outboxRepo,
		IDs:                postgresRepo.NewIdentifierGenerator(),
		Metrics:            m,
		Logger:             log,
		IdentifierAttempts: cfg.IdentifierMaxAttempts,
		TransactionTimeout: cfg.TransactionTimeout,
	}

	if cfg.CacheEnabled {
		deps.Cache = redisRepo.NewAccountCache(redisClient, cfg.AccountCacheTTL)
		log.Info().Dur("ttl", cfg.AccountCacheTTL).Msg("account cache enabled")
	}

	reconciliationUC := usecase.NewReconciliationUseCase(deps.Accounts, deps.Entries, nil, log)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(usecase.NewAccountUseCase(deps)),
		TransferHandler:       handler.NewTransferHandler(usecase.NewTransferUseCase(deps)),
		EntryHandler:          handler.NewEntryHandler(usecase.NewEntryUseCase(deps.Accounts, deps.Entries)),
		LedgerHandler:         handler.NewLedgerHandler(usecase.NewLedgerUseCase(deps.Accounts, deps.Entries)),
		AccrualHandler:        handler.NewAccrualHandler(usecase.NewAccrualUseCase(deps)),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(healthChecks(pool, redisClient)),
		Metrics:               m,
		MetricsGatherer:       registry,
		RateLimiter:           newRateLimiter(ctx, cfg, m),
		IdempotencyStore:      redisRepo.NewIdempotencyStore(redisClient),
		Logger:                log,
		IdempotencyTTL:        cfg.IdempotencyTTL,
	})

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  newPublisher(cfg, redisClient, log),
		Metrics:    m,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	publisherDone := make(chan struct{})
	go func() {
		defer close(publisherDone)
		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	<-publisherDone
	log.Info().Msg("server stopped")

	return nil
}

func healthChecks(pool *pgxpool.Pool, client *goredis.Client) map[string]handler.Check {
	return map[string]handler.Check{
		"postgres": pool.Ping,
		"redis":    redis.HealthCheck(client),
	}
}

// newPublisher selects the outbox sink named by OUTBOX_SINK.
func newPublisher(cfg *config.Config, client *goredis.Client, log zerolog.Logger) eventpublisher.Publisher {
	switch cfg.OutboxSink {
	case "redis":
		return eventpublisher.NewStreamPublisher(client, cfg.OutboxStream, 0)
	case "log", "":
		return eventpublisher.NewLogPublisher(log)
	default:
		log.Warn().Str("sink", cfg.OutboxSink).Msg("unknown outbox sink, falling back to log")
		return eventpublisher.NewLogPublisher(log)
	}
}

// newRateLimiter returns nil when rate limiting is disabled. Idle client
// limiters are dropped until ctx is done.
func newRateLimiter(ctx context.Context, cfg *config.Config, m *metrics.Metrics) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)

	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.CleanupLimiters(time.Hour)
			}
		}
	}()

	return rl
}
