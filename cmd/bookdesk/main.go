package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/bookdesk/bookdesk/internal/app"
	"github.com/bookdesk/bookdesk/internal/business"
	"github.com/bookdesk/bookdesk/internal/ledger"
	"github.com/bookdesk/bookdesk/internal/observability"
	"github.com/bookdesk/bookdesk/internal/payments"
	"github.com/bookdesk/bookdesk/internal/platform/cache"
	"github.com/bookdesk/bookdesk/internal/platform/db"
	"github.com/bookdesk/bookdesk/internal/pricing"
	pricinghttp "github.com/bookdesk/bookdesk/internal/pricing/http"
	settlementhttp "github.com/bookdesk/bookdesk/internal/settlement/http"
	"github.com/bookdesk/bookdesk/jobs"
)

func main() {
	_ = godotenv.Load()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	policy, err := cfg.ConversionPolicy()
	if err != nil {
		logger.Error("conversion policy", slog.Any("error", err))
		os.Exit(1)
	}
	table, err := cfg.CurrencyTable()
	if err != nil {
		logger.Error("currency table", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	businessSource := business.NewCachedSource(
		business.NewRepository(dbpool),
		cache.NewJSON(redisClient, "business", cfg.BusinessCacheTTL),
	)
	resolver := business.NewResolver(businessSource, cfg.BusinessFallback(), logger)

	ledgerSource := ledger.NewCachedSource(
		ledger.NewRepository(dbpool),
		cache.NewJSON(redisClient, "ledger", cfg.LedgerCacheTTL),
	)

	pricingService := pricing.NewService(
		pricing.NewRepository(dbpool),
		pricing.NewDraftStore(redisClient, cfg.DraftTTL),
		policy,
		metrics,
	)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	paymentService := payments.NewService(jobClient, metrics, logger)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Business:          resolver,
		PricingHandler:    pricinghttp.NewHandler(logger, pricingService, table),
		SettlementHandler: settlementhttp.NewHandler(logger, ledgerSource, paymentService, jobs.NewPaymentStatusReader(inspector)),
		JobHandler:        jobs.NewHandler(inspector, logger),
		Metrics:           metrics,
		Ready: func(r *http.Request) error {
			if err := dbpool.Ping(r.Context()); err != nil {
				return err
			}
			return redisClient.Ping(r.Context()).Err()
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
