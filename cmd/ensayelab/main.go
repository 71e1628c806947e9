package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ensayelab/ensayelab/internal/app"
	"github.com/ensayelab/ensayelab/internal/budgets"
	"github.com/ensayelab/ensayelab/internal/catalog"
	"github.com/ensayelab/ensayelab/internal/clients"
	"github.com/ensayelab/ensayelab/internal/observability"
	"github.com/ensayelab/ensayelab/internal/obras"
	"github.com/ensayelab/ensayelab/internal/shared"
	"github.com/ensayelab/ensayelab/jobs"
	"github.com/ensayelab/ensayelab/report"
)

func main() {
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

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	clientRepo := clients.NewRepository(dbpool)
	clientService := clients.NewService(clientRepo)
	clientHandler := clients.NewHandler(logger, clientService)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	claveGenerator := obras.NewClaveGenerator(redisClient)
	obraHandler := obras.NewHandler(logger, claveGenerator)

	enqueuer := jobs.NewEnqueuer(cfg.RedisAddr)
	defer func() {
		if err := enqueuer.Close(); err != nil {
			logger.Warn("enqueuer close", slog.Any("error", err))
		}
	}()

	budgetRepo := budgets.NewRepository(dbpool)
	budgetService := budgets.NewService(
		budgetRepo,
		clientRepo,
		catalogRepo,
		claveGenerator,
		enqueuer,
		auditLogger,
		budgets.ServiceConfig{TaxRate: cfg.TaxRate},
		logger,
	)

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportHandler := report.NewHandler(reportClient, logger)
	budgetHandler := budgets.NewHandler(logger, budgetService, reportClient)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		ClientHandler:  clientHandler,
		CatalogHandler: catalogHandler,
		BudgetHandler:  budgetHandler,
		ObraHandler:    obraHandler,
		ReportHandler:  reportHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
