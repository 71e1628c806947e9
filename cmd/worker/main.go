package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
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
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	budgetService := budgets.NewService(
		budgets.NewRepository(pool),
		clients.NewRepository(pool),
		catalog.NewRepository(pool),
		obras.NewClaveGenerator(redisClient),
		nil,
		auditLogger,
		budgets.ServiceConfig{TaxRate: cfg.TaxRate},
		logger,
	)

	pdfClient := report.NewClient(cfg.GotenbergURL)
	proposalJob := jobs.NewProposalRenderJob(budgetService, pdfClient, metrics, logger, cfg.ArtifactsDir)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskProposalRender, Handler: proposalJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shut down")
}
