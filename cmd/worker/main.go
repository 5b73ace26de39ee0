package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/helios-ris/helios-ris/internal/app"
	jobmetrics "github.com/helios-ris/helios-ris/internal/jobs"
	"github.com/helios-ris/helios-ris/internal/labs"
	"github.com/helios-ris/helios-ris/internal/platform/cache"
	"github.com/helios-ris/helios-ris/internal/platform/db"
	"github.com/helios-ris/helios-ris/internal/principals"
	"github.com/helios-ris/helios-ris/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	metrics := jobmetrics.NewMetrics(nil)

	labRepo := labs.NewRepository(pool)
	labService := labs.NewService(labRepo)
	labRefresh := jobs.NewLabRefreshJob(labService, labRepo, logger)
	labRefresh.Metrics = metrics

	principalRepo := principals.NewRepository(pool)
	profileCache := principals.NewProfileCache(redisClient, cfg.ProfileCacheTTL)
	profileSweep := jobs.NewProfileSweepJob(principalRepo, profileCache, logger)
	profileSweep.Metrics = metrics

	refreshTask, err := jobs.NewLabRefreshTask(jobs.LabRefreshPayload{
		StaleAfterMinutes: int(cfg.LabRefreshInterval.Minutes()) * 3,
	})
	if err != nil {
		logger.Error("build lab refresh task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLabRefresh, Handler: labRefresh.Handle},
			{Type: jobs.TaskProfileSweep, Handler: profileSweep.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: fmt.Sprintf("@every %s", cfg.LabRefreshInterval), Task: refreshTask},
			{Spec: fmt.Sprintf("@every %s", cfg.CacheSweepInterval), Task: jobs.NewProfileSweepTask()},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
