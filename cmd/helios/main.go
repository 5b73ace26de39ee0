package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/helios-ris/helios-ris/internal/app"
	"github.com/helios-ris/helios-ris/internal/audit"
	"github.com/helios-ris/helios-ris/internal/auth"
	"github.com/helios-ris/helios-ris/internal/capability"
	"github.com/helios-ris/helios-ris/internal/labs"
	"github.com/helios-ris/helios-ris/internal/observability"
	"github.com/helios-ris/helios-ris/internal/platform/cache"
	"github.com/helios-ris/helios-ris/internal/platform/db"
	"github.com/helios-ris/helios-ris/internal/principals"
	"github.com/helios-ris/helios-ris/internal/shared"
	"github.com/helios-ris/helios-ris/internal/studies"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	// The capability registry is validated before anything listens: serving
	// with a broken policy table is unsafe, so configuration errors are fatal.
	registry, err := capability.Load(capability.DefaultTables())
	if err != nil {
		logger.Error("load capability registry", slog.Any("error", err))
		os.Exit(1)
	}

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

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	principalRepo := principals.NewRepository(pool)
	profileCache := principals.NewProfileCache(redisClient, cfg.ProfileCacheTTL)
	principalService := principals.NewService(principalRepo, registry, profileCache, auditLogger, logger)

	guard := capability.Middleware{
		Registry:   registry,
		Principals: principalService,
		Logger:     logger,
		Metrics:    metrics,
	}

	labService := labs.NewService(labs.NewRepository(pool))
	studyService := studies.NewService(studies.NewRepository(pool), principalService, labService)

	authHandler := auth.NewHandler(logger, auth.NewService(auth.NewRepository(pool)), sessionManager, csrfManager, auditLogger)
	principalsHandler := principals.NewHandler(logger, principalService, guard)
	labsHandler := labs.NewHandler(logger, labService, guard)
	studiesHandler := studies.NewHandler(logger, studyService)
	auditHandler := audit.NewHandler(logger, audit.NewService(audit.NewRepository(pool)), guard)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Registry:          registry,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		Guard:             guard,
		AuthHandler:       authHandler,
		PrincipalsHandler: principalsHandler,
		LabsHandler:       labsHandler,
		StudiesHandler:    studiesHandler,
		AuditHandler:      auditHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
