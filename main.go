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

	"squadup-app/internal/config"
	"squadup-app/internal/events"
	"squadup-app/internal/jobs"
	"squadup-app/internal/live"
	"squadup-app/internal/service"
	"squadup-app/internal/store"
	"squadup-app/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appStore, seed, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := appStore.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	hub := live.NewHub(logger)
	go hub.Run(ctx)
	notifiers := []service.Notifier{hub}

	if cfg.RedisURL != "" {
		client, err := events.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, roster events stay local", "error", err)
		} else {
			defer client.Close()
			notifiers = append(notifiers, events.NewStreamPublisher(client))
			logger.Info("publishing roster events to redis streams")
		}
	}

	svc := service.New(appStore, service.WithLogger(logger), service.WithNotifiers(notifiers...))
	if seed {
		if err := svc.SeedDemo(ctx); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	if cfg.ReconcileSchedule != "" && !config.Lambda() {
		scheduler := jobs.NewScheduler(svc, cfg.ReconcileSchedule, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	handler := web.NewServer(svc, web.Options{
		Hub:         hub,
		Logger:      logger,
		Dev:         cfg.Dev(),
		CORSOrigins: cfg.CORSOrigins,
	}).Routes()

	if config.Lambda() {
		logger.Info("starting in lambda mode")
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", srv.Addr, "app", cfg.App)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// openStore picks Postgres, then SQLite, then memory. Only a fresh memory
// store outside prod gets demo data.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, bool, error) {
	switch {
	case cfg.PostgresDSN != "":
		st, err := store.NewPostgresStore(ctx, cfg.PostgresDSN, store.PostgresOptions{MigrationsDir: cfg.PostgresMigrationsDir})
		if err != nil {
			return nil, false, err
		}
		slog.Info("using postgres store")
		return st, false, nil
	case cfg.DBPath != "":
		st, err := store.NewSQLiteStore(ctx, cfg.DBPath, store.SQLiteOptions{MigrationsDir: cfg.DBMigrationsDir})
		if err != nil {
			return nil, false, err
		}
		slog.Info("using sqlite store", "path", cfg.DBPath)
		return st, false, nil
	}
	slog.Info("using in-memory store")
	return store.NewMemoryStore(), cfg.App != "prod", nil
}
