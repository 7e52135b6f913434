package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hourly-labs/timetrack-backend/config"
	"github.com/hourly-labs/timetrack-backend/internal/auth"
	"github.com/hourly-labs/timetrack-backend/internal/bootstrap"
	"github.com/hourly-labs/timetrack-backend/internal/db"
	"github.com/hourly-labs/timetrack-backend/internal/logging"
)

const serviceName = "timetrack-api"

func main() {
	if err := run(); err != nil {
		log.Fatalf("api: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.App.LogLevel).With("service", serviceName, "env", cfg.App.Environment)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(ctx, database.SQL); err != nil {
		return err
	}
	logger.Info(ctx, "migrations applied")

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		// history is served uncached until the next restart
		logger.Warn(ctx, "redis unavailable, history cache disabled", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:        serviceName,
		Version:            cfg.App.Version,
		Logger:             logger,
		DB:                 database.SQL,
		DBPinger:           database,
		Redis:              rdb,
		HistoryCacheTTL:    cfg.Redis.HistoryCacheTTL,
		Tokens:             auth.NewTokenManager(cfg.Auth.JWTSecret, 0),
		AllowedOrigins:     cfg.HTTP.AllowedOrigins,
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
		RateLimitBurst:     cfg.HTTP.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info(context.Background(), "shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}
