// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Command api is the entry point for the Vidora HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Initialize the token service and media store.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/vidora/vidora/internal/api"
	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/config"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/migration"
	pgstore "github.com/vidora/vidora/internal/platform/postgres"
	redisstore "github.com/vidora/vidora/internal/platform/redis"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/users/account"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/internal/users/subscription"
	"github.com/vidora/vidora/internal/videos"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Vidora] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service & Media Store ───────────────────────────────────
	tokenService, err := sec.NewTokenService(
		[]byte(cfg.AccessTokenSecret),
		[]byte(cfg.RefreshTokenSecret),
		constants.AuthIssuer,
	)
	must(log, err, "initialize token service")

	mediaStore, err := media.NewS3Store(startupCtx, media.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.MediaBaseURL,
	}, log)
	must(log, err, "initialize media store")

	must(log, os.MkdirAll(cfg.UploadTempDir, 0o755), "create upload staging directory")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, mediaStore, tokenService, log)
	authHandler := auth.NewHandler(authService, cfg.UploadTempDir)

	accountService := account.NewService(userRepository, mediaStore, log)
	accountHandler := account.NewHandler(accountService, cfg.UploadTempDir)

	subscriptionRepository := subscription.NewRepository(pool)
	subscriptionService := subscription.NewService(subscriptionRepository, userRepository, log)
	subscriptionHandler := subscription.NewHandler(subscriptionService)

	videoRepository := videos.NewRepository(pool)
	viewCounter := videos.NewViewCounter(rdb)
	videoService := videos.NewService(videoRepository, viewCounter, mediaStore, log)
	videoHandler := videos.NewHandler(videoService, cfg.UploadTempDir)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckMediaStore: func() error {
			return mediaStore.Ping(context.Background())
		},
	}, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         authHandler,
		Account:      accountHandler,
		Subscription: subscriptionHandler,
		Videos:       videoHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, tokenService, authService, handlers)

	// ── 10. Graceful Shutdown ────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must aborts startup with a structured log entry when a critical
// initialization step fails.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
