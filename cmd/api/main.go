// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

// Command api is the entry point for the Lectoria HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Construct the blob store (S3-compatible, or disabled).
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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
	"strings"
	"syscall"
	"time"

	"github.com/velmoras/lectoria/internal/api"
	"github.com/velmoras/lectoria/internal/core/banner"
	"github.com/velmoras/lectoria/internal/core/story"
	"github.com/velmoras/lectoria/internal/core/taxonomy"
	"github.com/velmoras/lectoria/internal/importer"
	"github.com/velmoras/lectoria/internal/pdfx"
	"github.com/velmoras/lectoria/internal/platform/adminauth"
	"github.com/velmoras/lectoria/internal/platform/config"
	"github.com/velmoras/lectoria/internal/platform/constants"
	"github.com/velmoras/lectoria/internal/platform/migration"
	pgstore "github.com/velmoras/lectoria/internal/platform/postgres"
	redisstore "github.com/velmoras/lectoria/internal/platform/redis"
	"github.com/velmoras/lectoria/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

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
		slog.String("pdf_import_mode", cfg.PDFImportMode),
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

	// ── 6. Blob Store ─────────────────────────────────────────────────────
	// Missing bucket/endpoint config starts the store in disabled mode:
	// imports proceed, uploads report storage.ErrDisabled.
	var blobs storage.BlobStore = storage.NewDisabled()
	if cfg.S3Bucket != "" && cfg.S3Endpoint != "" {
		blobs, err = storage.NewS3Store(startupCtx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		must(log, err, "initialize object storage")
		log.Info("object_storage_enabled", slog.String("bucket", cfg.S3Bucket))
	} else {
		log.Warn("object_storage_disabled")
	}

	// ── 7. Admin Sessions ─────────────────────────────────────────────────
	sessions := adminauth.NewService(cfg.AdminPasswordHash, cfg.AdminSessionSecret)
	authHandler := adminauth.NewHandler(sessions, cfg.IsProduction())

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	extractor := pdfx.NewExtractor(pdfx.Config{
		OCRLanguages: strings.Split(cfg.OCRLanguages, "+"),
		OCRBudget:    cfg.OCRBudget,
		Logger:       log,
	})

	importRepository := importer.NewPostgresRepository(pool)
	importService := importer.NewService(importRepository, blobs, extractor, cfg.PDFImportMode, log)
	importHandler := importer.NewHandler(importService)

	storyRepository := story.NewRepository(pool)
	storyService := story.NewService(storyRepository, story.NewRedisCache(rdb), log)
	storyHandler := story.NewHandler(storyService)

	bannerRepository := banner.NewRepository(pool)
	bannerService := banner.NewService(bannerRepository, blobs, log)
	bannerHandler := banner.NewHandler(bannerService)

	taxonomyHandler := taxonomy.NewHandler(taxonomy.NewRepository(pool))

	// ── 10. Background Workers ────────────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go storyService.StartViewFlusher(workerCtx, constants.ViewFlushInterval)

	// ── 11. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Story:     storyHandler,
		Banner:    bannerHandler,
		Taxonomy:  taxonomyHandler,
		Importer:  importHandler,
	}

	server := api.NewServer(workerCtx, cfg, log, sessions, handlers)

	// ── 12. Graceful Shutdown ─────────────────────────────────────────────
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

	// Flush any accumulated view counters before the process exits.
	if err := storyService.FlushViewCounts(context.Background()); err != nil {
		log.Error("final view count flush failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
