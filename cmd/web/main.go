// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command web is the entry point for the vidshare browser frontend.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis, or fall back to in-memory tab storage.
//  4. Build the remote API client.
//  5. Wire health checks and screens.
//  6. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/vidshare/internal/api"
	"github.com/taibuivan/vidshare/internal/gateway"
	"github.com/taibuivan/vidshare/internal/platform/async"
	"github.com/taibuivan/vidshare/internal/platform/config"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/platform/middleware"
	redisstore "github.com/taibuivan/vidshare/internal/platform/redis"
	"github.com/taibuivan/vidshare/internal/session"
	"github.com/taibuivan/vidshare/internal/web"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName), slog.String("version", constants.AppVersion))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName), slog.String("version", constants.AppVersion))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("redis", cfg.UsesRedis()),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Background workers stop with the process.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// ── 3. Tab Storage ────────────────────────────────────────────────────
	var (
		storage    session.Storage
		tracker    async.Tracker
		checkCache func(ctx context.Context) error
	)

	if cfg.UsesRedis() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()

		storage = session.NewRedisStorage(rdb)
		tracker = async.NewRedisTracker(rdb)
		checkCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	} else {
		memory := session.NewMemoryStorage()
		go memory.Janitor(workerCtx, constants.StorageSweepInterval)

		storage = memory
		tracker = async.NewMemoryTracker()
		log.Warn("in_memory_tab_storage", slog.String("hint", "set REDIS_URL when running more than one replica"))
	}

	sessions := session.NewManager(storage, session.NewSlices(cfg.SliceCapacity), cfg.SessionTTL, log)

	// ── 4. Remote API ─────────────────────────────────────────────────────
	client, err := gateway.NewClient(gateway.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  log,
	})
	must(log, err, "build api client")

	// ── 5. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckUpstream: client.Ping,
		CheckCache:    checkCache,
	}, log)

	// ── 6. Screens ────────────────────────────────────────────────────────
	renderer, err := web.NewRenderer()
	must(log, err, "parse templates")

	screens := web.NewHandler(
		client,
		async.NewRunner(tracker, cfg.OperationLockTTL, log),
		web.NewNotices(storage, cfg.SessionTTL),
		renderer,
		web.Limits{MaxUploadBytes: cfg.MaxUploadBytes, MultipartMemory: cfg.MultipartMemory},
	)

	var blockKey []byte
	if cfg.SessionBlockKey != "" {
		blockKey = []byte(cfg.SessionBlockKey)
	}

	proxies, err := middleware.NewProxyTrust(cfg.TrustedProxies)
	must(log, err, "parse trusted proxies")

	limiter := middleware.NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	go limiter.Janitor(workerCtx)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, api.Chain{
		Proxies:  proxies,
		Limiter:  limiter,
		Tabs:     middleware.NewTabCookies([]byte(cfg.SessionSecret), blockKey, cfg.IsProduction()),
		Sessions: sessions,
	}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Web:       screens,
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Uploads may still be streaming; give them the full window.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
