// Command api is the Legiostat API server.
//
// Usage:
//
//	legiostat-api
//	API_PORT=8080 legiostat-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/bgabor/legiostat/internal/api"
	"github.com/bgabor/legiostat/internal/cache"
	"github.com/bgabor/legiostat/internal/config"
	"github.com/bgabor/legiostat/internal/db"
	"github.com/bgabor/legiostat/internal/fetch"
	"github.com/bgabor/legiostat/internal/notify"
	"github.com/bgabor/legiostat/internal/scrape"
	"github.com/bgabor/legiostat/internal/store"
	syncpkg "github.com/bgabor/legiostat/internal/sync"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug && !cfg.IsProduction() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	st := store.New(pool.Pool, logger)

	// Scheduler fires the roster sync jobs in-process when enabled.
	var scheduler *syncpkg.Scheduler
	if cfg.SchedulerEnabled {
		fetcher := fetch.New(cfg.FetchDelay, cfg.FetchRetries, cfg.FetchTimeout, logger)
		orch := scrape.NewOrchestrator(fetcher, cfg.SourceBaseURL, logger)
		notifier := notify.NewSender(cfg.NotifierAPIKey, cfg.NotifierFrom, cfg.NotifierTo, logger)
		runner := syncpkg.NewRunner(st, orch, fetcher, notifier, appCache, logger)

		scheduler, err = syncpkg.NewScheduler(runner,
			cfg.SchedulerTimezone, cfg.StatsCronSpec, cfg.MatchlogsCronSpec,
			cfg.JobTimeout, logger)
		if err != nil {
			logger.Error("Failed to build scheduler", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		logger.Info("Scheduler disabled (SCHEDULER_ENABLED=false)")
	}

	router := api.NewRouter(pool, st, appCache, cfg, scheduler)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Legiostat API",
			"addr", addr,
			"environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
