// Command sync is the Legiostat scrape-and-reconcile CLI.
//
// Usage:
//
//	legiostat-sync stats
//	legiostat-sync matchlogs
//	legiostat-sync full
//	legiostat-sync player --id 3 --full
//	legiostat-sync seed --file roster.json
//	legiostat-sync migrate
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bgabor/legiostat/internal/config"
	"github.com/bgabor/legiostat/internal/db"
	"github.com/bgabor/legiostat/internal/fetch"
	"github.com/bgabor/legiostat/internal/notify"
	"github.com/bgabor/legiostat/internal/scrape"
	"github.com/bgabor/legiostat/internal/seed"
	"github.com/bgabor/legiostat/internal/store"
	syncpkg "github.com/bgabor/legiostat/internal/sync"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "legiostat-sync",
		Short: "Legiostat scrape and reconcile CLI",
	}

	root.AddCommand(statsCmd())
	root.AddCommand(matchlogsCmd())
	root.AddCommand(fullCmd())
	root.AddCommand(playerCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Roster jobs
// --------------------------------------------------------------------------

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Refresh current-season stats and matches for the whole roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, runner *syncpkg.Runner) (*syncpkg.Report, error) {
				return runner.SyncStats(ctx)
			})
		},
	}
}

func matchlogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matchlogs",
		Short: "Refresh current-season match rows only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, runner *syncpkg.Runner) (*syncpkg.Report, error) {
				return runner.SyncMatchlogs(ctx)
			})
		},
	}
}

func fullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "full",
		Short: "Rebuild every player's entire history from the source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, runner *syncpkg.Runner) (*syncpkg.Report, error) {
				return runner.FullSync(ctx)
			})
		},
	}
}

func playerCmd() *cobra.Command {
	var (
		playerID int
		full     bool
	)
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Sync a single roster member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == 0 {
				return fmt.Errorf("--id is required")
			}
			return runJob(func(ctx context.Context, runner *syncpkg.Runner) (*syncpkg.Report, error) {
				return runner.SyncPlayer(ctx, playerID, full)
			})
		},
	}
	cmd.Flags().IntVar(&playerID, "id", 0, "Player ID to sync")
	cmd.Flags().BoolVar(&full, "full", false, "Rewrite the player's whole history")
	return cmd
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the roster file into the players table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				entries, err := seed.LoadFile(file)
				if err != nil {
					return err
				}
				result := seed.Apply(ctx, pool.Pool, entries, logger)
				logger.Info("Roster seed finished", "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("seed error", "error", e)
				}
				if len(result.Errors) > 0 {
					return fmt.Errorf("%d roster entries failed", len(result.Errors))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "roster.json", "Roster JSON file")
	return cmd
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := db.Migrate(ctx, pool.Pool); err != nil {
					return err
				}
				logger.Info("Schema applied")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runJob wires the scrape pipeline and executes one job, reporting the
// summary and exiting non-zero when any player failed.
func runJob(fn func(ctx context.Context, runner *syncpkg.Runner) (*syncpkg.Report, error)) error {
	return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
		st := store.New(pool.Pool, logger)
		fetcher := fetch.New(cfg.FetchDelay, cfg.FetchRetries, cfg.FetchTimeout, logger)
		orch := scrape.NewOrchestrator(fetcher, cfg.SourceBaseURL, logger)
		notifier := notify.NewSender(cfg.NotifierAPIKey, cfg.NotifierFrom, cfg.NotifierTo, logger)
		// No API cache lives in this process; the runner has nothing to
		// invalidate.
		runner := syncpkg.NewRunner(st, orch, fetcher, notifier, nil, logger)

		start := time.Now()
		report, err := fn(ctx, runner)
		if err != nil {
			return err
		}
		logger.Info("Job finished",
			"duration", time.Since(start).Round(time.Second),
			"summary", report.Summary())
		if report.Failed() > 0 {
			return fmt.Errorf("%d of %d players failed", report.Failed(), report.Attempted)
		}
		return nil
	})
}

// withPool handles config loading, DB connection, and context cancellation.
func withPool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
