package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bgabor/legiostat/internal/cache"
	"github.com/bgabor/legiostat/internal/fetch"
	"github.com/bgabor/legiostat/internal/model"
	"github.com/bgabor/legiostat/internal/notify"
	"github.com/bgabor/legiostat/internal/scrape"
	"github.com/bgabor/legiostat/internal/season"
	"github.com/bgabor/legiostat/internal/store"
)

// Runner executes sync jobs over the roster. Players are processed
// sequentially in id order; the fetch rate gate is the only pacing.
type Runner struct {
	store    *store.Store
	orch     *scrape.Orchestrator
	fetcher  *fetch.Fetcher
	notifier *notify.Sender
	cache    *cache.Cache
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunner creates a runner. notifier may be nil (no notifications);
// appCache may be nil when no API cache shares the process (the CLI).
func NewRunner(st *store.Store, orch *scrape.Orchestrator, fetcher *fetch.Fetcher, notifier *notify.Sender, appCache *cache.Cache, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:    st,
		orch:     orch,
		fetcher:  fetcher,
		notifier: notifier,
		cache:    appCache,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncStats refreshes current-season stats and matches for every player.
func (r *Runner) SyncStats(ctx context.Context) (*Report, error) {
	return r.runRoster(ctx, JobStats)
}

// SyncMatchlogs refreshes only current-season match rows for every
// player; stat rows are left untouched.
func (r *Runner) SyncMatchlogs(ctx context.Context) (*Report, error) {
	return r.runRoster(ctx, JobMatchlogs)
}

// FullSync replaces every player's entire stored history with whatever
// the source currently exposes.
func (r *Runner) FullSync(ctx context.Context) (*Report, error) {
	return r.runRoster(ctx, JobFull)
}

// SyncPlayer syncs a single roster member. full selects a full-history
// rewrite instead of the current-season refresh.
func (r *Runner) SyncPlayer(ctx context.Context, playerID int, full bool) (*Report, error) {
	p, err := r.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	op := JobStats
	if full {
		op = JobFull
	}

	report := &Report{Kind: JobPlayer, Started: r.now()}
	browser, err := r.fetcher.NewBrowser(ctx)
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}
	defer browser.Close()

	r.syncOne(ctx, browser, *p, op, report)
	report.Finished = r.now()
	r.finish(ctx, report)
	return report, nil
}

// runRoster drives one job across the whole roster. Per-player failures
// are recorded and the job moves on; only roster loading or browser
// startup abort the run. Cancellation is honored between players.
func (r *Runner) runRoster(ctx context.Context, kind JobKind) (*Report, error) {
	players, err := r.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Kind: kind, Started: r.now()}
	r.logger.Info("Sync job started", "job", kind, "players", len(players))

	browser, err := r.fetcher.NewBrowser(ctx)
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}
	defer browser.Close()

	for _, p := range players {
		if ctx.Err() != nil {
			r.logger.Warn("Sync job cancelled", "job", kind, "after", report.Attempted)
			break
		}
		r.syncOne(ctx, browser, p, kind, report)
	}

	report.Finished = r.now()
	r.finish(ctx, report)
	return report, nil
}

// syncOne scrapes, writes, and backfills one player, folding the outcome
// into the report.
func (r *Runner) syncOne(ctx context.Context, b *fetch.Browser, p model.Player, kind JobKind, report *Report) {
	report.Attempted++

	var (
		dossier *scrape.Dossier
		mode    store.Mode
		err     error
	)
	switch kind {
	case JobMatchlogs:
		scope := []season.Season{season.Current(r.now())}
		dossier, err = r.orch.ScrapeMatchlogs(ctx, b, p, scope)
		mode = store.MatchlogsOnly
	case JobFull:
		dossier, err = r.orch.ScrapePlayer(ctx, b, p, nil)
		mode = store.Full
	default:
		scope := []season.Season{season.Current(r.now())}
		dossier, err = r.orch.ScrapePlayer(ctx, b, p, scope)
		mode = store.Incremental
	}
	if err != nil {
		r.fail(report, p, err)
		return
	}

	wr, err := r.store.Write(ctx, &p, dossier, dossier.Seasons, mode)
	if err != nil {
		r.fail(report, p, err)
		return
	}
	report.StatsDeleted += wr.StatsDeleted
	report.StatsInserted += wr.StatsInserted
	report.MatchesDeleted += wr.MatchesDeleted
	report.MatchesInserted += wr.MatchesInserted

	repaired, err := r.store.BackfillMinutes(ctx, p.ID, p.IsGoalkeeper)
	if err != nil {
		// The write already landed; a backfill failure is not a sync
		// failure.
		r.logger.Warn("Backfill failed", "player_id", p.ID, "error", err)
	}
	report.Repaired += repaired
	report.Succeeded++
}

func (r *Runner) fail(report *Report, p model.Player, err error) {
	r.logger.Error("Player sync failed", "player_id", p.ID, "name", p.Name, "error", err)
	report.Failures = append(report.Failures, Failure{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Reason:     err.Error(),
	})
}

// finish drops cached API responses the job made stale, logs the
// summary, and hands the report to the notifier. The notifier call gets
// its own deadline so a cancelled job can still report.
func (r *Runner) finish(ctx context.Context, report *Report) {
	if r.cache != nil && (report.Succeeded > 0 || report.Repaired > 0) {
		dropped := r.cache.Invalidate("players:") + r.cache.Invalidate("stats:")
		r.logger.Info("Invalidated cached responses", "entries", dropped)
	}

	r.logger.Info("Sync job finished", "summary", report.Summary())

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := r.notifier.Send(nctx, report.Subject(), report.Body()); err != nil {
		r.logger.Warn("Notification failed", "error", err)
	}
}
