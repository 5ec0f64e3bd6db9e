// Package sync runs roster-wide synchronization jobs: scrape each
// player, reconcile the dossier into the store, backfill minutes, and
// report the outcome. Jobs tolerate per-player failures and are fired
// either by the cron scheduler or the CLI.
package sync

import (
	"fmt"
	"strings"
	"time"
)

// JobKind identifies which job produced a report.
type JobKind string

const (
	JobStats     JobKind = "stats"
	JobMatchlogs JobKind = "matchlogs"
	JobFull      JobKind = "full"
	JobPlayer    JobKind = "player"
)

// Failure records one player the job could not sync.
type Failure struct {
	PlayerID   int
	PlayerName string
	Reason     string
}

// Report summarizes one job run. A job with failures still counts as
// completed; callers inspect Failed() to decide whether to alert.
type Report struct {
	Kind            JobKind
	Started         time.Time
	Finished        time.Time
	Attempted       int
	Succeeded       int
	StatsDeleted    int
	StatsInserted   int
	MatchesDeleted  int
	MatchesInserted int
	Repaired        int
	Failures        []Failure
}

// Failed returns the number of players that could not be synced.
func (r *Report) Failed() int { return len(r.Failures) }

// Summary returns a one-line summary for logs.
func (r *Report) Summary() string {
	return fmt.Sprintf("job=%s attempted=%d succeeded=%d failed=%d stats_inserted=%d matches_inserted=%d repaired=%d duration=%s",
		r.Kind, r.Attempted, r.Succeeded, r.Failed(),
		r.StatsInserted, r.MatchesInserted, r.Repaired,
		r.Finished.Sub(r.Started).Round(time.Second))
}

// Subject returns the notification subject line.
func (r *Report) Subject() string {
	status := "ok"
	if r.Failed() > 0 {
		status = fmt.Sprintf("%d failed", r.Failed())
	}
	return fmt.Sprintf("Legiostat %s sync: %d/%d players (%s)",
		r.Kind, r.Succeeded, r.Attempted, status)
}

// Body renders the report as a plain-text notification body.
func (r *Report) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job:       %s\n", r.Kind)
	fmt.Fprintf(&b, "Started:   %s\n", r.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "Finished:  %s\n", r.Finished.Format(time.RFC3339))
	fmt.Fprintf(&b, "Players:   %d attempted, %d succeeded, %d failed\n",
		r.Attempted, r.Succeeded, r.Failed())
	fmt.Fprintf(&b, "Stats:     %d deleted, %d inserted\n", r.StatsDeleted, r.StatsInserted)
	fmt.Fprintf(&b, "Matches:   %d deleted, %d inserted\n", r.MatchesDeleted, r.MatchesInserted)
	fmt.Fprintf(&b, "Backfill:  %d stat rows repaired\n", r.Repaired)

	if len(r.Failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  - %s (id %d): %s\n", f.PlayerName, f.PlayerID, f.Reason)
		}
	}
	return b.String()
}
