package sync

import (
	"strings"
	"testing"
	"time"
)

func TestReportSummaryCountsFailures(t *testing.T) {
	r := &Report{
		Kind:            JobStats,
		Started:         time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC),
		Finished:        time.Date(2026, time.March, 2, 6, 42, 10, 0, time.UTC),
		Attempted:       12,
		Succeeded:       10,
		StatsInserted:   80,
		MatchesInserted: 310,
		Failures: []Failure{
			{PlayerID: 3, PlayerName: "Dominik Szoboszlai", Reason: "fetch timed out"},
			{PlayerID: 7, PlayerName: "Milos Kerkez", Reason: "no stat tables"},
		},
	}

	if r.Failed() != 2 {
		t.Fatalf("Failed() = %d, want 2", r.Failed())
	}
	sum := r.Summary()
	for _, want := range []string{"job=stats", "attempted=12", "succeeded=10", "failed=2"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary %q missing %q", sum, want)
		}
	}
}

func TestReportSubjectReflectsOutcome(t *testing.T) {
	ok := &Report{Kind: JobMatchlogs, Attempted: 5, Succeeded: 5}
	if got := ok.Subject(); !strings.Contains(got, "ok") {
		t.Errorf("clean run subject %q should say ok", got)
	}

	bad := &Report{Kind: JobFull, Attempted: 5, Succeeded: 3,
		Failures: []Failure{{}, {}}}
	if got := bad.Subject(); !strings.Contains(got, "2 failed") {
		t.Errorf("failing run subject %q should carry the failure count", got)
	}
}

func TestReportBodyListsFailures(t *testing.T) {
	r := &Report{
		Kind:     JobStats,
		Failures: []Failure{{PlayerID: 9, PlayerName: "Roland Sallai", Reason: "ambiguous search"}},
	}
	body := r.Body()
	if !strings.Contains(body, "Roland Sallai") || !strings.Contains(body, "ambiguous search") {
		t.Errorf("body missing failure detail:\n%s", body)
	}
}
