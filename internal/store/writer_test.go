package store

import (
	"testing"
	"time"

	"github.com/bgabor/legiostat/internal/model"
	"github.com/bgabor/legiostat/internal/season"
)

func fieldStat(label, compType, compName string) model.CompetitionStat {
	return model.CompetitionStat{
		Season:          label,
		CompetitionType: model.CompetitionType(compType),
		CompetitionName: compName,
	}
}

func TestFilterFieldStatsIncrementalScope(t *testing.T) {
	scope := []season.Season{season.FromStartYear(2025)}
	in := []model.CompetitionStat{
		fieldStat("2022-2023", "LEAGUE", "La Liga"),
		fieldStat("2025-2026", "LEAGUE", "La Liga"),
		fieldStat("2025/2026", "DOMESTIC_CUP", "Copa del Rey"),
		fieldStat("2025", "NATIONAL_TEAM", "UEFA Euro Qualifying"),
		fieldStat("2024", "NATIONAL_TEAM", "Nations League"),
	}

	got := filterFieldStats(in, scope, false)
	if len(got) != 3 {
		t.Fatalf("kept %d rows, want 3 (both span forms plus the calendar-year national row)", len(got))
	}
	for _, r := range got {
		if r.Season == "2022-2023" || r.Season == "2024" {
			t.Errorf("out-of-scope season %q kept", r.Season)
		}
	}
}

func TestFilterFieldStatsFullKeepsEverything(t *testing.T) {
	in := []model.CompetitionStat{
		fieldStat("2019-2020", "LEAGUE", "Serie A"),
		fieldStat("2025-2026", "LEAGUE", "Serie A"),
	}
	if got := filterFieldStats(in, []season.Season{season.FromStartYear(2025)}, true); len(got) != 2 {
		t.Errorf("full sync kept %d rows, want all", len(got))
	}
}

func TestFilterFieldStatsFullKeepsNationalRowsOutsideScope(t *testing.T) {
	// A national-team calendar year with no club span starting that year
	// never appears in a span-derived scope. Full mode must keep the row
	// anyway; the wholesale delete clears its stored counterpart.
	in := []model.CompetitionStat{
		fieldStat("2020-2021", "LEAGUE", "Bundesliga"),
		fieldStat("2019", "NATIONAL_TEAM", "UEFA Euro Qualifying"),
	}
	scope := []season.Season{season.FromStartYear(2020)}

	if got := filterFieldStats(in, scope, true); len(got) != 2 {
		t.Errorf("full mode kept %d rows, want both", len(got))
	}
	if got := filterFieldStats(in, scope, false); len(got) != 1 {
		t.Errorf("incremental kept %d rows, want only the scoped span", len(got))
	}
}

func TestFilterMatchesUsesDateWindows(t *testing.T) {
	scope := []season.Season{season.FromStartYear(2025)}
	mk := func(y int, m time.Month, d int) model.PlayerMatch {
		return model.PlayerMatch{
			MatchDate:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Competition: "La Liga",
			Opponent:    "X",
		}
	}
	in := []model.PlayerMatch{
		mk(2025, time.June, 30),    // last day of 2024-2025
		mk(2025, time.July, 1),     // first day of 2025-2026
		mk(2026, time.January, 10), // mid-season, straddled year
		mk(2026, time.June, 30),    // last day of 2025-2026
		mk(2026, time.July, 1),     // next season
	}

	got := filterMatches(in, scope, false)
	if len(got) != 3 {
		t.Fatalf("kept %d matches, want 3", len(got))
	}
	for _, m := range got {
		if m.MatchDate.Year() == 2025 && m.MatchDate.Month() == time.June {
			t.Error("match before July 1 leaked into scope")
		}
	}
}

func TestDedupeMatches(t *testing.T) {
	date := time.Date(2025, time.September, 14, 0, 0, 0, 0, time.UTC)
	a := model.PlayerMatch{MatchDate: date, Competition: "La Liga", Opponent: "Sevilla", Goals: 1}
	b := model.PlayerMatch{MatchDate: date, Competition: "La Liga", Opponent: "Sevilla", Goals: 1, Shots: 4}
	c := model.PlayerMatch{MatchDate: date, Competition: "Copa del Rey", Opponent: "Sevilla"}

	got := dedupeMatches([]model.PlayerMatch{a, b, c})
	if len(got) != 2 {
		t.Fatalf("deduped to %d rows, want 2", len(got))
	}
	// First occurrence wins.
	if got[0].Shots != 0 {
		t.Error("dedupe should keep the first occurrence")
	}
}

func TestDedupeFieldStats(t *testing.T) {
	in := []model.CompetitionStat{
		fieldStat("2025-2026", "EUROPEAN_CUP", "UEFA Europa League"),
		fieldStat("2025-2026", "EUROPEAN_CUP", "UEFA Europa League"),
		fieldStat("2025-2026", "EUROPEAN_CUP", "UEFA Conference League"),
	}
	if got := dedupeFieldStats(in); len(got) != 2 {
		t.Errorf("deduped to %d rows, want 2 distinct competition names", len(got))
	}
}
