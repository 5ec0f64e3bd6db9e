package scrape

import (
	"testing"

	"github.com/bgabor/legiostat/internal/model"
)

func TestSectionCompetitionType(t *testing.T) {
	tests := []struct {
		sec  Section
		want model.CompetitionType
	}{
		{SectionDomesticLeague, model.League},
		{SectionDomesticCup, model.DomesticCup},
		{SectionInternational, model.EuropeanCup},
		{SectionNationalTeam, model.NationalTeam},
	}
	for _, tt := range tests {
		if got := tt.sec.CompetitionType(); got != tt.want {
			t.Errorf("%s -> %s, want %s", tt.sec, got, tt.want)
		}
	}
}

func TestSectionTableID(t *testing.T) {
	if got := SectionDomesticLeague.TableID(KindPlayingTime); got != "stats_playing_time_dom_lg" {
		t.Errorf("TableID = %q", got)
	}
	if got := SectionNationalTeam.TableID(KindStandard); got != "stats_standard_nat_tm" {
		t.Errorf("TableID = %q", got)
	}
}

func TestBuildStatRowsSeasonForms(t *testing.T) {
	rows := []MergedRow{{Season: "2025/2026", Competition: "UEFA Europa League", Games: 6}}

	// Club sections normalize to the canonical span.
	field, keeper, errs := BuildStatRows(SectionInternational, rows, false)
	if len(errs) != 0 {
		t.Fatalf("errs: %v", errs)
	}
	if len(keeper) != 0 {
		t.Error("field player must not yield keeper rows")
	}
	if len(field) != 1 || field[0].Season != "2025-2026" {
		t.Fatalf("field rows: %+v", field)
	}
	if field[0].CompetitionType != model.EuropeanCup {
		t.Errorf("type = %s", field[0].CompetitionType)
	}

	// National-team rows rewrite to calendar-year form.
	natRows := []MergedRow{{Season: "2025-2026", Competition: "World Cup Qualifiers", Games: 4}}
	field, _, errs = BuildStatRows(SectionNationalTeam, natRows, false)
	if len(errs) != 0 {
		t.Fatalf("errs: %v", errs)
	}
	if field[0].Season != "2025" {
		t.Errorf("national team season = %q, want 2025", field[0].Season)
	}
}

func TestBuildStatRowsGoalkeeper(t *testing.T) {
	rows := []MergedRow{{
		Season: "2024-2025", Competition: "Serie A",
		Games: 30, Minutes: 2700, GoalsAgainst: 28, Saves: 90,
	}}
	field, keeper, errs := BuildStatRows(SectionDomesticLeague, rows, true)
	if len(errs) != 0 {
		t.Fatalf("errs: %v", errs)
	}
	if len(field) != 0 {
		t.Error("goalkeeper must not yield field rows")
	}
	if len(keeper) != 1 || keeper[0].GoalsAgainst != 28 || keeper[0].Minutes != 2700 {
		t.Fatalf("keeper rows: %+v", keeper)
	}
}

func TestBuildStatRowsDropsBadSeasons(t *testing.T) {
	rows := []MergedRow{
		{Season: "Career", Competition: "La Liga"},
		{Season: "2024-2025", Competition: "La Liga", Games: 12},
	}
	field, _, errs := BuildStatRows(SectionDomesticLeague, rows, false)
	if len(errs) != 1 {
		t.Errorf("errs = %v, want exactly one", errs)
	}
	if len(field) != 1 {
		t.Errorf("field rows = %d, want the valid one kept", len(field))
	}
}
