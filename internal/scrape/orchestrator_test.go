package scrape

import (
	"testing"

	"github.com/bgabor/legiostat/internal/model"
)

func TestSeasonsFromStatsCollectsDistinctSpans(t *testing.T) {
	d := &Dossier{
		FieldStats: []model.CompetitionStat{
			{Season: "2020-2021", CompetitionType: model.League, CompetitionName: "Bundesliga"},
			{Season: "2019-2020", CompetitionType: model.League, CompetitionName: "Bundesliga"},
			{Season: "2020-2021", CompetitionType: model.DomesticCup, CompetitionName: "DFB-Pokal"},
		},
	}

	got := seasonsFromStats(d)
	if len(got) != 2 {
		t.Fatalf("derived %d seasons, want 2 distinct spans", len(got))
	}
	if got[0].StartYear != 2019 || got[1].StartYear != 2020 {
		t.Errorf("seasons not sorted by start year: %v, %v", got[0].Label(), got[1].Label())
	}
}

func TestSeasonsFromStatsSkipsCalendarYearRows(t *testing.T) {
	// A national-team calendar year with no club span starting that year
	// contributes nothing; the full-sync delete cannot rely on this scope
	// covering such rows.
	d := &Dossier{
		FieldStats: []model.CompetitionStat{
			{Season: "2020-2021", CompetitionType: model.League, CompetitionName: "Bundesliga"},
			{Season: "2019", CompetitionType: model.NationalTeam, CompetitionName: "UEFA Euro Qualifying"},
		},
	}

	got := seasonsFromStats(d)
	if len(got) != 1 {
		t.Fatalf("derived %d seasons, want 1", len(got))
	}
	if got[0].StartYear != 2020 {
		t.Errorf("kept season starts %d, want 2020", got[0].StartYear)
	}
}
