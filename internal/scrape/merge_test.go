package scrape

import "testing"

func row(pairs map[string]string) Row {
	r := make(Row, len(pairs))
	for k, v := range pairs {
		r[k] = Cell{Text: v}
	}
	return r
}

func TestMergeSectionPrecedence(t *testing.T) {
	tables := map[TableKind][]Row{
		KindStandard: {row(map[string]string{
			"season": "2025-2026", "comp": "La Liga",
			"games": "10", "games_starts": "8", "minutes": "",
			"goals": "4", "assists": "2", "xg": "3.1", "npxg": "2.8",
			"xg_assist": "1.5", "pens_made": "1",
			"shots": "0", "shots_on_target": "0",
			"cards_yellow": "2", "cards_red": "0",
		})},
		KindShooting: {row(map[string]string{
			"season": "2025-2026", "comp": "La Liga",
			"shots": "22", "shots_on_target": "9", "xg": "3.3", "npxg": "0",
		})},
		KindPlayingTime: {row(map[string]string{
			"season": "2025-2026", "comp": "La Liga",
			"minutes": "845", "games_starts": "9",
		})},
	}

	merged := MergeSection(tables)
	if len(merged) != 1 {
		t.Fatalf("merged rows = %d, want 1", len(merged))
	}
	m := merged[0]

	if m.Shots != 22 || m.ShotsOnTarget != 9 {
		t.Errorf("shooting overlay failed: shots=%d sot=%d", m.Shots, m.ShotsOnTarget)
	}
	if m.XG != 3.3 {
		t.Errorf("positive shooting xg should win: %v", m.XG)
	}
	if m.NPxG != 2.8 {
		t.Errorf("zero shooting npxg must not clobber standard: %v", m.NPxG)
	}
	// playing_time is authoritative for minutes in league rows where the
	// standard table omits the column.
	if m.Minutes != 845 {
		t.Errorf("minutes = %d, want 845 from playing_time", m.Minutes)
	}
	if m.GamesStarts != 9 {
		t.Errorf("games_starts = %d, want 9 from playing_time", m.GamesStarts)
	}
	if m.PenaltyGoals == nil || *m.PenaltyGoals != 1 {
		t.Errorf("penalty goals = %v, want 1", m.PenaltyGoals)
	}
}

func TestMergeSectionKeeperMinutesPreserveRule(t *testing.T) {
	tables := map[TableKind][]Row{
		KindStandard: {row(map[string]string{
			"season": "2025-2026", "comp": "Bundesliga",
			"games": "14", "games_starts": "14", "minutes": "1260",
		})},
		KindKeeper: {row(map[string]string{
			"season": "2025-2026", "comp": "Bundesliga",
			"minutes": "", // keeper tables frequently omit minutes
			"gk_goals_against": "15", "gk_saves": "41",
			"gk_save_pct": "73.2", "gk_clean_sheets": "5",
			"gk_wins": "7", "gk_ties": "3", "gk_losses": "4",
		})},
	}

	merged := MergeSection(tables)
	if len(merged) != 1 {
		t.Fatalf("merged rows = %d, want 1", len(merged))
	}
	m := merged[0]

	if m.Minutes != 1260 {
		t.Errorf("empty keeper minutes must keep standard value: %d", m.Minutes)
	}
	if m.GoalsAgainst != 15 || m.Saves != 41 || m.CleanSheets != 5 {
		t.Errorf("keeper overlay failed: %+v", m)
	}
	if m.Wins != 7 || m.Draws != 3 || m.Losses != 4 {
		t.Errorf("record overlay failed: %+v", m)
	}
}

func TestMergeSectionKeepsDistinctCompetitions(t *testing.T) {
	// A single European campaign can span two competition labels
	// (league-phase Europa plus Conference qualification).
	tables := map[TableKind][]Row{
		KindStandard: {
			row(map[string]string{"season": "2025-2026", "comp": "Europa Lg", "games": "6", "minutes": "540"}),
			row(map[string]string{"season": "2025-2026", "comp": "Conf Lg", "games": "2", "minutes": "180"}),
		},
	}

	merged := MergeSection(tables)
	if len(merged) != 2 {
		t.Fatalf("merged rows = %d, want 2 distinct competitions", len(merged))
	}
	if merged[0].Competition == merged[1].Competition {
		t.Error("competition labels collapsed")
	}
}

func TestMergeSectionDropsUnkeyedRows(t *testing.T) {
	tables := map[TableKind][]Row{
		KindStandard: {row(map[string]string{"season": "", "comp": "", "games": "3"})},
	}
	if merged := MergeSection(tables); len(merged) != 0 {
		t.Errorf("rows without (season, comp) key should be dropped, got %d", len(merged))
	}
}
