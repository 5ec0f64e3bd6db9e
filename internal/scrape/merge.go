package scrape

// The source publishes up to four parallel tables per section — standard,
// shooting, playing time, goalkeeping — covering the same
// (season, competition) universe. The merger stitches them into one record
// per tuple.

// TableKind names the four parallel table families within a section.
type TableKind string

const (
	KindStandard    TableKind = "standard"
	KindShooting    TableKind = "shooting"
	KindPlayingTime TableKind = "playing_time"
	KindKeeper      TableKind = "keeper"
)

// MergedRow is the merged per-(season, competition) record of one section,
// not yet classified. Season carries the raw source label.
type MergedRow struct {
	Season      string
	Competition string

	Games         int
	GamesStarts   int
	Minutes       int
	Goals         int
	Assists       int
	XG            float64
	NPxG          float64
	XA            float64
	PenaltyGoals  *int
	Shots         int
	ShotsOnTarget int
	YellowCards   int
	RedCards      int

	// Goalkeeper overlay, populated from the keeper table.
	GoalsAgainst         int
	GoalsAgainstPer90    float64
	ShotsOnTargetAgainst int
	Saves                int
	SavePercentage       float64
	CleanSheets          int
	CleanSheetPercentage float64
	Wins                 int
	Draws                int
	Losses               int
	PenaltiesAttempted   int
	PenaltiesAllowed     int
	PenaltiesSaved       int
	PenaltiesMissed      int
}

type mergeKey struct {
	season      string
	competition string
}

// MergeSection combines the parallel table rows of one section into one
// MergedRow per (season, competition). Precedence:
//
//  1. the standard table seeds every field it carries;
//  2. shooting overlays shots, shots on target, xG and npxG when positive;
//  3. playing time overlays minutes and starts when positive — it is the
//     authoritative minutes source for league rows, where the standard
//     table omits the column;
//  4. the keeper table overlays all goalkeeper fields, except that a zero
//     or empty keeper minutes cell never clobbers a positive value from
//     the standard table.
func MergeSection(tables map[TableKind][]Row) []MergedRow {
	var order []mergeKey
	merged := make(map[mergeKey]*MergedRow)

	get := func(row Row) *MergedRow {
		key := mergeKey{row.text("season"), row.text("comp")}
		if m, ok := merged[key]; ok {
			return m
		}
		m := &MergedRow{Season: key.season, Competition: key.competition}
		merged[key] = m
		order = append(order, key)
		return m
	}

	for _, row := range tables[KindStandard] {
		m := get(row)
		m.Games = row.intOr("games", 0)
		m.GamesStarts = row.intOr("games_starts", 0)
		m.Minutes = row.intOr("minutes", 0)
		m.Goals = row.intOr("goals", 0)
		m.Assists = row.intOr("assists", 0)
		m.XG = row.floatOr("xg", 0)
		m.NPxG = row.floatOr("npxg", 0)
		m.XA = row.floatOr("xg_assist", 0)
		if pens, ok := row["pens_made"].Int(); ok {
			m.PenaltyGoals = &pens
		}
		m.Shots = row.intOr("shots", 0)
		m.ShotsOnTarget = row.intOr("shots_on_target", 0)
		m.YellowCards = row.intOr("cards_yellow", 0)
		m.RedCards = row.intOr("cards_red", 0)
	}

	for _, row := range tables[KindShooting] {
		m := get(row)
		if v := row.intOr("shots", 0); v > 0 {
			m.Shots = v
		}
		if v := row.intOr("shots_on_target", 0); v > 0 {
			m.ShotsOnTarget = v
		}
		if v := row.floatOr("xg", 0); v > 0 {
			m.XG = v
		}
		if v := row.floatOr("npxg", 0); v > 0 {
			m.NPxG = v
		}
	}

	for _, row := range tables[KindPlayingTime] {
		m := get(row)
		if v := row.intOr("minutes", 0); v > 0 {
			m.Minutes = v
		}
		if v := row.intOr("games_starts", 0); v > 0 {
			m.GamesStarts = v
		}
	}

	for _, row := range tables[KindKeeper] {
		m := get(row)
		if m.Games == 0 {
			m.Games = row.intOr("gk_games", 0)
		}
		if m.GamesStarts == 0 {
			m.GamesStarts = row.intOr("gk_games_starts", 0)
		}
		// Keeper tables frequently omit minutes; keep the standard
		// table's positive value in that case.
		if v := row.intOr("minutes", 0); v > 0 {
			m.Minutes = v
		}
		m.GoalsAgainst = row.intOr("gk_goals_against", 0)
		m.GoalsAgainstPer90 = row.floatOr("gk_goals_against_per90", 0)
		m.ShotsOnTargetAgainst = row.intOr("gk_shots_on_target_against", 0)
		m.Saves = row.intOr("gk_saves", 0)
		m.SavePercentage = row.floatOr("gk_save_pct", 0)
		m.CleanSheets = row.intOr("gk_clean_sheets", 0)
		m.CleanSheetPercentage = row.floatOr("gk_clean_sheets_pct", 0)
		m.Wins = row.intOr("gk_wins", 0)
		m.Draws = row.intOr("gk_ties", 0)
		m.Losses = row.intOr("gk_losses", 0)
		m.PenaltiesAttempted = row.intOr("gk_pens_att", 0)
		m.PenaltiesAllowed = row.intOr("gk_pens_allowed", 0)
		m.PenaltiesSaved = row.intOr("gk_pens_saved", 0)
		m.PenaltiesMissed = row.intOr("gk_pens_missed", 0)
	}

	out := make([]MergedRow, 0, len(order))
	for _, key := range order {
		if key.season == "" || key.competition == "" {
			continue
		}
		out = append(out, *merged[key])
	}
	return out
}
