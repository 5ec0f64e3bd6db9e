// Package scrape turns rendered source pages into a per-player dossier:
// parse the per-section stat tables, merge the parallel tables into one row
// per (season, competition), classify each row, and collect match logs.
package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bgabor/legiostat/internal/model"
)

// --------------------------------------------------------------------------
// Row and cell types
// --------------------------------------------------------------------------

// Cell is a single table cell, parsed lazily and leniently: empty text is
// null, thousands separators are stripped.
type Cell struct {
	Text string
}

// Int returns the cell as an integer. ok is false for empty or
// non-numeric cells.
func (c Cell) Int() (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(c.Text), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float returns the cell as a float. ok is false for empty or
// non-numeric cells.
func (c Cell) Float() (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(c.Text), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Row maps a column key (the cell's data-stat attribute) to its cell.
type Row map[string]Cell

func (r Row) text(key string) string {
	return strings.TrimSpace(r[key].Text)
}

func (r Row) intOr(key string, fallback int) int {
	if n, ok := r[key].Int(); ok {
		return n
	}
	return fallback
}

func (r Row) floatOr(key string, fallback float64) float64 {
	if f, ok := r[key].Float(); ok {
		return f
	}
	return fallback
}

// --------------------------------------------------------------------------
// Comment-table expansion
// --------------------------------------------------------------------------

// The source suppresses default rendering of secondary tables by shipping
// them inside HTML comments. Comments containing a table are unwrapped
// before the document is parsed; all other comments are left alone.
var htmlCommentRe = regexp.MustCompile(`(?s)<!--(.*?)-->`)

func expandCommentTables(html string) string {
	return htmlCommentRe.ReplaceAllStringFunc(html, func(m string) string {
		inner := m[4 : len(m)-3]
		if strings.Contains(inner, "<table") {
			return inner
		}
		return m
	})
}

// --------------------------------------------------------------------------
// Table parsing
// --------------------------------------------------------------------------

// aggregate footer rows carry a pseudo-season label instead of a real one.
var totalsLabelRe = regexp.MustCompile(`(?i)^(\d+\s+seasons?|career|total.*)$`)

// ParseTables extracts rows for each requested table id. Tables hidden in
// HTML comments are found too. Missing tables yield no entry (a player
// without European football has no international section). Header rows and
// aggregate footer rows are skipped. Parsing is pure: same input, same
// output.
func ParseTables(html string, tableIDs []string) (map[string][]Row, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(expandCommentTables(html)))
	if err != nil {
		return nil, newParseError("", "build document: "+err.Error(), html)
	}

	out := make(map[string][]Row, len(tableIDs))
	for _, id := range tableIDs {
		table := doc.Find("table#" + id)
		if table.Length() == 0 {
			continue
		}
		out[id] = parseTableRows(table)
	}
	return out, nil
}

func parseTableRows(table *goquery.Selection) []Row {
	var rows []Row
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if class, _ := tr.Attr("class"); strings.Contains(class, "thead") {
			return
		}

		row := make(Row)
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			key, ok := cell.Attr("data-stat")
			if !ok {
				return
			}
			row[key] = Cell{Text: strings.TrimSpace(cell.Text())}
		})
		if len(row) == 0 {
			return
		}

		// Aggregate footer rows repeat inside tbody on some pages.
		if label := row.text("season"); totalsLabelRe.MatchString(label) {
			return
		}
		rows = append(rows, row)
	})
	return rows
}

// --------------------------------------------------------------------------
// Matchlog parsing
// --------------------------------------------------------------------------

const matchlogTableID = "matchlogs_all"

// ParseMatchlog extracts one PlayerMatch per played match from a per-season
// matchlog page. Rows without a parseable date (header repeats, "On squad
// but did not play" separators) are skipped. PlayerID is left unset; the
// writer fills it.
func ParseMatchlog(pageURL, html string) ([]model.PlayerMatch, error) {
	tables, err := ParseTables(html, []string{matchlogTableID})
	if err != nil {
		return nil, err
	}
	rows, ok := tables[matchlogTableID]
	if !ok {
		return nil, newParseError(pageURL, "matchlog table missing", html)
	}

	var matches []model.PlayerMatch
	for _, row := range rows {
		dateText := row.text("date")
		if dateText == "" {
			continue
		}
		matchDate, err := time.Parse("2006-01-02", dateText)
		if err != nil {
			continue
		}

		m := model.PlayerMatch{
			MatchDate:         matchDate,
			Competition:       row.text("comp"),
			Round:             row.text("round"),
			Venue:             parseVenue(row.text("venue")),
			Opponent:          row.text("opponent"),
			Result:            row.text("result"),
			MinutesPlayed:     row.intOr("minutes", 0),
			Goals:             row.intOr("goals", 0),
			Assists:           row.intOr("assists", 0),
			Shots:             row.intOr("shots", 0),
			ShotsOnTarget:     row.intOr("shots_on_target", 0),
			XG:                row.floatOr("xg", 0),
			XA:                row.floatOr("xg_assist", 0),
			PassesCompleted:   row.intOr("passes_completed", 0),
			PassesAttempted:   row.intOr("passes", 0),
			PassCompletionPct: row.floatOr("passes_pct", 0),
			KeyPasses:         row.intOr("assisted_shots", 0),
			Tackles:           row.intOr("tackles", 0),
			Interceptions:     row.intOr("interceptions", 0),
			Blocks:            row.intOr("blocks", 0),
			Touches:           row.intOr("touches", 0),
			DribblesCompleted: row.intOr("take_ons_won", 0),
			Carries:           row.intOr("carries", 0),
			FoulsCommitted:    row.intOr("fouls", 0),
			FoulsDrawn:        row.intOr("fouled", 0),
			YellowCards:       row.intOr("cards_yellow", 0),
			RedCards:          row.intOr("cards_red", 0),
		}
		if m.Opponent == "" || m.Competition == "" {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func parseVenue(s string) model.Venue {
	if strings.EqualFold(s, "away") {
		return model.VenueAway
	}
	return model.VenueHome
}
