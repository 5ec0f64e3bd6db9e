package scrape

import (
	"testing"
)

const statsPageHTML = `
<html><body>
<div id="all_stats_standard">
<table id="stats_standard_dom_lg">
  <thead><tr><th data-stat="season">Season</th></tr></thead>
  <tbody>
    <tr>
      <th data-stat="season">2024-2025</th>
      <td data-stat="comp">La Liga</td>
      <td data-stat="games">34</td>
      <td data-stat="games_starts">30</td>
      <td data-stat="minutes">2,712</td>
      <td data-stat="goals">11</td>
      <td data-stat="assists">5</td>
      <td data-stat="xg">9.4</td>
      <td data-stat="npxg">8.1</td>
      <td data-stat="xg_assist">4.2</td>
      <td data-stat="pens_made">2</td>
      <td data-stat="cards_yellow">4</td>
      <td data-stat="cards_red"></td>
    </tr>
    <tr class="thead"><th data-stat="season">Season</th></tr>
    <tr>
      <th data-stat="season">2 Seasons</th>
      <td data-stat="comp"></td>
      <td data-stat="games">60</td>
    </tr>
  </tbody>
</table>
</div>
<div id="all_stats_shooting">
<!--
<table id="stats_shooting_dom_lg">
  <tbody>
    <tr>
      <th data-stat="season">2024-2025</th>
      <td data-stat="comp">La Liga</td>
      <td data-stat="shots">78</td>
      <td data-stat="shots_on_target">31</td>
      <td data-stat="xg">9.6</td>
      <td data-stat="npxg">8.3</td>
    </tr>
  </tbody>
</table>
-->
</div>
</body></html>`

func TestParseTablesFindsCommentedTables(t *testing.T) {
	tables, err := ParseTables(statsPageHTML, []string{
		"stats_standard_dom_lg",
		"stats_shooting_dom_lg",
		"stats_standard_intl_cup", // absent: player has no European section
	})
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}

	standard := tables["stats_standard_dom_lg"]
	if len(standard) != 1 {
		t.Fatalf("standard rows = %d, want 1 (header and totals rows skipped)", len(standard))
	}

	shooting := tables["stats_shooting_dom_lg"]
	if len(shooting) != 1 {
		t.Fatalf("commented shooting table not parsed: rows = %d", len(shooting))
	}
	if got, _ := shooting[0]["shots"].Int(); got != 78 {
		t.Errorf("shots = %d, want 78", got)
	}

	if _, ok := tables["stats_standard_intl_cup"]; ok {
		t.Error("absent table should yield no entry")
	}
}

func TestParseTablesLenientNumerics(t *testing.T) {
	tables, err := ParseTables(statsPageHTML, []string{"stats_standard_dom_lg"})
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}
	row := tables["stats_standard_dom_lg"][0]

	if minutes, ok := row["minutes"].Int(); !ok || minutes != 2712 {
		t.Errorf("comma-grouped minutes = %d (ok=%v), want 2712", minutes, ok)
	}
	if _, ok := row["cards_red"].Int(); ok {
		t.Error("empty cell should parse as null, not zero")
	}
	if xg, ok := row["xg"].Float(); !ok || xg != 9.4 {
		t.Errorf("xg = %v (ok=%v), want 9.4", xg, ok)
	}
}

func TestParseTablesIsPure(t *testing.T) {
	ids := []string{"stats_standard_dom_lg", "stats_shooting_dom_lg"}
	a, err := ParseTables(statsPageHTML, ids)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseTables(statsPageHTML, ids)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("repeated parse differs: %d vs %d tables", len(a), len(b))
	}
	for id := range a {
		if len(a[id]) != len(b[id]) {
			t.Errorf("table %s: %d vs %d rows", id, len(a[id]), len(b[id]))
		}
	}
}

const matchlogHTML = `
<html><body>
<table id="matchlogs_all">
  <tbody>
    <tr>
      <th data-stat="date">2025-09-14</th>
      <td data-stat="comp">La Liga</td>
      <td data-stat="round">Matchweek 4</td>
      <td data-stat="venue">Away</td>
      <td data-stat="opponent">Sevilla</td>
      <td data-stat="result">W 2-1</td>
      <td data-stat="minutes">90</td>
      <td data-stat="goals">1</td>
      <td data-stat="assists">0</td>
      <td data-stat="shots">3</td>
      <td data-stat="shots_on_target">2</td>
      <td data-stat="xg">0.7</td>
      <td data-stat="xg_assist">0.1</td>
      <td data-stat="passes_completed">41</td>
      <td data-stat="passes">52</td>
      <td data-stat="passes_pct">78.8</td>
    </tr>
    <tr>
      <th data-stat="date"></th>
      <td data-stat="comp">La Liga</td>
      <td data-stat="opponent">On matchday squad, but did not play</td>
    </tr>
    <tr>
      <th data-stat="date">2025-09-18</th>
      <td data-stat="comp">Champions Lg</td>
      <td data-stat="round">League phase</td>
      <td data-stat="venue">Home</td>
      <td data-stat="opponent">Ajax</td>
      <td data-stat="result">D 1-1</td>
      <td data-stat="minutes">73</td>
      <td data-stat="goals">0</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestParseMatchlog(t *testing.T) {
	matches, err := ParseMatchlog("http://test/matchlogs", matchlogHTML)
	if err != nil {
		t.Fatalf("ParseMatchlog: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2 (dateless separator skipped)", len(matches))
	}

	m := matches[0]
	if m.MatchDate.Format("2006-01-02") != "2025-09-14" {
		t.Errorf("date = %s", m.MatchDate)
	}
	if m.Venue != "Away" || m.Opponent != "Sevilla" || m.Result != "W 2-1" {
		t.Errorf("row mismatch: %+v", m)
	}
	if m.MinutesPlayed != 90 || m.Goals != 1 || m.PassCompletionPct != 78.8 {
		t.Errorf("stats mismatch: %+v", m)
	}

	if matches[1].Competition != "Champions Lg" || matches[1].Venue != "Home" {
		t.Errorf("second row mismatch: %+v", matches[1])
	}
}

func TestParseMatchlogMissingTable(t *testing.T) {
	_, err := ParseMatchlog("http://test/matchlogs", "<html><body><p>nope</p></body></html>")
	if err == nil {
		t.Fatal("expected ParseError for missing matchlog table")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}
