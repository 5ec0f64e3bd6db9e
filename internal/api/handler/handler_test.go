package handler

import (
	"net/url"
	"testing"

	"github.com/bgabor/legiostat/internal/season"
)

func TestParseMatchFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "empty", query: ""},
		{name: "span season", query: "season=2025-2026"},
		{name: "slash season", query: "season=2025/2026"},
		{name: "calendar season", query: "season=2025"},
		{name: "bad season", query: "season=25-26x", wantErr: true},
		{name: "non-contiguous span", query: "season=2025-2027", wantErr: true},
		{name: "competition and limit", query: "competition=La+Liga&limit=5"},
		{name: "zero limit", query: "limit=0", wantErr: true},
		{name: "negative limit", query: "limit=-3", wantErr: true},
		{name: "garbage limit", query: "limit=ten", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			_, err = parseMatchFilter(q)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseMatchFilter(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestParseMatchFilterSeasonWindow(t *testing.T) {
	q, _ := url.ParseQuery("season=2025-2026")
	f, err := parseMatchFilter(q)
	if err != nil {
		t.Fatal(err)
	}
	if f.Season == nil {
		t.Fatal("season filter not set")
	}
	start, end := f.Season.DateWindow()
	if start.Month() != 7 || start.Day() != 1 || start.Year() != 2025 {
		t.Errorf("window start = %s, want 2025-07-01", start.Format("2006-01-02"))
	}
	if end.Month() != 6 || end.Day() != 30 || end.Year() != 2026 {
		t.Errorf("window end = %s, want 2026-06-30", end.Format("2006-01-02"))
	}
}

func TestSeasonOrCurrent(t *testing.T) {
	sn, err := seasonOrCurrent("")
	if err != nil {
		t.Fatal(err)
	}
	if sn.Kind != season.Seasonal {
		t.Error("default season should be the seasonal span")
	}

	sn, err = seasonOrCurrent("2023-2024")
	if err != nil {
		t.Fatal(err)
	}
	if sn.Label() != "2023-2024" {
		t.Errorf("Label() = %q, want 2023-2024", sn.Label())
	}

	if _, err := seasonOrCurrent("not-a-season"); err == nil {
		t.Error("expected error for malformed season")
	}
}

func TestStatCatalogsAreDisjointWherePositionsDiffer(t *testing.T) {
	keeperOnly := map[string]bool{}
	for _, s := range keeperStatCatalog {
		keeperOnly[s.Name] = true
	}
	for _, s := range fieldStatCatalog {
		switch s.Name {
		case "goals_against", "saves", "clean_sheets":
			t.Errorf("field catalog carries goalkeeper stat %q", s.Name)
		}
	}
	if !keeperOnly["save_percentage"] {
		t.Error("keeper catalog missing save_percentage")
	}
}
