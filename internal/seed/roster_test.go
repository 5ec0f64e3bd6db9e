package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeRoster(t, `[
		{"name": "Dominik Szoboszlai", "team": "Liverpool", "league": "Premier League", "position": "MF", "nationality": "Hungary"},
		{"name": "Peter Gulacsi", "team": "RB Leipzig", "league": "Bundesliga", "position": "GK", "nationality": "Hungary", "is_goalkeeper": true, "external_id": "45c1565b"}
	]`)

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(entries))
	}
	if !entries[1].IsGoalkeeper {
		t.Error("goalkeeper flag lost")
	}
	if entries[1].ExternalID != "45c1565b" {
		t.Errorf("external id = %q", entries[1].ExternalID)
	}
}

func TestLoadFileRejectsMissingName(t *testing.T) {
	path := writeRoster(t, `[{"team": "Liverpool"}]`)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for entry without name")
	}
}

func TestLoadFileRejectsDuplicateNames(t *testing.T) {
	path := writeRoster(t, `[
		{"name": "Milos Kerkez"},
		{"name": "Milos Kerkez"}
	]`)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for duplicate names")
	}
}

func TestLoadFileRejectsMalformedJSON(t *testing.T) {
	path := writeRoster(t, `{"not": "an array"`)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
