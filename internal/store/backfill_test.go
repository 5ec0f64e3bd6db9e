package store

import "testing"

func TestLabelMatchesCanonicalMap(t *testing.T) {
	tests := []struct {
		statName   string
		matchLabel string
		want       bool
	}{
		{"UEFA Europa League", "Europa Lg", true},
		{"UEFA Champions League", "Champions Lg", true},
		{"UEFA Europa Conference League", "Conf Lg", true},
		{"UEFA Europa League", "Champions Lg", false},
		{"UEFA Nations League", "Nations League", true},
	}
	for _, tt := range tests {
		if got := labelMatches(tt.statName, tt.matchLabel); got != tt.want {
			t.Errorf("labelMatches(%q, %q) = %v, want %v",
				tt.statName, tt.matchLabel, got, tt.want)
		}
	}
}

func TestLabelMatchesSubstringFallback(t *testing.T) {
	tests := []struct {
		statName   string
		matchLabel string
		want       bool
	}{
		// Not in the canonical map; falls back to substring.
		{"La Liga", "La Liga", true},
		{"Premier League", "premier league", true},
		{"Copa del Rey", "Copa del Rey", true},
		{"Serie A", "Coppa Italia", false},
		{"", "La Liga", false},
		{"La Liga", "", false},
	}
	for _, tt := range tests {
		if got := labelMatches(tt.statName, tt.matchLabel); got != tt.want {
			t.Errorf("labelMatches(%q, %q) = %v, want %v",
				tt.statName, tt.matchLabel, got, tt.want)
		}
	}
}
