package season

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		label   string
		want    Season
		wantErr bool
	}{
		{"2025-2026", Season{Seasonal, 2025, 2026}, false},
		{"2025/2026", Season{Seasonal, 2025, 2026}, false},
		{"2025", Season{CalendarYear, 2025, 2025}, false},
		{" 2024-2025 ", Season{Seasonal, 2024, 2025}, false},
		{"2025-2027", Season{}, true}, // non-contiguous
		{"25-26", Season{}, true},
		{"", Season{}, true},
		{"current", Season{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.label)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %+v", tt.label, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.label, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.label, got, tt.want)
		}
	}
}

func TestCurrentRollsOverJulyFirst(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{date(2026, time.June, 30), "2025-2026"},
		{date(2026, time.July, 1), "2026-2027"},
		{date(2025, time.December, 31), "2025-2026"},
		{date(2026, time.January, 1), "2025-2026"},
	}
	for _, tt := range tests {
		if got := Current(tt.now).Label(); got != tt.want {
			t.Errorf("Current(%s) = %s, want %s", tt.now.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestVariants(t *testing.T) {
	s := Season{Seasonal, 2025, 2026}
	got := s.Variants()
	want := []string{"2025-2026", "2025/2026", "2025"}
	if len(got) != len(want) {
		t.Fatalf("Variants() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Variants()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Calendar-year seasons admit only themselves.
	ny := Season{CalendarYear, 2025, 2025}
	if v := ny.Variants(); len(v) != 1 || v[0] != "2025" {
		t.Errorf("calendar Variants() = %v, want [2025]", v)
	}
}

func TestDateWindow(t *testing.T) {
	s := Season{Seasonal, 2025, 2026}
	start, end := s.DateWindow()
	if !start.Equal(date(2025, time.July, 1)) {
		t.Errorf("start = %s, want 2025-07-01", start.Format("2006-01-02"))
	}
	if !end.Equal(date(2026, time.June, 30)) {
		t.Errorf("end = %s, want 2026-06-30", end.Format("2006-01-02"))
	}

	ny := Season{CalendarYear, 2025, 2025}
	start, end = ny.DateWindow()
	if !start.Equal(date(2025, time.January, 1)) || !end.Equal(date(2025, time.December, 31)) {
		t.Errorf("calendar window = [%s, %s]", start, end)
	}
}

func TestContainsStraddlesYearBoundary(t *testing.T) {
	s := Season{Seasonal, 2025, 2026}
	in := []time.Time{
		date(2025, time.July, 1),
		date(2025, time.December, 31),
		date(2026, time.January, 1),
		date(2026, time.June, 30),
	}
	out := []time.Time{
		date(2025, time.June, 30),
		date(2026, time.July, 1),
	}
	for _, d := range in {
		if !s.Contains(d) {
			t.Errorf("Contains(%s) = false, want true", d.Format("2006-01-02"))
		}
	}
	for _, d := range out {
		if s.Contains(d) {
			t.Errorf("Contains(%s) = true, want false", d.Format("2006-01-02"))
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025/2026", "2025-2026", false},
		{"2025-2026", "2025-2026", false},
		{"2025-26", "2025-2026", false},
		{"2025", "2025", false},
		{"garbage", "", true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Normalize(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
