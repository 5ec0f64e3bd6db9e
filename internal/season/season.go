// Package season implements the structured season value used by filters and
// the reconciliation writer. A season is either a split-year span (club
// competitions, July 1 through June 30) or a single calendar year (national
// team competitions). All date-range and string-variant predicates derive
// from this type; substring matching on season labels is never used.
package season

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind distinguishes the two season shapes.
type Kind int

const (
	// Seasonal is the split-year club form, e.g. "2025-2026".
	Seasonal Kind = iota
	// CalendarYear is the single-year national team form, e.g. "2025".
	CalendarYear
)

// Season is a structured season value.
type Season struct {
	Kind      Kind
	StartYear int
	EndYear   int // equal to StartYear for CalendarYear
}

var (
	spanRe = regexp.MustCompile(`^(\d{4})[-/](\d{4})$`)
	yearRe = regexp.MustCompile(`^(\d{4})$`)
)

// Parse interprets a season label in any of its accepted forms:
// "2025-2026", "2025/2026", or "2025".
func Parse(label string) (Season, error) {
	label = strings.TrimSpace(label)
	if m := spanRe.FindStringSubmatch(label); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if end != start+1 {
			return Season{}, fmt.Errorf("season %q: years are not contiguous", label)
		}
		return Season{Kind: Seasonal, StartYear: start, EndYear: end}, nil
	}
	if m := yearRe.FindStringSubmatch(label); m != nil {
		year, _ := strconv.Atoi(m[1])
		return Season{Kind: CalendarYear, StartYear: year, EndYear: year}, nil
	}
	return Season{}, fmt.Errorf("unrecognized season label %q", label)
}

// FromStartYear builds the seasonal span beginning July 1 of the given year.
func FromStartYear(year int) Season {
	return Season{Kind: Seasonal, StartYear: year, EndYear: year + 1}
}

// Current returns the seasonal span in effect at the given instant.
// Seasons roll over on July 1: from July onward the season is
// [year, year+1], before July it is [year-1, year].
func Current(now time.Time) Season {
	if now.Month() >= time.July {
		return FromStartYear(now.Year())
	}
	return FromStartYear(now.Year() - 1)
}

// Label returns the canonical string form: "YYYY-YYYY" for seasonal spans,
// "YYYY" for calendar years.
func (s Season) Label() string {
	if s.Kind == CalendarYear {
		return strconv.Itoa(s.StartYear)
	}
	return fmt.Sprintf("%d-%d", s.StartYear, s.EndYear)
}

// Variants returns every string form this season may appear as in stored
// rows: the canonical span, the slash span, and the calendar-year forms of
// both years the span touches. National-team rows use calendar years, so a
// seasonal filter has to admit them too (a "2025-2026" aggregate includes
// the "2025" national team row).
func (s Season) Variants() []string {
	if s.Kind == CalendarYear {
		return []string{s.Label()}
	}
	return []string{
		s.Label(),
		fmt.Sprintf("%d/%d", s.StartYear, s.EndYear),
		strconv.Itoa(s.StartYear),
	}
}

// DateWindow returns the inclusive match-date range the season covers.
// Seasonal spans run July 1 through June 30; calendar years run
// January 1 through December 31.
func (s Season) DateWindow() (start, end time.Time) {
	if s.Kind == CalendarYear {
		return time.Date(s.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(s.StartYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(s.StartYear, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(s.EndYear, time.June, 30, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the given date falls inside the season window.
func (s Season) Contains(date time.Time) bool {
	start, end := s.DateWindow()
	return !date.Before(start) && !date.After(end)
}

// CalendarLabel returns the national-team form of the season: the calendar
// year a split-year span starts in.
func (s Season) CalendarLabel() string {
	return strconv.Itoa(s.StartYear)
}

// Normalize canonicalizes a raw source label: slash spans collapse to the
// dash form, short second years ("2025-26") are expanded, and calendar
// years pass through. Returns the canonical label.
func Normalize(label string) (string, error) {
	label = strings.TrimSpace(label)

	// Expand short second year before the general parse.
	if m := shortSpanRe.FindStringSubmatch(label); m != nil {
		start, _ := strconv.Atoi(m[1])
		label = fmt.Sprintf("%d-%d", start, start+1)
	}

	s, err := Parse(label)
	if err != nil {
		return "", err
	}
	return s.Label(), nil
}

var shortSpanRe = regexp.MustCompile(`^(\d{4})[-/](\d{2})$`)
