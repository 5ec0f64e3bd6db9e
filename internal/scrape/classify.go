package scrape

import (
	"fmt"

	"github.com/bgabor/legiostat/internal/model"
	"github.com/bgabor/legiostat/internal/season"
)

// Section identifies the four page sections hosting stat tables. Table ids
// on the source follow the pattern stats_{kind}_{section}.
type Section string

const (
	SectionDomesticLeague Section = "dom_lg"
	SectionDomesticCup    Section = "dom_cup"
	SectionInternational  Section = "intl_cup"
	SectionNationalTeam   Section = "nat_tm"
)

// Sections lists every section in page order.
var Sections = []Section{
	SectionDomesticLeague,
	SectionDomesticCup,
	SectionInternational,
	SectionNationalTeam,
}

// CompetitionType maps the section to the stat row's competition class.
func (s Section) CompetitionType() model.CompetitionType {
	switch s {
	case SectionDomesticCup:
		return model.DomesticCup
	case SectionInternational:
		return model.EuropeanCup
	case SectionNationalTeam:
		return model.NationalTeam
	default:
		return model.League
	}
}

// TableID returns the source table id for a kind within this section.
func (s Section) TableID(kind TableKind) string {
	return fmt.Sprintf("stats_%s_%s", kind, s)
}

// classifySeason normalizes the raw season label for a section: national
// team rows are rewritten to calendar-year form, everything else to the
// canonical YYYY-YYYY span.
func classifySeason(sec Section, raw string) (string, error) {
	label, err := season.Normalize(raw)
	if err != nil {
		return "", err
	}
	if sec != SectionNationalTeam {
		return label, nil
	}
	s, err := season.Parse(label)
	if err != nil {
		return "", err
	}
	return s.CalendarLabel(), nil
}

// BuildStatRows classifies one section's merged rows into model stat rows.
// Exactly one of the two slices is populated, depending on the player
// class (a goalkeeper never yields CompetitionStat rows and vice versa).
// Rows whose season label cannot be normalized are dropped with an error
// entry; the caller decides whether that aborts the dossier.
func BuildStatRows(sec Section, rows []MergedRow, isGoalkeeper bool) (field []model.CompetitionStat, keeper []model.GoalkeeperStat, errs []error) {
	compType := sec.CompetitionType()
	for _, r := range rows {
		label, err := classifySeason(sec, r.Season)
		if err != nil {
			errs = append(errs, fmt.Errorf("section %s competition %q: %w", sec, r.Competition, err))
			continue
		}

		if isGoalkeeper {
			keeper = append(keeper, model.GoalkeeperStat{
				Season:               label,
				CompetitionType:      compType,
				CompetitionName:      r.Competition,
				Games:                r.Games,
				GamesStarts:          r.GamesStarts,
				Minutes:              r.Minutes,
				GoalsAgainst:         r.GoalsAgainst,
				GoalsAgainstPer90:    r.GoalsAgainstPer90,
				ShotsOnTargetAgainst: r.ShotsOnTargetAgainst,
				Saves:                r.Saves,
				SavePercentage:       r.SavePercentage,
				CleanSheets:          r.CleanSheets,
				CleanSheetPercentage: r.CleanSheetPercentage,
				Wins:                 r.Wins,
				Draws:                r.Draws,
				Losses:               r.Losses,
				PenaltiesAttempted:   r.PenaltiesAttempted,
				PenaltiesAllowed:     r.PenaltiesAllowed,
				PenaltiesSaved:       r.PenaltiesSaved,
				PenaltiesMissed:      r.PenaltiesMissed,
			})
			continue
		}

		field = append(field, model.CompetitionStat{
			Season:          label,
			CompetitionType: compType,
			CompetitionName: r.Competition,
			Games:           r.Games,
			GamesStarts:     r.GamesStarts,
			Minutes:         r.Minutes,
			Goals:           r.Goals,
			Assists:         r.Assists,
			XG:              r.XG,
			NPxG:            r.NPxG,
			XA:              r.XA,
			PenaltyGoals:    r.PenaltyGoals,
			Shots:           r.Shots,
			ShotsOnTarget:   r.ShotsOnTarget,
			YellowCards:     r.YellowCards,
			RedCards:        r.RedCards,
		})
	}
	return field, keeper, errs
}
