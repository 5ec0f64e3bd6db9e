// Package model defines the persistent entities shared by the scraper,
// the reconciliation writer, and the API layer.
package model

import "time"

// --------------------------------------------------------------------------
// Competition classification
// --------------------------------------------------------------------------

// CompetitionType is the closed set of competition classes a stat row can
// belong to. Values are stored verbatim in Postgres.
type CompetitionType string

const (
	League       CompetitionType = "LEAGUE"
	DomesticCup  CompetitionType = "DOMESTIC_CUP"
	EuropeanCup  CompetitionType = "EUROPEAN_CUP"
	NationalTeam CompetitionType = "NATIONAL_TEAM"
)

// Valid reports whether t is a member of the closed set.
func (t CompetitionType) Valid() bool {
	switch t {
	case League, DomesticCup, EuropeanCup, NationalTeam:
		return true
	}
	return false
}

// Venue is the home/away marker on a match row.
type Venue string

const (
	VenueHome Venue = "Home"
	VenueAway Venue = "Away"
)

// --------------------------------------------------------------------------
// Entities
// --------------------------------------------------------------------------

// Player is a roster member. Created administratively; the sync pipeline
// only ever updates ExternalID and LastUpdated.
type Player struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Team         string     `json:"team"`
	League       string     `json:"league"`
	Position     string     `json:"position"`
	Nationality  string     `json:"nationality"`
	IsGoalkeeper bool       `json:"is_goalkeeper"`
	ExternalID   *string    `json:"external_id,omitempty"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

// CompetitionStat is one season+competition aggregate for a field player.
// Unique per (player_id, season, competition_type, competition_name).
type CompetitionStat struct {
	ID              int             `json:"id"`
	PlayerID        int             `json:"player_id"`
	Season          string          `json:"season"`
	CompetitionType CompetitionType `json:"competition_type"`
	CompetitionName string          `json:"competition_name"`
	Games           int             `json:"games"`
	GamesStarts     int             `json:"games_starts"`
	Minutes         int             `json:"minutes"`
	Goals           int             `json:"goals"`
	Assists         int             `json:"assists"`
	XG              float64         `json:"xg"`
	NPxG            float64         `json:"npxg"`
	XA              float64         `json:"xa"`
	PenaltyGoals    *int            `json:"penalty_goals"`
	Shots           int             `json:"shots"`
	ShotsOnTarget   int             `json:"shots_on_target"`
	YellowCards     int             `json:"yellow_cards"`
	RedCards        int             `json:"red_cards"`
}

// GoalkeeperStat is one season+competition aggregate for a goalkeeper.
// Unique per (player_id, season, competition_type, competition_name).
type GoalkeeperStat struct {
	ID                   int             `json:"id"`
	PlayerID             int             `json:"player_id"`
	Season               string          `json:"season"`
	CompetitionType      CompetitionType `json:"competition_type"`
	CompetitionName      string          `json:"competition_name"`
	Games                int             `json:"games"`
	GamesStarts          int             `json:"games_starts"`
	Minutes              int             `json:"minutes"`
	GoalsAgainst         int             `json:"goals_against"`
	GoalsAgainstPer90    float64         `json:"goals_against_per90"`
	ShotsOnTargetAgainst int             `json:"shots_on_target_against"`
	Saves                int             `json:"saves"`
	SavePercentage       float64         `json:"save_percentage"`
	CleanSheets          int             `json:"clean_sheets"`
	CleanSheetPercentage float64         `json:"clean_sheet_percentage"`
	Wins                 int             `json:"wins"`
	Draws                int             `json:"draws"`
	Losses               int             `json:"losses"`
	PenaltiesAttempted   int             `json:"penalties_attempted"`
	PenaltiesAllowed     int             `json:"penalties_allowed"`
	PenaltiesSaved       int             `json:"penalties_saved"`
	PenaltiesMissed      int             `json:"penalties_missed"`
}

// PlayerMatch is a single match-log row.
// Unique per (player_id, match_date, competition, opponent).
type PlayerMatch struct {
	ID                int       `json:"id"`
	PlayerID          int       `json:"player_id"`
	MatchDate         time.Time `json:"match_date"`
	Competition       string    `json:"competition"`
	Round             string    `json:"round"`
	Venue             Venue     `json:"venue"`
	Opponent          string    `json:"opponent"`
	Result            string    `json:"result"` // e.g. "W 2-1"
	MinutesPlayed     int       `json:"minutes_played"`
	Goals             int       `json:"goals"`
	Assists           int       `json:"assists"`
	Shots             int       `json:"shots"`
	ShotsOnTarget     int       `json:"shots_on_target"`
	XG                float64   `json:"xg"`
	XA                float64   `json:"xa"`
	PassesCompleted   int       `json:"passes_completed"`
	PassesAttempted   int       `json:"passes_attempted"`
	PassCompletionPct float64   `json:"pass_completion_pct"`
	KeyPasses         int       `json:"key_passes"`
	Tackles           int       `json:"tackles"`
	Interceptions     int       `json:"interceptions"`
	Blocks            int       `json:"blocks"`
	Touches           int       `json:"touches"`
	DribblesCompleted int       `json:"dribbles_completed"`
	Carries           int       `json:"carries"`
	FoulsCommitted    int       `json:"fouls_committed"`
	FoulsDrawn        int       `json:"fouls_drawn"`
	YellowCards       int       `json:"yellow_cards"`
	RedCards          int       `json:"red_cards"`
}

// MatchKey is the in-memory dedupe key mirroring the player_matches unique
// constraint.
type MatchKey struct {
	MatchDate   string // ISO date
	Competition string
	Opponent    string
}

// Key returns the dedupe key for a match row.
func (m *PlayerMatch) Key() MatchKey {
	return MatchKey{
		MatchDate:   m.MatchDate.Format("2006-01-02"),
		Competition: m.Competition,
		Opponent:    m.Opponent,
	}
}

// StatKey is the in-memory dedupe key mirroring the stat tables' unique
// constraint.
type StatKey struct {
	Season          string
	CompetitionType CompetitionType
	CompetitionName string
}
