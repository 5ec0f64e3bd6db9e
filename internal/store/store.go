// Package store is the persistence layer: read queries for the API, the
// scoped reconciliation writer for the sync pipeline, and the minutes
// backfill that repairs aggregates from match rows.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bgabor/legiostat/internal/model"
	"github.com/bgabor/legiostat/internal/season"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Store wraps the pool with typed queries.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}
}

// --------------------------------------------------------------------------
// Players
// --------------------------------------------------------------------------

// ListPlayers returns the whole roster ordered by id.
func (s *Store) ListPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.pool.Query(ctx, "players_all")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GetPlayer returns one roster member, or ErrNotFound.
func (s *Store) GetPlayer(ctx context.Context, id int) (*model.Player, error) {
	row := s.pool.QueryRow(ctx, "player_by_id", id)
	p, err := scanPlayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return &p, nil
}

func scanPlayer(row pgx.Row) (model.Player, error) {
	var p model.Player
	err := row.Scan(&p.ID, &p.Name, &p.Team, &p.League, &p.Position,
		&p.Nationality, &p.IsGoalkeeper, &p.ExternalID, &p.LastUpdated)
	return p, err
}

// --------------------------------------------------------------------------
// Stat rows
// --------------------------------------------------------------------------

const competitionStatColumns = `
	id, player_id, season, competition_type, competition_name,
	games, games_starts, minutes, goals, assists, xg, npxg, xa,
	COALESCE(penalty_goals, 0), shots, shots_on_target, yellow_cards, red_cards`

const goalkeeperStatColumns = `
	id, player_id, season, competition_type, competition_name,
	games, games_starts, minutes, goals_against, goals_against_per90,
	shots_on_target_against, saves, save_percentage, clean_sheets,
	clean_sheet_percentage, wins, draws, losses, penalties_attempted,
	penalties_allowed, penalties_saved, penalties_missed`

// ListCompetitionStats returns every field-player stat row.
func (s *Store) ListCompetitionStats(ctx context.Context) ([]model.CompetitionStat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+competitionStatColumns+`
		FROM competition_stats
		ORDER BY player_id, season DESC, competition_type`)
	if err != nil {
		return nil, fmt.Errorf("list competition stats: %w", err)
	}
	defer rows.Close()
	return scanCompetitionStats(rows)
}

// CompetitionStatsForPlayer returns a player's stat rows whose season is in
// the given variant set. An empty variant list means all seasons.
func (s *Store) CompetitionStatsForPlayer(ctx context.Context, playerID int, variants []string) ([]model.CompetitionStat, error) {
	sql := `
		SELECT ` + competitionStatColumns + `
		FROM competition_stats
		WHERE player_id = $1`
	args := []any{playerID}
	if len(variants) > 0 {
		sql += ` AND season = ANY($2)`
		args = append(args, variants)
	}
	sql += ` ORDER BY season DESC, competition_type`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("competition stats for player %d: %w", playerID, err)
	}
	defer rows.Close()
	return scanCompetitionStats(rows)
}

func scanCompetitionStats(rows pgx.Rows) ([]model.CompetitionStat, error) {
	var out []model.CompetitionStat
	for rows.Next() {
		var c model.CompetitionStat
		var pens int
		if err := rows.Scan(&c.ID, &c.PlayerID, &c.Season, &c.CompetitionType,
			&c.CompetitionName, &c.Games, &c.GamesStarts, &c.Minutes, &c.Goals,
			&c.Assists, &c.XG, &c.NPxG, &c.XA, &pens, &c.Shots, &c.ShotsOnTarget,
			&c.YellowCards, &c.RedCards); err != nil {
			return nil, fmt.Errorf("scan competition stat: %w", err)
		}
		c.PenaltyGoals = &pens
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListGoalkeeperStats returns every goalkeeper stat row.
func (s *Store) ListGoalkeeperStats(ctx context.Context) ([]model.GoalkeeperStat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+goalkeeperStatColumns+`
		FROM goalkeeper_stats
		ORDER BY player_id, season DESC, competition_type`)
	if err != nil {
		return nil, fmt.Errorf("list goalkeeper stats: %w", err)
	}
	defer rows.Close()
	return scanGoalkeeperStats(rows)
}

// GoalkeeperStatsForPlayer mirrors CompetitionStatsForPlayer for keepers.
func (s *Store) GoalkeeperStatsForPlayer(ctx context.Context, playerID int, variants []string) ([]model.GoalkeeperStat, error) {
	sql := `
		SELECT ` + goalkeeperStatColumns + `
		FROM goalkeeper_stats
		WHERE player_id = $1`
	args := []any{playerID}
	if len(variants) > 0 {
		sql += ` AND season = ANY($2)`
		args = append(args, variants)
	}
	sql += ` ORDER BY season DESC, competition_type`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("goalkeeper stats for player %d: %w", playerID, err)
	}
	defer rows.Close()
	return scanGoalkeeperStats(rows)
}

func scanGoalkeeperStats(rows pgx.Rows) ([]model.GoalkeeperStat, error) {
	var out []model.GoalkeeperStat
	for rows.Next() {
		var g model.GoalkeeperStat
		if err := rows.Scan(&g.ID, &g.PlayerID, &g.Season, &g.CompetitionType,
			&g.CompetitionName, &g.Games, &g.GamesStarts, &g.Minutes,
			&g.GoalsAgainst, &g.GoalsAgainstPer90, &g.ShotsOnTargetAgainst,
			&g.Saves, &g.SavePercentage, &g.CleanSheets, &g.CleanSheetPercentage,
			&g.Wins, &g.Draws, &g.Losses, &g.PenaltiesAttempted,
			&g.PenaltiesAllowed, &g.PenaltiesSaved, &g.PenaltiesMissed); err != nil {
			return nil, fmt.Errorf("scan goalkeeper stat: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// --------------------------------------------------------------------------
// Matches
// --------------------------------------------------------------------------

const matchColumns = `
	id, player_id, match_date, competition, round, venue, opponent, result,
	minutes_played, goals, assists, shots, shots_on_target, xg, xa,
	passes_completed, passes_attempted, pass_completion_pct, key_passes,
	tackles, interceptions, blocks, touches, dribbles_completed, carries,
	fouls_committed, fouls_drawn, yellow_cards, red_cards`

// MatchFilter narrows a player's match log. Season filtering is a
// date-range filter derived from the structured season, never a string
// match on labels.
type MatchFilter struct {
	Season      *season.Season
	Competition string
	Limit       int
}

// ListMatches returns every match row.
func (s *Store) ListMatches(ctx context.Context) ([]model.PlayerMatch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+matchColumns+`
		FROM player_matches
		ORDER BY player_id, match_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

// MatchesForPlayer returns one player's matches under the filter, newest
// first.
func (s *Store) MatchesForPlayer(ctx context.Context, playerID int, f MatchFilter) ([]model.PlayerMatch, error) {
	sql := `
		SELECT ` + matchColumns + `
		FROM player_matches
		WHERE player_id = $1`
	args := []any{playerID}

	if f.Season != nil {
		start, end := f.Season.DateWindow()
		sql += fmt.Sprintf(" AND match_date >= $%d AND match_date <= $%d", len(args)+1, len(args)+2)
		args = append(args, start, end)
	}
	if f.Competition != "" {
		sql += fmt.Sprintf(" AND competition ILIKE $%d", len(args)+1)
		args = append(args, "%"+f.Competition+"%")
	}
	sql += " ORDER BY match_date DESC"
	if f.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, f.Limit)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("matches for player %d: %w", playerID, err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

// GetMatch returns one match row, or ErrNotFound.
func (s *Store) GetMatch(ctx context.Context, id int) (*model.PlayerMatch, error) {
	rows, err := s.pool.Query(ctx, "match_by_id", id)
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	defer rows.Close()

	matches, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func scanMatches(rows pgx.Rows) ([]model.PlayerMatch, error) {
	var out []model.PlayerMatch
	for rows.Next() {
		var m model.PlayerMatch
		if err := rows.Scan(&m.ID, &m.PlayerID, &m.MatchDate, &m.Competition,
			&m.Round, &m.Venue, &m.Opponent, &m.Result, &m.MinutesPlayed,
			&m.Goals, &m.Assists, &m.Shots, &m.ShotsOnTarget, &m.XG, &m.XA,
			&m.PassesCompleted, &m.PassesAttempted, &m.PassCompletionPct,
			&m.KeyPasses, &m.Tackles, &m.Interceptions, &m.Blocks, &m.Touches,
			&m.DribblesCompleted, &m.Carries, &m.FoulsCommitted, &m.FoulsDrawn,
			&m.YellowCards, &m.RedCards); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --------------------------------------------------------------------------
// Aggregates
// --------------------------------------------------------------------------

// MatchSummary is the aggregate over a filtered match set.
type MatchSummary struct {
	Matches       int     `json:"matches"`
	Minutes       int     `json:"minutes"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	Shots         int     `json:"shots"`
	ShotsOnTarget int     `json:"shots_on_target"`
	XG            float64 `json:"xg"`
	XA            float64 `json:"xa"`
	KeyPasses     int     `json:"key_passes"`
	Tackles       int     `json:"tackles"`
	Interceptions int     `json:"interceptions"`
	YellowCards   int     `json:"yellow_cards"`
	RedCards      int     `json:"red_cards"`
	AvgPassPct    float64 `json:"avg_pass_completion_pct"`
}

// SummarizeMatches aggregates a player's matches under the filter.
func (s *Store) SummarizeMatches(ctx context.Context, playerID int, f MatchFilter) (*MatchSummary, error) {
	sql := `
		SELECT COUNT(*),
		       COALESCE(SUM(minutes_played), 0),
		       COALESCE(SUM(goals), 0),
		       COALESCE(SUM(assists), 0),
		       COALESCE(SUM(shots), 0),
		       COALESCE(SUM(shots_on_target), 0),
		       COALESCE(SUM(xg), 0),
		       COALESCE(SUM(xa), 0),
		       COALESCE(SUM(key_passes), 0),
		       COALESCE(SUM(tackles), 0),
		       COALESCE(SUM(interceptions), 0),
		       COALESCE(SUM(yellow_cards), 0),
		       COALESCE(SUM(red_cards), 0),
		       COALESCE(AVG(pass_completion_pct) FILTER (WHERE minutes_played > 0), 0)
		FROM player_matches
		WHERE player_id = $1`
	args := []any{playerID}

	if f.Season != nil {
		start, end := f.Season.DateWindow()
		sql += fmt.Sprintf(" AND match_date >= $%d AND match_date <= $%d", len(args)+1, len(args)+2)
		args = append(args, start, end)
	}
	if f.Competition != "" {
		sql += fmt.Sprintf(" AND competition ILIKE $%d", len(args)+1)
		args = append(args, "%"+f.Competition+"%")
	}

	var sum MatchSummary
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(
		&sum.Matches, &sum.Minutes, &sum.Goals, &sum.Assists, &sum.Shots,
		&sum.ShotsOnTarget, &sum.XG, &sum.XA, &sum.KeyPasses, &sum.Tackles,
		&sum.Interceptions, &sum.YellowCards, &sum.RedCards, &sum.AvgPassPct,
	); err != nil {
		return nil, fmt.Errorf("summarize matches for player %d: %w", playerID, err)
	}
	return &sum, nil
}

// FieldAggregate sums a field player's stat rows across competition classes
// for one season. The season filter admits the full variant set: canonical
// span, slash span, and the calendar-year form national-team rows use.
type FieldAggregate struct {
	Games         int     `json:"games"`
	GamesStarts   int     `json:"games_starts"`
	Minutes       int     `json:"minutes"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	XG            float64 `json:"xg"`
	NPxG          float64 `json:"npxg"`
	XA            float64 `json:"xa"`
	PenaltyGoals  int     `json:"penalty_goals"`
	Shots         int     `json:"shots"`
	ShotsOnTarget int     `json:"shots_on_target"`
	YellowCards   int     `json:"yellow_cards"`
	RedCards      int     `json:"red_cards"`
	Competitions  int     `json:"competitions"`
}

// AggregateFieldSeason sums a player's field stat rows for one season.
func (s *Store) AggregateFieldSeason(ctx context.Context, playerID int, sn season.Season) (*FieldAggregate, error) {
	var a FieldAggregate
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(games), 0), COALESCE(SUM(games_starts), 0),
		       COALESCE(SUM(minutes), 0), COALESCE(SUM(goals), 0),
		       COALESCE(SUM(assists), 0), COALESCE(SUM(xg), 0),
		       COALESCE(SUM(npxg), 0), COALESCE(SUM(xa), 0),
		       COALESCE(SUM(penalty_goals), 0), COALESCE(SUM(shots), 0),
		       COALESCE(SUM(shots_on_target), 0), COALESCE(SUM(yellow_cards), 0),
		       COALESCE(SUM(red_cards), 0), COUNT(*)
		FROM competition_stats
		WHERE player_id = $1 AND season = ANY($2)`,
		playerID, sn.Variants(),
	).Scan(&a.Games, &a.GamesStarts, &a.Minutes, &a.Goals, &a.Assists,
		&a.XG, &a.NPxG, &a.XA, &a.PenaltyGoals, &a.Shots, &a.ShotsOnTarget,
		&a.YellowCards, &a.RedCards, &a.Competitions)
	if err != nil {
		return nil, fmt.Errorf("aggregate field season for player %d: %w", playerID, err)
	}
	return &a, nil
}

// KeeperAggregate mirrors FieldAggregate for goalkeepers.
type KeeperAggregate struct {
	Games                int     `json:"games"`
	GamesStarts          int     `json:"games_starts"`
	Minutes              int     `json:"minutes"`
	GoalsAgainst         int     `json:"goals_against"`
	ShotsOnTargetAgainst int     `json:"shots_on_target_against"`
	Saves                int     `json:"saves"`
	CleanSheets          int     `json:"clean_sheets"`
	Wins                 int     `json:"wins"`
	Draws                int     `json:"draws"`
	Losses               int     `json:"losses"`
	SavePercentage       float64 `json:"save_percentage"`
	Competitions         int     `json:"competitions"`
}

// AggregateKeeperSeason sums goalkeeper rows for one player and season. The save
// percentage is re-derived from the summed shot counts rather than averaged.
func (s *Store) AggregateKeeperSeason(ctx context.Context, playerID int, sn season.Season) (*KeeperAggregate, error) {
	var a KeeperAggregate
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(games), 0), COALESCE(SUM(games_starts), 0),
		       COALESCE(SUM(minutes), 0), COALESCE(SUM(goals_against), 0),
		       COALESCE(SUM(shots_on_target_against), 0), COALESCE(SUM(saves), 0),
		       COALESCE(SUM(clean_sheets), 0), COALESCE(SUM(wins), 0),
		       COALESCE(SUM(draws), 0), COALESCE(SUM(losses), 0), COUNT(*)
		FROM goalkeeper_stats
		WHERE player_id = $1 AND season = ANY($2)`,
		playerID, sn.Variants(),
	).Scan(&a.Games, &a.GamesStarts, &a.Minutes, &a.GoalsAgainst,
		&a.ShotsOnTargetAgainst, &a.Saves, &a.CleanSheets, &a.Wins,
		&a.Draws, &a.Losses, &a.Competitions)
	if err != nil {
		return nil, fmt.Errorf("aggregate keeper season for player %d: %w", playerID, err)
	}
	if a.ShotsOnTargetAgainst > 0 {
		a.SavePercentage = 100 * float64(a.Saves) / float64(a.ShotsOnTargetAgainst)
	}
	return &a, nil
}
