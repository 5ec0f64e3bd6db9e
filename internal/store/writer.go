package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bgabor/legiostat/internal/config"
	"github.com/bgabor/legiostat/internal/model"
	"github.com/bgabor/legiostat/internal/scrape"
	"github.com/bgabor/legiostat/internal/season"
)

// WriteError wraps a database-side failure during reconciliation. The
// transaction has been rolled back; nothing was persisted.
type WriteError struct {
	PlayerID int
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write player %d: %v", e.PlayerID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Mode selects the slice of a player's history a Write replaces.
type Mode int

const (
	// Incremental replaces stats and matches for the scoped seasons only.
	Incremental Mode = iota
	// Full replaces the player's entire history and reseeds sequences.
	Full
	// MatchlogsOnly refreshes match rows for the scoped seasons and
	// leaves stat rows untouched.
	MatchlogsOnly
)

// WriteReport summarizes one reconciliation.
type WriteReport struct {
	StatsDeleted    int
	StatsInserted   int
	MatchesDeleted  int
	MatchesInserted int
	Reseeded        bool
}

// Summary returns a human-readable summary.
func (r *WriteReport) Summary() string {
	return fmt.Sprintf("stats_deleted=%d stats_inserted=%d matches_deleted=%d matches_inserted=%d",
		r.StatsDeleted, r.StatsInserted, r.MatchesDeleted, r.MatchesInserted)
}

// Write applies a dossier to the store inside a single transaction,
// replacing exactly the slice of the player's rows the scope covers:
//
//   - stat rows whose season matches any variant of a scoped season are
//     deleted and replaced;
//   - match rows whose date falls inside a scoped season's window are
//     deleted and replaced (matches carry dates, not season labels);
//   - rows for seasons outside the scope are never touched;
//   - the player's external_id and last_updated are refreshed.
//
// Full mode replaces the player's entire history: every stat and match
// row is deleted regardless of scope, so rows the source no longer
// exposes (including legacy national-team rows stored in span form)
// cannot survive or collide with the re-insert. Id sequences are
// reseeded afterwards. MatchlogsOnly mode leaves stat rows alone.
// Running Write twice with the same inputs leaves the same final state.
func (s *Store) Write(ctx context.Context, player *model.Player, dossier *scrape.Dossier, scope []season.Season, mode Mode) (*WriteReport, error) {
	report := &WriteReport{}
	full := mode == Full

	var fieldStats []model.CompetitionStat
	var keeperStats []model.GoalkeeperStat
	if mode != MatchlogsOnly {
		fieldStats = dedupeFieldStats(filterFieldStats(dossier.FieldStats, scope, full))
		keeperStats = dedupeKeeperStats(filterKeeperStats(dossier.KeeperStats, scope, full))
	}
	matches := dedupeMatches(filterMatches(dossier.Matches, scope, full))

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if full {
			// Scope derived from the stats page covers span-form
			// seasons only; the delete must not depend on it, or a
			// calendar-year national-team row with no club span that
			// year would survive and collide with the re-insert.
			statsDeleted, matchesDeleted, err := deleteAllRows(ctx, tx, player.ID)
			if err != nil {
				return err
			}
			report.StatsDeleted += statsDeleted
			report.MatchesDeleted += matchesDeleted
		} else {
			for _, sn := range scope {
				variants := sn.Variants()

				if mode != MatchlogsOnly {
					tag, err := tx.Exec(ctx, `
						DELETE FROM competition_stats
						WHERE player_id = $1 AND season = ANY($2)`,
						player.ID, variants)
					if err != nil {
						return fmt.Errorf("delete competition stats %s: %w", sn.Label(), err)
					}
					report.StatsDeleted += int(tag.RowsAffected())

					if player.IsGoalkeeper {
						tag, err = tx.Exec(ctx, `
							DELETE FROM goalkeeper_stats
							WHERE player_id = $1 AND season = ANY($2)`,
							player.ID, variants)
						if err != nil {
							return fmt.Errorf("delete goalkeeper stats %s: %w", sn.Label(), err)
						}
						report.StatsDeleted += int(tag.RowsAffected())
					}
				}

				start, end := sn.DateWindow()
				tag, err := tx.Exec(ctx, `
					DELETE FROM player_matches
					WHERE player_id = $1 AND match_date >= $2 AND match_date <= $3`,
					player.ID, start, end)
				if err != nil {
					return fmt.Errorf("delete matches %s: %w", sn.Label(), err)
				}
				report.MatchesDeleted += int(tag.RowsAffected())
			}
		}

		if err := insertFieldStats(ctx, tx, player.ID, fieldStats); err != nil {
			return err
		}
		report.StatsInserted += len(fieldStats)

		if err := insertKeeperStats(ctx, tx, player.ID, keeperStats); err != nil {
			return err
		}
		report.StatsInserted += len(keeperStats)

		if err := insertMatches(ctx, tx, player.ID, matches); err != nil {
			return err
		}
		report.MatchesInserted = len(matches)

		externalID := dossier.ExternalID
		if externalID == "" && player.ExternalID != nil {
			externalID = *player.ExternalID
		}
		if _, err := tx.Exec(ctx, `
			UPDATE players
			SET external_id = NULLIF($2, ''), last_updated = $3
			WHERE id = $1`,
			player.ID, externalID, time.Now().UTC().Truncate(24*time.Hour)); err != nil {
			return fmt.Errorf("update player: %w", err)
		}

		if full {
			if err := reseedSequences(ctx, tx); err != nil {
				return err
			}
			report.Reseeded = true
		}
		return nil
	})
	if err != nil {
		return nil, &WriteError{PlayerID: player.ID, Err: err}
	}

	s.logger.Info("Reconciled player",
		"player_id", player.ID, "full", full, "summary", report.Summary())
	return report, nil
}

// deleteAllRows clears every stat and match row of one player.
func deleteAllRows(ctx context.Context, tx pgx.Tx, playerID int) (statsDeleted, matchesDeleted int, err error) {
	for _, table := range []string{config.CompetitionStatsTable, config.GoalkeeperStatsTable} {
		tag, err := tx.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE player_id = $1", table), playerID)
		if err != nil {
			return 0, 0, fmt.Errorf("clear %s: %w", table, err)
		}
		statsDeleted += int(tag.RowsAffected())
	}

	tag, err := tx.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE player_id = $1", config.PlayerMatchesTable), playerID)
	if err != nil {
		return 0, 0, fmt.Errorf("clear %s: %w", config.PlayerMatchesTable, err)
	}
	return statsDeleted, int(tag.RowsAffected()), nil
}

// --------------------------------------------------------------------------
// Scope filtering — incremental syncs write only rows inside the scope
// --------------------------------------------------------------------------

func inScope(label string, scope []season.Season, full bool) bool {
	if full {
		return true
	}
	for _, sn := range scope {
		for _, v := range sn.Variants() {
			if label == v {
				return true
			}
		}
	}
	return false
}

func filterFieldStats(in []model.CompetitionStat, scope []season.Season, full bool) []model.CompetitionStat {
	out := in[:0:0]
	for _, r := range in {
		if inScope(r.Season, scope, full) {
			out = append(out, r)
		}
	}
	return out
}

func filterKeeperStats(in []model.GoalkeeperStat, scope []season.Season, full bool) []model.GoalkeeperStat {
	out := in[:0:0]
	for _, r := range in {
		if inScope(r.Season, scope, full) {
			out = append(out, r)
		}
	}
	return out
}

func filterMatches(in []model.PlayerMatch, scope []season.Season, full bool) []model.PlayerMatch {
	if full {
		return in
	}
	out := in[:0:0]
	for _, m := range in {
		for _, sn := range scope {
			if sn.Contains(m.MatchDate) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// --------------------------------------------------------------------------
// In-memory dedupe — defends the unique constraints against source-side
// repetition inside a single insert batch
// --------------------------------------------------------------------------

func dedupeFieldStats(in []model.CompetitionStat) []model.CompetitionStat {
	seen := make(map[model.StatKey]bool, len(in))
	out := in[:0:0]
	for _, r := range in {
		key := model.StatKey{Season: r.Season, CompetitionType: r.CompetitionType, CompetitionName: r.CompetitionName}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func dedupeKeeperStats(in []model.GoalkeeperStat) []model.GoalkeeperStat {
	seen := make(map[model.StatKey]bool, len(in))
	out := in[:0:0]
	for _, r := range in {
		key := model.StatKey{Season: r.Season, CompetitionType: r.CompetitionType, CompetitionName: r.CompetitionName}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func dedupeMatches(in []model.PlayerMatch) []model.PlayerMatch {
	seen := make(map[model.MatchKey]bool, len(in))
	out := in[:0:0]
	for _, m := range in {
		if seen[m.Key()] {
			continue
		}
		seen[m.Key()] = true
		out = append(out, m)
	}
	return out
}

// --------------------------------------------------------------------------
// Inserts
// --------------------------------------------------------------------------

func insertFieldStats(ctx context.Context, tx pgx.Tx, playerID int, stats []model.CompetitionStat) error {
	batch := &pgx.Batch{}
	for _, c := range stats {
		batch.Queue(`
			INSERT INTO competition_stats (
				player_id, season, competition_type, competition_name,
				games, games_starts, minutes, goals, assists, xg, npxg, xa,
				penalty_goals, shots, shots_on_target, yellow_cards, red_cards
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
			playerID, c.Season, c.CompetitionType, c.CompetitionName,
			c.Games, c.GamesStarts, c.Minutes, c.Goals, c.Assists,
			c.XG, c.NPxG, c.XA, c.PenaltyGoals, c.Shots, c.ShotsOnTarget,
			c.YellowCards, c.RedCards)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert competition stats: %w", err)
	}
	return nil
}

func insertKeeperStats(ctx context.Context, tx pgx.Tx, playerID int, stats []model.GoalkeeperStat) error {
	batch := &pgx.Batch{}
	for _, g := range stats {
		batch.Queue(`
			INSERT INTO goalkeeper_stats (
				player_id, season, competition_type, competition_name,
				games, games_starts, minutes, goals_against, goals_against_per90,
				shots_on_target_against, saves, save_percentage, clean_sheets,
				clean_sheet_percentage, wins, draws, losses,
				penalties_attempted, penalties_allowed, penalties_saved, penalties_missed
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
			playerID, g.Season, g.CompetitionType, g.CompetitionName,
			g.Games, g.GamesStarts, g.Minutes, g.GoalsAgainst, g.GoalsAgainstPer90,
			g.ShotsOnTargetAgainst, g.Saves, g.SavePercentage, g.CleanSheets,
			g.CleanSheetPercentage, g.Wins, g.Draws, g.Losses,
			g.PenaltiesAttempted, g.PenaltiesAllowed, g.PenaltiesSaved, g.PenaltiesMissed)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert goalkeeper stats: %w", err)
	}
	return nil
}

func insertMatches(ctx context.Context, tx pgx.Tx, playerID int, matches []model.PlayerMatch) error {
	batch := &pgx.Batch{}
	for _, m := range matches {
		batch.Queue(`
			INSERT INTO player_matches (
				player_id, match_date, competition, round, venue, opponent,
				result, minutes_played, goals, assists, shots, shots_on_target,
				xg, xa, passes_completed, passes_attempted, pass_completion_pct,
				key_passes, tackles, interceptions, blocks, touches,
				dribbles_completed, carries, fouls_committed, fouls_drawn,
				yellow_cards, red_cards
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,
			          $17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)`,
			playerID, m.MatchDate, m.Competition, m.Round, m.Venue, m.Opponent,
			m.Result, m.MinutesPlayed, m.Goals, m.Assists, m.Shots, m.ShotsOnTarget,
			m.XG, m.XA, m.PassesCompleted, m.PassesAttempted, m.PassCompletionPct,
			m.KeyPasses, m.Tackles, m.Interceptions, m.Blocks, m.Touches,
			m.DribblesCompleted, m.Carries, m.FoulsCommitted, m.FoulsDrawn,
			m.YellowCards, m.RedCards)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}
	return nil
}

// reseedSequences advances id sequences past the maximum allocated id.
// Needed after bulk replaces so later single-row inserts do not collide.
func reseedSequences(ctx context.Context, tx pgx.Tx) error {
	for _, table := range []string{config.CompetitionStatsTable, config.GoalkeeperStatsTable, config.PlayerMatchesTable} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`
			SELECT setval(pg_get_serial_sequence('%s', 'id'),
			              COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`,
			table, table)); err != nil {
			return fmt.Errorf("reseed %s: %w", table, err)
		}
	}
	return nil
}
