package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/bgabor/legiostat/internal/config"
	"github.com/bgabor/legiostat/internal/season"
)

// The matchlog uses short competition labels while stat rows carry full
// names. The canonical map is consulted first; a case-insensitive
// substring check is the fallback for labels the map misses.
var competitionLabels = map[string]string{
	"uefa champions league":          "Champions Lg",
	"uefa europa league":             "Europa Lg",
	"uefa europa conference league":  "Conf Lg",
	"uefa conference league":         "Conf Lg",
	"uefa nations league":            "Nations League",
	"world cup qualification":        "WCQ",
	"uefa euro qualification":        "UEFA Euro Qualifying",
	"fifa world cup":                 "World Cup",
	"uefa european championship":     "UEFA Euro",
}

// labelMatches reports whether a matchlog competition label belongs to the
// stat row's competition name.
func labelMatches(statName, matchLabel string) bool {
	statLower := strings.ToLower(strings.TrimSpace(statName))
	matchLower := strings.ToLower(strings.TrimSpace(matchLabel))
	if statLower == "" || matchLower == "" {
		return false
	}
	if short, ok := competitionLabels[statLower]; ok {
		return strings.EqualFold(short, strings.TrimSpace(matchLabel))
	}
	return strings.Contains(statLower, matchLower) || strings.Contains(matchLower, statLower)
}

// BackfillMinutes repairs stat rows whose minutes are zero despite played
// games, deriving the aggregate from the player's match rows inside the
// season window. Errors are reported but the repair continues row by row;
// a backfill failure never fails the sync.
func (s *Store) BackfillMinutes(ctx context.Context, playerID int, isGoalkeeper bool) (repaired int, err error) {
	table := config.CompetitionStatsTable
	if isGoalkeeper {
		table = config.GoalkeeperStatsTable
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, season, competition_name
		FROM %s
		WHERE player_id = $1 AND minutes = 0 AND games > 0`, table), playerID)
	if err != nil {
		return 0, fmt.Errorf("find backfill candidates: %w", err)
	}

	type candidate struct {
		id       int
		season   string
		compName string
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.season, &c.compName); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan backfill candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, c := range candidates {
		sn, err := season.Parse(c.season)
		if err != nil {
			s.logger.Warn("Backfill: unparseable season on stat row",
				"player_id", playerID, "season", c.season)
			continue
		}
		start, end := sn.DateWindow()

		matchRows, err := s.pool.Query(ctx, `
			SELECT competition, minutes_played
			FROM player_matches
			WHERE player_id = $1 AND match_date >= $2 AND match_date <= $3`,
			playerID, start, end)
		if err != nil {
			return repaired, fmt.Errorf("load matches for backfill: %w", err)
		}

		total := 0
		for matchRows.Next() {
			var comp string
			var minutes int
			if err := matchRows.Scan(&comp, &minutes); err != nil {
				matchRows.Close()
				return repaired, fmt.Errorf("scan backfill match: %w", err)
			}
			if labelMatches(c.compName, comp) {
				total += minutes
			}
		}
		matchRows.Close()
		if err := matchRows.Err(); err != nil {
			return repaired, err
		}

		if total == 0 {
			continue
		}
		if _, err := s.pool.Exec(ctx, fmt.Sprintf(
			`UPDATE %s SET minutes = $2 WHERE id = $1`, table), c.id, total); err != nil {
			return repaired, fmt.Errorf("update backfilled minutes: %w", err)
		}
		repaired++
		s.logger.Info("Backfilled minutes from matches",
			"player_id", playerID, "season", c.season,
			"competition", c.compName, "minutes", total)
	}
	return repaired, nil
}
