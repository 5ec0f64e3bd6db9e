// Package seed loads the curated roster file into the players table.
// The roster is maintained by hand; seeding is idempotent and keyed by
// player name, so re-running after edits updates in place.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RosterEntry is one player in the roster file.
type RosterEntry struct {
	Name         string `json:"name"`
	Team         string `json:"team"`
	League       string `json:"league"`
	Position     string `json:"position"`
	Nationality  string `json:"nationality"`
	IsGoalkeeper bool   `json:"is_goalkeeper"`
	ExternalID   string `json:"external_id,omitempty"`
}

// Result tracks counts and errors from a roster seed.
type Result struct {
	PlayersInserted int
	PlayersUpdated  int
	Errors          []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the seed operation.
func (r *Result) Summary() string {
	return fmt.Sprintf("inserted=%d updated=%d errors=%d",
		r.PlayersInserted, r.PlayersUpdated, len(r.Errors))
}

// LoadFile reads and validates a roster JSON file (an array of entries).
func LoadFile(path string) ([]RosterEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var entries []RosterEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("roster entry %d: name is required", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("roster entry %d: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true
	}
	return entries, nil
}

// Apply upserts roster entries by name. An existing external_id is kept
// unless the file provides one, so ids resolved during scraping survive
// roster edits.
func Apply(ctx context.Context, pool *pgxpool.Pool, entries []RosterEntry, logger *slog.Logger) Result {
	var result Result

	for _, e := range entries {
		tag, err := pool.Exec(ctx, `
			UPDATE players
			SET team = $2, league = $3, position = $4, nationality = $5,
			    is_goalkeeper = $6,
			    external_id = COALESCE(NULLIF($7, ''), external_id)
			WHERE name = $1`,
			e.Name, e.Team, e.League, e.Position, e.Nationality,
			e.IsGoalkeeper, e.ExternalID)
		if err != nil {
			result.AddErrorf("update %s: %v", e.Name, err)
			continue
		}
		if tag.RowsAffected() > 0 {
			result.PlayersUpdated++
			continue
		}

		var id int
		err = pool.QueryRow(ctx, `
			INSERT INTO players (name, team, league, position, nationality, is_goalkeeper, external_id)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
			RETURNING id`,
			e.Name, e.Team, e.League, e.Position, e.Nationality,
			e.IsGoalkeeper, e.ExternalID).Scan(&id)
		if err != nil {
			result.AddErrorf("insert %s: %v", e.Name, err)
			continue
		}
		result.PlayersInserted++
		logger.Info("Added roster member", "player_id", id, "name", e.Name, "team", e.Team)
	}
	return result
}
