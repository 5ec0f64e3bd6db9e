// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap, and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bgabor/legiostat/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Migrate applies the embedded schema. All statements are idempotent
// (CREATE TABLE IF NOT EXISTS / CREATE INDEX IF NOT EXISTS), so running
// it against an existing database is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// registerPreparedStatements registers the statements the API read path
// uses on every request. Prepared statements eliminate parse overhead.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Players
		"player_by_id": `
			SELECT id, name, team, league, position, nationality,
			       is_goalkeeper, external_id, last_updated
			FROM players WHERE id = $1`,
		"players_all": `
			SELECT id, name, team, league, position, nationality,
			       is_goalkeeper, external_id, last_updated
			FROM players ORDER BY id`,

		// Matches
		"match_by_id": `
			SELECT id, player_id, match_date, competition, round, venue,
			       opponent, result, minutes_played, goals, assists, shots,
			       shots_on_target, xg, xa, passes_completed, passes_attempted,
			       pass_completion_pct, key_passes, tackles, interceptions,
			       blocks, touches, dribbles_completed, carries,
			       fouls_committed, fouls_drawn, yellow_cards, red_cards
			FROM player_matches WHERE id = $1`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
