// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/sync.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Stat table names, matching schema.sql. Used where SQL is assembled
// dynamically (per-table maintenance, minutes backfill).
// --------------------------------------------------------------------------

const (
	CompetitionStatsTable = "competition_stats"
	GoalkeeperStatsTable  = "goalkeeper_stats"
	PlayerMatchesTable    = "player_matches"
)

// MinFetchDelay is the platform-safe floor for the scrape rate gate.
// The source site bans clients that exceed ~10 requests per minute.
const MinFetchDelay = 6 * time.Second

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// API rate limiting (inbound, per client IP)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Scraping
	FetchDelay    time.Duration // minimum delay between requests to the source site
	FetchRetries  int           // retries after the first failed attempt
	FetchTimeout  time.Duration // per-attempt wall clock budget
	SourceBaseURL string

	// Scheduler
	SchedulerEnabled  bool
	SchedulerTimezone string
	StatsCronSpec     string
	MatchlogsCronSpec string
	JobTimeout        time.Duration // whole-job budget; zero disables

	// Notifier (transactional email API); unset key disables notifications
	NotifierAPIKey string
	NotifierFrom   string
	NotifierTo     []string

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	fetchDelay := time.Duration(envInt("RATE_LIMIT_SECONDS", 12)) * time.Second
	if fetchDelay < MinFetchDelay {
		return nil, fmt.Errorf("RATE_LIMIT_SECONDS must be at least %d", int(MinFetchDelay.Seconds()))
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		FetchDelay:    fetchDelay,
		FetchRetries:  envInt("FETCH_RETRIES", 2),
		FetchTimeout:  time.Duration(envInt("FETCH_TIMEOUT_SECONDS", 45)) * time.Second,
		SourceBaseURL: envOr("SOURCE_BASE_URL", "https://fbref.com"),

		SchedulerEnabled:  envBool("SCHEDULER_ENABLED", false),
		SchedulerTimezone: envOr("SCHEDULER_TIMEZONE", "Europe/Budapest"),
		StatsCronSpec:     envOr("STATS_CRON", "0 6 * * 1,4"),
		MatchlogsCronSpec: envOr("MATCHLOGS_CRON", "0 7 * * 2"),
		JobTimeout:        time.Duration(envInt("JOB_TIMEOUT_MINUTES", 0)) * time.Minute,

		NotifierAPIKey: envOr("NOTIFIER_API_KEY", ""),
		NotifierFrom:   envOr("NOTIFIER_FROM", "legiostat@updates.legiostat.hu"),
		NotifierTo:     envList("NOTIFIER_TO", nil),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
