// Package api assembles the chi router and HTTP middleware stack over
// the read-side handlers.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/bgabor/legiostat/internal/api/handler"
	"github.com/bgabor/legiostat/internal/cache"
	"github.com/bgabor/legiostat/internal/config"
	"github.com/bgabor/legiostat/internal/db"
	"github.com/bgabor/legiostat/internal/store"
	syncpkg "github.com/bgabor/legiostat/internal/sync"
)

// NewRouter creates and configures the Chi router with all middleware
// and routes. sched may be nil when the scheduler is disabled.
func NewRouter(pool *db.Pool, st *store.Store, appCache *cache.Cache, cfg *config.Config, sched *syncpkg.Scheduler) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, st, appCache, cfg, sched)

	// --- Routes ---
	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Get("/{id}", h.GetPlayer)
			r.Get("/stats/competition", h.ListCompetitionStats)
			r.Get("/stats/goalkeeper", h.ListGoalkeeperStats)
			r.Get("/stats/matches", h.ListMatches)
		})

		r.Route("/matchlogs", func(r chi.Router) {
			r.Get("/{player_id}", h.Matchlogs)
			r.Get("/{player_id}/stats", h.MatchlogStats)
			r.Get("/match/{match_id}", h.GetMatch)
		})

		r.Route("/comparison", func(r chi.Router) {
			r.Get("/players/{id}/stats", h.PlayerSeasonStats)
			r.Get("/compare", h.Compare)
			r.Get("/available-stats", h.AvailableStats)
		})
	})

	return r
}
