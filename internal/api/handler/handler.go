// Package handler provides HTTP handlers for all API endpoints.
// Handlers read through the store's typed queries, marshal once, and
// cache the marshaled bytes with ETags.
package handler

import (
	"net/http"
	"time"

	"github.com/bgabor/legiostat/internal/api/respond"
	"github.com/bgabor/legiostat/internal/cache"
	"github.com/bgabor/legiostat/internal/config"
	"github.com/bgabor/legiostat/internal/db"
	"github.com/bgabor/legiostat/internal/store"
	syncpkg "github.com/bgabor/legiostat/internal/sync"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool  *db.Pool
	store *store.Store
	cache *cache.Cache
	cfg   *config.Config
	sched *syncpkg.Scheduler // nil when the scheduler is disabled
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, st *store.Store, c *cache.Cache, cfg *config.Config, sched *syncpkg.Scheduler) *Handler {
	return &Handler{
		pool:  pool,
		store: st,
		cache: c,
		cfg:   cfg,
		sched: sched,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	next := make([]string, 0, 2)
	for _, t := range h.sched.NextRuns() {
		next = append(next, t.Format(time.RFC3339))
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":      "Legiostat API",
		"version":   "1.0.0",
		"status":    "running",
		"scheduler": h.sched.Enabled(),
		"next_runs": next,
	})
}

// HealthCheck reports service, database, cache, and scheduler status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"database":          "connected",
		"cache":             h.cache.Stats(),
		"scheduler_running": h.sched.Running(),
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}
