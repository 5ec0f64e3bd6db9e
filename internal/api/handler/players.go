package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bgabor/legiostat/internal/api/respond"
	"github.com/bgabor/legiostat/internal/cache"
	"github.com/bgabor/legiostat/internal/store"
)

// ListPlayers returns the full roster.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, "players:all", cache.TTLRoster, func() (interface{}, error) {
		players, err := h.store.ListPlayers(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"players": players, "count": len(players)}, nil
	})
}

// GetPlayer returns one roster member by id.
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	p, err := h.store.GetPlayer(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "No player with id "+chi.URLParam(r, "id"))
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load player")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, p)
}

// ListCompetitionStats returns every field-player stat row.
func (h *Handler) ListCompetitionStats(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, "stats:competition", cache.TTLCurrentSeason, func() (interface{}, error) {
		stats, err := h.store.ListCompetitionStats(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"stats": stats, "count": len(stats)}, nil
	})
}

// ListGoalkeeperStats returns every goalkeeper stat row.
func (h *Handler) ListGoalkeeperStats(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, "stats:goalkeeper", cache.TTLCurrentSeason, func() (interface{}, error) {
		stats, err := h.store.ListGoalkeeperStats(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"stats": stats, "count": len(stats)}, nil
	})
}

// ListMatches returns every match row.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, "stats:matches", cache.TTLMatchlogs, func() (interface{}, error) {
		matches, err := h.store.ListMatches(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"matches": matches, "count": len(matches)}, nil
	})
}

// cachedList serves a list endpoint through the cache: marshal once,
// honor If-None-Match, store bytes with the key's TTL.
func (h *Handler) cachedList(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, load func() (interface{}, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := load()
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Query failed")
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Encoding failed")
		return
	}

	etag := h.cache.Set(key, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// pathInt parses an integer URL parameter, writing a 400 on failure.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", name+" must be an integer")
		return 0, false
	}
	return v, true
}
