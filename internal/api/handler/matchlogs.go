package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bgabor/legiostat/internal/api/respond"
	"github.com/bgabor/legiostat/internal/season"
	"github.com/bgabor/legiostat/internal/store"
)

// Matchlogs returns one player's match rows, newest first. Accepts
// ?season, ?competition, and ?limit. The season filter selects by date
// window, so national-team matches inside a club season are included.
func (h *Handler) Matchlogs(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathInt(w, r, "player_id")
	if !ok {
		return
	}
	filter, err := parseMatchFilter(r.URL.Query())
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	if _, err := h.store.GetPlayer(r.Context(), playerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", fmt.Sprintf("No player with id %d", playerID))
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load player")
		return
	}

	matches, err := h.store.MatchesForPlayer(r.Context(), playerID, filter)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Query failed")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"matches":   matches,
		"count":     len(matches),
	})
}

// MatchlogStats returns the aggregate over a player's filtered matches.
func (h *Handler) MatchlogStats(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathInt(w, r, "player_id")
	if !ok {
		return
	}
	filter, err := parseMatchFilter(r.URL.Query())
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	if _, err := h.store.GetPlayer(r.Context(), playerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", fmt.Sprintf("No player with id %d", playerID))
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load player")
		return
	}

	summary, err := h.store.SummarizeMatches(r.Context(), playerID, filter)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Query failed")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"summary":   summary,
	})
}

// GetMatch returns one match row by id.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := pathInt(w, r, "match_id")
	if !ok {
		return
	}
	m, err := h.store.GetMatch(r.Context(), matchID)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "MATCH_NOT_FOUND", fmt.Sprintf("No match with id %d", matchID))
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Query failed")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, m)
}

// parseMatchFilter builds a store.MatchFilter from query parameters.
func parseMatchFilter(q url.Values) (store.MatchFilter, error) {
	var f store.MatchFilter

	if raw := q.Get("season"); raw != "" {
		sn, err := season.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("season %q: use YYYY-YYYY, YYYY/YYYY, or YYYY", raw)
		}
		f.Season = &sn
	}
	f.Competition = q.Get("competition")
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return f, fmt.Errorf("limit %q: must be a positive integer", raw)
		}
		f.Limit = n
	}
	return f, nil
}
