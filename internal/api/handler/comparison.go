package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bgabor/legiostat/internal/api/respond"
	"github.com/bgabor/legiostat/internal/model"
	"github.com/bgabor/legiostat/internal/season"
	"github.com/bgabor/legiostat/internal/store"
)

// PlayerSeasonStats returns one player's cross-competition aggregate for
// a season. ?season defaults to the current season.
func (h *Handler) PlayerSeasonStats(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	sn, err := seasonOrCurrent(r.URL.Query().Get("season"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON", err.Error())
		return
	}

	p, err := h.store.GetPlayer(r.Context(), playerID)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", fmt.Sprintf("No player with id %d", playerID))
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load player")
		return
	}

	stats, err := h.aggregateFor(r, p, sn)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Aggregation failed")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"player": p,
		"season": sn.Label(),
		"stats":  stats,
	})
}

// Compare returns side-by-side season aggregates for two players. Mixed
// goalkeeper/field comparisons are rejected before any aggregation.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id1, err1 := queryInt(q.Get("player1_id"))
	id2, err2 := queryInt(q.Get("player2_id"))
	if err1 != nil || err2 != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "player1_id and player2_id must be integers")
		return
	}
	sn, err := seasonOrCurrent(q.Get("season"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON", err.Error())
		return
	}

	p1, err := h.loadPlayer(w, r, id1)
	if err != nil {
		return
	}
	p2, err := h.loadPlayer(w, r, id2)
	if err != nil {
		return
	}

	if p1.IsGoalkeeper != p2.IsGoalkeeper {
		respond.WriteError(w, http.StatusBadRequest, "PLAYER_TYPE_MISMATCH",
			"Cannot compare a goalkeeper with an outfield player")
		return
	}

	stats1, err := h.aggregateFor(r, p1, sn)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Aggregation failed")
		return
	}
	stats2, err := h.aggregateFor(r, p2, sn)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Aggregation failed")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"season":      sn.Label(),
		"player_type": playerType(p1.IsGoalkeeper),
		"player1":     map[string]interface{}{"player": p1, "stats": stats1},
		"player2":     map[string]interface{}{"player": p2, "stats": stats2},
	})
}

// AvailableStats lists the comparable stat fields for a player type.
func (h *Handler) AvailableStats(w http.ResponseWriter, r *http.Request) {
	pt := r.URL.Query().Get("player_type")
	if pt == "" {
		pt = "field"
	}
	switch pt {
	case "field", "goalkeeper":
	default:
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PLAYER_TYPE",
			"player_type must be 'field' or 'goalkeeper'")
		return
	}

	stats := fieldStatCatalog
	if pt == "goalkeeper" {
		stats = keeperStatCatalog
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"player_type": pt,
		"stats":       stats,
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (h *Handler) loadPlayer(w http.ResponseWriter, r *http.Request, id int) (*model.Player, error) {
	p, err := h.store.GetPlayer(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", fmt.Sprintf("No player with id %d", id))
		return nil, err
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load player")
		return nil, err
	}
	return p, nil
}

func (h *Handler) aggregateFor(r *http.Request, p *model.Player, sn season.Season) (interface{}, error) {
	if p.IsGoalkeeper {
		return h.store.AggregateKeeperSeason(r.Context(), p.ID, sn)
	}
	return h.store.AggregateFieldSeason(r.Context(), p.ID, sn)
}

// seasonOrCurrent parses the season query parameter, defaulting to the
// current season when absent.
func seasonOrCurrent(raw string) (season.Season, error) {
	if raw == "" {
		return season.Current(time.Now()), nil
	}
	sn, err := season.Parse(raw)
	if err != nil {
		return season.Season{}, fmt.Errorf("season %q: use YYYY-YYYY, YYYY/YYYY, or YYYY", raw)
	}
	return sn, nil
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing")
	}
	return strconv.Atoi(raw)
}

func playerType(isGoalkeeper bool) string {
	if isGoalkeeper {
		return "goalkeeper"
	}
	return "field"
}

// StatField describes one comparable stat for the catalog endpoint.
type StatField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Per90    bool   `json:"per90"`
	Inverted bool   `json:"inverted"` // lower is better
}

var fieldStatCatalog = []StatField{
	{Name: "games", Label: "Matches Played"},
	{Name: "games_starts", Label: "Starts"},
	{Name: "minutes", Label: "Minutes"},
	{Name: "goals", Label: "Goals", Per90: true},
	{Name: "assists", Label: "Assists", Per90: true},
	{Name: "xg", Label: "Expected Goals", Per90: true},
	{Name: "npxg", Label: "Non-Penalty xG", Per90: true},
	{Name: "xa", Label: "Expected Assists", Per90: true},
	{Name: "penalty_goals", Label: "Penalty Goals"},
	{Name: "shots", Label: "Shots", Per90: true},
	{Name: "shots_on_target", Label: "Shots on Target", Per90: true},
	{Name: "yellow_cards", Label: "Yellow Cards", Inverted: true},
	{Name: "red_cards", Label: "Red Cards", Inverted: true},
}

var keeperStatCatalog = []StatField{
	{Name: "games", Label: "Matches Played"},
	{Name: "games_starts", Label: "Starts"},
	{Name: "minutes", Label: "Minutes"},
	{Name: "goals_against", Label: "Goals Against", Per90: true, Inverted: true},
	{Name: "shots_on_target_against", Label: "Shots on Target Against"},
	{Name: "saves", Label: "Saves"},
	{Name: "save_percentage", Label: "Save %"},
	{Name: "clean_sheets", Label: "Clean Sheets"},
	{Name: "wins", Label: "Wins"},
	{Name: "draws", Label: "Draws"},
	{Name: "losses", Label: "Losses", Inverted: true},
}
