package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fidha_server/models"
	"fidha_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for match-related actions
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// GetMatchHistory handles fetching a user's matches, newest first
func (mc *MatchController) GetMatchHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	limit := int32(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = int32(parsed)
		}
	}

	matches, err := mc.MatchService.GetUserMatches(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"matches": matches,
	})
}

// AcceptMatch handles a user accepting a match
func (mc *MatchController) AcceptMatch(w http.ResponseWriter, r *http.Request) {
	mc.updateMatchStatus(w, r, models.MatchStatusMatched)
}

// RejectMatch handles a user rejecting a match
func (mc *MatchController) RejectMatch(w http.ResponseWriter, r *http.Request) {
	mc.updateMatchStatus(w, r, models.MatchStatusRejected)
}

func (mc *MatchController) updateMatchStatus(w http.ResponseWriter, r *http.Request, newStatus string) {
	pairKey := mux.Vars(r)["pairKey"]
	if pairKey == "" {
		http.Error(w, "pairKey is required", http.StatusBadRequest)
		return
	}

	match, err := mc.MatchService.UpdateStatus(r.Context(), pairKey, newStatus)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMatchNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrMatchNotActionable):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to update match", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(match)
}
