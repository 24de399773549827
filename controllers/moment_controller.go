package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fidha_server/models"
	"fidha_server/services"

	"github.com/gorilla/mux"
)

// MomentController handles moment submissions and discovery sessions.
type MomentController struct {
	Engine       *services.MatchEngine
	Sessions     *services.SessionService
	Descriptions *services.DescriptionService
}

// NewMomentController creates a new MomentController instance
func NewMomentController(engine *services.MatchEngine, sessions *services.SessionService, descriptions *services.DescriptionService) *MomentController {
	return &MomentController{Engine: engine, Sessions: sessions, Descriptions: descriptions}
}

// SubmitMoment handles an outfit description submission and returns the
// match evaluation result.
func (mc *MomentController) SubmitMoment(w http.ResponseWriter, r *http.Request) {
	var submission services.MomentSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := mc.Engine.SubmitAndEvaluate(r.Context(), submission, time.Now())
	if err != nil {
		if services.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to process submission", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// CreateSession starts a new discovery session for a user.
func (mc *MomentController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID      string          `json:"userId"`
		AnonymousID string          `json:"anonymousId"`
		Location    models.Location `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	session, err := mc.Sessions.CreateDiscoverySession(r.Context(), payload.UserID, payload.AnonymousID, payload.Location, time.Now())
	if err != nil {
		if services.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create discovery session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

// GetActiveSessions lists sessions still active inside the match window.
func (mc *MomentController) GetActiveSessions(w http.ResponseWriter, r *http.Request) {
	window := mc.Engine.Config.TimeWindow
	if v := r.URL.Query().Get("windowMinutes"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			window = time.Duration(minutes) * time.Minute
		}
	}

	sessions, err := mc.Sessions.FindActiveWithinWindow(r.Context(), time.Now(), window)
	if err != nil {
		http.Error(w, "Failed to fetch active sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": sessions,
	})
}

// GetSessionDescriptions lists the outfit descriptions submitted under a
// session, for the history view.
func (mc *MomentController) GetSessionDescriptions(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	descriptions, err := mc.Descriptions.FindBySession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Failed to fetch descriptions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"descriptions": descriptions,
	})
}
