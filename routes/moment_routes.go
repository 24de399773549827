package routes

import (
	"fidha_server/controllers"
	"fidha_server/services"

	"github.com/gorilla/mux"
)

// RegisterMomentRoutes sets up routes for moment submissions under /api/moment
func RegisterMomentRoutes(r *mux.Router, engine *services.MatchEngine, sessions *services.SessionService, descriptions *services.DescriptionService) {
	controller := controllers.NewMomentController(engine, sessions, descriptions)

	momentRouter := r.PathPrefix("/api/moment").Subrouter()
	momentRouter.HandleFunc("/submit", controller.SubmitMoment).Methods("POST")
	momentRouter.HandleFunc("/session", controller.CreateSession).Methods("POST")
	momentRouter.HandleFunc("/sessions/active", controller.GetActiveSessions).Methods("GET")
	momentRouter.HandleFunc("/session/{sessionId}/descriptions", controller.GetSessionDescriptions).Methods("GET")
}
