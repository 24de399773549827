package routes

import (
	"fidha_server/controllers"
	"fidha_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match-related operations under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.HandleFunc("/history", controller.GetMatchHistory).Methods("GET")
	matchRouter.HandleFunc("/{pairKey}/accept", controller.AcceptMatch).Methods("POST")
	matchRouter.HandleFunc("/{pairKey}/reject", controller.RejectMatch).Methods("POST")
}
