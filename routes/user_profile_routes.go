package routes

import (
	"fidha_server/controllers"
	"fidha_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profile operations under /api/profile
func RegisterUserProfileRoutes(r *mux.Router, profileService *services.UserProfileService, notificationService *services.NotificationService) {
	controller := controllers.NewUserProfileController(profileService, notificationService)

	profileRouter := r.PathPrefix("/api/profile").Subrouter()
	profileRouter.HandleFunc("", controller.AddProfile).Methods("POST")
	profileRouter.HandleFunc("/{userId}", controller.GetProfile).Methods("GET")
	profileRouter.HandleFunc("/{userId}/presence", controller.UpdatePresence).Methods("PATCH")
	profileRouter.HandleFunc("/{userId}/avatar", controller.SetAvatar).Methods("POST")
	profileRouter.HandleFunc("/{userId}/notifications", controller.GetNotifications).Methods("GET")
}
