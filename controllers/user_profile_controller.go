package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"fidha_server/models"
	"fidha_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for user profiles
type UserProfileController struct {
	ProfileService      *services.UserProfileService
	NotificationService *services.NotificationService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(profileService *services.UserProfileService, notificationService *services.NotificationService) *UserProfileController {
	return &UserProfileController{ProfileService: profileService, NotificationService: notificationService}
}

// AddProfile handles registering or replacing a user profile
func (pc *UserProfileController) AddProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	stored, err := pc.ProfileService.AddUserProfile(r.Context(), profile)
	if err != nil {
		if services.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to store profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(stored)
}

// GetProfile handles fetching a user profile, enriched with a presigned
// avatar read URL when one is stored.
func (pc *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := pc.ProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	avatarURL := ""
	if profile.AvatarKey != "" {
		avatarURL, err = services.GenerateReadURL(profile.AvatarKey)
		if err != nil {
			log.Printf("Failed to presign avatar URL for user %s: %v", userID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profile":   profile,
		"avatarUrl": avatarURL,
	})
}

// UpdatePresence handles online/offline presence updates
func (pc *UserProfileController) UpdatePresence(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var payload struct {
		IsOnline bool `json:"isOnline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := pc.ProfileService.UpdatePresence(r.Context(), userID, payload.IsOnline); err != nil {
		http.Error(w, "Failed to update presence", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Presence updated"})
}

// SetAvatar handles assigning an uploaded S3 object as the user's avatar
func (pc *UserProfileController) SetAvatar(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := pc.ProfileService.SetAvatarKey(r.Context(), userID, payload.Key); err != nil {
		http.Error(w, "Failed to set avatar", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Avatar updated"})
}

// GetNotifications handles fetching a user's stored notifications
func (pc *UserProfileController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	limit := int32(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = int32(parsed)
		}
	}

	notifications, err := pc.NotificationService.GetUserNotifications(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications": notifications,
	})
}
