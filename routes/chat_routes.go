package routes

import (
	"fidha_server/controllers"
	"fidha_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/sendMessage", controller.SendMessage).Methods("POST")
	chatRouter.HandleFunc("/markAsRead", controller.MarkAsRead).Methods("POST")
}
