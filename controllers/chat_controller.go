package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fidha_server/models"
	"fidha_server/services"
)

// ChatController handles HTTP requests for chat messages
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController creates a new ChatController instance
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// GetMessages handles fetching messages for a chat
func (cc *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chatId")
	if chatID == "" {
		http.Error(w, "chatId is required", http.StatusBadRequest)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := cc.ChatService.GetMessagesByChatID(r.Context(), chatID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"messages": messages,
	})
}

// SendMessage handles storing a new chat message
func (cc *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID      string `json:"chatId"`
		SenderID    string `json:"senderId"`
		RecipientID string `json:"recipientId"`
		Content     string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.ChatID == "" || payload.SenderID == "" || payload.Content == "" {
		http.Error(w, "chatId, senderId and content are required", http.StatusBadRequest)
		return
	}

	message := models.ChatMessage{
		ChatID:   payload.ChatID,
		SenderID: payload.SenderID,
		Content:  payload.Content,
	}

	stored, err := cc.ChatService.SendMessage(r.Context(), message, payload.RecipientID)
	if err != nil {
		http.Error(w, "Failed to store message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(stored)
}

// MarkAsRead marks the messages a user received in a chat as read
func (cc *ChatController) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID string `json:"chatId"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.ChatID == "" || payload.UserID == "" {
		http.Error(w, "chatId and userId are required", http.StatusBadRequest)
		return
	}

	if err := cc.ChatService.MarkMessagesAsRead(r.Context(), payload.ChatID, payload.UserID); err != nil {
		http.Error(w, "Failed to mark messages as read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Messages marked as read"})
}
