package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"fidha_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// seedMessageContent opens every new match chat.
const seedMessageContent = "You both noticed each other! Start a conversation about what caught your attention."

// ChatService owns the Messages table.
type ChatService struct {
	Dynamo   *DynamoService
	Notifier notifier
}

// CreateChat seeds a freshly matched chat with its system message.
func (s *ChatService) CreateChat(ctx context.Context, chatID, matchID, user1ID, user2ID string) error {
	seed := models.ChatMessage{
		ChatID:    chatID,
		MessageID: uuid.New().String(),
		SenderID:  models.SystemSenderID,
		Content:   seedMessageContent,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		IsUnread:  true,
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, seed); err != nil {
		return fmt.Errorf("failed to seed chat %s: %w", chatID, err)
	}

	log.Printf("Chat %s created for match %s", chatID, matchID)
	return nil
}

// GetMessagesByChatID fetches messages for a chat, newest first.
func (s *ChatService) GetMessagesByChatID(ctx context.Context, chatID string, limit int) ([]models.ChatMessage, error) {
	keyCondition := "#chatId = :chatId"
	expressionValues := map[string]types.AttributeValue{
		":chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	expressionNames := map[string]string{
		"#chatId": "chatId",
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.ChatMessage
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})

	return messages, nil
}

// SendMessage stores a message and pushes a best-effort notification to the
// recipient when one is named.
func (s *ChatService) SendMessage(ctx context.Context, message models.ChatMessage, recipientID string) (*models.ChatMessage, error) {
	if message.MessageID == "" {
		message.MessageID = uuid.New().String()
	}
	if message.CreatedAt == "" {
		message.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	message.IsUnread = true

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if s.Notifier != nil && recipientID != "" {
		data := map[string]string{
			"chatId":   message.ChatID,
			"senderId": message.SenderID,
			"type":     models.NotificationTypeMessage,
		}
		if err := s.Notifier.Notify(ctx, recipientID, "New Message 💬", message.Content, data); err != nil {
			log.Printf("Failed to notify %s about message in chat %s: %v", recipientID, message.ChatID, err)
		}
	}

	return &message, nil
}

// MarkMessagesAsRead marks the messages a user received in a chat as read.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, chatID, userID string) error {
	messages, err := s.GetMessagesByChatID(ctx, chatID, 100)
	if err != nil {
		return err
	}

	for _, message := range messages {
		if message.SenderID == userID || !message.IsUnread {
			continue
		}

		key := map[string]types.AttributeValue{
			"chatId":    &types.AttributeValueMemberS{Value: message.ChatID},
			"messageId": &types.AttributeValueMemberS{Value: message.MessageID},
		}
		updateExpression := "SET isUnread = :read"
		expressionValues := map[string]types.AttributeValue{
			":read": &types.AttributeValueMemberBOOL{Value: false},
		}

		if _, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, expressionValues, nil); err != nil {
			return fmt.Errorf("failed to mark message %s as read: %w", message.MessageID, err)
		}
	}

	return nil
}
