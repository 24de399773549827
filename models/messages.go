package models

// ChatMessage is a single message inside a match chat. The first message of
// every chat is a system-authored seed.
type ChatMessage struct {
	ChatID    string `dynamodbav:"chatId" json:"chatId"`
	MessageID string `dynamodbav:"messageId" json:"messageId"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Content   string `dynamodbav:"content" json:"content"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	IsUnread  bool   `dynamodbav:"isUnread" json:"isUnread"`
}

// SystemSenderID authors seed messages on freshly created chats.
const SystemSenderID = "system"

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
