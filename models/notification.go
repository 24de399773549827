package models

// NotificationRecord is the stored copy of every push we attempt, so the app
// can render a notification inbox even when the push itself was dropped.
type NotificationRecord struct {
	UserID         string            `dynamodbav:"userId" json:"userId"`
	NotificationID string            `dynamodbav:"notificationId" json:"notificationId"`
	Title          string            `dynamodbav:"title" json:"title"`
	Body           string            `dynamodbav:"body" json:"body"`
	Data           map[string]string `dynamodbav:"data,omitempty" json:"data,omitempty"`
	CreatedAt      string            `dynamodbav:"createdAt" json:"createdAt"`
	Read           bool              `dynamodbav:"read" json:"read"`
}

// NotificationsTable is the DynamoDB table name for stored notifications
const NotificationsTable = "Notifications"
