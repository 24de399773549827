package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"fidha_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// InitializeSNSClient initializes the SNS client used for push delivery
func InitializeSNSClient() *sns.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return sns.NewFromConfig(cfg)
}

// NotificationService delivers best-effort pushes through SNS platform
// endpoints and keeps a stored copy of every notification for the in-app
// inbox.
type NotificationService struct {
	Dynamo   *DynamoService
	SNS      *sns.Client
	Profiles *UserProfileService
}

// Notify stores the notification and attempts push delivery. Push failures
// are returned so callers can log them, but the stored record is kept either
// way.
func (s *NotificationService) Notify(ctx context.Context, userID, title, body string, data map[string]string) error {
	record := models.NotificationRecord{
		UserID:         userID,
		NotificationID: uuid.New().String(),
		Title:          title,
		Body:           body,
		Data:           data,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		Read:           false,
	}
	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, record); err != nil {
		return fmt.Errorf("failed to store notification for user %s: %w", userID, err)
	}

	return s.push(ctx, userID, title, body, data)
}

func (s *NotificationService) push(ctx context.Context, userID, title, body string, data map[string]string) error {
	if s.SNS == nil || s.Profiles == nil {
		return nil
	}

	profile, err := s.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up push target for user %s: %w", userID, err)
	}
	if profile == nil || profile.PushToken == "" {
		log.Printf("No push token registered for user %s, skipping push", userID)
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title": title,
		"body":  body,
		"data":  data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	_, err = s.SNS.Publish(ctx, &sns.PublishInput{
		TargetArn: aws.String(profile.PushToken),
		Message:   aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("failed to publish push for user %s: %w", userID, err)
	}

	return nil
}

// GetUserNotifications returns a user's stored notifications, newest first.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID string, limit int32) ([]models.NotificationRecord, error) {
	keyCondition := "#userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}
	expressionNames := map[string]string{
		"#userId": "userId",
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.NotificationsTable, "", keyCondition, expressionValues, expressionNames, limit, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications for user %s: %w", userID, err)
	}

	var notifications []models.NotificationRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notifications: %w", err)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt > notifications[j].CreatedAt
	})
	return notifications, nil
}
