package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"fidha_server/models"
	"fidha_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// SessionService owns the DiscoverySession lifecycle. Sessions are created
// when a user starts a discovery attempt and flipped to expired by the
// sweeper; they are retained for history, never deleted.
type SessionService struct {
	Dynamo *DynamoService
	Window time.Duration
}

// CreateDiscoverySession persists a new active session expiring one match
// window from now.
func (s *SessionService) CreateDiscoverySession(ctx context.Context, userID, anonymousID string, location models.Location, now time.Time) (*models.DiscoverySession, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if location.Latitude == 0 && location.Longitude == 0 {
		return nil, ErrMissingLocation
	}

	session := models.DiscoverySession{
		SessionID:   uuid.New().String(),
		UserID:      userID,
		AnonymousID: anonymousID,
		CreatedAt:   now.UTC().Format(time.RFC3339),
		ExpiresAt:   now.UTC().Add(s.Window).Format(time.RFC3339),
		Location:    location,
		Status:      models.SessionStatusActive,
	}

	if err := s.Dynamo.PutItem(ctx, models.DiscoverySessionsTable, session); err != nil {
		return nil, fmt.Errorf("failed to create discovery session: %w", err)
	}

	log.Printf("Created discovery session %s for user %s", session.SessionID, userID)
	return &session, nil
}

// GetSession fetches a session by ID. Returns nil when it does not exist.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*models.DiscoverySession, error) {
	key := map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.DiscoverySessionsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var session models.DiscoverySession
	if err := attributevalue.UnmarshalMap(item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// FindActiveWithinWindow returns active sessions created at or after
// now - window.
func (s *SessionService) FindActiveWithinWindow(ctx context.Context, now time.Time, window time.Duration) ([]models.DiscoverySession, error) {
	cutoff := now.UTC().Add(-window).Format(time.RFC3339)

	var sessions []models.DiscoverySession
	err := s.Dynamo.ScanWithFilter(ctx, models.DiscoverySessionsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "createdAt") >= cutoff
	}, map[string]string{"status": models.SessionStatusExpired}, &sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active sessions: %w", err)
	}

	return sessions, nil
}

// FindExpirable returns active sessions whose expiresAt has passed.
func (s *SessionService) FindExpirable(ctx context.Context, now time.Time) ([]models.DiscoverySession, error) {
	deadline := now.UTC().Format(time.RFC3339)

	var sessions []models.DiscoverySession
	err := s.Dynamo.ScanWithFilter(ctx, models.DiscoverySessionsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "expiresAt") <= deadline
	}, map[string]string{"status": models.SessionStatusExpired}, &sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expirable sessions: %w", err)
	}

	return sessions, nil
}

// ExpireBatch flips a set of sessions to expired in one batch write.
func (s *SessionService) ExpireBatch(ctx context.Context, sessions []models.DiscoverySession) error {
	if len(sessions) == 0 {
		return nil
	}

	writeRequests := make([]types.WriteRequest, 0, len(sessions))
	for _, session := range sessions {
		session.Status = models.SessionStatusExpired
		item, err := attributevalue.MarshalMap(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session %s: %w", session.SessionID, err)
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	return s.Dynamo.BatchWriteItems(ctx, models.DiscoverySessionsTable, writeRequests)
}

// MarkExpired transitions a session to expired. Idempotent: already-expired
// sessions are left alone.
func (s *SessionService) MarkExpired(ctx context.Context, sessionID string) error {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.Status == models.SessionStatusExpired {
		return nil
	}

	key := map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}
	updateExpression := "SET #status = :expired"
	expressionValues := map[string]types.AttributeValue{
		":expired": &types.AttributeValueMemberS{Value: models.SessionStatusExpired},
	}
	expressionNames := map[string]string{
		"#status": "status",
	}

	_, err = s.Dynamo.UpdateItem(ctx, models.DiscoverySessionsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}
