package services

import (
	"context"
	"fmt"
	"time"

	"fidha_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserProfileService struct {
	Dynamo *DynamoService
}

// AddUserProfile adds a new user profile to DynamoDB
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.UserID == "" {
		return nil, ErrMissingUser
	}
	if profile.CreatedAt == "" {
		profile.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	profile.LastActive = time.Now().UTC().Format(time.RFC3339)

	err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID. Returns nil when absent.
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// UpdatePresence records whether the user is currently online and bumps
// lastActive.
func (ups *UserProfileService) UpdatePresence(ctx context.Context, userID string, isOnline bool) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "SET isOnline = :isOnline, lastActive = :lastActive"
	expressionValues := map[string]types.AttributeValue{
		":isOnline":   &types.AttributeValueMemberBOOL{Value: isOnline},
		":lastActive": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	_, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, nil)
	return err
}

// SetAvatarKey stores the S3 object key of the user's uploaded avatar.
func (ups *UserProfileService) SetAvatarKey(ctx context.Context, userID, avatarKey string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "SET avatarKey = :avatarKey"
	expressionValues := map[string]types.AttributeValue{
		":avatarKey": &types.AttributeValueMemberS{Value: avatarKey},
	}

	_, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, nil)
	return err
}
