package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID      string `dynamodbav:"userId"`
	AnonymousID string `dynamodbav:"anonymousId,omitempty"`
	DisplayName string `dynamodbav:"displayName,omitempty"`
	AvatarKey   string `dynamodbav:"avatarKey,omitempty"` // S3 object key, not a URL
	PushToken   string `dynamodbav:"pushToken,omitempty"`
	IsOnline    bool   `dynamodbav:"isOnline"`
	CreatedAt   string `dynamodbav:"createdAt,omitempty"`
	LastActive  string `dynamodbav:"lastActive,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
