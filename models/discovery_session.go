package models

// Location is a device-reported coordinate fix.
type Location struct {
	Latitude  float64 `dynamodbav:"latitude" json:"latitude"`
	Longitude float64 `dynamodbav:"longitude" json:"longitude"`
	Accuracy  float64 `dynamodbav:"accuracy,omitempty" json:"accuracy,omitempty"`
}

// DiscoverySession is a bounded-time window during which a user is actively
// looking for the person who noticed them. Sessions are never deleted, only
// flipped to expired.
type DiscoverySession struct {
	SessionID   string   `dynamodbav:"sessionId" json:"sessionId"`
	UserID      string   `dynamodbav:"userId" json:"userId"`
	AnonymousID string   `dynamodbav:"anonymousId" json:"anonymousId"`
	CreatedAt   string   `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt   string   `dynamodbav:"expiresAt" json:"expiresAt"`
	Location    Location `dynamodbav:"location" json:"location"`
	Status      string   `dynamodbav:"status" json:"status"` // active, expired
}

// DiscoverySessionsTable is the DynamoDB table name for discovery sessions
const DiscoverySessionsTable = "DiscoverySessions"
