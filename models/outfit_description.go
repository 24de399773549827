package models

// OutfitDescription records one user's account of what a stranger was wearing.
// Descriptions are append-only: a user who changes their mind submits a new
// one, the old record is never mutated.
type OutfitDescription struct {
	DescriptionID string   `dynamodbav:"descriptionId" json:"descriptionId"`
	SessionID     string   `dynamodbav:"sessionId,omitempty" json:"sessionId,omitempty"`
	AuthorUserID  string   `dynamodbav:"authorUserId" json:"authorUserId"`
	TargetUserID  string   `dynamodbav:"targetUserId,omitempty" json:"targetUserId,omitempty"` // empty when the author doesn't know who they saw
	Clothing      []string `dynamodbav:"clothing" json:"clothing"`
	Accessories   []string `dynamodbav:"accessories" json:"accessories"`
	Activity      []string `dynamodbav:"activity" json:"activity"`
	Colors        []string `dynamodbav:"colors" json:"colors"`
	CreatedAt     string   `dynamodbav:"createdAt" json:"createdAt"`
	Location      Location `dynamodbav:"location" json:"location"`
}

// OutfitDescriptionsTable is the DynamoDB table name for outfit descriptions
const OutfitDescriptionsTable = "OutfitDescriptions"

// AuthorIndex is the GSI for querying descriptions by authorUserId
const AuthorIndex = "authorUserId-index"
