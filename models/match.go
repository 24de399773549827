package models

// Match links two users whose outfit descriptions scored above the match
// threshold. PairKey is a deterministic key derived from the sorted user pair
// plus a time bucket; a conditional put on it guarantees at most one live
// match per pair per window even when both sides submit concurrently.
type Match struct {
	PairKey        string  `dynamodbav:"pairKey" json:"pairKey"`
	MatchID        string  `dynamodbav:"matchId" json:"matchId"`
	User1ID        string  `dynamodbav:"user1Id" json:"user1Id"` // user1Id < user2Id by convention
	User2ID        string  `dynamodbav:"user2Id" json:"user2Id"`
	Description1ID string  `dynamodbav:"description1Id" json:"description1Id"`
	Description2ID string  `dynamodbav:"description2Id" json:"description2Id"`
	Score          float64 `dynamodbav:"score" json:"score"`
	CreatedAt      string  `dynamodbav:"createdAt" json:"createdAt"`
	Status         string  `dynamodbav:"status" json:"status"` // pending, matched, rejected, expired
	ChatID         string  `dynamodbav:"chatId,omitempty" json:"chatId,omitempty"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// MatchUserIndex is the GSI for querying matches by participant
const MatchUserIndex = "user1Id-index"
