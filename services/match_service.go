package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fidha_server/models"
	"fidha_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchService owns the Matches table. The engine goes through
// CreateIfAbsent so that at most one match per pair key survives concurrent
// submissions from both sides.
type MatchService struct {
	Dynamo *DynamoService
}

// PairKey derives the deterministic Matches partition key for a user pair
// inside a time bucket. The pair is sorted so both sides of a mutual
// submission compute the same key.
func PairKey(userA, userB string, at time.Time, window time.Duration) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	bucket := at.UTC().Unix() / int64(window.Seconds())
	return fmt.Sprintf("%s#%s#%d", pair[0], pair[1], bucket)
}

// SortPair returns the two user IDs in canonical (ascending) order.
func SortPair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

// CreateIfAbsent inserts a match only if its pair key is free. Returns
// ErrConditionalCheckFailed when another submission already created the
// match for this pair and bucket.
func (s *MatchService) CreateIfAbsent(ctx context.Context, match models.Match) error {
	return s.Dynamo.PutItemIfAbsent(ctx, models.MatchesTable, "pairKey", match)
}

// GetByPairKey fetches a match by its deterministic pair key. Returns nil
// when no match exists.
func (s *MatchService) GetByPairKey(ctx context.Context, pairKey string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// GetUserMatches returns a user's matches, newest first.
func (s *MatchService) GetUserMatches(ctx context.Context, userID string, limit int32) ([]models.Match, error) {
	var matches []models.Match
	err := s.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "user1Id") == userID || utils.ExtractString(item, "user2Id") == userID
	}, nil, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches for user %s: %w", userID, err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt > matches[j].CreatedAt
	})
	if limit > 0 && int32(len(matches)) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// UpdateStatus transitions a match to a new status. Expired matches cannot
// be acted on anymore.
func (s *MatchService) UpdateStatus(ctx context.Context, pairKey, newStatus string) (*models.Match, error) {
	match, err := s.GetByPairKey(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if match.Status == models.MatchStatusExpired {
		return nil, ErrMatchNotActionable
	}

	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}
	updateExpression := "SET #status = :status"
	expressionValues := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: newStatus},
	}
	expressionNames := map[string]string{
		"#status": "status",
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return nil, err
	}

	var updated models.Match
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated match: %w", err)
	}
	return &updated, nil
}

// FindExpirable returns pending matches older than now - maxAge.
func (s *MatchService) FindExpirable(ctx context.Context, now time.Time, maxAge time.Duration) ([]models.Match, error) {
	cutoff := now.UTC().Add(-maxAge).Format(time.RFC3339)

	var matches []models.Match
	err := s.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "status") == models.MatchStatusPending &&
			utils.ExtractString(item, "createdAt") <= cutoff
	}, nil, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expirable matches: %w", err)
	}

	return matches, nil
}

// MarkExpired flips a pending match to expired. Idempotent.
func (s *MatchService) MarkExpired(ctx context.Context, pairKey string) error {
	match, err := s.GetByPairKey(ctx, pairKey)
	if err != nil {
		return err
	}
	if match == nil || match.Status != models.MatchStatusPending {
		return nil
	}

	_, err = s.UpdateStatus(ctx, pairKey, models.MatchStatusExpired)
	return err
}
