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
)

// DescriptionService owns the append-only OutfitDescriptions table.
type DescriptionService struct {
	Dynamo *DynamoService
}

// Create persists a new outfit description.
func (s *DescriptionService) Create(ctx context.Context, description models.OutfitDescription) error {
	if err := s.Dynamo.PutItem(ctx, models.OutfitDescriptionsTable, description); err != nil {
		return fmt.Errorf("failed to store outfit description: %w", err)
	}
	log.Printf("Stored outfit description %s by user %s", description.DescriptionID, description.AuthorUserID)
	return nil
}

// FindBySession returns all descriptions submitted under a session.
func (s *DescriptionService) FindBySession(ctx context.Context, sessionID string) ([]models.OutfitDescription, error) {
	var descriptions []models.OutfitDescription
	err := s.Dynamo.ScanWithFilter(ctx, models.OutfitDescriptionsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "sessionId") == sessionID
	}, nil, &descriptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session descriptions: %w", err)
	}
	return descriptions, nil
}

// FindReciprocal returns descriptions authored by targetUserID that point
// back at authorUserID — the direct mutual-reference path.
func (s *DescriptionService) FindReciprocal(ctx context.Context, authorUserID, targetUserID string) ([]models.OutfitDescription, error) {
	keyCondition := "#author = :author"
	expressionValues := map[string]types.AttributeValue{
		":author": &types.AttributeValueMemberS{Value: targetUserID},
	}
	expressionNames := map[string]string{
		"#author": "authorUserId",
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.OutfitDescriptionsTable, models.AuthorIndex, keyCondition, expressionValues, expressionNames, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to query reciprocal descriptions: %w", err)
	}

	var descriptions []models.OutfitDescription
	if err := attributevalue.UnmarshalListOfMaps(items, &descriptions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal descriptions: %w", err)
	}

	// The GSI keys on author only; the target filter stays client-side.
	reciprocal := descriptions[:0]
	for _, d := range descriptions {
		if d.TargetUserID == authorUserID {
			reciprocal = append(reciprocal, d)
		}
	}

	return reciprocal, nil
}

// FindCandidatesWithinWindow returns descriptions created at or after
// now - window that were not authored by authorUserID and either carry no
// target or target the author. Used on the broad path when the submitter
// doesn't know who they saw.
func (s *DescriptionService) FindCandidatesWithinWindow(ctx context.Context, authorUserID string, now time.Time, window time.Duration) ([]models.OutfitDescription, error) {
	cutoff := now.UTC().Add(-window).Format(time.RFC3339)

	var descriptions []models.OutfitDescription
	err := s.Dynamo.ScanWithFilter(ctx, models.OutfitDescriptionsTable, func(item map[string]types.AttributeValue) bool {
		if utils.ExtractString(item, "createdAt") < cutoff {
			return false
		}
		if utils.ExtractString(item, "authorUserId") == authorUserID {
			return false
		}
		target := utils.ExtractString(item, "targetUserId")
		return target == "" || target == authorUserID
	}, nil, &descriptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate descriptions: %w", err)
	}

	return descriptions, nil
}
