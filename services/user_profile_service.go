package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hyyq_server/models"
)

// UserDirectory resolves a verified user id to the account record behind
// it. Account management lives in a separate service; the match engine
// only ever reads.
type UserDirectory interface {
	Lookup(ctx context.Context, userID string) (*models.UserProfile, error)
}

// StaticUserDirectory serves a fixed set of profiles. Used by tests and
// by local development without AWS.
type StaticUserDirectory map[string]models.UserProfile

func (d StaticUserDirectory) Lookup(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, ok := d[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &profile, nil
}

// UserProfileService reads user accounts from the UserProfiles table.
type UserProfileService struct {
	Dynamo *DynamoService
}

// Lookup retrieves a user profile by ID
func (ups *UserProfileService) Lookup(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}
