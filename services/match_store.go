package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hyyq_server/models"
)

// MatchFilter holds the predicates a match listing can narrow by. The
// equality fields are pushed down to the storage scan; Keyword is a
// case-insensitive substring over content and location and is applied in
// application code.
type MatchFilter struct {
	Status  string
	Sport   string
	Level   string
	UserID  string
	Keyword string
}

// MatchStore is the persistence boundary for match records. AddParticipant
// and RemoveParticipant must apply the capacity/membership check and the
// mutation as one atomic conditional write; a lost condition is reported as
// ErrConditionFailed.
type MatchStore interface {
	Put(ctx context.Context, m *models.Match) error
	Get(ctx context.Context, matchID string) (*models.Match, error)
	Update(ctx context.Context, matchID string, updates map[string]interface{}) (*models.Match, error)
	Delete(ctx context.Context, matchID string) error
	Scan(ctx context.Context, filter MatchFilter) ([]models.Match, error)
	AddParticipant(ctx context.Context, matchID string, p models.Participant) (*models.Match, error)
	RemoveParticipant(ctx context.Context, matchID string, userID string) (*models.Match, error)
}

// DynamoMatchStore stores matches in the Matches table.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func matchKey(matchID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
}

func (s *DynamoMatchStore) Put(ctx context.Context, m *models.Match) error {
	return s.Dynamo.PutItem(ctx, models.MatchesTable, m)
}

func (s *DynamoMatchStore) Get(ctx context.Context, matchID string) (*models.Match, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, matchKey(matchID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	var m models.Match
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &m, nil
}

// Update applies a field patch. Attribute names are always aliased to stay
// clear of DynamoDB reserved words (status, duration, location, contact).
func (s *DynamoMatchStore) Update(ctx context.Context, matchID string, updates map[string]interface{}) (*models.Match, error) {
	if len(updates) == 0 {
		return s.Get(ctx, matchID)
	}

	var clauses []string
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)
	for field, value := range updates {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field '%s': %w", field, err)
		}
		expressionAttributeNames["#"+field] = field
		expressionAttributeValues[":"+field] = av
		clauses = append(clauses, fmt.Sprintf("#%s = :%s", field, field))
	}
	updateExpression := "SET " + strings.Join(clauses, ", ")

	item, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable,
		updateExpression, "attribute_exists(matchId)",
		matchKey(matchID), expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	var m models.Match
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated match: %w", err)
	}
	return &m, nil
}

func (s *DynamoMatchStore) Delete(ctx context.Context, matchID string) error {
	return s.Dynamo.DeleteItem(ctx, models.MatchesTable, matchKey(matchID))
}

// Scan fetches every match satisfying the filter's equality predicates.
// Keyword filtering happens in the service layer.
func (s *DynamoMatchStore) Scan(ctx context.Context, filter MatchFilter) ([]models.Match, error) {
	var clauses []string
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	equals := map[string]string{
		"status": filter.Status,
		"sport":  filter.Sport,
		"level":  filter.Level,
		"userId": filter.UserID,
	}
	for field, value := range equals {
		if value == "" {
			continue
		}
		expressionAttributeNames["#"+field] = field
		expressionAttributeValues[":"+field] = &types.AttributeValueMemberS{Value: value}
		clauses = append(clauses, fmt.Sprintf("#%s = :%s", field, field))
	}

	filterExpression := strings.Join(clauses, " AND ")

	var matches []models.Match
	err := s.Dynamo.ScanAll(ctx, models.MatchesTable, filterExpression,
		expressionAttributeValues, expressionAttributeNames, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// AddParticipant appends the participant and bumps currentPeople in a
// single conditional write, so two racing joins can never both take the
// last slot.
func (s *DynamoMatchStore) AddParticipant(ctx context.Context, matchID string, p models.Participant) (*models.Match, error) {
	participantAV, err := attributevalue.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal participant: %w", err)
	}

	updateExpression := "SET participants = list_append(if_not_exists(participants, :empty), :newParticipant), " +
		"participantIds = list_append(if_not_exists(participantIds, :empty), :newId), " +
		"currentPeople = currentPeople + :one"
	conditionExpression := "attribute_exists(matchId) AND currentPeople < needPeople AND " +
		"(attribute_not_exists(participantIds) OR NOT contains(participantIds, :uid))"

	item, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable,
		updateExpression, conditionExpression, matchKey(matchID),
		map[string]types.AttributeValue{
			":empty":          &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":newParticipant": &types.AttributeValueMemberL{Value: []types.AttributeValue{participantAV}},
			":newId":          &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: p.UserID}}},
			":one":            &types.AttributeValueMemberN{Value: "1"},
			":uid":            &types.AttributeValueMemberS{Value: p.UserID},
		}, nil)
	if err != nil {
		return nil, err
	}

	var m models.Match
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated match: %w", err)
	}
	return &m, nil
}

// RemoveParticipant removes the participant slot at the index it currently
// occupies, guarded by a condition that the index still holds that user.
// Concurrent removals shift indexes, so a lost condition surfaces as
// ErrConditionFailed and the caller retries from a fresh read.
func (s *DynamoMatchStore) RemoveParticipant(ctx context.Context, matchID string, userID string) (*models.Match, error) {
	m, err := s.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, p := range m.Participants {
		if p.UserID == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("user '%s' holds no slot in match '%s': %w", userID, matchID, ErrConditionFailed)
	}

	updateExpression := fmt.Sprintf("REMOVE participants[%d], participantIds[%d] SET currentPeople = currentPeople - :one", index, index)
	conditionExpression := fmt.Sprintf("participants[%d].userId = :uid", index)

	item, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable,
		updateExpression, conditionExpression, matchKey(matchID),
		map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":uid": &types.AttributeValueMemberS{Value: userID},
		}, nil)
	if err != nil {
		return nil, err
	}

	var updated models.Match
	if err := attributevalue.UnmarshalMap(item, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated match: %w", err)
	}
	return &updated, nil
}
