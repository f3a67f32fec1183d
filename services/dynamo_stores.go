package services

import (
	"context"
	"fmt"
	"time"

	"linkup_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DynamoMatchStore persists matches and follow-ups in DynamoDB.
type DynamoMatchStore struct {
	Dynamo *DynamoService
	Logger *zap.Logger
}

// InsertMatchWithFollowUps writes the duplicate guard, the match, and both
// follow-ups in a single TransactWriteItems call. The guard item carries the
// (requester, matched, day) pair key and makes the whole transaction fail
// when the pair was already matched today.
func (s *DynamoMatchStore) InsertMatchWithFollowUps(ctx context.Context, match models.Match, followUps []models.FollowUp) error {
	createdAt, err := time.Parse(time.RFC3339, match.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid match createdAt: %w", err)
	}
	day := createdAt.UTC().Format("2006-01-02")

	guard := map[string]types.AttributeValue{
		"matchId":   &types.AttributeValueMemberS{Value: models.MatchPairKey(match.RequesterID, match.MatchedUserID, day)},
		"createdAt": &types.AttributeValueMemberS{Value: match.CreatedAt},
	}

	matchItem, err := MarshalItem(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	writes := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:           aws.String(models.MatchesTable),
			Item:                guard,
			ConditionExpression: AttributeNotExists("matchId"),
		}},
		{Put: &types.Put{
			TableName: aws.String(models.MatchesTable),
			Item:      matchItem,
		}},
	}

	for _, fu := range followUps {
		item, err := MarshalItem(fu)
		if err != nil {
			return fmt.Errorf("failed to marshal follow-up: %w", err)
		}
		writes = append(writes, types.TransactWriteItem{Put: &types.Put{
			TableName: aws.String(models.FollowUpsTable),
			Item:      item,
		}})
	}

	if err := s.Dynamo.TransactWriteItems(ctx, writes); err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrDuplicateMatch
		}
		return err
	}

	s.Logger.Info("match recorded",
		zap.String("match_id", match.MatchID),
		zap.String("requester_id", match.RequesterID),
		zap.String("matched_user_id", match.MatchedUserID),
		zap.Int("follow_ups", len(followUps)),
	)
	return nil
}

// GetMatch retrieves a match by ID.
func (s *DynamoMatchStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, StringKey("matchId", matchID))
	if err != nil {
		return nil, err
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match '%s': %w", matchID, err)
	}
	return &match, nil
}

// UpdateMatchStatus sets the match status. The existence condition keeps an
// unconditional UpdateItem from upserting a phantom row for an unknown ID.
func (s *DynamoMatchStore) UpdateMatchStatus(ctx context.Context, matchID, status string) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable,
		"SET #status = :status",
		"attribute_exists(matchId)",
		StringKey("matchId", matchID),
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to update match status: %w", err)
	}
	return nil
}

// DynamoFollowUpStore persists follow-up state in DynamoDB.
type DynamoFollowUpStore struct {
	Dynamo *DynamoService
	Logger *zap.Logger
}

// DueFollowUps queries the status GSI for pending follow-ups scheduled at or
// before now. A missing table (fresh deployment before migration) fails soft
// to an empty list.
func (s *DynamoFollowUpStore) DueFollowUps(ctx context.Context, now time.Time) ([]models.FollowUp, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx,
		models.FollowUpsTable,
		models.FollowUpStatusIndex,
		"#status = :pending AND scheduledFor <= :now",
		map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: models.FollowUpStatusPending},
			":now":     &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
		},
		map[string]string{"#status": "status"},
		100,
	)
	if err != nil {
		if IsTableNotFound(err) {
			s.Logger.Warn("follow-up table not migrated yet, returning empty due list")
			return []models.FollowUp{}, nil
		}
		return nil, fmt.Errorf("failed to fetch due follow-ups: %w", err)
	}

	followUps := make([]models.FollowUp, 0, len(items))
	for _, item := range items {
		var fu models.FollowUp
		if err := attributevalue.UnmarshalMap(item, &fu); err != nil {
			s.Logger.Warn("skipping malformed follow-up row", zap.Error(err))
			continue
		}
		followUps = append(followUps, fu)
	}
	return followUps, nil
}

// MarkSent transitions pending -> sent. The conditional update makes
// overlapping polls race-safe: only one of them affects the row, the other
// sees a failed condition and treats it as already handled.
func (s *DynamoFollowUpStore) MarkSent(ctx context.Context, followUpID string, sentAt time.Time) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx,
		models.FollowUpsTable,
		"SET #status = :sent, sentAt = :sentAt",
		"#status = :pending",
		StringKey("followUpId", followUpID),
		map[string]types.AttributeValue{
			":sent":    &types.AttributeValueMemberS{Value: models.FollowUpStatusSent},
			":sentAt":  &types.AttributeValueMemberS{Value: sentAt.UTC().Format(time.RFC3339)},
			":pending": &types.AttributeValueMemberS{Value: models.FollowUpStatusPending},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			// The condition also fails when the row does not exist at all;
			// a read separates "already handled" from "unknown follow-up".
			if _, getErr := s.Dynamo.GetItem(ctx, models.FollowUpsTable, StringKey("followUpId", followUpID)); getErr != nil {
				return getErr
			}
			return nil
		}
		return fmt.Errorf("failed to mark follow-up sent: %w", err)
	}
	return nil
}

// RecordResponse stores the member's reply on an existing follow-up. An
// unknown ID surfaces as ErrItemNotFound instead of creating a phantom row.
func (s *DynamoFollowUpStore) RecordResponse(ctx context.Context, followUpID, response string) (*models.FollowUp, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx,
		models.FollowUpsTable,
		"SET #response = :response",
		"attribute_exists(followUpId)",
		StringKey("followUpId", followUpID),
		map[string]types.AttributeValue{
			":response": &types.AttributeValueMemberS{Value: response},
		},
		map[string]string{"#response": "response"},
	)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to record follow-up response: %w", err)
	}

	var fu models.FollowUp
	if err := attributevalue.UnmarshalMap(attrs, &fu); err != nil {
		return nil, fmt.Errorf("failed to unmarshal follow-up '%s': %w", followUpID, err)
	}
	return &fu, nil
}

// DynamoRequestStore persists match requests in DynamoDB.
type DynamoRequestStore struct {
	Dynamo *DynamoService
	Logger *zap.Logger
}

// InsertRequest writes the pair-uniqueness guard and the request in one
// transaction. The guard exists exactly while a pending request does.
func (s *DynamoRequestStore) InsertRequest(ctx context.Context, req models.MatchRequest) error {
	guard := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: models.RequestPairGuardKey(req.RequesterID, req.RequestedID)},
		"createdAt": &types.AttributeValueMemberS{Value: req.CreatedAt},
	}

	reqItem, err := MarshalItem(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	writes := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:           aws.String(models.MatchRequestsTable),
			Item:                guard,
			ConditionExpression: AttributeNotExists("requestId"),
		}},
		{Put: &types.Put{
			TableName: aws.String(models.MatchRequestsTable),
			Item:      reqItem,
		}},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, writes); err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrRequestAlreadyActive
		}
		return err
	}
	return nil
}

// GetRequest retrieves a request by ID.
func (s *DynamoRequestStore) GetRequest(ctx context.Context, requestID string) (*models.MatchRequest, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchRequestsTable, StringKey("requestId", requestID))
	if err != nil {
		return nil, err
	}

	var req models.MatchRequest
	if err := attributevalue.UnmarshalMap(item, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request '%s': %w", requestID, err)
	}
	return &req, nil
}

// TransitionRequest conditionally moves a request between statuses and, for
// terminal transitions, releases the pair guard in the same transaction so a
// new request for the pair becomes possible.
func (s *DynamoRequestStore) TransitionRequest(ctx context.Context, req models.MatchRequest, from, to string, respondedAt time.Time) error {
	update := &types.Update{
		TableName:           aws.String(models.MatchRequestsTable),
		Key:                 StringKey("requestId", req.RequestID),
		UpdateExpression:    aws.String("SET #status = :to, respondedAt = :respondedAt"),
		ConditionExpression: aws.String("#status = :from"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":          &types.AttributeValueMemberS{Value: to},
			":from":        &types.AttributeValueMemberS{Value: from},
			":respondedAt": &types.AttributeValueMemberS{Value: respondedAt.UTC().Format(time.RFC3339)},
		},
	}

	writes := []types.TransactWriteItem{
		{Update: update},
		{Delete: &types.Delete{
			TableName: aws.String(models.MatchRequestsTable),
			Key:       StringKey("requestId", models.RequestPairGuardKey(req.RequesterID, req.RequestedID)),
		}},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, writes); err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrRequestNotPending
		}
		return fmt.Errorf("failed to transition request: %w", err)
	}
	return nil
}

// ListRequestsForUser scans requests where the user is on either side. Guard
// items are filtered out by their key prefix.
func (s *DynamoRequestStore) ListRequestsForUser(ctx context.Context, userID string) ([]models.MatchRequest, error) {
	items, err := s.Dynamo.ScanItems(ctx, models.MatchRequestsTable)
	if err != nil {
		if IsTableNotFound(err) {
			return []models.MatchRequest{}, nil
		}
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	requests := make([]models.MatchRequest, 0, len(items))
	for _, item := range items {
		var req models.MatchRequest
		if err := attributevalue.UnmarshalMap(item, &req); err != nil {
			s.Logger.Warn("skipping malformed request row", zap.Error(err))
			continue
		}
		if req.RequesterID == "" && req.RequestedID == "" {
			continue // guard item
		}
		if req.RequesterID == userID || req.RequestedID == userID {
			requests = append(requests, req)
		}
	}
	return requests, nil
}
