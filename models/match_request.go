package models

import "fmt"

// MatchRequest is an introduction request awaiting approval. At most one
// pending request may exist per ordered (requester, requested) pair.
type MatchRequest struct {
	RequestID   string  `dynamodbav:"requestId" json:"requestId"`
	RequesterID string  `dynamodbav:"requesterId" json:"requesterId"`
	RequestedID string  `dynamodbav:"requestedId" json:"requestedId"`
	PairKey     string  `dynamodbav:"pairKey" json:"pairKey"`
	Status      string  `dynamodbav:"status" json:"status"`
	Score       float64 `dynamodbav:"score" json:"score"`
	Reason      string  `dynamodbav:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt   string  `dynamodbav:"createdAt" json:"createdAt"`
	RespondedAt string  `dynamodbav:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	ExpiresAt   string  `dynamodbav:"expiresAt" json:"expiresAt"`
}

// Terminal reports whether no further transitions are permitted.
func (r MatchRequest) Terminal() bool {
	return r.Status != RequestStatusPending
}

// MatchRequestsTable is the DynamoDB table name for match requests. Guard
// items enforcing active-pair uniqueness share the table under "pair#" keys.
const MatchRequestsTable = "MatchRequests"

// RequestPairKeyIndex is the GSI over pairKey used for listing by pair.
const RequestPairKeyIndex = "pairKey-index"

// RequestPairKey builds the ordered pair key for a request.
func RequestPairKey(requesterID, requestedID string) string {
	return fmt.Sprintf("%s#%s", requesterID, requestedID)
}

// RequestPairGuardKey is the requestId used by the uniqueness guard item for
// an ordered pair. The guard exists exactly while a pending request does.
func RequestPairGuardKey(requesterID, requestedID string) string {
	return "pair#" + RequestPairKey(requesterID, requestedID)
}
