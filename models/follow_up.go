package models

// FollowUp is a scheduled reminder owned by a match. Two are created per
// match, one per type, and transition pending -> sent when dispatched.
type FollowUp struct {
	FollowUpID   string `dynamodbav:"followUpId" json:"followUpId"`
	MatchID      string `dynamodbav:"matchId" json:"matchId"`
	UserID       string `dynamodbav:"userId" json:"userId"`
	Type         string `dynamodbav:"type" json:"type"`
	ScheduledFor string `dynamodbav:"scheduledFor" json:"scheduledFor"`
	SentAt       string `dynamodbav:"sentAt,omitempty" json:"sentAt,omitempty"`
	Status       string `dynamodbav:"status" json:"status"`
	Response     string `dynamodbav:"response,omitempty" json:"response,omitempty"`
}

// FollowUpsTable is the DynamoDB table name for follow-ups
const FollowUpsTable = "FollowUps"

// FollowUpStatusIndex is the GSI used to pull due follow-ups
// (partition key: status, sort key: scheduledFor).
const FollowUpStatusIndex = "status-scheduledFor-index"
