package models

import "fmt"

// Match is a persisted, accepted introduction between two members.
type Match struct {
	MatchID       string `dynamodbav:"matchId" json:"matchId"`
	RequesterID   string `dynamodbav:"requesterId" json:"requesterId"`
	MatchedUserID string `dynamodbav:"matchedUserId" json:"matchedUserId"`
	RoomID        string `dynamodbav:"roomId,omitempty" json:"roomId,omitempty"`
	Status        string `dynamodbav:"status" json:"status"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for matches. Guard items enforcing
// same-day pair uniqueness share the table under the "pair#" key prefix.
const MatchesTable = "Matches"

// MatchPairKey builds the duplicate-guard key for a (requester, matched, day)
// tuple. day is expected in YYYY-MM-DD form.
func MatchPairKey(requesterID, matchedUserID, day string) string {
	return fmt.Sprintf("pair#%s#%s#%s", requesterID, matchedUserID, day)
}
