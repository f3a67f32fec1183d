package models

import "strings"

// UserProfile defines the structure for completed member profiles
type UserProfile struct {
	UserID          string   `dynamodbav:"userId" json:"userId"`
	DisplayName     string   `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	Roles           []string `dynamodbav:"roles,omitempty" json:"roles,omitempty"`
	Interests       []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	ConnectionGoals []string `dynamodbav:"connectionGoals,omitempty" json:"connectionGoals,omitempty"`
	Events          []string `dynamodbav:"events,omitempty" json:"events,omitempty"`
	Notifications   string   `dynamodbav:"notifications,omitempty" json:"notifications,omitempty"`
	IsComplete      bool     `dynamodbav:"isComplete,omitempty" json:"isComplete,omitempty"`
}

// OptedOut reports whether the member has declined introductions.
func (p UserProfile) OptedOut() bool {
	pref := strings.ToLower(strings.TrimSpace(p.Notifications))
	return pref == NotificationsOptOut || pref == NotificationsNo
}

// Eligible reports whether the profile may participate in matching at all:
// it must be complete and must not have opted out of notifications.
func (p UserProfile) Eligible() bool {
	return p.UserID != "" && p.IsComplete && !p.OptedOut()
}

// UserAlias maps a raw platform identity onto the primary user identity.
type UserAlias struct {
	RawID  string `dynamodbav:"rawId" json:"rawId"`
	UserID string `dynamodbav:"userId" json:"userId"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// UserAliasesTable is the DynamoDB table name for platform identity aliases
const UserAliasesTable = "UserAliases"
