package services

import (
	"context"
	"time"

	"linkup_server/models"
)

// The services are storage-agnostic behind these narrow contracts. The
// production implementations live in dynamo_stores.go and
// user_profile_service.go; tests substitute in-memory fakes.

// ProfileStore reads completed profiles and resolves platform identities.
type ProfileStore interface {
	// ListEligibleProfiles returns all complete, not-opted-out profiles,
	// excluding the given user. Malformed rows are skipped, never fatal.
	ListEligibleProfiles(ctx context.Context, excluding string) ([]models.UserProfile, error)

	// ResolvePrimaryIdentity collapses a raw platform identity into the
	// primary user identity. Unknown identities resolve to themselves.
	ResolvePrimaryIdentity(ctx context.Context, rawID string) (string, error)
}

// MatchStore persists matches and their follow-ups.
type MatchStore interface {
	// InsertMatchWithFollowUps writes the match and its follow-ups in one
	// atomic unit. A same-day duplicate for the pair yields
	// ErrDuplicateMatch.
	InsertMatchWithFollowUps(ctx context.Context, match models.Match, followUps []models.FollowUp) error

	GetMatch(ctx context.Context, matchID string) (*models.Match, error)

	UpdateMatchStatus(ctx context.Context, matchID, status string) error
}

// FollowUpStore surfaces and mutates scheduled follow-ups.
type FollowUpStore interface {
	// DueFollowUps returns pending follow-ups scheduled at or before now.
	// A not-yet-migrated store fails soft with an empty list.
	DueFollowUps(ctx context.Context, now time.Time) ([]models.FollowUp, error)

	// MarkSent transitions pending -> sent, recording sentAt. It is a
	// conditional update: a follow-up no longer pending is left untouched
	// so overlapping polls stay idempotent.
	MarkSent(ctx context.Context, followUpID string, sentAt time.Time) error

	// RecordResponse stores the member's free-text reply and returns the
	// updated follow-up.
	RecordResponse(ctx context.Context, followUpID, response string) (*models.FollowUp, error)
}

// RequestStore persists the match request state machine.
type RequestStore interface {
	// InsertRequest creates a pending request. A second active request for
	// the same ordered pair yields ErrRequestAlreadyActive.
	InsertRequest(ctx context.Context, req models.MatchRequest) error

	GetRequest(ctx context.Context, requestID string) (*models.MatchRequest, error)

	// TransitionRequest moves a request from one status to another,
	// conditionally on the current status. A lost race yields
	// ErrRequestNotPending.
	TransitionRequest(ctx context.Context, req models.MatchRequest, from, to string, respondedAt time.Time) error

	ListRequestsForUser(ctx context.Context, userID string) ([]models.MatchRequest, error)
}

// Notifier dispatches a due follow-up to the external messaging
// collaborator. Implementations must be safe to call repeatedly.
type Notifier interface {
	NotifyFollowUp(ctx context.Context, followUp models.FollowUp) error
}
