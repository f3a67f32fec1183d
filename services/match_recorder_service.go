package services

import (
	"context"
	"fmt"
	"time"

	"linkup_server/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	checkinDelay   = 3 * 24 * time.Hour
	nextMatchDelay = 7 * 24 * time.Hour
)

// MatchRecorderService persists an accepted match together with its two
// scheduled follow-ups.
type MatchRecorderService struct {
	Matches MatchStore
	Logger  *zap.Logger

	// Now is injectable for tests.
	Now func() time.Time
}

// RecordMatch creates the match (status pending) and its follow-up pair
// (3-day check-in, 7-day next-match) in one atomic unit. A same-day repeat
// for the pair returns ErrDuplicateMatch rather than silently inserting
// twice.
func (s *MatchRecorderService) RecordMatch(ctx context.Context, requesterID, matchedUserID, roomID string) (*models.Match, []models.FollowUp, error) {
	if s.Matches == nil {
		return nil, nil, ErrStorageNotConfigured
	}
	if requesterID == "" || matchedUserID == "" {
		return nil, nil, fmt.Errorf("requester and matched user identities are required")
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	createdAt := now().UTC()

	match := models.Match{
		MatchID:       uuid.NewString(),
		RequesterID:   requesterID,
		MatchedUserID: matchedUserID,
		RoomID:        roomID,
		Status:        models.MatchStatusPending,
		CreatedAt:     createdAt.Format(time.RFC3339),
	}

	followUps := []models.FollowUp{
		{
			FollowUpID:   uuid.NewString(),
			MatchID:      match.MatchID,
			UserID:       requesterID,
			Type:         models.FollowUpTypeThreeDayCheckin,
			ScheduledFor: createdAt.Add(checkinDelay).Format(time.RFC3339),
			Status:       models.FollowUpStatusPending,
		},
		{
			FollowUpID:   uuid.NewString(),
			MatchID:      match.MatchID,
			UserID:       requesterID,
			Type:         models.FollowUpTypeSevenDayNextMatch,
			ScheduledFor: createdAt.Add(nextMatchDelay).Format(time.RFC3339),
			Status:       models.FollowUpStatusPending,
		},
	}

	if err := s.Matches.InsertMatchWithFollowUps(ctx, match, followUps); err != nil {
		return nil, nil, err
	}

	return &match, followUps, nil
}

// UpdateStatus applies a follow-up-driven status change to a match. The
// response -> status mapping belongs to the messaging collaborator; only the
// value set is validated here.
func (s *MatchRecorderService) UpdateStatus(ctx context.Context, matchID, status string) error {
	if s.Matches == nil {
		return ErrStorageNotConfigured
	}

	switch status {
	case models.MatchStatusPending, models.MatchStatusConnected,
		models.MatchStatusNotInterested, models.MatchStatusExpired:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.Matches.UpdateMatchStatus(ctx, matchID, status); err != nil {
		return err
	}

	s.Logger.Info("match status updated",
		zap.String("match_id", matchID),
		zap.String("status", status),
	)
	return nil
}
