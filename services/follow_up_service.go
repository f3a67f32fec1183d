package services

import (
	"context"
	"fmt"
	"time"

	"linkup_server/models"

	"go.uber.org/zap"
)

// FollowUpService surfaces due follow-ups, marks them dispatched, and routes
// responses back onto the owning match.
type FollowUpService struct {
	FollowUps FollowUpStore
	Matches   MatchStore
	Notifier  Notifier
	Logger    *zap.Logger

	// Now is injectable for tests.
	Now func() time.Time
}

func (s *FollowUpService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DueFollowUps returns pending follow-ups whose scheduledFor has passed.
func (s *FollowUpService) DueFollowUps(ctx context.Context) ([]models.FollowUp, error) {
	if s.FollowUps == nil {
		return []models.FollowUp{}, ErrStorageNotConfigured
	}
	return s.FollowUps.DueFollowUps(ctx, s.now())
}

// MarkSent records that the messaging collaborator dispatched a follow-up.
func (s *FollowUpService) MarkSent(ctx context.Context, followUpID string) error {
	if s.FollowUps == nil {
		return ErrStorageNotConfigured
	}
	return s.FollowUps.MarkSent(ctx, followUpID, s.now())
}

// RecordResponse stores the member's reply on the follow-up and, when the
// caller supplies a mapped status, applies it to the owning match. Mapping
// response text to a status is the messaging collaborator's job; only the
// value set is validated here.
func (s *FollowUpService) RecordResponse(ctx context.Context, followUpID, response, matchStatus string) error {
	if s.FollowUps == nil || s.Matches == nil {
		return ErrStorageNotConfigured
	}

	switch matchStatus {
	case "", models.MatchStatusConnected, models.MatchStatusNotInterested:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, matchStatus)
	}

	fu, err := s.FollowUps.RecordResponse(ctx, followUpID, response)
	if err != nil {
		return err
	}

	if matchStatus == "" {
		return nil
	}

	if err := s.Matches.UpdateMatchStatus(ctx, fu.MatchID, matchStatus); err != nil {
		return fmt.Errorf("failed to apply response to match '%s': %w", fu.MatchID, err)
	}

	s.Logger.Info("follow-up response recorded",
		zap.String("follow_up_id", followUpID),
		zap.String("match_id", fu.MatchID),
		zap.String("match_status", matchStatus),
	)
	return nil
}

// DispatchDue pushes every due follow-up through the notifier and marks it
// sent. A notifier failure skips the row; the next poll retries it.
func (s *FollowUpService) DispatchDue(ctx context.Context) (int, error) {
	due, err := s.DueFollowUps(ctx)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, fu := range due {
		if s.Notifier != nil {
			if err := s.Notifier.NotifyFollowUp(ctx, fu); err != nil {
				s.Logger.Warn("follow-up dispatch failed, will retry next poll",
					zap.String("follow_up_id", fu.FollowUpID),
					zap.Error(err),
				)
				continue
			}
		}
		if err := s.MarkSent(ctx, fu.FollowUpID); err != nil {
			s.Logger.Warn("failed to mark follow-up sent",
				zap.String("follow_up_id", fu.FollowUpID),
				zap.Error(err),
			)
			continue
		}
		dispatched++
	}

	if dispatched > 0 {
		s.Logger.Info("dispatched due follow-ups", zap.Int("count", dispatched))
	}
	return dispatched, nil
}

// StartPolling runs DispatchDue on an interval until ctx is cancelled. Two
// overlapping runs are harmless: MarkSent is a conditional update only one
// of them will win.
func (s *FollowUpService) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.DispatchDue(ctx); err != nil {
					s.Logger.Warn("follow-up poll failed", zap.Error(err))
				}
			}
		}
	}()
}

// LogNotifier is the default Notifier: it only logs the dispatch, standing
// in for the external messaging collaborator.
type LogNotifier struct {
	Logger *zap.Logger
}

// NotifyFollowUp logs the follow-up that would be delivered.
func (n *LogNotifier) NotifyFollowUp(_ context.Context, fu models.FollowUp) error {
	n.Logger.Info("follow-up due",
		zap.String("follow_up_id", fu.FollowUpID),
		zap.String("match_id", fu.MatchID),
		zap.String("user_id", fu.UserID),
		zap.String("type", fu.Type),
		zap.String("scheduled_for", fu.ScheduledFor),
	)
	return nil
}
