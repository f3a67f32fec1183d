package services

import (
	"context"
	"fmt"
	"time"

	"linkup_server/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestTTL = 7 * 24 * time.Hour

// MatchRequestService runs the request -> approve/reject/expire workflow on
// top of scoring.
type MatchRequestService struct {
	Requests RequestStore
	Logger   *zap.Logger

	// Now is injectable for tests.
	Now func() time.Time
}

func (s *MatchRequestService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateRequest opens a pending request with its computed score and reason.
// Only one active request may exist per ordered (requester, requested) pair.
func (s *MatchRequestService) CreateRequest(ctx context.Context, requesterID, requestedID string, score float64, reason string) (*models.MatchRequest, error) {
	if s.Requests == nil {
		return nil, ErrStorageNotConfigured
	}
	if requesterID == "" || requestedID == "" {
		return nil, fmt.Errorf("requester and requested identities are required")
	}
	if requesterID == requestedID {
		return nil, fmt.Errorf("cannot request a match with yourself")
	}

	now := s.now().UTC()
	req := models.MatchRequest{
		RequestID:   uuid.NewString(),
		RequesterID: requesterID,
		RequestedID: requestedID,
		PairKey:     models.RequestPairKey(requesterID, requestedID),
		Status:      models.RequestStatusPending,
		Score:       score,
		Reason:      reason,
		CreatedAt:   now.Format(time.RFC3339),
		ExpiresAt:   now.Add(requestTTL).Format(time.RFC3339),
	}

	if err := s.Requests.InsertRequest(ctx, req); err != nil {
		return nil, err
	}

	s.Logger.Info("match request created",
		zap.String("request_id", req.RequestID),
		zap.String("requester_id", requesterID),
		zap.String("requested_id", requestedID),
		zap.Float64("score", score),
	)
	return &req, nil
}

// Approve transitions a pending, unexpired request to approved.
func (s *MatchRequestService) Approve(ctx context.Context, requestID string) (*models.MatchRequest, error) {
	return s.respond(ctx, requestID, models.RequestStatusApproved)
}

// Reject transitions a pending, unexpired request to rejected.
func (s *MatchRequestService) Reject(ctx context.Context, requestID string) (*models.MatchRequest, error) {
	return s.respond(ctx, requestID, models.RequestStatusRejected)
}

// Cancel lets the requester withdraw a pending request. Cancellation is
// allowed even past expiresAt since both paths release the pair.
func (s *MatchRequestService) Cancel(ctx context.Context, requestID string) (*models.MatchRequest, error) {
	if s.Requests == nil {
		return nil, ErrStorageNotConfigured
	}

	req, err := s.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Terminal() {
		return nil, ErrRequestNotPending
	}

	return s.transition(ctx, *req, models.RequestStatusCancelled)
}

// ListForUser returns all requests where the user is on either side.
// Pending requests past their expiry are presented as expired.
func (s *MatchRequestService) ListForUser(ctx context.Context, userID string) ([]models.MatchRequest, error) {
	if s.Requests == nil {
		return nil, ErrStorageNotConfigured
	}

	requests, err := s.Requests.ListRequestsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range requests {
		if requests[i].Status == models.RequestStatusPending && s.expired(requests[i], now) {
			requests[i].Status = models.RequestStatusExpired
		}
	}
	return requests, nil
}

func (s *MatchRequestService) respond(ctx context.Context, requestID, to string) (*models.MatchRequest, error) {
	if s.Requests == nil {
		return nil, ErrStorageNotConfigured
	}

	req, err := s.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Terminal() {
		return nil, ErrRequestNotPending
	}

	// A lapsed request is lazily moved to expired; it must never become
	// approvable again.
	if s.expired(*req, s.now()) {
		if _, err := s.transition(ctx, *req, models.RequestStatusExpired); err != nil {
			s.Logger.Warn("failed to lazily expire request",
				zap.String("request_id", requestID), zap.Error(err))
		}
		return nil, ErrRequestExpired
	}

	return s.transition(ctx, *req, to)
}

func (s *MatchRequestService) transition(ctx context.Context, req models.MatchRequest, to string) (*models.MatchRequest, error) {
	respondedAt := s.now().UTC()
	if err := s.Requests.TransitionRequest(ctx, req, models.RequestStatusPending, to, respondedAt); err != nil {
		return nil, err
	}

	req.Status = to
	req.RespondedAt = respondedAt.Format(time.RFC3339)

	s.Logger.Info("match request transitioned",
		zap.String("request_id", req.RequestID),
		zap.String("status", to),
	)
	return &req, nil
}

func (s *MatchRequestService) expired(req models.MatchRequest, now time.Time) bool {
	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		// An unparseable expiry never blocks a response; log and move on.
		s.Logger.Warn("unparseable expiresAt on request",
			zap.String("request_id", req.RequestID),
			zap.String("expires_at", req.ExpiresAt),
		)
		return false
	}
	return now.After(expiresAt)
}
