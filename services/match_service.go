package services

import (
	"context"
	"fmt"
	"sort"

	"linkup_server/models"

	"go.uber.org/zap"
)

// MatchService runs the full matchmaking pass: scan eligible profiles,
// resolve identities, score every pair, gate, rank, and enrich the top
// candidates.
type MatchService struct {
	Profiles    ProfileStore
	Scorer      *CompatibilityScorer
	Icebreakers *IcebreakerService
	Logger      *zap.Logger
}

// FindMatchesInput carries one scoring run's parameters.
type FindMatchesInput struct {
	Requester models.UserProfile `json:"requester"`
	Exclude   []string           `json:"exclude,omitempty"`

	// Config optionally overrides thresholds, weights, and the
	// high-demand role list for this run only.
	Config *ScoringConfig `json:"config,omitempty"`
}

// FindMatches returns the ranked top candidates for the requester. The
// result slice is never nil: configuration failures surface as an error next
// to an empty list so rendering paths stay simple.
func (s *MatchService) FindMatches(ctx context.Context, input FindMatchesInput) ([]models.MatchCandidate, error) {
	empty := []models.MatchCandidate{}

	if s.Profiles == nil {
		return empty, ErrStorageNotConfigured
	}

	scorer := s.Scorer
	if scorer == nil {
		scorer = NewCompatibilityScorer(DefaultScoringConfig())
	}
	if input.Config != nil {
		scorer = scorer.WithConfig(*input.Config)
	}
	cfg := scorer.Config

	exclude := make(map[string]struct{}, len(input.Exclude)+1)
	exclude[input.Requester.UserID] = struct{}{}
	for _, id := range input.Exclude {
		exclude[id] = struct{}{}
	}

	profiles, err := s.Profiles.ListEligibleProfiles(ctx, input.Requester.UserID)
	if err != nil {
		return empty, fmt.Errorf("failed to list eligible profiles: %w", err)
	}

	var candidates []models.MatchCandidate
	for _, profile := range profiles {
		// Collapse platform aliases before admission so the same logical
		// user is never scored twice under different identities.
		userID, err := s.Profiles.ResolvePrimaryIdentity(ctx, profile.UserID)
		if err != nil {
			s.Logger.Warn("identity resolution failed, using raw id",
				zap.String("raw_id", profile.UserID), zap.Error(err))
			userID = profile.UserID
		}
		if _, skip := exclude[userID]; skip {
			continue
		}
		if profile.OptedOut() {
			continue
		}

		candidate := scorer.Score(input.Requester, profile)
		candidate.UserID = userID

		threshold := cfg.MinScoreThreshold
		if HasHighDemandRole(profile.Roles, cfg.HighDemandRoles) {
			threshold = cfg.HighDemandThreshold
		}
		if candidate.Score < threshold {
			continue
		}

		candidates = append(candidates, candidate)
	}

	// Stable sort: ties keep their scan-encounter order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > cfg.MaxResults {
		candidates = candidates[:cfg.MaxResults]
	}

	// Enrichment only after ranking: icebreaker generation is expensive and
	// deliberately limited to the returned candidates.
	if s.Icebreakers.Enabled() {
		for i := range candidates {
			candidates[i].Icebreaker = s.Icebreakers.Generate(ctx,
				input.Requester, candidates[i].Profile,
				candidates[i].Reason,
				candidates[i].CommonInterests, candidates[i].SharedEvents,
			)
		}
	}

	s.Logger.Debug("matchmaking pass finished",
		zap.String("requester_id", input.Requester.UserID),
		zap.Int("scanned", len(profiles)),
		zap.Int("returned", len(candidates)),
	)

	if candidates == nil {
		return empty, nil
	}
	return candidates, nil
}
