package services

import (
	"testing"

	"linkup_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer() *CompatibilityScorer {
	scorer := NewCompatibilityScorer(DefaultScoringConfig())
	scorer.Now = fixedNow
	return scorer
}

func TestIntentScore(t *testing.T) {
	scorer := newTestScorer()

	t.Run("both directions match", func(t *testing.T) {
		investor := models.UserProfile{
			Roles:           []string{"Investor/Grant Program Operator"},
			ConnectionGoals: []string{"Startups to invest in"},
		}
		founder := models.UserProfile{
			Roles:           []string{"Founder/Builder"},
			ConnectionGoals: []string{"Investors/grant programs"},
		}

		assert.Equal(t, 100.0, scorer.IntentScore(investor, founder))
	})

	t.Run("one direction match", func(t *testing.T) {
		seeker := models.UserProfile{
			Roles:           []string{"Researcher"},
			ConnectionGoals: []string{"Developers to hire"},
		}
		developer := models.UserProfile{
			Roles: []string{"Developer"},
		}

		assert.Equal(t, 50.0, scorer.IntentScore(seeker, developer))
	})

	t.Run("first match only per direction", func(t *testing.T) {
		seeker := models.UserProfile{
			ConnectionGoals: []string{"Developers to hire", "Technical co-founder"},
		}
		developer := models.UserProfile{
			Roles: []string{"Developer"},
		}

		// Both goals point at the developer role but the direction is
		// capped at a single award.
		assert.Equal(t, 50.0, scorer.IntentScore(seeker, developer))
	})

	t.Run("peer fallback on exact role overlap", func(t *testing.T) {
		a := models.UserProfile{Roles: []string{"Developer"}}
		b := models.UserProfile{Roles: []string{"developer "}}

		assert.Equal(t, 50.0, scorer.IntentScore(a, b))
	})

	t.Run("peer fallback never fires on substring roles", func(t *testing.T) {
		a := models.UserProfile{Roles: []string{"Developer"}}
		b := models.UserProfile{Roles: []string{"Senior Developer"}}

		assert.Equal(t, 0.0, scorer.IntentScore(a, b))
	})

	t.Run("peer fallback does not lower a transactional score", func(t *testing.T) {
		investor := models.UserProfile{
			Roles:           []string{"Investor/Grant Program Operator", "Founder/Builder"},
			ConnectionGoals: []string{"Startups to invest in"},
		}
		founder := models.UserProfile{
			Roles:           []string{"Founder/Builder"},
			ConnectionGoals: []string{"Investors/grant programs"},
		}

		// Shared Founder/Builder role, but the transactional 100 stands.
		assert.Equal(t, 100.0, scorer.IntentScore(investor, founder))
	})

	t.Run("unknown goals score zero", func(t *testing.T) {
		a := models.UserProfile{
			Roles:           []string{"Designer"},
			ConnectionGoals: []string{"Someone to play chess with"},
		}
		b := models.UserProfile{Roles: []string{"Developer"}}

		assert.Equal(t, 0.0, scorer.IntentScore(a, b))
	})
}

func TestInterestScore(t *testing.T) {
	scorer := newTestScorer()

	t.Run("empty list on either side scores zero", func(t *testing.T) {
		a := models.UserProfile{Interests: []string{"golang"}}
		b := models.UserProfile{}

		score, common := scorer.InterestScore(a, b)
		assert.Equal(t, 0.0, score)
		assert.Empty(t, common)
	})

	t.Run("two common interests take the reduced band", func(t *testing.T) {
		a := models.UserProfile{Interests: []string{"golang", "rust", "paris"}}
		b := models.UserProfile{Interests: []string{"golang", "rust", "tokyo"}}

		score, common := scorer.InterestScore(a, b)
		assert.Len(t, common, 2)
		// similarity 2/4, banded x0.8
		assert.InDelta(t, 40.0, score, 0.001)
	})

	t.Run("three common interests take the full band", func(t *testing.T) {
		a := models.UserProfile{Interests: []string{"golang", "rust", "zig", "paris"}}
		b := models.UserProfile{Interests: []string{"golang", "rust", "zig", "tokyo"}}

		score, common := scorer.InterestScore(a, b)
		assert.Len(t, common, 3)
		// similarity 3/5, banded x1.0
		assert.InDelta(t, 60.0, score, 0.001)
	})

	t.Run("substring interests keep the shorter canonical token", func(t *testing.T) {
		a := models.UserProfile{Interests: []string{"DeFi Protocols"}}
		b := models.UserProfile{Interests: []string{"defi"}}

		score, common := scorer.InterestScore(a, b)
		assert.Equal(t, []string{"defi"}, common)
		// similarity 1/2, banded x0.8
		assert.InDelta(t, 40.0, score, 0.001)
	})

	t.Run("duplicate tags collapse before comparison", func(t *testing.T) {
		a := models.UserProfile{Interests: []string{"golang", "Golang", " golang "}}
		b := models.UserProfile{Interests: []string{"golang"}}

		score, common := scorer.InterestScore(a, b)
		assert.Equal(t, []string{"golang"}, common)
		// similarity 1/1, banded x0.8
		assert.InDelta(t, 80.0, score, 0.001)
	})
}

func TestEventScore(t *testing.T) {
	scorer := newTestScorer()

	t.Run("no events scores zero", func(t *testing.T) {
		score, shared := scorer.EventScore(models.UserProfile{}, models.UserProfile{})
		assert.Equal(t, 0.0, score)
		assert.Empty(t, shared)
	})

	t.Run("identical event text matches regardless of year", func(t *testing.T) {
		a := models.UserProfile{Events: []string{"DevCon 2019"}}
		b := models.UserProfile{Events: []string{"devcon 2019"}}

		score, shared := scorer.EventScore(a, b)
		assert.Equal(t, 100.0, score)
		assert.Equal(t, []string{"devcon 2019"}, shared)
	})

	t.Run("containment with compatible current year matches", func(t *testing.T) {
		a := models.UserProfile{Events: []string{"ETHWarsaw 2025"}}
		b := models.UserProfile{Events: []string{"ETHWarsaw 2025 Hackathon"}}

		score, shared := scorer.EventScore(a, b)
		assert.Equal(t, 100.0, score)
		assert.Equal(t, []string{"ethwarsaw 2025"}, shared)
	})

	t.Run("containment with next year matches", func(t *testing.T) {
		a := models.UserProfile{Events: []string{"ETHWarsaw 2026"}}
		b := models.UserProfile{Events: []string{"ETHWarsaw 2026 Hackathon"}}

		score, _ := scorer.EventScore(a, b)
		assert.Equal(t, 100.0, score)
	})

	t.Run("containment with stale year does not match", func(t *testing.T) {
		a := models.UserProfile{Events: []string{"ETHWarsaw 2023"}}
		b := models.UserProfile{Events: []string{"ETHWarsaw 2023 Hackathon"}}

		score, shared := scorer.EventScore(a, b)
		assert.Equal(t, 0.0, score)
		assert.Empty(t, shared)
	})

	t.Run("containment with mismatched year presence does not match", func(t *testing.T) {
		a := models.UserProfile{Events: []string{"ETHWarsaw"}}
		b := models.UserProfile{Events: []string{"ETHWarsaw 2025"}}

		score, _ := scorer.EventScore(a, b)
		assert.Equal(t, 0.0, score)
	})

	t.Run("containment with no years on either side matches", func(t *testing.T) {
		a := models.UserProfile{Events: []string{"Consensus"}}
		b := models.UserProfile{Events: []string{"Consensus Warsaw Edition"}}

		score, shared := scorer.EventScore(a, b)
		assert.Equal(t, 100.0, score)
		assert.Equal(t, []string{"consensus"}, shared)
	})
}

func TestScoreBounds(t *testing.T) {
	scorer := newTestScorer()

	profiles := []models.UserProfile{
		{},
		{Roles: []string{"Developer"}, Interests: []string{"golang"}},
		{
			Roles:           []string{"Investor/Grant Program Operator", "Founder/Builder"},
			ConnectionGoals: []string{"Startups to invest in", "Technical co-founder"},
			Interests:       []string{"ai", "defi", "tokenomics", "fundraising"},
			Events:          []string{"Consensus 2025", "ETHWarsaw"},
		},
		{
			Roles:           []string{"Founder/Builder"},
			ConnectionGoals: []string{"Investors/grant programs", "Mentorship"},
			Interests:       []string{"AI", "Tokenomics"},
			Events:          []string{"consensus 2025"},
		},
	}

	for _, a := range profiles {
		for _, b := range profiles {
			candidate := scorer.Score(a, b)

			assert.GreaterOrEqual(t, candidate.IntentScore, 0.0)
			assert.LessOrEqual(t, candidate.IntentScore, 100.0)
			assert.GreaterOrEqual(t, candidate.InterestScore, 0.0)
			assert.LessOrEqual(t, candidate.InterestScore, 100.0)
			assert.Contains(t, []float64{0, 100}, candidate.EventScore)
			assert.GreaterOrEqual(t, candidate.Score, 0.0)
			assert.LessOrEqual(t, candidate.Score, 100.0)
		}
	}
}

func TestScoreEventOverride(t *testing.T) {
	scorer := newTestScorer()

	a := models.UserProfile{UserID: "a", Events: []string{"Consensus 2025"}}
	b := models.UserProfile{UserID: "b", Events: []string{"Consensus 2025"}}

	candidate := scorer.Score(a, b)

	assert.Equal(t, 0.0, candidate.IntentScore)
	assert.Equal(t, 0.0, candidate.InterestScore)
	assert.Equal(t, 100.0, candidate.EventScore)
	assert.GreaterOrEqual(t, candidate.Score, 85.0)
	assert.Equal(t, []string{"consensus 2025"}, candidate.SharedEvents)
}

func TestScoreInvestorFounderPair(t *testing.T) {
	scorer := newTestScorer()

	investor := models.UserProfile{
		UserID:          "investor-1",
		Roles:           []string{"Investor/Grant Program Operator"},
		ConnectionGoals: []string{"Startups to invest in"},
		Interests:       []string{"Tokenomics", "Fundraising", "DAO's"},
	}
	founder := models.UserProfile{
		UserID:          "founder-1",
		Roles:           []string{"Founder/Builder"},
		ConnectionGoals: []string{"Investors/grant programs"},
		Interests:       []string{"AI", "Tokenomics", "Fundraising"},
	}

	candidate := scorer.Score(investor, founder)

	assert.Equal(t, 100.0, candidate.IntentScore)
	// Fuzzy matching also pairs "ai" with "fundraising": three canonical
	// commons out of a four-tag union, full band.
	assert.InDelta(t, 75.0, candidate.InterestScore, 0.001)
	assert.Equal(t, 0.0, candidate.EventScore)
	assert.InDelta(t, 82.5, candidate.Score, 0.001)
	assert.GreaterOrEqual(t, candidate.Score, scorer.Config.MinScoreThreshold)
	assert.NotEmpty(t, candidate.Reason)
}

func TestScoreDeveloperPeersStayBelowThreshold(t *testing.T) {
	scorer := newTestScorer()

	a := models.UserProfile{UserID: "dev-1", Roles: []string{"Developer"}, Interests: []string{"gardening"}}
	b := models.UserProfile{UserID: "dev-2", Roles: []string{"Developer"}, Interests: []string{"surfing"}}

	candidate := scorer.Score(a, b)

	assert.Equal(t, 50.0, candidate.IntentScore)
	assert.Equal(t, 0.0, candidate.InterestScore)
	assert.Equal(t, 0.0, candidate.EventScore)
	assert.InDelta(t, 30.0, candidate.Score, 0.001)
	assert.Less(t, candidate.Score, scorer.Config.MinScoreThreshold)
}

func TestHasHighDemandRole(t *testing.T) {
	highDemand := []string{"Investor/Grant Program Operator"}

	assert.True(t, HasHighDemandRole([]string{"Investor/Grant Program Operator"}, highDemand))
	assert.True(t, HasHighDemandRole([]string{"Angel Investor/Grant Program Operator"}, highDemand))
	assert.False(t, HasHighDemandRole([]string{"Developer", "Founder/Builder"}, highDemand))
	assert.False(t, HasHighDemandRole(nil, highDemand))
	assert.False(t, HasHighDemandRole([]string{"Developer"}, nil))
}

func TestWithConfigDoesNotMutateBase(t *testing.T) {
	base := newTestScorer()
	require.Equal(t, 75.0, base.Config.MinScoreThreshold)

	override := base.WithConfig(ScoringConfig{MinScoreThreshold: 95})

	assert.Equal(t, 95.0, override.Config.MinScoreThreshold)
	assert.Equal(t, 75.0, base.Config.MinScoreThreshold)
	// Defaults backfill the untouched fields of the override.
	assert.Equal(t, 3, override.Config.MaxResults)
}

func TestScoringConfigApplyDefaults(t *testing.T) {
	var cfg ScoringConfig
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultScoringConfig(), cfg)

	partial := ScoringConfig{MinScoreThreshold: 60}
	partial.ApplyDefaults()
	assert.Equal(t, 60.0, partial.MinScoreThreshold)
	assert.Equal(t, 90.0, partial.HighDemandThreshold)
	assert.Equal(t, 0.6, partial.IntentWeight)
}
