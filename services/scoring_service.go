package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"linkup_server/models"
)

// ScoringConfig holds the tunable parts of the compatibility model. A caller
// may pass an override per scoring run; zero fields fall back to defaults.
type ScoringConfig struct {
	IntentWeight        float64  `mapstructure:"intent-weight" json:"intentWeight"`
	InterestWeight      float64  `mapstructure:"interest-weight" json:"interestWeight"`
	EventWeight         float64  `mapstructure:"event-weight" json:"eventWeight"`
	MinScoreThreshold   float64  `mapstructure:"min-score-threshold" json:"minScoreThreshold"`
	HighDemandThreshold float64  `mapstructure:"high-demand-threshold" json:"highDemandThreshold"`
	HighDemandRoles     []string `mapstructure:"high-demand-roles" json:"highDemandRoles"`
	MaxResults          int      `mapstructure:"max-results" json:"maxResults"`
}

// DefaultScoringConfig returns the production defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		IntentWeight:        0.6,
		InterestWeight:      0.3,
		EventWeight:         0.1,
		MinScoreThreshold:   75,
		HighDemandThreshold: 90,
		HighDemandRoles:     []string{"Investor/Grant Program Operator"},
		MaxResults:          3,
	}
}

// ApplyDefaults fills zero fields so partial overrides stay usable.
func (c *ScoringConfig) ApplyDefaults() {
	def := DefaultScoringConfig()
	if c.IntentWeight == 0 && c.InterestWeight == 0 && c.EventWeight == 0 {
		c.IntentWeight = def.IntentWeight
		c.InterestWeight = def.InterestWeight
		c.EventWeight = def.EventWeight
	}
	if c.MinScoreThreshold == 0 {
		c.MinScoreThreshold = def.MinScoreThreshold
	}
	if c.HighDemandThreshold == 0 {
		c.HighDemandThreshold = def.HighDemandThreshold
	}
	if c.HighDemandRoles == nil {
		c.HighDemandRoles = def.HighDemandRoles
	}
	if c.MaxResults <= 0 {
		c.MaxResults = def.MaxResults
	}
}

// TagMatcher is the pluggable normalization+comparison strategy behind the
// interest and event heuristics. The default matcher treats two tags as
// matching when one normalized form contains the other; stricter strategies
// (edit distance, taxonomy lookup) can be swapped in without touching the
// scoring pipeline.
type TagMatcher interface {
	// Normalize canonicalizes a raw tag for comparison.
	Normalize(tag string) string

	// Match compares two normalized tags. On a match it returns the
	// canonical token to report (the shorter of the two when they differ).
	Match(a, b string) (string, bool)
}

type substringMatcher struct{}

func (substringMatcher) Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func (substringMatcher) Match(a, b string) (string, bool) {
	if a == "" || b == "" {
		return "", false
	}
	if a == b {
		return a, true
	}
	if strings.Contains(a, b) {
		return b, true
	}
	if strings.Contains(b, a) {
		return a, true
	}
	return "", false
}

// DefaultTagMatcher is the substring heuristic used in production.
var DefaultTagMatcher TagMatcher = substringMatcher{}

// DefaultIntentMatrix maps a connection-goal tag to the roles that typically
// satisfy it. Lookups are case-insensitive.
var DefaultIntentMatrix = map[string][]string{
	"Startups to invest in":     {"Founder/Builder"},
	"Investors/grant programs":  {"Investor/Grant Program Operator"},
	"Developers to hire":        {"Developer"},
	"Projects to contribute to": {"Founder/Builder"},
	"Technical co-founder":      {"Developer", "Founder/Builder"},
	"Marketing/growth support":  {"Marketing/Growth"},
	"Community to join":         {"Community Manager", "Founder/Builder"},
	"Research collaborators":    {"Researcher"},
	"Design help":               {"Designer"},
	"Mentorship":                {"Founder/Builder", "Investor/Grant Program Operator"},
}

const (
	directionalIntentAward = 50
	peerFallbackScore      = 50
	eventOverrideFloor     = 85
	eventMatchScore        = 100
)

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// CompatibilityScorer computes the three sub-scores and the combined score
// for a pair of profiles. All methods are pure and safe for concurrent use.
type CompatibilityScorer struct {
	Config  ScoringConfig
	Matcher TagMatcher

	// Now is injectable for year-awareness tests.
	Now func() time.Time

	intentMatrix map[string][]string
}

// NewCompatibilityScorer builds a scorer over the default intent matrix.
func NewCompatibilityScorer(cfg ScoringConfig) *CompatibilityScorer {
	return NewCompatibilityScorerWithMatrix(cfg, DefaultIntentMatrix)
}

// NewCompatibilityScorerWithMatrix builds a scorer over a custom intent
// matrix. Matrix keys and targets are normalized once up front.
func NewCompatibilityScorerWithMatrix(cfg ScoringConfig, matrix map[string][]string) *CompatibilityScorer {
	cfg.ApplyDefaults()

	normalized := make(map[string][]string, len(matrix))
	for goal, targets := range matrix {
		key := strings.ToLower(strings.TrimSpace(goal))
		normTargets := make([]string, 0, len(targets))
		for _, t := range targets {
			normTargets = append(normTargets, strings.ToLower(strings.TrimSpace(t)))
		}
		normalized[key] = normTargets
	}

	return &CompatibilityScorer{
		Config:       cfg,
		Matcher:      DefaultTagMatcher,
		Now:          time.Now,
		intentMatrix: normalized,
	}
}

// WithConfig returns a copy of the scorer using the given per-run config.
func (s *CompatibilityScorer) WithConfig(cfg ScoringConfig) *CompatibilityScorer {
	cfg.ApplyDefaults()
	clone := *s
	clone.Config = cfg
	return &clone
}

// IntentScore scores transactional goal->role alignment in both directions
// (50 per direction, first match only), with the peer-support fallback
// pinning the score to exactly 50 when the two profiles share a role and
// the transactional total stayed below 50.
func (s *CompatibilityScorer) IntentScore(a, b models.UserProfile) float64 {
	score := s.directionalIntent(a.ConnectionGoals, b.Roles) +
		s.directionalIntent(b.ConnectionGoals, a.Roles)

	if score < peerFallbackScore && hasExactRoleOverlap(a.Roles, b.Roles) {
		score = peerFallbackScore
	}

	return clampScore(score)
}

func (s *CompatibilityScorer) directionalIntent(goals, roles []string) float64 {
	for _, goal := range goals {
		targets, ok := s.intentMatrix[strings.ToLower(strings.TrimSpace(goal))]
		if !ok {
			continue
		}
		for _, role := range roles {
			norm := strings.ToLower(strings.TrimSpace(role))
			for _, target := range targets {
				if norm == target {
					// First match only; the direction is capped at 50.
					return directionalIntentAward
				}
			}
		}
	}
	return 0
}

// The peer fallback fires only on exact (case-insensitive, trimmed) role
// equality, never on substring overlap.
func hasExactRoleOverlap(a, b []string) bool {
	for _, ra := range a {
		na := strings.ToLower(strings.TrimSpace(ra))
		if na == "" {
			continue
		}
		for _, rb := range b {
			if na == strings.ToLower(strings.TrimSpace(rb)) {
				return true
			}
		}
	}
	return false
}

// InterestScore computes the banded Jaccard-style overlap of the two
// interest lists and returns the canonical common tokens.
func (s *CompatibilityScorer) InterestScore(a, b models.UserProfile) (float64, []string) {
	normA := s.normalizeSet(a.Interests)
	normB := s.normalizeSet(b.Interests)
	if len(normA) == 0 || len(normB) == 0 {
		return 0, nil
	}

	// Every pair is compared: a fuzzy tag may contribute more than one
	// canonical token ("ai" and "fundraising" both survive a match between
	// them and an exact counterpart).
	var common []string
	seen := make(map[string]struct{})
	for _, ia := range normA {
		for _, ib := range normB {
			canonical, ok := s.Matcher.Match(ia, ib)
			if !ok {
				continue
			}
			if _, dup := seen[canonical]; !dup {
				seen[canonical] = struct{}{}
				common = append(common, canonical)
			}
		}
	}

	union := make(map[string]struct{}, len(normA)+len(normB))
	for _, tag := range normA {
		union[tag] = struct{}{}
	}
	for _, tag := range normB {
		union[tag] = struct{}{}
	}

	similarity := float64(len(common)) / float64(len(union))

	var band float64
	switch {
	case len(common) >= 3:
		band = 1.0
	case len(common) >= 1:
		band = 0.8
	default:
		band = 0
	}

	return clampScore(similarity * 100 * band), common
}

// EventScore is the binary co-attendance signal: 100 when any shared event
// exists, else 0. Two events are shared when their normalized text is
// identical, or when one contains the other and their year signals are
// compatible (same current-or-next calendar year on both sides, or no
// 4-digit year on either). The year check keeps "Event 2023" from matching
// "Event 2024".
func (s *CompatibilityScorer) EventScore(a, b models.UserProfile) (float64, []string) {
	normA := s.normalizeSet(a.Events)
	normB := s.normalizeSet(b.Events)
	if len(normA) == 0 || len(normB) == 0 {
		return 0, nil
	}

	var shared []string
	seen := make(map[string]struct{})
	for _, ea := range normA {
		for _, eb := range normB {
			canonical, ok := s.eventsShared(ea, eb)
			if !ok {
				continue
			}
			if _, dup := seen[canonical]; !dup {
				seen[canonical] = struct{}{}
				shared = append(shared, canonical)
			}
			break
		}
	}

	if len(shared) == 0 {
		return 0, nil
	}
	return eventMatchScore, shared
}

func (s *CompatibilityScorer) eventsShared(a, b string) (string, bool) {
	if a == b {
		return a, true
	}
	if !strings.Contains(a, b) && !strings.Contains(b, a) {
		return "", false
	}
	if !s.yearsCompatible(a, b) {
		return "", false
	}
	if len(b) < len(a) {
		return b, true
	}
	return a, true
}

func (s *CompatibilityScorer) yearsCompatible(a, b string) bool {
	yearsA := yearPattern.FindAllString(a, -1)
	yearsB := yearPattern.FindAllString(b, -1)
	if len(yearsA) == 0 && len(yearsB) == 0 {
		return true
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	current := now().Year()

	for _, ya := range yearsA {
		if ya != fmt.Sprintf("%d", current) && ya != fmt.Sprintf("%d", current+1) {
			continue
		}
		for _, yb := range yearsB {
			if ya == yb {
				return true
			}
		}
	}
	return false
}

// Score runs the full pairwise computation and assembles the candidate.
func (s *CompatibilityScorer) Score(requester, candidate models.UserProfile) models.MatchCandidate {
	intent := s.IntentScore(requester, candidate)
	interest, commonInterests := s.InterestScore(requester, candidate)
	event, sharedEvents := s.EventScore(requester, candidate)

	combined := intent*s.Config.IntentWeight +
		interest*s.Config.InterestWeight +
		event*s.Config.EventWeight

	// Event co-attendance is a strong independent signal: surface the match
	// even when the other signals are weak.
	if event > 0 {
		combined = math.Max(combined, eventOverrideFloor)
	}
	combined = clampScore(combined)

	return models.MatchCandidate{
		UserID:          candidate.UserID,
		Profile:         candidate,
		IntentScore:     intent,
		InterestScore:   interest,
		EventScore:      event,
		Score:           combined,
		Reason:          buildReason(intent, commonInterests, sharedEvents),
		CommonInterests: commonInterests,
		SharedEvents:    sharedEvents,
	}
}

func (s *CompatibilityScorer) normalizeSet(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		norm := s.Matcher.Normalize(tag)
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

func buildReason(intent float64, commonInterests, sharedEvents []string) string {
	var parts []string

	switch {
	case intent >= 100:
		parts = append(parts, "your goals and roles line up in both directions")
	case intent >= peerFallbackScore:
		parts = append(parts, "your goals and roles align")
	}

	if len(commonInterests) > 0 {
		sorted := append([]string(nil), commonInterests...)
		sort.Strings(sorted)
		parts = append(parts, fmt.Sprintf("%d shared interests: %s", len(sorted), strings.Join(sorted, ", ")))
	}

	if len(sharedEvents) > 0 {
		parts = append(parts, fmt.Sprintf("you are both attending %s", strings.Join(sharedEvents, ", ")))
	}

	if len(parts) == 0 {
		return "general profile compatibility"
	}
	return strings.Join(parts, "; ")
}

// HasHighDemandRole reports whether any of the roles is flagged high demand.
// Matching is substring-based on the normalized role, so a compound role
// name containing a high-demand role also trips the gate.
func HasHighDemandRole(roles, highDemandRoles []string) bool {
	for _, role := range roles {
		norm := strings.ToLower(strings.TrimSpace(role))
		if norm == "" {
			continue
		}
		for _, hdr := range highDemandRoles {
			nhdr := strings.ToLower(strings.TrimSpace(hdr))
			if nhdr == "" {
				continue
			}
			if strings.Contains(norm, nhdr) {
				return true
			}
		}
	}
	return false
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
