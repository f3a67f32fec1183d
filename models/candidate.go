package models

// MatchCandidate is the scored, ephemeral result of one pairwise comparison.
// Candidates are computed per scoring run and never persisted as-is.
type MatchCandidate struct {
	UserID          string      `json:"userId"`
	Profile         UserProfile `json:"profile"`
	IntentScore     float64     `json:"intentScore"`
	InterestScore   float64     `json:"interestScore"`
	EventScore      float64     `json:"eventScore"`
	Score           float64     `json:"score"`
	Reason          string      `json:"reason"`
	CommonInterests []string    `json:"commonInterests,omitempty"`
	SharedEvents    []string    `json:"sharedEvents,omitempty"`
	Icebreaker      string      `json:"icebreaker,omitempty"`
}
