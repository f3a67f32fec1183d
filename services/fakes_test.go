package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"linkup_server/models"
)

// In-memory store fakes shared by the service tests.

type fakeProfileStore struct {
	profiles   []models.UserProfile
	aliases    map[string]string
	listErr    error
	resolveErr error
}

func (f *fakeProfileStore) ListEligibleProfiles(_ context.Context, excluding string) ([]models.UserProfile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.UserProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		if p.UserID == excluding {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfileStore) ResolvePrimaryIdentity(_ context.Context, rawID string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	if id, ok := f.aliases[rawID]; ok {
		return id, nil
	}
	return rawID, nil
}

type fakeMatchStore struct {
	mu sync.Mutex

	matches   map[string]models.Match
	followUps map[string][]models.FollowUp
	pairDays  map[string]struct{}
	statuses  map[string]string

	inserts   int
	insertErr error
	updateErr error
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{
		matches:   make(map[string]models.Match),
		followUps: make(map[string][]models.FollowUp),
		pairDays:  make(map[string]struct{}),
		statuses:  make(map[string]string),
	}
}

func (f *fakeMatchStore) InsertMatchWithFollowUps(_ context.Context, match models.Match, followUps []models.FollowUp) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}

	day := match.CreatedAt
	if t, err := time.Parse(time.RFC3339, match.CreatedAt); err == nil {
		day = t.UTC().Format("2006-01-02")
	}
	key := models.MatchPairKey(match.RequesterID, match.MatchedUserID, day)
	if _, dup := f.pairDays[key]; dup {
		return ErrDuplicateMatch
	}

	f.pairDays[key] = struct{}{}
	f.matches[match.MatchID] = match
	f.followUps[match.MatchID] = append([]models.FollowUp(nil), followUps...)
	return nil
}

func (f *fakeMatchStore) GetMatch(_ context.Context, matchID string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	match, ok := f.matches[matchID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &match, nil
}

func (f *fakeMatchStore) UpdateMatchStatus(_ context.Context, matchID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	f.statuses[matchID] = status
	if match, ok := f.matches[matchID]; ok {
		match.Status = status
		f.matches[matchID] = match
	}
	return nil
}

type fakeFollowUpStore struct {
	mu sync.Mutex

	followUps map[string]models.FollowUp

	markSentCalls int
	dueErr        error
	responseErr   error
}

func newFakeFollowUpStore(followUps ...models.FollowUp) *fakeFollowUpStore {
	store := &fakeFollowUpStore{followUps: make(map[string]models.FollowUp)}
	for _, fu := range followUps {
		store.followUps[fu.FollowUpID] = fu
	}
	return store
}

func (f *fakeFollowUpStore) DueFollowUps(_ context.Context, now time.Time) ([]models.FollowUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dueErr != nil {
		return nil, f.dueErr
	}

	due := []models.FollowUp{}
	for _, fu := range f.followUps {
		if fu.Status != models.FollowUpStatusPending {
			continue
		}
		scheduled, err := time.Parse(time.RFC3339, fu.ScheduledFor)
		if err != nil || scheduled.After(now) {
			continue
		}
		due = append(due, fu)
	}
	return due, nil
}

func (f *fakeFollowUpStore) MarkSent(_ context.Context, followUpID string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markSentCalls++
	fu, ok := f.followUps[followUpID]
	if !ok {
		return ErrItemNotFound
	}
	if fu.Status != models.FollowUpStatusPending {
		return nil
	}
	fu.Status = models.FollowUpStatusSent
	fu.SentAt = sentAt.UTC().Format(time.RFC3339)
	f.followUps[followUpID] = fu
	return nil
}

func (f *fakeFollowUpStore) RecordResponse(_ context.Context, followUpID, response string) (*models.FollowUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.responseErr != nil {
		return nil, f.responseErr
	}
	fu, ok := f.followUps[followUpID]
	if !ok {
		return nil, ErrItemNotFound
	}
	fu.Response = response
	f.followUps[followUpID] = fu
	return &fu, nil
}

type fakeRequestStore struct {
	mu sync.Mutex

	requests map[string]models.MatchRequest
	guards   map[string]struct{}
}

func newFakeRequestStore(requests ...models.MatchRequest) *fakeRequestStore {
	store := &fakeRequestStore{
		requests: make(map[string]models.MatchRequest),
		guards:   make(map[string]struct{}),
	}
	for _, req := range requests {
		store.requests[req.RequestID] = req
		if req.Status == models.RequestStatusPending {
			store.guards[req.PairKey] = struct{}{}
		}
	}
	return store
}

func (f *fakeRequestStore) InsertRequest(_ context.Context, req models.MatchRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, active := f.guards[req.PairKey]; active {
		return ErrRequestAlreadyActive
	}
	f.guards[req.PairKey] = struct{}{}
	f.requests[req.RequestID] = req
	return nil
}

func (f *fakeRequestStore) GetRequest(_ context.Context, requestID string) (*models.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[requestID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &req, nil
}

func (f *fakeRequestStore) TransitionRequest(_ context.Context, req models.MatchRequest, from, to string, respondedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.requests[req.RequestID]
	if !ok {
		return ErrItemNotFound
	}
	if stored.Status != from {
		return ErrRequestNotPending
	}
	stored.Status = to
	stored.RespondedAt = respondedAt.UTC().Format(time.RFC3339)
	f.requests[req.RequestID] = stored
	delete(f.guards, stored.PairKey)
	return nil
}

func (f *fakeRequestStore) ListRequestsForUser(_ context.Context, userID string) ([]models.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.MatchRequest{}
	for _, req := range f.requests {
		if req.RequesterID == userID || req.RequestedID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []string
	err      error
}

func (f *fakeNotifier) NotifyFollowUp(_ context.Context, fu models.FollowUp) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, fu.FollowUpID)
	return nil
}

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateContent(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

var errBoom = errors.New("boom")

// fixedNow pins the clock for year-aware scoring and expiry tests.
func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}
