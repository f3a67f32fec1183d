package services

import (
	"context"
	"testing"
	"time"

	"linkup_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pendingFollowUp(id, matchID string, scheduledFor time.Time) models.FollowUp {
	return models.FollowUp{
		FollowUpID:   id,
		MatchID:      matchID,
		UserID:       "user-a",
		Type:         models.FollowUpTypeThreeDayCheckin,
		ScheduledFor: scheduledFor.Format(time.RFC3339),
		Status:       models.FollowUpStatusPending,
	}
}

func newFollowUpService(store *fakeFollowUpStore, matches *fakeMatchStore) *FollowUpService {
	return &FollowUpService{
		FollowUps: store,
		Matches:   matches,
		Logger:    zap.NewNop(),
		Now:       fixedNow,
	}
}

func TestDueFollowUps(t *testing.T) {
	store := newFakeFollowUpStore(
		pendingFollowUp("fu-due", "m-1", fixedNow().Add(-time.Hour)),
		pendingFollowUp("fu-future", "m-2", fixedNow().Add(time.Hour)),
	)
	svc := newFollowUpService(store, newFakeMatchStore())

	due, err := svc.DueFollowUps(context.Background())
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, "fu-due", due[0].FollowUpID)
}

func TestMarkSentIsIdempotent(t *testing.T) {
	store := newFakeFollowUpStore(pendingFollowUp("fu-1", "m-1", fixedNow().Add(-time.Hour)))
	svc := newFollowUpService(store, newFakeMatchStore())

	require.NoError(t, svc.MarkSent(context.Background(), "fu-1"))
	assert.Equal(t, models.FollowUpStatusSent, store.followUps["fu-1"].Status)
	assert.NotEmpty(t, store.followUps["fu-1"].SentAt)

	// A second mark is a no-op, mirroring the conditional update in storage.
	sentAt := store.followUps["fu-1"].SentAt
	require.NoError(t, svc.MarkSent(context.Background(), "fu-1"))
	assert.Equal(t, sentAt, store.followUps["fu-1"].SentAt)
}

func TestRecordResponse(t *testing.T) {
	t.Run("response with mapped status updates the match", func(t *testing.T) {
		store := newFakeFollowUpStore(pendingFollowUp("fu-1", "m-1", fixedNow()))
		matches := newFakeMatchStore()
		svc := newFollowUpService(store, matches)

		err := svc.RecordResponse(context.Background(), "fu-1", "we had a great call!", models.MatchStatusConnected)
		require.NoError(t, err)

		assert.Equal(t, "we had a great call!", store.followUps["fu-1"].Response)
		assert.Equal(t, models.MatchStatusConnected, matches.statuses["m-1"])
	})

	t.Run("response without status leaves the match alone", func(t *testing.T) {
		store := newFakeFollowUpStore(pendingFollowUp("fu-1", "m-1", fixedNow()))
		matches := newFakeMatchStore()
		svc := newFollowUpService(store, matches)

		require.NoError(t, svc.RecordResponse(context.Background(), "fu-1", "thinking about it", ""))

		assert.Equal(t, "thinking about it", store.followUps["fu-1"].Response)
		assert.Empty(t, matches.statuses)
	})

	t.Run("invalid status is rejected before any write", func(t *testing.T) {
		store := newFakeFollowUpStore(pendingFollowUp("fu-1", "m-1", fixedNow()))
		svc := newFollowUpService(store, newFakeMatchStore())

		err := svc.RecordResponse(context.Background(), "fu-1", "nope", models.MatchStatusExpired)
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Empty(t, store.followUps["fu-1"].Response)
	})

	t.Run("unknown follow-up", func(t *testing.T) {
		svc := newFollowUpService(newFakeFollowUpStore(), newFakeMatchStore())

		err := svc.RecordResponse(context.Background(), "missing", "hi", "")
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestDispatchDue(t *testing.T) {
	t.Run("notifies and marks each due follow-up", func(t *testing.T) {
		store := newFakeFollowUpStore(
			pendingFollowUp("fu-1", "m-1", fixedNow().Add(-2*time.Hour)),
			pendingFollowUp("fu-2", "m-2", fixedNow().Add(-time.Hour)),
			pendingFollowUp("fu-later", "m-3", fixedNow().Add(time.Hour)),
		)
		svc := newFollowUpService(store, newFakeMatchStore())
		notifier := &fakeNotifier{}
		svc.Notifier = notifier

		dispatched, err := svc.DispatchDue(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, dispatched)
		assert.Len(t, notifier.notified, 2)
		assert.Equal(t, models.FollowUpStatusSent, store.followUps["fu-1"].Status)
		assert.Equal(t, models.FollowUpStatusSent, store.followUps["fu-2"].Status)
		assert.Equal(t, models.FollowUpStatusPending, store.followUps["fu-later"].Status)
	})

	t.Run("notifier failure leaves the follow-up pending for the next poll", func(t *testing.T) {
		store := newFakeFollowUpStore(pendingFollowUp("fu-1", "m-1", fixedNow().Add(-time.Hour)))
		svc := newFollowUpService(store, newFakeMatchStore())
		svc.Notifier = &fakeNotifier{err: errBoom}

		dispatched, err := svc.DispatchDue(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 0, dispatched)
		assert.Equal(t, models.FollowUpStatusPending, store.followUps["fu-1"].Status)
	})

	t.Run("already dispatched rows are not re-sent", func(t *testing.T) {
		store := newFakeFollowUpStore(pendingFollowUp("fu-1", "m-1", fixedNow().Add(-time.Hour)))
		svc := newFollowUpService(store, newFakeMatchStore())
		notifier := &fakeNotifier{}
		svc.Notifier = notifier

		_, err := svc.DispatchDue(context.Background())
		require.NoError(t, err)

		dispatched, err := svc.DispatchDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, dispatched)
		assert.Len(t, notifier.notified, 1)
	})
}

func TestFollowUpServiceStorageNotConfigured(t *testing.T) {
	svc := &FollowUpService{Logger: zap.NewNop()}

	_, err := svc.DueFollowUps(context.Background())
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	err = svc.MarkSent(context.Background(), "fu-1")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	err = svc.RecordResponse(context.Background(), "fu-1", "hi", "")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}
