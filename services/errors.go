package services

import "errors"

var (
	// ErrStorageNotConfigured signals a missing storage handle. Scoring
	// callers get an empty result set alongside this error so user-facing
	// render paths never have to deal with a nil list.
	ErrStorageNotConfigured = errors.New("storage is not configured")

	// ErrDuplicateMatch signals that a match for the same
	// (requester, matched) pair was already recorded today.
	ErrDuplicateMatch = errors.New("match already recorded for this pair today")

	// ErrRequestAlreadyActive signals a second pending request for the same
	// ordered pair.
	ErrRequestAlreadyActive = errors.New("an active request already exists for this pair")

	// ErrRequestNotPending signals an approve/reject/cancel attempt on a
	// request that already reached a terminal state.
	ErrRequestNotPending = errors.New("match request is no longer pending")

	// ErrRequestExpired signals an approve/reject attempt past expiresAt.
	ErrRequestExpired = errors.New("match request has expired")

	// ErrInvalidStatus signals a status value outside the allowed set.
	ErrInvalidStatus = errors.New("invalid status value")
)
