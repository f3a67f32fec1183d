package models

// Match statuses
const (
	MatchStatusPending       = "pending"
	MatchStatusConnected     = "connected"
	MatchStatusNotInterested = "not_interested"
	MatchStatusExpired       = "expired"
)

// Follow-up types
const (
	FollowUpTypeThreeDayCheckin   = "3_day_checkin"
	FollowUpTypeSevenDayNextMatch = "7_day_next_match"
)

// Follow-up statuses
const (
	FollowUpStatusPending   = "pending"
	FollowUpStatusSent      = "sent"
	FollowUpStatusCancelled = "cancelled"
)

// Match request statuses. Everything except pending is terminal.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusExpired   = "expired"
	RequestStatusCancelled = "cancelled"
)

// Notification preferences. Anything other than the decline values counts as opted in.
const (
	NotificationsOptIn  = "opt_in"
	NotificationsOptOut = "opt_out"
	NotificationsNo     = "no"
)
