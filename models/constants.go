package models

// Discovery session statuses
const (
	SessionStatusActive  = "active"
	SessionStatusExpired = "expired"
)

// Match statuses
const (
	MatchStatusPending  = "pending"
	MatchStatusMatched  = "matched"
	MatchStatusRejected = "rejected"
	MatchStatusExpired  = "expired"
)

// Notification types pushed to devices
const (
	NotificationTypeMatch   = "match"
	NotificationTypeMessage = "message"
)
