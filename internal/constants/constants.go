package constants

import "time"

// Session / context keys
const (
	SessionCookieName = "teamqa_session"
	ContextKeyUserID  = "user_id"
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Validation limits
const (
	MinPasswordLength  = 8
	MaxCommentLength   = 600
	MaxTagsPerQuestion = 5
)

// Invite lifecycle
const (
	InviteTokenBytes = 32 // 256 bits of entropy, hex encoded
	InviteTTL        = 7 * 24 * time.Hour
)
