package constants

// Session and context keys
const (
	SessionCookieName  = "volunteer_session"
	SessionKeyEmail    = "user_email"
	SessionKeyName     = "user_name"
	ContextKeyEmail    = "user_email"
	ContextKeyUserName = "user_name"
)

// Validation limits
const (
	MinPasswordLength   = 6
	MinMotivationLength = 20
	MaxTitleLength      = 60
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
