package constants

import "time"

// Session and gin context keys
const (
	SessionCookieName = "ats_session"

	ContextKeyUserID         = "user_id"
	ContextKeyOrganizationID = "organization_id"
	ContextKeyOrganization   = "organization"
	ContextKeyDocument       = "document"
)

const (
	MinPasswordLength = 8

	// MaxFileSize is the largest accepted attachment (10 MiB).
	MaxFileSize = 10 << 20
	// MaxDocumentsPerCandidate caps stored documents per candidate.
	MaxDocumentsPerCandidate = 20
	// MaxTextFieldSize bounds a single non-file multipart field.
	MaxTextFieldSize = 64 << 10
)

// Rate limit windows
const (
	ApplyRateLimit     = 5
	ApplyRateWindow    = 15 * time.Minute
	FeedbackRateLimit  = 5
	FeedbackRateWindow = time.Hour
)
