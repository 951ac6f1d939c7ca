package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the single authorization dimension of the system.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleViewer    Role = "viewer"
)

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleLibrarian, RoleViewer:
		return true
	}
	return false
}

// User represents a library account in the domain
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	PasswordHashed string
	FullName       string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PasswordResetToken is a single-use, time-limited secret handed out by an
// admin so a user can reset a forgotten password. The token value itself is
// the lookup key and must be treated like a short-lived session id.
type PasswordResetToken struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Token       string
	TokenType   string
	ExpiresAt   time.Time
	IsUsed      bool
	UsedAt      *time.Time
	GeneratedBy *uuid.UUID
	IPAddress   *string
	CreatedAt   time.Time
}

func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// PasswordHistory is an append-only record of a user's prior password
// hashes, kept to forbid reuse of recent passwords.
type PasswordHistory struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	PasswordHashed string
	ChangedAt      time.Time
	ChangedBy      *uuid.UUID // nil when the user changed it themselves
	ChangeReason   string
	IPAddress      *string
}

const (
	TokenTypeAdminGenerated = "admin_generated"

	ChangeReasonUserChange     = "user_change"
	ChangeReasonAdminReset     = "admin_reset"
	ChangeReasonForgotPassword = "forgot_password"
)
