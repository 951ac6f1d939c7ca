package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, userID uuid.UUID) error
	CountByRole(ctx context.Context, role Role) (int64, error)

	// UpdatePassword stores the new hash and the history entry atomically.
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, entry *PasswordHistory) error
	RecentPasswordHashes(ctx context.Context, userID uuid.UUID, limit int) ([]string, error)
}

// TokenRepository defines the interface for password reset token operations
type TokenRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	GetByValue(ctx context.Context, value string) (*PasswordResetToken, error)
	GetByID(ctx context.Context, tokenID uuid.UUID) (*PasswordResetToken, error)
	ListActive(ctx context.Context) ([]*PasswordResetToken, error)

	// InvalidateUserTokens marks all unused, unexpired tokens of the user as
	// used and returns how many were affected.
	InvalidateUserTokens(ctx context.Context, userID uuid.UUID) (int64, error)
	Revoke(ctx context.Context, tokenID uuid.UUID) error

	// Consume marks the token used and applies the password update in one
	// database transaction. The token must not be consumed if the password
	// update fails.
	Consume(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string, entry *PasswordHistory) error
}
