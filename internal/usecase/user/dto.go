package user

import (
	"time"

	domainUser "library-nexus/internal/domain/user"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"required,min=2,max=255"`
	Role            string `json:"role" validate:"required,user_role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Role     *string `json:"role" validate:"omitempty,user_role"`
	IsActive *bool   `json:"is_active"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type AdminSetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type GenerateResetTokenRequest struct {
	Username string `json:"username" validate:"required"`
}

type ResetWithTokenRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"access_token"`
	ExpiresAt   int64         `json:"expires_at"`
}

// ResetTokenResponse is what the admin sees after generating a token. The
// token value is shown exactly once, here.
type ResetTokenResponse struct {
	TokenID     uuid.UUID `json:"token_id"`
	Token       string    `json:"token"`
	Username    string    `json:"username"`
	ExpiresAt   time.Time `json:"expires_at"`
	Invalidated int64     `json:"invalidated_tokens"`
}

// PendingTokenResponse describes an outstanding token for the admin view.
type PendingTokenResponse struct {
	TokenID          uuid.UUID `json:"token_id"`
	Token            string    `json:"token"`
	UserID           uuid.UUID `json:"user_id"`
	Username         string    `json:"username"`
	FullName         string    `json:"full_name"`
	GeneratedBy      string    `json:"generated_by"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	MinutesRemaining int       `json:"minutes_remaining"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
