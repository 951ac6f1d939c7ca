package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidUserRole    = errors.New("invalid user role")
	ErrUserHasActiveLoans = errors.New("user has active loans")

	ErrResetTokenInvalid = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")
	ErrResetTokenUsed    = errors.New("reset token has already been used")
)
