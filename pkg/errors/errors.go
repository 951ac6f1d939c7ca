package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrUnauthorized            = errors.New("unauthorized access")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrInvalidUserRole   = errors.New("invalid user role")

	ErrInvalidInput   = errors.New("invalid input data")
	ErrWeakPassword   = errors.New("password does not meet requirements")
	ErrPasswordReused = errors.New("password was used recently and cannot be reused")

	ErrResetTokenInvalid = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")
	ErrResetTokenUsed    = errors.New("reset token has already been used")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
