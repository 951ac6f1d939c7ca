package user

import (
	"context"
	"fmt"
	"time"

	domainUser "library-nexus/internal/domain/user"
	"library-nexus/internal/logger"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangePassword lets a user change their own password. The new password
// must meet the hard strength requirements and must not match any of the
// last few passwords on record.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest, ipAddress *string) (*utils.PasswordStrength, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	strength := utils.EvaluatePassword(req.NewPassword)
	if !strength.Valid {
		return &strength, appErrors.NewAppError("WEAK_PASSWORD", strength.Feedback[0], nil)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.OldPassword) {
		logger.Warn("Password change attempt with invalid old password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "password_change_failed_invalid_old_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if err := s.checkPasswordReuse(ctx, user, req.NewPassword); err != nil {
		return nil, err
	}

	if err := s.applyPasswordChange(ctx, user, req.NewPassword, nil, domainUser.ChangeReasonUserChange, ipAddress); err != nil {
		return nil, err
	}

	logger.Info("Password changed successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_change_success"),
	)

	return &strength, nil
}

// AdminSetPassword lets an admin overwrite a user's password directly. The
// reuse window still applies so an admin reset cannot cycle back to a
// recent password.
func (s *Service) AdminSetPassword(ctx context.Context, adminID, userID uuid.UUID, req *AdminSetPasswordRequest, ipAddress *string) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	strength := utils.EvaluatePassword(req.NewPassword)
	if !strength.Valid {
		return appErrors.NewAppError("WEAK_PASSWORD", strength.Feedback[0], nil)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.checkPasswordReuse(ctx, user, req.NewPassword); err != nil {
		return err
	}

	if err := s.applyPasswordChange(ctx, user, req.NewPassword, &adminID, domainUser.ChangeReasonAdminReset, ipAddress); err != nil {
		return err
	}

	// Any outstanding reset tokens are useless once the password changed.
	if _, err := s.tokenRepo.InvalidateUserTokens(ctx, userID); err != nil {
		logger.Error("Failed to invalidate reset tokens after admin password set",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	logger.Info("Password set by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("event", "password_admin_reset"),
	)

	return nil
}

// CheckStrength evaluates a candidate password without storing anything.
func (s *Service) CheckStrength(password string) utils.PasswordStrength {
	return utils.EvaluatePassword(password)
}

// checkPasswordReuse compares the candidate against the current hash and
// the recent history window.
func (s *Service) checkPasswordReuse(ctx context.Context, user *domainUser.User, newPassword string) error {
	if utils.CheckPassword(user.PasswordHashed, newPassword) {
		return appErrors.ErrPasswordReused
	}

	historyCount := s.config.Library.PasswordHistoryCount
	if historyCount <= 0 {
		return nil
	}

	hashes, err := s.userRepo.RecentPasswordHashes(ctx, user.ID, historyCount)
	if err != nil {
		return fmt.Errorf("failed to load password history: %w", err)
	}
	for _, h := range hashes {
		if utils.CheckPassword(h, newPassword) {
			return appErrors.ErrPasswordReused
		}
	}

	return nil
}

func (s *Service) applyPasswordChange(ctx context.Context, user *domainUser.User, newPassword string, changedBy *uuid.UUID, reason string, ipAddress *string) error {
	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// The history records the hash being installed, so the reuse window
	// covers the password that is current right now.
	entry := &domainUser.PasswordHistory{
		UserID:         user.ID,
		PasswordHashed: hashedPassword,
		ChangedAt:      time.Now(),
		ChangedBy:      changedBy,
		ChangeReason:   reason,
		IPAddress:      ipAddress,
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword, entry)
}
