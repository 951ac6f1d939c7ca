package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainUser "library-nexus/internal/domain/user"
	"library-nexus/internal/logger"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateResetToken creates a short reset code an admin can read to a user
// over the phone. Any earlier unused tokens for the same user are
// invalidated first, so at most one token is live per user.
func (s *Service) GenerateResetToken(ctx context.Context, adminID uuid.UUID, req *GenerateResetTokenRequest, ipAddress *string) (*ResetTokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	target, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, appErrors.NewAppError("USER_INACTIVE", "Cannot generate a reset token for an inactive user", nil)
	}

	invalidated, err := s.tokenRepo.InvalidateUserTokens(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}

	value, err := utils.GenerateResetToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &domainUser.PasswordResetToken{
		UserID:      target.ID,
		Token:       value,
		TokenType:   domainUser.TokenTypeAdminGenerated,
		ExpiresAt:   time.Now().Add(time.Duration(s.config.Library.ResetTokenTTLMinutes) * time.Minute),
		GeneratedBy: &adminID,
		IPAddress:   ipAddress,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	logger.Info("Password reset token generated",
		zap.String("user_id", target.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("token_id", token.ID.String()),
		zap.Time("expires_at", token.ExpiresAt),
		zap.Int64("invalidated", invalidated),
		zap.String("event", "reset_token_generated"),
	)

	return &ResetTokenResponse{
		TokenID:     token.ID,
		Token:       token.Token,
		Username:    target.Username,
		ExpiresAt:   token.ExpiresAt,
		Invalidated: invalidated,
	}, nil
}

// ResetPasswordWithToken exchanges a valid token for a new password. The
// endpoint is public; the token is the sole credential. The token is
// consumed and the password updated in one transaction, so a failed update
// leaves the token usable.
func (s *Service) ResetPasswordWithToken(ctx context.Context, req *ResetWithTokenRequest, ipAddress *string) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	// Tokens are read out loud, so tolerate lowercase and stray spaces.
	value := strings.ToUpper(strings.TrimSpace(req.Token))

	token, err := s.tokenRepo.GetByValue(ctx, value)
	if err != nil {
		logger.Warn("Password reset attempt with unknown token",
			zap.String("event", "reset_failed_invalid_token"),
		)
		return err
	}

	if token.IsUsed {
		return domainUser.ErrResetTokenUsed
	}
	if token.IsExpired(time.Now()) {
		return domainUser.ErrResetTokenExpired
	}

	target, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	if !target.IsActive {
		return appErrors.ErrUserInactive
	}

	strength := utils.EvaluatePassword(req.NewPassword)
	if !strength.Valid {
		return appErrors.NewAppError("WEAK_PASSWORD", strength.Feedback[0], nil)
	}
	if err := s.checkPasswordReuse(ctx, target, req.NewPassword); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	entry := &domainUser.PasswordHistory{
		UserID:         target.ID,
		PasswordHashed: hashedPassword,
		ChangedAt:      time.Now(),
		ChangeReason:   domainUser.ChangeReasonForgotPassword,
		IPAddress:      ipAddress,
	}
	if err := s.tokenRepo.Consume(ctx, token.ID, target.ID, hashedPassword, entry); err != nil {
		return err
	}

	logger.Info("Password reset with token",
		zap.String("user_id", target.ID.String()),
		zap.String("token_id", token.ID.String()),
		zap.String("event", "reset_success"),
	)

	return nil
}

// ListPendingTokens returns every unused, unexpired token for the admin
// overview.
func (s *Service) ListPendingTokens(ctx context.Context) ([]*PendingTokenResponse, error) {
	tokens, err := s.tokenRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := make([]*PendingTokenResponse, 0, len(tokens))
	for _, t := range tokens {
		resp := &PendingTokenResponse{
			TokenID:          t.ID,
			Token:            t.Token,
			UserID:           t.UserID,
			Username:         "Unknown",
			FullName:         "Unknown",
			GeneratedBy:      "System",
			ExpiresAt:        t.ExpiresAt,
			CreatedAt:        t.CreatedAt,
			MinutesRemaining: int(t.ExpiresAt.Sub(now).Minutes()),
		}
		if target, err := s.userRepo.GetByID(ctx, t.UserID); err == nil {
			resp.Username = target.Username
			resp.FullName = target.FullName
		}
		if t.GeneratedBy != nil {
			if admin, err := s.userRepo.GetByID(ctx, *t.GeneratedBy); err == nil {
				resp.GeneratedBy = admin.Username
			}
		}
		result = append(result, resp)
	}

	return result, nil
}

// RevokeToken cancels an unused token, for when one was generated by
// mistake.
func (s *Service) RevokeToken(ctx context.Context, adminID, tokenID uuid.UUID) error {
	token, err := s.tokenRepo.GetByID(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.IsUsed {
		return domainUser.ErrResetTokenUsed
	}

	if err := s.tokenRepo.Revoke(ctx, tokenID); err != nil {
		return err
	}

	logger.Info("Password reset token revoked",
		zap.String("token_id", tokenID.String()),
		zap.String("user_id", token.UserID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("event", "reset_token_revoked"),
	)

	return nil
}
