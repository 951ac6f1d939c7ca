package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-nexus/internal/domain/user"
	"library-nexus/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository implements the user.TokenRepository interface
type TokenRepository struct {
	db *DB
}

// NewTokenRepository creates a new password reset token repository
func NewTokenRepository(db *DB) user.TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *user.PasswordResetToken) error {
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	token.IsUsed = false

	dbModel := toTokenModel(token)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	token.ID = dbModel.ID
	token.CreatedAt = dbModel.CreatedAt
	return nil
}

func (r *TokenRepository) GetByValue(ctx context.Context, value string) (*user.PasswordResetToken, error) {
	var dbModel models.PasswordResetTokenModel
	err := r.db.DB.WithContext(ctx).Where("token = ?", value).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return toTokenEntity(&dbModel), nil
}

func (r *TokenRepository) GetByID(ctx context.Context, tokenID uuid.UUID) (*user.PasswordResetToken, error) {
	var dbModel models.PasswordResetTokenModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", tokenID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return toTokenEntity(&dbModel), nil
}

func (r *TokenRepository) ListActive(ctx context.Context) ([]*user.PasswordResetToken, error) {
	var dbModels []models.PasswordResetTokenModel
	err := r.db.DB.WithContext(ctx).
		Where("is_used = false AND expires_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active reset tokens: %w", err)
	}

	tokens := make([]*user.PasswordResetToken, len(dbModels))
	for i := range dbModels {
		tokens[i] = toTokenEntity(&dbModels[i])
	}
	return tokens, nil
}

func (r *TokenRepository) InvalidateUserTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.DB.WithContext(ctx).Model(&models.PasswordResetTokenModel{}).
		Where("user_id = ? AND is_used = false AND expires_at > ?", userID, now).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to invalidate reset tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	now := time.Now()
	result := r.db.DB.WithContext(ctx).Model(&models.PasswordResetTokenModel{}).
		Where("id = ? AND is_used = false", tokenID).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.DB.WithContext(ctx).Model(&models.PasswordResetTokenModel{}).
			Where("id = ?", tokenID).Count(&count)
		if count == 0 {
			return user.ErrResetTokenInvalid
		}
		return user.ErrResetTokenUsed
	}
	return nil
}

// Consume marks the token used, updates the user's password and appends the
// history entry in one transaction. The conditional update on is_used makes
// double consumption lose the race cleanly.
func (r *TokenRepository) Consume(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string, entry *user.PasswordHistory) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.PasswordResetTokenModel{}).
			Where("id = ? AND is_used = false AND expires_at > ?", tokenID, now).
			Updates(map[string]interface{}{
				"is_used": true,
				"used_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to consume reset token: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return user.ErrResetTokenUsed
		}

		userResult := tx.Model(&models.UserModel{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"password_hashed": passwordHash,
				"updated_at":      now,
			})
		if userResult.Error != nil {
			return fmt.Errorf("failed to update password: %w", userResult.Error)
		}
		if userResult.RowsAffected == 0 {
			return user.ErrUserNotFound
		}

		return createHistoryEntry(tx, entry)
	})
}

func toTokenModel(t *user.PasswordResetToken) *models.PasswordResetTokenModel {
	return &models.PasswordResetTokenModel{
		ID:          t.ID,
		UserID:      t.UserID,
		Token:       t.Token,
		TokenType:   t.TokenType,
		ExpiresAt:   t.ExpiresAt,
		IsUsed:      t.IsUsed,
		UsedAt:      t.UsedAt,
		GeneratedBy: t.GeneratedBy,
		IPAddress:   t.IPAddress,
		CreatedAt:   t.CreatedAt,
	}
}

func toTokenEntity(m *models.PasswordResetTokenModel) *user.PasswordResetToken {
	return &user.PasswordResetToken{
		ID:          m.ID,
		UserID:      m.UserID,
		Token:       m.Token,
		TokenType:   m.TokenType,
		ExpiresAt:   m.ExpiresAt,
		IsUsed:      m.IsUsed,
		UsedAt:      m.UsedAt,
		GeneratedBy: m.GeneratedBy,
		IPAddress:   m.IPAddress,
		CreatedAt:   m.CreatedAt,
	}
}
