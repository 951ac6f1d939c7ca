package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"library-nexus/internal/domain/user"
	"library-nexus/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "duplicate key") {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	u.CreatedAt = dbModel.CreatedAt
	u.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("username = ?", username).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("email = ?", email).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	var dbModels []models.UserModel
	err := r.db.DB.WithContext(ctx).Order("created_at").Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"email":      u.Email,
			"full_name":  u.FullName,
			"role":       string(u.Role),
			"is_active":  u.IsActive,
			"updated_at": u.UpdatedAt,
		})

	if result.Error != nil {
		errStr := strings.ToLower(result.Error.Error())
		if strings.Contains(errStr, "duplicate key") {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("role = ?", string(role)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// UpdatePassword stores the new hash and appends the history entry in one
// transaction so the history window can never miss a change.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, entry *user.PasswordHistory) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.UserModel{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"password_hashed": passwordHash,
				"updated_at":      time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update password: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return user.ErrUserNotFound
		}

		return createHistoryEntry(tx, entry)
	})
}

func (r *UserRepository) RecentPasswordHashes(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	var hashes []string
	err := r.db.DB.WithContext(ctx).Model(&models.PasswordHistoryModel{}).
		Where("user_id = ?", userID).
		Order("changed_at DESC").
		Limit(limit).
		Pluck("password_hashed", &hashes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get password history: %w", err)
	}
	return hashes, nil
}

func createHistoryEntry(tx *gorm.DB, entry *user.PasswordHistory) error {
	if entry == nil {
		return nil
	}

	dbModel := &models.PasswordHistoryModel{
		ID:             uuid.New(),
		UserID:         entry.UserID,
		PasswordHashed: entry.PasswordHashed,
		ChangedAt:      time.Now(),
		ChangedBy:      entry.ChangedBy,
		ChangeReason:   entry.ChangeReason,
		IPAddress:      entry.IPAddress,
	}
	if err := tx.Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to record password history: %w", err)
	}

	entry.ID = dbModel.ID
	entry.ChangedAt = dbModel.ChangedAt
	return nil
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		FullName:       u.FullName,
		Role:           string(u.Role),
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		FullName:       m.FullName,
		Role:           user.Role(m.Role),
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
