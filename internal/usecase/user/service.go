package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-nexus/internal/config"
	"library-nexus/internal/domain/circulation"
	domainUser "library-nexus/internal/domain/user"
	"library-nexus/internal/logger"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements user account use cases
type Service struct {
	userRepo  domainUser.Repository
	tokenRepo domainUser.TokenRepository
	loanRepo  circulation.Repository
	config    *config.Config
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	tokenRepo domainUser.TokenRepository,
	loanRepo circulation.Repository,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		loanRepo:  loanRepo,
		config:    cfg,
	}
}

// Register creates a new account. Only admins reach this operation; the
// route layer enforces that.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	strength := utils.EvaluatePassword(req.Password)
	if !strength.Valid {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", strength.Feedback[0], nil)
	}

	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		logger.Warn("Registration attempt with existing username",
			zap.String("username", req.Username),
			zap.String("event", "registration_failed_duplicate_username"),
		)
		return nil, appErrors.ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domainUser.User{
		Username:       req.Username,
		Email:          utils.SanitizeEmail(req.Email),
		PasswordHashed: hashedPassword,
		FullName:       utils.SanitizeString(req.FullName),
		Role:           domainUser.Role(req.Role),
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(user), nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with unknown username",
				zap.String("username", req.Username),
				zap.String("event", "login_failed_user_not_found"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// Inactive accounts get the same answer as a bad password so callers
	// cannot tell which usernames exist.
	if !user.IsActive {
		logger.Warn("Login attempt for inactive user",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username),
			zap.String("event", "login_failed_inactive_user"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateToken(
		user.ID,
		user.Username,
		string(user.Role),
		s.config.JWT.Secret,
		s.config.JWT.ExpiryHours,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("event", "login_success"),
	)

	return &AuthResponse{
		User:        ToUserResponse(user),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

func (s *Service) GetAllUsers(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(u))
	}

	return responses, nil
}

// UpdateUser applies admin edits to an account. An admin cannot deactivate
// or demote their own account; that would lock the last admin out.
func (s *Service) UpdateUser(ctx context.Context, actorID, userID uuid.UUID, req *UpdateUserRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if actorID == userID {
		if req.IsActive != nil && !*req.IsActive {
			return nil, appErrors.NewAppError("SELF_DEACTIVATE", "You cannot deactivate your own account", nil)
		}
		if req.Role != nil && domainUser.Role(*req.Role) != domainUser.RoleAdmin {
			return nil, appErrors.NewAppError("SELF_DEMOTE", "You cannot change your own role", nil)
		}
	}

	if req.Email != nil {
		user.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.FullName != nil {
		user.FullName = utils.SanitizeString(*req.FullName)
	}
	if req.Role != nil {
		user.Role = domainUser.Role(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.String("updated_by", actorID.String()),
		zap.String("event", "user_updated"),
	)

	return ToUserResponse(user), nil
}

// DeleteUser removes an account. Self-deletion is blocked, as is deleting a
// user who still holds issued books.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return appErrors.NewAppError("SELF_DELETE", "You cannot delete your own account", nil)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	active, err := s.loanRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count active loans: %w", err)
	}
	if active > 0 {
		return domainUser.ErrUserHasActiveLoans
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	logger.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("deleted_by", actorID.String()),
		zap.String("event", "user_deleted"),
	)

	return nil
}

// EnsureDefaultAdmin creates a bootstrap admin account when the system has
// none, so a fresh deployment can be logged into.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	count, err := s.userRepo.CountByRole(ctx, domainUser.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domainUser.User{
		Username:       username,
		Email:          username + "@localhost",
		PasswordHashed: hashedPassword,
		FullName:       "Administrator",
		Role:           domainUser.RoleAdmin,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	logger.Warn("Default admin account created, change its password immediately",
		zap.String("username", username),
		zap.String("event", "default_admin_created"),
	)

	return nil
}
