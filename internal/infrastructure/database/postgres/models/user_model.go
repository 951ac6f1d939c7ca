package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username       string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHashed string    `gorm:"type:varchar(255);not null"`
	FullName       string    `gorm:"type:varchar(255);not null"`
	Role           string    `gorm:"type:varchar(20);not null;default:'viewer';index"`
	IsActive       bool      `gorm:"default:true;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// PasswordResetTokenModel represents the database model for PasswordResetToken
type PasswordResetTokenModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Token       string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	TokenType   string     `gorm:"type:varchar(20);not null;default:'admin_generated'"`
	ExpiresAt   time.Time  `gorm:"not null;index"`
	IsUsed      bool       `gorm:"default:false;not null;index"`
	UsedAt      *time.Time `gorm:"type:timestamptz"`
	GeneratedBy *uuid.UUID `gorm:"type:uuid"`
	IPAddress   *string    `gorm:"type:varchar(45)"`
	CreatedAt   time.Time  `gorm:"not null"`

	User *UserModel `gorm:"foreignKey:UserID"`
}

func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}

// PasswordHistoryModel represents the database model for PasswordHistory
type PasswordHistoryModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	PasswordHashed string     `gorm:"type:varchar(255);not null"`
	ChangedAt      time.Time  `gorm:"not null;index"`
	ChangedBy      *uuid.UUID `gorm:"type:uuid"`
	ChangeReason   string     `gorm:"type:varchar(50)"`
	IPAddress      *string    `gorm:"type:varchar(45)"`

	User *UserModel `gorm:"foreignKey:UserID"`
}

func (PasswordHistoryModel) TableName() string {
	return "password_history"
}
