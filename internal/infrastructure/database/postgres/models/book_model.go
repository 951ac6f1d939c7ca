package models

import (
	"time"

	"github.com/google/uuid"
)

// BookModel represents the database model for a physical Book
type BookModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AccNo         string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Author        string    `gorm:"type:text;not null"`
	Title         string    `gorm:"type:text;not null"`
	PublisherInfo *string   `gorm:"type:text"`
	Subject       *string   `gorm:"type:text;index"`
	ClassNo       *string   `gorm:"type:varchar(50)"`
	Year          *int      `gorm:"type:integer"`
	ISBN          *string   `gorm:"type:varchar(20)"`
	Language      string    `gorm:"type:varchar(50);default:'English'"`
	StorageLoc    string    `gorm:"type:varchar(50);not null"`
	IsIssued      bool      `gorm:"default:false;not null;index"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (BookModel) TableName() string {
	return "books"
}

// LoanModel represents the database model for a circulation Loan
type LoanModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BookID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	IssueDate      time.Time  `gorm:"not null"`
	DueDate        time.Time  `gorm:"not null;index"`
	ReturnDate     *time.Time `gorm:"type:timestamptz"`
	ExtensionCount int        `gorm:"type:integer;not null;default:0"`
	Status         string     `gorm:"type:varchar(20);not null;default:'Issued';index"`
	Notes          *string    `gorm:"type:text"`
	CreatedAt      time.Time  `gorm:"not null;index"`

	Book *BookModel `gorm:"foreignKey:BookID"`
	User *UserModel `gorm:"foreignKey:UserID"`
}

func (LoanModel) TableName() string {
	return "loans"
}
