package models

import (
	"time"

	"github.com/google/uuid"
)

// DigitalBookModel represents the database model for a hosted digital book
type DigitalBookModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title  string    `gorm:"type:text;not null;index"`
	Author string    `gorm:"type:text;not null;index"`

	FilePath   string `gorm:"type:text;not null"`
	FileSize   int64  `gorm:"type:bigint"`
	FileFormat string `gorm:"type:varchar(10);not null;default:'pdf'"`

	Publisher       *string `gorm:"type:text"`
	PublicationYear *int    `gorm:"type:integer"`
	ISBN            *string `gorm:"type:varchar(20);index"`
	Subject         *string `gorm:"type:text;index"`
	Description     *string `gorm:"type:text"`
	Language        string  `gorm:"type:varchar(20);default:'English'"`
	Category        *string `gorm:"type:varchar(100)"`
	Tags            *string `gorm:"type:text"`

	ViewCount     int64 `gorm:"type:bigint;not null;default:0"`
	DownloadCount int64 `gorm:"type:bigint;not null;default:0"`

	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`

	Uploader *UserModel `gorm:"foreignKey:UploadedBy"`
}

func (DigitalBookModel) TableName() string {
	return "digital_books"
}

// BookDigitalLinkModel links a physical book to a digital resource
type BookDigitalLinkModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BookID        uuid.UUID `gorm:"type:uuid;not null;index:idx_book_digital,unique"`
	DigitalBookID uuid.UUID `gorm:"type:uuid;not null;index:idx_book_digital,unique"`
	LinkType      string    `gorm:"type:varchar(20);default:'same_edition'"`
	Notes         *string   `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`

	Book        *BookModel        `gorm:"foreignKey:BookID"`
	DigitalBook *DigitalBookModel `gorm:"foreignKey:DigitalBookID"`
}

func (BookDigitalLinkModel) TableName() string {
	return "book_digital_links"
}
