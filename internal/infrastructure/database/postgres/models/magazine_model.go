package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorModel represents the database model for a magazine Vendor
type VendorModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	ContactDetails *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (VendorModel) TableName() string {
	return "vendors"
}

// MagazineModel represents the database model for a Magazine title
type MagazineModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title      string    `gorm:"type:varchar(200);not null;index"`
	Language   string    `gorm:"type:varchar(50);default:'English'"`
	Frequency  *string   `gorm:"type:varchar(50)"`
	Category   *string   `gorm:"type:varchar(100)"`
	CoverImage *string   `gorm:"type:varchar(255)"`
	IsActive   bool      `gorm:"default:true;not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (MagazineModel) TableName() string {
	return "magazines"
}

// MagazineIssueModel represents the database model for a received issue
type MagazineIssueModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MagazineID       uuid.UUID `gorm:"type:uuid;not null;index"`
	IssueDescription string    `gorm:"type:varchar(100);not null"`
	ReceivedDate     time.Time `gorm:"not null"`
	VendorID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Remarks          *string   `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"not null"`

	Magazine *MagazineModel `gorm:"foreignKey:MagazineID"`
	Vendor   *VendorModel   `gorm:"foreignKey:VendorID"`
}

func (MagazineIssueModel) TableName() string {
	return "magazine_issues"
}
