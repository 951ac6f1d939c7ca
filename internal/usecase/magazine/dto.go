package magazine

import (
	"time"

	domainMagazine "library-nexus/internal/domain/magazine"

	"github.com/google/uuid"
)

type CreateVendorRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=100"`
	ContactDetails *string `json:"contact_details" validate:"omitempty,max=1000"`
}

type CreateMagazineRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=200"`
	Language  string  `json:"language" validate:"omitempty,max=50"`
	Frequency *string `json:"frequency" validate:"omitempty,max=50"`
	Category  *string `json:"category" validate:"omitempty,max=100"`
}

type UpdateMagazineRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=200"`
	Language  *string `json:"language" validate:"omitempty,max=50"`
	Frequency *string `json:"frequency" validate:"omitempty,max=50"`
	Category  *string `json:"category" validate:"omitempty,max=100"`
	IsActive  *bool   `json:"is_active"`
}

type LogIssueRequest struct {
	MagazineID       uuid.UUID  `json:"magazine_id" validate:"required"`
	IssueDescription string     `json:"issue_description" validate:"required,min=1,max=100"`
	ReceivedDate     *time.Time `json:"received_date"`
	VendorID         uuid.UUID  `json:"vendor_id" validate:"required"`
	Remarks          *string    `json:"remarks" validate:"omitempty,max=1000"`
}

type ListMagazinesRequest struct {
	Search     string
	Language   string
	Frequency  string
	Category   string
	ActiveOnly bool
	Page       int
	PageSize   int
}

type VendorResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ContactDetails *string   `json:"contact_details"`
	CreatedAt      time.Time `json:"created_at"`
}

type MagazineResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Language   string    `json:"language"`
	Frequency  *string   `json:"frequency"`
	Category   *string   `json:"category"`
	CoverImage *string   `json:"cover_image"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MagazineDetailResponse adds the latest received issue for catalog views.
type MagazineDetailResponse struct {
	MagazineResponse
	LatestIssue *IssueResponse `json:"latest_issue"`
}

type IssueResponse struct {
	ID               uuid.UUID `json:"id"`
	MagazineID       uuid.UUID `json:"magazine_id"`
	IssueDescription string    `json:"issue_description"`
	ReceivedDate     time.Time `json:"received_date"`
	VendorID         uuid.UUID `json:"vendor_id"`
	VendorName       string    `json:"vendor_name"`
	Remarks          *string   `json:"remarks"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToVendorResponse(v *domainMagazine.Vendor) *VendorResponse {
	if v == nil {
		return nil
	}
	return &VendorResponse{
		ID:             v.ID,
		Name:           v.Name,
		ContactDetails: v.ContactDetails,
		CreatedAt:      v.CreatedAt,
	}
}

func ToMagazineResponse(m *domainMagazine.Magazine) *MagazineResponse {
	if m == nil {
		return nil
	}
	return &MagazineResponse{
		ID:         m.ID,
		Title:      m.Title,
		Language:   m.Language,
		Frequency:  m.Frequency,
		Category:   m.Category,
		CoverImage: m.CoverImage,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToIssueResponse(i *domainMagazine.Issue) *IssueResponse {
	if i == nil {
		return nil
	}
	return &IssueResponse{
		ID:               i.ID,
		MagazineID:       i.MagazineID,
		IssueDescription: i.IssueDescription,
		ReceivedDate:     i.ReceivedDate,
		VendorID:         i.VendorID,
		VendorName:       i.VendorName,
		Remarks:          i.Remarks,
		CreatedAt:        i.CreatedAt,
	}
}
