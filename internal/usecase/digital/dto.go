package digital

import (
	"time"

	domainDigital "library-nexus/internal/domain/digital"

	"github.com/google/uuid"
)

type UploadRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=500"`
	Author          string  `json:"author" validate:"required,min=1,max=255"`
	Publisher       *string `json:"publisher" validate:"omitempty,max=255"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,min=1000,max=2100"`
	ISBN            *string `json:"isbn" validate:"omitempty,max=20"`
	Subject         *string `json:"subject" validate:"omitempty,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=5000"`
	Language        string  `json:"language" validate:"omitempty,max=50"`
	Category        *string `json:"category" validate:"omitempty,max=100"`
	Tags            *string `json:"tags" validate:"omitempty,max=500"`
}

type UpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=500"`
	Author          *string `json:"author" validate:"omitempty,min=1,max=255"`
	Publisher       *string `json:"publisher" validate:"omitempty,max=255"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,min=1000,max=2100"`
	ISBN            *string `json:"isbn" validate:"omitempty,max=20"`
	Subject         *string `json:"subject" validate:"omitempty,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=5000"`
	Language        *string `json:"language" validate:"omitempty,max=50"`
	Category        *string `json:"category" validate:"omitempty,max=100"`
	Tags            *string `json:"tags" validate:"omitempty,max=500"`
}

type ListRequest struct {
	Search   string
	Subject  string
	Category string
	Language string
	Format   string
	Page     int
	PageSize int
}

type CreateLinkRequest struct {
	BookID        uuid.UUID `json:"book_id" validate:"required"`
	DigitalBookID uuid.UUID `json:"digital_book_id" validate:"required"`
	LinkType      string    `json:"link_type" validate:"omitempty,oneof=same_edition different_edition related"`
	Notes         *string   `json:"notes" validate:"omitempty,max=1000"`
}

type DigitalBookResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	FileName        string    `json:"file_name"`
	FileSize        int64     `json:"file_size"`
	FileFormat      string    `json:"file_format"`
	Publisher       *string   `json:"publisher"`
	PublicationYear *int      `json:"publication_year"`
	ISBN            *string   `json:"isbn"`
	Subject         *string   `json:"subject"`
	Description     *string   `json:"description"`
	Language        string    `json:"language"`
	Category        *string   `json:"category"`
	Tags            *string   `json:"tags"`
	ViewCount       int64     `json:"view_count"`
	DownloadCount   int64     `json:"download_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LinkedBookResponse is a physical copy tied to a digital book.
type LinkedBookResponse struct {
	LinkID     uuid.UUID `json:"link_id"`
	BookID     uuid.UUID `json:"book_id"`
	AccNo      string    `json:"acc_no"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	StorageLoc string    `json:"storage_loc"`
	IsIssued   bool      `json:"is_issued"`
	LinkType   string    `json:"link_type"`
}

type DigitalBookDetailResponse struct {
	DigitalBookResponse
	UploaderName        string                `json:"uploader_name"`
	LinkedPhysicalBooks []*LinkedBookResponse `json:"linked_physical_books"`
}

type LinkResponse struct {
	ID            uuid.UUID `json:"id"`
	BookID        uuid.UUID `json:"book_id"`
	DigitalBookID uuid.UUID `json:"digital_book_id"`
	LinkType      string    `json:"link_type"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

type StatsResponse struct {
	TotalBooks     int64            `json:"total_books"`
	TotalSizeBytes int64            `json:"total_size_bytes"`
	TotalViews     int64            `json:"total_views"`
	TotalDownloads int64            `json:"total_downloads"`
	ByFormat       map[string]int64 `json:"by_format"`
}

// FileContent carries a resolved vault file for streaming.
type FileContent struct {
	Path      string
	FileName  string
	MediaType string
}

func ToDigitalBookResponse(b *domainDigital.Book) *DigitalBookResponse {
	if b == nil {
		return nil
	}
	return &DigitalBookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		FileName:        b.FilePath,
		FileSize:        b.FileSize,
		FileFormat:      b.FileFormat,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		ISBN:            b.ISBN,
		Subject:         b.Subject,
		Description:     b.Description,
		Language:        b.Language,
		Category:        b.Category,
		Tags:            b.Tags,
		ViewCount:       b.ViewCount,
		DownloadCount:   b.DownloadCount,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func ToLinkResponse(l *domainDigital.Link) *LinkResponse {
	if l == nil {
		return nil
	}
	return &LinkResponse{
		ID:            l.ID,
		BookID:        l.BookID,
		DigitalBookID: l.DigitalBookID,
		LinkType:      l.LinkType,
		Notes:         l.Notes,
		CreatedAt:     l.CreatedAt,
	}
}
