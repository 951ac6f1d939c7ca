package book

import (
	"time"

	domainBook "library-nexus/internal/domain/book"

	"github.com/google/uuid"
)

type CreateBookRequest struct {
	AccNo         string  `json:"acc_no" validate:"required,min=1,max=50"`
	Author        string  `json:"author" validate:"required,min=1,max=255"`
	Title         string  `json:"title" validate:"required,min=1,max=500"`
	PublisherInfo *string `json:"publisher_info" validate:"omitempty,max=500"`
	Subject       *string `json:"subject" validate:"omitempty,max=255"`
	ClassNo       *string `json:"class_no" validate:"omitempty,max=50"`
	Year          *int    `json:"year" validate:"omitempty,min=1000,max=2100"`
	ISBN          *string `json:"isbn" validate:"omitempty,max=20"`
	Language      string  `json:"language" validate:"omitempty,max=50"`
	StorageLoc    string  `json:"storage_loc" validate:"omitempty,max=100"`
}

type UpdateBookRequest struct {
	Author        *string `json:"author" validate:"omitempty,min=1,max=255"`
	Title         *string `json:"title" validate:"omitempty,min=1,max=500"`
	PublisherInfo *string `json:"publisher_info" validate:"omitempty,max=500"`
	Subject       *string `json:"subject" validate:"omitempty,max=255"`
	ClassNo       *string `json:"class_no" validate:"omitempty,max=50"`
	Year          *int    `json:"year" validate:"omitempty,min=1000,max=2100"`
	ISBN          *string `json:"isbn" validate:"omitempty,max=20"`
	Language      *string `json:"language" validate:"omitempty,max=50"`
	StorageLoc    *string `json:"storage_loc" validate:"omitempty,max=100"`
}

type ListBooksRequest struct {
	Search   string
	Subject  string
	Language string
	Status   string // "", "available" or "issued"
	Page     int
	PageSize int
}

type BookResponse struct {
	ID            uuid.UUID `json:"id"`
	AccNo         string    `json:"acc_no"`
	Author        string    `json:"author"`
	Title         string    `json:"title"`
	PublisherInfo *string   `json:"publisher_info"`
	Subject       *string   `json:"subject"`
	ClassNo       *string   `json:"class_no"`
	Year          *int      `json:"year"`
	ISBN          *string   `json:"isbn"`
	Language      string    `json:"language"`
	StorageLoc    string    `json:"storage_loc"`
	IsIssued      bool      `json:"is_issued"`
	CanIssue      bool      `json:"can_issue"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToBookResponse(b *domainBook.Book) *BookResponse {
	if b == nil {
		return nil
	}
	return &BookResponse{
		ID:            b.ID,
		AccNo:         b.AccNo,
		Author:        b.Author,
		Title:         b.Title,
		PublisherInfo: b.PublisherInfo,
		Subject:       b.Subject,
		ClassNo:       b.ClassNo,
		Year:          b.Year,
		ISBN:          b.ISBN,
		Language:      b.Language,
		StorageLoc:    b.StorageLoc,
		IsIssued:      b.IsIssued,
		CanIssue:      !b.IsIssued,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
