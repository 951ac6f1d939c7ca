package digital

import (
	"time"

	"github.com/google/uuid"
)

var AllowedFormats = []string{"pdf", "epub", "mobi"}

func AllowedFormat(ext string) bool {
	for _, f := range AllowedFormats {
		if f == ext {
			return true
		}
	}
	return false
}

// Book is a hosted digital document, independent of the physical inventory.
type Book struct {
	ID     uuid.UUID
	Title  string
	Author string

	FilePath   string // filename inside the vault
	FileSize   int64
	FileFormat string

	Publisher       *string
	PublicationYear *int
	ISBN            *string
	Subject         *string
	Description     *string
	Language        string
	Category        *string
	Tags            *string

	ViewCount     int64
	DownloadCount int64

	UploadedBy uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Link ties a physical book to a digital resource.
type Link struct {
	ID            uuid.UUID
	BookID        uuid.UUID
	DigitalBookID uuid.UUID
	LinkType      string
	Notes         *string
	CreatedAt     time.Time
}

const (
	LinkTypeSameEdition      = "same_edition"
	LinkTypeDifferentEdition = "different_edition"
	LinkTypeRelated          = "related"
)

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	Search   string // matches title, author, ISBN, tags
	Subject  string
	Category string
	Language string
	Format   string
	Offset   int
	Limit    int
}

// Stats summarizes the digital collection for the dashboard.
type Stats struct {
	TotalBooks     int64
	TotalSizeBytes int64
	TotalViews     int64
	TotalDownloads int64
	ByFormat       map[string]int64
}
