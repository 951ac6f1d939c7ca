package book

import (
	"time"

	"github.com/google/uuid"
)

// Book represents a physical catalog item. The accession number is the
// human-assigned identifier printed on the copy itself.
type Book struct {
	ID            uuid.UUID
	AccNo         string
	Author        string
	Title         string
	PublisherInfo *string
	Subject       *string
	ClassNo       *string
	Year          *int
	ISBN          *string
	Language      string
	StorageLoc    string

	// IsIssued mirrors the existence of an open loan on this book. It is
	// only ever flipped together with the loan row, inside the same
	// database transaction.
	IsIssued bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	Search   string // matches title, author, accession number or ISBN
	Subject  string
	Language string
	IsIssued *bool
	Offset   int
	Limit    int
}
