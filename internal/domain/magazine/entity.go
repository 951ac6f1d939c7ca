package magazine

import (
	"time"

	"github.com/google/uuid"
)

// Vendor supplies magazine issues to the library.
type Vendor struct {
	ID             uuid.UUID
	Name           string
	ContactDetails *string
	CreatedAt      time.Time
}

// Magazine is a periodical title the library subscribes to.
type Magazine struct {
	ID         uuid.UUID
	Title      string
	Language   string
	Frequency  *string
	Category   *string
	CoverImage *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Issue records one received copy of a magazine, e.g. "January 2024".
type Issue struct {
	ID               uuid.UUID
	MagazineID       uuid.UUID
	IssueDescription string
	ReceivedDate     time.Time
	VendorID         uuid.UUID
	VendorName       string
	Remarks          *string
	CreatedAt        time.Time
}

// ListFilter narrows magazine listings. Zero values mean "no constraint".
type ListFilter struct {
	Search     string
	Language   string
	Frequency  string
	Category   string
	ActiveOnly bool
	Offset     int
	Limit      int
}
