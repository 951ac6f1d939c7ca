package circulation

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a loan
type Status string

const (
	StatusIssued   Status = "Issued"
	StatusOverdue  Status = "Overdue"
	StatusReturned Status = "Returned" // terminal
)

const (
	// MaxExtensions caps how often a loan may be extended.
	MaxExtensions = 2
	// ExtensionPeriod is added to the due date on each extension.
	ExtensionPeriod = 7 * 24 * time.Hour
)

// Loan records a single lending of one book to one user.
type Loan struct {
	ID             uuid.UUID
	BookID         uuid.UUID
	UserID         uuid.UUID
	IssueDate      time.Time
	DueDate        time.Time
	ReturnDate     *time.Time
	ExtensionCount int
	Status         Status
	Notes          *string
	CreatedAt      time.Time
}

func (l *Loan) Active() bool {
	return l.Status == StatusIssued || l.Status == StatusOverdue
}

func (l *Loan) CanExtend() bool {
	return l.Active() && l.ExtensionCount < MaxExtensions
}

// LoanDetail is a loan joined with the book and borrower fields the
// circulation desk needs to show.
type LoanDetail struct {
	Loan
	BookAccNo      string
	BookTitle      string
	BookAuthor     string
	BookStorageLoc string
	UserFullName   string
	Username       string
}

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	Status     Status
	ActiveOnly bool // Issued or Overdue
	BookID     *uuid.UUID
	UserID     *uuid.UUID
	Search     string // matches accession number, title, borrower name
	Offset     int
	Limit      int
}
