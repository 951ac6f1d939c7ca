package circulation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for loan persistence. The mutating
// operations must keep the book's issued flag and the loan row consistent:
// each one changes both inside a single database transaction.
type Repository interface {
	// Issue inserts the loan and flips the book to issued. The flag flip is
	// guarded so that of two concurrent issues for the same book at most
	// one succeeds; the loser gets ErrBookAlreadyIssued.
	Issue(ctx context.Context, loan *Loan) error

	GetByID(ctx context.Context, loanID uuid.UUID) (*Loan, error)

	// Close marks the loan returned, stamps the return date and frees the
	// book. A loan that is already returned yields ErrLoanAlreadyClosed.
	Close(ctx context.Context, loanID uuid.UUID, returnedAt time.Time, notes *string) error

	// Extend moves the due date and bumps the extension count, guarded
	// against closed loans and the extension cap.
	Extend(ctx context.Context, loanID uuid.UUID, newDueDate time.Time) error

	// SweepOverdue marks every issued loan whose due date has passed as
	// overdue and returns the number of rows changed.
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)

	List(ctx context.Context, filter ListFilter) ([]*LoanDetail, error)
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
