package circulation

import (
	"context"
	"time"

	"library-nexus/internal/config"
	domainBook "library-nexus/internal/domain/book"
	domainCirc "library-nexus/internal/domain/circulation"
	domainUser "library-nexus/internal/domain/user"
	"library-nexus/internal/logger"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 50

// Service implements circulation desk use cases
type Service struct {
	loanRepo domainCirc.Repository
	bookRepo domainBook.Repository
	userRepo domainUser.Repository
	config   *config.Config
}

// NewService creates a new circulation service
func NewService(
	loanRepo domainCirc.Repository,
	bookRepo domainBook.Repository,
	userRepo domainUser.Repository,
	cfg *config.Config,
) *Service {
	return &Service{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
		config:   cfg,
	}
}

// Issue lends a book to a user. The book and borrower are checked up front
// for precise error messages; the repository re-checks the issued flag
// inside its transaction, so two concurrent issues for the same copy cannot
// both succeed.
func (s *Service) Issue(ctx context.Context, req *IssueRequest) (*LoanResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	b, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if b.IsIssued {
		return nil, domainCirc.ErrBookAlreadyIssued
	}

	borrower, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !borrower.IsActive {
		return nil, appErrors.ErrUserInactive
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, s.config.Library.DefaultLoanDays)
	if req.DueDate != nil {
		if req.DueDate.Before(now) {
			return nil, appErrors.NewAppError("INVALID_DUE_DATE", "Due date cannot be in the past", nil)
		}
		dueDate = *req.DueDate
	}

	loan := &domainCirc.Loan{
		BookID:    b.ID,
		UserID:    borrower.ID,
		IssueDate: now,
		DueDate:   dueDate,
		Status:    domainCirc.StatusIssued,
		Notes:     req.Notes,
	}
	if err := s.loanRepo.Issue(ctx, loan); err != nil {
		return nil, err
	}

	logger.Info("Book issued",
		zap.String("loan_id", loan.ID.String()),
		zap.String("book_id", b.ID.String()),
		zap.String("acc_no", b.AccNo),
		zap.String("user_id", borrower.ID.String()),
		zap.Time("due_date", dueDate),
		zap.String("event", "book_issued"),
	)

	return ToLoanResponse(loan), nil
}

// Retrieve takes a book back and closes the loan. Notes passed here are
// appended to whatever the loan already carries.
func (s *Service) Retrieve(ctx context.Context, loanID uuid.UUID, req *RetrieveRequest) (*LoanResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status == domainCirc.StatusReturned {
		return nil, domainCirc.ErrLoanAlreadyClosed
	}

	notes := loan.Notes
	if req.Notes != nil && *req.Notes != "" {
		merged := *req.Notes
		if notes != nil && *notes != "" {
			merged = *notes + "\n" + merged
		}
		notes = &merged
	}

	returnedAt := time.Now()
	if err := s.loanRepo.Close(ctx, loanID, returnedAt, notes); err != nil {
		return nil, err
	}

	logger.Info("Book retrieved",
		zap.String("loan_id", loan.ID.String()),
		zap.String("book_id", loan.BookID.String()),
		zap.String("event", "book_retrieved"),
	)

	closed, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ToLoanResponse(closed), nil
}

// Extend pushes the due date out by one extension period, up to the cap.
// The new due date is computed from the current one, not from today.
func (s *Service) Extend(ctx context.Context, loanID uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status == domainCirc.StatusReturned {
		return nil, domainCirc.ErrLoanAlreadyClosed
	}
	if loan.ExtensionCount >= domainCirc.MaxExtensions {
		return nil, domainCirc.ErrExtensionLimit
	}

	newDueDate := loan.DueDate.Add(domainCirc.ExtensionPeriod)
	if err := s.loanRepo.Extend(ctx, loanID, newDueDate); err != nil {
		return nil, err
	}

	logger.Info("Loan extended",
		zap.String("loan_id", loan.ID.String()),
		zap.Time("new_due_date", newDueDate),
		zap.Int("extension_count", loan.ExtensionCount+1),
		zap.String("event", "loan_extended"),
	)

	extended, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ToLoanResponse(extended), nil
}

// SweepOverdue flips every issued loan past its due date to overdue. It is
// safe to run repeatedly; a second sweep finds nothing left to change.
func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	changed, err := s.loanRepo.SweepOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		logger.Info("Overdue sweep completed",
			zap.Int64("loans_marked_overdue", changed),
			zap.String("event", "overdue_sweep"),
		)
	}

	return changed, nil
}

func (s *Service) GetLoan(ctx context.Context, loanID uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ToLoanResponse(loan), nil
}

// ListExtendable returns open loans that still have extensions left, along
// with the due date each one would get if extended now.
func (s *Service) ListExtendable(ctx context.Context) ([]*ExtendableLoanResponse, error) {
	details, err := s.loanRepo.List(ctx, domainCirc.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]*ExtendableLoanResponse, 0, len(details))
	for _, d := range details {
		if d.ExtensionCount >= domainCirc.MaxExtensions {
			continue
		}
		responses = append(responses, ToExtendableLoanResponse(d, now))
	}
	return responses, nil
}

func (s *Service) ListLoans(ctx context.Context, req *ListLoansRequest) ([]*LoanDetailResponse, error) {
	filter := domainCirc.ListFilter{
		Status:     domainCirc.Status(req.Status),
		ActiveOnly: req.ActiveOnly,
		BookID:     req.BookID,
		UserID:     req.UserID,
		Search:     req.Search,
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	if req.Page > 1 {
		filter.Offset = (req.Page - 1) * pageSize
	}

	details, err := s.loanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]*LoanDetailResponse, 0, len(details))
	for _, d := range details {
		responses = append(responses, ToLoanDetailResponse(d, now))
	}
	return responses, nil
}
