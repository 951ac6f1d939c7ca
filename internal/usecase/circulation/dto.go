package circulation

import (
	"time"

	domainCirc "library-nexus/internal/domain/circulation"

	"github.com/google/uuid"
)

type IssueRequest struct {
	BookID  uuid.UUID  `json:"book_id" validate:"required"`
	UserID  uuid.UUID  `json:"user_id" validate:"required"`
	DueDate *time.Time `json:"due_date"`
	Notes   *string    `json:"notes" validate:"omitempty,max=1000"`
}

type RetrieveRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

type ListLoansRequest struct {
	Status     string // "", "Issued", "Overdue", "Returned"
	ActiveOnly bool
	BookID     *uuid.UUID
	UserID     *uuid.UUID
	Search     string
	Page       int
	PageSize   int
}

type LoanResponse struct {
	ID             uuid.UUID  `json:"id"`
	BookID         uuid.UUID  `json:"book_id"`
	UserID         uuid.UUID  `json:"user_id"`
	IssueDate      time.Time  `json:"issue_date"`
	DueDate        time.Time  `json:"due_date"`
	ReturnDate     *time.Time `json:"return_date"`
	ExtensionCount int        `json:"extension_count"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes"`
}

type LoanDetailResponse struct {
	LoanResponse
	BookAccNo      string `json:"book_acc_no"`
	BookTitle      string `json:"book_title"`
	BookAuthor     string `json:"book_author"`
	BookStorageLoc string `json:"book_storage_loc"`
	UserFullName   string `json:"user_full_name"`
	Username       string `json:"username"`
	DaysOverdue    int    `json:"days_overdue,omitempty"`
	DueSoon        bool   `json:"due_soon"`
}

type ExtendableLoanResponse struct {
	LoanDetailResponse
	RemainingExtensions int       `json:"remaining_extensions"`
	NextDueDate         time.Time `json:"next_due_date"`
}

// Loans due within this window are flagged for the circulation desk.
const dueSoonWindow = 72 * time.Hour

func ToLoanResponse(l *domainCirc.Loan) *LoanResponse {
	if l == nil {
		return nil
	}
	return &LoanResponse{
		ID:             l.ID,
		BookID:         l.BookID,
		UserID:         l.UserID,
		IssueDate:      l.IssueDate,
		DueDate:        l.DueDate,
		ReturnDate:     l.ReturnDate,
		ExtensionCount: l.ExtensionCount,
		Status:         string(l.Status),
		Notes:          l.Notes,
	}
}

func ToLoanDetailResponse(d *domainCirc.LoanDetail, now time.Time) *LoanDetailResponse {
	if d == nil {
		return nil
	}
	resp := &LoanDetailResponse{
		LoanResponse:   *ToLoanResponse(&d.Loan),
		BookAccNo:      d.BookAccNo,
		BookTitle:      d.BookTitle,
		BookAuthor:     d.BookAuthor,
		BookStorageLoc: d.BookStorageLoc,
		UserFullName:   d.UserFullName,
		Username:       d.Username,
	}
	if d.Active() {
		if now.After(d.DueDate) {
			resp.DaysOverdue = int(now.Sub(d.DueDate).Hours() / 24)
		} else if d.DueDate.Sub(now) <= dueSoonWindow {
			resp.DueSoon = true
		}
	}
	return resp
}

func ToExtendableLoanResponse(d *domainCirc.LoanDetail, now time.Time) *ExtendableLoanResponse {
	if d == nil {
		return nil
	}
	return &ExtendableLoanResponse{
		LoanDetailResponse:  *ToLoanDetailResponse(d, now),
		RemainingExtensions: domainCirc.MaxExtensions - d.ExtensionCount,
		NextDueDate:         d.DueDate.Add(domainCirc.ExtensionPeriod),
	}
}
