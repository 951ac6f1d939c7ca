package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-nexus/internal/domain/book"
	"library-nexus/internal/domain/circulation"
	"library-nexus/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CirculationRepository implements the circulation.Repository interface
type CirculationRepository struct {
	db *DB
}

// NewCirculationRepository creates a new circulation repository
func NewCirculationRepository(db *DB) circulation.Repository {
	return &CirculationRepository{db: db}
}

// Issue flips the book to issued and inserts the loan row in one
// transaction. The conditional update on is_issued is the serialization
// point: two concurrent issues for the same book cannot both pass it.
func (r *CirculationRepository) Issue(ctx context.Context, loan *circulation.Loan) error {
	loan.ID = uuid.New()
	loan.CreatedAt = time.Now()
	loan.Status = circulation.StatusIssued

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.BookModel{}).
			Where("id = ? AND is_issued = false", loan.BookID).
			Updates(map[string]interface{}{
				"is_issued":  true,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark book issued: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			tx.Model(&models.BookModel{}).Where("id = ?", loan.BookID).Count(&count)
			if count == 0 {
				return book.ErrBookNotFound
			}
			return circulation.ErrBookAlreadyIssued
		}

		dbModel := toLoanModel(loan)
		if err := tx.Create(dbModel).Error; err != nil {
			return fmt.Errorf("failed to create loan: %w", err)
		}

		loan.ID = dbModel.ID
		loan.CreatedAt = dbModel.CreatedAt
		return nil
	})
}

func (r *CirculationRepository) GetByID(ctx context.Context, loanID uuid.UUID) (*circulation.Loan, error) {
	var dbModel models.LoanModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", loanID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, circulation.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	return toLoanEntity(&dbModel), nil
}

// Close marks the loan returned and frees the book atomically. The status
// guard makes a second return on the same loan lose cleanly, so the return
// date is written exactly once.
func (r *CirculationRepository) Close(ctx context.Context, loanID uuid.UUID, returnedAt time.Time, notes *string) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dbModel models.LoanModel
		err := tx.First(&dbModel, "id = ?", loanID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return circulation.ErrLoanNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get loan: %w", err)
		}

		updates := map[string]interface{}{
			"status":      string(circulation.StatusReturned),
			"return_date": returnedAt,
		}
		if notes != nil {
			updates["notes"] = notes
		}

		result := tx.Model(&models.LoanModel{}).
			Where("id = ? AND status <> ?", loanID, string(circulation.StatusReturned)).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to close loan: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return circulation.ErrLoanAlreadyClosed
		}

		bookResult := tx.Model(&models.BookModel{}).
			Where("id = ?", dbModel.BookID).
			Updates(map[string]interface{}{
				"is_issued":  false,
				"updated_at": time.Now(),
			})
		if bookResult.Error != nil {
			return fmt.Errorf("failed to release book: %w", bookResult.Error)
		}

		return nil
	})
}

func (r *CirculationRepository) Extend(ctx context.Context, loanID uuid.UUID, newDueDate time.Time) error {
	result := r.db.DB.WithContext(ctx).Model(&models.LoanModel{}).
		Where("id = ? AND status <> ? AND extension_count < ?",
			loanID, string(circulation.StatusReturned), circulation.MaxExtensions).
		Updates(map[string]interface{}{
			"due_date":        newDueDate,
			"extension_count": gorm.Expr("extension_count + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to extend loan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		loan, err := r.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status == circulation.StatusReturned {
			return circulation.ErrLoanAlreadyClosed
		}
		return circulation.ErrExtensionLimit
	}
	return nil
}

func (r *CirculationRepository) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).Model(&models.LoanModel{}).
		Where("status = ? AND due_date < ?", string(circulation.StatusIssued), now).
		Update("status", string(circulation.StatusOverdue))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep overdue loans: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *CirculationRepository) List(ctx context.Context, filter circulation.ListFilter) ([]*circulation.LoanDetail, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.LoanModel{}).
		Select(`loans.*,
			books.acc_no AS book_acc_no,
			books.title AS book_title,
			books.author AS book_author,
			books.storage_loc AS book_storage_loc,
			users.full_name AS user_full_name,
			users.username AS username`).
		Joins("JOIN books ON books.id = loans.book_id").
		Joins("JOIN users ON users.id = loans.user_id")

	if filter.Status != "" {
		query = query.Where("loans.status = ?", string(filter.Status))
	}
	if filter.ActiveOnly {
		query = query.Where("loans.status IN ?", []string{
			string(circulation.StatusIssued),
			string(circulation.StatusOverdue),
		})
	}
	if filter.BookID != nil {
		query = query.Where("loans.book_id = ?", *filter.BookID)
	}
	if filter.UserID != nil {
		query = query.Where("loans.user_id = ?", *filter.UserID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"books.acc_no ILIKE ? OR books.title ILIKE ? OR users.full_name ILIKE ? OR users.username ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []loanDetailRow
	if err := query.Order("loans.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	details := make([]*circulation.LoanDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].toDetail()
	}
	return details, nil
}

func (r *CirculationRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.LoanModel{}).
		Where("user_id = ? AND status IN ?", userID, []string{
			string(circulation.StatusIssued),
			string(circulation.StatusOverdue),
		}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active loans: %w", err)
	}
	return count, nil
}

func (r *CirculationRepository) CountByStatus(ctx context.Context, status circulation.Status) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.LoanModel{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count loans: %w", err)
	}
	return count, nil
}

type loanDetailRow struct {
	models.LoanModel
	BookAccNo      string
	BookTitle      string
	BookAuthor     string
	BookStorageLoc string
	UserFullName   string
	Username       string
}

func (row *loanDetailRow) toDetail() *circulation.LoanDetail {
	return &circulation.LoanDetail{
		Loan:           *toLoanEntity(&row.LoanModel),
		BookAccNo:      row.BookAccNo,
		BookTitle:      row.BookTitle,
		BookAuthor:     row.BookAuthor,
		BookStorageLoc: row.BookStorageLoc,
		UserFullName:   row.UserFullName,
		Username:       row.Username,
	}
}

func toLoanModel(l *circulation.Loan) *models.LoanModel {
	return &models.LoanModel{
		ID:             l.ID,
		BookID:         l.BookID,
		UserID:         l.UserID,
		IssueDate:      l.IssueDate,
		DueDate:        l.DueDate,
		ReturnDate:     l.ReturnDate,
		ExtensionCount: l.ExtensionCount,
		Status:         string(l.Status),
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt,
	}
}

func toLoanEntity(m *models.LoanModel) *circulation.Loan {
	return &circulation.Loan{
		ID:             m.ID,
		BookID:         m.BookID,
		UserID:         m.UserID,
		IssueDate:      m.IssueDate,
		DueDate:        m.DueDate,
		ReturnDate:     m.ReturnDate,
		ExtensionCount: m.ExtensionCount,
		Status:         circulation.Status(m.Status),
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
	}
}
