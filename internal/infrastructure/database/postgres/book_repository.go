package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"library-nexus/internal/domain/book"
	"library-nexus/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookRepository implements the book.Repository interface
type BookRepository struct {
	db *DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *DB) book.Repository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	dbModel := toBookModel(b)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "duplicate key") {
			return book.ErrBookAlreadyExists
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	b.ID = dbModel.ID
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, bookID uuid.UUID) (*book.Book, error) {
	var dbModel models.BookModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", bookID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, book.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return toBookEntity(&dbModel), nil
}

func (r *BookRepository) GetByAccNo(ctx context.Context, accNo string) (*book.Book, error) {
	var dbModel models.BookModel
	err := r.db.DB.WithContext(ctx).Where("acc_no = ?", accNo).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, book.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return toBookEntity(&dbModel), nil
}

func (r *BookRepository) List(ctx context.Context, filter book.ListFilter) ([]*book.Book, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.BookModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"title ILIKE ? OR author ILIKE ? OR acc_no ILIKE ? OR isbn ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.IsIssued != nil {
		query = query.Where("is_issued = ?", *filter.IsIssued)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var dbModels []models.BookModel
	if err := query.Order("acc_no").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	result := make([]*book.Book, len(dbModels))
	for i := range dbModels {
		result[i] = toBookEntity(&dbModels[i])
	}
	return result, nil
}

func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	b.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.BookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"acc_no":         b.AccNo,
			"author":         b.Author,
			"title":          b.Title,
			"publisher_info": b.PublisherInfo,
			"subject":        b.Subject,
			"class_no":       b.ClassNo,
			"year":           b.Year,
			"isbn":           b.ISBN,
			"language":       b.Language,
			"storage_loc":    b.StorageLoc,
			"updated_at":     b.UpdatedAt,
		})

	if result.Error != nil {
		errStr := strings.ToLower(result.Error.Error())
		if strings.Contains(errStr, "duplicate key") {
			return book.ErrBookAlreadyExists
		}
		return fmt.Errorf("failed to update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

func (r *BookRepository) Delete(ctx context.Context, bookID uuid.UUID) error {
	// The issued guard keeps a book with an open loan in the catalog.
	result := r.db.DB.WithContext(ctx).
		Where("id = ? AND is_issued = false", bookID).
		Delete(&models.BookModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.DB.WithContext(ctx).Model(&models.BookModel{}).
			Where("id = ?", bookID).Count(&count)
		if count == 0 {
			return book.ErrBookNotFound
		}
		return book.ErrBookIssued
	}
	return nil
}

func (r *BookRepository) Subjects(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "subject")
}

func (r *BookRepository) Languages(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "language")
}

func (r *BookRepository) distinctColumn(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.DB.WithContext(ctx).Model(&models.BookModel{}).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", column, err)
	}
	return values, nil
}

func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.BookModel{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

func (r *BookRepository) CountIssued(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.BookModel{}).
		Where("is_issued = true").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count issued books: %w", err)
	}
	return count, nil
}

func (r *BookRepository) SubjectDistribution(ctx context.Context, limit int) (map[string]int64, error) {
	type row struct {
		Subject string
		Total   int64
	}

	var rows []row
	err := r.db.DB.WithContext(ctx).Model(&models.BookModel{}).
		Select("subject, COUNT(*) AS total").
		Where("subject IS NOT NULL AND subject <> ''").
		Group("subject").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get subject distribution: %w", err)
	}

	dist := make(map[string]int64, len(rows))
	for _, r := range rows {
		dist[r.Subject] = r.Total
	}
	return dist, nil
}

func toBookModel(b *book.Book) *models.BookModel {
	return &models.BookModel{
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
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBookEntity(m *models.BookModel) *book.Book {
	return &book.Book{
		ID:            m.ID,
		AccNo:         m.AccNo,
		Author:        m.Author,
		Title:         m.Title,
		PublisherInfo: m.PublisherInfo,
		Subject:       m.Subject,
		ClassNo:       m.ClassNo,
		Year:          m.Year,
		ISBN:          m.ISBN,
		Language:      m.Language,
		StorageLoc:    m.StorageLoc,
		IsIssued:      m.IsIssued,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
