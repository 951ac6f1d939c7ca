package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"library-nexus/internal/domain/digital"
	"library-nexus/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DigitalRepository implements the digital.Repository interface
type DigitalRepository struct {
	db *DB
}

// NewDigitalRepository creates a new digital library repository
func NewDigitalRepository(db *DB) digital.Repository {
	return &DigitalRepository{db: db}
}

func (r *DigitalRepository) Create(ctx context.Context, b *digital.Book) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	dbModel := toDigitalBookModel(b)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create digital book: %w", err)
	}

	b.ID = dbModel.ID
	return nil
}

func (r *DigitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*digital.Book, error) {
	var dbModel models.DigitalBookModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, digital.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get digital book: %w", err)
	}

	return toDigitalBookEntity(&dbModel), nil
}

func (r *DigitalRepository) List(ctx context.Context, filter digital.ListFilter) ([]*digital.Book, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.DigitalBookModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"title ILIKE ? OR author ILIKE ? OR isbn ILIKE ? OR tags ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.Format != "" {
		query = query.Where("file_format = ?", filter.Format)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var dbModels []models.DigitalBookModel
	if err := query.Order("title").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list digital books: %w", err)
	}

	result := make([]*digital.Book, len(dbModels))
	for i := range dbModels {
		result[i] = toDigitalBookEntity(&dbModels[i])
	}
	return result, nil
}

func (r *DigitalRepository) Update(ctx context.Context, b *digital.Book) error {
	b.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.DigitalBookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"title":            b.Title,
			"author":           b.Author,
			"publisher":        b.Publisher,
			"publication_year": b.PublicationYear,
			"isbn":             b.ISBN,
			"subject":          b.Subject,
			"description":      b.Description,
			"language":         b.Language,
			"category":         b.Category,
			"tags":             b.Tags,
			"updated_at":       b.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update digital book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return digital.ErrBookNotFound
	}

	return nil
}

func (r *DigitalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("digital_book_id = ?", id).
			Delete(&models.BookDigitalLinkModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete book links: %w", err)
		}

		result := tx.Delete(&models.DigitalBookModel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete digital book: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return digital.ErrBookNotFound
		}
		return nil
	})
}

func (r *DigitalRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Model(&models.DigitalBookModel{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment view count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return digital.ErrBookNotFound
	}
	return nil
}

func (r *DigitalRepository) IncrementDownloadCount(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Model(&models.DigitalBookModel{}).
		Where("id = ?", id).
		Update("download_count", gorm.Expr("download_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment download count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return digital.ErrBookNotFound
	}
	return nil
}

func (r *DigitalRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "category")
}

func (r *DigitalRepository) Subjects(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "subject")
}

func (r *DigitalRepository) Languages(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "language")
}

func (r *DigitalRepository) distinctColumn(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.DB.WithContext(ctx).Model(&models.DigitalBookModel{}).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", column, err)
	}
	return values, nil
}

func (r *DigitalRepository) Stats(ctx context.Context) (*digital.Stats, error) {
	stats := &digital.Stats{ByFormat: make(map[string]int64)}

	type totals struct {
		Total     int64
		Size      int64
		Views     int64
		Downloads int64
	}
	var t totals
	err := r.db.DB.WithContext(ctx).Model(&models.DigitalBookModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(file_size),0) AS size, COALESCE(SUM(view_count),0) AS views, COALESCE(SUM(download_count),0) AS downloads").
		Scan(&t).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get digital library stats: %w", err)
	}

	stats.TotalBooks = t.Total
	stats.TotalSizeBytes = t.Size
	stats.TotalViews = t.Views
	stats.TotalDownloads = t.Downloads

	type formatRow struct {
		FileFormat string
		Total      int64
	}
	var rows []formatRow
	err = r.db.DB.WithContext(ctx).Model(&models.DigitalBookModel{}).
		Select("file_format, COUNT(*) AS total").
		Group("file_format").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get format distribution: %w", err)
	}
	for _, row := range rows {
		stats.ByFormat[row.FileFormat] = row.Total
	}

	return stats, nil
}

func (r *DigitalRepository) CreateLink(ctx context.Context, link *digital.Link) error {
	link.ID = uuid.New()
	link.CreatedAt = time.Now()
	if link.LinkType == "" {
		link.LinkType = digital.LinkTypeSameEdition
	}

	dbModel := &models.BookDigitalLinkModel{
		ID:            link.ID,
		BookID:        link.BookID,
		DigitalBookID: link.DigitalBookID,
		LinkType:      link.LinkType,
		Notes:         link.Notes,
		CreatedAt:     link.CreatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
			return digital.ErrLinkExists
		}
		return fmt.Errorf("failed to create book link: %w", err)
	}
	return nil
}

func (r *DigitalRepository) GetLink(ctx context.Context, linkID uuid.UUID) (*digital.Link, error) {
	var dbModel models.BookDigitalLinkModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", linkID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, digital.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book link: %w", err)
	}

	return toLinkEntity(&dbModel), nil
}

func (r *DigitalRepository) ListLinksByDigitalBook(ctx context.Context, digitalBookID uuid.UUID) ([]*digital.Link, error) {
	return r.listLinks(ctx, "digital_book_id = ?", digitalBookID)
}

func (r *DigitalRepository) ListLinksByBook(ctx context.Context, bookID uuid.UUID) ([]*digital.Link, error) {
	return r.listLinks(ctx, "book_id = ?", bookID)
}

func (r *DigitalRepository) listLinks(ctx context.Context, cond string, id uuid.UUID) ([]*digital.Link, error) {
	var dbModels []models.BookDigitalLinkModel
	err := r.db.DB.WithContext(ctx).Where(cond, id).Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list book links: %w", err)
	}

	links := make([]*digital.Link, len(dbModels))
	for i := range dbModels {
		links[i] = toLinkEntity(&dbModels[i])
	}
	return links, nil
}

func (r *DigitalRepository) DeleteLink(ctx context.Context, linkID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.BookDigitalLinkModel{}, "id = ?", linkID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return digital.ErrLinkNotFound
	}
	return nil
}

func toDigitalBookModel(b *digital.Book) *models.DigitalBookModel {
	return &models.DigitalBookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		FilePath:        b.FilePath,
		FileSize:        b.FileSize,
		FileFormat:      b.FileFormat,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		ISBN:            b.ISBN,
		Subject:         b.Subject,
		Description:     b.Description,
		Language:        b.Language,
		Category:        b.Category,
		Tags:            b.Tags,
		ViewCount:       b.ViewCount,
		DownloadCount:   b.DownloadCount,
		UploadedBy:      b.UploadedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toDigitalBookEntity(m *models.DigitalBookModel) *digital.Book {
	return &digital.Book{
		ID:              m.ID,
		Title:           m.Title,
		Author:          m.Author,
		FilePath:        m.FilePath,
		FileSize:        m.FileSize,
		FileFormat:      m.FileFormat,
		Publisher:       m.Publisher,
		PublicationYear: m.PublicationYear,
		ISBN:            m.ISBN,
		Subject:         m.Subject,
		Description:     m.Description,
		Language:        m.Language,
		Category:        m.Category,
		Tags:            m.Tags,
		ViewCount:       m.ViewCount,
		DownloadCount:   m.DownloadCount,
		UploadedBy:      m.UploadedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toLinkEntity(m *models.BookDigitalLinkModel) *digital.Link {
	return &digital.Link{
		ID:            m.ID,
		BookID:        m.BookID,
		DigitalBookID: m.DigitalBookID,
		LinkType:      m.LinkType,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
