package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"library-nexus/internal/domain/magazine"
	"library-nexus/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MagazineRepository implements the magazine.Repository interface
type MagazineRepository struct {
	db *DB
}

// NewMagazineRepository creates a new magazine tracking repository
func NewMagazineRepository(db *DB) magazine.Repository {
	return &MagazineRepository{db: db}
}

func (r *MagazineRepository) CreateVendor(ctx context.Context, v *magazine.Vendor) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()

	dbModel := &models.VendorModel{
		ID:             v.ID,
		Name:           v.Name,
		ContactDetails: v.ContactDetails,
		CreatedAt:      v.CreatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
			return magazine.ErrVendorAlreadyExists
		}
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (r *MagazineRepository) GetVendorByID(ctx context.Context, vendorID uuid.UUID) (*magazine.Vendor, error) {
	var dbModel models.VendorModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", vendorID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, magazine.ErrVendorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	return toVendorEntity(&dbModel), nil
}

func (r *MagazineRepository) ListVendors(ctx context.Context) ([]*magazine.Vendor, error) {
	var dbModels []models.VendorModel
	err := r.db.DB.WithContext(ctx).Order("name").Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	vendors := make([]*magazine.Vendor, len(dbModels))
	for i := range dbModels {
		vendors[i] = toVendorEntity(&dbModels[i])
	}
	return vendors, nil
}

func (r *MagazineRepository) CreateMagazine(ctx context.Context, m *magazine.Magazine) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()

	dbModel := toMagazineModel(m)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create magazine: %w", err)
	}
	return nil
}

func (r *MagazineRepository) GetMagazineByID(ctx context.Context, magazineID uuid.UUID) (*magazine.Magazine, error) {
	var dbModel models.MagazineModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", magazineID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, magazine.ErrMagazineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get magazine: %w", err)
	}

	return toMagazineEntity(&dbModel), nil
}

func (r *MagazineRepository) ListMagazines(ctx context.Context, filter magazine.ListFilter) ([]*magazine.Magazine, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.MagazineModel{})

	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.Frequency != "" {
		query = query.Where("frequency = ?", filter.Frequency)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = true")
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var dbModels []models.MagazineModel
	if err := query.Order("title").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list magazines: %w", err)
	}

	result := make([]*magazine.Magazine, len(dbModels))
	for i := range dbModels {
		result[i] = toMagazineEntity(&dbModels[i])
	}
	return result, nil
}

func (r *MagazineRepository) UpdateMagazine(ctx context.Context, m *magazine.Magazine) error {
	m.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.MagazineModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"title":       m.Title,
			"language":    m.Language,
			"frequency":   m.Frequency,
			"category":    m.Category,
			"cover_image": m.CoverImage,
			"is_active":   m.IsActive,
			"updated_at":  m.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update magazine: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return magazine.ErrMagazineNotFound
	}

	return nil
}

func (r *MagazineRepository) Languages(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "language")
}

func (r *MagazineRepository) Frequencies(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "frequency")
}

func (r *MagazineRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "category")
}

func (r *MagazineRepository) distinctColumn(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.DB.WithContext(ctx).Model(&models.MagazineModel{}).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", column, err)
	}
	return values, nil
}

func (r *MagazineRepository) CreateIssue(ctx context.Context, issue *magazine.Issue) error {
	issue.ID = uuid.New()
	issue.CreatedAt = time.Now()

	dbModel := &models.MagazineIssueModel{
		ID:               issue.ID,
		MagazineID:       issue.MagazineID,
		IssueDescription: issue.IssueDescription,
		ReceivedDate:     issue.ReceivedDate,
		VendorID:         issue.VendorID,
		Remarks:          issue.Remarks,
		CreatedAt:        issue.CreatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create magazine issue: %w", err)
	}
	return nil
}

func (r *MagazineRepository) ListIssues(ctx context.Context, magazineID uuid.UUID, limit int) ([]*magazine.Issue, error) {
	type issueRow struct {
		models.MagazineIssueModel
		VendorName string
	}

	query := r.db.DB.WithContext(ctx).
		Table("magazine_issues").
		Select("magazine_issues.*, vendors.name AS vendor_name").
		Joins("JOIN vendors ON vendors.id = magazine_issues.vendor_id").
		Where("magazine_issues.magazine_id = ?", magazineID).
		Order("magazine_issues.received_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []issueRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list magazine issues: %w", err)
	}

	issues := make([]*magazine.Issue, len(rows))
	for i := range rows {
		issues[i] = &magazine.Issue{
			ID:               rows[i].ID,
			MagazineID:       rows[i].MagazineID,
			IssueDescription: rows[i].IssueDescription,
			ReceivedDate:     rows[i].ReceivedDate,
			VendorID:         rows[i].VendorID,
			VendorName:       rows[i].VendorName,
			Remarks:          rows[i].Remarks,
			CreatedAt:        rows[i].CreatedAt,
		}
	}
	return issues, nil
}

func toVendorEntity(m *models.VendorModel) *magazine.Vendor {
	return &magazine.Vendor{
		ID:             m.ID,
		Name:           m.Name,
		ContactDetails: m.ContactDetails,
		CreatedAt:      m.CreatedAt,
	}
}

func toMagazineModel(m *magazine.Magazine) *models.MagazineModel {
	return &models.MagazineModel{
		ID:         m.ID,
		Title:      m.Title,
		Language:   m.Language,
		Frequency:  m.Frequency,
		Category:   m.Category,
		CoverImage: m.CoverImage,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toMagazineEntity(m *models.MagazineModel) *magazine.Magazine {
	return &magazine.Magazine{
		ID:         m.ID,
		Title:      m.Title,
		Language:   m.Language,
		Frequency:  m.Frequency,
		Category:   m.Category,
		CoverImage: m.CoverImage,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
