package magazine

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	domainMagazine "library-nexus/internal/domain/magazine"
	"library-nexus/internal/logger"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/storage"
	"library-nexus/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 100

// coverMediaTypes lists the accepted cover image formats.
var coverMediaTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// Service implements magazine tracking use cases
type Service struct {
	magazineRepo domainMagazine.Repository
	vault        *storage.Vault
}

// NewService creates a new magazine service
func NewService(magazineRepo domainMagazine.Repository, vault *storage.Vault) *Service {
	return &Service{magazineRepo: magazineRepo, vault: vault}
}

func (s *Service) CreateVendor(ctx context.Context, req *CreateVendorRequest) (*VendorResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	v := &domainMagazine.Vendor{
		Name:           utils.SanitizeString(req.Name),
		ContactDetails: req.ContactDetails,
	}
	if err := s.magazineRepo.CreateVendor(ctx, v); err != nil {
		return nil, err
	}

	logger.Info("Vendor created",
		zap.String("vendor_id", v.ID.String()),
		zap.String("name", v.Name),
		zap.String("event", "vendor_created"),
	)

	return ToVendorResponse(v), nil
}

func (s *Service) ListVendors(ctx context.Context) ([]*VendorResponse, error) {
	vendors, err := s.magazineRepo.ListVendors(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		responses = append(responses, ToVendorResponse(v))
	}
	return responses, nil
}

func (s *Service) CreateMagazine(ctx context.Context, req *CreateMagazineRequest) (*MagazineResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	m := &domainMagazine.Magazine{
		Title:     utils.SanitizeString(req.Title),
		Language:  req.Language,
		Frequency: req.Frequency,
		Category:  req.Category,
		IsActive:  true,
	}
	if m.Language == "" {
		m.Language = "English"
	}

	if err := s.magazineRepo.CreateMagazine(ctx, m); err != nil {
		return nil, err
	}

	logger.Info("Magazine created",
		zap.String("magazine_id", m.ID.String()),
		zap.String("title", m.Title),
		zap.String("event", "magazine_created"),
	)

	return ToMagazineResponse(m), nil
}

func (s *Service) GetMagazine(ctx context.Context, magazineID uuid.UUID) (*MagazineResponse, error) {
	m, err := s.magazineRepo.GetMagazineByID(ctx, magazineID)
	if err != nil {
		return nil, err
	}
	return ToMagazineResponse(m), nil
}

func (s *Service) ListMagazines(ctx context.Context, req *ListMagazinesRequest) ([]*MagazineResponse, error) {
	magazines, err := s.magazineRepo.ListMagazines(ctx, s.toFilter(req))
	if err != nil {
		return nil, err
	}

	responses := make([]*MagazineResponse, 0, len(magazines))
	for _, m := range magazines {
		responses = append(responses, ToMagazineResponse(m))
	}
	return responses, nil
}

// ListMagazinesWithLatestIssue is the public catalog view: each active
// magazine together with its most recently received issue.
func (s *Service) ListMagazinesWithLatestIssue(ctx context.Context, req *ListMagazinesRequest) ([]*MagazineDetailResponse, error) {
	magazines, err := s.magazineRepo.ListMagazines(ctx, s.toFilter(req))
	if err != nil {
		return nil, err
	}

	responses := make([]*MagazineDetailResponse, 0, len(magazines))
	for _, m := range magazines {
		detail := &MagazineDetailResponse{MagazineResponse: *ToMagazineResponse(m)}
		issues, err := s.magazineRepo.ListIssues(ctx, m.ID, 1)
		if err != nil {
			return nil, err
		}
		if len(issues) > 0 {
			detail.LatestIssue = ToIssueResponse(issues[0])
		}
		responses = append(responses, detail)
	}
	return responses, nil
}

func (s *Service) UpdateMagazine(ctx context.Context, magazineID uuid.UUID, req *UpdateMagazineRequest) (*MagazineResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	m, err := s.magazineRepo.GetMagazineByID(ctx, magazineID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.Title = utils.SanitizeString(*req.Title)
	}
	if req.Language != nil {
		m.Language = *req.Language
	}
	if req.Frequency != nil {
		m.Frequency = req.Frequency
	}
	if req.Category != nil {
		m.Category = req.Category
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := s.magazineRepo.UpdateMagazine(ctx, m); err != nil {
		return nil, err
	}

	return ToMagazineResponse(m), nil
}

// UploadCover stores a cover image in the vault and records it on the
// magazine. A previous cover is removed once the new one is in place.
func (s *Service) UploadCover(ctx context.Context, magazineID uuid.UUID, originalFilename string, content io.Reader) (*MagazineResponse, error) {
	m, err := s.magazineRepo.GetMagazineByID(ctx, magazineID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalFilename), "."))
	if _, ok := coverMediaTypes[ext]; !ok {
		return nil, appErrors.NewAppError("INVALID_FORMAT", "Cover image must be jpg, jpeg, png or webp", nil)
	}

	filename, _, err := s.vault.Save("cover_"+m.Title, ext, content)
	if err != nil {
		return nil, err
	}

	previous := m.CoverImage
	m.CoverImage = &filename
	if err := s.magazineRepo.UpdateMagazine(ctx, m); err != nil {
		if removeErr := s.vault.Remove(filename); removeErr != nil {
			logger.Warn("Failed to remove orphaned cover image",
				zap.String("filename", filename),
				zap.Error(removeErr))
		}
		return nil, err
	}

	if previous != nil && *previous != filename {
		if err := s.vault.Remove(*previous); err != nil {
			logger.Warn("Failed to remove replaced cover image",
				zap.String("filename", *previous),
				zap.Error(err))
		}
	}

	logger.Info("Magazine cover updated",
		zap.String("event", "magazine_cover_updated"),
		zap.String("magazine_id", m.ID.String()),
		zap.String("filename", filename))

	return ToMagazineResponse(m), nil
}

// CoverFile resolves the stored cover image for serving.
func (s *Service) CoverFile(ctx context.Context, magazineID uuid.UUID) (string, string, error) {
	m, err := s.magazineRepo.GetMagazineByID(ctx, magazineID)
	if err != nil {
		return "", "", err
	}
	if m.CoverImage == nil || *m.CoverImage == "" {
		return "", "", domainMagazine.ErrCoverNotFound
	}

	path, err := s.vault.Resolve(*m.CoverImage)
	if err != nil {
		return "", "", domainMagazine.ErrCoverNotFound
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(*m.CoverImage), "."))
	mediaType, ok := coverMediaTypes[ext]
	if !ok {
		mediaType = "application/octet-stream"
	}

	return path, mediaType, nil
}

// LogIssue records the arrival of one issue from a vendor.
func (s *Service) LogIssue(ctx context.Context, req *LogIssueRequest) (*IssueResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if _, err := s.magazineRepo.GetMagazineByID(ctx, req.MagazineID); err != nil {
		return nil, err
	}
	vendor, err := s.magazineRepo.GetVendorByID(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}

	receivedDate := time.Now()
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}

	issue := &domainMagazine.Issue{
		MagazineID:       req.MagazineID,
		IssueDescription: utils.SanitizeString(req.IssueDescription),
		ReceivedDate:     receivedDate,
		VendorID:         vendor.ID,
		VendorName:       vendor.Name,
		Remarks:          req.Remarks,
	}
	if err := s.magazineRepo.CreateIssue(ctx, issue); err != nil {
		return nil, err
	}

	logger.Info("Magazine issue logged",
		zap.String("issue_id", issue.ID.String()),
		zap.String("magazine_id", req.MagazineID.String()),
		zap.String("vendor", vendor.Name),
		zap.String("event", "magazine_issue_logged"),
	)

	return ToIssueResponse(issue), nil
}

func (s *Service) ListIssues(ctx context.Context, magazineID uuid.UUID, limit int) ([]*IssueResponse, error) {
	if _, err := s.magazineRepo.GetMagazineByID(ctx, magazineID); err != nil {
		return nil, err
	}

	issues, err := s.magazineRepo.ListIssues(ctx, magazineID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*IssueResponse, 0, len(issues))
	for _, i := range issues {
		responses = append(responses, ToIssueResponse(i))
	}
	return responses, nil
}

func (s *Service) Languages(ctx context.Context) ([]string, error) {
	return s.magazineRepo.Languages(ctx)
}

func (s *Service) Frequencies(ctx context.Context) ([]string, error) {
	return s.magazineRepo.Frequencies(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.magazineRepo.Categories(ctx)
}

func (s *Service) toFilter(req *ListMagazinesRequest) domainMagazine.ListFilter {
	filter := domainMagazine.ListFilter{
		Search:     req.Search,
		Language:   req.Language,
		Frequency:  req.Frequency,
		Category:   req.Category,
		ActiveOnly: req.ActiveOnly,
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	if req.Page > 1 {
		filter.Offset = (req.Page - 1) * pageSize
	}
	return filter
}
