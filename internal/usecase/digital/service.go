package digital

import (
	"context"
	"fmt"
	"io"
	"strings"

	domainBook "library-nexus/internal/domain/book"
	domainDigital "library-nexus/internal/domain/digital"
	domainUser "library-nexus/internal/domain/user"
	"library-nexus/internal/logger"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/storage"
	"library-nexus/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 100

var mediaTypes = map[string]string{
	"pdf":  "application/pdf",
	"epub": "application/epub+zip",
	"mobi": "application/x-mobipocket-ebook",
}

// Service implements digital library use cases
type Service struct {
	digitalRepo domainDigital.Repository
	bookRepo    domainBook.Repository
	userRepo    domainUser.Repository
	vault       *storage.Vault
	downloads   *DownloadTracker
}

// NewService creates a new digital library service
func NewService(
	digitalRepo domainDigital.Repository,
	bookRepo domainBook.Repository,
	userRepo domainUser.Repository,
	vault *storage.Vault,
	downloads *DownloadTracker,
) *Service {
	return &Service{
		digitalRepo: digitalRepo,
		bookRepo:    bookRepo,
		userRepo:    userRepo,
		vault:       vault,
		downloads:   downloads,
	}
}

// Upload stores the file in the vault and records the book. The stored
// filename is derived from the title; collisions get a numeric suffix.
func (s *Service) Upload(ctx context.Context, uploaderID uuid.UUID, req *UploadRequest, originalFilename string, content io.Reader) (*DigitalBookResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	ext := fileExtension(originalFilename)
	if !domainDigital.AllowedFormat(ext) {
		return nil, appErrors.NewAppError("INVALID_FORMAT",
			fmt.Sprintf("Invalid file format. Allowed formats: %s", strings.Join(domainDigital.AllowedFormats, ", ")), nil)
	}

	filename, size, err := s.vault.Save(req.Title, ext, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	b := &domainDigital.Book{
		Title:           utils.SanitizeString(req.Title),
		Author:          utils.SanitizeString(req.Author),
		FilePath:        filename,
		FileSize:        size,
		FileFormat:      ext,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		ISBN:            req.ISBN,
		Subject:         req.Subject,
		Description:     req.Description,
		Language:        req.Language,
		Category:        req.Category,
		Tags:            req.Tags,
		UploadedBy:      uploaderID,
	}
	if b.Language == "" {
		b.Language = "English"
	}

	if err := s.digitalRepo.Create(ctx, b); err != nil {
		// The record failed, do not leave an orphan file behind.
		if rmErr := s.vault.Remove(filename); rmErr != nil {
			logger.Error("Failed to remove orphan vault file",
				zap.String("filename", filename),
				zap.Error(rmErr),
			)
		}
		return nil, err
	}

	logger.Info("Digital book uploaded",
		zap.String("digital_book_id", b.ID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size),
		zap.String("uploaded_by", uploaderID.String()),
		zap.String("event", "digital_book_uploaded"),
	)

	return ToDigitalBookResponse(b), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DigitalBookDetailResponse, error) {
	b, err := s.digitalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &DigitalBookDetailResponse{
		DigitalBookResponse: *ToDigitalBookResponse(b),
		UploaderName:        "Unknown",
		LinkedPhysicalBooks: []*LinkedBookResponse{},
	}

	if uploader, err := s.userRepo.GetByID(ctx, b.UploadedBy); err == nil {
		detail.UploaderName = uploader.FullName
	}

	links, err := s.digitalRepo.ListLinksByDigitalBook(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		physical, err := s.bookRepo.GetByID(ctx, link.BookID)
		if err != nil {
			continue
		}
		detail.LinkedPhysicalBooks = append(detail.LinkedPhysicalBooks, &LinkedBookResponse{
			LinkID:     link.ID,
			BookID:     physical.ID,
			AccNo:      physical.AccNo,
			Title:      physical.Title,
			Author:     physical.Author,
			StorageLoc: physical.StorageLoc,
			IsIssued:   physical.IsIssued,
			LinkType:   link.LinkType,
		})
	}

	return detail, nil
}

func (s *Service) List(ctx context.Context, req *ListRequest) ([]*DigitalBookResponse, error) {
	filter := domainDigital.ListFilter{
		Search:   req.Search,
		Subject:  req.Subject,
		Category: req.Category,
		Language: req.Language,
		Format:   strings.ToLower(req.Format),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	if req.Page > 1 {
		filter.Offset = (req.Page - 1) * pageSize
	}

	books, err := s.digitalRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*DigitalBookResponse, 0, len(books))
	for _, b := range books {
		responses = append(responses, ToDigitalBookResponse(b))
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*DigitalBookResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	b, err := s.digitalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		b.Title = utils.SanitizeString(*req.Title)
	}
	if req.Author != nil {
		b.Author = utils.SanitizeString(*req.Author)
	}
	if req.Publisher != nil {
		b.Publisher = req.Publisher
	}
	if req.PublicationYear != nil {
		b.PublicationYear = req.PublicationYear
	}
	if req.ISBN != nil {
		b.ISBN = req.ISBN
	}
	if req.Subject != nil {
		b.Subject = req.Subject
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.Language != nil {
		b.Language = *req.Language
	}
	if req.Category != nil {
		b.Category = req.Category
	}
	if req.Tags != nil {
		b.Tags = req.Tags
	}

	if err := s.digitalRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	return ToDigitalBookResponse(b), nil
}

// Delete removes the record, its links and the vault file. A missing vault
// file is not an error; the record is cleaned up regardless.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	b, err := s.digitalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.digitalRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.vault.Remove(b.FilePath); err != nil {
		logger.Warn("Vault file missing on delete",
			zap.String("digital_book_id", id.String()),
			zap.String("filename", b.FilePath),
			zap.Error(err),
		)
	}

	logger.Info("Digital book deleted",
		zap.String("digital_book_id", id.String()),
		zap.String("event", "digital_book_deleted"),
	)

	return nil
}

// View resolves the file for inline streaming and counts the view. Every
// view request counts; only downloads are deduplicated.
func (s *Service) View(ctx context.Context, id uuid.UUID) (*FileContent, error) {
	b, err := s.digitalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.vault.Resolve(b.FilePath)
	if err != nil {
		return nil, domainDigital.ErrFileMissing
	}

	if err := s.digitalRepo.IncrementViewCount(ctx, id); err != nil {
		logger.Error("Failed to increment view count",
			zap.String("digital_book_id", id.String()),
			zap.Error(err),
		)
	}

	return &FileContent{
		Path:      path,
		FileName:  b.FilePath,
		MediaType: mediaTypeFor(b.FileFormat),
	}, nil
}

// Download resolves the file for download. callerKey identifies who is
// downloading (user id or client address); repeat requests from the same
// caller within a few seconds count once.
func (s *Service) Download(ctx context.Context, id uuid.UUID, callerKey string) (*FileContent, error) {
	b, err := s.digitalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.vault.Resolve(b.FilePath)
	if err != nil {
		return nil, domainDigital.ErrFileMissing
	}

	if s.downloads.ShouldCount(callerKey + "_" + id.String()) {
		if err := s.digitalRepo.IncrementDownloadCount(ctx, id); err != nil {
			logger.Error("Failed to increment download count",
				zap.String("digital_book_id", id.String()),
				zap.Error(err),
			)
		}
	}

	return &FileContent{
		Path:      path,
		FileName:  b.FilePath,
		MediaType: mediaTypeFor(b.FileFormat),
	}, nil
}

func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.digitalRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		TotalBooks:     stats.TotalBooks,
		TotalSizeBytes: stats.TotalSizeBytes,
		TotalViews:     stats.TotalViews,
		TotalDownloads: stats.TotalDownloads,
		ByFormat:       stats.ByFormat,
	}, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.digitalRepo.Categories(ctx)
}

func (s *Service) Subjects(ctx context.Context) ([]string, error) {
	return s.digitalRepo.Subjects(ctx)
}

func (s *Service) Languages(ctx context.Context) ([]string, error) {
	return s.digitalRepo.Languages(ctx)
}

// CreateLink ties a physical copy to a digital book. Both sides must exist.
func (s *Service) CreateLink(ctx context.Context, req *CreateLinkRequest) (*LinkResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if _, err := s.bookRepo.GetByID(ctx, req.BookID); err != nil {
		return nil, err
	}
	if _, err := s.digitalRepo.GetByID(ctx, req.DigitalBookID); err != nil {
		return nil, err
	}

	link := &domainDigital.Link{
		BookID:        req.BookID,
		DigitalBookID: req.DigitalBookID,
		LinkType:      req.LinkType,
		Notes:         req.Notes,
	}
	if err := s.digitalRepo.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	return ToLinkResponse(link), nil
}

func (s *Service) ListLinksByBook(ctx context.Context, bookID uuid.UUID) ([]*LinkResponse, error) {
	links, err := s.digitalRepo.ListLinksByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	responses := make([]*LinkResponse, 0, len(links))
	for _, l := range links {
		responses = append(responses, ToLinkResponse(l))
	}
	return responses, nil
}

func (s *Service) DeleteLink(ctx context.Context, linkID uuid.UUID) error {
	return s.digitalRepo.DeleteLink(ctx, linkID)
}

func fileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

func mediaTypeFor(format string) string {
	if mt, ok := mediaTypes[format]; ok {
		return mt
	}
	return "application/octet-stream"
}
