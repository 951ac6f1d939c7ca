package book

import (
	"context"
	"time"

	domainBook "library-nexus/internal/domain/book"
	"library-nexus/internal/logger"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 50

// Service implements book catalog use cases
type Service struct {
	bookRepo domainBook.Repository
}

// NewService creates a new book catalog service
func NewService(bookRepo domainBook.Repository) *Service {
	return &Service{bookRepo: bookRepo}
}

func (s *Service) CreateBook(ctx context.Context, req *CreateBookRequest) (*BookResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	b := &domainBook.Book{
		AccNo:         utils.SanitizeString(req.AccNo),
		Author:        utils.SanitizeString(req.Author),
		Title:         utils.SanitizeString(req.Title),
		PublisherInfo: req.PublisherInfo,
		Subject:       req.Subject,
		ClassNo:       req.ClassNo,
		Year:          req.Year,
		ISBN:          req.ISBN,
		Language:      req.Language,
		StorageLoc:    req.StorageLoc,
		IsIssued:      false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if b.Language == "" {
		b.Language = "English"
	}

	if err := s.bookRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	logger.Info("Book added to catalog",
		zap.String("book_id", b.ID.String()),
		zap.String("acc_no", b.AccNo),
		zap.String("event", "book_created"),
	)

	return ToBookResponse(b), nil
}

func (s *Service) GetBook(ctx context.Context, bookID uuid.UUID) (*BookResponse, error) {
	b, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return ToBookResponse(b), nil
}

func (s *Service) GetBookByAccNo(ctx context.Context, accNo string) (*BookResponse, error) {
	b, err := s.bookRepo.GetByAccNo(ctx, accNo)
	if err != nil {
		return nil, err
	}
	return ToBookResponse(b), nil
}

func (s *Service) ListBooks(ctx context.Context, req *ListBooksRequest) ([]*BookResponse, error) {
	filter := domainBook.ListFilter{
		Search:   req.Search,
		Subject:  req.Subject,
		Language: req.Language,
	}

	switch req.Status {
	case "available":
		issued := false
		filter.IsIssued = &issued
	case "issued":
		issued := true
		filter.IsIssued = &issued
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	if req.Page > 1 {
		filter.Offset = (req.Page - 1) * pageSize
	}

	books, err := s.bookRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		responses = append(responses, ToBookResponse(b))
	}
	return responses, nil
}

// UpdateBook edits catalog fields. The accession number is fixed once
// assigned; the issued flag only moves through circulation.
func (s *Service) UpdateBook(ctx context.Context, bookID uuid.UUID, req *UpdateBookRequest) (*BookResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	b, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.Author != nil {
		b.Author = utils.SanitizeString(*req.Author)
	}
	if req.Title != nil {
		b.Title = utils.SanitizeString(*req.Title)
	}
	if req.PublisherInfo != nil {
		b.PublisherInfo = req.PublisherInfo
	}
	if req.Subject != nil {
		b.Subject = req.Subject
	}
	if req.ClassNo != nil {
		b.ClassNo = req.ClassNo
	}
	if req.Year != nil {
		b.Year = req.Year
	}
	if req.ISBN != nil {
		b.ISBN = req.ISBN
	}
	if req.Language != nil {
		b.Language = *req.Language
	}
	if req.StorageLoc != nil {
		b.StorageLoc = *req.StorageLoc
	}
	b.UpdatedAt = time.Now()

	if err := s.bookRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	return ToBookResponse(b), nil
}

// DeleteBook removes a catalog entry. Books that are currently issued
// cannot be deleted; the open loan must be retrieved first.
func (s *Service) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	if err := s.bookRepo.Delete(ctx, bookID); err != nil {
		return err
	}

	logger.Info("Book deleted from catalog",
		zap.String("book_id", bookID.String()),
		zap.String("event", "book_deleted"),
	)

	return nil
}

func (s *Service) Subjects(ctx context.Context) ([]string, error) {
	return s.bookRepo.Subjects(ctx)
}

func (s *Service) Languages(ctx context.Context) ([]string, error) {
	return s.bookRepo.Languages(ctx)
}
