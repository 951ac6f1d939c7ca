package dashboard

import (
	"context"
	"sort"
	"time"

	domainBook "library-nexus/internal/domain/book"
	domainCirc "library-nexus/internal/domain/circulation"
	domainDigital "library-nexus/internal/domain/digital"
	domainUser "library-nexus/internal/domain/user"
	"library-nexus/internal/logger"

	"go.uber.org/zap"
)

const topSubjectsLimit = 10

type Stats struct {
	TotalBooks          int64 `json:"total_books"`
	TotalIssued         int64 `json:"total_issued"`
	TotalOverdue        int64 `json:"total_overdue"`
	TotalUsers          int64 `json:"total_users"`
	DigitalLibraryCount int64 `json:"digital_library_count"`
}

type PublicStatsResponse struct {
	TotalBooks          int64 `json:"total_books"`
	AvailableBooks      int64 `json:"available_books"`
	DigitalLibraryCount int64 `json:"digital_library_count"`
}

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int64  `json:"count"`
}

// Service aggregates the numbers the dashboard shows
type Service struct {
	bookRepo    domainBook.Repository
	loanRepo    domainCirc.Repository
	userRepo    domainUser.Repository
	digitalRepo domainDigital.Repository
}

// NewService creates a new dashboard service
func NewService(
	bookRepo domainBook.Repository,
	loanRepo domainCirc.Repository,
	userRepo domainUser.Repository,
	digitalRepo domainDigital.Repository,
) *Service {
	return &Service{
		bookRepo:    bookRepo,
		loanRepo:    loanRepo,
		userRepo:    userRepo,
		digitalRepo: digitalRepo,
	}
}

// GetStats sweeps overdue loans first so the counters reflect the current
// due dates, then gathers the totals.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	if changed, err := s.loanRepo.SweepOverdue(ctx, time.Now()); err != nil {
		logger.Error("Overdue sweep failed during stats collection", zap.Error(err))
	} else if changed > 0 {
		logger.Info("Overdue sweep completed",
			zap.Int64("loans_marked_overdue", changed),
			zap.String("event", "overdue_sweep"),
		)
	}

	totalBooks, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalIssued, err := s.bookRepo.CountIssued(ctx)
	if err != nil {
		return nil, err
	}
	totalOverdue, err := s.loanRepo.CountByStatus(ctx, domainCirc.StatusOverdue)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	digitalStats, err := s.digitalRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalBooks:          totalBooks,
		TotalIssued:         totalIssued,
		TotalOverdue:        totalOverdue,
		TotalUsers:          int64(len(users)),
		DigitalLibraryCount: digitalStats.TotalBooks,
	}, nil
}

// PublicStats exposes only collection sizes. User and loan counters stay on
// the authenticated endpoint.
func (s *Service) PublicStats(ctx context.Context) (*PublicStatsResponse, error) {
	totalBooks, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalIssued, err := s.bookRepo.CountIssued(ctx)
	if err != nil {
		return nil, err
	}
	digitalStats, err := s.digitalRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &PublicStatsResponse{
		TotalBooks:          totalBooks,
		AvailableBooks:      totalBooks - totalIssued,
		DigitalLibraryCount: digitalStats.TotalBooks,
	}, nil
}

// SubjectDistribution returns the most common catalog subjects for charts.
func (s *Service) SubjectDistribution(ctx context.Context) ([]SubjectCount, error) {
	dist, err := s.bookRepo.SubjectDistribution(ctx, topSubjectsLimit)
	if err != nil {
		return nil, err
	}

	result := make([]SubjectCount, 0, len(dist))
	for subject, count := range dist {
		result = append(result, SubjectCount{Subject: subject, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Subject < result[j].Subject
	})
	return result, nil
}
