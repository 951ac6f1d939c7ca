package book

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for book catalog operations
type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, bookID uuid.UUID) (*Book, error)
	GetByAccNo(ctx context.Context, accNo string) (*Book, error)
	List(ctx context.Context, filter ListFilter) ([]*Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, bookID uuid.UUID) error

	Subjects(ctx context.Context) ([]string, error)
	Languages(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	CountIssued(ctx context.Context) (int64, error)
	SubjectDistribution(ctx context.Context, limit int) (map[string]int64, error)
}
