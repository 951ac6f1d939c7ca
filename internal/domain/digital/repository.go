package digital

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for digital library persistence
type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	List(ctx context.Context, filter ListFilter) ([]*Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id uuid.UUID) error

	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	IncrementDownloadCount(ctx context.Context, id uuid.UUID) error

	Categories(ctx context.Context) ([]string, error)
	Subjects(ctx context.Context) ([]string, error)
	Languages(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*Stats, error)

	CreateLink(ctx context.Context, link *Link) error
	GetLink(ctx context.Context, linkID uuid.UUID) (*Link, error)
	ListLinksByDigitalBook(ctx context.Context, digitalBookID uuid.UUID) ([]*Link, error)
	ListLinksByBook(ctx context.Context, bookID uuid.UUID) ([]*Link, error)
	DeleteLink(ctx context.Context, linkID uuid.UUID) error
}
