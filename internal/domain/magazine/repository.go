package magazine

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for magazine tracking persistence
type Repository interface {
	CreateVendor(ctx context.Context, v *Vendor) error
	GetVendorByID(ctx context.Context, vendorID uuid.UUID) (*Vendor, error)
	ListVendors(ctx context.Context) ([]*Vendor, error)

	CreateMagazine(ctx context.Context, m *Magazine) error
	GetMagazineByID(ctx context.Context, magazineID uuid.UUID) (*Magazine, error)
	ListMagazines(ctx context.Context, filter ListFilter) ([]*Magazine, error)
	UpdateMagazine(ctx context.Context, m *Magazine) error

	Languages(ctx context.Context) ([]string, error)
	Frequencies(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)

	CreateIssue(ctx context.Context, issue *Issue) error
	ListIssues(ctx context.Context, magazineID uuid.UUID, limit int) ([]*Issue, error)
}
