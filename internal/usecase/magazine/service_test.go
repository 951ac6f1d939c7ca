package magazine

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	domainMagazine "library-nexus/internal/domain/magazine"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMagazineRepo struct {
	vendors   map[uuid.UUID]*domainMagazine.Vendor
	magazines map[uuid.UUID]*domainMagazine.Magazine
	issues    []*domainMagazine.Issue
}

func newFakeMagazineRepo() *fakeMagazineRepo {
	return &fakeMagazineRepo{
		vendors:   make(map[uuid.UUID]*domainMagazine.Vendor),
		magazines: make(map[uuid.UUID]*domainMagazine.Magazine),
	}
}

func (r *fakeMagazineRepo) CreateVendor(_ context.Context, v *domainMagazine.Vendor) error {
	for _, existing := range r.vendors {
		if existing.Name == v.Name {
			return domainMagazine.ErrVendorAlreadyExists
		}
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.vendors[v.ID] = v
	return nil
}

func (r *fakeMagazineRepo) GetVendorByID(_ context.Context, vendorID uuid.UUID) (*domainMagazine.Vendor, error) {
	v, ok := r.vendors[vendorID]
	if !ok {
		return nil, domainMagazine.ErrVendorNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeMagazineRepo) ListVendors(_ context.Context) ([]*domainMagazine.Vendor, error) {
	var result []*domainMagazine.Vendor
	for _, v := range r.vendors {
		copied := *v
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeMagazineRepo) CreateMagazine(_ context.Context, m *domainMagazine.Magazine) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.magazines[m.ID] = m
	return nil
}

func (r *fakeMagazineRepo) GetMagazineByID(_ context.Context, magazineID uuid.UUID) (*domainMagazine.Magazine, error) {
	m, ok := r.magazines[magazineID]
	if !ok {
		return nil, domainMagazine.ErrMagazineNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMagazineRepo) ListMagazines(_ context.Context, filter domainMagazine.ListFilter) ([]*domainMagazine.Magazine, error) {
	var result []*domainMagazine.Magazine
	for _, m := range r.magazines {
		if filter.ActiveOnly && !m.IsActive {
			continue
		}
		copied := *m
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeMagazineRepo) UpdateMagazine(_ context.Context, m *domainMagazine.Magazine) error {
	if _, ok := r.magazines[m.ID]; !ok {
		return domainMagazine.ErrMagazineNotFound
	}
	r.magazines[m.ID] = m
	return nil
}

func (r *fakeMagazineRepo) Languages(_ context.Context) ([]string, error)   { return nil, nil }
func (r *fakeMagazineRepo) Frequencies(_ context.Context) ([]string, error) { return nil, nil }
func (r *fakeMagazineRepo) Categories(_ context.Context) ([]string, error)  { return nil, nil }

func (r *fakeMagazineRepo) CreateIssue(_ context.Context, issue *domainMagazine.Issue) error {
	if issue.ID == uuid.Nil {
		issue.ID = uuid.New()
	}
	issue.CreatedAt = time.Now()
	if v, ok := r.vendors[issue.VendorID]; ok {
		issue.VendorName = v.Name
	}
	r.issues = append(r.issues, issue)
	return nil
}

func (r *fakeMagazineRepo) ListIssues(_ context.Context, magazineID uuid.UUID, limit int) ([]*domainMagazine.Issue, error) {
	var result []*domainMagazine.Issue
	for _, issue := range r.issues {
		if issue.MagazineID == magazineID {
			copied := *issue
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ReceivedDate.After(result[j].ReceivedDate)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type magazineFixture struct {
	service *Service
	repo    *fakeMagazineRepo
}

func newMagazineFixture(t *testing.T) *magazineFixture {
	t.Helper()
	repo := newFakeMagazineRepo()
	vault, err := storage.NewVault(t.TempDir())
	require.NoError(t, err)
	return &magazineFixture{service: NewService(repo, vault), repo: repo}
}

func TestCreateMagazineDefaults(t *testing.T) {
	f := newMagazineFixture(t)

	resp, err := f.service.CreateMagazine(context.Background(), &CreateMagazineRequest{Title: "National Geographic"})
	require.NoError(t, err)

	assert.Equal(t, "English", resp.Language)
	assert.True(t, resp.IsActive)
}

func TestCreateVendorDuplicateName(t *testing.T) {
	f := newMagazineFixture(t)

	_, err := f.service.CreateVendor(context.Background(), &CreateVendorRequest{Name: "Periodicals Inc"})
	require.NoError(t, err)

	_, err = f.service.CreateVendor(context.Background(), &CreateVendorRequest{Name: "Periodicals Inc"})
	assert.ErrorIs(t, err, domainMagazine.ErrVendorAlreadyExists)
}

func TestLogIssueValidatesMagazineAndVendor(t *testing.T) {
	f := newMagazineFixture(t)

	mag, err := f.service.CreateMagazine(context.Background(), &CreateMagazineRequest{Title: "Nature"})
	require.NoError(t, err)
	vendor, err := f.service.CreateVendor(context.Background(), &CreateVendorRequest{Name: "Periodicals Inc"})
	require.NoError(t, err)

	_, err = f.service.LogIssue(context.Background(), &LogIssueRequest{
		MagazineID:       uuid.New(),
		IssueDescription: "January 2026",
		VendorID:         vendor.ID,
	})
	assert.ErrorIs(t, err, domainMagazine.ErrMagazineNotFound)

	_, err = f.service.LogIssue(context.Background(), &LogIssueRequest{
		MagazineID:       mag.ID,
		IssueDescription: "January 2026",
		VendorID:         uuid.New(),
	})
	assert.ErrorIs(t, err, domainMagazine.ErrVendorNotFound)

	issue, err := f.service.LogIssue(context.Background(), &LogIssueRequest{
		MagazineID:       mag.ID,
		IssueDescription: "January 2026",
		VendorID:         vendor.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Periodicals Inc", issue.VendorName)
	assert.WithinDuration(t, time.Now(), issue.ReceivedDate, time.Minute)
}

func TestListMagazinesWithLatestIssue(t *testing.T) {
	f := newMagazineFixture(t)

	mag, err := f.service.CreateMagazine(context.Background(), &CreateMagazineRequest{Title: "Nature"})
	require.NoError(t, err)
	vendor, err := f.service.CreateVendor(context.Background(), &CreateVendorRequest{Name: "Periodicals Inc"})
	require.NoError(t, err)

	older := time.Now().Add(-30 * 24 * time.Hour)
	_, err = f.service.LogIssue(context.Background(), &LogIssueRequest{
		MagazineID:       mag.ID,
		IssueDescription: "December 2025",
		ReceivedDate:     &older,
		VendorID:         vendor.ID,
	})
	require.NoError(t, err)
	_, err = f.service.LogIssue(context.Background(), &LogIssueRequest{
		MagazineID:       mag.ID,
		IssueDescription: "January 2026",
		VendorID:         vendor.ID,
	})
	require.NoError(t, err)

	catalog, err := f.service.ListMagazinesWithLatestIssue(context.Background(), &ListMagazinesRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	require.NotNil(t, catalog[0].LatestIssue)
	assert.Equal(t, "January 2026", catalog[0].LatestIssue.IssueDescription)
}

func TestListMagazinesActiveOnlyHidesInactive(t *testing.T) {
	f := newMagazineFixture(t)

	_, err := f.service.CreateMagazine(context.Background(), &CreateMagazineRequest{Title: "Active Monthly"})
	require.NoError(t, err)
	retired, err := f.service.CreateMagazine(context.Background(), &CreateMagazineRequest{Title: "Retired Weekly"})
	require.NoError(t, err)

	inactive := false
	_, err = f.service.UpdateMagazine(context.Background(), retired.ID, &UpdateMagazineRequest{IsActive: &inactive})
	require.NoError(t, err)

	visible, err := f.service.ListMagazines(context.Background(), &ListMagazinesRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Active Monthly", visible[0].Title)
}

func TestUploadCoverStoresAndReplaces(t *testing.T) {
	f := newMagazineFixture(t)

	mag, err := f.service.CreateMagazine(context.Background(), &CreateMagazineRequest{Title: "Nature"})
	require.NoError(t, err)

	resp, err := f.service.UploadCover(context.Background(), mag.ID, "cover.png", strings.NewReader("png bytes"))
	require.NoError(t, err)
	require.NotNil(t, resp.CoverImage)
	firstCover := *resp.CoverImage

	path, mediaType, err := f.service.CoverFile(context.Background(), mag.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.NotEmpty(t, path)

	// A replacement removes the old file.
	resp, err = f.service.UploadCover(context.Background(), mag.ID, "new-cover.jpg", strings.NewReader("jpg bytes"))
	require.NoError(t, err)
	require.NotNil(t, resp.CoverImage)
	assert.NotEqual(t, firstCover, *resp.CoverImage)

	_, _, err = f.service.CoverFile(context.Background(), mag.ID)
	require.NoError(t, err)
}

func TestUploadCoverRejectsBadFormat(t *testing.T) {
	f := newMagazineFixture(t)

	mag, err := f.service.CreateMagazine(context.Background(), &CreateMagazineRequest{Title: "Nature"})
	require.NoError(t, err)

	_, err = f.service.UploadCover(context.Background(), mag.ID, "cover.svg", strings.NewReader("<svg/>"))
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_FORMAT", appErr.Code)
}

func TestCoverFileWithoutCover(t *testing.T) {
	f := newMagazineFixture(t)

	mag, err := f.service.CreateMagazine(context.Background(), &CreateMagazineRequest{Title: "Nature"})
	require.NoError(t, err)

	_, _, err = f.service.CoverFile(context.Background(), mag.ID)
	assert.ErrorIs(t, err, domainMagazine.ErrCoverNotFound)
}
