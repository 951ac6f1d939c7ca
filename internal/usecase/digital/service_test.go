package digital

import (
	"context"
	"strings"
	"testing"
	"time"

	domainBook "library-nexus/internal/domain/book"
	domainDigital "library-nexus/internal/domain/digital"
	domainUser "library-nexus/internal/domain/user"
	appErrors "library-nexus/pkg/errors"
	"library-nexus/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDigitalRepo keeps digital books and links in memory.
type fakeDigitalRepo struct {
	books map[uuid.UUID]*domainDigital.Book
	links map[uuid.UUID]*domainDigital.Link
}

func newFakeDigitalRepo() *fakeDigitalRepo {
	return &fakeDigitalRepo{
		books: make(map[uuid.UUID]*domainDigital.Book),
		links: make(map[uuid.UUID]*domainDigital.Link),
	}
}

func (r *fakeDigitalRepo) Create(_ context.Context, b *domainDigital.Book) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.books[b.ID] = b
	return nil
}

func (r *fakeDigitalRepo) GetByID(_ context.Context, id uuid.UUID) (*domainDigital.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, domainDigital.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeDigitalRepo) List(_ context.Context, filter domainDigital.ListFilter) ([]*domainDigital.Book, error) {
	var result []*domainDigital.Book
	for _, b := range r.books {
		if filter.Format != "" && b.FileFormat != filter.Format {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeDigitalRepo) Update(_ context.Context, b *domainDigital.Book) error {
	if _, ok := r.books[b.ID]; !ok {
		return domainDigital.ErrBookNotFound
	}
	r.books[b.ID] = b
	return nil
}

func (r *fakeDigitalRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.books[id]; !ok {
		return domainDigital.ErrBookNotFound
	}
	delete(r.books, id)
	for linkID, link := range r.links {
		if link.DigitalBookID == id {
			delete(r.links, linkID)
		}
	}
	return nil
}

func (r *fakeDigitalRepo) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	b, ok := r.books[id]
	if !ok {
		return domainDigital.ErrBookNotFound
	}
	b.ViewCount++
	return nil
}

func (r *fakeDigitalRepo) IncrementDownloadCount(_ context.Context, id uuid.UUID) error {
	b, ok := r.books[id]
	if !ok {
		return domainDigital.ErrBookNotFound
	}
	b.DownloadCount++
	return nil
}

func (r *fakeDigitalRepo) Categories(_ context.Context) ([]string, error) { return nil, nil }
func (r *fakeDigitalRepo) Subjects(_ context.Context) ([]string, error)   { return nil, nil }
func (r *fakeDigitalRepo) Languages(_ context.Context) ([]string, error)  { return nil, nil }

func (r *fakeDigitalRepo) Stats(_ context.Context) (*domainDigital.Stats, error) {
	stats := &domainDigital.Stats{ByFormat: make(map[string]int64)}
	for _, b := range r.books {
		stats.TotalBooks++
		stats.TotalSizeBytes += b.FileSize
		stats.TotalViews += b.ViewCount
		stats.TotalDownloads += b.DownloadCount
		stats.ByFormat[b.FileFormat]++
	}
	return stats, nil
}

func (r *fakeDigitalRepo) CreateLink(_ context.Context, link *domainDigital.Link) error {
	for _, existing := range r.links {
		if existing.BookID == link.BookID && existing.DigitalBookID == link.DigitalBookID {
			return domainDigital.ErrLinkExists
		}
	}
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	if link.LinkType == "" {
		link.LinkType = domainDigital.LinkTypeSameEdition
	}
	link.CreatedAt = time.Now()
	r.links[link.ID] = link
	return nil
}

func (r *fakeDigitalRepo) GetLink(_ context.Context, linkID uuid.UUID) (*domainDigital.Link, error) {
	link, ok := r.links[linkID]
	if !ok {
		return nil, domainDigital.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (r *fakeDigitalRepo) ListLinksByDigitalBook(_ context.Context, digitalBookID uuid.UUID) ([]*domainDigital.Link, error) {
	var result []*domainDigital.Link
	for _, link := range r.links {
		if link.DigitalBookID == digitalBookID {
			copied := *link
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeDigitalRepo) ListLinksByBook(_ context.Context, bookID uuid.UUID) ([]*domainDigital.Link, error) {
	var result []*domainDigital.Link
	for _, link := range r.links {
		if link.BookID == bookID {
			copied := *link
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeDigitalRepo) DeleteLink(_ context.Context, linkID uuid.UUID) error {
	if _, ok := r.links[linkID]; !ok {
		return domainDigital.ErrLinkNotFound
	}
	delete(r.links, linkID)
	return nil
}

// stubBookRepo serves book lookups for link validation.
type stubBookRepo struct {
	books map[uuid.UUID]*domainBook.Book
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[uuid.UUID]*domainBook.Book)}
}

func (r *stubBookRepo) Create(_ context.Context, b *domainBook.Book) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.books[b.ID] = b
	return nil
}
func (r *stubBookRepo) GetByID(_ context.Context, bookID uuid.UUID) (*domainBook.Book, error) {
	b, ok := r.books[bookID]
	if !ok {
		return nil, domainBook.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}
func (r *stubBookRepo) GetByAccNo(_ context.Context, _ string) (*domainBook.Book, error) {
	return nil, domainBook.ErrBookNotFound
}
func (r *stubBookRepo) List(_ context.Context, _ domainBook.ListFilter) ([]*domainBook.Book, error) {
	return nil, nil
}
func (r *stubBookRepo) Update(_ context.Context, _ *domainBook.Book) error { return nil }
func (r *stubBookRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }
func (r *stubBookRepo) Subjects(_ context.Context) ([]string, error)       { return nil, nil }
func (r *stubBookRepo) Languages(_ context.Context) ([]string, error)      { return nil, nil }
func (r *stubBookRepo) Count(_ context.Context) (int64, error)             { return 0, nil }
func (r *stubBookRepo) CountIssued(_ context.Context) (int64, error)       { return 0, nil }
func (r *stubBookRepo) SubjectDistribution(_ context.Context, _ int) (map[string]int64, error) {
	return nil, nil
}

// stubUserRepo answers uploader name lookups.
type stubUserRepo struct {
	users map[uuid.UUID]*domainUser.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*domainUser.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domainUser.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}
func (r *stubUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domainUser.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}
func (r *stubUserRepo) GetByUsername(_ context.Context, _ string) (*domainUser.User, error) {
	return nil, domainUser.ErrUserNotFound
}
func (r *stubUserRepo) GetByEmail(_ context.Context, _ string) (*domainUser.User, error) {
	return nil, domainUser.ErrUserNotFound
}
func (r *stubUserRepo) GetAll(_ context.Context) ([]*domainUser.User, error) { return nil, nil }
func (r *stubUserRepo) Update(_ context.Context, _ *domainUser.User) error   { return nil }
func (r *stubUserRepo) Delete(_ context.Context, _ uuid.UUID) error          { return nil }
func (r *stubUserRepo) CountByRole(_ context.Context, _ domainUser.Role) (int64, error) {
	return 0, nil
}
func (r *stubUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string, _ *domainUser.PasswordHistory) error {
	return nil
}
func (r *stubUserRepo) RecentPasswordHashes(_ context.Context, _ uuid.UUID, _ int) ([]string, error) {
	return nil, nil
}

type digitalFixture struct {
	service  *Service
	repo     *fakeDigitalRepo
	books    *stubBookRepo
	users    *stubUserRepo
	uploader *domainUser.User
}

func newDigitalFixture(t *testing.T) *digitalFixture {
	t.Helper()

	repo := newFakeDigitalRepo()
	books := newStubBookRepo()
	users := newStubUserRepo()

	vault, err := storage.NewVault(t.TempDir())
	require.NoError(t, err)

	uploader := &domainUser.User{Username: "librarian1", FullName: "Lib Rarian", Role: domainUser.RoleLibrarian, IsActive: true}
	require.NoError(t, users.Create(context.Background(), uploader))

	return &digitalFixture{
		service:  NewService(repo, books, users, vault, NewDownloadTracker()),
		repo:     repo,
		books:    books,
		users:    users,
		uploader: uploader,
	}
}

func (f *digitalFixture) upload(t *testing.T, title, filename, content string) *DigitalBookResponse {
	t.Helper()
	resp, err := f.service.Upload(context.Background(), f.uploader.ID, &UploadRequest{
		Title:  title,
		Author: "Author",
	}, filename, strings.NewReader(content))
	require.NoError(t, err)
	return resp
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	f := newDigitalFixture(t)

	resp := f.upload(t, "Compilers", "dragon-book.pdf", "pdf bytes")

	assert.Equal(t, "Compilers.pdf", resp.FileName)
	assert.Equal(t, "pdf", resp.FileFormat)
	assert.Equal(t, int64(9), resp.FileSize)
	assert.Equal(t, "English", resp.Language)

	stored, err := f.repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, f.uploader.ID, stored.UploadedBy)
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	f := newDigitalFixture(t)

	_, err := f.service.Upload(context.Background(), f.uploader.ID, &UploadRequest{
		Title:  "Notes",
		Author: "Author",
	}, "notes.docx", strings.NewReader("x"))

	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_FORMAT", appErr.Code)
}

func TestUploadSameTitleGetsSuffix(t *testing.T) {
	f := newDigitalFixture(t)

	first := f.upload(t, "Compilers", "a.pdf", "one")
	second := f.upload(t, "Compilers", "b.pdf", "two")

	assert.Equal(t, "Compilers.pdf", first.FileName)
	assert.Equal(t, "Compilers_1.pdf", second.FileName)
}

func TestViewAlwaysCounts(t *testing.T) {
	f := newDigitalFixture(t)
	uploaded := f.upload(t, "Compilers", "a.pdf", "content")

	for i := 0; i < 3; i++ {
		file, err := f.service.View(context.Background(), uploaded.ID)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", file.MediaType)
	}

	stored, err := f.repo.GetByID(context.Background(), uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.ViewCount)
}

func TestDownloadDeduplicatesPerCaller(t *testing.T) {
	f := newDigitalFixture(t)
	uploaded := f.upload(t, "Compilers", "a.pdf", "content")

	// Same caller twice in quick succession counts once.
	_, err := f.service.Download(context.Background(), uploaded.ID, "caller-a")
	require.NoError(t, err)
	_, err = f.service.Download(context.Background(), uploaded.ID, "caller-a")
	require.NoError(t, err)

	// A different caller counts separately.
	_, err = f.service.Download(context.Background(), uploaded.ID, "caller-b")
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.DownloadCount)
}

func TestDownloadMissingFile(t *testing.T) {
	f := newDigitalFixture(t)
	uploaded := f.upload(t, "Compilers", "a.pdf", "content")

	stored, err := f.repo.GetByID(context.Background(), uploaded.ID)
	require.NoError(t, err)
	require.NoError(t, f.service.vault.Remove(stored.FilePath))

	_, err = f.service.Download(context.Background(), uploaded.ID, "caller-a")
	assert.ErrorIs(t, err, domainDigital.ErrFileMissing)
}

func TestDeleteRemovesRecordLinksAndFile(t *testing.T) {
	f := newDigitalFixture(t)
	uploaded := f.upload(t, "Compilers", "a.pdf", "content")

	physical := &domainBook.Book{AccNo: "ACC-001", Title: "Compilers", Author: "Aho"}
	require.NoError(t, f.books.Create(context.Background(), physical))

	_, err := f.service.CreateLink(context.Background(), &CreateLinkRequest{
		BookID:        physical.ID,
		DigitalBookID: uploaded.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), uploaded.ID))

	_, err = f.repo.GetByID(context.Background(), uploaded.ID)
	assert.ErrorIs(t, err, domainDigital.ErrBookNotFound)
	links, err := f.repo.ListLinksByBook(context.Background(), physical.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestGetIncludesUploaderAndLinks(t *testing.T) {
	f := newDigitalFixture(t)
	uploaded := f.upload(t, "Compilers", "a.pdf", "content")

	physical := &domainBook.Book{AccNo: "ACC-001", Title: "Compilers", Author: "Aho", StorageLoc: "Shelf 3"}
	require.NoError(t, f.books.Create(context.Background(), physical))
	_, err := f.service.CreateLink(context.Background(), &CreateLinkRequest{
		BookID:        physical.ID,
		DigitalBookID: uploaded.ID,
		LinkType:      domainDigital.LinkTypeRelated,
	})
	require.NoError(t, err)

	detail, err := f.service.Get(context.Background(), uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lib Rarian", detail.UploaderName)
	require.Len(t, detail.LinkedPhysicalBooks, 1)
	assert.Equal(t, "ACC-001", detail.LinkedPhysicalBooks[0].AccNo)
	assert.Equal(t, domainDigital.LinkTypeRelated, detail.LinkedPhysicalBooks[0].LinkType)
}

func TestCreateLinkRequiresBothSides(t *testing.T) {
	f := newDigitalFixture(t)
	uploaded := f.upload(t, "Compilers", "a.pdf", "content")

	_, err := f.service.CreateLink(context.Background(), &CreateLinkRequest{
		BookID:        uuid.New(),
		DigitalBookID: uploaded.ID,
	})
	assert.ErrorIs(t, err, domainBook.ErrBookNotFound)

	physical := &domainBook.Book{AccNo: "ACC-001", Title: "Compilers", Author: "Aho"}
	require.NoError(t, f.books.Create(context.Background(), physical))
	_, err = f.service.CreateLink(context.Background(), &CreateLinkRequest{
		BookID:        physical.ID,
		DigitalBookID: uuid.New(),
	})
	assert.ErrorIs(t, err, domainDigital.ErrBookNotFound)
}

func TestCreateLinkDuplicate(t *testing.T) {
	f := newDigitalFixture(t)
	uploaded := f.upload(t, "Compilers", "a.pdf", "content")
	physical := &domainBook.Book{AccNo: "ACC-001", Title: "Compilers", Author: "Aho"}
	require.NoError(t, f.books.Create(context.Background(), physical))

	link, err := f.service.CreateLink(context.Background(), &CreateLinkRequest{
		BookID:        physical.ID,
		DigitalBookID: uploaded.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domainDigital.LinkTypeSameEdition, link.LinkType)

	_, err = f.service.CreateLink(context.Background(), &CreateLinkRequest{
		BookID:        physical.ID,
		DigitalBookID: uploaded.ID,
	})
	assert.ErrorIs(t, err, domainDigital.ErrLinkExists)
}

func TestStatsAggregation(t *testing.T) {
	f := newDigitalFixture(t)
	a := f.upload(t, "Compilers", "a.pdf", "12345")
	f.upload(t, "Databases", "b.epub", "123")

	_, err := f.service.View(context.Background(), a.ID)
	require.NoError(t, err)
	_, err = f.service.Download(context.Background(), a.ID, "caller-a")
	require.NoError(t, err)

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBooks)
	assert.Equal(t, int64(8), stats.TotalSizeBytes)
	assert.Equal(t, int64(1), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalDownloads)
	assert.Equal(t, int64(1), stats.ByFormat["pdf"])
	assert.Equal(t, int64(1), stats.ByFormat["epub"])
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", fileExtension("book.pdf"))
	assert.Equal(t, "pdf", fileExtension("Book.Final.PDF"))
	assert.Equal(t, "", fileExtension("noextension"))
	assert.Equal(t, "", fileExtension("trailingdot."))
}
