package dashboard

import (
	"context"
	"testing"
	"time"

	domainBook "library-nexus/internal/domain/book"
	domainCirc "library-nexus/internal/domain/circulation"
	domainDigital "library-nexus/internal/domain/digital"
	domainUser "library-nexus/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsBookRepo struct {
	total        int64
	issued       int64
	distribution map[string]int64
}

func (r *statsBookRepo) Create(_ context.Context, _ *domainBook.Book) error { return nil }
func (r *statsBookRepo) GetByID(_ context.Context, _ uuid.UUID) (*domainBook.Book, error) {
	return nil, domainBook.ErrBookNotFound
}
func (r *statsBookRepo) GetByAccNo(_ context.Context, _ string) (*domainBook.Book, error) {
	return nil, domainBook.ErrBookNotFound
}
func (r *statsBookRepo) List(_ context.Context, _ domainBook.ListFilter) ([]*domainBook.Book, error) {
	return nil, nil
}
func (r *statsBookRepo) Update(_ context.Context, _ *domainBook.Book) error { return nil }
func (r *statsBookRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }
func (r *statsBookRepo) Subjects(_ context.Context) ([]string, error)       { return nil, nil }
func (r *statsBookRepo) Languages(_ context.Context) ([]string, error)      { return nil, nil }
func (r *statsBookRepo) Count(_ context.Context) (int64, error)             { return r.total, nil }
func (r *statsBookRepo) CountIssued(_ context.Context) (int64, error)       { return r.issued, nil }
func (r *statsBookRepo) SubjectDistribution(_ context.Context, _ int) (map[string]int64, error) {
	return r.distribution, nil
}

type statsLoanRepo struct {
	sweepCalls int
	overdue    int64
	sweepGain  int64
}

func (r *statsLoanRepo) Issue(_ context.Context, _ *domainCirc.Loan) error { return nil }
func (r *statsLoanRepo) GetByID(_ context.Context, _ uuid.UUID) (*domainCirc.Loan, error) {
	return nil, domainCirc.ErrLoanNotFound
}
func (r *statsLoanRepo) Close(_ context.Context, _ uuid.UUID, _ time.Time, _ *string) error {
	return nil
}
func (r *statsLoanRepo) Extend(_ context.Context, _ uuid.UUID, _ time.Time) error { return nil }
func (r *statsLoanRepo) SweepOverdue(_ context.Context, _ time.Time) (int64, error) {
	r.sweepCalls++
	r.overdue += r.sweepGain
	changed := r.sweepGain
	r.sweepGain = 0
	return changed, nil
}
func (r *statsLoanRepo) List(_ context.Context, _ domainCirc.ListFilter) ([]*domainCirc.LoanDetail, error) {
	return nil, nil
}
func (r *statsLoanRepo) CountActiveByUser(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *statsLoanRepo) CountByStatus(_ context.Context, _ domainCirc.Status) (int64, error) {
	return r.overdue, nil
}

type statsUserRepo struct {
	users []*domainUser.User
}

func (r *statsUserRepo) Create(_ context.Context, _ *domainUser.User) error { return nil }
func (r *statsUserRepo) GetByID(_ context.Context, _ uuid.UUID) (*domainUser.User, error) {
	return nil, domainUser.ErrUserNotFound
}
func (r *statsUserRepo) GetByUsername(_ context.Context, _ string) (*domainUser.User, error) {
	return nil, domainUser.ErrUserNotFound
}
func (r *statsUserRepo) GetByEmail(_ context.Context, _ string) (*domainUser.User, error) {
	return nil, domainUser.ErrUserNotFound
}
func (r *statsUserRepo) GetAll(_ context.Context) ([]*domainUser.User, error) {
	return r.users, nil
}
func (r *statsUserRepo) Update(_ context.Context, _ *domainUser.User) error { return nil }
func (r *statsUserRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }
func (r *statsUserRepo) CountByRole(_ context.Context, _ domainUser.Role) (int64, error) {
	return 0, nil
}
func (r *statsUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string, _ *domainUser.PasswordHistory) error {
	return nil
}
func (r *statsUserRepo) RecentPasswordHashes(_ context.Context, _ uuid.UUID, _ int) ([]string, error) {
	return nil, nil
}

type statsDigitalRepo struct {
	stats domainDigital.Stats
}

func (r *statsDigitalRepo) Create(_ context.Context, _ *domainDigital.Book) error { return nil }
func (r *statsDigitalRepo) GetByID(_ context.Context, _ uuid.UUID) (*domainDigital.Book, error) {
	return nil, domainDigital.ErrBookNotFound
}
func (r *statsDigitalRepo) List(_ context.Context, _ domainDigital.ListFilter) ([]*domainDigital.Book, error) {
	return nil, nil
}
func (r *statsDigitalRepo) Update(_ context.Context, _ *domainDigital.Book) error { return nil }
func (r *statsDigitalRepo) Delete(_ context.Context, _ uuid.UUID) error           { return nil }
func (r *statsDigitalRepo) IncrementViewCount(_ context.Context, _ uuid.UUID) error {
	return nil
}
func (r *statsDigitalRepo) IncrementDownloadCount(_ context.Context, _ uuid.UUID) error {
	return nil
}
func (r *statsDigitalRepo) Categories(_ context.Context) ([]string, error) { return nil, nil }
func (r *statsDigitalRepo) Subjects(_ context.Context) ([]string, error)   { return nil, nil }
func (r *statsDigitalRepo) Languages(_ context.Context) ([]string, error)  { return nil, nil }
func (r *statsDigitalRepo) Stats(_ context.Context) (*domainDigital.Stats, error) {
	copied := r.stats
	return &copied, nil
}
func (r *statsDigitalRepo) CreateLink(_ context.Context, _ *domainDigital.Link) error { return nil }
func (r *statsDigitalRepo) GetLink(_ context.Context, _ uuid.UUID) (*domainDigital.Link, error) {
	return nil, domainDigital.ErrLinkNotFound
}
func (r *statsDigitalRepo) ListLinksByDigitalBook(_ context.Context, _ uuid.UUID) ([]*domainDigital.Link, error) {
	return nil, nil
}
func (r *statsDigitalRepo) ListLinksByBook(_ context.Context, _ uuid.UUID) ([]*domainDigital.Link, error) {
	return nil, nil
}
func (r *statsDigitalRepo) DeleteLink(_ context.Context, _ uuid.UUID) error { return nil }

func TestGetStatsSweepsBeforeCounting(t *testing.T) {
	books := &statsBookRepo{total: 120, issued: 30}
	loans := &statsLoanRepo{overdue: 2, sweepGain: 3}
	users := &statsUserRepo{users: []*domainUser.User{{}, {}, {}}}
	digital := &statsDigitalRepo{stats: domainDigital.Stats{TotalBooks: 15}}

	service := NewService(books, loans, users, digital)

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, loans.sweepCalls)
	assert.Equal(t, int64(120), stats.TotalBooks)
	assert.Equal(t, int64(30), stats.TotalIssued)
	// Three loans crossed their due date during the sweep, on top of the
	// two already flagged.
	assert.Equal(t, int64(5), stats.TotalOverdue)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(15), stats.DigitalLibraryCount)
}

func TestSubjectDistributionSorted(t *testing.T) {
	books := &statsBookRepo{distribution: map[string]int64{
		"History":     4,
		"Physics":     9,
		"Mathematics": 9,
		"Poetry":      1,
	}}
	service := NewService(books, &statsLoanRepo{}, &statsUserRepo{}, &statsDigitalRepo{})

	result, err := service.SubjectDistribution(context.Background())
	require.NoError(t, err)

	require.Len(t, result, 4)
	assert.Equal(t, "Mathematics", result[0].Subject)
	assert.Equal(t, "Physics", result[1].Subject)
	assert.Equal(t, "History", result[2].Subject)
	assert.Equal(t, "Poetry", result[3].Subject)
}

func TestPublicStatsOmitsUserAndLoanCounters(t *testing.T) {
	books := &statsBookRepo{total: 120, issued: 30}
	loans := &statsLoanRepo{overdue: 2}
	users := &statsUserRepo{users: []*domainUser.User{{}}}
	digital := &statsDigitalRepo{stats: domainDigital.Stats{TotalBooks: 15}}

	service := NewService(books, loans, users, digital)

	stats, err := service.PublicStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(120), stats.TotalBooks)
	assert.Equal(t, int64(90), stats.AvailableBooks)
	assert.Equal(t, int64(15), stats.DigitalLibraryCount)
	assert.Equal(t, 0, loans.sweepCalls)
}
