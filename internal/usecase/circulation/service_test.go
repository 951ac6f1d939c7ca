package circulation

import (
	"context"
	"testing"
	"time"

	"library-nexus/internal/config"
	domainBook "library-nexus/internal/domain/book"
	domainCirc "library-nexus/internal/domain/circulation"
	domainUser "library-nexus/internal/domain/user"
	appErrors "library-nexus/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookRepo keeps books in memory. Only the methods the circulation
// service touches carry real behavior.
type fakeBookRepo struct {
	books map[uuid.UUID]*domainBook.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*domainBook.Book)}
}

func (r *fakeBookRepo) Create(_ context.Context, b *domainBook.Book) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, bookID uuid.UUID) (*domainBook.Book, error) {
	b, ok := r.books[bookID]
	if !ok {
		return nil, domainBook.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) GetByAccNo(_ context.Context, accNo string) (*domainBook.Book, error) {
	for _, b := range r.books {
		if b.AccNo == accNo {
			copied := *b
			return &copied, nil
		}
	}
	return nil, domainBook.ErrBookNotFound
}

func (r *fakeBookRepo) List(_ context.Context, _ domainBook.ListFilter) ([]*domainBook.Book, error) {
	return nil, nil
}
func (r *fakeBookRepo) Update(_ context.Context, b *domainBook.Book) error {
	r.books[b.ID] = b
	return nil
}
func (r *fakeBookRepo) Delete(_ context.Context, bookID uuid.UUID) error {
	delete(r.books, bookID)
	return nil
}
func (r *fakeBookRepo) Subjects(_ context.Context) ([]string, error)  { return nil, nil }
func (r *fakeBookRepo) Languages(_ context.Context) ([]string, error) { return nil, nil }
func (r *fakeBookRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.books)), nil
}
func (r *fakeBookRepo) CountIssued(_ context.Context) (int64, error) {
	var n int64
	for _, b := range r.books {
		if b.IsIssued {
			n++
		}
	}
	return n, nil
}
func (r *fakeBookRepo) SubjectDistribution(_ context.Context, _ int) (map[string]int64, error) {
	return nil, nil
}

// fakeUserRepo provides just enough for borrower lookups.
type fakeUserRepo struct {
	users map[uuid.UUID]*domainUser.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domainUser.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domainUser.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domainUser.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domainUser.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]*domainUser.User, error) { return nil, nil }
func (r *fakeUserRepo) Update(_ context.Context, u *domainUser.User) error {
	r.users[u.ID] = u
	return nil
}
func (r *fakeUserRepo) Delete(_ context.Context, userID uuid.UUID) error {
	delete(r.users, userID)
	return nil
}
func (r *fakeUserRepo) CountByRole(_ context.Context, role domainUser.Role) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
func (r *fakeUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string, _ *domainUser.PasswordHistory) error {
	return nil
}
func (r *fakeUserRepo) RecentPasswordHashes(_ context.Context, _ uuid.UUID, _ int) ([]string, error) {
	return nil, nil
}

// fakeLoanRepo mirrors the transactional coupling between loans and the
// issued flag: every mutating call updates both, like the real repository.
type fakeLoanRepo struct {
	loans map[uuid.UUID]*domainCirc.Loan
	books *fakeBookRepo
}

func newFakeLoanRepo(books *fakeBookRepo) *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[uuid.UUID]*domainCirc.Loan), books: books}
}

func (r *fakeLoanRepo) Issue(_ context.Context, loan *domainCirc.Loan) error {
	b, ok := r.books.books[loan.BookID]
	if !ok {
		return domainBook.ErrBookNotFound
	}
	if b.IsIssued {
		return domainCirc.ErrBookAlreadyIssued
	}
	b.IsIssued = true

	loan.ID = uuid.New()
	loan.CreatedAt = time.Now()
	r.loans[loan.ID] = loan
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, loanID uuid.UUID) (*domainCirc.Loan, error) {
	loan, ok := r.loans[loanID]
	if !ok {
		return nil, domainCirc.ErrLoanNotFound
	}
	copied := *loan
	return &copied, nil
}

func (r *fakeLoanRepo) Close(_ context.Context, loanID uuid.UUID, returnedAt time.Time, notes *string) error {
	loan, ok := r.loans[loanID]
	if !ok {
		return domainCirc.ErrLoanNotFound
	}
	if loan.Status == domainCirc.StatusReturned {
		return domainCirc.ErrLoanAlreadyClosed
	}
	loan.Status = domainCirc.StatusReturned
	loan.ReturnDate = &returnedAt
	loan.Notes = notes
	if b, ok := r.books.books[loan.BookID]; ok {
		b.IsIssued = false
	}
	return nil
}

func (r *fakeLoanRepo) Extend(_ context.Context, loanID uuid.UUID, newDueDate time.Time) error {
	loan, ok := r.loans[loanID]
	if !ok {
		return domainCirc.ErrLoanNotFound
	}
	if loan.Status == domainCirc.StatusReturned {
		return domainCirc.ErrLoanAlreadyClosed
	}
	if loan.ExtensionCount >= domainCirc.MaxExtensions {
		return domainCirc.ErrExtensionLimit
	}
	loan.DueDate = newDueDate
	loan.ExtensionCount++
	return nil
}

func (r *fakeLoanRepo) SweepOverdue(_ context.Context, now time.Time) (int64, error) {
	var changed int64
	for _, loan := range r.loans {
		if loan.Status == domainCirc.StatusIssued && now.After(loan.DueDate) {
			loan.Status = domainCirc.StatusOverdue
			changed++
		}
	}
	return changed, nil
}

func (r *fakeLoanRepo) List(_ context.Context, filter domainCirc.ListFilter) ([]*domainCirc.LoanDetail, error) {
	var details []*domainCirc.LoanDetail
	for _, loan := range r.loans {
		if filter.ActiveOnly && !loan.Active() {
			continue
		}
		if filter.Status != "" && loan.Status != filter.Status {
			continue
		}
		detail := &domainCirc.LoanDetail{Loan: *loan}
		if b, ok := r.books.books[loan.BookID]; ok {
			detail.BookAccNo = b.AccNo
			detail.BookTitle = b.Title
			detail.BookAuthor = b.Author
		}
		details = append(details, detail)
	}
	return details, nil
}

func (r *fakeLoanRepo) CountActiveByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, loan := range r.loans {
		if loan.UserID == userID && loan.Active() {
			n++
		}
	}
	return n, nil
}

func (r *fakeLoanRepo) CountByStatus(_ context.Context, status domainCirc.Status) (int64, error) {
	var n int64
	for _, loan := range r.loans {
		if loan.Status == status {
			n++
		}
	}
	return n, nil
}

type circFixture struct {
	service  *Service
	books    *fakeBookRepo
	users    *fakeUserRepo
	loans    *fakeLoanRepo
	book     *domainBook.Book
	borrower *domainUser.User
}

func newCircFixture(t *testing.T) *circFixture {
	t.Helper()

	books := newFakeBookRepo()
	users := newFakeUserRepo()
	loans := newFakeLoanRepo(books)

	cfg := &config.Config{}
	cfg.Library.DefaultLoanDays = 14

	b := &domainBook.Book{AccNo: "ACC-001", Author: "Knuth", Title: "TAOCP Vol 1", Language: "English"}
	require.NoError(t, books.Create(context.Background(), b))

	u := &domainUser.User{Username: "reader", Email: "reader@example.com", FullName: "Avid Reader", Role: domainUser.RoleViewer, IsActive: true}
	require.NoError(t, users.Create(context.Background(), u))

	return &circFixture{
		service:  NewService(loans, books, users, cfg),
		books:    books,
		users:    users,
		loans:    loans,
		book:     b,
		borrower: u,
	}
}

func TestIssueDefaultsDueDate(t *testing.T) {
	f := newCircFixture(t)

	resp, err := f.service.Issue(context.Background(), &IssueRequest{
		BookID: f.book.ID,
		UserID: f.borrower.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domainCirc.StatusIssued), resp.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), resp.DueDate, time.Minute)
	assert.True(t, f.books.books[f.book.ID].IsIssued)
}

func TestIssueAlreadyIssuedBook(t *testing.T) {
	f := newCircFixture(t)

	_, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	require.NoError(t, err)

	_, err = f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	assert.ErrorIs(t, err, domainCirc.ErrBookAlreadyIssued)
}

func TestIssueUnknownBook(t *testing.T) {
	f := newCircFixture(t)

	_, err := f.service.Issue(context.Background(), &IssueRequest{BookID: uuid.New(), UserID: f.borrower.ID})
	assert.ErrorIs(t, err, domainBook.ErrBookNotFound)
}

func TestIssueInactiveBorrower(t *testing.T) {
	f := newCircFixture(t)
	f.users.users[f.borrower.ID].IsActive = false

	_, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	assert.ErrorIs(t, err, appErrors.ErrUserInactive)
}

func TestIssueRejectsPastDueDate(t *testing.T) {
	f := newCircFixture(t)

	past := time.Now().Add(-24 * time.Hour)
	_, err := f.service.Issue(context.Background(), &IssueRequest{
		BookID:  f.book.ID,
		UserID:  f.borrower.ID,
		DueDate: &past,
	})

	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_DUE_DATE", appErr.Code)
}

func TestRetrieveClosesLoanAndFreesBook(t *testing.T) {
	f := newCircFixture(t)

	issued, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	require.NoError(t, err)

	resp, err := f.service.Retrieve(context.Background(), issued.ID, &RetrieveRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(domainCirc.StatusReturned), resp.Status)
	require.NotNil(t, resp.ReturnDate)
	assert.False(t, f.books.books[f.book.ID].IsIssued)
}

func TestRetrieveMergesNotes(t *testing.T) {
	f := newCircFixture(t)

	issueNotes := "handle with care"
	issued, err := f.service.Issue(context.Background(), &IssueRequest{
		BookID: f.book.ID,
		UserID: f.borrower.ID,
		Notes:  &issueNotes,
	})
	require.NoError(t, err)

	returnNotes := "returned with water damage"
	resp, err := f.service.Retrieve(context.Background(), issued.ID, &RetrieveRequest{Notes: &returnNotes})
	require.NoError(t, err)

	require.NotNil(t, resp.Notes)
	assert.Equal(t, "handle with care\nreturned with water damage", *resp.Notes)
}

func TestRetrieveTwiceFails(t *testing.T) {
	f := newCircFixture(t)

	issued, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	require.NoError(t, err)

	_, err = f.service.Retrieve(context.Background(), issued.ID, &RetrieveRequest{})
	require.NoError(t, err)

	_, err = f.service.Retrieve(context.Background(), issued.ID, &RetrieveRequest{})
	assert.ErrorIs(t, err, domainCirc.ErrLoanAlreadyClosed)
}

func TestExtendAddsPeriodToCurrentDueDate(t *testing.T) {
	f := newCircFixture(t)

	issued, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	require.NoError(t, err)

	resp, err := f.service.Extend(context.Background(), issued.ID)
	require.NoError(t, err)

	assert.Equal(t, issued.DueDate.Add(domainCirc.ExtensionPeriod), resp.DueDate)
	assert.Equal(t, 1, resp.ExtensionCount)
}

func TestExtendCapAfterTwoExtensions(t *testing.T) {
	f := newCircFixture(t)

	issued, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	require.NoError(t, err)

	_, err = f.service.Extend(context.Background(), issued.ID)
	require.NoError(t, err)
	_, err = f.service.Extend(context.Background(), issued.ID)
	require.NoError(t, err)

	_, err = f.service.Extend(context.Background(), issued.ID)
	assert.ErrorIs(t, err, domainCirc.ErrExtensionLimit)
}

func TestExtendClosedLoanFails(t *testing.T) {
	f := newCircFixture(t)

	issued, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	require.NoError(t, err)

	_, err = f.service.Retrieve(context.Background(), issued.ID, &RetrieveRequest{})
	require.NoError(t, err)

	_, err = f.service.Extend(context.Background(), issued.ID)
	assert.ErrorIs(t, err, domainCirc.ErrLoanAlreadyClosed)
}

func TestExtendOverdueLoanStillAllowed(t *testing.T) {
	f := newCircFixture(t)

	past := time.Now().Add(time.Minute)
	issued, err := f.service.Issue(context.Background(), &IssueRequest{
		BookID:  f.book.ID,
		UserID:  f.borrower.ID,
		DueDate: &past,
	})
	require.NoError(t, err)
	f.loans.loans[issued.ID].Status = domainCirc.StatusOverdue

	resp, err := f.service.Extend(context.Background(), issued.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ExtensionCount)
}

func TestSweepOverdueIsIdempotent(t *testing.T) {
	f := newCircFixture(t)

	due := time.Now().Add(time.Minute)
	issued, err := f.service.Issue(context.Background(), &IssueRequest{
		BookID:  f.book.ID,
		UserID:  f.borrower.ID,
		DueDate: &due,
	})
	require.NoError(t, err)
	f.loans.loans[issued.ID].DueDate = time.Now().Add(-time.Hour)

	changed, err := f.service.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = f.service.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)

	loan, err := f.loans.GetByID(context.Background(), issued.ID)
	require.NoError(t, err)
	assert.Equal(t, domainCirc.StatusOverdue, loan.Status)
}

func TestSweepLeavesReturnedLoansAlone(t *testing.T) {
	f := newCircFixture(t)

	issued, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	require.NoError(t, err)
	_, err = f.service.Retrieve(context.Background(), issued.ID, &RetrieveRequest{})
	require.NoError(t, err)
	f.loans.loans[issued.ID].DueDate = time.Now().Add(-time.Hour)

	changed, err := f.service.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)
}

func TestLoanDetailDaysOverdue(t *testing.T) {
	now := time.Now()
	detail := &domainCirc.LoanDetail{
		Loan: domainCirc.Loan{
			Status:  domainCirc.StatusOverdue,
			DueDate: now.Add(-72 * time.Hour),
		},
		BookTitle: "TAOCP Vol 1",
	}

	resp := ToLoanDetailResponse(detail, now)
	assert.Equal(t, 3, resp.DaysOverdue)

	detail.Status = domainCirc.StatusReturned
	resp = ToLoanDetailResponse(detail, now)
	assert.Equal(t, 0, resp.DaysOverdue)
}

func TestLoanDetailDueSoonFlag(t *testing.T) {
	now := time.Now()
	detail := &domainCirc.LoanDetail{
		Loan: domainCirc.Loan{
			Status:  domainCirc.StatusIssued,
			DueDate: now.Add(48 * time.Hour),
		},
	}

	resp := ToLoanDetailResponse(detail, now)
	assert.True(t, resp.DueSoon)
	assert.Equal(t, 0, resp.DaysOverdue)

	detail.DueDate = now.Add(10 * 24 * time.Hour)
	resp = ToLoanDetailResponse(detail, now)
	assert.False(t, resp.DueSoon)
}

func TestListExtendableSkipsCappedAndClosedLoans(t *testing.T) {
	f := newCircFixture(t)

	issued, err := f.service.Issue(context.Background(), &IssueRequest{BookID: f.book.ID, UserID: f.borrower.ID})
	require.NoError(t, err)

	second := &domainBook.Book{AccNo: "ACC-002", Author: "Knuth", Title: "TAOCP Vol 2", Language: "English"}
	require.NoError(t, f.books.Create(context.Background(), second))
	capped, err := f.service.Issue(context.Background(), &IssueRequest{BookID: second.ID, UserID: f.borrower.ID})
	require.NoError(t, err)

	for i := 0; i < domainCirc.MaxExtensions; i++ {
		_, err = f.service.Extend(context.Background(), capped.ID)
		require.NoError(t, err)
	}

	third := &domainBook.Book{AccNo: "ACC-003", Author: "Knuth", Title: "TAOCP Vol 3", Language: "English"}
	require.NoError(t, f.books.Create(context.Background(), third))
	closed, err := f.service.Issue(context.Background(), &IssueRequest{BookID: third.ID, UserID: f.borrower.ID})
	require.NoError(t, err)
	_, err = f.service.Retrieve(context.Background(), closed.ID, &RetrieveRequest{})
	require.NoError(t, err)

	resp, err := f.service.ListExtendable(context.Background())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, issued.ID, resp[0].ID)
	assert.Equal(t, domainCirc.MaxExtensions, resp[0].RemainingExtensions)
	assert.Equal(t, issued.DueDate.Add(domainCirc.ExtensionPeriod), resp[0].NextDueDate)
}
