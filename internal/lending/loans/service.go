package loans

import (
	"context"
	"crypto/rand"
	"database/sql"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"biblios-backend/internal/catalog/books"
	"biblios-backend/internal/lending/fine"
)

// -------------- Clock & ID --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// -------------- Per-book locks --------------

// bookLocks hands out one mutex per book id. CreateLoan's check-then-insert
// runs under it, so two concurrent requests for the same book can never
// both observe "no active loan". Entries are never evicted; the map grows
// with the catalog, not with traffic.
type bookLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newBookLocks() *bookLocks {
	return &bookLocks{m: make(map[int64]*sync.Mutex)}
}

func (b *bookLocks) lock(bookID int64) *sync.Mutex {
	b.mu.Lock()
	l, ok := b.m[bookID]
	if !ok {
		l = &sync.Mutex{}
		b.m[bookID] = l
	}
	b.mu.Unlock()
	l.Lock()
	return l
}

// -------------- Service --------------

// Config is the lending policy: how long a loan runs, what a late day
// costs, and which locale renders remaining time.
type Config struct {
	LoanPeriod    time.Duration
	DailyFineRate decimal.Decimal
	Locale        fine.Locale
}

// Service is the loan lifecycle manager. It owns the one-active-loan-per-
// book invariant and derives overdue state and fines at read time through
// the fine package.
type Service struct {
	store LoanStore
	books books.Finder
	clock Clock
	id    IDGen
	cfg   Config
	locks *bookLocks
}

func NewService(sqlDB *sql.DB, cfg Config) *Service {
	return &Service{
		store: NewStore(sqlDB),
		books: books.NewStore(sqlDB),
		clock: realClock{},
		id:    ulidGen{},
		cfg:   cfg,
		locks: newBookLocks(),
	}
}

// CreateLoan grants the book to the borrower if nobody holds it. Rejections
// are typed: NOT_FOUND for a nonexistent book, ALREADY_BORROWED when the
// requester holds it, BOOK_UNAVAILABLE (naming the holder) when somebody
// else does.
func (s *Service) CreateLoan(ctx context.Context, borrowerID string, req CreateLoanRequest) (*LoanResponse, error) {
	if borrowerID == "" {
		return nil, ErrInvalid("borrower_id required")
	}
	if req.BookID <= 0 {
		return nil, ErrInvalid("book_id must be > 0")
	}

	book, err := s.books.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrNotFound("book not found")
	}

	// Serialize check-then-insert per book. Without this, two borrowers
	// could both pass the active-loan check and both be granted the book.
	l := s.locks.lock(req.BookID)
	defer l.Unlock()

	mine, err := s.store.FindActiveByBorrowerAndBook(ctx, borrowerID, req.BookID)
	if err != nil {
		return nil, err
	}
	if mine != nil {
		return nil, ErrAlreadyBorrowed()
	}

	current, err := s.store.FindActiveByBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, ErrBookUnavailable(current.BorrowerID)
	}

	now := s.clock.Now()
	loan := &Loan{
		LoanID:     s.id.NewULID(now),
		BookID:     req.BookID,
		BorrowerID: borrowerID,
		LoanDate:   now,
		DueDate:    now.Add(s.cfg.LoanPeriod),
	}

	if err := s.store.Insert(ctx, loan); err != nil {
		return nil, err
	}

	resp := buildLoanResponse(loan)
	return &resp, nil
}

// ReturnLoan closes an active loan. Returning twice is an explicit
// ALREADY_RETURNED failure, never a silent no-op.
func (s *Service) ReturnLoan(ctx context.Context, loanID string) error {
	if loanID == "" {
		return ErrInvalid("loan_id required")
	}

	loan, err := s.store.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.ReturnedAt != nil {
		return ErrAlreadyReturned()
	}

	return s.store.MarkReturned(ctx, loanID, s.clock.Now())
}

// GetBookStatus answers "is this book out, and with whom".
func (s *Service) GetBookStatus(ctx context.Context, bookID int64) (*BookStatusResponse, error) {
	if bookID <= 0 {
		return nil, ErrInvalid("book_id must be > 0")
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrNotFound("book not found")
	}

	current, err := s.store.FindActiveByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	resp := &BookStatusResponse{BookID: bookID}
	if current != nil {
		resp.IsRented = true
		lr := buildLoanResponse(current)
		resp.Loan = &lr
	}
	return resp, nil
}

// GetBorrowerLoans lists a borrower's loans with the derived fields
// attached to the active ones. onlyActive narrows to open loans.
func (s *Service) GetBorrowerLoans(ctx context.Context, borrowerID string, onlyActive bool) ([]LoanView, error) {
	if borrowerID == "" {
		return nil, ErrInvalid("borrower_id required")
	}

	var (
		list []Loan
		err  error
	)
	if onlyActive {
		list, err = s.store.ListActiveByBorrower(ctx, borrowerID)
	} else {
		list, err = s.store.ListByBorrower(ctx, borrowerID)
	}
	if err != nil {
		return nil, err
	}

	return s.buildLoanViews(list), nil
}

// ListAllLoans is the administrative view over every loan ever made.
func (s *Service) ListAllLoans(ctx context.Context) ([]LoanView, error) {
	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildLoanViews(list), nil
}

func (s *Service) buildLoanViews(list []Loan) []LoanView {
	now := s.clock.Now()
	views := make([]LoanView, 0, len(list))
	for i := range list {
		views = append(views, s.buildLoanView(&list[i], now))
	}
	return views
}

func (s *Service) buildLoanView(l *Loan, now time.Time) LoanView {
	view := LoanView{LoanResponse: buildLoanResponse(l)}
	if !l.Active() {
		return view
	}

	br := fine.TimeRemaining(l.DueDate, now)
	text := s.cfg.Locale.FormatRemaining(br.Days, br.Hours)
	amount := fine.Amount(l.DueDate, now, s.cfg.DailyFineRate).StringFixed(2)

	view.IsOverdue = &br.Overdue
	view.DaysRemaining = &br.Days
	view.HoursRemaining = &br.Hours
	view.TimeRemaining = &text
	view.FineAmount = &amount
	return view
}

func buildLoanResponse(l *Loan) LoanResponse {
	resp := LoanResponse{
		LoanID:     l.LoanID,
		BookID:     l.BookID,
		BorrowerID: l.BorrowerID,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		Returned:   !l.Active(),
	}
	if l.ReturnedAt != nil {
		t := *l.ReturnedAt
		resp.ReturnedAt = &t
	}
	return resp
}
