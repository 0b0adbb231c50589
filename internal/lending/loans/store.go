package loans

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"biblios-backend/internal/platform/db"
)

// LoanStore is the persistence the lifecycle manager runs on. Find* methods
// return (nil, nil) when nothing matches; only genuinely broken reads come
// back as errors.
type LoanStore interface {
	FindActiveByBook(ctx context.Context, bookID int64) (*Loan, error)
	FindActiveByBorrowerAndBook(ctx context.Context, borrowerID string, bookID int64) (*Loan, error)
	Insert(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, loanID string) (*Loan, error)
	MarkReturned(ctx context.Context, loanID string, returnedAt time.Time) error
	ListActiveByBorrower(ctx context.Context, borrowerID string) ([]Loan, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)
}

type Store struct{ db *sql.DB }

func NewStore(sqlDB *sql.DB) *Store { return &Store{db: sqlDB} }

const loanColumns = `loan_id, book_id, borrower_id, loan_date, due_date, returned_at`

func scanLoan(row *sql.Row) (*Loan, error) {
	var l Loan
	var returnedAt sql.NullTime
	err := row.Scan(&l.LoanID, &l.BookID, &l.BorrowerID, &l.LoanDate, &l.DueDate, &returnedAt)
	if err != nil {
		return nil, err
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		l.ReturnedAt = &t
	}
	return &l, nil
}

func (s *Store) FindActiveByBook(ctx context.Context, bookID int64) (*Loan, error) {
	const q = `
	SELECT ` + loanColumns + `
	FROM loans
	WHERE book_id = ? AND returned_at IS NULL
	LIMIT 1`

	l, err := scanLoan(s.db.QueryRowContext(ctx, q, bookID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Store) FindActiveByBorrowerAndBook(ctx context.Context, borrowerID string, bookID int64) (*Loan, error) {
	const q = `
	SELECT ` + loanColumns + `
	FROM loans
	WHERE borrower_id = ? AND book_id = ? AND returned_at IS NULL
	LIMIT 1`

	l, err := scanLoan(s.db.QueryRowContext(ctx, q, borrowerID, bookID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Insert persists a new active loan. The check-then-insert runs in one
// transaction with a FOR UPDATE lock on the active row for the book, so
// even without the service-level mutex two concurrent inserts for the same
// book cannot both pass the check.
func (s *Store) Insert(ctx context.Context, l *Loan) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const lockQ = `
		SELECT borrower_id FROM loans
		WHERE book_id = ? AND returned_at IS NULL
		LIMIT 1
		FOR UPDATE`

		var holder string
		err := tx.QueryRowContext(ctx, lockQ, l.BookID).Scan(&holder)
		switch {
		case err == nil:
			if holder == l.BorrowerID {
				return ErrAlreadyBorrowed()
			}
			return ErrBookUnavailable(holder)
		case errors.Is(err, sql.ErrNoRows):
			// book is free
		default:
			return err
		}

		const q = `
		INSERT INTO loans (loan_id, book_id, borrower_id, loan_date, due_date, returned_at)
		VALUES (?, ?, ?, ?, ?, NULL)`

		_, err = tx.ExecContext(ctx, q, l.LoanID, l.BookID, l.BorrowerID, l.LoanDate, l.DueDate)
		return err
	})
}

func (s *Store) GetByID(ctx context.Context, loanID string) (*Loan, error) {
	const q = `
	SELECT ` + loanColumns + `
	FROM loans
	WHERE loan_id = ?`

	l, err := scanLoan(s.db.QueryRowContext(ctx, q, loanID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("loan not found")
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// MarkReturned sets returned_at once. The conditional update keeps a lost
// race on double-return deterministic: zero affected rows is disambiguated
// into ALREADY_RETURNED vs NOT_FOUND by re-reading the row.
func (s *Store) MarkReturned(ctx context.Context, loanID string, returnedAt time.Time) error {
	const q = `
	UPDATE loans
	SET returned_at = ?
	WHERE loan_id = ? AND returned_at IS NULL`

	res, err := s.db.ExecContext(ctx, q, returnedAt, loanID)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 1 {
		return nil
	}

	if _, err := s.GetByID(ctx, loanID); err != nil {
		return err
	}
	return ErrAlreadyReturned()
}

func (s *Store) ListActiveByBorrower(ctx context.Context, borrowerID string) ([]Loan, error) {
	const q = `
	SELECT ` + loanColumns + `
	FROM loans
	WHERE borrower_id = ? AND returned_at IS NULL
	ORDER BY loan_date DESC`

	return queryLoans(ctx, s.db, q, borrowerID)
}

func (s *Store) ListByBorrower(ctx context.Context, borrowerID string) ([]Loan, error) {
	const q = `
	SELECT ` + loanColumns + `
	FROM loans
	WHERE borrower_id = ?
	ORDER BY loan_date DESC`

	return queryLoans(ctx, s.db, q, borrowerID)
}

// ListAll reads in a read-only transaction so the admin view is a
// consistent snapshot.
func (s *Store) ListAll(ctx context.Context) ([]Loan, error) {
	const q = `
	SELECT ` + loanColumns + `
	FROM loans
	ORDER BY loan_date DESC`

	var out []Loan
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		var err error
		out, err = queryLoans(ctx, tx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func queryLoans(ctx context.Context, tx db.DBTX, q string, args ...any) ([]Loan, error) {
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var l Loan
		var returnedAt sql.NullTime
		if err := rows.Scan(&l.LoanID, &l.BookID, &l.BorrowerID, &l.LoanDate, &l.DueDate, &returnedAt); err != nil {
			return nil, err
		}
		if returnedAt.Valid {
			t := returnedAt.Time
			l.ReturnedAt = &t
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
