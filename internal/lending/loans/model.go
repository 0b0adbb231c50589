package loans

import "time"

// Loan is one borrowing event: one book, one borrower, one bounded period.
// Rows are append-only; a return sets ReturnedAt exactly once and nothing
// is ever deleted. ReturnedAt == nil is what "active" means everywhere in
// this package.
type Loan struct {
	LoanID     string
	BookID     int64
	BorrowerID string
	LoanDate   time.Time
	DueDate    time.Time
	ReturnedAt *time.Time
}

func (l *Loan) Active() bool { return l.ReturnedAt == nil }

// OverdueAt reports whether the loan is active and past due at now.
// Overdue is derived at read time, never stored.
func (l *Loan) OverdueAt(now time.Time) bool {
	return l.Active() && now.After(l.DueDate)
}
