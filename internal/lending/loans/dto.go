package loans

import "time"

// Loan creation request. The borrower comes from the authenticated
// context, never from the body.
type CreateLoanRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

// Return request. Returns are posted as their own resource.
type ReturnRequest struct {
	LoanID string `json:"loan_id" binding:"required"`
}

type LoanResponse struct {
	LoanID     string     `json:"loan_id"`
	BookID     int64      `json:"book_id"`
	BorrowerID string     `json:"borrower_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Returned   bool       `json:"returned"`
}

// LoanView is a LoanResponse plus the derived fields for presentation.
// The derived block is only populated for active loans; returned loans
// carry the bare record, since fines are informational and only meaningful
// while the loan is open.
type LoanView struct {
	LoanResponse
	IsOverdue      *bool   `json:"is_overdue,omitempty"`
	DaysRemaining  *int    `json:"days_remaining,omitempty"`
	HoursRemaining *int    `json:"hours_remaining,omitempty"`
	TimeRemaining  *string `json:"time_remaining,omitempty"`
	FineAmount     *string `json:"fine_amount,omitempty"`
}

type BookStatusResponse struct {
	BookID   int64         `json:"book_id"`
	IsRented bool          `json:"is_rented"`
	Loan     *LoanResponse `json:"loan,omitempty"`
}
