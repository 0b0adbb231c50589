// Package fine computes overdue fines and human-readable remaining time for
// loans. Everything here is pure: inputs in, values out, no clock reads and
// no shared state, so it is safe to call from concurrent request handlers.
package fine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const hoursPerDay = 24

// Breakdown is the signed distance between a due date and a reference time,
// decomposed into whole days plus a 0-23 hour remainder. When Overdue is
// true the magnitude is elapsed overdue time, otherwise time left.
type Breakdown struct {
	Days    int
	Hours   int
	Overdue bool
}

// TimeRemaining decomposes due-now into days and hours. Days are carried
// from the accumulated hour total, so 30 hours comes out as 1 day and
// 6 hours rather than 0 days and 30 hours.
func TimeRemaining(due, now time.Time) Breakdown {
	diff := due.Sub(now)
	overdue := diff < 0
	if overdue {
		diff = -diff
	}

	totalHours := int(diff.Hours())
	return Breakdown{
		Days:    totalHours / hoursPerDay,
		Hours:   totalHours % hoursPerDay,
		Overdue: overdue,
	}
}

// Amount is the fine owed at now for a loan due at due. Zero until the due
// date passes; after that, any started day counts as a full day, so one
// minute late already costs a full dailyRate and 30 hours late costs two.
func Amount(due, now time.Time, dailyRate decimal.Decimal) decimal.Decimal {
	late := now.Sub(due)
	if late <= 0 {
		return decimal.Zero
	}
	days := int64(math.Ceil(late.Hours() / hoursPerDay))
	return dailyRate.Mul(decimal.NewFromInt(days))
}
