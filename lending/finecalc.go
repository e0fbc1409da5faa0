package lending

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultFreeDays is the grace period before overdue charges accrue.
	DefaultFreeDays = 15

	// DefaultRatePerDay is the charge per overdue day in currency units.
	DefaultRatePerDay = 2

	hoursPerDay = 24
)

// FinePolicy holds the accrual constants for overdue fines.
type FinePolicy struct {
	FreeDays   int
	RatePerDay decimal.Decimal
}

// DefaultFinePolicy returns the standard accrual policy:
// 15 free days, 2 currency units per overdue day.
func DefaultFinePolicy() FinePolicy {
	return FinePolicy{
		FreeDays:   DefaultFreeDays,
		RatePerDay: decimal.NewFromInt(DefaultRatePerDay),
	}
}

// OverdueDays computes the chargeable days for a loan issued at issuedAt and
// ended (returned, or evaluated by the sweep) at end:
//
//	overdueDays = max(0, floor(whole days between issuedAt and end) - freeDays)
func (p FinePolicy) OverdueDays(issuedAt, end time.Time) int {
	if end.Before(issuedAt) {
		return 0
	}

	elapsedDays := int(end.Sub(issuedAt).Hours() / hoursPerDay)

	overdue := elapsedDays - p.FreeDays
	if overdue < 0 {
		return 0
	}

	return overdue
}

// Amount computes the fine amount for the elapsed period. A zero amount means
// no fine record should be created.
func (p FinePolicy) Amount(issuedAt, end time.Time) decimal.Decimal {
	return p.RatePerDay.Mul(decimal.NewFromInt(int64(p.OverdueDays(issuedAt, end))))
}
