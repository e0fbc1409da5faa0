package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FineStatus is the settlement state of a fine.
type FineStatus string

const (
	FineStatusUnpaid FineStatus = "unpaid"
	FineStatusPaid   FineStatus = "paid"
	FineStatusWaived FineStatus = "waived"
)

// ReasonOverdueReturn is the reason recorded on fines created by the return
// path and the overdue sweep.
const ReasonOverdueReturn = "overdue book return"

// Fine is a monetary penalty, usually tied to a loan's late return.
//
// LoanID is null for manual fines created by accounting without an associated
// loan; the engine never fabricates placeholder loans to fill it. At most one
// active (non-waived) fine may exist per loan.
type Fine struct {
	ID         uuid.UUID
	LoanID     uuid.NullUUID
	StudentID  uuid.UUID
	Amount     decimal.Decimal
	Reason     string
	Status     FineStatus
	IssuedDate time.Time
	DueDate    *time.Time
	PaidDate   *time.Time
}

// IsActive reports whether the fine counts against the one-active-fine-per-loan
// invariant. Waived fines do not.
func (f Fine) IsActive() bool {
	return f.Status != FineStatusWaived
}

// IsSettled reports whether payment confirmation is no longer legal.
func (f Fine) IsSettled() bool {
	return f.Status == FineStatusPaid || f.Status == FineStatusWaived
}

// FineFilter narrows a fine listing. Zero-valued fields match everything.
type FineFilter struct {
	StudentID uuid.NullUUID
	Status    FineStatus
	CreatedOn *time.Time // matches fines issued on this calendar day (UTC)
}
