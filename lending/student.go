package lending

import "github.com/google/uuid"

// AccountStatus is the state of a student account as reported by the
// identity collaborator. Only active accounts may borrow.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// DefaultMaxBooks applies when a student record has no explicit borrow limit.
const DefaultMaxBooks = 2

// Student is the slice of the identity collaborator's data the engine reads.
// The engine never mutates student records.
type Student struct {
	ID            uuid.UUID
	AccountStatus AccountStatus
	MaxBooks      int
}

// EffectiveMaxBooks returns the student's borrow limit, falling back to
// DefaultMaxBooks when unset.
func (s Student) EffectiveMaxBooks() int {
	if s.MaxBooks <= 0 {
		return DefaultMaxBooks
	}
	return s.MaxBooks
}

// EligibilitySnapshot is the derived, never-cached view of a student's
// standing used by the eligibility policy. It is computed fresh for every
// check and re-derived inside the atomic unit of the issue transition.
type EligibilitySnapshot struct {
	AccountStatus   AccountStatus
	IssuedLoanCount int
	HasUnpaidFine   bool
	MaxBooks        int
}
