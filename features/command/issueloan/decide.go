package issueloan

import (
	"time"

	"github.com/libreshelf/lending-engine/lending"
)

// Decision holds the lending window computed for an approved issue.
type Decision struct {
	IssuedAt time.Time
	DueAt    time.Time
}

// Decide implements the business logic for issuing a loan.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A loan and the student's eligibility snapshot
//	WHEN: IssueLoan command is received
//	THEN: The lending window (issuedAt, dueAt) is produced
//	ERROR: invalid state if the loan is not in status requested
//	ERROR: the highest-priority eligibility denial, in order:
//	       inactive account, unpaid fines, borrow limit reached
func Decide(loan lending.Loan, snapshot lending.EligibilitySnapshot, command Command) (Decision, error) {
	if loan.Status != lending.LoanStatusRequested {
		return Decision{}, lending.ErrInvalidState
	}

	if policyErr := lending.CheckEligibility(snapshot); policyErr != nil {
		return Decision{}, policyErr
	}

	return Decision{
		IssuedAt: command.IssuedAt,
		DueAt:    command.IssuedAt.AddDate(0, 0, command.LoanDays),
	}, nil
}
