package returnloan

import (
	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

// Decide implements the business logic for returning a loan.
// This is a pure function with no side effects. It returns the overdue fine
// to be recorded alongside the return, or nil when the loan came back within
// the chargeable window.
//
// Business Rules:
//
//	GIVEN: An issued loan and the fine accrual policy
//	WHEN: ReturnLoan command is received
//	THEN: A fine draft is produced when the overdue amount is positive
//	ERROR: invalid state if the loan is not issued or was already returned
//
// The fine accrues from the issue date, not the due date: the free days of
// the policy are the grace period.
func Decide(fineID uuid.UUID, loan lending.Loan, policy lending.FinePolicy, command Command) (*lending.Fine, error) {
	if loan.Status != lending.LoanStatusIssued || loan.IssuedAt == nil || loan.ReturnedAt != nil {
		return nil, lending.ErrInvalidState
	}

	amount := policy.Amount(*loan.IssuedAt, command.ReturnedAt)
	if amount.IsZero() {
		return nil, nil
	}

	// Overdue fines are due the moment they are assessed.
	dueDate := command.ReturnedAt

	return &lending.Fine{
		ID:         fineID,
		LoanID:     uuid.NullUUID{UUID: loan.ID, Valid: true},
		StudentID:  loan.StudentID,
		Amount:     amount,
		Reason:     lending.ReasonOverdueReturn,
		Status:     lending.FineStatusUnpaid,
		IssuedDate: command.ReturnedAt,
		DueDate:    &dueDate,
	}, nil
}
