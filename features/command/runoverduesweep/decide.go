package runoverduesweep

import (
	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

// Decide computes the fine to assess for one overdue loan as of the sweep
// time. This is a pure function with no side effects. It returns nil when
// the loan has not accrued a chargeable amount yet: past due but still
// inside the policy's free days.
func Decide(fineID uuid.UUID, loan lending.Loan, policy lending.FinePolicy, command Command) *lending.Fine {
	if !loan.IsOverdue(command.AsOf) || loan.IssuedAt == nil {
		return nil
	}

	amount := policy.Amount(*loan.IssuedAt, command.AsOf)
	if amount.IsZero() {
		return nil
	}

	// Overdue fines are due the moment they are assessed.
	dueDate := command.AsOf

	return &lending.Fine{
		ID:         fineID,
		LoanID:     uuid.NullUUID{UUID: loan.ID, Valid: true},
		StudentID:  loan.StudentID,
		Amount:     amount,
		Reason:     lending.ReasonOverdueReturn,
		Status:     lending.FineStatusUnpaid,
		IssuedDate: command.AsOf,
		DueDate:    &dueDate,
	}
}
