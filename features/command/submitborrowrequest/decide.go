package submitborrowrequest

import (
	"errors"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

// Decide validates the command and produces the loan to be recorded.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A student with StudentID and a book with BookID
//	WHEN: SubmitBorrowRequest command is received
//	THEN: A loan in status requested is produced
//	ERROR: invalid input if either id is missing or the timestamp is zero
//
// The one-open-loan-per-pair guard is enforced by the storage layer, not here:
// only the database can see concurrent requests.
func Decide(loanID uuid.UUID, command Command) (lending.Loan, error) {
	if command.StudentID == uuid.Nil {
		return lending.Loan{}, errors.Join(lending.ErrInvalidInput, errors.New("student id must not be empty"))
	}

	if command.BookID == uuid.Nil {
		return lending.Loan{}, errors.Join(lending.ErrInvalidInput, errors.New("book id must not be empty"))
	}

	if command.RequestedAt.IsZero() {
		return lending.Loan{}, errors.Join(lending.ErrInvalidInput, errors.New("requested at must not be zero"))
	}

	return lending.Loan{
		ID:          loanID,
		StudentID:   command.StudentID,
		BookID:      command.BookID,
		Status:      lending.LoanStatusRequested,
		RequestedAt: command.RequestedAt,
	}, nil
}
