package createmanualfine

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

// Decide validates the command and produces the fine to be recorded.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A student with StudentID
//	WHEN: CreateManualFine command is received
//	THEN: A fine in status unpaid is produced
//	ERROR: invalid amount if the amount is not strictly positive
//	ERROR: invalid input if the student id or reason is missing
func Decide(fineID uuid.UUID, command Command) (lending.Fine, error) {
	if command.StudentID == uuid.Nil {
		return lending.Fine{}, errors.Join(lending.ErrInvalidInput, errors.New("student id must not be empty"))
	}

	if strings.TrimSpace(command.Reason) == "" {
		return lending.Fine{}, errors.Join(lending.ErrInvalidInput, errors.New("reason must not be empty"))
	}

	if !command.Amount.IsPositive() {
		return lending.Fine{}, lending.ErrInvalidAmount
	}

	return lending.Fine{
		ID:         fineID,
		LoanID:     command.LoanID,
		StudentID:  command.StudentID,
		Amount:     command.Amount,
		Reason:     strings.TrimSpace(command.Reason),
		Status:     lending.FineStatusUnpaid,
		IssuedDate: command.IssuedDate,
		DueDate:    command.DueDate,
	}, nil
}
