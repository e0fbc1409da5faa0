package createmanualfine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const commandType = "CreateManualFine"

// Command represents the intent to record a fine outside the automatic
// overdue assessment.
type Command struct {
	StudentID  uuid.UUID
	LoanID     uuid.NullUUID
	Amount     decimal.Decimal
	Reason     string
	IssuedDate time.Time
	DueDate    *time.Time
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	studentID uuid.UUID,
	loanID uuid.NullUUID,
	amount decimal.Decimal,
	reason string,
	issuedDate time.Time,
	dueDate *time.Time,
) Command {
	return Command{
		StudentID:  studentID,
		LoanID:     loanID,
		Amount:     amount,
		Reason:     reason,
		IssuedDate: issuedDate,
		DueDate:    dueDate,
	}
}
