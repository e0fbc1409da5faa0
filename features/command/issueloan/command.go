package issueloan

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

const commandType = "IssueLoan"

// Command represents the intent to approve a requested loan and hand a copy
// to the student.
type Command struct {
	LoanID   uuid.UUID
	IssuedAt time.Time
	LoanDays int
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// A non-positive loanDays falls back to the default lending period.
func BuildCommand(loanID uuid.UUID, issuedAt time.Time, loanDays int) Command {
	if loanDays <= 0 {
		loanDays = lending.DefaultLoanDays
	}

	return Command{
		LoanID:   loanID,
		IssuedAt: issuedAt,
		LoanDays: loanDays,
	}
}
