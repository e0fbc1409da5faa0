package returnloan

import (
	"time"

	"github.com/google/uuid"
)

const commandType = "ReturnLoan"

// Command represents the intent to return a borrowed book copy.
type Command struct {
	LoanID     uuid.UUID
	ReturnedAt time.Time
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID uuid.UUID, returnedAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		ReturnedAt: returnedAt,
	}
}
