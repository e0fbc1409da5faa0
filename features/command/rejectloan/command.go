package rejectloan

import "github.com/google/uuid"

const commandType = "RejectLoan"

// Command represents the intent to reject a requested loan.
type Command struct {
	LoanID uuid.UUID
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID uuid.UUID) Command {
	return Command{LoanID: loanID}
}
