package confirmfinepayment

import (
	"time"

	"github.com/google/uuid"
)

const commandType = "ConfirmFinePayment"

// Command represents the intent to settle an unpaid fine.
type Command struct {
	FineID uuid.UUID
	PaidAt time.Time
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(fineID uuid.UUID, paidAt time.Time) Command {
	return Command{
		FineID: fineID,
		PaidAt: paidAt,
	}
}
