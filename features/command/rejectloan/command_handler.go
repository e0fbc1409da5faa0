package rejectloan

import (
	"context"

	"github.com/libreshelf/lending-engine/lending"
)

// Storage defines the interface needed by the CommandHandler for lending
// store operations.
type Storage interface {
	RejectLoan(ctx context.Context, loanID lending.LoanID) (lending.Loan, error)
}

// CommandHandler orchestrates the rejection workflow. The requested-to-
// rejected transition is a single conditional update in the storage layer,
// so there is no decide step and no retry: a lost race means the loan left
// the requested state and the command is simply invalid now.
type CommandHandler struct {
	storage Storage
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(storage Storage) CommandHandler {
	return CommandHandler{storage: storage}
}

// Handle executes the rejection and returns the rejected loan.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.Loan, error) {
	return h.storage.RejectLoan(ctx, command.LoanID)
}
