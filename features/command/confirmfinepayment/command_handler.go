package confirmfinepayment

import (
	"context"
	"time"

	"github.com/libreshelf/lending-engine/lending"
)

// Storage defines the interface needed by the CommandHandler for lending
// store operations.
type Storage interface {
	MarkFinePaid(ctx context.Context, fineID lending.FineID, paidAt time.Time) (lending.Fine, error)
}

// CommandHandler orchestrates fine settlement. The unpaid-to-paid transition
// is a single conditional update in the storage layer, so there is no decide
// step and no retry.
type CommandHandler struct {
	storage Storage
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(storage Storage) CommandHandler {
	return CommandHandler{storage: storage}
}

// Handle settles the fine and returns its updated record.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.Fine, error) {
	return h.storage.MarkFinePaid(ctx, command.FineID, command.PaidAt)
}
