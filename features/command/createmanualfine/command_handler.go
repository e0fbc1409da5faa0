package createmanualfine

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

// Storage defines the interface needed by the CommandHandler for lending
// store operations.
type Storage interface {
	GetStudent(ctx context.Context, studentID lending.StudentID) (lending.Student, error)
	InsertFine(ctx context.Context, fine lending.Fine) error
}

// CommandHandler orchestrates manual fine creation: validate, verify the
// student exists, record the fine.
type CommandHandler struct {
	storage Storage
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(storage Storage) CommandHandler {
	return CommandHandler{storage: storage}
}

// Handle records the fine and returns it.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.Fine, error) {
	fine, decideErr := Decide(uuid.New(), command)
	if decideErr != nil {
		return lending.Fine{}, decideErr
	}

	if _, studentErr := h.storage.GetStudent(ctx, command.StudentID); studentErr != nil {
		return lending.Fine{}, studentErr
	}

	if insertErr := h.storage.InsertFine(ctx, fine); insertErr != nil {
		return lending.Fine{}, insertErr
	}

	return fine, nil
}
