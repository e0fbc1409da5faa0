package submitborrowrequest

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

// Storage defines the interface needed by the CommandHandler for lending
// store operations.
type Storage interface {
	GetStudent(ctx context.Context, studentID lending.StudentID) (lending.Student, error)
	GetBook(ctx context.Context, bookID lending.BookID) (lending.Book, error)
	InsertRequestedLoan(ctx context.Context, loan lending.Loan) error
}

// CommandHandler orchestrates the borrow request workflow: verify that the
// student exists and the book has a copy available, then record the request.
// The duplicate-request guard lives in the storage layer.
type CommandHandler struct {
	storage Storage
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(storage Storage) CommandHandler {
	return CommandHandler{storage: storage}
}

// Handle executes the borrow request workflow and returns the recorded loan.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.Loan, error) {
	loan, decideErr := Decide(uuid.New(), command)
	if decideErr != nil {
		return lending.Loan{}, decideErr
	}

	if _, studentErr := h.storage.GetStudent(ctx, command.StudentID); studentErr != nil {
		return lending.Loan{}, studentErr
	}

	book, bookErr := h.storage.GetBook(ctx, command.BookID)
	if bookErr != nil {
		return lending.Loan{}, bookErr
	}

	// No copy available means no request: the queue only holds requests that
	// could be issued right away. The copy itself is reserved at issue time.
	if !book.HasAvailableCopy() {
		return lending.Loan{}, lending.ErrBookUnavailable
	}

	if insertErr := h.storage.InsertRequestedLoan(ctx, loan); insertErr != nil {
		return lending.Loan{}, insertErr
	}

	return loan, nil
}
