package issueloan

import (
	"context"
	"time"

	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/shell"
)

// Storage defines the interface needed by the CommandHandler for lending
// store operations.
type Storage interface {
	GetLoan(ctx context.Context, loanID lending.LoanID) (lending.Loan, error)
	EligibilitySnapshot(ctx context.Context, studentID lending.StudentID) (lending.EligibilitySnapshot, error)
	CommitIssue(ctx context.Context, loanID lending.LoanID, issuedAt time.Time, dueAt time.Time) (lending.Loan, error)
}

// CommandHandler orchestrates the issue workflow: Read -> Decide -> Commit.
// The commit runs under retry because the atomic transition can lose a race
// on the loan row and surface a concurrency conflict.
type CommandHandler struct {
	storage      Storage
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(storage Storage, opts ...Option) CommandHandler {
	handler := CommandHandler{storage: storage}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the issue workflow and returns the issued loan.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.Loan, error) {
	var issued lending.Loan

	_, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		loan, execErr := h.executeCommand(retryCtx, command)
		if execErr != nil {
			return execErr
		}

		issued = loan

		return nil
	}, h.retryOptions...)
	if err != nil {
		return lending.Loan{}, err
	}

	return issued, nil
}

// executeCommand contains the core processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (lending.Loan, error) {
	loan, getErr := h.storage.GetLoan(ctx, command.LoanID)
	if getErr != nil {
		return lending.Loan{}, getErr
	}

	snapshot, snapErr := h.storage.EligibilitySnapshot(ctx, loan.StudentID)
	if snapErr != nil {
		return lending.Loan{}, snapErr
	}

	// Advisory check: fail fast before the transaction. The storage layer
	// re-checks under the student row lock.
	decision, decideErr := Decide(loan, snapshot, command)
	if decideErr != nil {
		return lending.Loan{}, decideErr
	}

	return h.storage.CommitIssue(ctx, command.LoanID, decision.IssuedAt, decision.DueAt)
}
