package returnloan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/shell"
)

// Storage defines the interface needed by the CommandHandler for lending
// store operations.
type Storage interface {
	GetLoan(ctx context.Context, loanID lending.LoanID) (lending.Loan, error)
	CommitReturn(ctx context.Context, loanID lending.LoanID, returnedAt time.Time, fine *lending.Fine) (lending.Loan, bool, error)
}

// Result is the outcome of a return: the closed loan and the fine that was
// recorded with it, if any.
type Result struct {
	Loan lending.Loan
	Fine *lending.Fine
}

// CommandHandler orchestrates the return workflow: Read -> Decide -> Commit.
type CommandHandler struct {
	storage      Storage
	finePolicy   lending.FinePolicy
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithFinePolicy overrides the default fine accrual policy.
func WithFinePolicy(policy lending.FinePolicy) Option {
	return func(h *CommandHandler) {
		h.finePolicy = policy
	}
}

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(storage Storage, opts ...Option) CommandHandler {
	handler := CommandHandler{
		storage:    storage,
		finePolicy: lending.DefaultFinePolicy(),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the return workflow and returns the closed loan plus the
// recorded fine, if one was due.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var result Result

	_, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		execResult, execErr := h.executeCommand(retryCtx, command)
		if execErr != nil {
			return execErr
		}

		result = execResult

		return nil
	}, h.retryOptions...)
	if err != nil {
		return Result{}, err
	}

	return result, nil
}

// executeCommand contains the core processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Result, error) {
	loan, getErr := h.storage.GetLoan(ctx, command.LoanID)
	if getErr != nil {
		return Result{}, getErr
	}

	fine, decideErr := Decide(uuid.New(), loan, h.finePolicy, command)
	if decideErr != nil {
		return Result{}, decideErr
	}

	returned, fineCreated, commitErr := h.storage.CommitReturn(ctx, command.LoanID, command.ReturnedAt, fine)
	if commitErr != nil {
		return Result{}, commitErr
	}

	result := Result{Loan: returned}
	if fineCreated {
		result.Fine = fine
	}

	return result, nil
}
