package runoverduesweep

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/shell"
)

const (
	logMsgSweepCompleted = "overdue sweep completed"
	logMsgSweepLoanError = "overdue sweep: fine insert failed"

	logAttrLoanID  = "loan_id"
	logAttrScanned = "scanned"
	logAttrCreated = "created"
	logAttrSkipped = "skipped"
	logAttrFailed  = "failed"
)

// Storage defines the interface needed by the CommandHandler for lending
// store operations.
type Storage interface {
	ListOverdueLoans(ctx context.Context, asOf time.Time) ([]lending.Loan, error)
	InsertFine(ctx context.Context, fine lending.Fine) error
}

// Result summarizes one sweep run.
type Result struct {
	// Scanned is the number of overdue loans examined.
	Scanned int

	// Created is the number of fines recorded by this run.
	Created int

	// Skipped counts loans that already carried an active fine or have not
	// accrued a chargeable amount yet.
	Skipped int

	// Failed counts loans whose fine insert failed on an infrastructure
	// error. They will be picked up again by the next run.
	Failed int
}

// CommandHandler orchestrates the sweep: list overdue loans, assess each
// one, record the fines that are due.
type CommandHandler struct {
	storage          Storage
	finePolicy       lending.FinePolicy
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithFinePolicy overrides the default fine accrual policy.
func WithFinePolicy(policy lending.FinePolicy) Option {
	return func(h *CommandHandler) {
		h.finePolicy = policy
	}
}

// WithLogger sets the logger for sweep reporting.
func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// WithContextualLogger sets the contextual logger for sweep reporting.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) {
		h.contextualLogger = logger
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

// Handle executes one sweep run and returns its summary. Only the initial
// listing can fail the run as a whole; per-loan failures are counted and
// left for the next run.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	overdue, listErr := h.storage.ListOverdueLoans(ctx, command.AsOf)
	if listErr != nil {
		return Result{}, listErr
	}

	result := Result{Scanned: len(overdue)}

	for _, loan := range overdue {
		fine := Decide(uuid.New(), loan, h.finePolicy, command)
		if fine == nil {
			result.Skipped++
			continue
		}

		insertErr := h.storage.InsertFine(ctx, *fine)

		switch {
		case insertErr == nil:
			result.Created++

		case errors.Is(insertErr, lending.ErrDuplicateFine):
			result.Skipped++

		default:
			result.Failed++
			h.logLoanError(ctx, loan.ID, insertErr)
		}
	}

	h.logCompleted(ctx, result)

	return result, nil
}

func (h CommandHandler) logLoanError(ctx context.Context, loanID lending.LoanID, err error) {
	if h.contextualLogger != nil {
		h.contextualLogger.ErrorContext(ctx, logMsgSweepLoanError, logAttrLoanID, loanID.String(), shell.LogAttrError, err.Error())
	} else if h.logger != nil {
		h.logger.Error(logMsgSweepLoanError, logAttrLoanID, loanID.String(), shell.LogAttrError, err.Error())
	}
}

func (h CommandHandler) logCompleted(ctx context.Context, result Result) {
	args := []any{
		logAttrScanned, result.Scanned,
		logAttrCreated, result.Created,
		logAttrSkipped, result.Skipped,
		logAttrFailed, result.Failed,
	}

	if h.contextualLogger != nil {
		h.contextualLogger.InfoContext(ctx, logMsgSweepCompleted, args...)
	} else if h.logger != nil {
		h.logger.Info(logMsgSweepCompleted, args...)
	}
}
