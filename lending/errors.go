package lending

import "errors"

// State conflicts: the requested transition is no longer legal.
var (
	ErrInvalidState     = errors.New("loan is not in a state that allows this transition")
	ErrDuplicateRequest = errors.New("an open loan already exists for this student and book")
	ErrDuplicateFine    = errors.New("an active fine already exists for this loan")
	ErrAlreadySettled   = errors.New("fine is already paid or waived")
)

// Resource exhaustion and policy denials: expected business conditions,
// surfaced as ordinary denials, never retried by the engine.
var (
	ErrBookUnavailable    = errors.New("no copy of this book is available")
	ErrBorrowLimitReached = errors.New("student has reached the borrow limit")
	ErrAccountInactive    = errors.New("student account is not active")
	ErrUnpaidFinesPresent = errors.New("student has unpaid fines")
)

// Validation and lookup failures.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidAmount = errors.New("fine amount must be greater than zero")
	ErrInvalidInput  = errors.New("missing or malformed input")
)

// Infrastructure failures, distinguished from business denials so that a
// storage outage is never mistaken for "book unavailable".
var (
	ErrStorageUnavailable  = errors.New("storage operation failed")
	ErrCopyCountCorrupted  = errors.New("available copies would exceed total copies")
	ErrConcurrencyConflict = errors.New("concurrent modification detected, no rows were affected")
)

// ErrorKind classifies an error for callers that need coarse handling,
// such as the HTTP layer mapping errors to status codes.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindStateConflict
	KindDenial
	KindNotFound
	KindInfrastructure
)

// KindOf returns the ErrorKind for any error produced by the engine.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidAmount):
		return KindValidation
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrDuplicateRequest),
		errors.Is(err, ErrDuplicateFine),
		errors.Is(err, ErrAlreadySettled):
		return KindStateConflict
	case errors.Is(err, ErrBookUnavailable),
		errors.Is(err, ErrBorrowLimitReached),
		errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrUnpaidFinesPresent):
		return KindDenial
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStorageUnavailable),
		errors.Is(err, ErrCopyCountCorrupted),
		errors.Is(err, ErrConcurrencyConflict):
		return KindInfrastructure
	default:
		return KindUnknown
	}
}
