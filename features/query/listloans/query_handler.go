package listloans

import (
	"context"
	"errors"

	"github.com/libreshelf/lending-engine/lending"
)

// Storage defines the interface needed by the QueryHandler for lending store
// operations.
type Storage interface {
	ListLoans(ctx context.Context, filter lending.LoanFilter) (lending.LoanPage, error)
}

// QueryHandler serves the loan listing.
type QueryHandler struct {
	storage Storage
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(storage Storage) QueryHandler {
	return QueryHandler{storage: storage}
}

// Handle validates the status filter and returns the matching page of loans.
func (h QueryHandler) Handle(ctx context.Context, query Query) (lending.LoanPage, error) {
	if query.Status != "" && !lending.ValidStatus(query.Status) {
		return lending.LoanPage{}, errors.Join(lending.ErrInvalidInput, errors.New("unknown loan status: "+string(query.Status)))
	}

	return h.storage.ListLoans(ctx, query.filter())
}
