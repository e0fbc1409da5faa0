package listfines

import (
	"context"
	"errors"

	"github.com/libreshelf/lending-engine/lending"
)

// Storage defines the interface needed by the QueryHandler for lending store
// operations.
type Storage interface {
	ListFines(ctx context.Context, filter lending.FineFilter) ([]lending.Fine, error)
}

// QueryHandler serves the fine listing.
type QueryHandler struct {
	storage Storage
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(storage Storage) QueryHandler {
	return QueryHandler{storage: storage}
}

// Handle validates the status filter and returns the matching fines.
func (h QueryHandler) Handle(ctx context.Context, query Query) ([]lending.Fine, error) {
	switch query.Status {
	case "", lending.FineStatusUnpaid, lending.FineStatusPaid, lending.FineStatusWaived:
		// valid
	default:
		return nil, errors.Join(lending.ErrInvalidInput, errors.New("unknown fine status: "+string(query.Status)))
	}

	return h.storage.ListFines(ctx, query.filter())
}
