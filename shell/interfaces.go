package shell

import (
	"context"

	"github.com/libreshelf/lending-engine/lending/postgresengine"
)

// Interface aliases for convenience when instrumenting handlers.
// These match the lending store observability interfaces for consistency.

// Logger interface for basic logging in handlers.
type Logger = postgresengine.Logger

// ContextualLogger interface for context-aware logging in handlers.
type ContextualLogger = postgresengine.ContextualLogger

// MetricsCollector interface for collecting handler performance metrics.
type MetricsCollector = postgresengine.MetricsCollector

// Command represents the contract for all command types. Each command
// encapsulates the intent and parameters of one state-changing operation.
// The CommandType method enables polymorphic handling and observability
// instrumentation.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CommandHandler defines the contract for components that process commands
// and return the state they produced. The generic parameters keep commands
// and their results type-safe.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// QueryHandler defines the contract for components that process queries and
// return results. The generic parameters keep queries and their results
// type-safe.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
