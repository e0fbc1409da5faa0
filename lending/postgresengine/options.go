package postgresengine

import (
	"context"
	"time"
)

// Logger interface for SQL query logging, operational messages, warnings,
// and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace
// correlation. Implementations can integrate with any logging backend that
// supports context-based correlation (the oteladapters package provides one
// built on the OpenTelemetry slog bridge).
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting store performance and
// operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Option defines a functional option for configuring LendingStore.
type Option func(*LendingStore) error

// WithLogger sets the logger for the LendingStore.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: operation outcomes and row counts (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: failures that cause operation errors.
func WithLogger(logger Logger) Option {
	return func(s *LendingStore) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the LendingStore.
// When both loggers are configured the contextual one wins, so that log
// records carry trace correlation from the request context.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *LendingStore) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the LendingStore. The collector
// receives statement durations and error counters labeled by operation.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *LendingStore) error {
		s.metricsCollector = collector
		return nil
	}
}
