package shell

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/libreshelf/lending-engine/lending"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrNilMetricsCollector is returned when a nil metrics collector is provided to WithMetrics.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrEmptyCommandType is returned when an empty command type is provided to WithMetrics.
	ErrEmptyCommandType = errors.New("command type must not be empty")

	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics captures execution metadata from a retry run so handlers can
// report it without coupling to a metrics implementation.
type RetryMetrics struct {
	// Attempts is the total number of attempts made (1 for no retries).
	Attempts int

	// TotalDelay is the cumulative time spent in backoff delays, excluding
	// execution time.
	TotalDelay time.Duration

	// LastErrorType describes the final error encountered. Values: "none",
	// "concurrency_conflict", "context_canceled", "context_deadline_exceeded",
	// "other".
	LastErrorType string

	// RetriesExhausted is true when all attempts were used up on retryable
	// errors.
	RetriesExhausted bool
}

// retryConfig holds configuration for exponential backoff retry logic.
type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector MetricsCollector
	commandType      string
}

// RetryWithExponentialBackoff implements optimistic concurrency retry logic.
// It executes the provided function with exponential backoff, retrying only
// on retryable errors up to maxAttempts times.
//
// Retry Schedule (default): 0 ms, 10 ms, 20 ms, 40 ms, 80 ms (with 30% jitter)
// Total Duration: ~ 200 ms worst case
//
// Only lending.ErrConcurrencyConflict is retried - all other errors fail fast.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetrics, error) {

	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	metrics := RetryMetrics{LastErrorType: "none"}

	for _, option := range options {
		if err := option(config); err != nil {
			return metrics, err
		}
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: baseDelay * 2^(attempt-1)
			delay := config.baseDelay * time.Duration(1<<(attempt-1))

			// Add jitter to prevent thundering herd
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec //math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			recordRetryDelayMetric(config, attempt, backoffDelay)

			select {
			case <-time.After(backoffDelay):
				metrics.TotalDelay += backoffDelay
			case <-ctx.Done():
				metrics.Attempts = attempt
				metrics.LastErrorType = errorType(ctx.Err())

				return metrics, ctx.Err()
			}
		}

		metrics.Attempts = attempt + 1

		lastErr = fn(ctx)
		if lastErr == nil {
			metrics.LastErrorType = "none"

			return metrics, nil
		}

		metrics.LastErrorType = errorType(lastErr)

		if !isRetryableError(lastErr) {
			return metrics, lastErr
		}

		recordRetryAttemptMetric(attempt, config, lastErr)
	}

	metrics.RetriesExhausted = true
	recordMaxRetriesReachedMetric(config, lastErr)

	return metrics, lastErr
}

// recordRetryDelayMetric records the actual backoff delay before each retry attempt.
func recordRetryDelayMetric(config *retryConfig, attempt int, backoffDelay time.Duration) {
	if config.metricsCollector != nil {
		delayLabels := map[string]string{
			LogAttrCommandType: config.commandType,
			"attempt_number":   fmt.Sprintf("%d", attempt),
		}

		config.metricsCollector.RecordDuration(CommandHandlerRetryDelayMetric, backoffDelay, delayLabels)
	}
}

// recordRetryAttemptMetric tracks retry attempts by command type, attempt number, and error type.
func recordRetryAttemptMetric(attempt int, config *retryConfig, lastErr error) {
	if attempt < config.maxAttempts-1 && config.metricsCollector != nil {
		retryLabels := BuildRetryLabels(config.commandType, attempt+1, errorType(lastErr))

		config.metricsCollector.IncrementCounter(CommandHandlerRetriesMetric, retryLabels)
	}
}

// recordMaxRetriesReachedMetric tracks when retry exhaustion occurs with the final error type.
func recordMaxRetriesReachedMetric(config *retryConfig, lastErr error) {
	if config.metricsCollector != nil {
		maxRetriesLabels := map[string]string{
			LogAttrCommandType: config.commandType,
			"final_error_type": errorType(lastErr),
		}

		config.metricsCollector.IncrementCounter(CommandHandlerMaxRetriesReachedMetric, maxRetriesLabels)
	}
}

// isRetryableError determines if an error should be retried.
// Only concurrency conflicts are retryable. A context.DeadlineExceeded is NOT
// retryable - retrying timeouts during overload creates cascade failures, so
// timeout errors fail fast.
func isRetryableError(err error) bool {
	return errors.Is(err, lending.ErrConcurrencyConflict)
}

// errorType extracts a string representation of the error type for metrics labeling.
func errorType(err error) string {
	if err == nil {
		return "none"
	}
	if errors.Is(err, lending.ErrConcurrencyConflict) {
		return "concurrency_conflict"
	}
	if errors.Is(err, context.Canceled) {
		return "context_canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "context_deadline_exceeded"
	}

	return "other"
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of retry attempts.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter factor to prevent thundering herd problems.
// Jitter is added as a percentage of the calculated backoff delay.
// Valid range: 0.0 (no jitter) to 1.0 (100% jitter).
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithRetryMetrics sets the metrics collector for retry instrumentation.
// Requires commandType to properly label metrics.
func WithRetryMetrics(collector MetricsCollector, commandType string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if commandType == "" {
			return ErrEmptyCommandType
		}

		config.metricsCollector = collector
		config.commandType = commandType

		return nil
	}
}
