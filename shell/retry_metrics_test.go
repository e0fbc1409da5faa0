package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/shell"
	"github.com/libreshelf/lending-engine/testutil/testdoubles"
)

func Test_RetryWithExponentialBackoff_RecordsRetryMetrics(t *testing.T) {
	// arrange
	collector := testdoubles.NewMetricsCollectorSpy()
	attempts := 0
	fn := func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return lending.ErrConcurrencyConflict
		}

		return nil
	}

	// act
	_, err := shell.RetryWithExponentialBackoff(
		context.Background(),
		fn,
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
		shell.WithRetryMetrics(collector, "IssueLoan"),
	)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, collector.CounterIncrements(shell.CommandHandlerRetriesMetric))
	assert.Len(t, collector.DurationRecords(), 2)
	assert.Equal(t, 0, collector.CounterIncrements(shell.CommandHandlerMaxRetriesReachedMetric))
}

func Test_RetryWithExponentialBackoff_RecordsExhaustionMetric(t *testing.T) {
	// arrange
	collector := testdoubles.NewMetricsCollectorSpy()
	fn := func(_ context.Context) error {
		return lending.ErrConcurrencyConflict
	}

	// act
	_, err := shell.RetryWithExponentialBackoff(
		context.Background(),
		fn,
		shell.WithMaxAttempts(2),
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
		shell.WithRetryMetrics(collector, "IssueLoan"),
	)

	// assert
	assert.ErrorIs(t, err, lending.ErrConcurrencyConflict)
	assert.Equal(t, 1, collector.CounterIncrements(shell.CommandHandlerMaxRetriesReachedMetric))
}
