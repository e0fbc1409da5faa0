package postgresengine

import (
	"context"
	"math"
	"time"
)

const (
	metricStatementDuration = "lendingstore_statement_duration_seconds"
	metricStoreErrors       = "lendingstore_errors_total"

	labelOperation = "operation"
)

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s *LendingStore) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	} else if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if s.metricsCollector != nil {
		s.metricsCollector.RecordDuration(metricStatementDuration, duration, map[string]string{labelOperation: action})
	}
}

// logOperation logs operational information at info level.
func (s *LendingStore) logOperation(ctx context.Context, action string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	} else if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level.
func (s *LendingStore) logWarn(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, msg, args...)
	} else if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// logError logs error information at error level.
func (s *LendingStore) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	} else if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}
}

// recordErrorMetric counts a failed statement if a collector is configured.
func (s *LendingStore) recordErrorMetric(action string) {
	if s.metricsCollector != nil {
		s.metricsCollector.IncrementCounter(metricStoreErrors, map[string]string{labelOperation: action})
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
