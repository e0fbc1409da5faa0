package shell

import "fmt"

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerRetriesMetric tracks retry attempts in command handlers.
	CommandHandlerRetriesMetric = "commandhandler_retries_total"

	// CommandHandlerRetryDelayMetric tracks retry backoff delays.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"

	// CommandHandlerMaxRetriesReachedMetric tracks retry exhaustion.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	// StatusSuccess indicates successful completion.
	StatusSuccess = "success"

	// StatusError indicates a processing error.
	StatusError = "error"

	// StatusDenied indicates a command rejected by the eligibility policy.
	StatusDenied = "denied"

	// StatusConflict indicates the operation failed on concurrent state change.
	StatusConflict = "conflict"

	// LogMsgCommandStarted is logged when command processing begins.
	LogMsgCommandStarted = "command handler started"

	// LogMsgCommandCompleted is logged when command processing succeeds.
	LogMsgCommandCompleted = "command handler completed"

	// LogMsgCommandFailed is logged when command processing fails.
	LogMsgCommandFailed = "command handler failed"

	// LogMsgQueryCompleted is logged when query processing succeeds.
	LogMsgQueryCompleted = "query handler completed"

	// LogMsgQueryFailed is logged when query processing fails.
	LogMsgQueryFailed = "query handler failed"

	// LogAttrCommandType identifies the command type in logs.
	LogAttrCommandType = "command_type"

	// LogAttrQueryType identifies the query type in logs.
	LogAttrQueryType = "query_type"

	// LogAttrStatus indicates the processing status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrError contains error details.
	LogAttrError = "error"
)

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		"attempt_number":   fmt.Sprintf("%d", attemptNumber),
		"error_type":       errorType,
	}
}
