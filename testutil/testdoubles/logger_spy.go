package testdoubles

import (
	"context"
	"sync"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// LoggerSpy captures logging calls for verification in tests. It satisfies
// both the Logger and ContextualLogger interfaces of the engine.
type LoggerSpy struct {
	mu      sync.Mutex
	records []SpyLogRecord
}

// NewLoggerSpy creates a new LoggerSpy instance.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.record("info", msg, args) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.record("warn", msg, args) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

func (s *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

func (s *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

func (s *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

func (s *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

// Records returns a copy of all recorded log calls in order.
func (s *LoggerSpy) Records() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]SpyLogRecord, len(s.records))
	copy(copied, s.records)

	return copied
}

// MessagesWithLevel returns the messages recorded at the given level.
func (s *LoggerSpy) MessagesWithLevel(level string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []string
	for _, record := range s.records {
		if record.Level == level {
			messages = append(messages, record.Message)
		}
	}

	return messages
}

func (s *LoggerSpy) record(level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: args})
}
