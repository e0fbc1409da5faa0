package testdoubles

import (
	"sync"
	"time"
)

// SpyDurationRecord represents a recorded duration metric call.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// SpyCounterRecord represents a recorded counter increment.
type SpyCounterRecord struct {
	Metric string
	Labels map[string]string
}

// SpyValueRecord represents a recorded gauge value.
type SpyValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// MetricsCollectorSpy captures metrics calls for verification in tests.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []SpyDurationRecord
	counters  []SpyCounterRecord
	values    []SpyValueRecord
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy instance.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, SpyDurationRecord{Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, SpyCounterRecord{Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, SpyValueRecord{Metric: metric, Value: value, Labels: labels})
}

// DurationRecords returns a copy of all recorded duration calls.
func (s *MetricsCollectorSpy) DurationRecords() []SpyDurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]SpyDurationRecord, len(s.durations))
	copy(copied, s.durations)

	return copied
}

// CounterRecords returns a copy of all recorded counter increments.
func (s *MetricsCollectorSpy) CounterRecords() []SpyCounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]SpyCounterRecord, len(s.counters))
	copy(copied, s.counters)

	return copied
}

// CounterIncrements returns how often the given metric was incremented.
func (s *MetricsCollectorSpy) CounterIncrements(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counters {
		if record.Metric == metric {
			count++
		}
	}

	return count
}
