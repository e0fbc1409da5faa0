package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/libreshelf/lending-engine/lending/oteladapters"
)

func newCollectorWithReader() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func Test_MetricsCollector_RecordDuration_RecordsHistogramInSeconds(t *testing.T) {
	// arrange
	collector, reader := newCollectorWithReader()
	labels := map[string]string{"action": "reserve_copy", "status": "success"}

	// act
	collector.RecordDuration("lendingstore_statement_duration_seconds", 150*time.Millisecond, labels)

	// assert
	resourceMetrics := collect(t, reader)
	histogram := findHistogram(t, resourceMetrics, "lendingstore_statement_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.15, dataPoint.Sum, 0.001)

	expectedAttrs := attribute.NewSet(
		attribute.String("action", "reserve_copy"),
		attribute.String("status", "success"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter_Aggregates(t *testing.T) {
	// arrange
	collector, reader := newCollectorWithReader()
	labels := map[string]string{"action": "insert_fine"}

	// act
	collector.IncrementCounter("lendingstore_errors_total", labels)
	collector.IncrementCounter("lendingstore_errors_total", labels)
	collector.IncrementCounter("lendingstore_errors_total", labels)

	// assert
	resourceMetrics := collect(t, reader)
	counter := findCounter(t, resourceMetrics, "lendingstore_errors_total")
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(3), counter.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue_LastValueWins(t *testing.T) {
	// arrange
	collector, reader := newCollectorWithReader()

	// act
	collector.RecordValue("lendingstore_open_loans", 10.0, nil)
	collector.RecordValue("lendingstore_open_loans", 20.0, nil)

	// assert
	resourceMetrics := collect(t, reader)
	gauge := findGauge(t, resourceMetrics, "lendingstore_open_loans")
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 20.0, gauge.DataPoints[0].Value)
}

func Test_MetricsCollector_NilLabels_DoesNotPanic(t *testing.T) {
	// arrange
	collector, reader := newCollectorWithReader()

	// act
	collector.RecordDuration("lendingstore_statement_duration_seconds", 50*time.Millisecond, nil)

	// assert
	resourceMetrics := collect(t, reader)
	histogram := findHistogram(t, resourceMetrics, "lendingstore_statement_duration_seconds")
	assert.Len(t, histogram.DataPoints, 1)
}

func findHistogram(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) *metricdata.Histogram[float64] {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				if h, ok := m.Data.(metricdata.Histogram[float64]); ok {
					return &h
				}
			}
		}
	}

	t.Fatalf("histogram metric %s not found", name)

	return nil
}

func findCounter(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) *metricdata.Sum[int64] {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				if c, ok := m.Data.(metricdata.Sum[int64]); ok {
					return &c
				}
			}
		}
	}

	t.Fatalf("counter metric %s not found", name)

	return nil
}

func findGauge(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) *metricdata.Gauge[float64] {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				if g, ok := m.Data.(metricdata.Gauge[float64]); ok {
					return &g
				}
			}
		}
	}

	t.Fatalf("gauge metric %s not found", name)

	return nil
}
