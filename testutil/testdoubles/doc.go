// Package testdoubles provides spy implementations of the observability
// interfaces so tests can verify logging and metrics instrumentation without
// a telemetry backend.
package testdoubles
