package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/lending-engine/lending/oteladapters"
)

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("test")
	assert.NotNil(t, logger)
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	// assert
	output := buf.String()
	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func Test_SlogBridgeLogger_WithAttributes(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	// act
	logger.InfoContext(context.Background(), "statement executed",
		"action", "reserve_copy",
		"duration_ms", 1.5,
	)

	// assert
	output := buf.String()
	assert.Contains(t, output, "statement executed")
	assert.Contains(t, output, `"action":"reserve_copy"`)
	assert.Contains(t, output, `"duration_ms":1.5`)
}
