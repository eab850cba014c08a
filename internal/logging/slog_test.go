package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlog(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlog(slog.New(handler))

	require.NotNil(t, logger)
	require.NotNil(t, logger.logger)
}

func TestNewSlogDefault(t *testing.T) {
	logger := NewSlogDefault()

	require.NotNil(t, logger)
	require.NotNil(t, logger.logger)
}

func TestSlogLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		log       func(logger *SlogLogger)
		wantMsg   string
		wantField string
		wantLevel string
	}{
		{
			name:      "debug",
			log:       func(l *SlogLogger) { l.Debug("debug message", "key", "value") },
			wantMsg:   "debug message",
			wantField: "key=value",
			wantLevel: "level=DEBUG",
		},
		{
			name:      "info",
			log:       func(l *SlogLogger) { l.Info("info message", "identity", "client-1") },
			wantMsg:   "info message",
			wantField: "identity=client-1",
			wantLevel: "level=INFO",
		},
		{
			name:      "warn",
			log:       func(l *SlogLogger) { l.Warn("warning message", "liveness", "Dead") },
			wantMsg:   "warning message",
			wantField: "liveness=Dead",
			wantLevel: "level=WARN",
		},
		{
			name:      "error",
			log:       func(l *SlogLogger) { l.Error("error message", "error", "timeout") },
			wantMsg:   "error message",
			wantField: "error=timeout",
			wantLevel: "level=ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			logger := NewSlog(slog.New(handler))

			tt.log(logger)

			output := buf.String()
			assert.Contains(t, output, tt.wantMsg)
			assert.Contains(t, output, tt.wantField)
			assert.Contains(t, output, tt.wantLevel)
		})
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := NewSlog(slog.New(handler))

	// Debug and Info should be filtered out
	logger.Debug("debug message")
	logger.Info("info message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")

	// Warn and Error should appear
	logger.Warn("warn message")
	logger.Error("error message")

	output = buf.String()
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestSlogLogger_MultipleKeyValues(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := NewSlog(slog.New(handler))

	logger.Info("client liveness changed",
		"identity", "trainer-7",
		"transition", "AliveToDead",
		"role", 1,
		"stale_for", "5m12s")

	output := buf.String()
	assert.Contains(t, output, "client liveness changed")
	assert.Contains(t, output, "identity=trainer-7")
	assert.Contains(t, output, "transition=AliveToDead")
	assert.Contains(t, output, "role=1")
	assert.Contains(t, output, "stale_for=5m12s")
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	// All methods are safe to call and discard their input.
	logger.Debug("debug", "k", "v")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error", "error", "boom")
	logger.Fatal("fatal does not exit")
}
