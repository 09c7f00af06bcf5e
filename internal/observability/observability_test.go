package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("prediction served", "severity", "Fatal")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "prediction served", entry["msg"])
	assert.Equal(t, "Fatal", entry["severity"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("scoring", "speed", 80)
	assert.Contains(t, buf.String(), "msg=scoring")
	assert.Contains(t, buf.String(), "speed=80")
}

func TestMetrics_ObservePrediction(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObservePrediction("http", "Fatal", 0.86)
	m.ObservePrediction("http", "Fatal", 0.9)
	m.ObservePrediction("stream", "Minor Injury", 0.75)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Predictions.WithLabelValues("http", "Fatal")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Predictions.WithLabelValues("stream", "Minor Injury")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.PredictionConfidence))
}
