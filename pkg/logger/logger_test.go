package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info").Component("fetcher")

	l.Error("fetch failed",
		String("asset", "BTC"),
		Int("status", 500),
		Float64("avg_return", 1.5),
		Duration("took_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "error", got["level"])
	assert.Equal(t, "fetch failed", got["message"])
	assert.Equal(t, "fetcher", got["component"])
	assert.Equal(t, "BTC", got["asset"])
	assert.EqualValues(t, 500, got["status"])
	assert.EqualValues(t, 1500, got["took_ms"])
	assert.Equal(t, "boom", got["error"])
}

func TestWriterLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")

	l.Info("hidden")
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug").With(String("request_id", "abc"))
	l.Debug("hello")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("nothing", Bool("x", true)) })
}
