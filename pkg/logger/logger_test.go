package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevandaan/website/pkg/logger"
)

type ctxKey struct{}

func TestNewDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Info("hello", slog.String("k", "v"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "v", record["k"])
}

func TestWithAttr(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "website")),
	)

	log.Info("tagged")

	assert.Contains(t, buf.String(), `"service":"website"`)
}

func TestWithContextValue(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextValue("ip", ctxKey{}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "203.0.113.9")
	log.InfoContext(ctx, "request")

	assert.Contains(t, buf.String(), `"ip":"203.0.113.9"`)

	buf.Reset()
	log.InfoContext(context.Background(), "no ip")
	assert.NotContains(t, buf.String(), `"ip"`)
}

func TestWithLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithFormatPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat("yaml"))
	})
}

func TestWithDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithDevelopment("website"), logger.WithOutput(&buf))

	log.Debug("visible in dev")
	out := buf.String()
	assert.Contains(t, out, "visible in dev")
	assert.Contains(t, out, "service=website")
}
