package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.Info("catalog loaded")

	entry := logLine(t, &buf)
	assert.Equal(t, "catalog loaded", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WarnLevel, &buf)

	logger.Debug("not shown")
	logger.Info("not shown either")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"member_id":  "mem-001",
		"chapter_id": "ca-la",
	}).Info("role assigned")

	entry := logLine(t, &buf)
	assert.Equal(t, "mem-001", entry["member_id"])
	assert.Equal(t, "ca-la", entry["chapter_id"])
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(ErrorLevel, &buf)

	logger.WithError(errors.New("sink unavailable")).Error("audit write failed")

	entry := logLine(t, &buf)
	assert.Equal(t, "sink unavailable", entry["error"])

	// nil error is a no-op
	assert.Same(t, logger, logger.WithError(nil))
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithActorID(ctx, "mem-001")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "mem-001", GetActorID(ctx))

	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetActorID(context.Background()))
}

func TestFromContextCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithActorID(ctx, "mem-001")

	FromContext(ctx).Info("authorization decision")

	entry := logLine(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "mem-001", entry["actor_id"])
}
