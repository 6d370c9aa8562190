package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func traceID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "orderms", traceID)

	ctx := context.WithValue(context.Background(), ctxKey{}, "abc123")
	log.Debug(ctx, "dropped")
	log.Info(ctx, "order placed", "order_id", "o-1", "quantity", 3)
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "order placed", rec["msg"])
	assert.Equal(t, "orderms", rec["service"])
	assert.Equal(t, "o-1", rec["order_id"])
	assert.Equal(t, float64(3), rec["quantity"])
	assert.Equal(t, "abc123", rec["trace_id"])
}

func TestLoggerOmitsEmptyTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelDebug, "orderms", traceID)

	log.Warn(context.Background(), "slow")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.NotContains(t, rec, "trace_id")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, "error": LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
