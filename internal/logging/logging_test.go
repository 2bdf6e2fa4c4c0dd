package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithPathFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cargofocus.log")

	result := NewLoggerWithPath(Config{Level: "debug", Output: "file", File: path})
	require.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)
	assert.False(t, result.FallbackUsed)

	result.Logger.Info().Str("component", "test").Msg("hello")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNewLoggerWithPathFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nested", "cargofocus.log")

	result := NewLoggerWithPath(Config{Level: "info", Output: "file", File: path})
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
	require.NoError(t, result.Close())

	// The fallback logger must still be usable.
	result.Logger.Info().Msg("still alive")
}

func TestNewLoggerDefaultsUnknownLevel(t *testing.T) {
	logger := NewLogger(Config{Level: "chatty"})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(zerolog.New(&buf), "engine")
	logger.Info().Msg("ready")
	assert.Contains(t, buf.String(), `"component":"engine"`)
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	id := GetOrGenerateTraceID(ctx)
	require.Len(t, id, 26)

	ctx = ContextWithTraceID(ctx, id)
	assert.Equal(t, id, TraceIDFromContext(ctx))
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
}

func TestTraceHookStampsEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(traceHook{})

	ctx := ContextWithTraceID(context.Background(), "01TESTTRACEID0000000000000")
	logger.Info().Ctx(ctx).Msg("traced")

	assert.Contains(t, buf.String(), `"trace_id":"01TESTTRACEID0000000000000"`)
}

func TestAuditLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	audit := NewAuditLogger(AuditLoggerConfig{Enabled: true, File: path})

	start := time.Now().Add(-25 * time.Millisecond)
	entry := NewAuditEntry("scenario", "trace-1").
		WithParameters(map[string]string{"from": "air", "to": "sea"}).
		WithSuccess(3, 3162.8368).
		WithDuration(start)
	audit.Log(context.Background(), *entry)
	require.NoError(t, audit.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got AuditEntry
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "scenario", got.Command)
	assert.Equal(t, "trace-1", got.TraceID)
	assert.True(t, got.Success)
	assert.Equal(t, 3, got.RecordCount)
	assert.InDelta(t, 3162.8368, got.TotalKGCO2e, 0.0001)
	assert.GreaterOrEqual(t, got.DurationMS, int64(25))
	assert.Equal(t, "sea", got.Parameters["to"])
}

func TestAuditLoggerDisabled(t *testing.T) {
	audit := NewAuditLogger(AuditLoggerConfig{Enabled: false})
	audit.Log(context.Background(), *NewAuditEntry("analyze", ""))
	assert.NoError(t, audit.Close())
}

func TestAuditLoggerFromContextDefaultsToNoop(t *testing.T) {
	audit := AuditLoggerFromContext(context.Background())
	require.NotNil(t, audit)
	assert.NoError(t, audit.Close())
}

func TestAuditEntryFailure(t *testing.T) {
	entry := NewAuditEntry("analyze", "trace-2").WithError("no such file")
	assert.False(t, entry.Success)
	assert.Equal(t, "no such file", entry.Error)
}
