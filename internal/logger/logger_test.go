package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(redact bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), redact: redact, salt: "s"}, logs
}

func TestSanitize_RedactsAndHashes(t *testing.T) {
	l, logs := observed(true)
	l.Info("provider ready", "anthropic_api_key", "sk-live-123", "user_id", "alice", "topic", "stacks")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["anthropic_api_key"])
	assert.True(t, strings.HasPrefix(fields["user_id"].(string), "hash:"))
	assert.NotContains(t, fields["user_id"], "alice")
	assert.Equal(t, "stacks", fields["topic"])
}

func TestSanitize_HashIsStable(t *testing.T) {
	a := hashValue("salt", "bob")
	b := hashValue("salt", "bob")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, hashValue("other", "bob"))
	assert.Empty(t, hashValue("salt", ""))
}

func TestSanitize_Disabled(t *testing.T) {
	l, logs := observed(false)
	l.With("user_id", "alice").Warn("plain")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "alice", logs.All()[0].ContextMap()["user_id"])
}

func TestSanitize_OddKeyValues(t *testing.T) {
	l, _ := observed(true)
	out := l.sanitize([]any{"secret", "x", "dangling"})
	assert.Equal(t, []any{"secret", "[REDACTED]", "dangling"}, out)
}

func TestNew_WritesRotatedFile(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = "prod"
	opts.File = filepath.Join(t.TempDir(), "mindpath.log")

	l, err := New(opts)
	require.NoError(t, err)
	l.Info("hello", "component", "test")
	l.Sync()

	data, err := os.ReadFile(opts.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
