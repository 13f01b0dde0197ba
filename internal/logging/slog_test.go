package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", "text", &buf)
	require.NoError(t, err)

	ctx := context.Background()
	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn", "backend", "file")
	log.Error(ctx, "err", "code", 1)

	out := buf.String()
	assert.NotContains(t, out, "msg=dbg")
	assert.NotContains(t, out, "msg=inf")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "backend=file")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "code=1")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", "json", &buf)
	require.NoError(t, err)

	log.With("session", "abc").Info(context.Background(), "hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "abc", rec["session"])
	assert.Equal(t, "v", rec["k"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New("loud", "text", &bytes.Buffer{})
	require.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	log.With("controller", "admin", "user", "alice").Debug(context.Background(), "intent", "kind", "add-user")

	out := buf.String()
	for _, s := range []string{"level=DEBUG", "msg=intent", "controller=admin", "user=alice", "kind=add-user"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error(context.Background(), "nothing to see")
	log.With("a", 1).Info(context.TODO(), "still nothing")
}

func TestSlogLogger_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	args := []any{"user", "alice", "password", "hunter2"}
	log.With("hash", "$argon2id$...").Info(context.Background(), "login", args...)
	log.Warn(context.Background(), "attr", slog.String("Password", "aaa"), "trailing")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "argon2id")
	assert.NotContains(t, out, "=aaa")
	assert.Contains(t, out, "user=alice")
	assert.Contains(t, out, "password=[redacted]")
	assert.Contains(t, out, "Password=[redacted]")
	assert.Equal(t, "hunter2", args[3], "caller's slice is left alone")
}

func TestSlogLogger_SkipsDisabledLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})))

	log.Debug(context.Background(), "d")
	log.Info(context.Background(), "i")
	log.Warn(context.Background(), "w")
	assert.Empty(t, buf.String())
}
