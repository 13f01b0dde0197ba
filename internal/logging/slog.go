package logging

import (
	"context"
	"log/slog"
	"strings"
)

const redacted = "[redacted]"

// secretKeys never reach a handler with their value.
var secretKeys = map[string]bool{
	"password":     true,
	"new_password": true,
	"hash":         true,
}

// SlogLogger adapts *slog.Logger to Logger. Values logged under a secret key
// such as "password" are replaced before they reach the handler.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelDebug, msg, args)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelInfo, msg, args)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelWarn, msg, args)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelError, msg, args)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(redact(args)...)}
}

func (s *SlogLogger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, msg, redact(args)...)
}

// redact returns args with secret values masked. Only string keys in
// key-value position are inspected; slog.Attr values are checked by key.
func redact(args []any) []any {
	var out []any
	for i := 0; i < len(args); i++ {
		switch k := args[i].(type) {
		case slog.Attr:
			if secretKeys[strings.ToLower(k.Key)] {
				out = ensureCopy(out, args)
				out[i] = slog.String(k.Key, redacted)
			}
		case string:
			if i+1 < len(args) && secretKeys[strings.ToLower(k)] {
				out = ensureCopy(out, args)
				out[i+1] = redacted
			}
			i++
		}
	}
	if out == nil {
		return args
	}
	return out
}

func ensureCopy(out, args []any) []any {
	if out != nil {
		return out
	}
	return append([]any(nil), args...)
}
