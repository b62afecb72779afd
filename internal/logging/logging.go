// Package logging defines the minimal structured-logging interface the
// core uses. Implementations can wrap slog, zap, zerolog, etc.
package logging

import (
	"context"
	"log/slog"
)

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key-value pairs:
//
//	log.Warn(ctx, "cache entry dropped", "key", key, "reason", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

// Default returns a logger backed by slog.Default.
func Default() Logger {
	return &SlogLogger{l: slog.Default()}
}

// Nop discards everything. Useful as a zero-config fallback.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}

func (Nop) Info(context.Context, string, ...any) {}

func (Nop) Warn(context.Context, string, ...any) {}

func (Nop) Error(context.Context, string, ...any) {}
