package logging

import (
	"context"
	"log/slog"
)

// SlogLogger adapts *slog.Logger to the Logger interface. It is the only
// implementation the station ships; the interface exists so storage and sync
// code never name slog directly.
type SlogLogger struct {
	base *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{base: l}
}

func (sl *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	sl.base.DebugContext(ctx, msg, args...)
}

func (sl *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	sl.base.InfoContext(ctx, msg, args...)
}

func (sl *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	sl.base.WarnContext(ctx, msg, args...)
}

func (sl *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	sl.base.ErrorContext(ctx, msg, args...)
}

// With returns a child logger carrying the given key-value pairs on every
// record, used to tag a tier's log lines with its name.
func (sl *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{base: sl.base.With(args...)}
}
