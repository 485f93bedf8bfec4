// Package observability carries build correlation fields through a context so
// every log line of one build can be tied together.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID  string
	Stage    string
	Category string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithCategory adds a content category to the context.
func WithCategory(ctx context.Context, category string) context.Context {
	lc := extractLogContext(ctx)
	lc.Category = category
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

// Attrs returns the non-empty context fields as slog attributes.
func Attrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := make([]slog.Attr, 0, 3)
	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Category != "" {
		attrs = append(attrs, logfields.Category(lc.Category))
	}
	return attrs
}

// Logger returns base annotated with the context fields. A nil base means
// slog.Default().
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	attrs := Attrs(ctx)
	if len(attrs) == 0 {
		return base
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return base.With(args...)
}

// InfoContext logs an info message on base with context information.
func InfoContext(ctx context.Context, base *slog.Logger, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, base, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message on base with context information.
func WarnContext(ctx context.Context, base *slog.Logger, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, base, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message on base with context information.
func ErrorContext(ctx context.Context, base *slog.Logger, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, base, slog.LevelError, msg, attrs)
}

func logAttrs(ctx context.Context, base *slog.Logger, level slog.Level, msg string, attrs []slog.Attr) {
	if base == nil {
		base = slog.Default()
	}
	all := append(Attrs(ctx), attrs...)
	base.LogAttrs(ctx, level, msg, all...)
}
