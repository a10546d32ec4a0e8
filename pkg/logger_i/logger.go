package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/akolanti/ragchat/internal/config"
)

// Logger resolves the process-wide handler on use, so loggers created before
// Init still follow the configured level and format.
type Logger struct {
	args  []any
	bound atomic.Pointer[boundLogger]
}

type boundLogger struct {
	base  *slog.Logger
	inner *slog.Logger
}

// Init installs the process-wide handler: text for development, JSON for production.
func Init(settings config.Settings) {
	initWith(settings, os.Stdout)
}

func initWith(settings config.Settings, w io.Writer) {
	options := &slog.HandlerOptions{
		Level: parseLevel(settings.LogLevel),
	}

	var handler slog.Handler
	if settings.Production {
		if options.Level.Level() < config.LOG_LEVEL_PROD {
			options.Level = config.LOG_LEVEL_PROD
		}
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func NewLogger(section string) *Logger {
	return &Logger{args: []any{"component", section}}
}

func (l *Logger) inner() *slog.Logger {
	base := slog.Default()
	if b := l.bound.Load(); b != nil && b.base == base {
		return b.inner
	}
	inner := base.With(l.args...)
	l.bound.Store(&boundLogger{base: base, inner: inner})
	return inner
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner().Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.inner().Error(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.inner().Warn(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.inner().Debug(msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	merged := make([]any, 0, len(l.args)+len(args))
	merged = append(merged, l.args...)
	return &Logger{args: append(merged, args...)}
}

// FromContext tags the logger with the trace and session ids carried on ctx.
func (l *Logger) FromContext(ctx context.Context) *Logger {
	var args []any
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		args = append(args, config.TRACE_ID_KEY, trace)
	}
	if session, ok := ctx.Value(config.SESSION_ID_KEY).(string); ok && session != "" {
		args = append(args, config.SESSION_ID_KEY, session)
	}
	if len(args) == 0 {
		return l
	}
	return l.With(args...)
}
