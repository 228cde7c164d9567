package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"
)

// Logger provides a concurrency-safe simplified logging interface.
//
// The zero value discards all messages.
type Logger struct {
	*slog.Logger
	config
}

// Make creates a new [Logger] that writes to w.
// The default configuration is [DefaultFormat], [DefaultLevel],
// [DefaultTimeLayout], and caller info disabled.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)

	return Logger{Logger: slog.New(cfg.handler()), config: cfg}
}

// Wrap returns a new [Logger] using the receiver's configuration with opts
// applied. Attributes added with [Logger.With] are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.Logger == nil {
		return Make(nil, opts...)
	}

	cfg := apply(l.config, opts...)

	return Logger{Logger: slog.New(cfg.handler()), config: cfg}
}

// With returns a new [Logger] that includes attrs in each log message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil || len(attrs) == 0 {
		return l
	}

	return Logger{
		Logger: slog.New(l.Handler().WithAttrs(attrs)),
		config: l.config,
	}
}

// Level returns the minimum log level.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.level
}

// Format returns the log output format.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.format
}

// Enabled reports whether messages at level would be written.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	return l.Logger != nil && l.Logger.Enabled(ctx, slog.Level(level))
}

// TraceContext logs a message at Trace level with the provided context.
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelTrace, msg, attrs...)
}

// Trace logs a message at Trace level.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelTrace, msg, attrs...)
}

// DebugContext logs a message at Debug level with the provided context.
func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelDebug, msg, attrs...)
}

// Debug logs a message at Debug level.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelDebug, msg, attrs...)
}

// InfoContext logs a message at Info level with the provided context.
func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelInfo, msg, attrs...)
}

// Info logs a message at Info level.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelInfo, msg, attrs...)
}

// WarnContext logs a message at Warn level with the provided context.
func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelWarn, msg, attrs...)
}

// Warn logs a message at Warn level.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelWarn, msg, attrs...)
}

// ErrorContext logs a message at Error level with the provided context.
func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelError, msg, attrs...)
}

// Error logs a message at Error level.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelError, msg, attrs...)
}

// callerSkip locates the caller of a package-level logging function: the
// frames skipped are runtime.Callers, logDepth, and the function itself.
// Logger methods add one frame for logContext.
const callerSkip = 3

func (l Logger) logContext(
	ctx context.Context,
	level Level,
	msg string,
	attrs ...slog.Attr,
) {
	l.logDepth(ctx, callerSkip+1, level, msg, attrs...)
}

func (l Logger) logDepth(
	ctx context.Context,
	skip int,
	level Level,
	msg string,
	attrs ...slog.Attr,
) {
	if l.Logger == nil || !l.Logger.Enabled(ctx, slog.Level(level)) {
		return
	}

	var pcs [1]uintptr

	runtime.Callers(skip, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// DefaultContextProvider returns the context used by the logging functions
// that do not accept one.
//
//nolint:gochecknoglobals
var DefaultContextProvider = context.TODO

//nolint:gochecknoglobals
var defaultLog atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLog.Store(&l)
}

// Default returns the package-level logger.
func Default() Logger { return *defaultLog.Load() }

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) { defaultLog.Store(&l) }

// Config replaces the package-level logger with one derived from the current
// package-level logger's configuration with opts applied.
func Config(opts ...Option) Logger {
	l := Default().Wrap(opts...)
	SetDefault(l)

	return l
}

// TraceContext logs at Trace level using the package-level logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, callerSkip, LevelTrace, msg, attrs...)
}

// Trace logs at Trace level using the package-level logger.
func Trace(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), callerSkip, LevelTrace, msg, attrs...)
}

// DebugContext logs at Debug level using the package-level logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, callerSkip, LevelDebug, msg, attrs...)
}

// Debug logs at Debug level using the package-level logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), callerSkip, LevelDebug, msg, attrs...)
}

// InfoContext logs at Info level using the package-level logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, callerSkip, LevelInfo, msg, attrs...)
}

// Info logs at Info level using the package-level logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), callerSkip, LevelInfo, msg, attrs...)
}

// WarnContext logs at Warn level using the package-level logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, callerSkip, LevelWarn, msg, attrs...)
}

// Warn logs at Warn level using the package-level logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), callerSkip, LevelWarn, msg, attrs...)
}

// ErrorContext logs at Error level using the package-level logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, callerSkip, LevelError, msg, attrs...)
}

// Error logs at Error level using the package-level logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), callerSkip, LevelError, msg, attrs...)
}
