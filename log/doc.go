// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is an immutable value. Its configuration (level, format, time
// layout, caller info and colorized output) is applied at creation time
// using functional options, and derived loggers are created with
// [Logger.Wrap] and [Logger.With].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("script loaded", slog.String("path", path))
//
// # Package Logger
//
// The package-level functions [Trace], [Debug], [Info], [Warn] and [Error]
// (and their Context variants) write to a process-wide default logger that
// is replaced with [Config]:
//
//	log.Config(log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatText))
//
// # Levels
//
// In addition to the four [log/slog] levels, the package defines
// [LevelTrace] below [LevelDebug] for very verbose interpreter output, such
// as every executed statement.
package log
