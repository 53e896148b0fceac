// Package logger is a thin facade over log/slog. Everything in the process
// logs through it so the handler choice (text for terminals, JSON for log
// collectors) lives in exactly one place.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

var (
	level slog.LevelVar
	base  = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
)

// Init installs the process-wide handler. Call it once at startup, before
// any goroutines start logging.
func Init(lvl string, json bool) {
	level.Set(parseLevel(lvl))

	opts := &slog.HandlerOptions{Level: &level}
	if json {
		base = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		base = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(base)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) {
	base.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	base.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	base.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	base.Error(msg, args...)
}

// Fatal logs at error level and terminates the process.
func Fatal(msg string, args ...any) {
	base.Error(msg, args...)
	os.Exit(1)
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return base.With(args...)
}
