// Package logging provides the process-wide structured logger shared by
// the allocator's diagnostic output and the proxy server.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// L is the global logger instance. It defaults to text-on-stderr at Info
// level; call Init to reconfigure before any other package logs.
var L = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Options configures logger initialization.
type Options struct {
	Quiet bool       // If true, all logging is discarded.
	JSON  bool       // If true, emit JSON instead of text.
	Level slog.Level // Minimum level. Default: LevelInfo.
}

// Init configures the global logger. Call from main() before any log
// calls, typically right after parsing CLI flags.
func Init(opts Options) {
	if opts.Quiet {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
		return
	}
	L = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
