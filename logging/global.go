// Package logging wires the process wide slog logger: text on the console,
// JSON in weekly rotated files.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Options configures the global logger
type Options struct {
	Dir            string // empty means console only
	Level          slog.Level
	RetentionWeeks int
	MaxFileSize    int64
}

// Service owns the global logger and its file sink
type Service struct {
	Logger *slog.Logger
	file   *RotatingLogger
	level  slog.Level
}

var DefaultLoggingService *Service

// InitLogger initializes the global logger writing to logDir at info level
func InitLogger(logDir string) {
	Init(Options{Dir: logDir, Level: slog.LevelInfo, RetentionWeeks: 4, MaxFileSize: 100 * 1024 * 1024})
}

// Init initializes the global logger instance and makes it the slog default
func Init(opts Options) {
	Close()

	logger, file := newLogger(opts)
	DefaultLoggingService = &Service{Logger: logger, file: file, level: opts.Level}
	slog.SetDefault(logger)
}

// Close releases the log file, if any. Later log calls go to the console only.
func Close() {
	if DefaultLoggingService == nil || DefaultLoggingService.file == nil {
		return
	}

	file := DefaultLoggingService.file
	console, _ := newLogger(Options{Level: DefaultLoggingService.level})
	DefaultLoggingService.Logger = console
	DefaultLoggingService.file = nil
	slog.SetDefault(console)

	if err := file.Close(); err != nil {
		console.Warn("Failed to close log file", "error", err)
	}
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns the global logger, or a stderr fallback before Init
func Logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return DefaultLoggingService.Logger
}

func Info(msg string, args ...any) {
	Logger().Log(context.Background(), slog.LevelInfo, msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Log(context.Background(), slog.LevelError, msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Log(context.Background(), slog.LevelWarn, msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Log(context.Background(), slog.LevelDebug, msg, args...)
}
