// Package logging provides structured logging for the dispatch server and
// CLI. It wraps log/slog with level parsing, optional file output and
// domain-specific child loggers.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pakalnivut/backend/internal/models"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger provides structured logging. It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	file   *os.File
	mu     *sync.Mutex
}

// New creates a Logger writing to w. format is "json" or "text".
func New(w io.Writer, level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{logger: slog.New(handler), mu: &sync.Mutex{}}
}

// NewFileLogger creates a JSON Logger appending to {dir}/navlog.log.
// If dir is empty, logs go to stderr.
func NewFileLogger(dir, level string) (*Logger, error) {
	if dir == "" {
		return New(os.Stderr, level, "json"), nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(dir, "navlog.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := New(file, level, "json")
	l.file = file
	return l, nil
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child Logger with extra key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{logger: l.logger.With(args...), file: l.file, mu: l.mu}
}

// WithComponent tags every entry with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// WithNavigator tags every entry with a navigator id.
func (l *Logger) WithNavigator(n models.NavigatorID) *Logger {
	return l.With("navigator", int(n))
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger { return l.logger }

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync log file: %w", err)
		}
		if err := l.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		l.file = nil
	}
	return nil
}

// NopLogger returns a Logger that discards all output.
func NopLogger() *Logger {
	return New(io.Discard, LevelError, "json")
}
