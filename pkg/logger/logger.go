// Package logger provides a small leveled logger. The engine takes a *Logger
// explicitly instead of relying on package-level state, so callers control
// where orchestration logs go; the package-level functions write through a
// default instance for convenience.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is a log severity level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a level name to a Level. Unknown names map to Info.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled, printf-style log lines to a single writer.
type Logger struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
}

// New creates a logger at the given level writing to out.
func New(level Level, out io.Writer) *Logger {
	return &Logger{level: level, out: out}
}

// SetLevel changes the logger's level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// IsDebugEnabled reports whether debug logging is active.
func (l *Logger) IsDebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level <= LevelDebug
}

func (l *Logger) log(level Level, tag, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level > level {
		return
	}
	fmt.Fprintf(l.out, tag+" "+format+"\n", args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, "[DEBUG]", format, args...)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, "[INFO]", format, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, "[WARN]", format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, "[ERROR]", format, args...)
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return New(LevelError+1, io.Discard)
}

var std = New(LevelInfo, os.Stderr)

// Default returns the process-wide default logger.
func Default() *Logger { return std }

// SetLevelFromString sets the default logger's level by name.
func SetLevelFromString(level string) { std.SetLevel(ParseLevel(level)) }

// Debug logs at debug level on the default logger.
func Debug(format string, args ...any) { std.Debug(format, args...) }

// Info logs at info level on the default logger.
func Info(format string, args ...any) { std.Info(format, args...) }

// Warn logs at warn level on the default logger.
func Warn(format string, args ...any) { std.Warn(format, args...) }

// Error logs at error level on the default logger.
func Error(format string, args ...any) { std.Error(format, args...) }
