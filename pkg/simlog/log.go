// Package simlog provides the kernel's structured diagnostic logger. It is
// distinct from the domain trace kept by package tracelog: simlog carries
// operational messages (skipped non-fatal errors, lifecycle milestones),
// while tracelog is the simulation's own append-only output record.
//
// Shaped after the teacher's pkg/common/log.go: a Logger wrapping the
// standard library's log.Logger with a settable minimum LogLevel and
// output, plus package-level Debug/Info/Warn/Error wrappers around a
// default instance.
package simlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the level's textual tag as it appears in log lines.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled wrapper around a standard library *log.Logger.
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	logger *log.Logger
}

// NewLogger builds a Logger writing to out at the given minimum level.
func NewLogger(out io.Writer, level LogLevel) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(out, "", log.LstdFlags),
	}
}

// SetLevel sets the minimum level this Logger will emit.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects where this Logger writes.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	l.logger.SetOutput(w)
}

func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	l.logger.Printf("[%s] %s", level.String(), fmt.Sprintf(format, v...))
}

// Debug logs a debug-level diagnostic, e.g. a skipped non-fatal simerr.
func (l *Logger) Debug(format string, v ...interface{}) { l.log(DebugLevel, format, v...) }

// Info logs an info-level lifecycle milestone, e.g. simulation start/end.
func (l *Logger) Info(format string, v ...interface{}) { l.log(InfoLevel, format, v...) }

// Warn logs a warn-level diagnostic.
func (l *Logger) Warn(format string, v ...interface{}) { l.log(WarnLevel, format, v...) }

// Error logs an error-level diagnostic.
func (l *Logger) Error(format string, v ...interface{}) { l.log(ErrorLevel, format, v...) }

var defaultLogger = NewLogger(os.Stderr, InfoLevel)

// SetWriter redirects the default logger's output. Tests typically pass an
// in-memory buffer so assertions can inspect emitted lines.
func SetWriter(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetLevel sets the minimum level the default logger will emit.
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// Debug logs a debug message through the default logger.
func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }

// Info logs an informational message through the default logger.
func Info(format string, v ...interface{}) { defaultLogger.Info(format, v...) }

// Warn logs a warning message through the default logger.
func Warn(format string, v ...interface{}) { defaultLogger.Warn(format, v...) }

// Error logs an error message through the default logger.
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }
