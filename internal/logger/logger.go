// Package logger provides structured logging and metrics tracking for nhl-scores.
//
// Log entries go through charmbracelet/log and are written as JSON (the default)
// or as human-readable text. Every entry carries a timestamp, a level, a message
// and any structured fields, emitted in sorted key order.
//
// Metrics tracking includes counters (incrementing values), gauges (point-in-time values),
// and timings (duration measurements) with automatic statistical aggregation.
//
// Example usage:
//
//	logger.Info("Season collected", logger.Fields{
//	    "year":    2016,
//	    "regular": 1230,
//	})
//
//	logger.Error("Season fetch failed", logger.Fields{
//	    "year": 2005,
//	}, err)
//
//	logger.IncrCounter("scrape.seasons.ok")
//	logger.RecordTiming("scrape.season", duration)
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel parses a level name such as "info" or "WARN"
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo, "":
		return LevelInfo, nil
	case LevelWarn, "WARNING":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Format selects the output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat parses "json" or "text"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want json or text)", s)
	}
}

// Logger provides structured logging
type Logger struct {
	backend *log.Logger
}

// Fields represents structured log fields
type Fields map[string]interface{}

var defaultLogger *Logger

func init() {
	defaultLogger = New(LevelInfo, os.Stderr, FormatJSON)
}

// New creates a logger writing to w. Messages below level are discarded.
func New(level Level, w io.Writer, format Format) *Logger {
	formatter := log.JSONFormatter
	if format == FormatText {
		formatter = log.TextFormatter
	}

	backend := log.NewWithOptions(w, log.Options{
		Level:           level.charm(),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	})

	return &Logger{backend: backend}
}

// SetDefault sets the default package-level logger used by the convenience functions
// (Debug, Info, Warn, Error).
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}

func keyvals(fields Fields, err error) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, 2*len(keys)+2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	return kv
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.backend.Debug(message, keyvals(fields, nil)...)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.backend.Info(message, keyvals(fields, nil)...)
}

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) {
	l.backend.Warn(message, keyvals(fields, nil)...)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.backend.Error(message, keyvals(fields, err)...)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
