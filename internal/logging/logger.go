// Package logging provides structured, leveled logging fanned out to one or
// more adapters (stdout, rotating file).
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log entry
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	default:
		return "info"
	}
}

// ParseLogLevel parses a string log level into LogLevel
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// LogEntry represents a single log entry
type LogEntry struct {
	Level     LogLevel
	Message   string
	Timestamp time.Time
	Fields    map[string]interface{}
}

// LogAdapter writes entries to one destination
type LogAdapter interface {
	Write(entry *LogEntry) error
	Close() error
	Health() error
	Name() string
}

// Logger is the logging interface handed to every component
type Logger interface {
	Debug(message string, fields ...map[string]interface{})
	Info(message string, fields ...map[string]interface{})
	Warn(message string, fields ...map[string]interface{})
	Error(message string, fields ...map[string]interface{})
	Fatal(message string, fields ...map[string]interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger

	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// sinks is shared by a logger and every child derived from it
type sinks struct {
	mu       sync.RWMutex
	level    LogLevel
	adapters []LogAdapter
}

// MultiLogger fans entries out to all registered adapters
type MultiLogger struct {
	sinks  *sinks
	fields map[string]interface{}
}

// NewMultiLogger creates a logger with no adapters at info level
func NewMultiLogger() *MultiLogger {
	return &MultiLogger{
		sinks:  &sinks{level: InfoLevel},
		fields: map[string]interface{}{},
	}
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DebugLevel, message, fields)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.log(InfoLevel, message, fields)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WarnLevel, message, fields)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.log(ErrorLevel, message, fields)
}

// Fatal logs a fatal message, flushes adapters and exits
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.log(FatalLevel, message, fields)
	l.Close()
	os.Exit(1)
}

func (l *MultiLogger) log(level LogLevel, message string, extra []map[string]interface{}) {
	l.sinks.mu.RLock()
	defer l.sinks.mu.RUnlock()

	if level < l.sinks.level {
		return
	}

	entry := &LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Fields:    l.merged(extra),
	}

	for _, adapter := range l.sinks.adapters {
		if err := adapter.Write(entry); err != nil {
			// stderr, so a broken adapter cannot recurse into itself
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", adapter.Name(), err)
		}
	}
}

// WithField returns a child logger that always carries key=value
func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child logger that always carries fields
func (l *MultiLogger) WithFields(fields map[string]interface{}) Logger {
	return &MultiLogger{sinks: l.sinks, fields: l.merged([]map[string]interface{}{fields})}
}

func (l *MultiLogger) SetLevel(level LogLevel) {
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()
	l.sinks.level = level
}

func (l *MultiLogger) GetLevel() LogLevel {
	l.sinks.mu.RLock()
	defer l.sinks.mu.RUnlock()
	return l.sinks.level
}

// AddAdapter registers an adapter; names must be unique
func (l *MultiLogger) AddAdapter(adapter LogAdapter) error {
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()

	for _, existing := range l.sinks.adapters {
		if existing.Name() == adapter.Name() {
			return fmt.Errorf("adapter %s already exists", adapter.Name())
		}
	}
	l.sinks.adapters = append(l.sinks.adapters, adapter)
	return nil
}

// Health returns the first unhealthy adapter error
func (l *MultiLogger) Health() error {
	l.sinks.mu.RLock()
	defer l.sinks.mu.RUnlock()

	for _, adapter := range l.sinks.adapters {
		if err := adapter.Health(); err != nil {
			return fmt.Errorf("adapter %s: %w", adapter.Name(), err)
		}
	}
	return nil
}

// Close closes all adapters
func (l *MultiLogger) Close() error {
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()

	var errs []string
	for _, adapter := range l.sinks.adapters {
		if err := adapter.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("adapter %s: %v", adapter.Name(), err))
		}
	}
	l.sinks.adapters = nil

	if len(errs) > 0 {
		return fmt.Errorf("failed to close adapters: %s", strings.Join(errs, ", "))
	}
	return nil
}

func (l *MultiLogger) merged(extra []map[string]interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	for _, m := range extra {
		for k, v := range m {
			fields[k] = v
		}
	}
	return fields
}
