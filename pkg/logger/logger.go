// Package logger provides the logging interface shared by the fetch engine,
// its HTTP transport and the warpfetch command line.
package logger

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Level is the severity of a log message.
type Level int

const (
	// LevelInfo is used for run lifecycle messages.
	LevelInfo Level = iota
	// LevelWarning is used for ignored options and failed transfers.
	LevelWarning
	// LevelError is used for faults the engine could not absorb.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel converts a level name ("info", "warning", "error") into a Level.
// The second return value is false for unknown names.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarning, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// Logger is implemented by every log sink used in warpfetch.
// Implementations must be safe for concurrent use: the HTTP transport
// logs from its transfer goroutines.
type Logger interface {
	// Info logs an informational message (e.g., "run started").
	Info(format string, args ...interface{})

	// Warning logs a warning message (e.g., "transfer failed").
	Warning(format string, args ...interface{})

	// Error logs an error message (e.g., "callback panicked").
	Error(format string, args ...interface{})

	// Close releases resources held by the logger.
	// Safe to call multiple times.
	Close() error
}

// StandardLogger writes to a stdlib *log.Logger, dropping messages
// below its minimum level.
type StandardLogger struct {
	logger *log.Logger
	min    Level
}

// NewStandardLogger creates a logger that writes every level to l.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l, min: LevelInfo}
}

// NewLeveledLogger creates a logger that writes messages at min or above to l.
func NewLeveledLogger(l *log.Logger, min Level) *StandardLogger {
	return &StandardLogger{logger: l, min: min}
}

func (s *StandardLogger) logf(lvl Level, format string, args ...interface{}) {
	if lvl < s.min {
		return
	}
	s.logger.Printf("["+lvl.String()+"] "+format, args...)
}

// Info logs with the [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logf(LevelInfo, format, args...)
}

// Warning logs with the [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logf(LevelWarning, format, args...)
}

// Error logs with the [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logf(LevelError, format, args...)
}

// Close is a no-op.
func (s *StandardLogger) Close() error {
	return nil
}

// NopLogger discards all messages. It is the engine default.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// MockLogger records every call for verification in tests.
type MockLogger struct {
	mu           sync.Mutex
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		InfoCalls:    make([]string, 0),
		WarningCalls: make([]string, 0),
		ErrorCalls:   make([]string, 0),
	}
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// Warnings returns a copy of the recorded warning messages.
func (m *MockLogger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.WarningCalls...)
}

// Errors returns a copy of the recorded error messages.
func (m *MockLogger) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ErrorCalls...)
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)
