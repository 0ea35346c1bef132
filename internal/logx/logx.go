// Package logx provides the structured logging interface used across
// depgraph: a Logger/LogField contract with NopLogger/StdLogger/GoLogger
// implementations.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// LogField is a single structured logging key/value pair.
type LogField struct {
	Key   string
	Value any
}

// Logger is the structured logging interface every depgraph component
// logs through instead of fmt.Println.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, err error, fields ...LogField)
	With(fields ...LogField) Logger
}

// NopLogger discards all messages. It is the safe default for library
// code that has not been given a logger.
type NopLogger struct{}

func (NopLogger) Debug(string, ...LogField)        {}
func (NopLogger) Info(string, ...LogField)         {}
func (NopLogger) Warn(string, ...LogField)         {}
func (NopLogger) Error(string, error, ...LogField) {}
func (n NopLogger) With(...LogField) Logger        { return n }

// LogLevel orders log severities for filtering.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StdLogger writes formatted lines to an io.Writer, defaulting to
// stderr so library use never pollutes stdout.
type StdLogger struct {
	output io.Writer
	prefix string
	level  LogLevel
}

// NewStdLogger creates a logger writing to output (stderr if nil) at
// the given minimum level.
func NewStdLogger(output io.Writer, level LogLevel) *StdLogger {
	if output == nil {
		output = os.Stderr
	}
	return &StdLogger{output: output, prefix: "[depgraph] ", level: level}
}

// NewDevLogger creates a stderr logger at info level, for development.
func NewDevLogger() *StdLogger {
	return NewStdLogger(os.Stderr, LogLevelInfo)
}

func (s *StdLogger) shouldLog(level LogLevel) bool { return level >= s.level }

func (s *StdLogger) formatMessage(level LogLevel, msg string, fields []LogField) string {
	parts := []string{time.Now().Format("2006-01-02 15:04:05"), level.String(), msg}
	if len(fields) > 0 {
		fieldStrs := make([]string, 0, len(fields))
		for _, f := range fields {
			fieldStrs = append(fieldStrs, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		parts = append(parts, fmt.Sprintf("[%s]", strings.Join(fieldStrs, " ")))
	}
	return s.prefix + strings.Join(parts, " ")
}

func (s *StdLogger) log(level LogLevel, msg string, fields []LogField) {
	if !s.shouldLog(level) {
		return
	}
	fmt.Fprintln(s.output, s.formatMessage(level, msg, fields))
}

func (s *StdLogger) Debug(msg string, fields ...LogField) { s.log(LogLevelDebug, msg, fields) }
func (s *StdLogger) Info(msg string, fields ...LogField)  { s.log(LogLevelInfo, msg, fields) }
func (s *StdLogger) Warn(msg string, fields ...LogField)  { s.log(LogLevelWarn, msg, fields) }

func (s *StdLogger) Error(msg string, err error, fields ...LogField) {
	errorFields := append(append([]LogField{}, fields...))
	if err != nil {
		errorFields = append(errorFields, LogField{Key: "error", Value: err.Error()})
	}
	s.log(LogLevelError, msg, errorFields)
}

func (s *StdLogger) With(fields ...LogField) Logger { return s }

// GoLogger adapts the standard library's *log.Logger to the Logger
// interface, for hosts that already have a log.Logger configured.
type GoLogger struct {
	logger *log.Logger
	level  LogLevel
}

// NewGoLogger wraps logger (stderr-backed if nil) at the given level.
func NewGoLogger(logger *log.Logger, level LogLevel) *GoLogger {
	if logger == nil {
		logger = log.New(os.Stderr, "[depgraph] ", log.LstdFlags)
	}
	return &GoLogger{logger: logger, level: level}
}

func (g *GoLogger) shouldLog(level LogLevel) bool { return level >= g.level }

func (g *GoLogger) formatFields(fields []LogField) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	return " [" + strings.Join(parts, " ") + "]"
}

func (g *GoLogger) Debug(msg string, fields ...LogField) {
	if g.shouldLog(LogLevelDebug) {
		g.logger.Printf("DEBUG %s%s", msg, g.formatFields(fields))
	}
}

func (g *GoLogger) Info(msg string, fields ...LogField) {
	if g.shouldLog(LogLevelInfo) {
		g.logger.Printf("INFO %s%s", msg, g.formatFields(fields))
	}
}

func (g *GoLogger) Warn(msg string, fields ...LogField) {
	if g.shouldLog(LogLevelWarn) {
		g.logger.Printf("WARN %s%s", msg, g.formatFields(fields))
	}
}

func (g *GoLogger) Error(msg string, err error, fields ...LogField) {
	if g.shouldLog(LogLevelError) {
		errorFields := append([]LogField{}, fields...)
		if err != nil {
			errorFields = append(errorFields, LogField{Key: "error", Value: err.Error()})
		}
		g.logger.Printf("ERROR %s%s", msg, g.formatFields(errorFields))
	}
}

func (g *GoLogger) With(fields ...LogField) Logger { return g }
