package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
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

// Format selects how log records are rendered.
type Format string

const (
	// TextFormat renders human readable lines (colored on terminals).
	TextFormat Format = "text"
	// JSONFormat renders one JSON object per record.
	JSONFormat Format = "json"
)

// Logger defines the core logging interface for cliphist components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// With adds fields to every record emitted by the returned logger.
	With(fields ...Field) Logger

	// WithComponent tags logs with a component name
	WithComponent(component string) Logger

	// WithError attaches err under the "error" key.
	WithError(err error) Logger

	// SetLevel sets the minimum log level
	SetLevel(level Level)

	// GetLevel returns the current minimum log level
	GetLevel() Level
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*BaseLogger)

// BaseLogger implements the Logger interface on top of slog.
type BaseLogger struct {
	level     *slog.LevelVar
	format    Format
	out       io.Writer
	redact    []string
	slogger   *slog.Logger
	forceTerm *bool
}

// NewLogger creates a new logger with the given options. Without options it
// writes text records at info level to stderr and redacts payload/text keys.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{
		level:  new(slog.LevelVar),
		format: TextFormat,
		out:    os.Stderr,
		redact: []string{"payload", "text"},
	}
	logger.level.Set(slog.LevelInfo)

	for _, option := range options {
		option(logger)
	}

	inner := newHandler(logger.format, logger.out, logger.level, logger.isTerminal())
	logger.slogger = slog.New(newBridgeHandler(inner).withRedactions(logger.redact))
	return logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return NewLogger(WithOutput(io.Discard), WithLevel(ErrorLevel))
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) {
		l.level.Set(toSlogLevel(level))
	}
}

// WithFormat sets the record format.
func WithFormat(format Format) LoggerOption {
	return func(l *BaseLogger) {
		l.format = format
	}
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *BaseLogger) {
		l.out = w
	}
}

// WithRedactedKeys replaces the set of attribute keys whose values are masked.
func WithRedactedKeys(keys ...string) LoggerOption {
	return func(l *BaseLogger) {
		l.redact = keys
	}
}

// WithTerminal overrides terminal detection (used for color decisions).
func WithTerminal(isTerm bool) LoggerOption {
	return func(l *BaseLogger) {
		l.forceTerm = &isTerm
	}
}

func (l *BaseLogger) isTerminal() bool {
	if l.forceTerm != nil {
		return *l.forceTerm
	}
	return isTerminalWriter(l.out)
}

func (l *BaseLogger) clone(s *slog.Logger) *BaseLogger {
	nl := *l
	nl.slogger = s
	return &nl
}

func (l *BaseLogger) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !l.slogger.Enabled(ctx, level) {
		return
	}
	l.slogger.LogAttrs(ctx, level, msg, attrsFromFields(fields)...)
}

// Debug logs at debug level.
func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields) }

// Info logs at info level.
func (l *BaseLogger) Info(msg string, fields ...Field) { l.log(slog.LevelInfo, msg, fields) }

// Warn logs at warn level.
func (l *BaseLogger) Warn(msg string, fields ...Field) { l.log(slog.LevelWarn, msg, fields) }

// Error logs at error level.
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields) }

func (l *BaseLogger) Debugf(format string, args ...interface{}) {
	l.log(slog.LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *BaseLogger) Infof(format string, args ...interface{}) {
	l.log(slog.LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *BaseLogger) Warnf(format string, args ...interface{}) {
	l.log(slog.LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (l *BaseLogger) Errorf(format string, args ...interface{}) {
	l.log(slog.LevelError, fmt.Sprintf(format, args...), nil)
}

// With returns a logger carrying the given fields.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return l.clone(l.slogger.With(attrsToAny(attrsFromFields(fields))...))
}

// WithComponent tags logs with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// WithError attaches err to subsequent records.
func (l *BaseLogger) WithError(err error) Logger {
	return l.With(Err(err))
}

// SetLevel changes the minimum level for this logger and all derived loggers.
func (l *BaseLogger) SetLevel(level Level) { l.level.Set(toSlogLevel(level)) }

// GetLevel returns the current minimum level.
func (l *BaseLogger) GetLevel() Level { return fromSlogLevel(l.level.Level()) }

// Slog exposes the underlying slog.Logger for libraries that want one.
func (l *BaseLogger) Slog() *slog.Logger { return l.slogger }
