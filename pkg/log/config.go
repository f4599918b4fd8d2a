package log

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Config declares a logger.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// Output is "stderr" (default), "stdout", "null", or a file path.
	Output string `json:"output" yaml:"output"`
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return TextFormat, nil
	case "json":
		return JSONFormat, nil
	default:
		return TextFormat, fmt.Errorf("unknown log format %q", s)
	}
}

// ApplyConfig builds a Logger from cfg. The returned Closer releases the
// output when it is a file; for the standard streams it does nothing.
func ApplyConfig(cfg *Config) (Logger, io.Closer, error) {
	if cfg == nil {
		return NewLogger(), nopCloser{}, nil
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}
	out, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(WithLevel(level), WithFormat(format), WithOutput(out)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openOutput(name string) (io.Writer, io.Closer, error) {
	switch name {
	case "", "stderr":
		return os.Stderr, nopCloser{}, nil
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	case "null":
		return io.Discard, nopCloser{}, nil
	default:
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log output: %w", err)
		}
		return f, f, nil
	}
}
