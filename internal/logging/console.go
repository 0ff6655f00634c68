package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ConsoleOptions holds configuration for console logging.
type ConsoleOptions struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultConsoleOptions returns default options for console logging.
func DefaultConsoleOptions() ConsoleOptions {
	return ConsoleOptions{
		Level:     log.WarnLevel,
		Formatter: log.TextFormatter,
		Prefix:    "taskboard",
	}
}

// NewConsoleLogger returns a leveled charmbracelet/log logger writing to w.
func NewConsoleLogger(w io.Writer, opts ConsoleOptions) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// NewConsoleLoggerFromConfig creates a console logger from string
// configuration values as they appear in taskboard.toml.
func NewConsoleLoggerFromConfig(w io.Writer, level, format string) *log.Logger {
	opts := DefaultConsoleOptions()
	opts.Level = ParseLogLevel(level)
	opts.Formatter = ParseLogFormatter(format)
	// Machine-readable output carries timestamps.
	opts.ReportTimestamp = opts.Formatter != log.TextFormatter
	return NewConsoleLogger(w, opts)
}

// ParseLogLevel parses a string log level to a charmbracelet/log Level.
func ParseLogLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// ParseLogFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
