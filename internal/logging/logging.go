// ABOUTME: Logger construction shared by the CLI, MCP server and navigator
// ABOUTME: Wraps charmbracelet/log with level selection from flags and config
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options selects the logger's destination and verbosity
type Options struct {
	Level   string
	Verbose bool
	Quiet   bool
	Output  io.Writer
}

// New builds a leveled logger. Verbose forces debug, Quiet forces error.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "navigator",
	})
	logger.SetLevel(ParseLevel(opts.Level))
	if opts.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if opts.Quiet {
		logger.SetLevel(log.ErrorLevel)
	}
	return logger
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel maps a level name to a log level, defaulting to info
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	}
	return log.InfoLevel
}

// OrDiscard returns l, or a discarding logger when l is nil
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
