package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// EnvLevel overrides the level passed to New when set.
const EnvLevel = "DOCSYNC_LOG_LEVEL"

// New creates the process logger. Output goes to stderr so stdout stays
// clean for JSON and SARIF reports.
func New(name, level string) hclog.Logger {
	return NewWithOutput(name, level, os.Stderr)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(name, level string, w io.Writer) hclog.Logger {
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: w,
		Level:  ParseLevel(level),
	})
}

// ParseLevel maps a level name to hclog. Unknown or empty names mean warn.
func ParseLevel(level string) hclog.Level {
	lvl := hclog.LevelFromString(strings.TrimSpace(level))
	if lvl == hclog.NoLevel {
		return hclog.Warn
	}
	return lvl
}
