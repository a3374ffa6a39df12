// Package logging is a small leveled wrapper around the standard logger.
//
// All output goes to stderr by default: stdout carries the MCP protocol and must
// never receive log lines.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Log level constants
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levels = []string{LevelDebug, LevelInfo, LevelWarn, LevelError}

var (
	current atomic.Int32
	logger  = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
)

func init() {
	current.Store(int32(levelIndex(LevelInfo)))
}

func levelIndex(level string) int {
	for i, l := range levels {
		if l == level {
			return i
		}
	}
	return -1
}

// ParseLevel normalises level and reports an error for unknown names.
func ParseLevel(level string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "warning" {
		l = LevelWarn
	}
	if levelIndex(l) < 0 {
		return "", fmt.Errorf("unknown log level %q (want one of %s)", level, strings.Join(levels, ", "))
	}
	return l, nil
}

// SetLevel sets the global logging level. Unknown levels are ignored.
func SetLevel(level string) {
	l, err := ParseLevel(level)
	if err != nil {
		return
	}
	current.Store(int32(levelIndex(l)))
}

// Level returns the current logging level.
func Level() string {
	return levels[current.Load()]
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Enabled reports whether messages at level are currently written.
func Enabled(level string) bool {
	i := levelIndex(level)
	return i >= 0 && i >= int(current.Load())
}

func output(level, prefix, format string, args ...interface{}) {
	if !Enabled(level) {
		return
	}
	// Skip output and the exported wrapper so Lshortfile names the caller.
	_ = logger.Output(3, prefix+fmt.Sprintf(format, args...))
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	output(LevelDebug, "[DEBUG] ", format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	output(LevelInfo, "[INFO] ", format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	output(LevelWarn, "[WARN] ", format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	output(LevelError, "[ERROR] ", format, args...)
}
