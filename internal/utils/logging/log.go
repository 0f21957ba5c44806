// Package logging wraps zerolog behind the short printf-style helpers used across movvify.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"movvify/internal/domain/consts"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	logger  = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	logFile *os.File
)

// Config holds logger setup options.
type Config struct {
	Console     io.Writer
	LogFilePath string
	DebugLevel  int
}

// Setup configures the program logger. A console writer is always attached,
// the log file only if a path is given.
func Setup(c Config) error {
	console := c.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: "2006-01-02 15:04:05"}}

	var f *os.File
	if c.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFilePath), consts.PermsDownloadsDir); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(c.LogFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, consts.PermsLogFile)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", c.LogFilePath, err)
		}
		writers = append(writers, f)
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("program", consts.ProgramName).
		Logger()

	setLevel(c.DebugLevel)
	return nil
}

// Close flushes and closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Logger returns the underlying zerolog logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// I logs an info message.
func I(format string, args ...any) {
	l := Logger()
	l.Info().Msgf(format, args...)
}

// S logs a success message.
func S(format string, args ...any) {
	l := Logger()
	l.Info().Bool("success", true).Msgf(format, args...)
}

// W logs a warning.
func W(format string, args ...any) {
	l := Logger()
	l.Warn().Msgf(format, args...)
}

// E logs an error.
func E(format string, args ...any) {
	l := Logger()
	l.Error().Msgf(format, args...)
}
