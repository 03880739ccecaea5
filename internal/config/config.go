package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Verbose enables debug output when true
var Verbose bool

// DefaultDeviceName is the advertised local name the scanner matches by default.
const DefaultDeviceName = "Thingy"

// DefaultScanTimeout bounds how long Connect scans before giving up.
const DefaultScanTimeout = 15 * time.Second

// DefaultRequestTimeout bounds a single characteristic read or write.
const DefaultRequestTimeout = 10 * time.Second

var (
	loggerMu    sync.Mutex
	logger      *slog.Logger
	loggerLevel slog.Level
	logOutput   io.Writer = os.Stderr
)

// Logger returns the shared debug logger. The level follows Verbose at the
// time of the call.
func Logger() *slog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	level := slog.LevelInfo
	if Verbose {
		level = slog.LevelDebug
	}
	if logger == nil || loggerLevel != level {
		logger = slog.New(tint.NewHandler(logOutput, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
		loggerLevel = level
	}
	return logger
}

// SetOutput redirects log output. Used by the TUI, which owns the terminal.
func SetOutput(w io.Writer) {
	loggerMu.Lock()
	logOutput = w
	logger = nil
	loggerMu.Unlock()
}

// Debugf prints debug messages when Verbose is true
func Debugf(format string, args ...any) {
	if Verbose {
		Logger().Debug(fmt.Sprintf(format, args...))
	}
}

// Warnf logs a warning regardless of Verbose.
func Warnf(format string, args ...any) {
	Logger().Warn(fmt.Sprintf(format, args...))
}
