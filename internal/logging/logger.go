// Package logging provides config-driven categorized file-based logging
// for shopfront. Logs are written to <state dir>/logs/ with separate
// files per category. When debug mode is off, loggers are no-ops, so
// call sites never need to guard their logging.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryAPI      Category = "api"      // Remote store API calls
	CategoryCart     Category = "cart"     // Cart container transitions
	CategoryAuth     Category = "auth"     // Auth container transitions
	CategoryCheckout Category = "checkout" // Checkout wizard / order placement
	CategoryStore    Category = "store"    // Key-value persistence
	CategoryUI       Category = "ui"       // Terminal UI events
	CategoryMockAPI  Category = "mockapi"  // Embedded mock store server
)

// Settings controls which categories log and at what level.
type Settings struct {
	DebugMode  bool
	Level      string          // debug, info, warn, error
	Categories map[string]bool // nil means all categories enabled
}

// Log levels
const (
	levelDebug = 0
	levelInfo  = 1
	levelWarn  = 2
	levelError = 3
)

// Logger writes category-scoped log lines to its own file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	mu          sync.RWMutex
	loggers     = make(map[Category]*Logger)
	logsDir     string
	settings    Settings
	initialized bool
	logLevel    int
)

// Initialize sets up the logging directory and applies settings.
// Should be called once at startup with the state directory. Calling
// Get before Initialize yields a no-op logger.
func Initialize(stateDir string, s Settings) error {
	if stateDir == "" {
		return fmt.Errorf("state directory required")
	}

	mu.Lock()
	defer mu.Unlock()

	settings = s
	logLevel = parseLevel(s.Level)
	logsDir = filepath.Join(stateDir, "logs")
	initialized = true

	if !s.DebugMode {
		return nil
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}
	return nil
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// Get returns the logger for a category, creating it on first use.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := newLogger(category)
	loggers[category] = l
	return l
}

// newLogger opens the per-category log file. Caller holds mu.
func newLogger(category Category) *Logger {
	l := &Logger{category: category}
	if !initialized || !settings.DebugMode || !categoryEnabled(category) {
		return l
	}
	path := filepath.Join(logsDir, string(category)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		// Logging must never take the application down.
		return l
	}
	l.file = f
	l.logger = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	return l
}

func categoryEnabled(category Category) bool {
	if settings.Categories == nil {
		return true
	}
	enabled, ok := settings.Categories[string(category)]
	return !ok || enabled
}

func (l *Logger) write(level int, prefix, format string, args ...interface{}) {
	if l == nil || l.logger == nil {
		return
	}
	mu.RLock()
	min := logLevel
	mu.RUnlock()
	if level < min {
		return
	}
	l.logger.Printf(prefix+" "+format, args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(levelDebug, "[DEBUG]", format, args...)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(levelInfo, "[INFO]", format, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(levelWarn, "[WARN]", format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(levelError, "[ERROR]", format, args...)
}

// Close flushes and closes all category log files. Called at shutdown.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
	initialized = false
}
