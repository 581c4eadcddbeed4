package logging

import (
	"fmt"
	"os"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// InitGlobalLogger builds the process logger from LOG_LEVEL and LOG_FILE
// and installs it. Call once at startup, before anything logs.
func InitGlobalLogger() {
	config := Config{Level: ParseLevel(os.Getenv("LOG_LEVEL"))}

	// Write to a file only when one is configured, stdout otherwise.
	logFile := os.Getenv("LOG_FILE")
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			panic(fmt.Sprintf("failed to open log file %s: %v", logFile, err))
		}
		config.Output = file
	}

	logger, err := NewZapLogger(config)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	SetGlobalLogger(logger)

	logger.Info("Logger initialized",
		String("level", config.Level.String()),
		String("log_file", logFile),
	)
}

// SetGlobalLogger replaces the process logger. Tests use this to capture
// output.
func SetGlobalLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// GetGlobalLogger returns the process logger, building an info-level
// stdout logger on first use if InitGlobalLogger was never called.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		logger, err := NewZapLogger(Config{Level: LevelInfo})
		if err != nil {
			panic(fmt.Sprintf("failed to initialize fallback logger: %v", err))
		}
		globalLogger = logger
	}
	return globalLogger
}

// MustSync flushes buffered entries. Call before process exit.
func MustSync() {
	if z, ok := GetGlobalLogger().(*ZapAdapter); ok {
		_ = z.Sync()
	}
}

// Info logs through the process logger.
func Info(msg string, fields ...Field) {
	GetGlobalLogger().Info(msg, fields...)
}

// Warn logs through the process logger.
func Warn(msg string, fields ...Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

// Error logs through the process logger.
func Error(msg string, err error, fields ...Field) {
	GetGlobalLogger().Error(msg, err, fields...)
}
