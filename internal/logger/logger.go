// ABOUTME: Structured logging for habits backed by charmbracelet/log.
// ABOUTME: Writes to a rotating file under the data dir, mirrored to stderr in debug mode.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It stays nil until Init runs,
// which turns every helper below into a no-op.
var Logger *log.Logger

// logFile is the writer behind Logger, closed when Init runs again.
var logFile *lumberjack.Logger

// Config holds logger configuration.
type Config struct {
	Debug   bool
	DataDir string
}

// LogPath returns the log file location for a data directory.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "habits.log")
}

// Init initializes the global logger, replacing any earlier one.
func Init(cfg Config) error {
	path := LogPath(cfg.DataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	if err := Close(); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	var writer io.Writer = fileWriter
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	// Skip the package helpers so callers report their own file.
	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		CallerOffset:    1,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "habits",
	})
	logFile = fileWriter
	return nil
}

// Close closes the log file and resets Logger to a no-op.
func Close() error {
	Logger = nil
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
