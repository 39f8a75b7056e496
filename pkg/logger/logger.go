// Package logger provides the process-wide structured logger.
// Logging is off (io.Discard) until Init or Configure is called.
package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls level, format and file rotation.
type Config struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	File       string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"` // text or json
	MaxSize    int    `json:"max_size,omitempty" yaml:"max_size,omitempty" toml:"max_size,omitempty"`          // MB, default 100
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty" toml:"max_backups,omitempty"` // default 3
	MaxAge     int    `json:"max_age,omitempty" yaml:"max_age,omitempty" toml:"max_age,omitempty"`             // days, default 7
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty" toml:"compress,omitempty"`
}

var (
	globalLogger = newDiscardLogger()
	rotator      *lumberjack.Logger
	output       io.Writer = io.Discard
	mu           sync.Mutex
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	return l
}

// Init initializes the global logger with the specified log file path at debug level.
func Init(logPath string) error {
	return Configure(Config{Level: "debug", File: logPath})
}

// Configure replaces the global logger. An empty File keeps output discarded.
func Configure(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000000",
			DisableColors:   true,
		})
	}

	if cfg.File == "" {
		output = io.Discard
	} else {
		maxSize := cfg.MaxSize
		if maxSize <= 0 {
			maxSize = 100
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		maxAge := cfg.MaxAge
		if maxAge <= 0 {
			maxAge = 7
		}
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   cfg.Compress,
		}
		output = rotator
	}
	l.SetOutput(output)

	globalLogger = l
	return nil
}

// SetOutput redirects the global logger, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	output = w
	globalLogger.SetOutput(w)
}

// Close closes the log file and returns to discarding output.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	output = io.Discard
	globalLogger.SetOutput(io.Discard)
}

func closeLocked() {
	if rotator != nil {
		rotator.Close()
		rotator = nil
	}
}

func current() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return globalLogger
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

// WithOperation returns an entry tagged with an operation id and name.
func WithOperation(id, op string) *logrus.Entry {
	return current().WithFields(logrus.Fields{"op_id": id, "op": op})
}

// WithFields returns an entry carrying the given fields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return current().WithFields(logrus.Fields(fields))
}

// GetWriter returns the underlying writer for use by drivers.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	return output
}
