// Package logger configures the shared application logger. Logs go to a
// rotating file under the config directory; debug mode mirrors them to
// stderr so CLI output stays clean by default.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var std = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

// Config holds logger settings.
type Config struct {
	Debug     bool
	ConfigDir string
}

// Init points the shared logger at <configDir>/logs/daymark.log with
// rotation. Before Init is called logging goes to stderr.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "daymark.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	var writer io.Writer = fileWriter
	level := log.InfoLevel
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
		level = log.DebugLevel
	}

	std = log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
		Level:           level,
	})
	return nil
}

// Debug logs at debug level.
func Debug(msg any, keyvals ...any) { std.Debug(msg, keyvals...) }

// Info logs at info level.
func Info(msg any, keyvals ...any) { std.Info(msg, keyvals...) }

// Warn logs at warn level.
func Warn(msg any, keyvals ...any) { std.Warn(msg, keyvals...) }

// Error logs at error level.
func Error(msg any, keyvals ...any) { std.Error(msg, keyvals...) }
