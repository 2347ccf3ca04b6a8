// Package logger provides the process-wide structured logger.
package logger

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger wraps the shared charmbracelet logger.
type Logger struct {
	*log.Logger
}

var (
	instance *Logger
	once     sync.Once
)

// GetLogger returns the process-wide logger instance.
func GetLogger() *Logger {
	once.Do(func() {
		instance = &Logger{
			Logger: log.NewWithOptions(os.Stderr, log.Options{
				Level:           log.InfoLevel,
				ReportTimestamp: true,
				TimeFormat:      "15:04:05",
			}),
		}
	})
	return instance
}

// SetLogLevel applies a named level to this logger and to the package-level
// default, which the engine packages log through. Unknown names fall back
// to info.
func (l *Logger) SetLogLevel(level string) {
	lv, err := log.ParseLevel(level)
	if err != nil {
		lv = log.InfoLevel
	}
	l.SetLevel(lv)
	log.SetLevel(lv)
}

// ConfigureFromEnv lets FLOTILLA_LOG_LEVEL override the configured level.
func (l *Logger) ConfigureFromEnv() {
	if level := os.Getenv("FLOTILLA_LOG_LEVEL"); level != "" {
		l.SetLogLevel(level)
	}
}

func Debug(msg string, keyvals ...any) { GetLogger().Debug(msg, keyvals...) }

func Info(msg string, keyvals ...any) { GetLogger().Info(msg, keyvals...) }

func Warn(msg string, keyvals ...any) { GetLogger().Warn(msg, keyvals...) }

func Error(msg string, keyvals ...any) { GetLogger().Error(msg, keyvals...) }
