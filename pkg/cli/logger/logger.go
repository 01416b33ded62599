package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	logger  = newStderrLogger()
	logFile *os.File
)

func newStderrLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Init sends log output to a timestamped file under dir. The terminal is
// owned by the TUI, so nothing is written to stdout. If the file cannot be
// opened, logs go to stderr.
func Init(dir, level string) error {
	mu.Lock()
	defer mu.Unlock()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	if err := os.MkdirAll(dir, 0755); err != nil {
		l.SetOutput(os.Stderr)
		logger = l
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := filepath.Join(dir, fmt.Sprintf("cli-%s.log", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l.SetOutput(os.Stderr)
		logger = l
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	l.SetOutput(f)
	logger = l
	return nil
}

// Get returns the shared logger
func Get() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Log writes an info log message
func Log(format string, v ...interface{}) {
	Get().Infof(format, v...)
}

// LogError writes an error log message
func LogError(err error, format string, v ...interface{}) {
	Get().WithError(err).Errorf(format, v...)
}

// CloseLog closes the log file
func CloseLog() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
