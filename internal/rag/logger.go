package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunLogger writes a per-invocation log file under <base>/logs.
// It is deliberately quiet on stdout; the CLI owns user-facing output.
type RunLogger struct {
	mu   sync.Mutex
	file *os.File
}

var globalLogger *RunLogger
var loggerMu sync.Mutex

// InitRunLogger opens a log file named after the subcommand and timestamp
func InitRunLogger(baseDir, subcommand string) (*RunLogger, error) {
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	logFile := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", subcommand, timestamp))

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := &RunLogger{file: file}

	loggerMu.Lock()
	globalLogger = logger
	loggerMu.Unlock()

	logger.log("INFO", "logger initialized", map[string]interface{}{
		"command":  subcommand,
		"log_file": logFile,
	})
	return logger, nil
}

func (l *RunLogger) log(level string, message string, details map[string]interface{}) {
	if l == nil {
		return
	}
	logLine := fmt.Sprintf("[%s] %s: %s", time.Now().Format("2006-01-02 15:04:05.000"), level, message)
	for k, v := range details {
		logLine += fmt.Sprintf(" %s=%v", k, v)
	}
	logLine += "\n"

	l.mu.Lock()
	defer l.mu.Unlock()
	l.file.WriteString(logLine)
}

func (l *RunLogger) Info(message string, details map[string]interface{}) {
	l.log("INFO", message, details)
}

func (l *RunLogger) Warn(message string, details map[string]interface{}) {
	l.log("WARN", message, details)
}

func (l *RunLogger) Error(message string, details map[string]interface{}) {
	l.log("ERROR", message, details)
}

func (l *RunLogger) Debug(message string, details map[string]interface{}) {
	l.log("DEBUG", message, details)
}

func (l *RunLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func getGlobalLogger() *RunLogger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return globalLogger
}

// LogInfo logs through the global logger when one is installed
func LogInfo(message string, details map[string]interface{}) {
	if logger := getGlobalLogger(); logger != nil {
		logger.Info(message, details)
	}
}

func LogWarn(message string, details map[string]interface{}) {
	if logger := getGlobalLogger(); logger != nil {
		logger.Warn(message, details)
	}
}

func LogError(message string, details map[string]interface{}) {
	if logger := getGlobalLogger(); logger != nil {
		logger.Error(message, details)
	}
}

func LogDebug(message string, details map[string]interface{}) {
	if logger := getGlobalLogger(); logger != nil {
		logger.Debug(message, details)
	}
}
