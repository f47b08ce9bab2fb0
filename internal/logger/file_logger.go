package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger writes a run's log to a file under the log directory
type Logger struct {
	experiment string
	logFile    *os.File
	logger     *log.Logger
	mu         sync.Mutex
	logDir     string
	logPath    string
	minLevel   int
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelDebug      LogLevel = "DEBUG"
	LogLevelInfo       LogLevel = "INFO"
	LogLevelGeneration LogLevel = "GEN"
	LogLevelWarning    LogLevel = "WARN"
	LogLevelError      LogLevel = "ERROR"
)

// DefaultLogDir is where NewLogger puts log files
const DefaultLogDir = "logs"

func severity(level LogLevel) int {
	switch level {
	case LogLevelDebug:
		return 0
	case LogLevelInfo, LogLevelGeneration:
		return 1
	case LogLevelWarning:
		return 2
	default:
		return 3
	}
}

// ParseLevel maps a LOG_LEVEL value (debug, info, warn, error) to a level.
// Unknown values mean info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarning
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// NewLogger creates a file logger for the experiment in DefaultLogDir
func NewLogger(experiment string, level LogLevel) (*Logger, error) {
	return NewLoggerInDir(DefaultLogDir, experiment, level)
}

// NewLoggerInDir creates a file logger writing <experiment>_<date>.log in dir.
// Entries below level are dropped.
func NewLoggerInDir(dir, experiment string, level LogLevel) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.log", experiment, time.Now().Format("2006-01-02"))
	logPath := filepath.Join(dir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		experiment: experiment,
		logFile:    file,
		logger:     log.New(file, "", 0),
		logDir:     dir,
		logPath:    logPath,
		minLevel:   severity(level),
	}

	l.writeSessionHeader()

	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🧬 EVOLUTION RUN STARTED
================================================================================
Experiment: %s
Started: %s
Log File: %s
================================================================================
`, l.experiment, time.Now().Format("2006-01-02 15:04:05"), filepath.Base(l.logPath))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	if severity(level) < l.minLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.Log(LogLevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogGeneration records the fitness summary of one generation
func (l *Logger) LogGeneration(generation int, best, mean, stddev float64, mutations int) {
	l.Log(LogLevelGeneration, "gen=%d best=%.4f mean=%.4f stddev=%.4f mutations=%d",
		generation, best, mean, stddev, mutations)
}

// LogConvergence records how a run ended
func (l *Logger) LogConvergence(converged bool, generations int, mean float64) {
	if converged {
		l.Info("Breaking on generation %d, average fitness is %f", generations, mean)
		return
	}
	l.Warning("Exceeded %d generations, average fitness is %f", generations, mean)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
🛑 EVOLUTION RUN ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05"))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
