package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures InitLogger
type Options struct {
	// Env prefixes the log file name
	Env string

	// Level is the minimum console level: debug, info or warning
	Level string

	// File is the debug log path. Empty means logs/<env>_<timestamp>.log
	File string

	// Stdout and Stderr default to os.Stdout and os.Stderr
	Stdout io.Writer
	Stderr io.Writer
}

// ParseLevel converts a --log-level value to a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warning", "warn":
		return zapcore.WarnLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (expected debug, info or warning)", level)
	}
}

// InitLogger initializes a zap logger with three outputs:
// stdout from the chosen level up to warning, stderr for errors,
// and a JSON file that receives everything at debug level.
// The returned function flushes the logger and closes the file.
func InitLogger(opts Options) (*zap.Logger, func() error, error) {
	consoleLevel, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	logFile, err := openLogFile(opts)
	if err != nil {
		return nil, nil, err
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Console encoder (human-readable)
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncoderConfig)

	// File encoder (JSON)
	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	fileEncoder := zapcore.NewJSONEncoder(fileEncoderConfig)

	stdoutLevels := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= consoleLevel && l < zapcore.ErrorLevel
	})
	stderrLevels := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(stdout), stdoutLevels),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(stderr), stderrLevels),
		zapcore.NewCore(fileEncoder, zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	closeLog := func() error {
		// Syncing a terminal fails on some platforms; only the file matters here
		_ = logger.Sync()
		return logFile.Close()
	}

	return logger, closeLog, nil
}

// openLogFile opens the debug log for appending, creating its directory if needed
func openLogFile(opts Options) (*os.File, error) {
	logFileName := opts.File
	if logFileName == "" {
		env := opts.Env
		if env == "" {
			env = "default"
		}
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		logFileName = filepath.Join("logs", fmt.Sprintf("%s_%s.log", env, timestamp))
	}

	if err := os.MkdirAll(filepath.Dir(logFileName), 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return logFile, nil
}
