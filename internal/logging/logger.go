package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "OTPVIEW_LOG_LEVEL"

// LogFileEnvVar selects where log lines go. Defaults to stderr so log output
// never lands in the middle of the field on stdout.
const LogFileEnvVar = "OTPVIEW_LOG_FILE"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks OTPVIEW_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := os.Getenv(LogFileEnvVar)
	if output == "" {
		output = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// parseLevel maps a level name to a zap level. Unknown names fall back to info.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitializeFromEnv initializes the logger from the OTPVIEW_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogEdit logs a state change of the field. The code itself is never
// written; only its length and how many cells hold something.
func LogEdit(op string, index int, cells []string) {
	filled, length := 0, 0
	for _, c := range cells {
		if c != "" {
			filled++
		}
		length += len([]rune(c))
	}
	Debug("Field edit",
		zap.String("op", op),
		zap.Int("cell", index),
		zap.Int("value_length", length),
		zap.Int("filled_cells", filled),
		zap.Int("cells", len(cells)),
	)
}

// LogFocus logs a focus transition
func LogFocus(from, to int, reason string) {
	Debug("Focus change",
		zap.Int("from", from),
		zap.Int("to", to),
		zap.String("reason", reason),
	)
}

// LogAutofill logs an autofill listener event
func LogAutofill(remoteAddr string, event string) {
	Info("Autofill event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// MaskCode replaces every rune of a code with '•' so it can appear in logs.
func MaskCode(code string) string {
	return strings.Repeat("•", len([]rune(code)))
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
