package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "PAKRECHARGE_LOG_LEVEL"

// Initialize creates a new logger with the specified level and output.
// If level is empty, it checks the PAKRECHARGE_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
// An empty output writes to stdout; anything else is treated as a file path.
func Initialize(level string, output string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	if output == "" {
		output = "stdout"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if output == "stdout" || output == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// InitializeFromEnv initializes the logger from the PAKRECHARGE_LOG_LEVEL
// environment variable, writing to stdout.
func InitializeFromEnv() error {
	return Initialize("", "")
}

// SetLogger replaces the global logger. Intended for tests that want to
// observe log output.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
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

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogEvent logs a UI event received by a form session
func LogEvent(session string, name string, target string) {
	Debug("Form event",
		zap.String("session", session),
		zap.String("event", name),
		zap.String("target", target),
	)
}

// LogSelection logs a change of a canonical field
func LogSelection(group string, id string, value string) {
	Debug("Selection changed",
		zap.String("group", group),
		zap.String("option", id),
		zap.String("value", value),
	)
}

// LogSubmission logs a submission attempt entering the payment call.
// The phone number is masked to its last four digits.
func LogSubmission(attempt string, network string, phone string, amount string, method string) {
	Info("Top-up submitted",
		zap.String("attempt", attempt),
		zap.String("network", network),
		zap.String("phone", maskPhone(phone)),
		zap.String("amount", amount),
		zap.String("payment_method", method),
	)
}

// LogOutcome logs the result of a payment call
func LogOutcome(attempt string, succeeded bool, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("attempt", attempt),
		zap.Bool("succeeded", succeeded),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		Warn("Top-up failed", fields...)
		return
	}
	Info("Top-up completed", fields...)
}

// LogHTTPRequest logs an HTTP request
func LogHTTPRequest(remoteAddr string, method string, path string, status int, elapsed time.Duration) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)
}

// LogConnection logs a websocket session lifecycle event
func LogConnection(remoteAddr string, session string, event string) {
	Info("Session event",
		zap.String("remote_addr", remoteAddr),
		zap.String("session", session),
		zap.String("event", event),
	)
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
