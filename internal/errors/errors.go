// Package errors defines the application error model and the structured
// logger built on top of it. Errors carry a category, a stable machine
// code, and optional context that flows into log output.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrorType is the broad category an error belongs to.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Stable error codes shared across packages.
const (
	ErrCodeFileNotFound    = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat   = "INVALID_FORMAT"
	ErrCodeEmptyInput      = "EMPTY_INPUT"
	ErrCodeEmptyTaxonomy   = "EMPTY_TAXONOMY"
	ErrCodeAIServiceFailed = "AI_SERVICE_FAILED"
	ErrCodeAITimeout       = "AI_TIMEOUT"
	ErrCodeAIOutputInvalid = "AI_OUTPUT_INVALID"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeMissingAPIKey   = "MISSING_API_KEY"
	ErrCodeNetworkTimeout  = "NETWORK_TIMEOUT"
	ErrCodeInvalidConfig   = "INVALID_CONFIG"
)

// AppError is the error type used throughout the application.
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithContext attaches a key/value pair that LogError will include.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func NewValidationError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: code, Message: message, Cause: cause}
}

func NewIOError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

func NewAIError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeAI, Code: code, Message: message, Cause: cause}
}

func NewNetworkError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeNetwork, Code: code, Message: message, Cause: cause}
}

func NewConfigError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Code: code, Message: message, Cause: cause}
}

func NewInternalError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// Logger emits JSON structured logs and knows how to unpack AppError
// fields into log attributes.
type Logger struct {
	logger *slog.Logger
}

// NewLogger builds a logger writing JSON to stdout at the given level.
func NewLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{logger: slog.New(handler)}
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New builds a logger from a textual level name.
func New(level string) (*Logger, error) {
	l, ok := logLevels[level]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}
	return NewLogger(l), nil
}

// LogError logs err at error level. AppError type, code, message, and
// context become individual log attributes.
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		l.logger.Error(message, append([]any{"error", err.Error()}, args...)...)
		return
	}

	attrs := []any{
		"error_type", appErr.Type,
		"error_code", appErr.Code,
		"error_message", appErr.Message,
	}
	for key, value := range appErr.Context {
		attrs = append(attrs, key, value)
	}
	attrs = append(attrs, args...)
	l.logger.Error(message, attrs...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}
