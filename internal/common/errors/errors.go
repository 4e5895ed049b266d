// Package errors provides standardized error handling for the voice agent pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeModelNotTrained ErrorCode = "MODEL_NOT_TRAINED"
	ErrCodeModelCorrupt    ErrorCode = "MODEL_CORRUPT"
	ErrCodeModelMissing    ErrorCode = "MODEL_MISSING"

	ErrCodeDatasetFormatInvalid ErrorCode = "DATASET_FORMAT_INVALID"

	ErrCodeNERServiceFailed  ErrorCode = "NER_SERVICE_FAILED"
	ErrCodeNERServiceTimeout ErrorCode = "NER_SERVICE_TIMEOUT"

	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeAnalyticsIndexFailed ErrorCode = "ANALYTICS_INDEX_FAILED"
	ErrCodeNotificationFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewModelNotTrainedError is returned when inference is attempted before
// the intent model has been trained or loaded.
func NewModelNotTrainedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelNotTrained,
		Message:   "Intent model not trained or loaded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelCorruptError is returned when a persisted model blob fails
// structural validation.
func NewModelCorruptError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelCorrupt,
		Message:   "Persisted intent model is unreadable or invalid",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelMissingError is returned when no persisted model exists at the
// configured path. Callers are expected to degrade, not crash.
func NewModelMissingError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelMissing,
		Message:   "No persisted intent model found",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetFormatError is returned for malformed training input or
// class distributions too sparse to stratify.
func NewDatasetFormatError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetFormatInvalid,
		Message:   "Training dataset malformed or insufficient",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNERServiceError creates a retryable NER sidecar error.
func NewNERServiceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNERServiceFailed,
		Message:   "Location recognition service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNERServiceTimeoutError creates a retryable NER timeout error.
func NewNERServiceTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNERServiceTimeout,
		Message:   "Location recognition service timeout",
		Details:   "call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable parse-cache error. The cache
// is best-effort, so callers log this and continue.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Parse cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalyticsIndexError creates a retryable analytics indexing error.
func NewAnalyticsIndexError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalyticsIndexFailed,
		Message:   "Analytics document indexing failed",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationFailedError creates a retryable escalation delivery error.
func NewNotificationFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Escalation notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError creates a retryable generic external service error.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates a retryable timeout error for an external service.
func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
