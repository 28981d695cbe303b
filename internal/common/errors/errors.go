// Package errors provides standardized error handling for the intake wizard.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Validation errors are user-correctable and never retried; persistence
// errors are surfaced at the submit boundary and may be retried.
const (
	ErrCodeMissingName       ErrorCode = "MISSING_NAME"
	ErrCodeInvalidPhone      ErrorCode = "INVALID_PHONE"
	ErrCodeNonNumericRevenue ErrorCode = "NON_NUMERIC_REVENUE"

	ErrCodeIntakeIncomplete ErrorCode = "INTAKE_INCOMPLETE"

	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeSinkUnreachable      ErrorCode = "SINK_UNREACHABLE"
	ErrCodeSinkAuthFailed       ErrorCode = "SINK_AUTH_FAILED"
	ErrCodeSinkBadResponse      ErrorCode = "SINK_BAD_RESPONSE"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeCatalogInvalid ErrorCode = "CATALOG_INVALID"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
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

// ==========================
// 2. Error Constructors
// ==========================

// NewMissingNameError creates a non-retryable validation error for a blank name.
func NewMissingNameError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingName,
		Message:   "Customer name is required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPhoneError creates a non-retryable validation error for a bad phone number.
func NewInvalidPhoneError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPhone,
		Message:   "Phone number must be 10-11 digits with a mobile carrier prefix",
		Details:   fmt.Sprintf("input: %s", raw),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNonNumericRevenueError creates a non-retryable validation error for revenue input.
func NewNonNumericRevenueError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNonNumericRevenue,
		Message:   "Monthly revenue must contain digits",
		Details:   fmt.Sprintf("input: %s", raw),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntakeIncompleteError creates a non-retryable state error for a submit
// attempted before step 1 completed.
func NewIntakeIncompleteError() *StandardError {
	return &StandardError{
		Code:      ErrCodeIntakeIncomplete,
		Message:   "Submit attempted without completed intake",
		Details:   "return to step 1 and complete the applicant form",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable session lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable session store error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSinkUnreachableError creates a retryable persistence error.
func NewSinkUnreachableError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSinkUnreachable,
		Message:   fmt.Sprintf("Persistence sink '%s' unreachable", sink),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSinkAuthFailedError creates a non-retryable persistence auth error.
func NewSinkAuthFailedError(sink, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSinkAuthFailed,
		Message:   fmt.Sprintf("Persistence sink '%s' rejected credentials", sink),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSinkBadResponseError creates a retryable persistence error for a malformed response.
func NewSinkBadResponseError(sink, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSinkBadResponse,
		Message:   fmt.Sprintf("Persistence sink '%s' returned a malformed response", sink),
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogInvalidError creates a non-retryable rule catalog error.
func NewCatalogInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "Fund rule catalog failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSinkUnreachable,
		ErrCodeSinkBadResponse,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	default:
		return 0 // Validation/state errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "SINK") || strings.Contains(codeStr, "DATABASE"):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case codeStr == string(ErrCodeIntakeIncomplete):
		return "STATE"
	default:
		return "VALIDATION"
	}
}
