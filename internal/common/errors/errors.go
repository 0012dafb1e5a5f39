// Package errors provides standardized error handling for the ZZIK API.
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

const (
	ErrCodeInvalidTier   ErrorCode = "INVALID_TIER"
	ErrCodeInvalidRegion ErrorCode = "INVALID_REGION"
	ErrCodeInvalidPeriod ErrorCode = "INVALID_PERIOD"

	ErrCodeExperienceNotFound    ErrorCode = "EXPERIENCE_NOT_FOUND"
	ErrCodeExperienceClosed      ErrorCode = "EXPERIENCE_CLOSED"
	ErrCodeExperienceFullyFunded ErrorCode = "EXPERIENCE_FULLY_FUNDED"

	ErrCodeCheckInDuplicate ErrorCode = "CHECKIN_DUPLICATE"

	ErrCodeWalletInsufficient ErrorCode = "WALLET_INSUFFICIENT_BALANCE"

	ErrCodeReviewDuplicate     ErrorCode = "REVIEW_DUPLICATE"
	ErrCodeReviewInvalidRating ErrorCode = "REVIEW_INVALID_RATING"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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

// NewInvalidPricingInputError creates a non-retryable pricing input error.
// Unsupported tier/region/period fails loudly; a silent default would
// misprice a transaction.
func NewInvalidPricingInputError(code ErrorCode, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   "Unsupported pricing input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExperienceNotFoundError creates a non-retryable not-found error.
func NewExperienceNotFoundError(experienceID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExperienceNotFound,
		Message:   "Experience not found",
		Details:   fmt.Sprintf("experienceId: %s", experienceID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExperienceClosedError creates a non-retryable business rule error for
// pledges against closed or fully funded experiences.
func NewExperienceClosedError(experienceID, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExperienceClosed,
		Message:   "Experience is not accepting pledges",
		Details:   fmt.Sprintf("experienceId: %s, status: %s", experienceID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExperienceFullyFundedError rejects pledges once the funding goal has
// been met.
func NewExperienceFullyFundedError(experienceID string, goal, pledged int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeExperienceFullyFunded,
		Message:   "Experience funding goal already reached",
		Details:   fmt.Sprintf("experienceId: %s, goal: %d, pledged: %d", experienceID, goal, pledged),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCheckInDuplicateError marks a repeated same-day check-in. Callers treat
// it as idempotent success, not a failure.
func NewCheckInDuplicateError(userID, experienceID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCheckInDuplicate,
		Message:   "Already checked in today",
		Details:   fmt.Sprintf("userId: %s, experienceId: %s", userID, experienceID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWalletInsufficientError creates a non-retryable balance error.
func NewWalletInsufficientError(balance, requested int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeWalletInsufficient,
		Message:   "Insufficient wallet balance",
		Details:   fmt.Sprintf("balance: %d, requested: %d", balance, requested),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReviewDuplicateError creates a non-retryable duplicate review error.
func NewReviewDuplicateError(userID, experienceID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReviewDuplicate,
		Message:   "Review already exists for this experience",
		Details:   fmt.Sprintf("userId: %s, experienceId: %s", userID, experienceID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedError creates a non-retryable authentication error.
func NewUnauthorizedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResourceNotFoundError creates a non-retryable not-found error.
func NewResourceNotFoundError(resource, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResourceNotFound,
		Message:   fmt.Sprintf("Resource not found: %s", resource),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   fmt.Sprintf("query: %s", query),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// httpStatusMapping maps internal error codes to HTTP status codes.
var httpStatusMapping = map[ErrorCode]int{
	ErrCodeInvalidTier:   400,
	ErrCodeInvalidRegion: 400,
	ErrCodeInvalidPeriod: 400,

	ErrCodeExperienceNotFound:    404,
	ErrCodeExperienceClosed:      409,
	ErrCodeExperienceFullyFunded: 409,

	ErrCodeCheckInDuplicate: 200, // idempotent success

	ErrCodeWalletInsufficient: 422,

	ErrCodeReviewDuplicate:     409,
	ErrCodeReviewInvalidRating: 400,

	ErrCodeValidationFailed: 400,
	ErrCodeUnauthorized:     401,
	ErrCodeResourceNotFound: 404,

	ErrCodeDatabaseConnectionFailed: 503,
	ErrCodeQueryExecutionFailed:     500,
	ErrCodeQueryTimeout:             504,
	ErrCodeSearchQueryFailed:        500,
	ErrCodeSearchTimeout:            504,
	ErrCodeNotificationSendFailed:   502,

	ErrCodeInternal: 500,
}

// HTTPStatus returns the HTTP status for an error code. Unknown codes map
// to 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return 500
}

// IsRetryableErrorCode checks if an error code is retryable by clients.
func IsRetryableErrorCode(code ErrorCode) bool {
	return HTTPStatus(code) >= 500
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TIER") || strings.Contains(codeStr, "REGION") || strings.Contains(codeStr, "PERIOD"):
		return "PRICING"
	case strings.Contains(codeStr, "EXPERIENCE"):
		return "EXPERIENCE"
	case strings.Contains(codeStr, "CHECKIN"):
		return "CHECKIN"
	case strings.Contains(codeStr, "WALLET"):
		return "WALLET"
	case strings.Contains(codeStr, "REVIEW"):
		return "REVIEW"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "UNAUTHORIZED"):
		return "AUTH"
	default:
		return "OTHER"
	}
}
