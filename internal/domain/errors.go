package domain

import "fmt"

// ErrorType classifies a domain error for transport mapping and logging.
type ErrorType string

const (
	// ValidationError represents malformed or missing request input
	ValidationError ErrorType = "VALIDATION_ERROR"
	// NotFoundError represents a missing resource or a legitimate empty state
	NotFoundError ErrorType = "NOT_FOUND_ERROR"
	// AuthenticationError represents a missing, expired, or invalid session
	AuthenticationError ErrorType = "AUTHENTICATION_ERROR"
	// InternalError represents failures inside this service
	InternalError ErrorType = "INTERNAL_ERROR"
	// ExternalServiceError represents upstream academic API failures
	ExternalServiceError ErrorType = "EXTERNAL_SERVICE_ERROR"
)

// Well-known error codes surfaced by the upstream client and services.
const (
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE" // transient failure, retries exhausted
	CodeUpstreamRejected    = "UPSTREAM_REJECTED"    // 4xx from upstream, not retried
	CodeNoPeriods           = "NO_PERIODS"           // no academic period could be resolved
	CodeTokenExchange       = "TOKEN_EXCHANGE_FAILED"
	CodeSessionInvalid      = "SESSION_INVALID"
)

// DomainError carries a typed error with enough context for logging and
// for handlers to choose an HTTP status.
type DomainError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error.
func NewValidationError(code, message string, details map[string]interface{}) *DomainError {
	return &DomainError{
		Type:    ValidationError,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{
		Type:    NotFoundError,
		Code:    code,
		Message: message,
	}
}

// NewAuthenticationError creates a new authentication error.
func NewAuthenticationError(code, message string) *DomainError {
	return &DomainError{
		Type:    AuthenticationError,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(code, message string, cause error) *DomainError {
	return &DomainError{
		Type:    InternalError,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewExternalServiceError creates a new external service error.
func NewExternalServiceError(code, message string, cause error) *DomainError {
	return &DomainError{
		Type:    ExternalServiceError,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsUpstreamFailure reports whether err is an upstream academic API failure.
// Dashboard assembly uses this to decide when a session must be invalidated,
// since an expired token is indistinguishable from a transient outage at
// this boundary.
func IsUpstreamFailure(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Type == ExternalServiceError
}

// IsNoPeriods reports whether err is the empty-state "no academic periods"
// condition, which callers must render as "no data", not as an error page.
func IsNoPeriods(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == CodeNoPeriods
}
