package errors

import (
	"errors"
	"fmt"
)

var (
	// Transaction errors
	ErrInvalidCustomerID      = errors.New("invalid customer ID")
	ErrInvalidPurchaseRequest = errors.New("invalid purchase request")
	ErrInsufficientQuota      = errors.New("insufficient quota")

	// Policy errors
	ErrPolicyNotFound    = errors.New("no policy found for category")
	ErrPolicyUnavailable = errors.New("policy lookup unavailable")

	// Document errors
	ErrDocumentNotFound = errors.New("no document found")

	// Session errors
	ErrSessionInvalid = errors.New("invalid or expired session")
	ErrUnauthorized   = errors.New("unauthorized")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// QuotaError reports a purchase line that would exceed the remaining quota
// for its category within the active policy window.
type QuotaError struct {
	Category  string
	Requested int64
	Remaining int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("insufficient quota for category %s: requested %d, remaining %d",
		e.Category, e.Requested, e.Remaining)
}

func (e *QuotaError) Unwrap() error {
	return ErrInsufficientQuota
}

// NewQuotaError creates a new quota error
func NewQuotaError(category string, requested, remaining int64) *QuotaError {
	return &QuotaError{
		Category:  category,
		Requested: requested,
		Remaining: remaining,
	}
}

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
