// Package errors provides structured error types for fwon.
// All errors include a category, code, message, and retryable flag so the
// CLI and library callers can classify failures without string matching.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryIO         ErrorCategory = "IO"
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryFormat     ErrorCategory = "FORMAT"
	ErrCategoryCatalog    ErrorCategory = "CATALOG"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// IO codes
	CodeCreateFailed = "CREATE_FAILED"
	CodeWriteFailed  = "WRITE_FAILED"
	CodeFlushFailed  = "FLUSH_FAILED"
	CodeCloseFailed  = "CLOSE_FAILED"
	CodeReadFailed   = "READ_FAILED"

	// Validation codes
	CodeInvalidConfig = "INVALID_CONFIG"
	CodeInvalidCount  = "INVALID_COUNT"

	// Format codes
	CodeMalformedRecord = "MALFORMED_RECORD"
	CodeMissingField    = "MISSING_FIELD"
	CodeDuplicateField  = "DUPLICATE_FIELD"

	// Catalog codes
	CodeRunNotFound = "RUN_NOT_FOUND"
	CodeQueryFailed = "QUERY_FAILED"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// FwonError is the structured error type used throughout the module.
type FwonError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *FwonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *FwonError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *FwonError) Is(target error) bool {
	var t *FwonError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new FwonError.
func New(category ErrorCategory, code, message string) *FwonError {
	return &FwonError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Wrap creates a new FwonError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *FwonError {
	return &FwonError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *FwonError) WithDetails(details map[string]interface{}) *FwonError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var fe *FwonError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a FwonError.
func GetCategory(err error) ErrorCategory {
	var fe *FwonError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a FwonError.
func GetCode(err error) string {
	var fe *FwonError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// isRetryable reports whether a category/code pair may be retried.
// A failed run is reported and abandoned, never retried, so every code maps to false.
func isRetryable(category ErrorCategory, code string) bool {
	return false
}

// Convenience constructors for common errors.

func NewIOError(code, message string, cause error) *FwonError {
	return Wrap(ErrCategoryIO, code, message, cause)
}

func NewValidationError(code, message string) *FwonError {
	return New(ErrCategoryValidation, code, message)
}

func NewFormatError(code, message string) *FwonError {
	return New(ErrCategoryFormat, code, message)
}

func NewCatalogError(code, message string, cause error) *FwonError {
	return Wrap(ErrCategoryCatalog, code, message, cause)
}

func NewInternalError(message string, cause error) *FwonError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
