package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestFwonError_Error(t *testing.T) {
	err := New(ErrCategoryFormat, CodeMissingField, "missing UserID")
	expected := "[FORMAT:MISSING_FIELD] missing UserID"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestFwonError_ErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrCategoryIO, CodeWriteFailed, "write failed", cause)
	expected := "[IO:WRITE_FAILED] write failed: disk full"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestFwonError_Unwrap(t *testing.T) {
	err := NewIOError(CodeCreateFailed, "open destination", fs.ErrPermission)
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("Unwrap should allow errors.Is to find the cause")
	}
}

func TestFwonError_Is(t *testing.T) {
	err1 := New(ErrCategoryIO, CodeFlushFailed, "first")
	err2 := New(ErrCategoryIO, CodeFlushFailed, "second")
	err3 := New(ErrCategoryIO, CodeCloseFailed, "different code")

	if !errors.Is(err1, err2) {
		t.Error("errors with same category+code should match via Is")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match via Is")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		code     string
	}{
		{ErrCategoryIO, CodeCreateFailed},
		{ErrCategoryIO, CodeWriteFailed},
		{ErrCategoryIO, CodeFlushFailed},
		{ErrCategoryValidation, CodeInvalidCount},
		{ErrCategoryFormat, CodeMalformedRecord},
		{ErrCategoryCatalog, CodeQueryFailed},
		{ErrCategoryInternal, CodeUnexpected},
	}

	for _, tt := range tests {
		err := New(tt.category, tt.code, "test")
		if IsRetryable(err) {
			t.Errorf("%s:%s should not be retryable", tt.category, tt.code)
		}
	}
	if IsRetryable(fmt.Errorf("plain")) {
		t.Error("plain errors are never retryable")
	}
}

func TestGetCategory(t *testing.T) {
	err := NewCatalogError(CodeRunNotFound, "no such run", nil)
	if GetCategory(err) != ErrCategoryCatalog {
		t.Errorf("got %q, want %q", GetCategory(err), ErrCategoryCatalog)
	}
	if GetCategory(fmt.Errorf("plain error")) != "" {
		t.Error("non-FwonError should return empty category")
	}
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("harness: %w", NewIOError(CodeFlushFailed, "flush", nil))
	if GetCode(wrapped) != CodeFlushFailed {
		t.Errorf("got %q, want %q", GetCode(wrapped), CodeFlushFailed)
	}
	if GetCode(fmt.Errorf("plain error")) != "" {
		t.Error("non-FwonError should return empty code")
	}
}

func TestWithDetails(t *testing.T) {
	err := NewFormatError(CodeDuplicateField, "field repeated")
	detailed := err.WithDetails(map[string]interface{}{"field": "Balance"})

	if detailed.Details["field"] != "Balance" {
		t.Error("WithDetails should set details")
	}
	if err.Details != nil {
		t.Error("WithDetails should not modify original")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	cause := fmt.Errorf("io error")

	v := NewValidationError(CodeInvalidConfig, "bad buffer size")
	if v.Category != ErrCategoryValidation || v.Code != CodeInvalidConfig {
		t.Error("NewValidationError mismatch")
	}

	s := NewIOError(CodeWriteFailed, "write", cause)
	if s.Category != ErrCategoryIO || !errors.Is(s, cause) {
		t.Error("NewIOError mismatch")
	}

	f := NewFormatError(CodeMalformedRecord, "no header")
	if f.Category != ErrCategoryFormat {
		t.Error("NewFormatError mismatch")
	}

	c := NewCatalogError(CodeQueryFailed, "select", cause)
	if c.Category != ErrCategoryCatalog || !errors.Is(c, cause) {
		t.Error("NewCatalogError mismatch")
	}

	i := NewInternalError("unexpected", cause)
	if i.Category != ErrCategoryInternal || i.Code != CodeUnexpected {
		t.Error("NewInternalError mismatch")
	}
}
