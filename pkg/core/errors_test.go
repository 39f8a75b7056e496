package core

import (
	"errors"
	"strings"
	"testing"
)

func TestExecutionError_Error(t *testing.T) {
	err := &ExecutionError{
		Category: ErrCategoryMatch,
		Code:     "test_error",
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestExecutionError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrNoActiveTree.WithCause(cause)

	got := err.Error()
	if !strings.Contains(got, "no active window tree") {
		t.Errorf("Error() = %q, should contain the message", got)
	}
	if !strings.Contains(got, "underlying error") {
		t.Errorf("Error() = %q, should contain 'underlying error'", got)
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestExecutionError_WithMessage(t *testing.T) {
	newErr := ErrNoMatch.WithMessage(`no element with text "OK"`)

	if newErr.Message != `no element with text "OK"` {
		t.Errorf("Message = %q", newErr.Message)
	}
	if newErr.Code != ErrNoMatch.Code {
		t.Error("WithMessage() changed code")
	}
	if ErrNoMatch.Message != "no element matched" {
		t.Error("WithMessage() modified original error")
	}
}

func TestExecutionError_WithDetails(t *testing.T) {
	original := &ExecutionError{
		Code:    "test",
		Message: "test",
		Details: map[string]interface{}{"existing": "value"},
	}

	newErr := original.WithDetails(map[string]interface{}{
		"index": 4,
		"count": 2,
	})

	if newErr.Details["index"] != 4 {
		t.Error("WithDetails() did not add new details")
	}
	if newErr.Details["existing"] != "value" {
		t.Error("WithDetails() did not preserve existing details")
	}
	if _, ok := original.Details["index"]; ok {
		t.Error("WithDetails() modified original error")
	}
}

func TestExecutionError_IsMatchesByCode(t *testing.T) {
	err := ErrIndexOutOfRange.WithMessage("index 3 of 2").WithDetails(map[string]interface{}{"n": 3})

	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Error("errors.Is() should match derived copies by code")
	}
	if errors.Is(err, ErrNoMatch) {
		t.Error("errors.Is() should not match a different code")
	}
}

func TestExecutionError_ErrorsIsCause(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrNoActiveTree.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the cause")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err      *ExecutionError
		category ErrorCategory
		code     string
	}{
		{ErrNoActiveTree, ErrCategoryTree, "no_active_tree"},
		{ErrNoMatch, ErrCategoryMatch, "no_match"},
		{ErrNotFound, ErrCategoryMatch, "not_found"},
		{ErrIndexOutOfRange, ErrCategoryMatch, "index_out_of_range"},
		{ErrActionFailed, ErrCategoryAction, "action_failed"},
		{ErrInvalidConfig, ErrCategoryConfig, "invalid_config"},
		{ErrInvalidCriteria, ErrCategoryConfig, "invalid_criteria"},
		{ErrUnknownTarget, ErrCategoryConfig, "unknown_target"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("Category = %s, want %s", tt.err.Category, tt.category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestNewExecutionError(t *testing.T) {
	err := NewExecutionError(ErrCategoryAction, "custom_error", "custom message")

	if err.Category != ErrCategoryAction {
		t.Errorf("Category = %s, want %s", err.Category, ErrCategoryAction)
	}
	if err.Code != "custom_error" {
		t.Errorf("Code = %s, want 'custom_error'", err.Code)
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Outcome
	}{
		{nil, OutcomeNone},
		{ErrNoActiveTree, OutcomeNoActiveTree},
		{ErrNoMatch.WithMessage("x"), OutcomeNoMatch},
		{ErrNotFound, OutcomeNotFound},
		{ErrIndexOutOfRange, OutcomeIndexOutOfRange},
		{ErrActionFailed, OutcomeActionFailed},
		{errors.New("plain"), OutcomeActionFailed},
	}

	for _, tt := range tests {
		if got := OutcomeOf(tt.err); got != tt.want {
			t.Errorf("OutcomeOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
