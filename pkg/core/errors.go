package core

import (
	"fmt"
)

// ExecutionError represents a structured error with category and details
type ExecutionError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: no_match, index_out_of_range, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an ExecutionError with the same code.
// This lets errors.Is(err, ErrNoMatch) succeed on derived copies.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details
func (e *ExecutionError) WithDetails(details map[string]interface{}) *ExecutionError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors. Each maps to one Outcome via OutcomeOf.
var (
	// Tree errors
	ErrNoActiveTree = &ExecutionError{
		Category: ErrCategoryTree,
		Code:     "no_active_tree",
		Message:  "no active window tree",
	}

	// Match errors
	ErrNoMatch = &ExecutionError{
		Category: ErrCategoryMatch,
		Code:     "no_match",
		Message:  "no element matched",
	}
	ErrNotFound = &ExecutionError{
		Category: ErrCategoryMatch,
		Code:     "not_found",
		Message:  "element not found",
	}
	ErrIndexOutOfRange = &ExecutionError{
		Category: ErrCategoryMatch,
		Code:     "index_out_of_range",
		Message:  "match index out of range",
	}

	// Action errors
	ErrActionFailed = &ExecutionError{
		Category: ErrCategoryAction,
		Code:     "action_failed",
		Message:  "action was not performed",
	}

	// Config errors
	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
	ErrInvalidCriteria = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_criteria",
		Message:  "invalid match criteria",
	}
	ErrUnknownTarget = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "unknown_target",
		Message:  "unknown target",
	}
)

// NewExecutionError creates a new ExecutionError with the given parameters
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// OutcomeOf maps a predefined error to its outcome. Unknown errors map to
// OutcomeActionFailed.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeNone
	}
	e, ok := err.(*ExecutionError)
	if !ok {
		return OutcomeActionFailed
	}
	switch e.Code {
	case ErrNoActiveTree.Code:
		return OutcomeNoActiveTree
	case ErrNoMatch.Code:
		return OutcomeNoMatch
	case ErrNotFound.Code:
		return OutcomeNotFound
	case ErrIndexOutOfRange.Code:
		return OutcomeIndexOutOfRange
	default:
		return OutcomeActionFailed
	}
}
