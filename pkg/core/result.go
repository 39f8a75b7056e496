package core

import (
	"time"
)

// ActionResult captures the outcome of a single interaction request
type ActionResult struct {
	// Core outcome
	Outcome  Outcome       `json:"outcome"`
	Success  bool          `json:"success"`
	Error    error         `json:"-"`
	Duration time.Duration `json:"duration"`

	// Human-readable output
	Message string `json:"message,omitempty"`

	// Element resolved by the search (the original target)
	Element *ElementInfo `json:"element,omitempty"`

	// Actor is the node that actually performed the action.
	// It differs from Element when an ancestor took the click.
	Actor *ElementInfo `json:"actor,omitempty"`

	// Gesture is set when the gesture tier was used
	Gesture *Gesture `json:"gesture,omitempty"`

	// Generic data for query operations (text lists, bounds, descriptions)
	Data interface{} `json:"data,omitempty"`

	// OperationID correlates the result with log lines
	OperationID string `json:"operationId,omitempty"`
}

// ErrorText returns the error message or "".
func (r *ActionResult) ErrorText() string {
	if r == nil || r.Error == nil {
		return ""
	}
	return r.Error.Error()
}

// Acted returns true if the outcome is any of the three acted kinds.
func (r *ActionResult) Acted() bool {
	return r != nil && r.Outcome.Acted()
}

// Succeeded builds a result for an acted outcome.
func Succeeded(outcome Outcome, elem *Node, msg string) *ActionResult {
	return &ActionResult{
		Outcome: outcome,
		Success: true,
		Element: InfoOf(elem),
		Message: msg,
	}
}

// Failed builds a result for a failed request. The outcome is derived from err.
func Failed(err error, msg string) *ActionResult {
	return &ActionResult{
		Outcome: OutcomeOf(err),
		Success: false,
		Error:   err,
		Message: msg,
	}
}

// BulkResult captures the outcome of a bulk sequence
type BulkResult struct {
	Attempted int             `json:"attempted"` // actions tried, duplicates excluded
	Succeeded int             `json:"succeeded"` // attempts with an acted outcome
	Skipped   int             `json:"skipped"`   // duplicates skipped without counting
	Results   []*ActionResult `json:"results,omitempty"`

	// Outcome and Error are set only when the sequence could not start.
	Outcome Outcome `json:"outcome"`
	Error   error   `json:"-"`

	OperationID string `json:"operationId,omitempty"`
}

// FailedBulk builds a bulk result for a sequence that could not start.
func FailedBulk(err error) *BulkResult {
	return &BulkResult{Outcome: OutcomeOf(err), Error: err}
}

// Add records one attempt.
func (b *BulkResult) Add(r *ActionResult) {
	b.Attempted++
	if r.Acted() {
		b.Succeeded++
	}
	b.Results = append(b.Results, r)
}

// Failures returns Attempted - Succeeded.
func (b *BulkResult) Failures() int {
	return b.Attempted - b.Succeeded
}

// CountResult reports success counts for class-wide text operations
type CountResult struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`

	Outcome Outcome `json:"outcome"`
	Error   error   `json:"-"`

	OperationID string `json:"operationId,omitempty"`
}

// FailedCount builds a count result for an operation that could not start.
func FailedCount(err error) *CountResult {
	return &CountResult{Outcome: OutcomeOf(err), Error: err}
}
