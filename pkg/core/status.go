package core

// Outcome classifies how an interaction request ended
type Outcome int

const (
	OutcomeNone                Outcome = iota // Not yet resolved
	OutcomeDirectSuccess                      // Semantic action on the target succeeded
	OutcomeAncestorSuccess                    // Semantic action on an ancestor succeeded
	OutcomeGestureFallbackUsed                // Gesture dispatched; delivery unconfirmed
	OutcomeNoActiveTree                       // No tree was available
	OutcomeNoMatch                            // Search found nothing
	OutcomeNotFound                           // Ordinal or identifier lookup found nothing
	OutcomeIndexOutOfRange                    // n-th match requested beyond the match count
	OutcomeActionFailed                       // Every tier declined
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeDirectSuccess:
		return "direct-success"
	case OutcomeAncestorSuccess:
		return "ancestor-success"
	case OutcomeGestureFallbackUsed:
		return "gesture-fallback-used"
	case OutcomeNoActiveTree:
		return "no-active-tree"
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeIndexOutOfRange:
		return "index-out-of-range"
	case OutcomeActionFailed:
		return "action-failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output carries names.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Acted returns true if something was done on the device, confirmed or not.
func (o Outcome) Acted() bool {
	switch o {
	case OutcomeDirectSuccess, OutcomeAncestorSuccess, OutcomeGestureFallbackUsed:
		return true
	default:
		return false
	}
}

// Confirmed returns true only when the host acknowledged a semantic action.
// A gesture fallback is never confirmed.
func (o Outcome) Confirmed() bool {
	return o == OutcomeDirectSuccess || o == OutcomeAncestorSuccess
}

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone   ErrorCategory = iota // No error
	ErrCategoryTree                        // No active tree, host source failure
	ErrCategoryMatch                       // No match, not found, index out of range
	ErrCategoryAction                      // All fallback tiers declined
	ErrCategoryConfig                      // Invalid configuration, criteria or target
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryTree:
		return "tree"
	case ErrCategoryMatch:
		return "match"
	case ErrCategoryAction:
		return "action"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}
