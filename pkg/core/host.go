package core

import "time"

// TreeProvider supplies a fresh snapshot of the active window's tree.
// Implementations: uiautomator2, adb, mock.
// A nil root (or an error) means there is no active tree.
type TreeProvider interface {
	Root() (*Node, error)
}

// ActionExecutor performs a semantic action on a node.
// Returning false is a normal outcome, not an exception.
type ActionExecutor interface {
	Perform(node *Node, action Action, args *ActionArgs) bool
}

// GestureExecutor dispatches a synthesized pointer gesture.
// Dispatch is fire-and-forget: the engine never waits for completion.
type GestureExecutor interface {
	Dispatch(g Gesture)
}

// Host bundles the three collaborators a backend usually implements together.
type Host interface {
	TreeProvider
	ActionExecutor
	GestureExecutor
}

// Default gesture durations.
const (
	DefaultTapDuration   = 50 * time.Millisecond
	DefaultSwipeDuration = 500 * time.Millisecond
)

// Point is a screen coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Gesture is an ordered pointer path plus a duration.
// One point is a tap, two or more a swipe.
type Gesture struct {
	Points   []Point       `json:"points"`
	Duration time.Duration `json:"duration"`
}

// Tap creates a single-point gesture.
func Tap(x, y float64, duration time.Duration) Gesture {
	if duration <= 0 {
		duration = DefaultTapDuration
	}
	return Gesture{Points: []Point{{X: x, Y: y}}, Duration: duration}
}

// Swipe creates a straight two-point gesture.
func Swipe(from, to Point, duration time.Duration) Gesture {
	if duration <= 0 {
		duration = DefaultSwipeDuration
	}
	return Gesture{Points: []Point{from, to}, Duration: duration}
}

// TapAtCenter creates a tap at the exact center of the bounds.
func TapAtCenter(b Bounds, duration time.Duration) Gesture {
	x, y := b.Center()
	return Tap(x, y, duration)
}

// IsTap returns true for single-point gestures.
func (g Gesture) IsTap() bool {
	return len(g.Points) == 1
}
