// Package interact performs actions on resolved nodes with fallback.
package interact

import (
	"fmt"
	"time"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
)

// Dispatcher runs the three-tier fallback chain:
// direct action, then the nearest capable ancestor, then a tap gesture at
// the original node's center.
type Dispatcher struct {
	Actions  core.ActionExecutor
	Gestures core.GestureExecutor // nil disables the gesture tier

	// TapDuration is the fallback tap stroke length. Zero means core.DefaultTapDuration.
	TapDuration time.Duration
}

// NewDispatcher creates a dispatcher over the given executors.
func NewDispatcher(actions core.ActionExecutor, gestures core.GestureExecutor) *Dispatcher {
	return &Dispatcher{Actions: actions, Gestures: gestures, TapDuration: core.DefaultTapDuration}
}

// Click dispatches a click on n.
func (d *Dispatcher) Click(n *core.Node) *core.ActionResult {
	return d.Dispatch(n, core.ActionClick, nil)
}

// Dispatch performs action on n, short-circuiting on the first tier that succeeds.
func (d *Dispatcher) Dispatch(n *core.Node, action core.Action, args *core.ActionArgs) *core.ActionResult {
	start := time.Now()
	result := d.dispatch(n, action, args)
	result.Duration = time.Since(start)
	return result
}

func (d *Dispatcher) dispatch(n *core.Node, action core.Action, args *core.ActionArgs) *core.ActionResult {
	if n == nil {
		return core.Failed(core.ErrNoMatch, "no node to act on")
	}

	// Tier 1: direct
	if d.Actions != nil && n.Can(action) {
		if d.Actions.Perform(n, action, args) {
			logger.Debug("%s on %s succeeded directly", action, n.Bounds)
			r := core.Succeeded(core.OutcomeDirectSuccess, n, fmt.Sprintf("%s performed", action))
			r.Actor = r.Element
			return r
		}
		logger.Debug("%s on %s declined, trying ancestors", action, n.Bounds)
	}

	// Tier 2: first capable ancestor only
	if d.Actions != nil {
		if ancestor := CapableAncestor(n, action); ancestor != nil {
			if d.Actions.Perform(ancestor, action, args) {
				logger.Debug("%s on %s performed by ancestor %s", action, n.Bounds, ancestor.Bounds)
				r := core.Succeeded(core.OutcomeAncestorSuccess, n, fmt.Sprintf("%s performed by ancestor", action))
				r.Actor = core.InfoOf(ancestor)
				return r
			}
			logger.Debug("ancestor %s declined %s", ancestor.Bounds, action)
		}
	}

	return d.tap(n)
}

// Tap skips the semantic tiers and taps the node's center.
func (d *Dispatcher) Tap(n *core.Node) *core.ActionResult {
	start := time.Now()
	var result *core.ActionResult
	if n == nil {
		result = core.Failed(core.ErrNoMatch, "no node to act on")
	} else {
		result = d.tap(n)
	}
	result.Duration = time.Since(start)
	return result
}

// tap is the gesture tier.
func (d *Dispatcher) tap(n *core.Node) *core.ActionResult {
	if d.Gestures == nil {
		return core.Failed(core.ErrActionFailed.WithDetails(map[string]interface{}{
			"bounds": n.Bounds.String(),
		}), "no tier performed the action")
	}

	g := core.TapAtCenter(n.Bounds, d.TapDuration)
	d.Gestures.Dispatch(g)
	logger.Debug("gesture tap at (%.1f, %.1f) for %s", g.Points[0].X, g.Points[0].Y, n.Bounds)

	r := core.Succeeded(core.OutcomeGestureFallbackUsed, n,
		fmt.Sprintf("tapped at (%.1f, %.1f)", g.Points[0].X, g.Points[0].Y))
	r.Gesture = &g
	return r
}

// CapableAncestor returns the nearest ancestor that can perform action, or nil.
func CapableAncestor(n *core.Node, action core.Action) *core.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Can(action) {
			return p
		}
	}
	return nil
}

// DispatchGesture sends an arbitrary gesture. It reports ActionFailed when no
// gesture executor is configured.
func (d *Dispatcher) DispatchGesture(g core.Gesture) *core.ActionResult {
	if d.Gestures == nil || len(g.Points) == 0 {
		return core.Failed(core.ErrActionFailed, "gesture not dispatched")
	}
	d.Gestures.Dispatch(g)
	return &core.ActionResult{
		Outcome: core.OutcomeGestureFallbackUsed,
		Success: true,
		Gesture: &g,
		Message: fmt.Sprintf("gesture with %d points over %s", len(g.Points), g.Duration),
	}
}
