package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

// enterKeywords are labels of buttons that submit a field.
var enterKeywords = []string{"enter", "return", "done", "send", "go", "next", "search"}

func isEnterButton(n *core.Node) bool {
	if !n.IsClickable() {
		return false
	}
	text := strings.ToLower(n.Text)
	desc := strings.ToLower(n.Description)
	for _, k := range enterKeywords {
		if text == k || desc == k {
			return true
		}
	}
	return false
}

// PressEnter submits the current field. It tries, in order: a clickable
// enter/done/send/go/next/search/return button in breadth-first order, the
// ime-enter action on the focused field, and a tap at the configured
// screen fraction of the root bounds.
func (s *Session) PressEnter() *core.ActionResult {
	op := newOperation("press-enter")
	root, err := s.root(op)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}

	if s.actions != nil {
		var pressed *core.Node
		search.Walk(root, search.BFS, func(n *core.Node) bool {
			if isEnterButton(n) && s.actions.Perform(n, core.ActionClick, nil) {
				pressed = n
				return false
			}
			return true
		})
		if pressed != nil {
			r := core.Succeeded(core.OutcomeDirectSuccess, pressed, "pressed enter button")
			r.Actor = r.Element
			return op.finish(r)
		}

		focused := search.FindFirst(root, func(n *core.Node) bool { return n.Focused }, search.BFS)
		if focused != nil && s.actions.Perform(focused, core.ActionIMEEnter, nil) {
			r := core.Succeeded(core.OutcomeDirectSuccess, focused, "ime-enter on focused field")
			r.Actor = r.Element
			return op.finish(r)
		}
	}

	frac := s.pacing.EnterFallback
	x := float64(root.Bounds.Left) + float64(root.Bounds.Width())*frac.X
	y := float64(root.Bounds.Top) + float64(root.Bounds.Height())*frac.Y
	r := s.dispatcher.DispatchGesture(core.Tap(x, y, s.pacing.TapDuration))
	if r.Success {
		r.Message = fmt.Sprintf("enter fallback tap at (%.0f, %.0f)", x, y)
	}
	return op.finish(r)
}

// Tap dispatches a tap gesture at (x, y).
func (s *Session) Tap(x, y float64) *core.ActionResult {
	op := newOperation("tap-point")
	return op.finish(s.dispatcher.DispatchGesture(core.Tap(x, y, s.pacing.TapDuration)))
}

// Swipe dispatches a straight swipe. duration <= 0 uses the session default.
func (s *Session) Swipe(from, to core.Point, duration time.Duration) *core.ActionResult {
	op := newOperation("swipe")
	if duration <= 0 {
		duration = s.pacing.SwipeDuration
	}
	return op.finish(s.dispatcher.DispatchGesture(core.Swipe(from, to, duration)))
}

// ScrollDown swipes up the screen to reveal content below.
func (s *Session) ScrollDown() *core.ActionResult {
	op := newOperation("scroll-down")
	p := s.pacing.ScrollDown
	return op.finish(s.dispatcher.DispatchGesture(core.Swipe(p.From, p.To, s.pacing.ScrollDuration)))
}

// ScrollUp swipes down the screen to reveal content above.
func (s *Session) ScrollUp() *core.ActionResult {
	op := newOperation("scroll-up")
	p := s.pacing.ScrollUp
	return op.finish(s.dispatcher.DispatchGesture(core.Swipe(p.From, p.To, s.pacing.ScrollDuration)))
}
