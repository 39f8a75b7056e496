package engine

import (
	"fmt"
	"math"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/interact"
	"github.com/devicelab-dev/uiprobe/pkg/match"
	"github.com/devicelab-dev/uiprobe/pkg/search"
	"github.com/devicelab-dev/uiprobe/pkg/target"
)

// ============================================
// Single-element taps
// ============================================

// TapMatching clicks the first node matching c in the given traversal order.
func (s *Session) TapMatching(c match.Criteria, strategy search.Strategy) *core.ActionResult {
	op := newOperation("tap")
	root, err := s.root(op)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	pred, err := c.Predicate()
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	n := search.FindFirst(root, pred, strategy)
	if n == nil {
		return op.finish(core.Failed(noMatch(c), ""))
	}
	return op.finish(s.dispatcher.Click(n))
}

// TapNth clicks the n-th (0-based, depth-first) node matching c.
func (s *Session) TapNth(c match.Criteria, n int) *core.ActionResult {
	op := newOperation("tap-nth")
	root, err := s.root(op)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	pred, err := c.Predicate()
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	node, err := search.FindNth(root, pred, n)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	return op.finish(s.dispatcher.Click(node))
}

// TapTarget resolves a named target and acts on it.
func (s *Session) TapTarget(name string) *core.ActionResult {
	op := newOperation("tap-target")
	t, ok := s.targets[name]
	if !ok {
		return op.finish(core.Failed(core.ErrUnknownTarget.WithMessage(fmt.Sprintf("unknown target %q", name)), ""))
	}
	root, err := s.root(op)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	res, err := target.Resolve(root, &t)
	if err != nil {
		return op.finish(core.Failed(err, fmt.Sprintf("target %q", name)))
	}
	op.log.Debugf("target %q resolved via strategy %d (%s)", name, res.Index, res.Via)

	var r *core.ActionResult
	if res.Strategy.GestureOnly {
		r = s.dispatcher.Tap(res.Node)
	} else {
		r = s.dispatcher.Click(res.Node)
	}
	r.Data = map[string]interface{}{"target": name, "strategy": res.Index, "via": res.Via}
	return op.finish(r)
}

// TapFirstChildOf clicks the first child of the first container matching c.
func (s *Session) TapFirstChildOf(c match.Criteria, strategy search.Strategy) *core.ActionResult {
	op := newOperation("tap-first-child")
	root, err := s.root(op)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	pred, err := c.Predicate()
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	container := search.FindFirst(root, pred, strategy)
	if container == nil {
		return op.finish(core.Failed(noMatch(c), ""))
	}
	child := container.Child(0)
	if child == nil {
		return op.finish(core.Failed(core.ErrNotFound.WithMessage(
			fmt.Sprintf("%s has no children", c.Describe())), ""))
	}
	return op.finish(s.dispatcher.Click(child))
}

// TapToggleNear clicks the first toggle sibling of a node whose text or
// description contains label.
func (s *Session) TapToggleNear(label string) *core.ActionResult {
	op := newOperation("tap-toggle")
	root, err := s.root(op)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	toggle := FindToggleNear(root, label)
	if toggle == nil {
		return op.finish(core.Failed(core.ErrNoMatch.WithMessage(
			fmt.Sprintf("no toggle near %q", label)), ""))
	}
	return op.finish(s.dispatcher.Click(toggle))
}

// FindToggleNear returns the first toggle among the siblings of any node,
// in depth-first order, whose text or description contains label.
func FindToggleNear(root *core.Node, label string) *core.Node {
	var toggle *core.Node
	search.Walk(root, search.DFS, func(n *core.Node) bool {
		if !match.ContainsText(n, label) && !match.ContainsDescription(n, label) {
			return true
		}
		if n.Parent == nil {
			return true
		}
		for _, sib := range n.Parent.Children {
			if sib != nil && match.IsToggle(sib) {
				toggle = sib
				return false
			}
		}
		return true
	})
	return toggle
}

// TapNear clicks the first clickable node, depth-first, whose center lies
// within tolerance pixels of (x, y). tolerance <= 0 uses the session default.
func (s *Session) TapNear(x, y, tolerance float64) *core.ActionResult {
	op := newOperation("tap-near")
	if tolerance <= 0 {
		tolerance = s.pacing.NearTolerance
	}
	root, err := s.root(op)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	n := search.FindFirst(root, func(n *core.Node) bool {
		if !n.IsClickable() {
			return false
		}
		cx, cy := n.Bounds.Center()
		return math.Hypot(cx-x, cy-y) <= tolerance
	}, search.DFS)
	if n == nil {
		return op.finish(core.Failed(core.ErrNoMatch.WithMessage(
			fmt.Sprintf("no clickable within %.0fpx of (%.0f, %.0f)", tolerance, x, y)), ""))
	}
	return op.finish(s.dispatcher.Click(n))
}

// ============================================
// Bulk taps
// ============================================

// BulkOptions returns the session's default bulk options.
func (s *Session) BulkOptions() interact.BulkOptions {
	return interact.BulkOptions{
		MaxActions: s.pacing.MaxActions,
		Delay:      s.pacing.BulkDelay,
		Dedup:      s.pacing.Dedup,
	}
}

// TapAll runs the bulk sequencer over every node matching c, depth-first.
func (s *Session) TapAll(c match.Criteria, opts interact.BulkOptions) *core.BulkResult {
	op := newOperation("tap-all")
	root, err := s.root(op)
	if err != nil {
		return op.finishBulk(core.FailedBulk(err))
	}
	pred, err := c.Predicate()
	if err != nil {
		return op.finishBulk(core.FailedBulk(err))
	}
	candidates := search.FindAll(root, pred)
	op.log.Debugf("%d candidates for %s", len(candidates), c.Describe())

	return op.finishBulk(s.sequencer.Run(candidates, opts))
}

func noMatch(c match.Criteria) error {
	return core.ErrNoMatch.WithMessage(fmt.Sprintf("no element matched %s", c.Describe()))
}
