package engine

import (
	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/match"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

// TypeInEditable types text into the k-th editable field (1-based, breadth-first).
func (s *Session) TypeInEditable(k int, text string) *core.ActionResult {
	op := newOperation("type")
	root, err := s.root(op)
	if err != nil {
		return op.finish(core.Failed(err, ""))
	}
	return op.finish(s.text.TypeInto(root, k, s.expand(text)))
}

// TypeInMatching types text into the first node matching c.
func (s *Session) TypeInMatching(c match.Criteria, text string) *core.ActionResult {
	op := newOperation("type-matching")
	return op.finish(s.enterMatching(op, c, s.expand(text)))
}

// ClearMatching clears the first node matching c.
func (s *Session) ClearMatching(c match.Criteria) *core.ActionResult {
	op := newOperation("clear-matching")
	return op.finish(s.enterMatching(op, c, ""))
}

func (s *Session) enterMatching(op *operation, c match.Criteria, text string) *core.ActionResult {
	root, err := s.root(op)
	if err != nil {
		return core.Failed(err, "")
	}
	pred, err := c.Predicate()
	if err != nil {
		return core.Failed(err, "")
	}
	n := search.FindFirst(root, pred, search.DFS)
	if n == nil {
		return core.Failed(noMatch(c), "")
	}
	return s.text.Enter(n, text)
}

// TypeIntoClass sets text on every node of class.
func (s *Session) TypeIntoClass(class, text string) *core.CountResult {
	op := newOperation("type-class")
	root, err := s.root(op)
	if err != nil {
		return op.finishCount(core.FailedCount(err))
	}
	return op.finishCount(s.text.TypeAll(root, class, s.expand(text)))
}

// ClearClass clears every node of class.
func (s *Session) ClearClass(class string) *core.CountResult {
	op := newOperation("clear-class")
	root, err := s.root(op)
	if err != nil {
		return op.finishCount(core.FailedCount(err))
	}
	return op.finishCount(s.text.ClearAll(root, class))
}
