package engine

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/match"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

// Find returns snapshots of every node matching c in the given order.
// Zero matches is reported as ErrNoMatch.
func (s *Session) Find(c match.Criteria, strategy search.Strategy) ([]*core.ElementInfo, error) {
	op := newOperation("find")
	root, err := s.root(op)
	if err != nil {
		return nil, err
	}
	pred, err := c.Predicate()
	if err != nil {
		return nil, err
	}
	nodes := search.FindAllBy(root, pred, strategy)
	op.log.Debugf("%d matches for %s", len(nodes), c.Describe())
	if len(nodes) == 0 {
		return nil, noMatch(c)
	}
	out := make([]*core.ElementInfo, len(nodes))
	for i, n := range nodes {
		out[i] = core.InfoOf(n)
	}
	return out, nil
}

// TextPresent reports whether any node's text or description contains s,
// case-insensitively.
func (s *Session) TextPresent(text string) (bool, error) {
	op := newOperation("text-present")
	root, err := s.root(op)
	if err != nil {
		return false, err
	}
	found := search.FindFirst(root, match.Or(match.TextContains(text), func(n *core.Node) bool {
		return match.ContainsDescription(n, text)
	}), search.DFS) != nil
	op.log.Debugf("text %q present: %v", text, found)
	return found, nil
}

// ScreenText returns every text in depth-first order, each followed by its
// description when the description is set and differs from the text.
func (s *Session) ScreenText() (string, error) {
	op := newOperation("screen-text")
	root, err := s.root(op)
	if err != nil {
		return "", err
	}
	return CollectText(root), nil
}

// CollectText joins texts and distinct descriptions in depth-first order.
func CollectText(root *core.Node) string {
	var parts []string
	search.Walk(root, search.DFS, func(n *core.Node) bool {
		if n.Text != "" {
			parts = append(parts, n.Text)
		}
		if n.Description != "" && n.Description != n.Text {
			parts = append(parts, n.Description)
		}
		return true
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}

// DescriptionContaining returns the description of the first node whose text
// or description contains text. The description may be empty when the match
// was on text.
func (s *Session) DescriptionContaining(text string) (string, error) {
	op := newOperation("description")
	root, err := s.root(op)
	if err != nil {
		return "", err
	}
	n := search.FindFirst(root, func(n *core.Node) bool {
		return match.ContainsText(n, text) || match.ContainsDescription(n, text)
	}, search.DFS)
	if n == nil {
		return "", core.ErrNoMatch.WithMessage(fmt.Sprintf("no element contains %q", text))
	}
	return n.Description, nil
}

// BoundsOf returns the bounds of the first node matching c.
func (s *Session) BoundsOf(c match.Criteria) (core.Bounds, error) {
	op := newOperation("bounds")
	root, err := s.root(op)
	if err != nil {
		return core.Bounds{}, err
	}
	pred, err := c.Predicate()
	if err != nil {
		return core.Bounds{}, err
	}
	n := search.FindFirst(root, pred, search.DFS)
	if n == nil {
		return core.Bounds{}, noMatch(c)
	}
	return n.Bounds, nil
}

// Snapshot returns the whole tree as element infos in depth-first
// order, for inspection.
func (s *Session) Snapshot() ([]*core.ElementInfo, error) {
	op := newOperation("snapshot")
	root, err := s.root(op)
	if err != nil {
		return nil, err
	}
	var out []*core.ElementInfo
	search.Walk(root, search.DFS, func(n *core.Node) bool {
		out = append(out, core.InfoOf(n))
		return true
	})
	return out, nil
}
