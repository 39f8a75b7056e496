// Package target resolves named semantic targets to nodes.
//
// A target is an ordered list of strategies tried until one resolves.
// Known identifiers go first, structural fallbacks last, so a target keeps
// working when the application renames its internal ids between releases.
package target

import (
	"fmt"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/match"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

// Square describes a fixed-size element of a class.
type Square struct {
	Class string `yaml:"class" toml:"class" json:"class"`
	Side  int    `yaml:"side" toml:"side" json:"side"`
}

// Strategy is one way to locate a target.
type Strategy struct {
	// IDs are tried in order; the first id with a match wins.
	IDs []string `yaml:"ids,omitempty" toml:"ids,omitempty" json:"ids,omitempty"`

	// Square finds the first class element whose bounds are side x side.
	Square *Square `yaml:"square,omitempty" toml:"square,omitempty" json:"square,omitempty"`

	// Criteria applies when neither IDs nor Square is set.
	Criteria match.Criteria `yaml:"match,omitempty" toml:"match,omitempty" json:"match,omitempty"`

	Traversal search.Strategy `yaml:"traversal,omitempty" toml:"traversal,omitempty" json:"traversal,omitempty"`
	Index     int             `yaml:"index,omitempty" toml:"index,omitempty" json:"index,omitempty"` // n-th match, 0-based

	// Child selects a child of the resolved node, e.g. a grid's first thumbnail.
	Child *int `yaml:"child,omitempty" toml:"child,omitempty" json:"child,omitempty"`

	// GestureOnly taps the resolved node's center without semantic actions.
	GestureOnly bool `yaml:"gestureOnly,omitempty" toml:"gestureOnly,omitempty" json:"gestureOnly,omitempty"`
}

// Target is a named, ordered list of strategies.
type Target struct {
	Description string     `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Strategies  []Strategy `yaml:"strategies" toml:"strategies" json:"strategies"`
}

// Resolution is the outcome of resolving a target.
type Resolution struct {
	Node     *core.Node
	Index    int // position of the strategy that resolved
	Strategy *Strategy
	Via      string
}

// Describe returns a human-readable description of the strategy.
func (s *Strategy) Describe() string {
	var desc string
	switch {
	case len(s.IDs) > 0:
		desc = fmt.Sprintf("ids %v", s.IDs)
	case s.Square != nil:
		desc = fmt.Sprintf("%s %dx%d", s.Square.Class, s.Square.Side, s.Square.Side)
	default:
		desc = s.Criteria.Describe()
		if s.Traversal == search.BFS {
			desc += " (bfs)"
		}
	}
	if s.Index > 0 {
		desc += fmt.Sprintf(" #%d", s.Index)
	}
	if s.Child != nil {
		desc += fmt.Sprintf(" child %d", *s.Child)
	}
	return desc
}

// Validate checks that every strategy is usable.
func (t *Target) Validate() error {
	if len(t.Strategies) == 0 {
		return core.ErrInvalidConfig.WithMessage("target has no strategies")
	}
	for i := range t.Strategies {
		s := &t.Strategies[i]
		if s.Square != nil && (s.Square.Side <= 0 || s.Square.Class == "") {
			return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("strategy %d: square needs class and positive side", i))
		}
		if s.Index < 0 {
			return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("strategy %d: negative index", i))
		}
		if len(s.IDs) == 0 && s.Square == nil {
			if _, err := s.Criteria.Predicate(); err != nil {
				return fmt.Errorf("strategy %d: %w", i, err)
			}
		}
	}
	return nil
}

// locate runs one strategy.
func (s *Strategy) locate(root *core.Node) (*core.Node, error) {
	var candidates []*core.Node
	switch {
	case len(s.IDs) > 0:
		_, candidates = search.FindByIdentifier(root, s.IDs[0], s.IDs[1:]...)
	case s.Square != nil:
		if n := search.FindSquare(root, s.Square.Class, s.Square.Side); n != nil {
			candidates = []*core.Node{n}
		}
	default:
		pred, err := s.Criteria.Predicate()
		if err != nil {
			return nil, err
		}
		if s.Index == 0 {
			if n := search.FindFirst(root, pred, s.Traversal); n != nil {
				candidates = []*core.Node{n}
			}
		} else {
			candidates = search.FindAllBy(root, pred, s.Traversal)
		}
	}

	if s.Index >= len(candidates) {
		return nil, nil
	}
	n := candidates[s.Index]
	if s.Child != nil {
		return n.Child(*s.Child), nil
	}
	return n, nil
}

// Resolve tries each strategy in order and returns the first resolution.
// Returns core.ErrNotFound when no strategy resolves.
func Resolve(root *core.Node, t *Target) (*Resolution, error) {
	if root == nil {
		return nil, core.ErrNoActiveTree
	}
	for i := range t.Strategies {
		s := &t.Strategies[i]
		n, err := s.locate(root)
		if err != nil {
			return nil, err
		}
		if n != nil {
			return &Resolution{Node: n, Index: i, Strategy: s, Via: s.Describe()}, nil
		}
	}
	return nil, core.ErrNotFound.WithMessage(fmt.Sprintf("no strategy resolved (%d tried)", len(t.Strategies)))
}
