// Package search walks node trees and returns matches.
//
// Traversal is iterative and skips nil child slots, since a live tree can
// mutate while it is being read.
package search

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/match"
)

// MaxDepth bounds traversal. Nodes deeper than this are not visited.
const MaxDepth = 256

// Strategy selects the traversal order.
type Strategy int

const (
	DFS Strategy = iota // depth-first pre-order, the default
	BFS                 // breadth-first, reading/tab order
)

// String returns the string representation of Strategy
func (s Strategy) String() string {
	switch s {
	case DFS:
		return "dfs"
	case BFS:
		return "bfs"
	default:
		return "unknown"
	}
}

// ParseStrategy parses "dfs" or "bfs". Empty means DFS.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dfs", "depth":
		return DFS, nil
	case "bfs", "breadth":
		return BFS, nil
	default:
		return DFS, fmt.Errorf("unknown traversal strategy %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for config decoding.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type entry struct {
	node  *core.Node
	depth int
}

// Walk visits nodes in the given order until visit returns false.
func Walk(root *core.Node, strategy Strategy, visit func(n *core.Node) bool) {
	if root == nil {
		return
	}
	if strategy == BFS {
		walkBFS(root, visit)
		return
	}
	walkDFS(root, visit)
}

func walkDFS(root *core.Node, visit func(*core.Node) bool) {
	stack := []entry{{root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(e.node) {
			return
		}
		if e.depth >= MaxDepth {
			continue
		}
		// Push in reverse so the first child is visited first.
		for i := len(e.node.Children) - 1; i >= 0; i-- {
			if c := e.node.Children[i]; c != nil {
				stack = append(stack, entry{c, e.depth + 1})
			}
		}
	}
}

func walkBFS(root *core.Node, visit func(*core.Node) bool) {
	queue := []entry{{root, 0}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		if !visit(e.node) {
			return
		}
		if e.depth >= MaxDepth {
			continue
		}
		for _, c := range e.node.Children {
			if c != nil {
				queue = append(queue, entry{c, e.depth + 1})
			}
		}
	}
}

// FindFirst returns the first node matching pred, or nil.
func FindFirst(root *core.Node, pred match.Predicate, strategy Strategy) *core.Node {
	var found *core.Node
	Walk(root, strategy, func(n *core.Node) bool {
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every match in depth-first pre-order.
func FindAll(root *core.Node, pred match.Predicate) []*core.Node {
	return FindAllBy(root, pred, DFS)
}

// FindAllBy returns every match in the given traversal order.
func FindAllBy(root *core.Node, pred match.Predicate, strategy Strategy) []*core.Node {
	var out []*core.Node
	Walk(root, strategy, func(n *core.Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindNth returns FindAll(root, pred)[n].
func FindNth(root *core.Node, pred match.Predicate, n int) (*core.Node, error) {
	return FindNthBy(root, pred, n, DFS)
}

// FindNthBy returns the n-th match (0-based) in the given traversal order.
func FindNthBy(root *core.Node, pred match.Predicate, n int, strategy Strategy) (*core.Node, error) {
	all := FindAllBy(root, pred, strategy)
	if n < 0 || n >= len(all) {
		return nil, core.ErrIndexOutOfRange.
			WithMessage(fmt.Sprintf("match index %d out of range (%d matches)", n, len(all))).
			WithDetails(map[string]interface{}{"index": n, "count": len(all)})
	}
	return all[n], nil
}

// FindByIdentifier tries id, then each fallback in order, and returns the
// first identifier with at least one match together with its matches.
// Returns "" and nil when no identifier matches.
func FindByIdentifier(root *core.Node, id string, fallbackIDs ...string) (string, []*core.Node) {
	for _, candidate := range append([]string{id}, fallbackIDs...) {
		if candidate == "" {
			continue
		}
		if found := FindAll(root, match.ID(candidate)); len(found) > 0 {
			return candidate, found
		}
	}
	return "", nil
}

// FindByClassAtIndex returns the first node of class whose position among
// its parent's children is siblingIndex. siblingIndex -1 disables the filter.
func FindByClassAtIndex(root *core.Node, class string, siblingIndex int) *core.Node {
	return FindFirst(root, match.And(match.Class(class), match.AtSiblingIndex(siblingIndex)), DFS)
}

// FindSquare returns the first node of class, in depth-first order, whose
// bounds are side x side. Used for fixed-size icon buttons with no id.
func FindSquare(root *core.Node, class string, side int) *core.Node {
	return FindFirst(root, func(n *core.Node) bool {
		return match.MatchesClass(n, class) &&
			n.Bounds.Width() == side &&
			n.Bounds.Height() == side
	}, DFS)
}

// Count returns the number of nodes visited in a full walk.
func Count(root *core.Node) int {
	count := 0
	Walk(root, DFS, func(*core.Node) bool {
		count++
		return true
	})
	return count
}
