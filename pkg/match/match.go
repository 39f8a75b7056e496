// Package match provides stateless predicates over UI nodes.
package match

import (
	"strings"

	"github.com/devicelab-dev/uiprobe/pkg/core"
)

// Predicate reports whether a node matches.
type Predicate func(n *core.Node) bool

// MatchesText checks exact equality after trimming. Case-sensitive.
func MatchesText(n *core.Node, s string) bool {
	return strings.TrimSpace(n.Text) == strings.TrimSpace(s)
}

// MatchesTextFold is the case-insensitive variant of MatchesText.
func MatchesTextFold(n *core.Node, s string) bool {
	return strings.EqualFold(strings.TrimSpace(n.Text), strings.TrimSpace(s))
}

// MatchesDescription checks exact description equality after trimming.
func MatchesDescription(n *core.Node, s string) bool {
	return strings.TrimSpace(n.Description) == strings.TrimSpace(s)
}

// ContainsText checks if the text contains s (case-insensitive).
func ContainsText(n *core.Node, s string) bool {
	return containsIgnoreCase(n.Text, s)
}

// ContainsDescription checks if the description contains s (case-insensitive).
func ContainsDescription(n *core.Node, s string) bool {
	return containsIgnoreCase(n.Description, s)
}

// StartsWithDescription checks a case-insensitive description prefix.
// Used for labelled controls that carry no identifier.
func StartsWithDescription(n *core.Node, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(n.Description), strings.ToLower(prefix))
}

// MatchesArea compares the computed area exactly.
func MatchesArea(n *core.Node, target int) bool {
	return n.Bounds.Area() == target
}

// MatchesAreaRange checks min <= area <= max.
func MatchesAreaRange(n *core.Node, min, max int) bool {
	area := n.Bounds.Area()
	return area >= min && area <= max
}

// IsToggle checks for a switch, checkbox, toggle or compound button, or a checkable node.
func IsToggle(n *core.Node) bool {
	if n.Checkable {
		return true
	}
	switch simpleClass(n.Class) {
	case "Switch", "CheckBox", "ToggleButton", "CompoundButton",
		"switch", "checkbox", "toggle-button", "compound-button":
		return true
	}
	return false
}

// Excluded reports whether the description equals any entry of the list.
func Excluded(n *core.Node, descriptions []string) bool {
	for _, d := range descriptions {
		if n.Description == d {
			return true
		}
	}
	return false
}

// MatchesIdentifier compares the resource id. A short id with no package
// qualifier also matches "<pkg>:id/<short>".
func MatchesIdentifier(n *core.Node, id string) bool {
	if id == "" || n.ID == "" {
		return false
	}
	if n.ID == id {
		return true
	}
	if !strings.Contains(id, ":") {
		return strings.HasSuffix(n.ID, ":id/"+id)
	}
	return false
}

// MatchesClass compares the class. A simple name also matches a qualified one.
func MatchesClass(n *core.Node, class string) bool {
	if n.Class == class {
		return true
	}
	if !strings.Contains(class, ".") {
		return simpleClass(n.Class) == class
	}
	return false
}

func simpleClass(class string) string {
	if i := strings.LastIndex(class, "."); i >= 0 {
		return class[i+1:]
	}
	return class
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ============================================
// Predicate builders
// ============================================

// Text returns a predicate for MatchesText.
func Text(s string) Predicate {
	return func(n *core.Node) bool { return MatchesText(n, s) }
}

// TextContains returns a predicate for ContainsText.
func TextContains(s string) Predicate {
	return func(n *core.Node) bool { return ContainsText(n, s) }
}

// DescriptionPrefix returns a predicate for StartsWithDescription.
func DescriptionPrefix(prefix string) Predicate {
	return func(n *core.Node) bool { return StartsWithDescription(n, prefix) }
}

// Class returns a predicate for MatchesClass.
func Class(class string) Predicate {
	return func(n *core.Node) bool { return MatchesClass(n, class) }
}

// ID returns a predicate for MatchesIdentifier.
func ID(id string) Predicate {
	return func(n *core.Node) bool { return MatchesIdentifier(n, id) }
}

// Area returns a predicate for MatchesArea.
func Area(target int) Predicate {
	return func(n *core.Node) bool { return MatchesArea(n, target) }
}

// AreaRange returns a predicate for MatchesAreaRange.
func AreaRange(min, max int) Predicate {
	return func(n *core.Node) bool { return MatchesAreaRange(n, min, max) }
}

// Toggle matches toggle controls.
func Toggle() Predicate {
	return IsToggle
}

// Clickable matches nodes that can be clicked semantically.
func Clickable() Predicate {
	return func(n *core.Node) bool { return n.IsClickable() }
}

// Editable matches enabled edit fields that accept set-text.
func Editable() Predicate {
	return func(n *core.Node) bool { return n.IsEditable() }
}

// Exclude rejects nodes whose description is in the list.
func Exclude(descriptions ...string) Predicate {
	return func(n *core.Node) bool { return !Excluded(n, descriptions) }
}

// AtSiblingIndex matches nodes at position i among their parent's children.
// i = -1 disables the filter. A root never matches a non-negative index.
func AtSiblingIndex(i int) Predicate {
	return func(n *core.Node) bool {
		if i < 0 {
			return true
		}
		return n.IndexInParent() == i
	}
}

// Any matches every node.
func Any() Predicate {
	return func(*core.Node) bool { return true }
}

// And matches when every predicate matches. Empty And matches everything.
func And(preds ...Predicate) Predicate {
	return func(n *core.Node) bool {
		for _, p := range preds {
			if p != nil && !p(n) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(n *core.Node) bool {
		for _, p := range preds {
			if p != nil && p(n) {
				return true
			}
		}
		return false
	}
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(n *core.Node) bool { return !p(n) }
}
