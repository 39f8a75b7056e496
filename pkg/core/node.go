package core

import "strings"

// Action is a named capability an element supports.
type Action string

// Actions understood by the engine and host backends.
const (
	ActionClick          Action = "click"
	ActionLongClick      Action = "long-click"
	ActionFocus          Action = "focus"
	ActionSetText        Action = "set-text"
	ActionScrollForward  Action = "scroll-forward"
	ActionScrollBackward Action = "scroll-backward"
	ActionIMEEnter       Action = "ime-enter"
)

// ActionArgs carries optional action arguments.
type ActionArgs struct {
	Text string `json:"text"`
}

// Node is a point-in-time view of one UI element.
// A Node tree is a snapshot: it is valid only for the operation that acquired it.
type Node struct {
	ID          string // platform resource identifier, "" when absent
	Class       string
	Text        string
	Description string
	Hint        string
	Package     string
	Bounds      Bounds

	Actions []Action

	Clickable     bool
	LongClickable bool
	Focusable     bool
	Editable      bool
	Enabled       bool
	Scrollable    bool
	Checkable     bool
	Checked       bool
	Focused       bool
	Selected      bool
	Password      bool

	// Parent is a navigation back-reference. The root owns every node.
	Parent   *Node
	Children []*Node // may contain nil slots
}

// Has returns true if the capability set contains the action.
func (n *Node) Has(action Action) bool {
	for _, a := range n.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Can returns true if the node advertises the action either in its
// capability set or through the matching platform flag.
func (n *Node) Can(action Action) bool {
	if n.Has(action) {
		return true
	}
	switch action {
	case ActionClick:
		return n.Clickable
	case ActionLongClick:
		return n.LongClickable
	case ActionFocus:
		return n.Focusable
	case ActionScrollForward, ActionScrollBackward:
		return n.Scrollable
	}
	return false
}

// IsClickable returns true if the node can be clicked semantically.
func (n *Node) IsClickable() bool {
	return n.Can(ActionClick)
}

// IsEditField returns true if the node class is an edit field.
func (n *Node) IsEditField() bool {
	return n.Class == "EditText" || strings.HasSuffix(n.Class, ".EditText") || n.Class == "edit-field"
}

// IsEditable returns true if the node is an enabled edit field that accepts set-text.
func (n *Node) IsEditable() bool {
	return n.IsEditField() && n.Enabled && n.Has(ActionSetText)
}

// AddChild appends a child and sets its parent reference.
func (n *Node) AddChild(child *Node) *Node {
	if child != nil {
		child.Parent = n
	}
	n.Children = append(n.Children, child)
	return child
}

// IndexInParent returns the node's position among its parent's children,
// or -1 for a root or a detached node.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Depth returns the number of ancestors.
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Label returns text, falling back to description.
func (n *Node) Label() string {
	if n.Text != "" {
		return n.Text
	}
	return n.Description
}

// ElementInfo represents a serializable snapshot of a Node.
// Engine operations return ElementInfo rather than Node so that callers
// cannot hold on to a live tree.
type ElementInfo struct {
	ID          string   `json:"id,omitempty"`
	Class       string   `json:"class,omitempty"`
	Text        string   `json:"text,omitempty"`
	Description string   `json:"description,omitempty"`
	Bounds      Bounds   `json:"bounds"`
	Area        int      `json:"area"`
	Actions     []Action `json:"actions,omitempty"`
	Clickable   bool     `json:"clickable"`
	Enabled     bool     `json:"enabled"`
	Editable    bool     `json:"editable,omitempty"`
	Checked     bool     `json:"checked,omitempty"`
	Depth       int      `json:"depth"`
}

// InfoOf creates an ElementInfo from a node. Returns nil for nil.
func InfoOf(n *Node) *ElementInfo {
	if n == nil {
		return nil
	}
	return &ElementInfo{
		ID:          n.ID,
		Class:       n.Class,
		Text:        n.Text,
		Description: n.Description,
		Bounds:      n.Bounds,
		Area:        n.Bounds.Area(),
		Actions:     append([]Action(nil), n.Actions...),
		Clickable:   n.IsClickable(),
		Enabled:     n.Enabled,
		Editable:    n.IsEditable(),
		Checked:     n.Checked,
		Depth:       n.Depth(),
	}
}
