// Package hierarchy converts Android UI hierarchy XML into node trees.
package hierarchy

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/devicelab-dev/uiprobe/pkg/core"
)

// RootClass is the class of the synthetic root created when a hierarchy
// holds more than one top-level window.
const RootClass = "hierarchy"

// Parse parses Android UI hierarchy XML into a node tree with parent links.
// Supports both formats:
// - UIAutomator dump: <node class="..."> elements
// - UIAutomator2 server source: class name as element tag
func Parse(xmlData string) (*core.Node, error) {
	return ParseReader(strings.NewReader(xmlData))
}

// ParseReader is Parse over a reader.
func ParseReader(r io.Reader) (*core.Node, error) {
	decoder := xml.NewDecoder(r)

	var (
		stack          []*core.Node
		tops           []*core.Node
		foundHierarchy bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if len(tops) == 0 {
				return nil, fmt.Errorf("parse hierarchy: %w", err)
			}
			// Truncated dump: keep what was read.
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "hierarchy" {
				foundHierarchy = true
				continue
			}
			n := parseNode(t)
			if len(stack) > 0 {
				stack[len(stack)-1].AddChild(n)
			} else {
				tops = append(tops, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if t.Name.Local == "hierarchy" {
				continue
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !foundHierarchy {
		return nil, fmt.Errorf("invalid page source: no hierarchy element found")
	}

	switch len(tops) {
	case 0:
		return nil, nil
	case 1:
		return tops[0], nil
	}

	root := &core.Node{Class: RootClass, Enabled: true}
	for _, n := range tops {
		root.AddChild(n)
		root.Bounds = union(root.Bounds, n.Bounds)
	}
	return root, nil
}

func parseNode(t xml.StartElement) *core.Node {
	n := &core.Node{
		Class:   t.Name.Local, // Class name is the element tag in server source
		Enabled: true,
	}

	for _, attr := range t.Attr {
		v := attr.Value
		switch attr.Name.Local {
		case "text":
			n.Text = v
		case "resource-id":
			n.ID = v
		case "content-desc":
			n.Description = v
		case "hint":
			n.Hint = v
		case "class":
			n.Class = v // Override if class attr exists
		case "package":
			n.Package = v
		case "bounds":
			n.Bounds = parseBounds(v)
		case "enabled":
			n.Enabled = v == "true"
		case "selected":
			n.Selected = v == "true"
		case "focused":
			n.Focused = v == "true"
		case "clickable":
			n.Clickable = v == "true"
		case "long-clickable":
			n.LongClickable = v == "true"
		case "focusable":
			n.Focusable = v == "true"
		case "scrollable":
			n.Scrollable = v == "true"
		case "checkable":
			n.Checkable = v == "true"
		case "checked":
			n.Checked = v == "true"
		case "password":
			n.Password = v == "true"
		}
	}

	n.Actions = deriveActions(n)
	n.Editable = n.IsEditField()
	return n
}

// deriveActions builds the capability set from the dump's boolean flags.
func deriveActions(n *core.Node) []core.Action {
	var actions []core.Action
	if n.Clickable {
		actions = append(actions, core.ActionClick)
	}
	if n.LongClickable {
		actions = append(actions, core.ActionLongClick)
	}
	if n.Focusable || n.IsEditField() {
		actions = append(actions, core.ActionFocus)
	}
	if n.Scrollable {
		actions = append(actions, core.ActionScrollForward, core.ActionScrollBackward)
	}
	if n.IsEditField() && n.Enabled {
		actions = append(actions, core.ActionSetText)
		if n.Focused {
			actions = append(actions, core.ActionIMEEnter)
		}
	}
	return actions
}

// parseBounds parses Android bounds string "[x1,y1][x2,y2]" to normalized Bounds.
func parseBounds(s string) core.Bounds {
	// Format: [x1,y1][x2,y2]
	s = strings.ReplaceAll(s, "][", ",")
	s = strings.Trim(s, "[]")
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return core.Bounds{}
	}

	x1, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	y1, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	x2, _ := strconv.Atoi(strings.TrimSpace(parts[2]))
	y2, _ := strconv.Atoi(strings.TrimSpace(parts[3]))

	return core.NewBounds(x1, y1, x2, y2)
}

func union(a, b core.Bounds) core.Bounds {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return core.NewBounds(min(a.Left, b.Left), min(a.Top, b.Top), max(a.Right, b.Right), max(a.Bottom, b.Bottom))
}
