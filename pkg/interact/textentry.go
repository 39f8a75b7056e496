package interact

import (
	"fmt"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
	"github.com/devicelab-dev/uiprobe/pkg/match"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

// TextEntry types into and clears editable fields.
type TextEntry struct {
	Actions core.ActionExecutor
}

// NewTextEntry creates a text entry resolver.
func NewTextEntry(actions core.ActionExecutor) *TextEntry {
	return &TextEntry{Actions: actions}
}

// Editables returns editable nodes in breadth-first order.
func Editables(root *core.Node) []*core.Node {
	return search.FindAllBy(root, match.Editable(), search.BFS)
}

// TypeInto focuses the k-th editable (1-based, BFS order) and sets its text.
// Reports NotFound when fewer than k editables exist.
func (t *TextEntry) TypeInto(root *core.Node, k int, text string) *core.ActionResult {
	editables := Editables(root)
	if k < 1 || k > len(editables) {
		return core.Failed(core.ErrNotFound.
			WithMessage(fmt.Sprintf("editable field %d not found (%d present)", k, len(editables))).
			WithDetails(map[string]interface{}{"k": k, "count": len(editables)}), "")
	}
	return t.Enter(editables[k-1], text)
}

// Enter focuses n then sets its text.
func (t *TextEntry) Enter(n *core.Node, text string) *core.ActionResult {
	if n == nil {
		return core.Failed(core.ErrNotFound, "no field")
	}
	if t.Actions == nil {
		return core.Failed(core.ErrActionFailed, "no action executor")
	}
	if !t.Actions.Perform(n, core.ActionFocus, nil) {
		logger.Debug("focus declined on %s, setting text anyway", n.Bounds)
	}
	if !t.Actions.Perform(n, core.ActionSetText, &core.ActionArgs{Text: text}) {
		return core.Failed(core.ErrActionFailed.WithDetails(map[string]interface{}{
			"bounds": n.Bounds.String(),
		}), "set-text declined")
	}
	r := core.Succeeded(core.OutcomeDirectSuccess, n, fmt.Sprintf("entered %d characters", len([]rune(text))))
	r.Actor = r.Element
	return r
}

// TypeAll focuses and sets text on every node of class. Returns succeeded vs attempted.
func (t *TextEntry) TypeAll(root *core.Node, class, text string) *core.CountResult {
	nodes := search.FindAll(root, match.Class(class))
	result := &core.CountResult{Total: len(nodes)}
	for _, n := range nodes {
		if t.Enter(n, text).Success {
			result.Succeeded++
		}
	}
	logger.Info("set text on %d/%d %s nodes", result.Succeeded, result.Total, class)
	return result
}

// ClearAll sets empty text on every node of class.
func (t *TextEntry) ClearAll(root *core.Node, class string) *core.CountResult {
	return t.TypeAll(root, class, "")
}
