package hierarchy

import (
	"fmt"
	"io"
	"strings"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

// Format writes an indented, one-line-per-node rendering of the tree.
func Format(w io.Writer, root *core.Node) error {
	var err error
	search.Walk(root, search.DFS, func(n *core.Node) bool {
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", n.Depth()-root.Depth()), Describe(n))
		return err == nil
	})
	return err
}

// Describe returns a compact one-line description of n.
func Describe(n *core.Node) string {
	var b strings.Builder
	b.WriteString(shortClass(n.Class))
	if n.Text != "" {
		fmt.Fprintf(&b, " text=%q", n.Text)
	}
	if n.Description != "" {
		fmt.Fprintf(&b, " desc=%q", n.Description)
	}
	if n.ID != "" {
		fmt.Fprintf(&b, " id=%s", n.ID)
	}
	fmt.Fprintf(&b, " %s", n.Bounds)

	var flags []string
	if n.IsClickable() {
		flags = append(flags, "clickable")
	}
	if n.IsEditable() {
		flags = append(flags, "editable")
	}
	if n.Scrollable {
		flags = append(flags, "scrollable")
	}
	if n.Checkable {
		flags = append(flags, "checkable")
	}
	if n.Checked {
		flags = append(flags, "checked")
	}
	if n.Focused {
		flags = append(flags, "focused")
	}
	if !n.Enabled {
		flags = append(flags, "disabled")
	}
	if len(flags) > 0 {
		b.WriteString(" {" + strings.Join(flags, ",") + "}")
	}
	return b.String()
}

func shortClass(class string) string {
	if i := strings.LastIndex(class, "."); i >= 0 {
		return class[i+1:]
	}
	if class == "" {
		return "?"
	}
	return class
}
