package hierarchy

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/uiprobe/pkg/core"
)

// XPath returns an absolute xpath addressing n in the UIAutomator2 server's
// source, where each element tag is the node class. Positions are 1-based
// among same-class siblings.
func XPath(n *core.Node) string {
	if n == nil {
		return ""
	}

	var segs []string
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Parent == nil {
			if cur.Class != RootClass {
				segs = append(segs, tag(cur)+"[1]")
			}
			break
		}
		idx := 1
		for _, sib := range cur.Parent.Children {
			if sib == cur {
				break
			}
			if sib != nil && (cur.Class == "" || sib.Class == cur.Class) {
				idx++
			}
		}
		segs = append(segs, fmt.Sprintf("%s[%d]", tag(cur), idx))
	}

	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	if len(segs) == 0 {
		return "/hierarchy"
	}
	return "/hierarchy/" + strings.Join(segs, "/")
}

func tag(n *core.Node) string {
	if n.Class == "" {
		return "*"
	}
	return n.Class
}
