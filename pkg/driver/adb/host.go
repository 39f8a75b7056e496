// Package adb implements core.Host over plain adb shell commands:
// uiautomator dump for the tree, input for every action.
package adb

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/hierarchy"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
)

// ShellExecutor runs shell commands on a device.
// Implemented by device.AndroidDevice.
type ShellExecutor interface {
	Shell(cmd string) (string, error)
}

// DumpPath is the on-device location of the hierarchy dump.
const DumpPath = "/data/local/tmp/uiprobe-dump.xml"

// LongPressThreshold is the tap duration at which a tap becomes a press-and-hold.
const LongPressThreshold = 500 * time.Millisecond

// Host drives a device with uiautomator dump and input commands.
// It has no semantic click: click, long-click and scroll are declined so the
// engine falls back to gestures, which input can synthesize.
type Host struct {
	shell ShellExecutor
	log   *logrus.Entry
}

// New creates a host over shell.
func New(shell ShellExecutor) *Host {
	return &Host{
		shell: shell,
		log:   logger.WithFields(logrus.Fields{"component": "host", "driver": "adb"}),
	}
}

// Root dumps and parses the current window hierarchy.
func (h *Host) Root() (*core.Node, error) {
	// && keeps cat from reading a stale dump
	out, err := h.shell.Shell(fmt.Sprintf("uiautomator dump %s >/dev/null && cat %s", DumpPath, DumpPath))
	if err != nil {
		return nil, fmt.Errorf("dump hierarchy: %w", err)
	}
	if idx := strings.Index(out, "<?xml"); idx > 0 {
		out = out[idx:]
	}
	return hierarchy.Parse(out)
}

// Perform runs the actions input can express: focus (a tap), set-text and
// ime-enter.
func (h *Host) Perform(n *core.Node, action core.Action, args *core.ActionArgs) bool {
	switch action {
	case core.ActionFocus:
		x, y := n.Bounds.Center()
		return h.run(fmt.Sprintf("input tap %d %d", round(x), round(y)))
	case core.ActionSetText:
		if !h.clear(n) {
			return false
		}
		if args == nil || args.Text == "" {
			return true
		}
		return h.run("input text " + EscapeText(args.Text))
	case core.ActionIMEEnter:
		return h.run("input keyevent KEYCODE_ENTER")
	}
	return false
}

// clear deletes the node's current text from the end of the field.
func (h *Host) clear(n *core.Node) bool {
	count := len([]rune(n.Text))
	if count == 0 {
		return true
	}
	cmd := "input keyevent KEYCODE_MOVE_END" + strings.Repeat(" KEYCODE_DEL", count)
	return h.run(cmd)
}

// Dispatch synthesizes the gesture with input tap or input swipe.
// Multi-point paths are reduced to their first and last points.
func (h *Host) Dispatch(g core.Gesture) {
	if len(g.Points) == 0 {
		return
	}
	first := g.Points[0]
	last := g.Points[len(g.Points)-1]
	ms := g.Duration.Milliseconds()

	var cmd string
	switch {
	case g.IsTap() && g.Duration < LongPressThreshold:
		cmd = fmt.Sprintf("input tap %d %d", round(first.X), round(first.Y))
	default:
		// a zero-length swipe is a press-and-hold
		cmd = fmt.Sprintf("input swipe %d %d %d %d %d",
			round(first.X), round(first.Y), round(last.X), round(last.Y), ms)
	}
	h.run(cmd)
}

func (h *Host) run(cmd string) bool {
	if _, err := h.shell.Shell(cmd); err != nil {
		h.log.WithError(err).Debugf("%q failed", cmd)
		return false
	}
	return true
}

// EscapeText prepares text for "input text": spaces become %s and shell
// metacharacters are backslash-escaped.
func EscapeText(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case ' ':
			b.WriteString("%s")
		case '\\', '"', '\'', '`', '$', '&', '|', ';', '<', '>', '(', ')', '*', '~', '#', '?', '!', '[', ']', '{', '}':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func round(v float64) int {
	return int(math.Round(v))
}
