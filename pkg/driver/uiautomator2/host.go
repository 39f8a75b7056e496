// Package uiautomator2 implements core.Host over a UIAutomator2 server.
package uiautomator2

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/hierarchy"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
	"github.com/devicelab-dev/uiprobe/pkg/uiautomator2"
)

// UIA2Client defines the UIAutomator2 operations the host needs.
// Implemented by uiautomator2.Client. Allows mocking in tests.
type UIA2Client interface {
	Source() (string, error)
	FindElement(strategy, selector string) (*uiautomator2.Element, error)

	ClickElement(elementID string) error
	LongClickElement(elementID string, durationMs int) error
	ClearElement(elementID string) error
	SendKeysElement(elementID, text string) error
	Scroll(elementID, direction string, percent float64, speed int) error

	Click(x, y int) error
	LongClick(x, y, durationMs int) error
	DragPoints(startX, startY, endX, endY, speed int) error
	PressKeyCode(keyCode int) error
}

// Host tuning.
const (
	LongPressThreshold = 500 * time.Millisecond // taps this long become long clicks
	LongClickDuration  = 1000                   // ms, for the long-click action
	ScrollPercent      = 0.7
	ScrollSpeed        = 2500 // px/s
)

// Host resolves engine nodes to server elements by xpath and performs
// actions through the server's element and gesture endpoints.
type Host struct {
	client UIA2Client
	log    *logrus.Entry
}

// New creates a host over client.
func New(client UIA2Client) *Host {
	return &Host{
		client: client,
		log:    logger.WithFields(logrus.Fields{"component": "host", "driver": "uiautomator2"}),
	}
}

// Open waits for the server, creates a session and returns a host over it.
func Open(client *uiautomator2.Client, timeout time.Duration) (*Host, error) {
	if err := client.WaitReady(timeout); err != nil {
		return nil, err
	}
	if !client.HasSession() {
		if err := client.CreateSession(uiautomator2.Capabilities{PlatformName: "Android"}); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}
	return New(client), nil
}

// Root fetches and parses the current window hierarchy.
func (h *Host) Root() (*core.Node, error) {
	source, err := h.client.Source()
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return hierarchy.Parse(source)
}

// Perform runs action on the server element addressed by the node's xpath.
// Any server error is reported as a declined action.
func (h *Host) Perform(n *core.Node, action core.Action, args *core.ActionArgs) bool {
	if action == core.ActionIMEEnter {
		return h.ok(action, h.client.PressKeyCode(uiautomator2.KeyCodeEnter))
	}

	xpath := hierarchy.XPath(n)
	elem, err := h.client.FindElement(uiautomator2.StrategyXPath, xpath)
	if err != nil {
		h.log.WithError(err).Debugf("%s: element %s not found", action, xpath)
		return false
	}
	id := elem.ID()

	switch action {
	case core.ActionClick, core.ActionFocus:
		return h.ok(action, h.client.ClickElement(id))
	case core.ActionLongClick:
		return h.ok(action, h.client.LongClickElement(id, LongClickDuration))
	case core.ActionSetText:
		if err := h.client.ClearElement(id); err != nil {
			return h.ok(action, err)
		}
		if args == nil || args.Text == "" {
			return true
		}
		return h.ok(action, h.client.SendKeysElement(id, args.Text))
	case core.ActionScrollForward:
		return h.ok(action, h.client.Scroll(id, uiautomator2.DirectionDown, ScrollPercent, ScrollSpeed))
	case core.ActionScrollBackward:
		return h.ok(action, h.client.Scroll(id, uiautomator2.DirectionUp, ScrollPercent, ScrollSpeed))
	}
	h.log.Debugf("unsupported action %s", action)
	return false
}

func (h *Host) ok(action core.Action, err error) bool {
	if err != nil {
		h.log.WithError(err).Debugf("%s failed", action)
		return false
	}
	return true
}

// Dispatch sends a tap or a straight drag between the first and last points.
// Errors are logged; dispatch is fire-and-forget.
func (h *Host) Dispatch(g core.Gesture) {
	if len(g.Points) == 0 {
		return
	}
	var err error
	first := g.Points[0]
	if g.IsTap() {
		x, y := round(first.X), round(first.Y)
		if g.Duration >= LongPressThreshold {
			err = h.client.LongClick(x, y, int(g.Duration.Milliseconds()))
		} else {
			err = h.client.Click(x, y)
		}
	} else {
		last := g.Points[len(g.Points)-1]
		err = h.client.DragPoints(round(first.X), round(first.Y), round(last.X), round(last.Y), dragSpeed(first, last, g.Duration))
	}
	if err != nil {
		h.log.WithError(err).Warn("gesture dispatch failed")
	}
}

// dragSpeed converts a path and duration to pixels per second.
func dragSpeed(from, to core.Point, d time.Duration) int {
	if d <= 0 {
		return 0
	}
	dist := math.Hypot(to.X-from.X, to.Y-from.Y)
	return int(math.Round(dist / d.Seconds()))
}

func round(v float64) int {
	return int(math.Round(v))
}
