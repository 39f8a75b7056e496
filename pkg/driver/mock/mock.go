// Package mock provides an in-memory host for testing without a real device.
package mock

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/hierarchy"
)

// Host is an in-memory implementation of core.Host. It records every action
// and gesture and applies set-text to the in-memory tree.
type Host struct {
	// Configuration
	Config Config

	mu        sync.Mutex
	root      *core.Node
	rootCalls int
	performed []Call
	gestures  []core.Gesture
}

// Config configures mock host behavior.
type Config struct {
	// NoTree makes Root return nil.
	NoTree bool
	// RootError makes Root fail.
	RootError error
	// Reject lists actions Perform always declines.
	Reject map[core.Action]bool
	// PerformFunc overrides the Perform decision when set.
	PerformFunc func(n *core.Node, action core.Action) bool
	// ActionDelay adds artificial delay per action
	ActionDelay time.Duration
}

// Call is one recorded Perform invocation.
type Call struct {
	Node   *core.Node
	Action core.Action
	Text   string
	OK     bool
}

// New creates a host over root.
func New(root *core.Node, cfg Config) *Host {
	return &Host{root: root, Config: cfg}
}

// FromHierarchy creates a host over a parsed hierarchy XML document.
func FromHierarchy(xmlData string, cfg Config) (*Host, error) {
	root, err := hierarchy.Parse(xmlData)
	if err != nil {
		return nil, err
	}
	return New(root, cfg), nil
}

// FromFile creates a host over a hierarchy XML file.
func FromFile(path string, cfg Config) (*Host, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy: %w", err)
	}
	return FromHierarchy(string(data), cfg)
}

// Root returns the in-memory tree.
func (h *Host) Root() (*core.Node, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.rootCalls++
	if h.Config.RootError != nil {
		return nil, h.Config.RootError
	}
	if h.Config.NoTree {
		return nil, nil
	}
	return h.root, nil
}

// SetRoot replaces the tree, e.g. to simulate a screen change.
func (h *Host) SetRoot(root *core.Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.root = root
}

// Perform records the action and applies set-text.
func (h *Host) Perform(n *core.Node, action core.Action, args *core.ActionArgs) bool {
	if h.Config.ActionDelay > 0 {
		time.Sleep(h.Config.ActionDelay)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ok := !h.Config.Reject[action]
	if h.Config.PerformFunc != nil {
		ok = h.Config.PerformFunc(n, action)
	}

	call := Call{Node: n, Action: action, OK: ok}
	if args != nil {
		call.Text = args.Text
	}
	h.performed = append(h.performed, call)

	if ok {
		switch action {
		case core.ActionSetText:
			n.Text = call.Text
		case core.ActionFocus:
			n.Focused = true
		}
	}
	return ok
}

// Dispatch records the gesture.
func (h *Host) Dispatch(g core.Gesture) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gestures = append(h.gestures, g)
}

// Performed returns the recorded actions.
func (h *Host) Performed() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.performed...)
}

// Gestures returns the recorded gestures.
func (h *Host) Gestures() []core.Gesture {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]core.Gesture(nil), h.gestures...)
}

// RootCalls returns how many times the tree was acquired.
func (h *Host) RootCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rootCalls
}

// Reset clears recorded calls.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.performed = nil
	h.gestures = nil
	h.rootCalls = 0
}
