package interact

import (
	"errors"
	"testing"
	"time"

	"github.com/devicelab-dev/uiprobe/pkg/core"
)

// fakeHost records actions and gestures.
type fakeHost struct {
	performed []performCall
	gestures  []core.Gesture
	reject    map[core.Action]bool
	rejectOn  map[*core.Node]bool
}

type performCall struct {
	node   *core.Node
	action core.Action
	text   string
}

func (f *fakeHost) Perform(n *core.Node, a core.Action, args *core.ActionArgs) bool {
	call := performCall{node: n, action: a}
	if args != nil {
		call.text = args.Text
	}
	f.performed = append(f.performed, call)
	if f.reject[a] || f.rejectOn[n] {
		return false
	}
	return true
}

func (f *fakeHost) Dispatch(g core.Gesture) {
	f.gestures = append(f.gestures, g)
}

func TestDispatch_Direct(t *testing.T) {
	host := &fakeHost{}
	d := NewDispatcher(host, host)
	n := &core.Node{Clickable: true, Bounds: core.NewBounds(0, 0, 10, 10)}

	r := d.Click(n)
	if r.Outcome != core.OutcomeDirectSuccess || !r.Success {
		t.Errorf("outcome = %s, want direct-success", r.Outcome)
	}
	if len(host.performed) != 1 || host.performed[0].node != n {
		t.Errorf("performed = %+v", host.performed)
	}
	if len(host.gestures) != 0 {
		t.Error("gesture should not be attempted")
	}
}

func TestDispatch_AncestorWithoutGesture(t *testing.T) {
	host := &fakeHost{}
	d := NewDispatcher(host, host)

	grandparent := &core.Node{Clickable: true, Bounds: core.NewBounds(0, 0, 100, 100)}
	parent := grandparent.AddChild(&core.Node{Bounds: core.NewBounds(0, 0, 50, 50)})
	leaf := parent.AddChild(&core.Node{Text: "icon", Bounds: core.NewBounds(10, 10, 30, 30)})

	r := d.Click(leaf)
	if r.Outcome != core.OutcomeAncestorSuccess {
		t.Fatalf("outcome = %s, want ancestor-success", r.Outcome)
	}
	if len(host.gestures) != 0 {
		t.Error("gesture must not be attempted after ancestor success")
	}
	if len(host.performed) != 1 || host.performed[0].node != grandparent {
		t.Errorf("action should be performed on grandparent, got %+v", host.performed)
	}
	if r.Element.Text != "icon" || r.Actor == nil || r.Actor.Bounds != grandparent.Bounds {
		t.Errorf("element/actor = %+v / %+v", r.Element, r.Actor)
	}
}

func TestDispatch_GestureAtCenter(t *testing.T) {
	host := &fakeHost{}
	d := NewDispatcher(host, host)

	root := &core.Node{}
	leaf := root.AddChild(&core.Node{Bounds: core.NewBounds(10, 10, 30, 30)})

	r := d.Click(leaf)
	if r.Outcome != core.OutcomeGestureFallbackUsed {
		t.Fatalf("outcome = %s, want gesture-fallback-used", r.Outcome)
	}
	if len(host.performed) != 0 {
		t.Error("no semantic action should be attempted without capability")
	}
	if len(host.gestures) != 1 {
		t.Fatalf("gestures = %d, want 1", len(host.gestures))
	}
	g := host.gestures[0]
	if len(g.Points) != 1 || g.Points[0] != (core.Point{X: 20, Y: 20}) {
		t.Errorf("gesture point = %+v, want (20,20)", g.Points)
	}
	if g.Duration != core.DefaultTapDuration {
		t.Errorf("duration = %v", g.Duration)
	}
	if r.Outcome.Confirmed() {
		t.Error("gesture fallback is not confirmed")
	}
}

func TestDispatch_DirectDeclinedFallsThrough(t *testing.T) {
	leafNode := &core.Node{Clickable: true, Bounds: core.NewBounds(0, 0, 10, 10)}
	parent := &core.Node{Clickable: true, Bounds: core.NewBounds(0, 0, 20, 20)}
	parent.AddChild(leafNode)

	host := &fakeHost{rejectOn: map[*core.Node]bool{leafNode: true}}
	r := NewDispatcher(host, host).Click(leafNode)
	if r.Outcome != core.OutcomeAncestorSuccess {
		t.Errorf("outcome = %s, want ancestor-success", r.Outcome)
	}

	host = &fakeHost{reject: map[core.Action]bool{core.ActionClick: true}}
	r = NewDispatcher(host, host).Click(leafNode)
	if r.Outcome != core.OutcomeGestureFallbackUsed {
		t.Errorf("outcome = %s, want gesture-fallback-used", r.Outcome)
	}
	if len(host.performed) != 2 {
		t.Errorf("performed %d actions, want direct + first ancestor", len(host.performed))
	}
}

func TestDispatch_OnlyFirstCapableAncestor(t *testing.T) {
	top := &core.Node{Clickable: true}
	mid := top.AddChild(&core.Node{Clickable: true})
	leaf := mid.AddChild(&core.Node{})

	host := &fakeHost{rejectOn: map[*core.Node]bool{mid: true}}
	d := &Dispatcher{Actions: host}
	r := d.Click(leaf)

	if r.Outcome != core.OutcomeActionFailed || r.Success {
		t.Errorf("outcome = %s, want action-failed", r.Outcome)
	}
	if len(host.performed) != 1 || host.performed[0].node != mid {
		t.Errorf("only the nearest ancestor should be tried, got %+v", host.performed)
	}
	if !errors.Is(r.Error, core.ErrActionFailed) {
		t.Errorf("error = %v", r.Error)
	}
}

func TestDispatch_NilNode(t *testing.T) {
	r := NewDispatcher(&fakeHost{}, nil).Click(nil)
	if r.Outcome != core.OutcomeNoMatch {
		t.Errorf("outcome = %s, want no-match", r.Outcome)
	}
}

func TestDispatchGesture(t *testing.T) {
	host := &fakeHost{}
	d := NewDispatcher(host, host)
	r := d.DispatchGesture(core.Swipe(core.Point{X: 300, Y: 1200}, core.Point{X: 300, Y: 300}, 700*time.Millisecond))
	if !r.Success || len(host.gestures) != 1 {
		t.Errorf("result = %+v", r)
	}
	if r := (&Dispatcher{}).DispatchGesture(core.Tap(1, 1, 0)); r.Success {
		t.Error("gesture without executor should fail")
	}
}

func TestSequencer_Dedup(t *testing.T) {
	host := &fakeHost{}
	s := NewSequencer(NewDispatcher(host, host))
	s.Sleep = func(time.Duration) {}

	a := &core.Node{Clickable: true, Bounds: core.NewBounds(0, 0, 10, 10)}
	b := &core.Node{Clickable: true, Bounds: core.NewBounds(0, 0, 10, 10)}

	r := s.Run([]*core.Node{a, b}, BulkOptions{MaxActions: 5, Dedup: true})
	if len(host.performed) != 1 {
		t.Errorf("performed %d actions, want 1", len(host.performed))
	}
	if r.Attempted != 1 || r.Succeeded != 1 || r.Skipped != 1 {
		t.Errorf("result = %+v", r)
	}
}

func TestSequencer_MaxActionsAndPacing(t *testing.T) {
	host := &fakeHost{}
	var sleeps []time.Duration
	s := NewSequencer(NewDispatcher(host, host))
	s.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	var candidates []*core.Node
	for i := 0; i < 5; i++ {
		candidates = append(candidates, &core.Node{Clickable: true, Bounds: core.NewBounds(i*10, 0, i*10+10, 10)})
	}

	r := s.Run(candidates, BulkOptions{MaxActions: 3, Delay: 120 * time.Millisecond, Dedup: true})
	if r.Succeeded != 3 || r.Attempted != 3 {
		t.Errorf("result = %+v", r)
	}
	if len(sleeps) != 2 {
		t.Errorf("sleeps = %d, want 2 (between successes only)", len(sleeps))
	}
	for _, d := range sleeps {
		if d != 120*time.Millisecond {
			t.Errorf("sleep = %v", d)
		}
	}
}

func TestSequencer_PartialFailure(t *testing.T) {
	bad := &core.Node{Clickable: true, Bounds: core.NewBounds(0, 0, 10, 10)}
	good := &core.Node{Clickable: true, Bounds: core.NewBounds(20, 0, 30, 10)}

	host := &fakeHost{rejectOn: map[*core.Node]bool{bad: true}}
	var sleeps int
	s := NewSequencer(&Dispatcher{Actions: host})
	s.Sleep = func(time.Duration) { sleeps++ }

	r := s.Run([]*core.Node{bad, nil, good}, BulkOptions{Delay: time.Second})
	if r.Attempted != 3 || r.Succeeded != 1 || r.Failures() != 2 {
		t.Errorf("result = %+v", r)
	}
	if sleeps != 0 {
		t.Errorf("no pause expected after failures, got %d", sleeps)
	}
	if len(r.Results) != 3 || r.Results[1].Outcome != core.OutcomeNotFound {
		t.Errorf("per-candidate results = %+v", r.Results)
	}
}

func TestSequencer_GestureOnly(t *testing.T) {
	host := &fakeHost{}
	s := NewSequencer(NewDispatcher(host, host))
	s.Sleep = func(time.Duration) {}

	n := &core.Node{Clickable: true, Bounds: core.NewBounds(0, 0, 40, 40)}
	r := s.Run([]*core.Node{n}, BulkOptions{GestureOnly: true})
	if r.Succeeded != 1 || len(host.performed) != 0 || len(host.gestures) != 1 {
		t.Errorf("gesture-only run: result=%+v performed=%d gestures=%d", r, len(host.performed), len(host.gestures))
	}
}

func editField(text string) *core.Node {
	return &core.Node{
		Class:   "android.widget.EditText",
		Text:    text,
		Enabled: true,
		Actions: []core.Action{core.ActionFocus, core.ActionSetText},
	}
}

// editTree places A and B at depth 1 and C at depth 2 under an earlier
// container, so BFS order (A, B, C) differs from DFS order (C, A, B).
func editTree() (root, a, b, c *core.Node) {
	root = &core.Node{Class: "android.widget.FrameLayout"}
	container := root.AddChild(&core.Node{Class: "android.widget.LinearLayout"})
	c = container.AddChild(editField("C"))
	a = root.AddChild(editField("A"))
	root.AddChild(&core.Node{Class: "android.widget.EditText", Enabled: false, Actions: []core.Action{core.ActionSetText}})
	b = root.AddChild(editField("B"))
	return
}

func TestTextEntry_TypeIntoSecond(t *testing.T) {
	root, a, b, c := editTree()
	if got := Editables(root); len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("Editables order wrong")
	}

	host := &fakeHost{}
	r := NewTextEntry(host).TypeInto(root, 2, "hello")
	if r.Outcome != core.OutcomeDirectSuccess {
		t.Fatalf("outcome = %s", r.Outcome)
	}
	if len(host.performed) != 2 {
		t.Fatalf("performed = %+v", host.performed)
	}
	if host.performed[0].node != b || host.performed[0].action != core.ActionFocus {
		t.Errorf("first call should focus B, got %+v", host.performed[0])
	}
	if host.performed[1].node != b || host.performed[1].action != core.ActionSetText || host.performed[1].text != "hello" {
		t.Errorf("second call should set text on B, got %+v", host.performed[1])
	}
}

func TestTextEntry_NotFound(t *testing.T) {
	root, _, _, _ := editTree()
	host := &fakeHost{}

	for _, k := range []int{4, 0} {
		r := NewTextEntry(host).TypeInto(root, k, "x")
		if r.Outcome != core.OutcomeNotFound || r.Success {
			t.Errorf("k=%d outcome = %s, want not-found", k, r.Outcome)
		}
	}
	if len(host.performed) != 0 {
		t.Error("no action expected when not found")
	}
}

func TestTextEntry_SetTextDeclined(t *testing.T) {
	root, _, _, _ := editTree()
	host := &fakeHost{reject: map[core.Action]bool{core.ActionSetText: true}}
	r := NewTextEntry(host).TypeInto(root, 1, "x")
	if r.Outcome != core.OutcomeActionFailed {
		t.Errorf("outcome = %s, want action-failed", r.Outcome)
	}
}

func TestTextEntry_ClearAll(t *testing.T) {
	root, a, _, _ := editTree()
	host := &fakeHost{rejectOn: map[*core.Node]bool{a: true}}

	r := NewTextEntry(host).ClearAll(root, "EditText")
	if r.Total != 4 || r.Succeeded != 3 {
		t.Errorf("ClearAll = %+v, want 3/4", r)
	}
	for _, call := range host.performed {
		if call.action == core.ActionSetText && call.text != "" {
			t.Errorf("clear should set empty text, got %q", call.text)
		}
	}
}

func TestTextEntry_NilExecutor(t *testing.T) {
	root, _, _, _ := editTree()
	te := NewTextEntry(nil)

	r := te.TypeInto(root, 1, "x")
	if r.Outcome != core.OutcomeActionFailed || r.Success {
		t.Errorf("outcome = %s, want action-failed", r.Outcome)
	}
	if c := te.ClearAll(root, "EditText"); c.Total != 4 || c.Succeeded != 0 {
		t.Errorf("ClearAll = %+v, want 0/4", c)
	}
}
