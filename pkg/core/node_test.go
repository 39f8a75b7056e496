package core

import (
	"testing"
	"time"
)

func TestBounds_Normalize(t *testing.T) {
	b := NewBounds(-5, 10, 3, 2)
	if b.Left != 0 || b.Top != 10 || b.Right != 3 || b.Bottom != 10 {
		t.Errorf("NewBounds = %+v", b)
	}
	if b.Area() != 0 || !b.IsEmpty() {
		t.Errorf("inverted bounds should collapse to empty, area=%d", b.Area())
	}
}

func TestBounds_Geometry(t *testing.T) {
	b := NewBounds(100, 200, 199, 299)
	if b.Width() != 99 || b.Height() != 99 {
		t.Errorf("size = %dx%d, want 99x99", b.Width(), b.Height())
	}
	if b.Area() != 9801 {
		t.Errorf("Area() = %d, want 9801", b.Area())
	}
	x, y := b.Center()
	if x != 149.5 || y != 249.5 {
		t.Errorf("Center() = (%v, %v), want (149.5, 249.5)", x, y)
	}
	if !b.Contains(100, 200) || b.Contains(199, 299) {
		t.Error("Contains() should be right/bottom exclusive")
	}
	if b.Key() != "100,200,199,299" {
		t.Errorf("Key() = %q", b.Key())
	}
	if b.String() != "[100,200][199,299]" {
		t.Errorf("String() = %q", b.String())
	}
}

func TestNode_Can(t *testing.T) {
	n := &Node{Clickable: true, Actions: []Action{ActionFocus}}
	if !n.Can(ActionClick) || !n.IsClickable() {
		t.Error("clickable flag should imply click capability")
	}
	if !n.Can(ActionFocus) {
		t.Error("capability set should be honored")
	}
	if n.Can(ActionSetText) || n.Can(ActionLongClick) {
		t.Error("unexpected capability")
	}

	capOnly := &Node{Actions: []Action{ActionClick}}
	if !capOnly.IsClickable() {
		t.Error("click capability without flag should be clickable")
	}
}

func TestNode_IsEditable(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"enabled edit text", &Node{Class: "android.widget.EditText", Enabled: true, Actions: []Action{ActionSetText}}, true},
		{"short class", &Node{Class: "EditText", Enabled: true, Actions: []Action{ActionSetText}}, true},
		{"disabled", &Node{Class: "android.widget.EditText", Actions: []Action{ActionSetText}}, false},
		{"no set-text", &Node{Class: "android.widget.EditText", Enabled: true}, false},
		{"text view", &Node{Class: "android.widget.TextView", Enabled: true, Actions: []Action{ActionSetText}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsEditable(); got != tt.want {
				t.Errorf("IsEditable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNode_Navigation(t *testing.T) {
	root := &Node{Class: "root"}
	a := root.AddChild(&Node{Class: "a"})
	root.AddChild(nil)
	b := root.AddChild(&Node{Class: "b"})
	leaf := b.AddChild(&Node{Class: "leaf"})

	if root.IndexInParent() != -1 {
		t.Error("root should have no index")
	}
	if a.IndexInParent() != 0 || b.IndexInParent() != 2 {
		t.Errorf("indices = %d, %d", a.IndexInParent(), b.IndexInParent())
	}
	if leaf.Depth() != 2 || leaf.Parent != b {
		t.Errorf("leaf depth = %d", leaf.Depth())
	}
	if root.Child(1) != nil || root.Child(9) != nil || root.Child(0) != a {
		t.Error("Child() should return nil for empty or out-of-range slots")
	}
}

func TestInfoOf(t *testing.T) {
	if InfoOf(nil) != nil {
		t.Error("InfoOf(nil) should be nil")
	}
	root := &Node{}
	n := root.AddChild(&Node{ID: "com.app:id/ok", Text: "OK", Bounds: NewBounds(0, 0, 10, 20), Clickable: true, Enabled: true})
	info := InfoOf(n)
	if info.Area != 200 || !info.Clickable || info.Depth != 1 || info.Text != "OK" {
		t.Errorf("InfoOf = %+v", info)
	}
}

func TestGestureBuilders(t *testing.T) {
	tap := TapAtCenter(NewBounds(0, 0, 100, 50), 0)
	if !tap.IsTap() || tap.Points[0] != (Point{X: 50, Y: 25}) {
		t.Errorf("tap = %+v", tap)
	}
	if tap.Duration != DefaultTapDuration {
		t.Errorf("tap duration = %v", tap.Duration)
	}

	swipe := Swipe(Point{X: 300, Y: 1200}, Point{X: 300, Y: 300}, 700*time.Millisecond)
	if swipe.IsTap() || len(swipe.Points) != 2 || swipe.Duration != 700*time.Millisecond {
		t.Errorf("swipe = %+v", swipe)
	}
}

func TestBulkResult_Add(t *testing.T) {
	var b BulkResult
	b.Add(&ActionResult{Outcome: OutcomeDirectSuccess, Success: true})
	b.Add(&ActionResult{Outcome: OutcomeGestureFallbackUsed, Success: true})
	b.Add(&ActionResult{Outcome: OutcomeActionFailed})

	if b.Attempted != 3 || b.Succeeded != 2 || b.Failures() != 1 {
		t.Errorf("BulkResult = %+v", b)
	}
}

func TestFailed(t *testing.T) {
	r := Failed(ErrIndexOutOfRange, "index 5")
	if r.Success || r.Outcome != OutcomeIndexOutOfRange || r.ErrorText() == "" {
		t.Errorf("Failed() = %+v", r)
	}
	s := Succeeded(OutcomeAncestorSuccess, &Node{Text: "x"}, "ok")
	if !s.Success || s.Element == nil || s.ErrorText() != "" {
		t.Errorf("Succeeded() = %+v", s)
	}
}
