package match

import (
	"testing"

	"github.com/devicelab-dev/uiprobe/pkg/core"
)

func TestMatchesText(t *testing.T) {
	n := &core.Node{Text: "  Next  "}

	if !MatchesText(n, "Next") {
		t.Error("trimmed exact text should match")
	}
	if MatchesText(n, "next") {
		t.Error("exact match should be case-sensitive")
	}
	if !MatchesTextFold(n, "NEXT ") {
		t.Error("folded match should ignore case")
	}
	if MatchesText(n, "Nex") {
		t.Error("partial text should not match exactly")
	}
}

func TestContains(t *testing.T) {
	n := &core.Node{Text: "Upload Video", Description: "Open Gallery Picker"}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"text lower", ContainsText(n, "video"), true},
		{"text miss", ContainsText(n, "photo"), false},
		{"desc upper", ContainsDescription(n, "GALLERY"), true},
		{"desc miss", ContainsDescription(n, "camera"), false},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestStartsWithDescription(t *testing.T) {
	n := &core.Node{Description: "Bio, edit your profile bio"}
	if !StartsWithDescription(n, "bio") {
		t.Error("prefix should match case-insensitively")
	}
	if StartsWithDescription(n, "profile") {
		t.Error("non-prefix should not match")
	}
	if StartsWithDescription(&core.Node{}, "Bio") {
		t.Error("empty description should not match")
	}
}

func TestMatchesArea(t *testing.T) {
	n := &core.Node{Bounds: core.NewBounds(0, 0, 70, 77)}

	if !MatchesArea(n, 5390) {
		t.Error("area 5390 should match exactly")
	}
	if MatchesArea(n, 5391) {
		t.Error("area 5391 should not match")
	}
	if !MatchesAreaRange(n, 5000, 6000) {
		t.Error("area should be within [5000, 6000]")
	}
	if !MatchesAreaRange(n, 5390, 5390) {
		t.Error("range bounds should be inclusive")
	}
	if MatchesAreaRange(n, 5391, 6000) {
		t.Error("area below min should not match")
	}
}

func TestIsToggle(t *testing.T) {
	tests := []struct {
		node *core.Node
		want bool
	}{
		{&core.Node{Class: "android.widget.Switch"}, true},
		{&core.Node{Class: "android.widget.CheckBox"}, true},
		{&core.Node{Class: "ToggleButton"}, true},
		{&core.Node{Class: "android.widget.CompoundButton"}, true},
		{&core.Node{Class: "android.view.View", Checkable: true}, true},
		{&core.Node{Class: "android.widget.Button"}, false},
	}
	for _, tt := range tests {
		if got := IsToggle(tt.node); got != tt.want {
			t.Errorf("IsToggle(%s) = %v, want %v", tt.node.Class, got, tt.want)
		}
	}
}

func TestExcluded(t *testing.T) {
	list := []string{"Close", "Add Account"}
	if !Excluded(&core.Node{Description: "Close"}, list) {
		t.Error("Close should be excluded")
	}
	if Excluded(&core.Node{Description: "Close tab"}, list) {
		t.Error("exclusion is exact, not substring")
	}
	if Excluded(&core.Node{Description: "Settings"}, nil) {
		t.Error("empty list excludes nothing")
	}
}

func TestMatchesIdentifier(t *testing.T) {
	n := &core.Node{ID: "com.app:id/h4i"}

	tests := []struct {
		id   string
		want bool
	}{
		{"com.app:id/h4i", true},
		{"h4i", true},
		{"4i", false},
		{"other:id/h4i", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := MatchesIdentifier(n, tt.id); got != tt.want {
			t.Errorf("MatchesIdentifier(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
	if MatchesIdentifier(&core.Node{}, "h4i") {
		t.Error("node without id should never match")
	}
}

func TestMatchesClass(t *testing.T) {
	n := &core.Node{Class: "android.widget.GridView"}
	if !MatchesClass(n, "GridView") || !MatchesClass(n, "android.widget.GridView") {
		t.Error("simple and qualified class should match")
	}
	if MatchesClass(n, "View") || MatchesClass(n, "other.GridView") {
		t.Error("unexpected class match")
	}
}

func TestComposition(t *testing.T) {
	root := &core.Node{}
	first := root.AddChild(&core.Node{Class: "android.widget.ImageView", Text: "A"})
	second := root.AddChild(&core.Node{Class: "android.widget.ImageView", Text: "B"})

	p := And(Class("ImageView"), AtSiblingIndex(1))
	if p(first) || !p(second) {
		t.Error("sibling index filter failed")
	}
	if !AtSiblingIndex(-1)(root) || AtSiblingIndex(0)(root) {
		t.Error("root only matches a disabled index")
	}
	if !Or(Text("A"), Text("B"))(second) || Not(Text("A"))(first) {
		t.Error("Or/Not failed")
	}
	if !And()(first) {
		t.Error("empty And should match")
	}
}
