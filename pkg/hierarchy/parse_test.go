package hierarchy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/match"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

const sampleHierarchy = `<?xml version="1.0" encoding="UTF-8"?>
<hierarchy rotation="0">
  <node index="0" text="" resource-id="" class="android.widget.FrameLayout" package="com.app" bounds="[0,0][1080,1920]" clickable="false" enabled="true">
    <node index="0" text="Login" resource-id="com.app:id/login_btn" class="android.widget.Button" bounds="[100,200][300,280]" clickable="true" enabled="true"/>
    <node index="1" text="Sign Up" resource-id="com.app:id/signup_btn" class="android.widget.Button" bounds="[100,300][300,380]" clickable="true" enabled="true"/>
    <node index="2" text="" resource-id="com.app:id/container" class="android.widget.LinearLayout" bounds="[0,400][1080,800]" clickable="false" enabled="true" scrollable="true">
      <node index="0" text="Username" resource-id="com.app:id/label" class="android.widget.TextView" bounds="[50,420][200,460]" clickable="false" enabled="true"/>
      <node index="1" text="" resource-id="com.app:id/input" class="android.widget.EditText" bounds="[50,470][500,530]" clickable="true" focusable="true" enabled="true" focused="true"/>
      <node index="2" text="" class="android.widget.Switch" content-desc="Notifications" bounds="[900,420][1000,460]" checkable="true" checked="true" enabled="true"/>
    </node>
  </node>
</hierarchy>`

func TestParse(t *testing.T) {
	root, err := Parse(sampleHierarchy)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if root.Class != "android.widget.FrameLayout" || root.Parent != nil {
		t.Fatalf("root = %+v", root)
	}
	if got := search.Count(root); got != 7 {
		t.Errorf("expected 7 nodes, got %d", got)
	}

	login := search.FindFirst(root, match.Text("Login"), search.DFS)
	if login == nil {
		t.Fatal("Login button not found")
	}
	if login.ID != "com.app:id/login_btn" || !login.IsClickable() || login.Parent != root {
		t.Errorf("login = %+v", login)
	}
	if login.Bounds != core.NewBounds(100, 200, 300, 280) {
		t.Errorf("bounds = %v", login.Bounds)
	}
}

func TestParse_Capabilities(t *testing.T) {
	root, err := Parse(sampleHierarchy)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	input := search.FindFirst(root, match.ID("input"), search.DFS)
	if input == nil {
		t.Fatal("input not found")
	}
	if !input.IsEditable() || !input.Has(core.ActionFocus) || !input.Has(core.ActionIMEEnter) {
		t.Errorf("input actions = %v", input.Actions)
	}

	container := search.FindFirst(root, match.ID("container"), search.DFS)
	if !container.Can(core.ActionScrollForward) || container.IsClickable() {
		t.Errorf("container actions = %v", container.Actions)
	}

	toggle := search.FindFirst(root, match.Toggle(), search.DFS)
	if toggle == nil || !toggle.Checked || toggle.Description != "Notifications" {
		t.Errorf("toggle = %+v", toggle)
	}
}

func TestParse_ServerSourceFormat(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<hierarchy index="0" class="hierarchy" rotation="0" width="1080" height="2400">
  <android.widget.FrameLayout index="0" package="com.app" bounds="[0,0][1080,2400]">
    <android.widget.TextView index="0" text="Hello" bounds="[10,10][200,60]" />
  </android.widget.FrameLayout>
</hierarchy>`

	root, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if root.Class != "android.widget.FrameLayout" || len(root.Children) != 1 {
		t.Fatalf("root = %+v", root)
	}
	if root.Children[0].Text != "Hello" || root.Children[0].Class != "android.widget.TextView" {
		t.Errorf("child = %+v", root.Children[0])
	}
}

func TestParse_MultipleWindows(t *testing.T) {
	src := `<hierarchy>
  <node class="android.widget.FrameLayout" bounds="[0,0][1080,1800]"/>
  <node class="android.inputmethodservice.SoftInputWindow" bounds="[0,1200][1080,2400]"/>
</hierarchy>`

	root, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if root.Class != RootClass || len(root.Children) != 2 {
		t.Fatalf("root = %+v", root)
	}
	if root.Bounds != core.NewBounds(0, 0, 1080, 2400) {
		t.Errorf("root bounds = %v, want union", root.Bounds)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse("not xml"); err == nil {
		t.Error("expected error for invalid XML")
	}
	if _, err := Parse(`<root><node/></root>`); err == nil {
		t.Error("expected error when hierarchy element is missing")
	}

	root, err := Parse(`<hierarchy rotation="0"></hierarchy>`)
	if err != nil || root != nil {
		t.Errorf("empty hierarchy = %v, %v; want nil, nil", root, err)
	}
}

func TestParseBounds(t *testing.T) {
	tests := []struct {
		input string
		want  core.Bounds
	}{
		{"[0,0][1080,1920]", core.NewBounds(0, 0, 1080, 1920)},
		{"[100,200][300,280]", core.NewBounds(100, 200, 300, 280)},
		{"[300,200][100,280]", core.NewBounds(300, 200, 300, 280)},
		{"invalid", core.Bounds{}},
		{"", core.Bounds{}},
	}

	for _, tt := range tests {
		if got := parseBounds(tt.input); got != tt.want {
			t.Errorf("parseBounds(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestXPath(t *testing.T) {
	root, err := Parse(sampleHierarchy)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		pred match.Predicate
		want string
	}{
		{match.Text("Login"), "/hierarchy/android.widget.FrameLayout[1]/android.widget.Button[1]"},
		{match.Text("Sign Up"), "/hierarchy/android.widget.FrameLayout[1]/android.widget.Button[2]"},
		{match.ID("input"), "/hierarchy/android.widget.FrameLayout[1]/android.widget.LinearLayout[1]/android.widget.EditText[1]"},
	}
	for _, tt := range tests {
		n := search.FindFirst(root, tt.pred, search.DFS)
		if got := XPath(n); got != tt.want {
			t.Errorf("XPath = %q, want %q", got, tt.want)
		}
	}
	if XPath(root) != "/hierarchy/android.widget.FrameLayout[1]" {
		t.Errorf("root xpath = %q", XPath(root))
	}
	if XPath(nil) != "" {
		t.Error("nil xpath should be empty")
	}
}

func TestFormat(t *testing.T) {
	root, err := Parse(sampleHierarchy)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Format(&buf, root); err != nil {
		t.Fatalf("Format error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7", len(lines))
	}
	if !strings.HasPrefix(lines[1], `  Button text="Login" id=com.app:id/login_btn [100,200][300,280] {clickable}`) {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[5], "    EditText") || !strings.Contains(lines[5], "editable") {
		t.Errorf("line 5 = %q", lines[5])
	}
}
