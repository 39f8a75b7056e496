package script

import (
	"testing"

	"github.com/devicelab-dev/uiprobe/pkg/core"
)

func TestEval(t *testing.T) {
	e := New()

	tests := []struct {
		script   string
		expected interface{}
	}{
		{"1 + 2", int64(3)},
		{"'hello' + ' ' + 'world'", "hello world"},
		{"true && false", false},
	}

	for _, tt := range tests {
		result, err := e.Eval(tt.script)
		if err != nil {
			t.Errorf("Eval(%q) error: %v", tt.script, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("Eval(%q) = %v (%T), want %v (%T)", tt.script, result, result, tt.expected, tt.expected)
		}
	}
}

func TestExpandVariables(t *testing.T) {
	e := New()
	e.SetVariable("user", "alice")
	e.SetVariables(map[string]interface{}{"n": 3})

	tests := []struct {
		input    string
		expected string
	}{
		{"no vars", "no vars"},
		{"hi ${user}", "hi alice"},
		{"${n * 2} items", "6 items"},
		{"${missing} stays", "${missing} stays"},
		{"unclosed ${user", "unclosed ${user"},
	}

	for _, tt := range tests {
		if got := e.ExpandVariables(tt.input); got != tt.expected {
			t.Errorf("ExpandVariables(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPredicateMatch(t *testing.T) {
	square := &core.Node{Class: "android.widget.ImageView", Bounds: core.NewBounds(0, 0, 98, 98)}
	wide := &core.Node{Class: "android.widget.ImageView", Bounds: core.NewBounds(0, 0, 200, 98)}

	p, err := Compile("node.bounds.width == node.bounds.height && node.class.endsWith('ImageView')")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !p.Match(square) {
		t.Error("square ImageView should match")
	}
	if p.Match(wide) {
		t.Error("wide ImageView should not match")
	}
	if p.Match(nil) {
		t.Error("nil node should not match")
	}
}

func TestPredicateRuntimeErrorIsNoMatch(t *testing.T) {
	p, err := Compile("node.missing.field == 1")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if p.Match(&core.Node{}) {
		t.Error("runtime error should yield no match")
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile(""); err == nil {
		t.Error("empty expression should fail")
	}
	if _, err := Compile("node.text ==="); err == nil {
		t.Error("syntax error should fail")
	}
}

func TestPredicateSeesText(t *testing.T) {
	p, err := Compile("node.text.toLowerCase().indexOf('send') >= 0 && node.clickable")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !p.Match(&core.Node{Text: "Send now", Clickable: true}) {
		t.Error("expected match")
	}
	if p.Source() == "" {
		t.Error("Source() should not be empty")
	}
}
