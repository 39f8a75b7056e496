// Package script evaluates JavaScript predicates over UI nodes.
package script

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
)

// Engine wraps a goja runtime. A runtime is not goroutine-safe, so every
// evaluation holds the engine lock.
type Engine struct {
	runtime   *goja.Runtime
	variables map[string]interface{}
	mu        sync.Mutex
}

// New creates a new JS engine instance
func New() *Engine {
	e := &Engine{
		runtime:   goja.New(),
		variables: make(map[string]interface{}),
	}
	e.setupConsole()
	return e
}

// setupConsole routes console.log and friends to the structured logger.
func (e *Engine) setupConsole() {
	makeConsoleFunc := func(logf func(string, ...interface{})) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = fmt.Sprint(arg.Export())
			}
			logf("script: %s", strings.Join(parts, " "))
			return goja.Undefined()
		}
	}

	console := e.runtime.NewObject()
	console.Set("log", makeConsoleFunc(logger.Info))
	console.Set("error", makeConsoleFunc(logger.Error))
	console.Set("warn", makeConsoleFunc(logger.Warn))
	e.runtime.Set("console", console)
}

// SetVariable sets a global variable visible to scripts.
func (e *Engine) SetVariable(name string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.variables[name] = value
	e.runtime.Set(name, value)
}

// SetVariables sets several globals at once.
func (e *Engine) SetVariables(vars map[string]interface{}) {
	for k, v := range vars {
		e.SetVariable(k, v)
	}
}

// Eval evaluates a JavaScript expression and returns the result
func (e *Engine) Eval(script string) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.runtime.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("JS eval error: %w", err)
	}

	return result.Export(), nil
}

// EvalString evaluates a JavaScript expression and returns string result
func (e *Engine) EvalString(script string) (string, error) {
	result, err := e.Eval(script)
	if err != nil {
		return "", err
	}

	if result == nil {
		return "", nil
	}

	return fmt.Sprintf("%v", result), nil
}

// ExpandVariables expands ${...} expressions in text typed into fields.
// Expressions that fail to evaluate are left as-is.
func (e *Engine) ExpandVariables(text string) string {
	result := text
	start := 0

	for {
		idx := strings.Index(result[start:], "${")
		if idx == -1 {
			break
		}
		idx += start

		depth := 1
		end := idx + 2
		for end < len(result) && depth > 0 {
			if result[end] == '{' {
				depth++
			} else if result[end] == '}' {
				depth--
			}
			end++
		}

		if depth != 0 {
			start = idx + 2
			continue
		}

		value, err := e.EvalString(result[idx+2 : end-1])
		if err != nil {
			start = end
			continue
		}

		result = result[:idx] + value + result[end:]
		start = idx + len(value)
	}

	return result
}

// Predicate is a compiled node predicate expression.
type Predicate struct {
	engine  *Engine
	program *goja.Program
	source  string
}

// Compile compiles expr as a boolean predicate over the global `node`.
func (e *Engine) Compile(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty script")
	}
	program, err := goja.Compile("predicate", "("+expr+")", false)
	if err != nil {
		return nil, fmt.Errorf("JS compile error: %w", err)
	}
	return &Predicate{engine: e, program: program, source: expr}, nil
}

// Source returns the expression text.
func (p *Predicate) Source() string {
	return p.source
}

// Match evaluates the predicate against n. Runtime errors count as no match.
func (p *Predicate) Match(n *core.Node) bool {
	if n == nil {
		return false
	}
	e := p.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runtime.Set("node", nodeObject(n))
	v, err := e.runtime.RunProgram(p.program)
	if err != nil {
		logger.Debug("script %q failed on %s: %v", p.source, n.Bounds, err)
		return false
	}
	return v.ToBoolean()
}

// Compile compiles expr on a fresh engine.
func Compile(expr string) (*Predicate, error) {
	return New().Compile(expr)
}

// nodeObject exposes the node's read-only attributes to scripts.
func nodeObject(n *core.Node) map[string]interface{} {
	b := n.Bounds
	actions := make([]string, len(n.Actions))
	for i, a := range n.Actions {
		actions[i] = string(a)
	}
	return map[string]interface{}{
		"id":          n.ID,
		"class":       n.Class,
		"text":        n.Text,
		"description": n.Description,
		"hint":        n.Hint,
		"bounds": map[string]interface{}{
			"left":   b.Left,
			"top":    b.Top,
			"right":  b.Right,
			"bottom": b.Bottom,
			"width":  b.Width(),
			"height": b.Height(),
			"area":   b.Area(),
		},
		"actions":    actions,
		"clickable":  n.IsClickable(),
		"editable":   n.IsEditable(),
		"enabled":    n.Enabled,
		"scrollable": n.Scrollable,
		"checkable":  n.Checkable,
		"checked":    n.Checked,
		"focused":    n.Focused,
		"depth":      n.Depth(),
		"index":      n.IndexInParent(),
		"childCount": len(n.Children),
	}
}
