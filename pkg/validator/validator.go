// Package validator checks uiprobe config files and saved hierarchy
// snapshots before use. Unlike config.Load it reports every problem
// found, not just the first.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devicelab-dev/uiprobe/pkg/config"
	"github.com/devicelab-dev/uiprobe/pkg/hierarchy"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	File    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Result contains the validation result.
type Result struct {
	// Files is the list of checked file paths in walk order.
	Files []string
	// Errors contains all validation errors found.
	Errors []error
	// Nodes counts elements per valid hierarchy snapshot.
	Nodes map[string]int
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *Result) fail(file, format string, args ...interface{}) {
	r.Errors = append(r.Errors, &ValidationError{File: file, Message: fmt.Sprintf(format, args...)})
}

// Validator validates config and hierarchy files.
type Validator struct{}

// New creates a new Validator.
func New() *Validator {
	return &Validator{}
}

// Validate validates a file or every config and hierarchy file in a directory.
func (v *Validator) Validate(path string) *Result {
	result := &Result{Nodes: make(map[string]int)}

	info, err := os.Stat(path)
	if err != nil {
		result.fail(path, "cannot access: %v", err)
		return result
	}

	var files []string
	if info.IsDir() {
		files, err = v.collectFiles(path)
		if err != nil {
			result.fail(path, "failed to scan directory: %v", err)
			return result
		}
	} else {
		files = []string{path}
	}

	for _, file := range files {
		v.validateFile(file, result)
	}
	return result
}

// collectFiles finds all .yaml/.yml/.toml/.xml files in a directory.
func (v *Validator) collectFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".toml", ".xml":
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func (v *Validator) validateFile(path string, result *Result) {
	result.Files = append(result.Files, path)
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		v.validateHierarchy(path, result)
		return
	}
	v.validateConfig(path, result)
}

// validateConfig checks device settings and every target.
func (v *Validator) validateConfig(path string, result *Result) {
	cfg, err := config.Parse(path)
	if err != nil {
		result.fail(path, "parse error: %v", err)
		return
	}

	switch cfg.Device.Driver {
	case config.DriverUIAutomator2, config.DriverADB:
	default:
		result.fail(path, "unknown driver %q", cfg.Device.Driver)
	}
	if cfg.Device.Port < 0 || cfg.Device.Port > 65535 {
		result.fail(path, "invalid port %d", cfg.Device.Port)
	}

	// Sorted so repeated runs report in the same order.
	names := make([]string, 0, len(cfg.Targets))
	for name := range cfg.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := cfg.Targets[name]
		if err := t.Validate(); err != nil {
			result.fail(path, "target %q: %v", name, err)
		}
	}
}

// validateHierarchy checks that a snapshot parses into a non-empty tree.
func (v *Validator) validateHierarchy(path string, result *Result) {
	f, err := os.Open(path) //#nosec G304 -- user-provided snapshot
	if err != nil {
		result.fail(path, "cannot open: %v", err)
		return
	}
	defer f.Close()

	root, err := hierarchy.ParseReader(f)
	if err != nil {
		result.fail(path, "parse error: %v", err)
		return
	}
	if root == nil {
		result.fail(path, "hierarchy has no nodes")
		return
	}
	result.Nodes[path] = search.Count(root)
}
