package match

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/script"
)

// Criteria is a composite match: every set field must hold.
// Pure data structure - Predicate compiles it.
type Criteria struct {
	// Text matching
	Text              string `yaml:"text,omitempty" toml:"text,omitempty" json:"text,omitempty"`
	IgnoreCase        bool   `yaml:"ignoreCase,omitempty" toml:"ignoreCase,omitempty" json:"ignoreCase,omitempty"` // applies to Text
	TextContains      string `yaml:"textContains,omitempty" toml:"textContains,omitempty" json:"textContains,omitempty"`
	TextOrDescription string `yaml:"textOrDescription,omitempty" toml:"textOrDescription,omitempty" json:"textOrDescription,omitempty"`

	// Description matching
	Description         string `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	DescriptionContains string `yaml:"descriptionContains,omitempty" toml:"descriptionContains,omitempty" json:"descriptionContains,omitempty"`
	DescriptionPrefix   string `yaml:"descriptionPrefix,omitempty" toml:"descriptionPrefix,omitempty" json:"descriptionPrefix,omitempty"`

	// Structure
	Class string `yaml:"class,omitempty" toml:"class,omitempty" json:"class,omitempty"`
	ID    string `yaml:"id,omitempty" toml:"id,omitempty" json:"id,omitempty"`

	// Geometry
	Area    int  `yaml:"area,omitempty" toml:"area,omitempty" json:"area,omitempty"`
	AreaMin int  `yaml:"areaMin,omitempty" toml:"areaMin,omitempty" json:"areaMin,omitempty"`
	AreaMax int  `yaml:"areaMax,omitempty" toml:"areaMax,omitempty" json:"areaMax,omitempty"` // 0 = unbounded
	MaxTop  *int `yaml:"maxTop,omitempty" toml:"maxTop,omitempty" json:"maxTop,omitempty"`    // top edge strictly below this value

	// State filters
	Clickable *bool `yaml:"clickable,omitempty" toml:"clickable,omitempty" json:"clickable,omitempty"`
	Enabled   *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty" json:"enabled,omitempty"`
	Editable  *bool `yaml:"editable,omitempty" toml:"editable,omitempty" json:"editable,omitempty"`
	Toggle    *bool `yaml:"toggle,omitempty" toml:"toggle,omitempty" json:"toggle,omitempty"`

	// Absence filters for unlabelled controls
	NoID          bool `yaml:"noId,omitempty" toml:"noId,omitempty" json:"noId,omitempty"`
	NoDescription bool `yaml:"noDescription,omitempty" toml:"noDescription,omitempty" json:"noDescription,omitempty"`

	// Script is a JavaScript boolean expression over `node`.
	Script string `yaml:"script,omitempty" toml:"script,omitempty" json:"script,omitempty"`

	// Exclude rejects nodes whose description equals any entry.
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty"`
}

// criteriaRaw has the same fields without the custom unmarshaler.
type criteriaRaw Criteria

// UnmarshalYAML allows Criteria to be unmarshaled from string or struct.
// The scalar form is an exact text match.
func (c *Criteria) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Criteria{Text: node.Value}
		return nil
	}

	var raw criteriaRaw
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*c = Criteria(raw)
	return nil
}

// IsEmpty returns true if no criteria properties are set.
func (c *Criteria) IsEmpty() bool {
	return c.Text == "" &&
		c.TextContains == "" &&
		c.TextOrDescription == "" &&
		c.Description == "" &&
		c.DescriptionContains == "" &&
		c.DescriptionPrefix == "" &&
		c.Class == "" &&
		c.ID == "" &&
		c.Area == 0 &&
		c.AreaMin == 0 &&
		c.AreaMax == 0 &&
		c.MaxTop == nil &&
		c.Clickable == nil &&
		c.Enabled == nil &&
		c.Editable == nil &&
		c.Toggle == nil &&
		!c.NoID &&
		!c.NoDescription &&
		c.Script == "" &&
		len(c.Exclude) == 0
}

// Predicate compiles the criteria into a single predicate.
// Empty criteria match every node.
func (c *Criteria) Predicate() (Predicate, error) {
	var preds []Predicate

	if c.Text != "" {
		text, fold := c.Text, c.IgnoreCase
		preds = append(preds, func(n *core.Node) bool {
			if fold {
				return MatchesTextFold(n, text)
			}
			return MatchesText(n, text)
		})
	}
	if c.TextContains != "" {
		preds = append(preds, TextContains(c.TextContains))
	}
	if c.TextOrDescription != "" {
		s := c.TextOrDescription
		preds = append(preds, func(n *core.Node) bool {
			return MatchesText(n, s) || MatchesDescription(n, s)
		})
	}
	if c.Description != "" {
		s := c.Description
		preds = append(preds, func(n *core.Node) bool { return MatchesDescription(n, s) })
	}
	if c.DescriptionContains != "" {
		s := c.DescriptionContains
		preds = append(preds, func(n *core.Node) bool { return ContainsDescription(n, s) })
	}
	if c.DescriptionPrefix != "" {
		preds = append(preds, DescriptionPrefix(c.DescriptionPrefix))
	}
	if c.Class != "" {
		preds = append(preds, Class(c.Class))
	}
	if c.ID != "" {
		preds = append(preds, ID(c.ID))
	}
	if c.Area > 0 {
		preds = append(preds, Area(c.Area))
	}
	if c.AreaMin > 0 || c.AreaMax > 0 {
		max := c.AreaMax
		if max == 0 {
			max = math.MaxInt
		}
		if c.AreaMin > max {
			return nil, core.ErrInvalidCriteria.WithMessage(
				fmt.Sprintf("areaMin %d exceeds areaMax %d", c.AreaMin, c.AreaMax))
		}
		preds = append(preds, AreaRange(c.AreaMin, max))
	}
	if c.MaxTop != nil {
		maxTop := *c.MaxTop
		preds = append(preds, func(n *core.Node) bool { return n.Bounds.Top < maxTop })
	}
	if c.Clickable != nil {
		want := *c.Clickable
		preds = append(preds, func(n *core.Node) bool { return n.IsClickable() == want })
	}
	if c.Enabled != nil {
		want := *c.Enabled
		preds = append(preds, func(n *core.Node) bool { return n.Enabled == want })
	}
	if c.Editable != nil {
		want := *c.Editable
		preds = append(preds, func(n *core.Node) bool { return n.IsEditable() == want })
	}
	if c.Toggle != nil {
		want := *c.Toggle
		preds = append(preds, func(n *core.Node) bool { return IsToggle(n) == want })
	}
	if c.NoID {
		preds = append(preds, func(n *core.Node) bool { return n.ID == "" })
	}
	if c.NoDescription {
		preds = append(preds, func(n *core.Node) bool { return n.Description == "" })
	}
	if len(c.Exclude) > 0 {
		preds = append(preds, Exclude(c.Exclude...))
	}
	if c.Script != "" {
		p, err := script.Compile(c.Script)
		if err != nil {
			return nil, core.ErrInvalidCriteria.WithCause(err)
		}
		preds = append(preds, p.Match)
	}

	return And(preds...), nil
}

// MustPredicate is Predicate for criteria known to be valid. It panics on error.
func (c *Criteria) MustPredicate() Predicate {
	p, err := c.Predicate()
	if err != nil {
		panic(err)
	}
	return p
}

// Describe returns a human-readable description like text="OK", class="Button".
func (c *Criteria) Describe() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s=%q", key, value))
		}
	}
	add("text", c.Text)
	add("textContains", c.TextContains)
	add("textOrDescription", c.TextOrDescription)
	add("description", c.Description)
	add("descriptionContains", c.DescriptionContains)
	add("descriptionPrefix", c.DescriptionPrefix)
	add("class", c.Class)
	add("id", c.ID)
	if c.Area > 0 {
		parts = append(parts, fmt.Sprintf("area=%d", c.Area))
	}
	if c.AreaMin > 0 || c.AreaMax > 0 {
		parts = append(parts, fmt.Sprintf("area=[%d,%d]", c.AreaMin, c.AreaMax))
	}
	if c.MaxTop != nil {
		parts = append(parts, fmt.Sprintf("top<%d", *c.MaxTop))
	}
	add("script", c.Script)
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, ", ")
}
