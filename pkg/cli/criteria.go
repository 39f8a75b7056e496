package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/match"
	"github.com/devicelab-dev/uiprobe/pkg/search"
)

// criteriaFlags returns a fresh set of element criteria flags.
func criteriaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "text", Usage: "Exact text"},
		&cli.BoolFlag{Name: "ignore-case", Usage: "Case-insensitive --text"},
		&cli.StringFlag{Name: "text-contains", Usage: "Text substring (case-insensitive)"},
		&cli.StringFlag{Name: "label", Usage: "Exact text or description"},
		&cli.StringFlag{Name: "desc", Usage: "Exact content description"},
		&cli.StringFlag{Name: "desc-contains", Usage: "Description substring (case-insensitive)"},
		&cli.StringFlag{Name: "desc-prefix", Usage: "Description prefix"},
		&cli.StringFlag{Name: "class", Usage: "Class name, simple or fully qualified"},
		&cli.StringFlag{Name: "id", Usage: "Resource id, full or the part after :id/"},
		&cli.IntFlag{Name: "area", Usage: "Exact bounds area in square pixels"},
		&cli.IntFlag{Name: "area-min", Usage: "Minimum bounds area"},
		&cli.IntFlag{Name: "area-max", Usage: "Maximum bounds area"},
		&cli.IntFlag{Name: "max-top", Usage: "Top edge strictly above this y"},
		&cli.BoolFlag{Name: "clickable", Usage: "Only clickable elements (--clickable=false for the opposite)"},
		&cli.BoolFlag{Name: "enabled", Usage: "Only enabled elements"},
		&cli.BoolFlag{Name: "editable", Usage: "Only editable fields"},
		&cli.BoolFlag{Name: "toggle", Usage: "Only switches and checkboxes"},
		&cli.BoolFlag{Name: "no-id", Usage: "Only elements without a resource id"},
		&cli.BoolFlag{Name: "no-desc", Usage: "Only elements without a description"},
		&cli.StringFlag{Name: "script", Usage: "JavaScript predicate over node, e.g. 'node.area > 1000'"},
		&cli.StringSliceFlag{Name: "exclude", Usage: "Reject elements with this exact description (repeatable)"},
	}
}

// traversalFlag selects depth-first or breadth-first search.
func traversalFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "order",
		Usage: "Traversal order (dfs, bfs)",
		Value: "dfs",
	}
}

// criteriaFrom builds match criteria from the criteria flags.
func criteriaFrom(c *cli.Context) match.Criteria {
	crit := match.Criteria{
		Text:                c.String("text"),
		IgnoreCase:          c.Bool("ignore-case"),
		TextContains:        c.String("text-contains"),
		TextOrDescription:   c.String("label"),
		Description:         c.String("desc"),
		DescriptionContains: c.String("desc-contains"),
		DescriptionPrefix:   c.String("desc-prefix"),
		Class:               c.String("class"),
		ID:                  c.String("id"),
		Area:                c.Int("area"),
		AreaMin:             c.Int("area-min"),
		AreaMax:             c.Int("area-max"),
		NoID:                c.Bool("no-id"),
		NoDescription:       c.Bool("no-desc"),
		Script:              c.String("script"),
		Exclude:             c.StringSlice("exclude"),
	}
	if c.IsSet("max-top") {
		v := c.Int("max-top")
		crit.MaxTop = &v
	}
	crit.Clickable = optionalBool(c, "clickable")
	crit.Enabled = optionalBool(c, "enabled")
	crit.Editable = optionalBool(c, "editable")
	crit.Toggle = optionalBool(c, "toggle")
	return crit
}

func optionalBool(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

// requireCriteria returns the criteria or an error when none were given.
func requireCriteria(c *cli.Context) (match.Criteria, error) {
	crit := criteriaFrom(c)
	if crit.IsEmpty() {
		return crit, fmt.Errorf("no element criteria given (see --help)")
	}
	return crit, nil
}

func traversalFrom(c *cli.Context) (search.Strategy, error) {
	return search.ParseStrategy(c.String("order"))
}

// parsePoint parses "x,y".
func parsePoint(s string) (core.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return core.Point{}, fmt.Errorf("invalid point %q, expected x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return core.Point{X: x, Y: y}, nil
}
