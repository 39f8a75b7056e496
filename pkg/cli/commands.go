package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uiprobe/pkg/config"
	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/engine"
	"github.com/devicelab-dev/uiprobe/pkg/hierarchy"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
	"github.com/devicelab-dev/uiprobe/pkg/validator"
)

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// ============================================
// Queries
// ============================================

var findCommand = &cli.Command{
	Name:  "find",
	Usage: "List elements matching the criteria",
	Description: `Search the active window and print every match as JSON.

Examples:
  uiprobe find --class ImageView
  uiprobe find --desc-prefix "Photo" --order bfs
  uiprobe find --text Send --bounds`,
	Flags: withFlags(criteriaFlags(), []cli.Flag{
		traversalFlag(),
		&cli.BoolFlag{Name: "bounds", Usage: "Print only the bounds of the first match"},
		&cli.BoolFlag{Name: "count", Usage: "Print only the number of matches"},
	}),
	Action: runFind,
}

func runFind(c *cli.Context) error {
	crit := criteriaFrom(c)
	strategy, err := traversalFrom(c)
	if err != nil {
		return err
	}
	return withSession(c, func(s *engine.Session) error {
		if c.Bool("bounds") {
			b, err := s.BoundsOf(crit)
			if err != nil {
				return err
			}
			return printJSON(c, b)
		}
		found, err := s.Find(crit, strategy)
		if err != nil && !errors.Is(err, core.ErrNoMatch) {
			return err
		}
		if c.Bool("count") {
			_, err := fmt.Fprintln(c.App.Writer, len(found))
			return err
		}
		if found == nil {
			found = []*core.ElementInfo{}
		}
		return printJSON(c, found)
	})
}

var textCommand = &cli.Command{
	Name:  "text",
	Usage: "Print the screen text or check for a string",
	Description: `Without flags, print every text and distinct description in depth-first order.

Examples:
  uiprobe text
  uiprobe text --present "Welcome"
  uiprobe text --description "Photo"`,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "present", Usage: "Print true if any text or description contains this"},
		&cli.StringFlag{Name: "description", Usage: "Print the full description of the first element containing this"},
	},
	Action: runText,
}

func runText(c *cli.Context) error {
	return withSession(c, func(s *engine.Session) error {
		switch {
		case c.IsSet("present"):
			ok, err := s.TextPresent(c.String("present"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, ok)
			return err
		case c.IsSet("description"):
			desc, err := s.DescriptionContaining(c.String("description"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, desc)
			return err
		default:
			text, err := s.ScreenText()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, text)
			return err
		}
	})
}

var hierarchyCommand = &cli.Command{
	Name:  "hierarchy",
	Usage: "Print the view hierarchy of the active window",
	Description: `Print the accessibility tree, one element per line, or as JSON.

Examples:
  uiprobe hierarchy
  uiprobe hierarchy --json
  uiprobe --device emulator-5554 hierarchy`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output element infos as JSON",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Also save the JSON snapshot under the uiprobe home snapshots directory",
		},
	},
	Action: runHierarchy,
}

func runHierarchy(c *cli.Context) error {
	return withHost(c, func(cfg *config.Config, host core.Host) error {
		if c.Bool("json") || c.Bool("save") {
			snapshot, err := engine.NewFromHost(host, cfg.SessionOptions()...).Snapshot()
			if err != nil {
				return err
			}
			if c.Bool("save") {
				path, err := saveSnapshot(snapshot)
				if err != nil {
					return err
				}
				logger.Info("Saved snapshot: %s", path)
				fmt.Fprintf(c.App.ErrWriter, "saved %s\n", path)
			}
			if c.Bool("json") {
				return printJSON(c, snapshot)
			}
		}
		root, err := host.Root()
		if err != nil {
			return err
		}
		if root == nil {
			return core.ErrNoActiveTree
		}
		return hierarchy.Format(c.App.Writer, root)
	})
}

// saveSnapshot writes snapshot to a timestamped file in the snapshot directory.
func saveSnapshot(snapshot []*core.ElementInfo) (string, error) {
	dir := config.GetSnapshotDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "hierarchy-"+time.Now().Format("20060102-150405.000")+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

var targetsCommand = &cli.Command{
	Name:  "targets",
	Usage: "List the named targets and their strategies",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
	},
	Action: runTargets,
}

func runTargets(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// No host needed: the table is the built-ins merged with config.
	targets := engine.New(nil, nil, nil, cfg.SessionOptions()...).Targets()
	if c.Bool("json") {
		return printJSON(c, targets)
	}

	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	w := c.App.Writer
	for _, name := range names {
		t := targets[name]
		if t.Description != "" {
			fmt.Fprintf(w, "%s - %s\n", name, t.Description)
		} else {
			fmt.Fprintln(w, name)
		}
		for i := range t.Strategies {
			st := t.Strategies[i]
			fmt.Fprintf(w, "  %d. %s\n", i+1, st.Describe())
		}
	}
	return nil
}

// ============================================
// Taps
// ============================================

var tapCommand = &cli.Command{
	Name:  "tap",
	Usage: "Tap an element, a named target, or a point",
	Description: `Tap the first element matching the criteria. The element's click action
is tried first, then its nearest clickable ancestor, then a tap at its center.

Examples:
  uiprobe tap --text Send
  uiprobe tap --class ImageView --nth 2
  uiprobe tap --target gallery-first-thumbnail
  uiprobe tap --id grid --first-child
  uiprobe tap --toggle-near "Dark mode"
  uiprobe tap --near 540,1200
  uiprobe tap --at 540,1200`,
	Flags: withFlags(criteriaFlags(), []cli.Flag{
		traversalFlag(),
		&cli.IntFlag{Name: "nth", Usage: "Tap the n-th match (0-based, depth-first)"},
		&cli.StringFlag{Name: "target", Usage: "Named target"},
		&cli.BoolFlag{Name: "first-child", Usage: "Tap the first child of the match"},
		&cli.StringFlag{Name: "toggle-near", Usage: "Tap the switch next to the element containing this text"},
		&cli.StringFlag{Name: "near", Usage: "Tap the first clickable whose center is near x,y"},
		&cli.Float64Flag{Name: "tolerance", Usage: "Radius for --near in pixels (default from config)"},
		&cli.StringFlag{Name: "at", Usage: "Tap the point x,y"},
	}),
	Action: runTap,
}

func runTap(c *cli.Context) error {
	strategy, err := traversalFrom(c)
	if err != nil {
		return err
	}

	var tap func(s *engine.Session) *core.ActionResult
	switch {
	case c.IsSet("target"):
		name := c.String("target")
		tap = func(s *engine.Session) *core.ActionResult { return s.TapTarget(name) }
	case c.IsSet("toggle-near"):
		label := c.String("toggle-near")
		tap = func(s *engine.Session) *core.ActionResult { return s.TapToggleNear(label) }
	case c.IsSet("near"):
		p, err := parsePoint(c.String("near"))
		if err != nil {
			return err
		}
		tolerance := c.Float64("tolerance")
		tap = func(s *engine.Session) *core.ActionResult { return s.TapNear(p.X, p.Y, tolerance) }
	case c.IsSet("at"):
		p, err := parsePoint(c.String("at"))
		if err != nil {
			return err
		}
		tap = func(s *engine.Session) *core.ActionResult { return s.Tap(p.X, p.Y) }
	default:
		crit, err := requireCriteria(c)
		if err != nil {
			return err
		}
		switch {
		case c.Bool("first-child"):
			tap = func(s *engine.Session) *core.ActionResult { return s.TapFirstChildOf(crit, strategy) }
		case c.IsSet("nth"):
			n := c.Int("nth")
			tap = func(s *engine.Session) *core.ActionResult { return s.TapNth(crit, n) }
		default:
			tap = func(s *engine.Session) *core.ActionResult { return s.TapMatching(crit, strategy) }
		}
	}

	return withSession(c, func(s *engine.Session) error {
		return reportResult(c, tap(s))
	})
}

var tapAllCommand = &cli.Command{
	Name:  "tap-all",
	Usage: "Tap every element matching the criteria",
	Description: `Tap each match in depth-first order, pausing after every successful tap.
Elements sharing bounds with one already tapped are skipped.

Examples:
  uiprobe tap-all --desc-prefix "Like" --max 5
  uiprobe tap-all --class ImageView --gesture-only --delay 1s`,
	Flags: withFlags(criteriaFlags(), []cli.Flag{
		&cli.IntFlag{Name: "max", Usage: "Stop after this many successful taps"},
		&cli.DurationFlag{Name: "delay", Usage: "Pause after each successful tap"},
		&cli.BoolFlag{Name: "no-dedup", Usage: "Tap elements with identical bounds again"},
		&cli.BoolFlag{Name: "gesture-only", Usage: "Tap centers without semantic clicks"},
	}),
	Action: runTapAll,
}

func runTapAll(c *cli.Context) error {
	crit, err := requireCriteria(c)
	if err != nil {
		return err
	}
	return withSession(c, func(s *engine.Session) error {
		opts := s.BulkOptions()
		if c.IsSet("max") {
			opts.MaxActions = c.Int("max")
		}
		if c.IsSet("delay") {
			opts.Delay = c.Duration("delay")
		}
		if c.Bool("no-dedup") {
			opts.Dedup = false
		}
		opts.GestureOnly = c.Bool("gesture-only")
		return reportBulk(c, s.TapAll(crit, opts))
	})
}

// ============================================
// Text entry
// ============================================

var typeCommand = &cli.Command{
	Name:      "type",
	Usage:     "Type text into an editable field",
	ArgsUsage: "TEXT",
	Description: `Type into the k-th editable field (breadth-first, 1-based), the first
element matching the criteria, or every element of a class.
${name} expands to configured variables.

Examples:
  uiprobe type --index 1 "hello"
  uiprobe type --id search_box "cats" --enter
  uiprobe type --all-of-class EditText ""`,
	Flags: withFlags(criteriaFlags(), []cli.Flag{
		&cli.IntFlag{Name: "index", Aliases: []string{"k"}, Usage: "k-th editable field, 1-based"},
		&cli.StringFlag{Name: "all-of-class", Usage: "Set the text of every element of this class"},
		&cli.BoolFlag{Name: "enter", Usage: "Press enter after typing"},
	}),
	Action: runType,
}

func runType(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("text argument is required")
	}
	text := c.Args().First()

	if class := c.String("all-of-class"); class != "" {
		return withSession(c, func(s *engine.Session) error {
			return reportCount(c, s.TypeIntoClass(class, text))
		})
	}

	var typeText func(s *engine.Session) *core.ActionResult
	if c.IsSet("index") {
		k := c.Int("index")
		typeText = func(s *engine.Session) *core.ActionResult { return s.TypeInEditable(k, text) }
	} else {
		crit := criteriaFrom(c)
		if crit.IsEmpty() {
			typeText = func(s *engine.Session) *core.ActionResult { return s.TypeInEditable(1, text) }
		} else {
			typeText = func(s *engine.Session) *core.ActionResult { return s.TypeInMatching(crit, text) }
		}
	}

	return withSession(c, func(s *engine.Session) error {
		r := typeText(s)
		if r.Success && c.Bool("enter") {
			if enter := s.PressEnter(); !enter.Success {
				return reportResult(c, enter)
			}
		}
		return reportResult(c, r)
	})
}

var clearCommand = &cli.Command{
	Name:  "clear",
	Usage: "Clear an editable field",
	Description: `Examples:
  uiprobe clear --id search_box
  uiprobe clear --all-of-class EditText`,
	Flags: withFlags(criteriaFlags(), []cli.Flag{
		&cli.StringFlag{Name: "all-of-class", Usage: "Clear every element of this class"},
	}),
	Action: runClear,
}

func runClear(c *cli.Context) error {
	if class := c.String("all-of-class"); class != "" {
		return withSession(c, func(s *engine.Session) error {
			return reportCount(c, s.ClearClass(class))
		})
	}
	crit, err := requireCriteria(c)
	if err != nil {
		return err
	}
	return withSession(c, func(s *engine.Session) error {
		return reportResult(c, s.ClearMatching(crit))
	})
}

var enterCommand = &cli.Command{
	Name:   "enter",
	Usage:  "Press the keyboard's enter key",
	Action: runEnter,
}

func runEnter(c *cli.Context) error {
	return withSession(c, func(s *engine.Session) error {
		return reportResult(c, s.PressEnter())
	})
}

// ============================================
// Gestures
// ============================================

var scrollCommand = &cli.Command{
	Name:      "scroll",
	Usage:     "Scroll the screen or swipe between two points",
	ArgsUsage: "[down|up]",
	Description: `Examples:
  uiprobe scroll
  uiprobe scroll up
  uiprobe scroll --from 540,1500 --to 540,500 --duration 300ms`,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "Swipe start x,y"},
		&cli.StringFlag{Name: "to", Usage: "Swipe end x,y"},
		&cli.DurationFlag{Name: "duration", Usage: "Swipe duration"},
	},
	Action: runScroll,
}

func runScroll(c *cli.Context) error {
	if c.IsSet("from") || c.IsSet("to") {
		from, err := parsePoint(c.String("from"))
		if err != nil {
			return err
		}
		to, err := parsePoint(c.String("to"))
		if err != nil {
			return err
		}
		return withSession(c, func(s *engine.Session) error {
			return reportResult(c, s.Swipe(from, to, c.Duration("duration")))
		})
	}

	direction := "down"
	if c.NArg() > 0 {
		direction = c.Args().First()
	}
	return withSession(c, func(s *engine.Session) error {
		switch direction {
		case "down":
			return reportResult(c, s.ScrollDown())
		case "up":
			return reportResult(c, s.ScrollUp())
		default:
			return fmt.Errorf("unknown direction %q (down, up)", direction)
		}
	})
}

// ============================================
// Validation
// ============================================

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Check config files and hierarchy snapshots",
	ArgsUsage: "PATH...",
	Description: `Report every problem in the given config files, hierarchy XML snapshots,
or directories of them. Defaults to the working directory.

Examples:
  uiprobe validate
  uiprobe validate uiprobe.yaml snapshots/`,
	Action: runValidate,
}

func runValidate(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	v := validator.New()
	w := c.App.Writer
	failed := 0
	for _, path := range paths {
		result := v.Validate(path)
		for _, file := range result.Files {
			if n, ok := result.Nodes[file]; ok {
				fmt.Fprintf(w, "checked %s (%d nodes)\n", file, n)
			} else {
				fmt.Fprintf(w, "checked %s\n", file)
			}
		}
		for _, err := range result.Errors {
			fmt.Fprintf(w, "  ✗ %v\n", err)
		}
		failed += len(result.Errors)
	}
	if failed > 0 {
		return fmt.Errorf("validation failed with %d error(s)", failed)
	}
	return nil
}
