// Package config handles configuration for uiprobe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/engine"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
	"github.com/devicelab-dev/uiprobe/pkg/target"
)

// Supported drivers.
const (
	DriverUIAutomator2 = "uiautomator2"
	DriverADB          = "adb"
)

// FileNames are tried in order by LoadFromDir.
var FileNames = []string{"uiprobe.yaml", "uiprobe.yml", "uiprobe.toml"}

// Config represents the workspace configuration (uiprobe.yaml).
type Config struct {
	// Targets are merged over the built-in target table.
	Targets map[string]target.Target `yaml:"targets" toml:"targets" json:"targets,omitempty"`

	Pacing Pacing        `yaml:"pacing" toml:"pacing" json:"pacing"`
	Log    logger.Config `yaml:"log" toml:"log" json:"log"`
	Device Device        `yaml:"device" toml:"device" json:"device"`

	// Variables are available as ${name} in typed text.
	Variables map[string]interface{} `yaml:"variables" toml:"variables" json:"variables,omitempty"`
}

// Device selects the device and host backend.
type Device struct {
	Serial string `yaml:"serial" toml:"serial" json:"serial,omitempty"`
	Driver string `yaml:"driver" toml:"driver" json:"driver"` // uiautomator2 or adb
	Port   int    `yaml:"port" toml:"port" json:"port,omitempty"` // local UIAutomator2 port, 0 = auto
}

// Pacing overrides engine timing and geometry. Zero values keep defaults.
type Pacing struct {
	BulkDelay      *Duration `yaml:"bulkDelay" toml:"bulkDelay" json:"bulkDelay,omitempty"`
	MaxActions     int       `yaml:"maxActions" toml:"maxActions" json:"maxActions,omitempty"`
	Dedup          *bool     `yaml:"dedup" toml:"dedup" json:"dedup,omitempty"`
	TapDuration    Duration  `yaml:"tapDuration" toml:"tapDuration" json:"tapDuration,omitempty"`
	SwipeDuration  Duration  `yaml:"swipeDuration" toml:"swipeDuration" json:"swipeDuration,omitempty"`
	ScrollDuration Duration  `yaml:"scrollDuration" toml:"scrollDuration" json:"scrollDuration,omitempty"`
	ScrollDown     *Swipe    `yaml:"scrollDown" toml:"scrollDown" json:"scrollDown,omitempty"`
	ScrollUp       *Swipe    `yaml:"scrollUp" toml:"scrollUp" json:"scrollUp,omitempty"`
	NearTolerance  float64   `yaml:"nearTolerance" toml:"nearTolerance" json:"nearTolerance,omitempty"`
}

// Swipe is a configured two-point swipe.
type Swipe struct {
	FromX float64 `yaml:"fromX" toml:"fromX" json:"fromX"`
	FromY float64 `yaml:"fromY" toml:"fromY" json:"fromY"`
	ToX   float64 `yaml:"toX" toml:"toX" json:"toX"`
	ToY   float64 `yaml:"toY" toml:"toY" json:"toY"`
}

// Duration accepts Go duration strings ("700ms", "1.5s") or plain
// integers, which are milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for YAML and TOML scalars.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a YAML or TOML file, chosen by extension.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a config file and applies defaults without validating it.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("parse %s", path)).WithCause(err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromDir looks for uiprobe.yaml, uiprobe.yml or uiprobe.toml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range FileNames {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return defaults
	return Default(), nil
}

func (c *Config) applyDefaults() {
	if c.Device.Driver == "" {
		c.Device.Driver = DriverUIAutomator2
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks driver and target definitions.
func (c *Config) Validate() error {
	switch c.Device.Driver {
	case DriverUIAutomator2, DriverADB:
	default:
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unknown driver %q", c.Device.Driver))
	}
	if c.Device.Port < 0 || c.Device.Port > 65535 {
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("invalid port %d", c.Device.Port))
	}
	for name, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
	}
	return nil
}

// EnginePacing overlays the configured values on the engine defaults.
func (c *Config) EnginePacing() engine.Pacing {
	p := engine.DefaultPacing()
	cp := c.Pacing

	if cp.BulkDelay != nil {
		p.BulkDelay = time.Duration(*cp.BulkDelay)
	}
	if cp.MaxActions > 0 {
		p.MaxActions = cp.MaxActions
	}
	if cp.Dedup != nil {
		p.Dedup = *cp.Dedup
	}
	if cp.TapDuration > 0 {
		p.TapDuration = time.Duration(cp.TapDuration)
	}
	if cp.SwipeDuration > 0 {
		p.SwipeDuration = time.Duration(cp.SwipeDuration)
	}
	if cp.ScrollDuration > 0 {
		p.ScrollDuration = time.Duration(cp.ScrollDuration)
	}
	if cp.ScrollDown != nil {
		p.ScrollDown = cp.ScrollDown.preset()
	}
	if cp.ScrollUp != nil {
		p.ScrollUp = cp.ScrollUp.preset()
	}
	if cp.NearTolerance > 0 {
		p.NearTolerance = cp.NearTolerance
	}
	return p
}

func (s *Swipe) preset() engine.SwipePreset {
	return engine.SwipePreset{
		From: core.Point{X: s.FromX, Y: s.FromY},
		To:   core.Point{X: s.ToX, Y: s.ToY},
	}
}

// SessionOptions returns the engine options this configuration implies.
func (c *Config) SessionOptions() []engine.Option {
	opts := []engine.Option{engine.WithPacing(c.EnginePacing())}
	if len(c.Targets) > 0 {
		opts = append(opts, engine.WithTargets(c.Targets))
	}
	if len(c.Variables) > 0 {
		opts = append(opts, engine.WithVariables(c.Variables))
	}
	return opts
}
