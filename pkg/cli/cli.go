// Package cli provides the command-line interface for uiprobe.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Config file (uiprobe.yaml or uiprobe.toml); defaults to the working directory",
		EnvVars: []string{"UIPROBE_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"s"},
		Usage:   "Device serial (adb -s)",
		EnvVars: []string{"UIPROBE_DEVICE", "ANDROID_SERIAL"},
	},
	&cli.StringFlag{
		Name:    "driver",
		Aliases: []string{"d"},
		Usage:   "Driver to use (uiautomator2, adb)",
		EnvVars: []string{"UIPROBE_DRIVER"},
	},
	&cli.IntFlag{
		Name:    "port",
		Usage:   "Local port of an already running UIAutomator2 server",
		EnvVars: []string{"UIPROBE_PORT"},
	},
	&cli.StringFlag{
		Name:  "hierarchy",
		Usage: "Run against a saved hierarchy XML instead of a device (dry run)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable debug logging",
		EnvVars: []string{"UIPROBE_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file (rotated)",
		EnvVars: []string{"UIPROBE_LOG_FILE"},
	},
}

// Commands are the uiprobe subcommands.
var Commands = []*cli.Command{
	findCommand,
	tapCommand,
	tapAllCommand,
	typeCommand,
	clearCommand,
	enterCommand,
	scrollCommand,
	textCommand,
	targetsCommand,
	hierarchyCommand,
	validateCommand,
}

// NewApp builds the application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "uiprobe",
		Usage:   "Find and interact with UI elements through the accessibility tree",
		Version: Version,
		Description: `uiprobe searches the active window's accessibility tree and acts on
matching elements, falling back from the element to a clickable ancestor
and finally to a synthesized tap.

Examples:
  uiprobe find --class ImageView
  uiprobe tap --text Send
  uiprobe tap --target gallery-first-thumbnail
  uiprobe tap-all --desc-prefix "Like" --max 5
  uiprobe type --index 1 "hello"
  uiprobe --hierarchy window.xml tap --desc Close`,
		Flags:    GlobalFlags,
		Commands: Commands,
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
