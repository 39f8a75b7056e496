package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uiprobe/pkg/config"
	"github.com/devicelab-dev/uiprobe/pkg/core"
	"github.com/devicelab-dev/uiprobe/pkg/device"
	"github.com/devicelab-dev/uiprobe/pkg/driver/adb"
	"github.com/devicelab-dev/uiprobe/pkg/driver/mock"
	uia2driver "github.com/devicelab-dev/uiprobe/pkg/driver/uiautomator2"
	"github.com/devicelab-dev/uiprobe/pkg/engine"
	"github.com/devicelab-dev/uiprobe/pkg/logger"
	"github.com/devicelab-dev/uiprobe/pkg/uiautomator2"
)

// serverTimeout bounds the wait for the UIAutomator2 server.
const serverTimeout = 30 * time.Second

// loadConfig reads --config, or the working directory's uiprobe file, and
// applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err = config.LoadFromDir(wd)
	}
	if err != nil {
		return nil, err
	}

	if c.IsSet("driver") {
		cfg.Device.Driver = c.String("driver")
	}
	if c.IsSet("device") {
		cfg.Device.Serial = c.String("device")
	}
	if c.IsSet("port") {
		cfg.Device.Port = c.Int("port")
	}
	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configureLogging sends logs to the configured file, or to the home log
// directory when running verbose without one.
func configureLogging(cfg *config.Config) {
	lc := cfg.Log
	if lc.File == "" && lc.Level == "debug" {
		dir := config.GetLogDir()
		if err := os.MkdirAll(dir, 0o750); err == nil {
			lc.File = filepath.Join(dir, "uiprobe.log")
		}
	}
	if err := logger.Configure(lc); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
}

// openHost connects to the host backend selected by flags and config.
// The returned cleanup is never nil.
func openHost(c *cli.Context, cfg *config.Config) (core.Host, func(), error) {
	noop := func() {}

	if path := c.String("hierarchy"); path != "" {
		logger.Info("Using offline hierarchy: %s", path)
		h, err := mock.FromFile(path, mock.Config{})
		if err != nil {
			return nil, noop, err
		}
		return h, noop, nil
	}

	dev, err := device.New(cfg.Device.Serial)
	if err != nil {
		return nil, noop, err
	}
	logger.Info("Device: %s, driver: %s", dev.Serial(), cfg.Device.Driver)

	switch cfg.Device.Driver {
	case config.DriverADB:
		return adb.New(dev), noop, nil
	case config.DriverUIAutomator2:
		return openUIAutomator2(dev, cfg.Device.Port)
	default:
		return nil, noop, fmt.Errorf("unsupported driver: %s", cfg.Device.Driver)
	}
}

// openUIAutomator2 connects to a running server on port, or starts one.
func openUIAutomator2(dev *device.AndroidDevice, port int) (core.Host, func(), error) {
	noop := func() {}
	started := false
	if port == 0 {
		p, err := dev.StartUIAutomator2(device.DefaultUIAutomator2Config())
		if err != nil {
			return nil, noop, err
		}
		port, started = p, true
	}

	client := uiautomator2.NewClientTCP(port)
	cleanup := func() {
		client.Close()
		if started {
			dev.StopUIAutomator2(port)
		}
	}

	host, err := uia2driver.Open(client, serverTimeout)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("uiautomator2 server on port %d: %w", port, err)
	}
	return host, cleanup, nil
}

// withHost loads config, opens the host and runs fn with both.
func withHost(c *cli.Context, fn func(cfg *config.Config, host core.Host) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	configureLogging(cfg)
	defer logger.Close()

	host, cleanup, err := openHost(c, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(cfg, host)
}

// withSession runs fn with an engine session over the selected host.
func withSession(c *cli.Context, fn func(s *engine.Session) error) error {
	return withHost(c, func(cfg *config.Config, host core.Host) error {
		return fn(engine.NewFromHost(host, cfg.SessionOptions()...))
	})
}
