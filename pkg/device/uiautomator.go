package device

import (
	"fmt"
	"net"
	"time"
)

// UIAutomator2 package names
const (
	UIAutomator2Server = "io.appium.uiautomator2.server"
	UIAutomator2Test   = "io.appium.uiautomator2.server.test"
)

// Port range for local TCP forwarding
const (
	portRangeStart = 6001
	portRangeEnd   = 7001
)

// UIAutomator2Config holds configuration for the UIAutomator2 server.
type UIAutomator2Config struct {
	LocalPort  int // default: first free port in range
	DevicePort int // default: 6790
	Timeout    time.Duration
}

// DefaultUIAutomator2Config returns default configuration.
func DefaultUIAutomator2Config() UIAutomator2Config {
	return UIAutomator2Config{
		DevicePort: 6790,
		Timeout:    30 * time.Second,
	}
}

// StartUIAutomator2 forwards a local port and starts the server
// instrumentation. It returns the local port; readiness is the caller's
// concern.
func (d *AndroidDevice) StartUIAutomator2(cfg UIAutomator2Config) (int, error) {
	if !d.IsInstalled(UIAutomator2Server) {
		return 0, fmt.Errorf("UIAutomator2 server not installed: %s", UIAutomator2Server)
	}
	if !d.IsInstalled(UIAutomator2Test) {
		return 0, fmt.Errorf("UIAutomator2 test APK not installed: %s", UIAutomator2Test)
	}
	if cfg.DevicePort == 0 {
		cfg.DevicePort = DefaultUIAutomator2Config().DevicePort
	}

	localPort := cfg.LocalPort
	if localPort == 0 {
		port, err := findFreePort(portRangeStart, portRangeEnd)
		if err != nil {
			return 0, err
		}
		localPort = port
	}
	if err := d.Forward(localPort, cfg.DevicePort); err != nil {
		return 0, fmt.Errorf("port forward failed: %w", err)
	}

	// nohup detaches the instrumentation from the adb shell
	instrumentCmd := fmt.Sprintf(
		"nohup am instrument -w -e disableAnalytics true "+
			"%s/androidx.test.runner.AndroidJUnitRunner "+
			"> /dev/null 2>&1 &",
		UIAutomator2Test,
	)
	if _, err := d.Shell(instrumentCmd); err != nil {
		d.RemoveForward(localPort)
		return 0, fmt.Errorf("failed to start instrumentation: %w", err)
	}

	d.log.Infof("uiautomator2 forwarded tcp:%d -> tcp:%d", localPort, cfg.DevicePort)
	return localPort, nil
}

// StopUIAutomator2 stops the server and removes the forward.
func (d *AndroidDevice) StopUIAutomator2(localPort int) error {
	d.Shell("am force-stop " + UIAutomator2Server)
	d.Shell("am force-stop " + UIAutomator2Test)
	if localPort > 0 {
		return d.RemoveForward(localPort)
	}
	return nil
}

// findFreePort finds a free TCP port in the given range.
func findFreePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			ln.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free port found in range %d-%d", start, end)
}
