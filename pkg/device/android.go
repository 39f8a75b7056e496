// Package device provides Android device access via ADB.
package device

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/uiprobe/pkg/logger"
)

// CommandRunner executes a host binary and returns its output.
type CommandRunner func(name string, args ...string) (stdout, stderr string, err error)

// AndroidDevice manages an Android device connection via ADB.
type AndroidDevice struct {
	serial  string
	adbPath string
	run     CommandRunner
	log     *logrus.Entry
}

// New creates an AndroidDevice for the given serial.
// If serial is empty, it auto-detects the connected device.
func New(serial string) (*AndroidDevice, error) {
	adbPath, err := findADB()
	if err != nil {
		return nil, err
	}

	d := NewWithRunner(serial, adbPath, execRunner)
	if d.serial == "" {
		d.serial, err = d.detectDeviceSerial()
		if err != nil {
			return nil, fmt.Errorf("no device specified and auto-detect failed: %w", err)
		}
		d.log = d.log.WithField("serial", d.serial)
	}

	if err := d.waitForDevice(5 * time.Second); err != nil {
		return nil, fmt.Errorf("device not found: %w", err)
	}
	return d, nil
}

// NewWithRunner creates a device over an explicit adb path and runner
// without contacting the device.
func NewWithRunner(serial, adbPath string, run CommandRunner) *AndroidDevice {
	return &AndroidDevice{
		serial:  serial,
		adbPath: adbPath,
		run:     run,
		log:     logger.WithFields(logrus.Fields{"component": "adb", "serial": serial}),
	}
}

func execRunner(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// detectDeviceSerial finds the first connected device serial.
func (d *AndroidDevice) detectDeviceSerial() (string, error) {
	out, _, err := d.run(d.adbPath, "devices")
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 && parts[1] == "device" {
			return parts[0], nil
		}
	}
	return "", fmt.Errorf("no connected devices found")
}

// Serial returns the device serial number.
func (d *AndroidDevice) Serial() string {
	return d.serial
}

// Shell executes a shell command on the device.
func (d *AndroidDevice) Shell(cmd string) (string, error) {
	return d.adb("shell", cmd)
}

// IsInstalled checks if a package is installed.
func (d *AndroidDevice) IsInstalled(pkg string) bool {
	out, err := d.Shell("pm list packages " + pkg)
	if err != nil {
		return false
	}
	return strings.Contains(out, "package:"+pkg)
}

// Forward creates a port forward from local to device.
func (d *AndroidDevice) Forward(localPort, remotePort int) error {
	_, err := d.adb("forward", fmt.Sprintf("tcp:%d", localPort), fmt.Sprintf("tcp:%d", remotePort))
	return err
}

// RemoveForward removes a port forward.
func (d *AndroidDevice) RemoveForward(localPort int) error {
	_, err := d.adb("forward", "--remove", fmt.Sprintf("tcp:%d", localPort))
	return err
}

// adb executes an ADB command.
func (d *AndroidDevice) adb(args ...string) (string, error) {
	cmdArgs := make([]string, 0, len(args)+2)
	if d.serial != "" {
		cmdArgs = append(cmdArgs, "-s", d.serial)
	}
	cmdArgs = append(cmdArgs, args...)

	start := time.Now()
	stdout, stderr, err := d.run(d.adbPath, cmdArgs...)
	d.log.WithField("elapsed", time.Since(start)).Debugf("adb %s", strings.Join(args, " "))
	if err != nil {
		errMsg := stderr
		if errMsg == "" {
			errMsg = stdout
		}
		return "", fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, errMsg)
	}
	return stdout, nil
}

// waitForDevice waits for the device to be available.
func (d *AndroidDevice) waitForDevice(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if d.isConnected() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for device %s", d.serial)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// isConnected checks if the device is connected.
func (d *AndroidDevice) isConnected() bool {
	out, err := d.adb("get-state")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "device"
}

// findADB locates the ADB binary on PATH or under the SDK root.
func findADB() (string, error) {
	if path, err := exec.LookPath("adb"); err == nil {
		return path, nil
	}

	for _, env := range []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"} {
		if root := os.Getenv(env); root != "" {
			path := filepath.Join(root, "platform-tools", "adb")
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("adb not found in PATH; ensure Android SDK is installed")
}
