// Package device exposes the small set of Android operations the scheduler
// needs, behind a Commander seam so tests can run without adb or hardware.
package device

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Commander runs one adb invocation and returns its stdout.
// *adb.Client is the real implementation; tests substitute fakes.
type Commander interface {
	Command(args ...string) ([]byte, error)
}

// Device wraps a Commander with the operations used by the tap scheduler.
type Device struct {
	cmd Commander
}

// New returns a Device backed by the given Commander.
func New(cmd Commander) *Device {
	return &Device{cmd: cmd}
}

// Shell runs a command on the device via `adb shell`. A single argument may
// contain a full shell line (including && chains); the device shell parses it.
func (d *Device) Shell(args ...string) (string, error) {
	out, err := d.cmd.Command(append([]string{"shell"}, args...)...)
	return string(out), err
}

// Pull copies a file from the device to the local path.
func (d *Device) Pull(remote, local string) error {
	if _, err := d.cmd.Command("pull", remote, local); err != nil {
		return fmt.Errorf("pull %s: %w", remote, err)
	}
	return nil
}

// Remove deletes a file on the device.
func (d *Device) Remove(remote string) error {
	if _, err := d.Shell("rm", "-f", remote); err != nil {
		return fmt.Errorf("remove %s: %w", remote, err)
	}
	return nil
}

// GetSetting reads a value from the device settings provider. Android prints
// the literal string "null" for unset keys; callers decide how to treat it.
func (d *Device) GetSetting(namespace, key string) (string, error) {
	out, err := d.Shell("settings", "get", namespace, key)
	if err != nil {
		return "", fmt.Errorf("settings get %s %s: %w", namespace, key, err)
	}
	return strings.TrimSpace(out), nil
}

// PutSetting writes a value to the device settings provider.
func (d *Device) PutSetting(namespace, key, value string) error {
	if _, err := d.Shell("settings", "put", namespace, key, value); err != nil {
		return fmt.Errorf("settings put %s %s: %w", namespace, key, err)
	}
	return nil
}

// DumpUI writes the current uiautomator hierarchy to remotePath on the device.
func (d *Device) DumpUI(remotePath string) error {
	if _, err := d.Shell("uiautomator", "dump", remotePath); err != nil {
		return fmt.Errorf("uiautomator dump: %w", err)
	}
	return nil
}

// Snapshot dumps the UI hierarchy on the device, pulls it to a local temp
// file and returns the raw XML. The temp file is removed before returning;
// the remote file is left for the caller to clean up (see Session.TrackRemote).
func (d *Device) Snapshot(remotePath string) ([]byte, error) {
	if err := d.DumpUI(remotePath); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp("", "taptick-ui-*.xml")
	if err != nil {
		return nil, fmt.Errorf("snapshot temp file: %w", err)
	}
	local := tmp.Name()
	tmp.Close()
	defer os.Remove(local)

	if err := d.Pull(remotePath, local); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// Screencap captures the device screen and returns PNG bytes.
func (d *Device) Screencap() ([]byte, error) {
	out, err := d.cmd.Command("exec-out", "screencap", "-p")
	if err != nil {
		return nil, fmt.Errorf("screencap: %w", err)
	}
	return out, nil
}

// Tap sends a single tap at the given screen coordinates.
func (d *Device) Tap(x, y int) error {
	if _, err := d.Shell("input", "tap", strconv.Itoa(x), strconv.Itoa(y)); err != nil {
		return fmt.Errorf("tap (%d,%d): %w", x, y, err)
	}
	return nil
}

// TapSequence sends count taps at (x, y) as one device-side shell line, with
// delay between consecutive taps. Batching into a single adb invocation keeps
// the gap between taps free of adb round-trip latency.
func (d *Device) TapSequence(x, y, count int, delay time.Duration) error {
	if count < 1 {
		return fmt.Errorf("tap count must be >= 1, got %d", count)
	}
	if _, err := d.Shell(tapScript(x, y, count, delay)); err != nil {
		return fmt.Errorf("tap sequence (%d,%d) x%d: %w", x, y, count, err)
	}
	return nil
}

// tapScript builds the device-side line, e.g. for two taps one second apart:
//
//	input tap 540 2046 && sleep 1 && input tap 540 2046
func tapScript(x, y, count int, delay time.Duration) string {
	tap := fmt.Sprintf("input tap %d %d", x, y)
	if count == 1 {
		return tap
	}
	parts := make([]string, 0, 2*count-1)
	for i := 0; i < count; i++ {
		if i > 0 {
			parts = append(parts, "sleep "+formatSeconds(delay))
		}
		parts = append(parts, tap)
	}
	return strings.Join(parts, " && ")
}

// formatSeconds renders a duration the way toybox sleep wants it: "1", "0.8".
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
