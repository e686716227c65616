// Package adb shells out to the adb binary.
package adb

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Client runs adb commands against a single device.
type Client struct {
	// Path is the adb binary to invoke, a bare name resolved via PATH or an
	// absolute path.
	Path string
	// Serial selects a device when more than one is attached. Empty lets adb
	// pick the only connected device.
	Serial string
}

// New returns a Client for the given binary path and device serial.
// An empty path defaults to "adb".
func New(path, serial string) *Client {
	if path == "" {
		path = "adb"
	}
	return &Client{Path: path, Serial: serial}
}

// Command runs a single adb invocation and returns its stdout. On failure the
// error includes whatever adb wrote to stderr, which is where adb reports
// things like "no devices/emulators found".
func (c *Client) Command(args ...string) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("adb: no command given")
	}
	full := args
	if c.Serial != "" {
		full = append([]string{"-s", c.Serial}, args...)
	}
	cmd := exec.Command(c.Path, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("adb %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("adb %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}
