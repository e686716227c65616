package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taptick/internal/config"
	"taptick/internal/console"
	"taptick/internal/device"
	"taptick/internal/device/adb"
	"taptick/internal/refclock"
)

// log writes status lines to stderr so stdout stays parseable.
var log = console.New()

// deviceFromFlags builds a Device from the root persistent flags, honoring
// TAPTICK_ADB and TAPTICK_SERIAL when the flags are unset.
func deviceFromFlags(cmd *cobra.Command) *device.Device {
	adbPath, _ := cmd.Root().PersistentFlags().GetString("adb")
	serial, _ := cmd.Root().PersistentFlags().GetString("serial")
	if adbPath == "" {
		adbPath = config.EnvOr(config.EnvADB, config.DefaultADBPath)
	}
	if serial == "" {
		serial = config.EnvOr(config.EnvSerial, "")
	}
	return device.New(adb.New(adbPath, serial))
}

// clockFromFlags builds the NTP reference clock from the root persistent flags.
func clockFromFlags(cmd *cobra.Command) *refclock.NTPClock {
	server, _ := cmd.Root().PersistentFlags().GetString("ntp-server")
	if server == "" {
		server = config.EnvOr(config.EnvNTPServer, config.DefaultNTPServer)
	}
	return refclock.NewNTPClock(server)
}

// Parameter extraction helpers for MCP argument maps

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values that clients may send for string params
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

func floatParam(params map[string]interface{}, key string, defaultVal float64) float64 {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return defaultVal
}
