// Package config resolves flags, environment variables and built-in defaults
// into the validated settings a run needs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"taptick/internal/schedule"
)

// Defaults for the Mi Community unlock-application flow this tool was built
// around. Everything here can be overridden by flag or environment.
const (
	DefaultTargetText     = "Apply for unlocking"
	DefaultFallbackID     = "com.mi.global.bbs:id/btnApply"
	LiveTargetTime        = "23:59:59"
	LiveUTCOffsetHours    = 8
	DefaultClicks         = 2
	DefaultDelaySeconds   = 1.0
	DefaultNTPServer      = "pool.ntp.org"
	DefaultRemoteDumpPath = "/sdcard/ui_dump.xml"
	DefaultADBPath        = "adb"
)

// Environment variables honored as defaults when the matching flag is unset.
const (
	EnvADB        = "TAPTICK_ADB"
	EnvSerial     = "TAPTICK_SERIAL"
	EnvNTPServer  = "TAPTICK_NTP_SERVER"
	EnvTargetText = "TAPTICK_TARGET_TEXT"
	EnvReport     = "TAPTICK_REPORT"
)

// Run modes.
const (
	ModeLive = "live"
	ModeTest = "test"
)

// Params mirrors the run command's flags before validation. String fields
// left empty fall back to environment variables and then to the defaults
// above.
type Params struct {
	Test         bool
	TestTime     string
	TestTimezone string // UTC offset in hours, e.g. "8", "-3", "5.5"
	TargetTime   string // live-mode override of LiveTargetTime
	TargetText   string
	FallbackID   string
	Clicks       int
	Delay        float64 // seconds between taps
	NTPServer    string
	ADBPath      string
	Serial       string
	RemotePath   string
	ReportPath   string
}

// Run is the validated configuration for a scheduled tap run.
type Run struct {
	Mode       string
	Target     schedule.TimeOfDay
	UTCOffset  time.Duration
	Zone       string // display label, e.g. "GMT+8"
	TargetText string
	FallbackID string
	Clicks     int
	Delay      time.Duration
	NTPServer  string
	ADBPath    string
	Serial     string
	RemotePath string
	ReportPath string
}

// Resolve validates p and fills in environment and default values. Test mode
// needs both --test-time and --test-timezone; either one without --test is
// rejected rather than silently ignored, because an ignored override would
// aim the live timing at the wrong instant.
func Resolve(p Params) (Run, error) {
	if p.Test {
		if p.TestTime == "" || p.TestTimezone == "" {
			return Run{}, fmt.Errorf("test mode needs both --test-time and --test-timezone")
		}
		if p.TargetTime != "" {
			return Run{}, fmt.Errorf("--target-time conflicts with --test-time; drop one")
		}
	} else if p.TestTime != "" || p.TestTimezone != "" {
		return Run{}, fmt.Errorf("--test-time and --test-timezone require --test")
	}

	mode := ModeLive
	targetStr := LiveTargetTime
	offset := time.Duration(LiveUTCOffsetHours) * time.Hour
	if p.Test {
		mode = ModeTest
		targetStr = p.TestTime
		hours, err := strconv.ParseFloat(p.TestTimezone, 64)
		if err != nil {
			return Run{}, fmt.Errorf("invalid --test-timezone %q: want offset hours like 8, -3 or 5.5", p.TestTimezone)
		}
		if hours < -12 || hours > 14 {
			return Run{}, fmt.Errorf("--test-timezone %g out of range, want -12 to +14", hours)
		}
		offset = time.Duration(hours * float64(time.Hour))
	} else if p.TargetTime != "" {
		targetStr = p.TargetTime
	}

	target, err := schedule.ParseTimeOfDay(targetStr)
	if err != nil {
		return Run{}, err
	}

	if p.Clicks < 1 {
		return Run{}, fmt.Errorf("clicks must be >= 1, got %d", p.Clicks)
	}
	if p.Delay < 0 {
		return Run{}, fmt.Errorf("delay must not be negative, got %g", p.Delay)
	}

	return Run{
		Mode:       mode,
		Target:     target,
		UTCOffset:  offset,
		Zone:       schedule.ZoneLabel(offset),
		TargetText: pick(p.TargetText, EnvTargetText, DefaultTargetText),
		FallbackID: orDefault(p.FallbackID, DefaultFallbackID),
		Clicks:     p.Clicks,
		Delay:      time.Duration(p.Delay * float64(time.Second)),
		NTPServer:  pick(p.NTPServer, EnvNTPServer, DefaultNTPServer),
		ADBPath:    pick(p.ADBPath, EnvADB, DefaultADBPath),
		Serial:     pick(p.Serial, EnvSerial, ""),
		RemotePath: orDefault(p.RemotePath, DefaultRemoteDumpPath),
		ReportPath: pick(p.ReportPath, EnvReport, ""),
	}, nil
}

// LoadEnvFile loads environment defaults from path. With an empty path it
// tries ./.env and ignores a missing file; an explicit path must exist.
func LoadEnvFile(path string) error {
	if path == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// EnvOr returns the environment value for key, or fallback when unset or
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func pick(explicit, envKey, fallback string) string {
	if explicit != "" {
		return explicit
	}
	return EnvOr(envKey, fallback)
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
