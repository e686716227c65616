package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// liveParams returns Params the way the run command's flag defaults do.
func liveParams() Params {
	return Params{Clicks: DefaultClicks, Delay: DefaultDelaySeconds}
}

func TestResolve_LiveDefaults(t *testing.T) {
	run, err := Resolve(liveParams())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if run.Mode != ModeLive {
		t.Errorf("Mode = %q, want live", run.Mode)
	}
	if got := run.Target.String(); got != "23:59:59" {
		t.Errorf("Target = %q, want 23:59:59", got)
	}
	if run.UTCOffset != 8*time.Hour {
		t.Errorf("UTCOffset = %v, want 8h", run.UTCOffset)
	}
	if run.Zone != "GMT+8" {
		t.Errorf("Zone = %q, want GMT+8", run.Zone)
	}
	if run.TargetText != DefaultTargetText {
		t.Errorf("TargetText = %q", run.TargetText)
	}
	if run.FallbackID != DefaultFallbackID {
		t.Errorf("FallbackID = %q", run.FallbackID)
	}
	if run.Clicks != 2 || run.Delay != time.Second {
		t.Errorf("Clicks/Delay = %d/%v, want 2/1s", run.Clicks, run.Delay)
	}
	if run.NTPServer != DefaultNTPServer || run.ADBPath != DefaultADBPath {
		t.Errorf("NTPServer/ADBPath = %q/%q", run.NTPServer, run.ADBPath)
	}
	if run.RemotePath != DefaultRemoteDumpPath {
		t.Errorf("RemotePath = %q", run.RemotePath)
	}
	if run.Serial != "" || run.ReportPath != "" {
		t.Errorf("Serial/ReportPath = %q/%q, want empty", run.Serial, run.ReportPath)
	}
}

func TestResolve_TestMode(t *testing.T) {
	p := liveParams()
	p.Test = true
	p.TestTime = "14:30"
	p.TestTimezone = "5.5"

	run, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if run.Mode != ModeTest {
		t.Errorf("Mode = %q, want test", run.Mode)
	}
	if got := run.Target.String(); got != "14:30:00" {
		t.Errorf("Target = %q, want normalized 14:30:00", got)
	}
	if want := 5*time.Hour + 30*time.Minute; run.UTCOffset != want {
		t.Errorf("UTCOffset = %v, want %v", run.UTCOffset, want)
	}
	if run.Zone != "GMT+5.5" {
		t.Errorf("Zone = %q, want GMT+5.5", run.Zone)
	}
}

func TestResolve_TestModeRequiresBothOverrides(t *testing.T) {
	p := liveParams()
	p.Test = true
	p.TestTime = "14:30"
	if _, err := Resolve(p); err == nil {
		t.Error("missing --test-timezone should be rejected")
	}

	p = liveParams()
	p.Test = true
	p.TestTimezone = "8"
	if _, err := Resolve(p); err == nil {
		t.Error("missing --test-time should be rejected")
	}
}

func TestResolve_TestOverridesRequireTestFlag(t *testing.T) {
	p := liveParams()
	p.TestTime = "14:30"
	_, err := Resolve(p)
	if err == nil {
		t.Fatal("--test-time without --test should be rejected")
	}
	if !strings.Contains(err.Error(), "--test") {
		t.Errorf("error should point at --test, got %v", err)
	}

	p = liveParams()
	p.TestTimezone = "8"
	if _, err := Resolve(p); err == nil {
		t.Error("--test-timezone without --test should be rejected")
	}
}

func TestResolve_TargetTimeOverride(t *testing.T) {
	p := liveParams()
	p.TargetTime = "23:59:59.800"

	run, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := run.Target.String(); got != "23:59:59.800" {
		t.Errorf("Target = %q, want 23:59:59.800", got)
	}
	if run.Mode != ModeLive || run.UTCOffset != 8*time.Hour {
		t.Errorf("override must not change mode or offset, got %q/%v", run.Mode, run.UTCOffset)
	}
}

func TestResolve_TargetTimeConflictsWithTestMode(t *testing.T) {
	p := liveParams()
	p.Test = true
	p.TestTime = "14:30"
	p.TestTimezone = "8"
	p.TargetTime = "12:00"
	if _, err := Resolve(p); err == nil {
		t.Error("--target-time alongside --test-time should be rejected")
	}
}

func TestResolve_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"invalid target time", func(p *Params) { p.TargetTime = "24:00" }},
		{"invalid test time", func(p *Params) {
			p.Test = true
			p.TestTime = "25:00"
			p.TestTimezone = "8"
		}},
		{"non-numeric timezone", func(p *Params) {
			p.Test = true
			p.TestTime = "14:30"
			p.TestTimezone = "GMT+8"
		}},
		{"timezone too far east", func(p *Params) {
			p.Test = true
			p.TestTime = "14:30"
			p.TestTimezone = "15"
		}},
		{"timezone too far west", func(p *Params) {
			p.Test = true
			p.TestTime = "14:30"
			p.TestTimezone = "-13"
		}},
		{"zero clicks", func(p *Params) { p.Clicks = 0 }},
		{"negative delay", func(p *Params) { p.Delay = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := liveParams()
			tc.mutate(&p)
			if _, err := Resolve(p); err == nil {
				t.Errorf("Resolve(%+v) should fail", p)
			}
		})
	}
}

func TestResolve_EnvFallback(t *testing.T) {
	t.Setenv(EnvADB, "/opt/platform-tools/adb")
	t.Setenv(EnvNTPServer, "time.google.com")
	t.Setenv(EnvTargetText, "Apply now")
	t.Setenv(EnvSerial, "emulator-5554")
	t.Setenv(EnvReport, "/tmp/taptick.jsonl")

	run, err := Resolve(liveParams())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if run.ADBPath != "/opt/platform-tools/adb" {
		t.Errorf("ADBPath = %q, want env value", run.ADBPath)
	}
	if run.NTPServer != "time.google.com" {
		t.Errorf("NTPServer = %q, want env value", run.NTPServer)
	}
	if run.TargetText != "Apply now" {
		t.Errorf("TargetText = %q, want env value", run.TargetText)
	}
	if run.Serial != "emulator-5554" || run.ReportPath != "/tmp/taptick.jsonl" {
		t.Errorf("Serial/ReportPath = %q/%q, want env values", run.Serial, run.ReportPath)
	}
}

func TestResolve_FlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvADB, "/opt/platform-tools/adb")

	p := liveParams()
	p.ADBPath = "./adb-canary"
	run, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if run.ADBPath != "./adb-canary" {
		t.Errorf("ADBPath = %q, explicit flag should win over env", run.ADBPath)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("TAPTICK_TEST_KEY", "set")
	if got := EnvOr("TAPTICK_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("EnvOr = %q, want set", got)
	}
	if got := EnvOr("TAPTICK_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("EnvOr = %q, want fallback", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.env")
	if err := os.WriteFile(path, []byte("TAPTICK_LOADED_SENTINEL=yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("TAPTICK_LOADED_SENTINEL") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("TAPTICK_LOADED_SENTINEL"); got != "yes" {
		t.Errorf("sentinel = %q, want yes", got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("explicit missing env file should be an error")
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("default load with no .env present should be silent, got %v", err)
	}
}
