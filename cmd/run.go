package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taptick/internal/config"
	"taptick/internal/console"
	"taptick/internal/device"
	"taptick/internal/device/adb"
	"taptick/internal/output"
	"taptick/internal/refclock"
	"taptick/internal/schedule"
	"taptick/internal/uitree"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Wait for the target instant and fire the tap sequence",
	Long: `Locate the target button, wait until the target instant in the target
timezone, then fire a batched tap sequence on the device.

Live mode aims at 23:59:59 GMT+8 (the Mi Community unlock window). Test mode
aims at --test-time in --test-timezone instead, so a dry run can be scheduled
a few seconds ahead:

  taptick run --test --test-time 14:30:05 --test-timezone 2

The button is located before any waiting starts; a missing button aborts the
run immediately. Screen-sleep settings changed for the run are restored on
every exit path, including Ctrl+C during the wait.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("test", false, "Aim at --test-time in --test-timezone instead of the live target")
	runCmd.Flags().String("test-time", "", "Test-mode target time of day, HH:MM[:SS[.fff]]")
	runCmd.Flags().String("test-timezone", "", "Test-mode UTC offset in hours, e.g. 8, -3 or 5.5")
	runCmd.Flags().String("target-time", "", `Override the live target time (default "23:59:59")`)
	runCmd.Flags().String("target-text", "", `Button text to match exactly (default "Apply for unlocking", env TAPTICK_TARGET_TEXT)`)
	runCmd.Flags().String("fallback-id", config.DefaultFallbackID, "resource-id to fall back to when the text is absent")
	runCmd.Flags().Int("clicks", config.DefaultClicks, "Number of taps to fire")
	runCmd.Flags().Float64("delay", config.DefaultDelaySeconds, "Seconds between taps")
	runCmd.Flags().String("remote-path", config.DefaultRemoteDumpPath, "Device path for the uiautomator dump")
	runCmd.Flags().String("report", "", "Append a JSON line describing the run to this file (env TAPTICK_REPORT)")
}

// runResult is the run command's printable outcome.
type runResult struct {
	OK          bool    `yaml:"ok"                 json:"ok"`
	Action      string  `yaml:"action"             json:"action"`
	Mode        string  `yaml:"mode"               json:"mode"`
	Matched     string  `yaml:"matched,omitempty"  json:"matched,omitempty"`
	Bounds      string  `yaml:"bounds,omitempty"   json:"bounds,omitempty"`
	X           int     `yaml:"x"                  json:"x"`
	Y           int     `yaml:"y"                  json:"y"`
	TargetLocal string  `yaml:"target_local,omitempty" json:"target_local,omitempty"`
	TargetUTC   string  `yaml:"target_utc,omitempty"   json:"target_utc,omitempty"`
	Zone        string  `yaml:"zone"               json:"zone"`
	ClockSource string  `yaml:"clock_source,omitempty" json:"clock_source,omitempty"`
	Clicks      int     `yaml:"clicks"             json:"clicks"`
	DelaySec    float64 `yaml:"delay_seconds"      json:"delay_seconds"`
	Outcome     string  `yaml:"outcome,omitempty"  json:"outcome,omitempty"`
	FiredAt     string  `yaml:"fired_at,omitempty" json:"fired_at,omitempty"`
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(runParams(cmd))
	if err != nil {
		return err
	}

	dev := device.New(adb.New(cfg.ADBPath, cfg.Serial))
	clock := fallbackWarnClock{inner: refclock.NewNTPClock(cfg.NTPServer), log: log}

	log.Infof("%s mode: %d tap(s) at %s %s", cfg.Mode, cfg.Clicks, cfg.Target, cfg.Zone)

	sess, err := device.Acquire(dev, log.Warnf)
	if err != nil {
		return fmt.Errorf("prepare device: %w", err)
	}
	defer sess.Restore()

	// Put the screen-sleep settings back if the wait is interrupted.
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	defer close(sigC)
	defer signal.Stop(sigC)
	go func() {
		sig, ok := <-sigC
		if !ok {
			return
		}
		log.Warnf("caught %v, restoring device settings", sig)
		sess.Restore()
		os.Exit(1)
	}()

	res, err := executeRun(cfg, dev, sess, clock, time.Sleep, log)
	if cfg.ReportPath != "" {
		if rerr := console.AppendReport(cfg.ReportPath, reportFromResult(res, err)); rerr != nil {
			log.Warnf("append report: %v", rerr)
		}
	}
	if err != nil {
		return err
	}
	return output.Print(res)
}

// executeRun performs one scheduled tap run. The device, session, clock and
// sleep function are injected so tests can drive the whole flow without
// hardware or real waiting. The button is located before the first clock
// sample; nothing device-side happens between the wait completing and the
// tap batch.
func executeRun(cfg config.Run, dev *device.Device, sess *device.Session, clock refclock.Clock, sleep func(time.Duration), log *console.Logger) (runResult, error) {
	res := runResult{
		Action:   "run",
		Mode:     cfg.Mode,
		Zone:     cfg.Zone,
		Clicks:   cfg.Clicks,
		DelaySec: cfg.Delay.Seconds(),
	}

	log.Infof("dumping UI hierarchy to %s", cfg.RemotePath)
	sess.TrackRemote(cfg.RemotePath)
	raw, err := dev.Snapshot(cfg.RemotePath)
	if err != nil {
		return res, err
	}
	h, err := uitree.Parse(raw)
	if err != nil {
		return res, err
	}
	match, err := uitree.Locate(h, cfg.TargetText, cfg.FallbackID)
	if err != nil {
		return res, err
	}
	res.Matched = match.Via
	res.Bounds = match.Rect.String()
	res.X, res.Y = match.Point.X, match.Point.Y
	log.Okf("matched via %s at %s, tap point (%d,%d)", match.Via, res.Bounds, res.X, res.Y)

	now := clock.Now()
	res.ClockSource = string(now.Source)
	target := schedule.ResolveTarget(cfg.Target, cfg.UTCOffset, now.Time)
	res.TargetLocal = schedule.FormatInZone(target, cfg.UTCOffset)
	res.TargetUTC = target.UTC().Format("2006-01-02 15:04:05.000")
	log.Infof("target %s %s (%s UTC), initial wait %s",
		res.TargetLocal, cfg.Zone, res.TargetUTC, target.Sub(now.Time).Round(time.Millisecond))

	w := &schedule.Waiter{
		Clock: clock,
		Sleep: sleep,
		OnCoarse: func(d time.Duration) {
			log.Infof("coarse sleep %s, then fine polling", d.Round(10*time.Millisecond))
		},
		OnPoll: func(remaining time.Duration) {
			log.Infof("%.1fs remaining", remaining.Seconds())
		},
	}
	if outcome := w.Wait(target); outcome == schedule.TooLate {
		res.Outcome = outcome.String()
		log.Failf("target already passed at first clock sample, aborting")
		return res, fmt.Errorf("target time already passed; start the run closer to the target")
	}

	if err := dev.TapSequence(match.Point.X, match.Point.Y, cfg.Clicks, cfg.Delay); err != nil {
		res.Outcome = "error"
		return res, err
	}
	fired := clock.Now()
	res.OK = true
	res.Outcome = schedule.Completed.String()
	res.FiredAt = schedule.FormatInZone(fired.Time, cfg.UTCOffset)
	log.Okf("fired %d tap(s) at %s %s (clock %s)", cfg.Clicks, res.FiredAt, cfg.Zone, fired.Source)
	return res, nil
}

func runParams(cmd *cobra.Command) config.Params {
	var p config.Params
	p.Test, _ = cmd.Flags().GetBool("test")
	p.TestTime, _ = cmd.Flags().GetString("test-time")
	p.TestTimezone, _ = cmd.Flags().GetString("test-timezone")
	p.TargetTime, _ = cmd.Flags().GetString("target-time")
	p.TargetText, _ = cmd.Flags().GetString("target-text")
	p.FallbackID, _ = cmd.Flags().GetString("fallback-id")
	p.Clicks, _ = cmd.Flags().GetInt("clicks")
	p.Delay, _ = cmd.Flags().GetFloat64("delay")
	p.RemotePath, _ = cmd.Flags().GetString("remote-path")
	p.ReportPath, _ = cmd.Flags().GetString("report")
	p.NTPServer, _ = cmd.Root().PersistentFlags().GetString("ntp-server")
	p.ADBPath, _ = cmd.Root().PersistentFlags().GetString("adb")
	p.Serial, _ = cmd.Root().PersistentFlags().GetString("serial")
	return p
}

func reportFromResult(res runResult, err error) console.RunReport {
	rep := console.RunReport{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Mode:         res.Mode,
		TargetLocal:  res.TargetLocal,
		TargetUTC:    res.TargetUTC,
		Zone:         res.Zone,
		ClockSource:  res.ClockSource,
		MatchedVia:   res.Matched,
		X:            res.X,
		Y:            res.Y,
		Clicks:       res.Clicks,
		DelaySeconds: res.DelaySec,
		Outcome:      res.Outcome,
		FiredAt:      res.FiredAt,
	}
	if err != nil {
		rep.Error = err.Error()
		if rep.Outcome == "" {
			rep.Outcome = "error"
		}
	}
	return rep
}

// fallbackWarnClock logs a warning whenever a sample fell back to the local
// clock, so silent degradation stays visible on the console.
type fallbackWarnClock struct {
	inner refclock.Clock
	log   *console.Logger
}

func (c fallbackWarnClock) Now() refclock.Instant {
	inst := c.inner.Now()
	if inst.Source == refclock.SourceLocal {
		c.log.Warnf("NTP unavailable, using local clock")
	}
	return inst
}
