package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taptick/internal/config"
	"taptick/internal/output"
	"taptick/internal/refclock"
	"taptick/internal/schedule"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Preview the next target instant and how far away it is",
	Long: `Resolve the next occurrence of a time of day at a UTC offset against the
reference clock and print it without touching the device. Defaults preview
the live target (23:59:59 GMT+8); --local skips the NTP query.`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("time", config.LiveTargetTime, "Target time of day, HH:MM[:SS[.fff]]")
	resolveCmd.Flags().Float64("timezone", config.LiveUTCOffsetHours, "UTC offset in hours, e.g. 8, -3 or 5.5")
	resolveCmd.Flags().Bool("local", false, "Sample the system clock instead of NTP")
}

// resolveResult is shared by the resolve command and the MCP resolve tool.
type resolveResult struct {
	OK          bool    `yaml:"ok"           json:"ok"`
	Action      string  `yaml:"action"       json:"action"`
	TargetLocal string  `yaml:"target_local" json:"target_local"`
	TargetUTC   string  `yaml:"target_utc"   json:"target_utc"`
	Zone        string  `yaml:"zone"         json:"zone"`
	ClockSource string  `yaml:"clock_source" json:"clock_source"`
	Wait        string  `yaml:"wait"         json:"wait"`
	WaitSeconds float64 `yaml:"wait_seconds" json:"wait_seconds"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	timeStr, _ := cmd.Flags().GetString("time")
	tzHours, _ := cmd.Flags().GetFloat64("timezone")
	local, _ := cmd.Flags().GetBool("local")

	if tzHours < -12 || tzHours > 14 {
		return fmt.Errorf("--timezone %g out of range, want -12 to +14", tzHours)
	}
	tod, err := schedule.ParseTimeOfDay(timeStr)
	if err != nil {
		return err
	}
	offset := time.Duration(tzHours * float64(time.Hour))

	var clock refclock.Clock = clockFromFlags(cmd)
	if local {
		clock = refclock.SystemClock{}
	}
	now := clock.Now()

	res := resolveTo(tod, offset, now)
	return output.Print(res)
}

// resolveTo computes the shared resolve result from one clock sample.
func resolveTo(tod schedule.TimeOfDay, offset time.Duration, now refclock.Instant) resolveResult {
	target := schedule.ResolveTarget(tod, offset, now.Time)
	wait := target.Sub(now.Time)
	return resolveResult{
		OK:          true,
		Action:      "resolve",
		TargetLocal: schedule.FormatInZone(target, offset),
		TargetUTC:   target.UTC().Format("2006-01-02 15:04:05.000"),
		Zone:        schedule.ZoneLabel(offset),
		ClockSource: string(now.Source),
		Wait:        wait.Round(time.Millisecond).String(),
		WaitSeconds: wait.Seconds(),
	}
}
