package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"taptick/internal/output"
	"taptick/internal/refclock"
)

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Query the reference clock and report offset, stratum and RTT",
	Long: `Query the configured NTP server and compare it with the local clock.
When the server is unreachable the result degrades to the local clock and
carries the query error, mirroring what a run would do.`,
	RunE: runClock,
}

func init() {
	rootCmd.AddCommand(clockCmd)
}

// clockResult is shared by the clock command and the MCP clock tool.
type clockResult struct {
	OK      bool   `yaml:"ok"                json:"ok"`
	Action  string `yaml:"action"            json:"action"`
	Source  string `yaml:"source"            json:"source"`
	Server  string `yaml:"server"            json:"server"`
	Time    string `yaml:"time"              json:"time"`
	Offset  string `yaml:"offset,omitempty"  json:"offset,omitempty"`
	RTT     string `yaml:"rtt,omitempty"     json:"rtt,omitempty"`
	Stratum uint8  `yaml:"stratum,omitempty" json:"stratum,omitempty"`
	Error   string `yaml:"error,omitempty"   json:"error,omitempty"`
}

func runClock(cmd *cobra.Command, args []string) error {
	return output.Print(queryClock(clockFromFlags(cmd)))
}

// queryClock samples the NTP server for diagnostics. Like a run's reference
// samples it never fails: an unreachable server produces a local-clock result
// with the query error attached.
func queryClock(c *refclock.NTPClock) clockResult {
	const layout = "2006-01-02 15:04:05.000"

	resp, err := c.Query()
	if err != nil {
		return clockResult{
			OK:     true,
			Action: "clock",
			Source: string(refclock.SourceLocal),
			Server: c.Server,
			Time:   time.Now().UTC().Format(layout),
			Error:  err.Error(),
		}
	}
	return clockResult{
		OK:      true,
		Action:  "clock",
		Source:  string(refclock.SourceNTP),
		Server:  c.Server,
		Time:    time.Now().Add(resp.ClockOffset).UTC().Format(layout),
		Offset:  resp.ClockOffset.Round(time.Microsecond).String(),
		RTT:     resp.RTT.Round(time.Microsecond).String(),
		Stratum: resp.Stratum,
	}
}
