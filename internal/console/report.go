package console

import (
	"encoding/json"
	"os"
)

// RunReport is one run's structured record, appended as a JSON line to a report file.
type RunReport struct {
	Timestamp    string  `json:"ts"`
	Mode         string  `json:"mode"`
	TargetLocal  string  `json:"target_local,omitempty"`
	TargetUTC    string  `json:"target_utc,omitempty"`
	Zone         string  `json:"zone,omitempty"`
	ClockSource  string  `json:"clock_source,omitempty"`
	MatchedVia   string  `json:"matched_via,omitempty"`
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Clicks       int     `json:"clicks"`
	DelaySeconds float64 `json:"delay_seconds"`
	Outcome      string  `json:"outcome"`
	FiredAt      string  `json:"fired_at,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// AppendReport appends r as one JSON line to path, creating the file if needed.
func AppendReport(path string, r RunReport) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		return err
	}
	if _, err := f.WriteString("\n"); err != nil {
		return err
	}
	return nil
}
