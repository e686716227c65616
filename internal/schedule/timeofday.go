// Package schedule resolves a time-of-day in a fixed-offset zone to a
// concrete UTC instant and converges on that instant with a two-phase wait.
package schedule

import (
	"fmt"
	"time"
)

// Layouts accepted for a target time of day. The long form also admits a
// fractional second ("23:59:59.800"); the short form fills in zero seconds.
var timeOfDayLayouts = []string{"15:04:05.999", "15:04"}

// TimeOfDay is a wall-clock time of day with sub-second precision and no
// date or zone attached.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// ParseTimeOfDay parses "HH:MM:SS", "HH:MM:SS.fff" or the "HH:MM"
// shorthand. Any other shape is an error.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{
				Hour:       t.Hour(),
				Minute:     t.Minute(),
				Second:     t.Second(),
				Nanosecond: t.Nanosecond(),
			}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q (want HH:MM, HH:MM:SS or HH:MM:SS.fff)", s)
}

// String renders the canonical "HH:MM:SS" form, with milliseconds when present.
func (t TimeOfDay) String() string {
	if t.Nanosecond != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Nanosecond/1e6)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
