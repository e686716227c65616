package schedule

import (
	"fmt"
	"math"
	"time"
)

// ResolveTarget returns the next UTC instant at which a clock in the fixed
// UTC-offset zone reads tod. If that reading already happened today, or is
// happening exactly now, the target rolls to tomorrow: the result is always
// strictly after nowUTC. The offset is a plain duration; there is no DST.
func ResolveTarget(tod TimeOfDay, offset time.Duration, nowUTC time.Time) time.Time {
	nowLocal := nowUTC.UTC().Add(offset)
	candidate := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(),
		tod.Hour, tod.Minute, tod.Second, tod.Nanosecond, time.UTC)
	if !candidate.After(nowLocal) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate.Add(-offset)
}

// ZoneLabel names a fixed offset the way run output does, e.g. "GMT+8".
func ZoneLabel(offset time.Duration) string {
	hours := offset.Hours()
	if hours == math.Trunc(hours) {
		return fmt.Sprintf("GMT%+d", int(hours))
	}
	return fmt.Sprintf("GMT%+g", hours)
}

// FormatInZone renders a UTC instant as wall-clock text in the fixed
// offset zone, millisecond precision.
func FormatInZone(t time.Time, offset time.Duration) string {
	return t.UTC().Add(offset).Format("2006-01-02 15:04:05.000")
}
