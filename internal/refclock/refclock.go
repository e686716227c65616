// Package refclock provides the reference clock the wait loop converges on:
// NTP-backed when the network cooperates, local system time when it does not.
package refclock

import (
	"time"

	"github.com/beevik/ntp"
)

// Source tells where a reference instant came from.
type Source string

const (
	SourceNTP   Source = "ntp"
	SourceLocal Source = "local"
)

// Instant is a UTC timestamp tagged with its provenance.
type Instant struct {
	Time   time.Time
	Source Source
}

// Clock yields reference instants. Implementations never fail: when the
// network reference is unreachable they fall back to the local clock and
// say so via Source.
type Clock interface {
	Now() Instant
}

// DefaultTimeout bounds a single NTP round trip.
const DefaultTimeout = 5 * time.Second

// NTPClock queries an NTP server on every sample and falls back to the
// system clock on any failure. The zero value is not usable; construct
// with NewNTPClock.
type NTPClock struct {
	Server  string
	Timeout time.Duration

	// fetch is the query seam, swapped out in tests.
	fetch func(server string, timeout time.Duration) (time.Time, error)
}

// NewNTPClock returns a clock backed by the given NTP server.
func NewNTPClock(server string) *NTPClock {
	return &NTPClock{Server: server, Timeout: DefaultTimeout, fetch: fetchNTP}
}

// Now returns the current reference instant. Any NTP failure (resolution,
// timeout, invalid response) silently degrades to the local clock; callers
// that care inspect Source.
func (c *NTPClock) Now() Instant {
	fetch := c.fetch
	if fetch == nil {
		fetch = fetchNTP
	}
	t, err := fetch(c.Server, c.timeout())
	if err != nil {
		return Instant{Time: time.Now().UTC(), Source: SourceLocal}
	}
	return Instant{Time: t.UTC(), Source: SourceNTP}
}

// Query runs one raw NTP exchange for diagnostics (offset, RTT, stratum).
// Unlike Now, it reports failure instead of falling back.
func (c *NTPClock) Query() (*ntp.Response, error) {
	resp, err := ntp.QueryWithOptions(c.Server, ntp.QueryOptions{Timeout: c.timeout()})
	if err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *NTPClock) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// fetchNTP returns the local time corrected by the server's clock offset.
func fetchNTP(server string, timeout time.Duration) (time.Time, error) {
	resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		return time.Time{}, err
	}
	if err := resp.Validate(); err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(resp.ClockOffset), nil
}

// SystemClock always reads the local clock.
type SystemClock struct{}

// Now returns the current local time tagged SourceLocal.
func (SystemClock) Now() Instant {
	return Instant{Time: time.Now().UTC(), Source: SourceLocal}
}
