package device

import (
	"fmt"
	"sync"
)

const (
	// screenTimeoutMax is the largest value the settings provider accepts
	// (max int32 milliseconds), effectively "never sleep".
	screenTimeoutMax = "2147483647"

	// screenTimeoutDefault is restored when the device reports no saved
	// value ("" or "null") for screen_off_timeout.
	screenTimeoutDefault = "60000"
)

// Session keeps the device awake for the duration of a run and remembers the
// settings it changed so they can be put back. Restore is safe to call more
// than once and from a signal handler, so both a defer and an interrupt path
// can share one Session.
type Session struct {
	dev  *Device
	logf func(format string, args ...any)

	savedTimeout string
	remotes      []string

	mu       sync.Mutex
	restored bool
}

// Acquire saves the current screen_off_timeout, then disables screen sleep
// (stay_on_while_plugged_in=3, screen_off_timeout=max). If reading the saved
// value fails the session is not started; if applying either setting fails,
// whatever was already applied is rolled back before returning the error.
func Acquire(dev *Device, logf func(format string, args ...any)) (*Session, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	saved, err := dev.GetSetting("system", "screen_off_timeout")
	if err != nil {
		return nil, fmt.Errorf("read screen timeout: %w", err)
	}
	if saved == "" || saved == "null" {
		saved = screenTimeoutDefault
	}
	s := &Session{dev: dev, logf: logf, savedTimeout: saved}

	if err := dev.PutSetting("global", "stay_on_while_plugged_in", "3"); err != nil {
		return nil, fmt.Errorf("enable stay-awake: %w", err)
	}
	if err := dev.PutSetting("system", "screen_off_timeout", screenTimeoutMax); err != nil {
		s.Restore()
		return nil, fmt.Errorf("extend screen timeout: %w", err)
	}
	return s, nil
}

// TrackRemote registers a file on the device to delete during Restore.
func (s *Session) TrackRemote(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remotes = append(s.remotes, path)
}

// Restore puts the saved screen timeout back, re-disables stay-awake and
// removes tracked remote files. Every failure is logged; the first is also
// returned. Calls after the first are no-ops.
func (s *Session) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return nil
	}
	s.restored = true

	var first error
	if err := s.dev.PutSetting("system", "screen_off_timeout", s.savedTimeout); err != nil {
		s.logf("restore screen timeout: %v", err)
		first = err
	}
	if err := s.dev.PutSetting("global", "stay_on_while_plugged_in", "0"); err != nil {
		s.logf("restore stay-awake: %v", err)
		if first == nil {
			first = err
		}
	}
	for _, remote := range s.remotes {
		if err := s.dev.Remove(remote); err != nil {
			s.logf("clean up %s: %v", remote, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
