package cmd

import (
	"sync"
	"time"

	"taptick/internal/device"
	"taptick/internal/uitree"
)

// snapshotEntry holds a parsed hierarchy with its dump timestamp.
type snapshotEntry struct {
	hier      *uitree.Hierarchy
	timestamp time.Time
}

// snapshotCache is a TTL cache for parsed UI hierarchies, keyed by remote
// dump path. A uiautomator dump takes hundreds of milliseconds; agents often
// locate several elements against the same screen.
type snapshotCache struct {
	mu      sync.Mutex
	entries map[string]snapshotEntry
	ttl     time.Duration
}

// newSnapshotCache creates a new cache. A ttl of 0 disables caching.
func newSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		entries: make(map[string]snapshotEntry),
		ttl:     ttl,
	}
}

// hierarchy returns the cached parse for remotePath if within TTL, otherwise
// dumps and parses a fresh snapshot.
func (c *snapshotCache) hierarchy(dev *device.Device, remotePath string) (*uitree.Hierarchy, error) {
	if c.ttl == 0 {
		return dumpHierarchy(dev, remotePath)
	}

	c.mu.Lock()
	if entry, ok := c.entries[remotePath]; ok && time.Since(entry.timestamp) < c.ttl {
		h := entry.hier
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	h, err := dumpHierarchy(dev, remotePath)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[remotePath] = snapshotEntry{hier: h, timestamp: time.Now()}
	c.mu.Unlock()

	return h, nil
}

// invalidate clears the cache. Called after write actions (tap,
// write_setting) since they may change what is on screen.
func (c *snapshotCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]snapshotEntry)
}

func dumpHierarchy(dev *device.Device, remotePath string) (*uitree.Hierarchy, error) {
	raw, err := dev.Snapshot(remotePath)
	if err != nil {
		return nil, err
	}
	return uitree.Parse(raw)
}
