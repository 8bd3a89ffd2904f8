// Package dedup implements the time-windowed duplicate-suppression
// cache keyed by event fingerprints.
package dedup

import (
	"context"
	"sync"
	"time"

	"redwatch/internal/constants"
	"redwatch/internal/logger"
	"redwatch/pkg/metrics"
)

type entry struct {
	timestamp time.Time
	count     int
	deviceID  string
}

// SnapshotEntry is the read-only view of one cache entry exposed on the
// observability endpoint.
type SnapshotEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	AgeSeconds  float64   `json:"age_seconds"`
	DeviceID    string    `json:"device_id"`
}

// Cache maps event fingerprints to their first-seen timestamp and
// repeat count. It is the single shared mutable resource of the
// receiver; one mutex serializes every check-and-record as an atomic
// unit so concurrent first occurrences of a fingerprint cannot both be
// classified fresh.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  logger.Logger

	// now is swapped out in tests.
	now func() time.Time
}

func NewCache(log logger.Logger) *Cache {
	return NewCacheWithClock(log, time.Now)
}

// NewCacheWithClock injects the time source; tests use it to step
// through dedup windows without sleeping.
func NewCacheWithClock(log logger.Logger, now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		logger:  log,
		now:     now,
	}
}

// CheckAndRecord reports whether a fingerprint is a duplicate within
// windowSeconds and records the occurrence.
//
// A non-positive window is an explicit opt-out: the call returns fresh
// without touching the cache. Within the window the stored anchor
// timestamp is NOT refreshed, so suppression is anchored to the first
// occurrence; once elapsed reaches the window the entry is overwritten
// and the anchor resets.
func (c *Cache) CheckAndRecord(fingerprint string, windowSeconds int, deviceID string) bool {
	if windowSeconds <= 0 {
		metrics.DedupChecksTotal.WithLabelValues("disabled").Inc()
		return false
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[fingerprint]; ok {
		elapsed := now.Sub(e.timestamp)
		if elapsed < time.Duration(windowSeconds)*time.Second {
			e.count++
			metrics.DedupChecksTotal.WithLabelValues("duplicate").Inc()
			c.logger.Infow("Duplicate event detected",
				"fingerprint", fingerprint,
				"count", e.count,
				"device_id", deviceID,
			)
			return true
		}
	}

	c.entries[fingerprint] = &entry{
		timestamp: now,
		count:     1,
		deviceID:  deviceID,
	}
	metrics.DedupChecksTotal.WithLabelValues("fresh").Inc()
	metrics.SetDedupCacheSize(len(c.entries))
	return false
}

// ExpireOlderThan removes every entry whose age exceeds maxAge,
// regardless of that entry's own dedup window. Idempotent and safe to
// call concurrently with lookups; returns the number of evictions.
func (c *Cache) ExpireOlderThan(maxAge time.Duration) int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []string
	for fp, e := range c.entries {
		if now.Sub(e.timestamp) > maxAge {
			removed = append(removed, fp)
		}
	}
	for _, fp := range removed {
		delete(c.entries, fp)
	}

	if len(removed) > 0 {
		metrics.DedupCacheExpiredTotal.Add(float64(len(removed)))
		metrics.SetDedupCacheSize(len(c.entries))
		c.logger.Infow("Expired stale cache entries",
			"removed", len(removed),
			"remaining", len(c.entries),
		)
	}
	return len(removed)
}

// Snapshot copies all entries for observability. Writers are blocked
// only for the duration of the copy.
func (c *Cache) Snapshot() []SnapshotEntry {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	view := make([]SnapshotEntry, 0, len(c.entries))
	for fp, e := range c.entries {
		view = append(view, SnapshotEntry{
			Fingerprint: fp,
			Timestamp:   e.timestamp,
			Count:       e.count,
			AgeSeconds:  now.Sub(e.timestamp).Seconds(),
			DeviceID:    e.deviceID,
		})
	}
	return view
}

// Clear atomically empties the cache and returns the prior size.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := len(c.entries)
	c.entries = make(map[string]*entry)
	metrics.SetDedupCacheSize(0)
	return size
}

func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartSweeper runs the retention eviction on a fixed interval until
// the context is cancelled. The opportunistic post-batch eviction makes
// this optional; it only bounds staleness during quiet periods. A
// non-positive maxAge falls back to the default retention ceiling.
func (c *Cache) StartSweeper(ctx context.Context, interval, maxAge time.Duration) error {
	if maxAge <= 0 {
		maxAge = constants.CacheRetentionSeconds * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.ExpireOlderThan(maxAge)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
