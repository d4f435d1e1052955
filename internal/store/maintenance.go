package store

import (
	"sync/atomic"
	"time"
)

// shrinkRatio and shrinkAbsolute are the tombstone-driven compaction
// thresholds from spec §4.3.
const (
	shrinkRatio    = 0.10
	shrinkAbsolute = 50_000
)

// sweepInterval is the minimum wall-clock gap between full expiry
// sweeps (spec §4.3: "at least 100 s since the last expiry sweep").
const sweepInterval = 100 * time.Second

// MaintenanceResult reports what one MaintenanceWork pass did, for
// logging by the caller.
type MaintenanceResult struct {
	Shrunk       bool
	ExpiredCount int
}

// MaintenanceWork runs one pass of the background maintenance task
// (spec §4.3): a tombstone-ratio check that may shrink each shard's
// backing map, and — at most once per sweepInterval — a full scan that
// batch-removes every lazily-missed expired key.
func (s *Store) MaintenanceWork() MaintenanceResult {
	var res MaintenanceResult

	if s.shouldShrink() {
		s.shrink()
		res.Shrunk = true
	}

	if s.dueForSweep() {
		res.ExpiredCount = s.sweepExpired()
	}

	return res
}

func (s *Store) shouldShrink() bool {
	removed := atomic.LoadInt32(&s.tombstones)
	if removed <= 0 {
		return false
	}
	if int(removed) > shrinkAbsolute {
		return true
	}
	size := s.Len()
	if size == 0 {
		return false
	}
	return float64(removed)/float64(size) > shrinkRatio
}

// shrink rebuilds every shard's map from its live entries, dropping the
// capacity retained from mass deletion, then resets the tombstone
// counter.
func (s *Store) shrink() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		fresh := make(map[string]*DataWrapper, len(sh.data))
		for k, w := range sh.data {
			fresh[k] = w
		}
		sh.data = fresh
		sh.mu.Unlock()
	}
	atomic.StoreInt32(&s.tombstones, 0)
}

func (s *Store) dueForSweep() bool {
	last := atomic.LoadInt64(&s.lastSweep)
	return last == 0 || time.Since(time.UnixMilli(last)) >= sweepInterval
}

// sweepExpired iterates every shard looking for keys whose expiry is
// strictly in the past, then batch-removes them. Iteration takes each
// shard's read lock only long enough to snapshot candidate keys, so it
// does not starve concurrent traffic on other shards (spec §4.3).
func (s *Store) sweepExpired() int {
	now := nowMs()
	removed := 0

	for _, sh := range s.shards {
		var expiredKeys []string

		sh.mu.RLock()
		for k, w := range sh.data {
			w.mu.RLock()
			stale := w.expireMs != 0 && w.expireMs < now
			w.mu.RUnlock()
			if stale {
				expiredKeys = append(expiredKeys, k)
			}
		}
		sh.mu.RUnlock()

		if len(expiredKeys) > 0 {
			removed += s.RemoveAll(expiredKeys)
		}
	}

	atomic.StoreInt64(&s.lastSweep, now)
	return removed
}
