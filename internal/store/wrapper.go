package store

import "sync"

// DataWrapper exclusively owns one Value plus its expiration metadata.
// The RWMutex is the per-entry lease: many readers of the same key may
// hold RLock concurrently, any writer excludes all of them. expireMs
// of 0 means "no TTL".
type DataWrapper struct {
	mu       sync.RWMutex
	value    Value
	expireMs int64
}

func newWrapper(v Value, expireMs int64) *DataWrapper {
	return &DataWrapper{value: v, expireMs: expireMs}
}

// expired reports whether the wrapper's current expireMs marks it as
// stale relative to nowMs. expireMs == 0 means "no TTL" (spec §3).
func (w *DataWrapper) expired(nowMs int64) bool {
	e := w.expireMs
	return e != 0 && e <= nowMs
}

// ReadLease is a borrowed, read-locked handle on a DataWrapper. Its
// lifetime is bounded: callers must call Release exactly once.
type ReadLease struct {
	w *DataWrapper
}

func (l *ReadLease) Value() Value    { return l.w.value }
func (l *ReadLease) ExpireMs() int64 { return l.w.expireMs }
func (l *ReadLease) Release()        { l.w.mu.RUnlock() }

// WriteLease is a borrowed, write-locked handle on a DataWrapper.
type WriteLease struct {
	w *DataWrapper
}

func (l *WriteLease) Value() Value         { return l.w.value }
func (l *WriteLease) SetValue(v Value)     { l.w.value = v }
func (l *WriteLease) ExpireMs() int64      { return l.w.expireMs }
func (l *WriteLease) SetExpireMs(ms int64) { l.w.expireMs = ms }
func (l *WriteLease) Release()             { l.w.mu.Unlock() }
