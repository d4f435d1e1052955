// Package serverstate holds the process-wide counters described by
// spec §3 ("Server state") and §4.6 (the INFO command), extended with
// the teacher's byte/connection accounting so INFO carries the same
// operational detail as GoFast's ServerStats.
package serverstate

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Version is the protocol/server version string reported by INFO.
const Version = "0.1.0"

// State is the single writer-locked counter block shared by every
// connection and the dispatcher. All mutation goes through its
// methods; INFO snapshots take the shared (read) path.
type State struct {
	mu sync.RWMutex

	currentConnections uint64
	totalConnections    uint64
	processedCommands   uint64
	getOps              uint64
	setOps              uint64
	delOps              uint64
	hits                uint64
	misses              uint64
	bytesRead           uint64
	bytesWritten        uint64

	startTime time.Time
}

// New constructs a State whose uptime clock starts now.
func New() *State {
	return &State{startTime: time.Now()}
}

func (s *State) ConnectionOpened() {
	s.mu.Lock()
	s.currentConnections++
	s.totalConnections++
	s.mu.Unlock()
}

func (s *State) ConnectionClosed() {
	s.mu.Lock()
	if s.currentConnections > 0 {
		s.currentConnections--
	}
	s.mu.Unlock()
}

// CurrentConnections is read by the accept loop's admission check
// (spec §5), so it is exposed outside of an INFO snapshot.
func (s *State) CurrentConnections() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentConnections
}

func (s *State) CommandProcessed() {
	s.mu.Lock()
	s.processedCommands++
	s.mu.Unlock()
}

func (s *State) RecordGet(hit bool) {
	s.mu.Lock()
	s.getOps++
	if hit {
		s.hits++
	} else {
		s.misses++
	}
	s.mu.Unlock()
}

func (s *State) RecordSet() {
	s.mu.Lock()
	s.setOps++
	s.mu.Unlock()
}

func (s *State) RecordDel() {
	s.mu.Lock()
	s.delOps++
	s.mu.Unlock()
}

func (s *State) RecordIO(read, written int) {
	s.mu.Lock()
	s.bytesRead += uint64(read)
	s.bytesWritten += uint64(written)
	s.mu.Unlock()
}

// Snapshot is an immutable copy of State, safe to read without a lock.
type Snapshot struct {
	CurrentConnections uint64
	TotalConnections   uint64
	ProcessedCommands  uint64
	GetOps             uint64
	SetOps             uint64
	DelOps             uint64
	Hits               uint64
	Misses             uint64
	BytesRead          uint64
	BytesWritten       uint64
	Uptime             time.Duration
	Version            string
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		CurrentConnections: s.currentConnections,
		TotalConnections:   s.totalConnections,
		ProcessedCommands:  s.processedCommands,
		GetOps:             s.getOps,
		SetOps:             s.setOps,
		DelOps:             s.delOps,
		Hits:               s.hits,
		Misses:             s.misses,
		BytesRead:          s.bytesRead,
		BytesWritten:       s.bytesWritten,
		Uptime:             time.Since(s.startTime),
		Version:            Version,
	}
}

// InfoText renders the human-readable multi-line snapshot used by the
// INFO command (spec §4.6).
func (sn Snapshot) InfoText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "version:%s\n", sn.Version)
	fmt.Fprintf(&b, "uptime_seconds:%d\n", int64(sn.Uptime.Seconds()))
	fmt.Fprintf(&b, "current_connections:%d\n", sn.CurrentConnections)
	fmt.Fprintf(&b, "total_connections:%d\n", sn.TotalConnections)
	fmt.Fprintf(&b, "processed_commands:%d\n", sn.ProcessedCommands)
	fmt.Fprintf(&b, "get_ops:%d\n", sn.GetOps)
	fmt.Fprintf(&b, "set_ops:%d\n", sn.SetOps)
	fmt.Fprintf(&b, "del_ops:%d\n", sn.DelOps)
	fmt.Fprintf(&b, "keyspace_hits:%d\n", sn.Hits)
	fmt.Fprintf(&b, "keyspace_misses:%d\n", sn.Misses)
	fmt.Fprintf(&b, "bytes_read:%d\n", sn.BytesRead)
	fmt.Fprintf(&b, "bytes_written:%d\n", sn.BytesWritten)
	return b.String()
}
