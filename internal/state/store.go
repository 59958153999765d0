package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot represents the latest sync outcome available to the UI.
type Snapshot struct {
	LastSync            time.Time // Last completed cycle, success or failure
	LastSuccess         time.Time
	LastMerged          int // Quotes appended by the last successful cycle
	TotalMerged         int
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed cycles
}

// IsOffline returns true when the remote has been unreachable for multiple cycles.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// HasSynced reports whether any cycle has succeeded yet.
func (s Snapshot) HasSynced() bool {
	return !s.LastSuccess.IsZero()
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

// RecordSuccess marks a completed cycle that merged n quotes.
func (s *Store) RecordSuccess(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.clock()
	s.snapshot.LastSync = at
	s.snapshot.LastSuccess = at
	s.snapshot.LastMerged = n
	s.snapshot.TotalMerged += n
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// RecordFailure keeps the previous counts but records err for visibility.
func (s *Store) RecordFailure(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastSync = s.clock()
	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
