// Package state holds the sync status shown in the quoted UI header.
//
// # Overview
//
// The sync engine records the outcome of every cycle here and the UI reads a
// copy on each refresh. The store is informational only: nothing in the sync
// engine reads it back, so a string of failures never changes how the next
// cycle runs.
//
//	Producer (sync engine):          Consumer (UI):
//	RecordSuccess(n) / RecordFailure  Snapshot() -> header line
//
// # Update Semantics
//
//	store.RecordSuccess(n)
//	→ LastSync, LastSuccess = now
//	→ LastMerged = n, TotalMerged += n
//	→ LastError = nil, ConsecutiveFailures = 0
//
//	store.RecordFailure(err)
//	→ LastSync = now
//	→ merge counts <unchanged>
//	→ LastError = err, ConsecutiveFailures++
//
// IsOffline reports two or more consecutive failures.
//
// # Concurrency
//
// Store uses a sync.RWMutex. Record* takes the write lock, Snapshot the read
// lock. The zero value is ready to use:
//
//	status := &state.Store{}
package state
