package state

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestStore_RecordSuccess(t *testing.T) {
	var s Store

	before := time.Now()
	s.RecordSuccess(3)
	s.RecordSuccess(2)

	snap := s.Snapshot()
	if !snap.HasSynced() {
		t.Fatalf("HasSynced() = false, want true")
	}
	if snap.LastMerged != 2 || snap.TotalMerged != 5 {
		t.Fatalf("merged = %d/%d, want 2/5", snap.LastMerged, snap.TotalMerged)
	}
	if snap.LastSync.Before(before) {
		t.Fatalf("LastSync = %v, want >= %v", snap.LastSync, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestStore_RecordFailureKeepsPreviousData(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s := Store{now: func() time.Time { return fixed }}

	s.RecordSuccess(4)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.RecordFailure(origErr)

	snap := s.Snapshot()
	if snap.LastMerged != prev.LastMerged || snap.TotalMerged != prev.TotalMerged {
		t.Fatalf("counts changed on error: got %d/%d want %d/%d",
			snap.LastMerged, snap.TotalMerged, prev.LastMerged, prev.TotalMerged)
	}
	if !snap.LastSuccess.Equal(prev.LastSuccess) {
		t.Fatalf("LastSuccess changed on error")
	}
	if !snap.LastSync.Equal(fixed) {
		t.Fatalf("LastSync = %v, want %v", snap.LastSync, fixed)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the recorded error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_RecordFailureIgnoresNil(t *testing.T) {
	var s Store
	s.RecordFailure(nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || !snap.LastSync.IsZero() {
		t.Fatalf("nil error should be ignored, got %#v", snap)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() || snap.HasSynced() {
		t.Fatal("zero snapshot should be neither offline nor synced")
	}

	for i, wantOffline := range []bool{false, true, true} {
		s.RecordFailure(errors.New("fail"))
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != i+1 {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i+1)
		}
		if snap.IsOffline() != wantOffline {
			t.Fatalf("IsOffline() = %v, want %v with %d failures", snap.IsOffline(), wantOffline, i+1)
		}
	}

	s.RecordSuccess(0)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after success")
	}
}
