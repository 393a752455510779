package session_test

import (
	"testing"
	"time"

	"github.com/wayscriber/wayscriber/internal/session"
)

func schedulerOptions() *session.Options {
	options := session.NewOptions("/tmp", "test")
	options.PersistTransparent = true
	options.AutosaveIdle = 5 * time.Second
	options.AutosaveInterval = 45 * time.Second
	options.AutosaveFailureBackoff = 5 * time.Second
	return options
}

func TestAutosaveDebouncesUntilIdle(t *testing.T) {
	sched := session.NewScheduler(schedulerOptions())
	start := time.Unix(1_000, 0)

	sched.RecordDirty(start)
	if sched.Due(start.Add(4 * time.Second)) {
		t.Error("due before the idle window elapsed")
	}
	if !sched.Due(start.Add(5 * time.Second)) {
		t.Error("not due after the idle window elapsed")
	}

	// Another stroke resets the debounce.
	sched.RecordDirty(start.Add(4 * time.Second))
	if sched.Due(start.Add(5 * time.Second)) {
		t.Error("due despite recent activity")
	}
	if !sched.Due(start.Add(9 * time.Second)) {
		t.Error("not due once idle again")
	}
}

func TestAutosavePeriodicFlushDuringContinuousDrawing(t *testing.T) {
	sched := session.NewScheduler(schedulerOptions())
	start := time.Unix(1_000, 0)

	// Draw every second so the debounce never fires.
	now := start
	for now.Before(start.Add(44 * time.Second)) {
		sched.RecordDirty(now)
		if sched.Due(now) {
			t.Fatalf("due at %v during active streak", now.Sub(start))
		}
		now = now.Add(time.Second)
	}
	sched.RecordDirty(now)
	if !sched.Due(start.Add(45 * time.Second)) {
		t.Error("periodic flush did not fire after the interval")
	}
}

func TestAutosavePeriodicAnchorsOnDirtyWindow(t *testing.T) {
	sched := session.NewScheduler(schedulerOptions())
	start := time.Unix(1_000, 0)

	sched.RecordDirty(start)
	sched.MarkSaved(start.Add(10 * time.Second))

	// A fresh dirty window after the save restarts the interval.
	sched.RecordDirty(start.Add(12 * time.Second))
	for offset := 13; offset <= 56; offset++ {
		sched.RecordDirty(start.Add(time.Duration(offset) * time.Second))
	}
	if sched.Due(start.Add(56 * time.Second)) {
		t.Error("periodic flush fired before the interval from the dirty window start")
	}
	if !sched.Due(start.Add(57 * time.Second)) {
		t.Error("periodic flush should fire one interval after the dirty window started")
	}
}

func TestAutosaveFailureBackoffDelaysRetry(t *testing.T) {
	sched := session.NewScheduler(schedulerOptions())
	start := time.Unix(1_000, 0)

	sched.RecordDirty(start)
	due := start.Add(5 * time.Second)
	if !sched.Due(due) {
		t.Fatal("expected save due after idle")
	}

	if !sched.MarkFailure(due) {
		t.Error("first failure should ask for a notification")
	}
	if sched.MarkFailure(due.Add(time.Second)) {
		t.Error("repeat failure should stay quiet")
	}
	if sched.Due(due.Add(4 * time.Second)) {
		t.Error("due during the failure backoff")
	}
	if !sched.Due(due.Add(6 * time.Second)) {
		t.Error("not due after the backoff elapsed")
	}

	sched.MarkSaved(due.Add(6 * time.Second))
	if sched.Due(due.Add(7 * time.Second)) {
		t.Error("due after a successful save with no new changes")
	}
	sched.RecordDirty(due.Add(8 * time.Second))
	if !sched.MarkFailure(due.Add(13 * time.Second)) {
		t.Error("failure after a successful save should notify again")
	}
}

func TestAutosaveNextTimeout(t *testing.T) {
	sched := session.NewScheduler(schedulerOptions())
	start := time.Unix(1_000, 0)

	if _, ok := sched.NextTimeout(start); ok {
		t.Error("clean scheduler should report no pending deadline")
	}

	sched.RecordDirty(start)
	wait, ok := sched.NextTimeout(start)
	if !ok || wait != 5*time.Second {
		t.Errorf("timeout after dirty: got %v (ok=%v), want 5s", wait, ok)
	}

	wait, ok = sched.NextTimeout(start.Add(7 * time.Second))
	if !ok || wait != 0 {
		t.Errorf("timeout past deadline: got %v (ok=%v), want 0", wait, ok)
	}
}

func TestAutosaveInactiveWhenNothingPersists(t *testing.T) {
	options := schedulerOptions()
	options.PersistTransparent = false
	options.RestoreToolState = false
	options.PersistHistory = false

	sched := session.NewScheduler(options)
	if sched.Active() {
		t.Error("scheduler should be inert with persistence fully disabled")
	}
	sched.RecordDirty(time.Unix(1_000, 0))
	if sched.Due(time.Unix(2_000, 0)) {
		t.Error("inert scheduler must never report due")
	}

	disabled := schedulerOptions()
	disabled.AutosaveEnabled = false
	sched = session.NewScheduler(disabled)
	if sched.Active() {
		t.Error("scheduler should be inert with autosave disabled")
	}
}
