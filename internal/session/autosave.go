package session

import "time"

// Scheduler decides when a dirty session is due for an automatic save. Saves
// are debounced while the user keeps drawing and forced periodically during
// long uninterrupted streaks; a failed save backs off before retrying.
type Scheduler struct {
	idle     time.Duration
	interval time.Duration
	backoff  time.Duration
	active   bool

	dirty           bool
	dirtySince      time.Time
	lastDirtyAt     time.Time
	lastSaveAt      time.Time
	retryAt         time.Time
	notifiedFailure bool
}

// NewScheduler builds a scheduler from the session options. The scheduler is
// inert when autosave is disabled or nothing is persisted.
func NewScheduler(options *Options) *Scheduler {
	idle := options.AutosaveIdle
	if idle <= 0 {
		idle = DefaultAutosaveIdle
	}
	interval := options.AutosaveInterval
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	backoff := options.AutosaveFailureBackoff
	if backoff <= 0 {
		backoff = DefaultAutosaveFailureBackoff
	}
	return &Scheduler{
		idle:     idle,
		interval: interval,
		backoff:  backoff,
		active:   options.AutosaveEnabled && (options.AnyEnabled() || options.RestoreToolState || options.PersistHistory),
	}
}

// Active reports whether the scheduler will ever trigger a save.
func (s *Scheduler) Active() bool { return s.active }

// Dirty reports whether unsaved changes are pending.
func (s *Scheduler) Dirty() bool { return s.dirty }

// RecordDirty notes a mutation at the given instant. The first mutation after
// a save starts a new dirty window.
func (s *Scheduler) RecordDirty(now time.Time) {
	if !s.active {
		return
	}
	if !s.dirty {
		s.dirty = true
		s.dirtySince = now
	}
	s.lastDirtyAt = now
}

// MarkSaved clears the dirty window and any pending failure backoff.
func (s *Scheduler) MarkSaved(now time.Time) {
	s.dirty = false
	s.lastSaveAt = now
	s.retryAt = time.Time{}
	s.notifiedFailure = false
}

// MarkFailure schedules a retry after the failure backoff. It returns true
// the first time a failure occurs since the last successful save, so callers
// can notify the user once instead of on every retry.
func (s *Scheduler) MarkFailure(now time.Time) bool {
	s.retryAt = now.Add(s.backoff)
	first := !s.notifiedFailure
	s.notifiedFailure = true
	return first
}

// Due reports whether a save should run now. A save is due once the user has
// been idle past the debounce window, or once the periodic interval elapses
// during a continuous drawing streak, whichever comes first.
func (s *Scheduler) Due(now time.Time) bool {
	if !s.active || !s.dirty {
		return false
	}
	if !s.retryAt.IsZero() && now.Before(s.retryAt) {
		return false
	}
	if !now.Before(s.lastDirtyAt.Add(s.idle)) {
		return true
	}
	return !now.Before(s.periodicDeadline())
}

// NextTimeout returns how long the caller may sleep before re-checking Due.
// It returns false when no save will become due without further mutations.
func (s *Scheduler) NextTimeout(now time.Time) (time.Duration, bool) {
	if !s.active || !s.dirty {
		return 0, false
	}
	deadline := s.lastDirtyAt.Add(s.idle)
	if periodic := s.periodicDeadline(); periodic.Before(deadline) {
		deadline = periodic
	}
	if !s.retryAt.IsZero() && s.retryAt.After(deadline) {
		deadline = s.retryAt
	}
	if !deadline.After(now) {
		return 0, true
	}
	return deadline.Sub(now), true
}

// periodicDeadline anchors the interval at the later of the last successful
// save and the start of the current dirty window, so long streaks still flush
// every interval instead of being debounced forever.
func (s *Scheduler) periodicDeadline() time.Time {
	base := s.dirtySince
	if s.lastSaveAt.After(base) {
		base = s.lastSaveAt
	}
	return base.Add(s.interval)
}
