package input

import (
	"time"

	"github.com/wayscriber/wayscriber/internal/draw"
)

// minHistoryStepDelay floors the pacing of animated undo/redo so steps stay
// visible.
const minHistoryStepDelay = 50 * time.Millisecond

// Undo reverts the most recent action on the active frame.
func (s *State) Undo() bool {
	action, ok := s.boards.ActiveFrame().UndoLast()
	if !ok {
		s.flashBlocked()
		return false
	}
	s.applyActionSideEffects(action)
	return true
}

// Redo re-applies the most recently undone action.
func (s *State) Redo() bool {
	action, ok := s.boards.ActiveFrame().RedoLast()
	if !ok {
		s.flashBlocked()
		return false
	}
	s.applyActionSideEffects(action)
	return true
}

// applyActionSideEffects settles engine state after the history engine
// replayed an action: damage, caches, and a selection that may now point at
// shapes that no longer exist.
func (s *State) applyActionSideEffects(action draw.UndoAction) {
	s.markActionDirty(action)
	s.invalidateHitCache()
	s.clearSelection()
	s.markEdited()
}

// markActionDirty damages every region an action touched.
func (s *State) markActionDirty(action draw.UndoAction) {
	switch a := action.(type) {
	case draw.CreateAction:
		for _, is := range a.Shapes {
			s.dirty.MarkShape(is.Shape.Shape)
		}
	case draw.DeleteAction:
		for _, is := range a.Shapes {
			s.dirty.MarkShape(is.Shape.Shape)
		}
	case draw.ModifyAction:
		s.dirty.MarkShape(a.Before.Shape)
		s.dirty.MarkShape(a.After.Shape)
	case draw.ReorderAction:
		if !s.markShapeDirtyById(a.ShapeId) {
			s.dirty.MarkFull()
		}
	case draw.CompoundAction:
		for _, sub := range a.Actions {
			s.markActionDirty(sub)
		}
	}
}

// delayedHistory animates multi-step undo or redo, one step per interval.
type delayedHistory struct {
	redo      bool
	remaining int
	delay     time.Duration
	nextDue   time.Time
}

// StartUndoAll begins undoing the whole stack, paced by the configured
// delay. With a zero or sub-minimum delay the steps still animate at the
// floor rate.
func (s *State) StartUndoAll() {
	s.startDelayedHistory(false, s.boards.ActiveFrame().UndoDepth(), s.undoAllDelay)
}

// StartRedoAll begins re-applying the whole redo stack.
func (s *State) StartRedoAll() {
	s.startDelayedHistory(true, s.boards.ActiveFrame().RedoDepth(), s.redoAllDelay)
}

// StartDelayedSteps animates a bounded number of undo or redo steps.
func (s *State) StartDelayedSteps(redo bool, steps int, delay time.Duration) {
	depth := s.boards.ActiveFrame().UndoDepth()
	if redo {
		depth = s.boards.ActiveFrame().RedoDepth()
	}
	s.startDelayedHistory(redo, min(depth, steps), delay)
}

func (s *State) startDelayedHistory(redo bool, steps int, delay time.Duration) {
	if steps <= 0 {
		s.flashBlocked()
		return
	}
	if delay < minHistoryStepDelay {
		delay = minHistoryStepDelay
	}
	s.pendingHistory = &delayedHistory{
		redo:      redo,
		remaining: steps,
		delay:     delay,
		nextDue:   s.now(),
	}
}

// HistoryAnimationActive reports whether an animated undo/redo is running.
func (s *State) HistoryAnimationActive() bool { return s.pendingHistory != nil }

// CancelHistoryAnimation stops an in-flight animated undo/redo, leaving the
// steps already applied in place.
func (s *State) CancelHistoryAnimation() { s.pendingHistory = nil }

// TickDelayedHistory applies every animation step that has come due. The
// shell calls this from its frame loop; it returns true when a step ran.
func (s *State) TickDelayedHistory() bool {
	h := s.pendingHistory
	if h == nil {
		return false
	}
	progressed := false
	now := s.now()
	for h.remaining > 0 && !now.Before(h.nextDue) {
		var action draw.UndoAction
		var ok bool
		if h.redo {
			action, ok = s.boards.ActiveFrame().RedoLast()
		} else {
			action, ok = s.boards.ActiveFrame().UndoLast()
		}
		if !ok {
			h.remaining = 0
			break
		}
		s.applyActionSideEffects(action)
		h.remaining--
		h.nextDue = h.nextDue.Add(h.delay)
		progressed = true
	}
	if h.remaining == 0 {
		s.pendingHistory = nil
	}
	return progressed
}
