package input

import (
	"math"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// Keyboard nudge distances in pixels.
const (
	nudgeStep     = 8
	nudgeStepFast = 32
)

// duplicateOffset is the shift applied to duplicated and pasted shapes.
const duplicateOffset = 12

// DeleteSelection removes every unlocked selected shape and records a single
// undo step. Locked shapes stay put and are reported through a toast.
func (s *State) DeleteSelection() {
	if len(s.selection) == 0 {
		return
	}
	frame := s.boards.ActiveFrame()
	var removed []draw.IndexedShape
	var removedIds []draw.ShapeId
	lockedSkipped := 0
	for _, id := range s.selection {
		drawn, ok := frame.Shape(id)
		if !ok {
			continue
		}
		if drawn.Locked {
			lockedSkipped++
			continue
		}
		index, taken, ok := frame.RemoveShapeById(id)
		if !ok {
			continue
		}
		s.dirty.MarkShape(taken.Shape)
		s.invalidateHitCacheFor(id)
		removed = append(removed, draw.IndexedShape{Index: index, Shape: taken})
		removedIds = append(removedIds, id)
	}
	if len(removed) > 0 {
		frame.PushUndoAction(draw.DeleteAction{Shapes: removed}, s.undoLimit)
		s.removeFromSelection(removedIds)
		s.markEdited()
	}
	if lockedSkipped > 0 {
		s.ShowToast("Locked shapes were not deleted", ActionUnlockSelection)
	}
}

// DuplicateSelection copies the selected shapes with a small offset, selects
// the copies, and records their creation as one undo step.
func (s *State) DuplicateSelection() {
	if len(s.selection) == 0 {
		return
	}
	frame := s.boards.ActiveFrame()
	var created []draw.UndoAction
	var newIds []draw.ShapeId
	for _, id := range s.selection {
		drawn, ok := frame.Shape(id)
		if !ok {
			continue
		}
		copied := draw.Translate(drawn.Shape, duplicateOffset, duplicateOffset)
		newId, ok := frame.TryAddShape(copied, s.maxShapes)
		if !ok {
			s.ShowToast("Shape limit reached", "")
			break
		}
		s.dirty.MarkShape(copied)
		created = append(created, s.createActionFor(newId))
		newIds = append(newIds, newId)
	}
	if len(created) == 0 {
		return
	}
	if len(created) == 1 {
		frame.PushUndoAction(created[0], s.undoLimit)
	} else {
		frame.PushUndoAction(draw.CompoundAction{Actions: created}, s.undoLimit)
	}
	s.setSelection(newIds)
	s.markEdited()
}

// BringSelectionToFront moves the selected shapes to the top of the stack,
// preserving their relative order.
func (s *State) BringSelectionToFront() {
	s.reorderSelection(true)
}

// SendSelectionToBack moves the selected shapes to the bottom of the stack.
func (s *State) SendSelectionToBack() {
	s.reorderSelection(false)
}

func (s *State) reorderSelection(toFront bool) {
	if len(s.selection) == 0 {
		return
	}
	frame := s.boards.ActiveFrame()
	var moves []draw.UndoAction
	for _, id := range s.selection {
		from, ok := frame.FindIndex(id)
		if !ok {
			continue
		}
		to := 0
		if toFront {
			to = frame.Len() - 1
		}
		if from == to {
			continue
		}
		if !frame.MoveShape(from, to) {
			continue
		}
		moves = append(moves, draw.ReorderAction{ShapeId: id, From: from, To: to})
	}
	if len(moves) == 0 {
		return
	}
	if len(moves) == 1 {
		frame.PushUndoAction(moves[0], s.undoLimit)
	} else {
		frame.PushUndoAction(draw.CompoundAction{Actions: moves}, s.undoLimit)
	}
	s.invalidateHitCache()
	s.markSelectionDirty()
	s.markEdited()
}

// SetSelectionLocked locks or unlocks the selected shapes in one undo step.
func (s *State) SetSelectionLocked(locked bool) {
	if len(s.selection) == 0 {
		return
	}
	frame := s.boards.ActiveFrame()
	var mods []draw.UndoAction
	for _, id := range s.selection {
		drawn, ok := frame.Shape(id)
		if !ok || drawn.Locked == locked {
			continue
		}
		before := drawn.Snapshot()
		drawn.Locked = locked
		mods = append(mods, draw.ModifyAction{ShapeId: id, Before: before, After: drawn.Snapshot()})
	}
	if len(mods) == 0 {
		return
	}
	if len(mods) == 1 {
		frame.PushUndoAction(mods[0], s.undoLimit)
	} else {
		frame.PushUndoAction(draw.CompoundAction{Actions: mods}, s.undoLimit)
	}
	if locked {
		s.ShowToast("Selection locked", ActionUnlockSelection)
	}
	s.markSelectionDirty()
	s.markEdited()
}

// ClearCanvas deletes every unlocked shape on the active frame as one undo
// step. Locked shapes survive.
func (s *State) ClearCanvas() {
	frame := s.boards.ActiveFrame()
	if frame.IsEmpty() {
		return
	}
	var removed []draw.IndexedShape
	lockedKept := 0
	for i := frame.Len() - 1; i >= 0; i-- {
		drawn := frame.Shapes()[i]
		if drawn.Locked {
			lockedKept++
			continue
		}
		index, taken, ok := frame.RemoveShapeById(drawn.Id)
		if !ok {
			continue
		}
		removed = append(removed, draw.IndexedShape{Index: index, Shape: taken})
	}
	if len(removed) > 0 {
		frame.PushUndoAction(draw.DeleteAction{Shapes: removed}, s.undoLimit)
		s.clearSelection()
		s.invalidateHitCache()
		s.dirty.MarkFull()
		s.markEdited()
	}
	if lockedKept > 0 {
		s.ShowToast("Locked shapes were kept", ActionUnlockSelection)
	}
}

// applyTranslationToSelection shifts the unlocked selected shapes, clamped so
// their combined bounds stay on screen. Returns the applied delta.
func (s *State) applyTranslationToSelection(dx, dy int) (int, int) {
	bounds, ok := s.movableSelectionBounds()
	if !ok {
		return 0, 0
	}
	dx, dy = s.clampTranslation(dx, dy, bounds)
	if dx == 0 && dy == 0 {
		return 0, 0
	}
	frame := s.boards.ActiveFrame()
	for _, id := range s.selection {
		drawn, ok := frame.Shape(id)
		if !ok || drawn.Locked {
			continue
		}
		s.dirty.MarkShape(drawn.Shape)
		drawn.Shape = draw.Translate(drawn.Shape, dx, dy)
		s.dirty.MarkShape(drawn.Shape)
		s.invalidateHitCacheFor(id)
	}
	s.markSelectionDirty()
	s.needsRedraw = true
	return dx, dy
}

// createActionFor builds the undo record for a freshly inserted shape.
func (s *State) createActionFor(id draw.ShapeId) draw.CreateAction {
	frame := s.boards.ActiveFrame()
	index, _ := frame.FindIndex(id)
	drawn, _ := frame.Shape(id)
	return draw.CreateAction{Shapes: []draw.IndexedShape{{Index: index, Shape: *drawn}}}
}

// clampTranslation limits the delta so bounds stays inside the screen.
func (s *State) clampTranslation(dx, dy int, bounds geom.Rect) (int, int) {
	if s.screenWidth > 0 {
		if bounds.X+dx < 0 {
			dx = -bounds.X
		}
		if bounds.MaxX()+dx > s.screenWidth {
			dx = s.screenWidth - bounds.MaxX()
		}
	}
	if s.screenHeight > 0 {
		if bounds.Y+dy < 0 {
			dy = -bounds.Y
		}
		if bounds.MaxY()+dy > s.screenHeight {
			dy = s.screenHeight - bounds.MaxY()
		}
	}
	return dx, dy
}

// NudgeSelection moves the selection by the keyboard step and records the
// move as one undo step.
func (s *State) NudgeSelection(dx, dy int, fast bool) {
	if len(s.selection) == 0 {
		return
	}
	step := nudgeStep
	if fast {
		step = nudgeStepFast
	}
	s.translateSelectionWithUndo(dx*step, dy*step)
}

// MoveSelectionToEdge slides the selection flush against one screen edge.
// Exactly one of dx, dy is non-zero and carries the direction sign.
func (s *State) MoveSelectionToEdge(dx, dy int) {
	bounds, ok := s.movableSelectionBounds()
	if !ok {
		return
	}
	var wantX, wantY int
	switch {
	case dx < 0:
		wantX = -bounds.X
	case dx > 0:
		wantX = s.screenWidth - bounds.MaxX()
	case dy < 0:
		wantY = -bounds.Y
	case dy > 0:
		wantY = s.screenHeight - bounds.MaxY()
	}
	s.translateSelectionWithUndo(wantX, wantY)
}

func (s *State) translateSelectionWithUndo(dx, dy int) {
	snapshots := s.captureSelectionSnapshots()
	if len(snapshots) == 0 {
		s.flashBlocked()
		return
	}
	appliedX, appliedY := s.applyTranslationToSelection(dx, dy)
	if appliedX == 0 && appliedY == 0 {
		return
	}
	s.pushTranslationUndo(snapshots)
	s.markEdited()
}

// pushTranslationUndo records before/after snapshots for each moved shape.
func (s *State) pushTranslationUndo(before []snapshotPair) {
	frame := s.boards.ActiveFrame()
	var mods []draw.UndoAction
	for _, pair := range before {
		drawn, ok := frame.Shape(pair.id)
		if !ok {
			continue
		}
		mods = append(mods, draw.ModifyAction{
			ShapeId: pair.id,
			Before:  pair.snapshot,
			After:   drawn.Snapshot(),
		})
	}
	if len(mods) == 0 {
		return
	}
	if len(mods) == 1 {
		frame.PushUndoAction(mods[0], s.undoLimit)
	} else {
		frame.PushUndoAction(draw.CompoundAction{Actions: mods}, s.undoLimit)
	}
}

// eraseStrokesByPoints deletes every unlocked shape touched by the sampled
// eraser path. The path is densified so fast drags cannot tunnel through
// thin shapes.
func (s *State) eraseStrokesByPoints(points []draw.Point, radius float64) {
	if len(points) == 0 {
		return
	}
	sampled := densifyPath(points, max(radius*0.9, 1))
	hit := s.hitTestAllForPoints(sampled, radius)
	if len(hit) == 0 {
		return
	}
	frame := s.boards.ActiveFrame()
	var removed []draw.IndexedShape
	var removedIds []draw.ShapeId
	for _, id := range hit {
		drawn, ok := frame.Shape(id)
		if !ok || drawn.Locked {
			continue
		}
		index, taken, ok := frame.RemoveShapeById(id)
		if !ok {
			continue
		}
		s.dirty.MarkShape(taken.Shape)
		s.invalidateHitCacheFor(id)
		removed = append(removed, draw.IndexedShape{Index: index, Shape: taken})
		removedIds = append(removedIds, id)
	}
	if len(removed) == 0 {
		return
	}
	frame.PushUndoAction(draw.DeleteAction{Shapes: removed}, s.undoLimit)
	s.removeFromSelection(removedIds)
	s.markEdited()
}

// densifyPath inserts interpolated samples so consecutive points are at most
// step apart.
func densifyPath(points []draw.Point, step float64) []draw.Point {
	if len(points) < 2 {
		return points
	}
	out := make([]draw.Point, 0, len(points))
	out = append(out, points[0])
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		dist := math.Hypot(float64(cur.X-prev.X), float64(cur.Y-prev.Y))
		if dist > step {
			n := int(dist / step)
			for j := 1; j <= n; j++ {
				t := float64(j) / float64(n+1)
				out = append(out, draw.Point{
					X: prev.X + int(math.Round(t*float64(cur.X-prev.X))),
					Y: prev.Y + int(math.Round(t*float64(cur.Y-prev.Y))),
				})
			}
		}
		out = append(out, cur)
	}
	return out
}

// CopySelection snapshots the selected shapes into the clipboard.
func (s *State) CopySelection() {
	if len(s.selection) == 0 {
		return
	}
	s.clipboard = s.clipboard[:0]
	for _, id := range s.selection {
		drawn, ok := s.boards.ActiveFrame().Shape(id)
		if !ok {
			continue
		}
		s.clipboard = append(s.clipboard, drawn.Snapshot())
	}
	s.pasteSerial = 0
	s.ShowToast("Copied", "")
}

// PasteClipboard inserts the clipboard shapes with a cumulative offset so
// repeated pastes fan out, selecting the new copies.
func (s *State) PasteClipboard() {
	if len(s.clipboard) == 0 {
		return
	}
	s.pasteSerial++
	offset := duplicateOffset * s.pasteSerial
	frame := s.boards.ActiveFrame()
	var created []draw.UndoAction
	var newIds []draw.ShapeId
	for _, snap := range s.clipboard {
		pasted := draw.Translate(snap.Shape, offset, offset)
		id, ok := frame.TryAddShape(pasted, s.maxShapes)
		if !ok {
			s.ShowToast("Shape limit reached", "")
			break
		}
		s.dirty.MarkShape(pasted)
		created = append(created, s.createActionFor(id))
		newIds = append(newIds, id)
	}
	if len(created) == 0 {
		return
	}
	if len(created) == 1 {
		frame.PushUndoAction(created[0], s.undoLimit)
	} else {
		frame.PushUndoAction(draw.CompoundAction{Actions: created}, s.undoLimit)
	}
	s.setSelection(newIds)
	s.markEdited()
}
