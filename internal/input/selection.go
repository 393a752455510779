package input

import (
	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// selectionHaloPadding is how far the selection outline extends past the
// shape bounds; its dirty region must cover it.
const selectionHaloPadding = 6

// Selection returns the selected shape ids in selection order.
func (s *State) Selection() []draw.ShapeId {
	out := make([]draw.ShapeId, len(s.selection))
	copy(out, s.selection)
	return out
}

// HasSelection reports whether anything is selected.
func (s *State) HasSelection() bool { return len(s.selection) > 0 }

// IsSelected reports whether the shape id is part of the selection.
func (s *State) IsSelected(id draw.ShapeId) bool {
	_, ok := s.selectedSet[id]
	return ok
}

func (s *State) setSelection(ids []draw.ShapeId) {
	s.markSelectionDirty()
	s.selection = s.selection[:0]
	clear(s.selectedSet)
	for _, id := range ids {
		if _, dup := s.selectedSet[id]; dup {
			continue
		}
		s.selection = append(s.selection, id)
		s.selectedSet[id] = struct{}{}
	}
	s.markSelectionDirty()
	s.needsRedraw = true
}

func (s *State) extendSelection(ids []draw.ShapeId) {
	for _, id := range ids {
		if _, dup := s.selectedSet[id]; dup {
			continue
		}
		s.selection = append(s.selection, id)
		s.selectedSet[id] = struct{}{}
	}
	s.markSelectionDirty()
	s.needsRedraw = true
}

// toggleInSelection adds the id, or removes it if already selected.
func (s *State) toggleInSelection(id draw.ShapeId) {
	if _, ok := s.selectedSet[id]; !ok {
		s.extendSelection([]draw.ShapeId{id})
		return
	}
	s.markSelectionDirty()
	delete(s.selectedSet, id)
	for i, sel := range s.selection {
		if sel == id {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			break
		}
	}
	s.needsRedraw = true
}

func (s *State) clearSelection() {
	if len(s.selection) == 0 {
		return
	}
	s.markSelectionDirty()
	s.selection = s.selection[:0]
	clear(s.selectedSet)
	s.needsRedraw = true
}

// removeFromSelection drops ids that no longer exist, preserving order.
func (s *State) removeFromSelection(ids []draw.ShapeId) {
	for _, id := range ids {
		delete(s.selectedSet, id)
	}
	kept := s.selection[:0]
	for _, id := range s.selection {
		if _, ok := s.selectedSet[id]; ok {
			kept = append(kept, id)
		}
	}
	s.selection = kept
}

// SelectAll selects every shape on the active frame, skipping eraser strokes.
func (s *State) SelectAll() {
	ids := make([]draw.ShapeId, 0, s.boards.ActiveFrame().Len())
	for i := range s.boards.ActiveFrame().Shapes() {
		drawn := &s.boards.ActiveFrame().Shapes()[i]
		if _, isEraser := drawn.Shape.(draw.Eraser); isEraser {
			continue
		}
		ids = append(ids, drawn.Id)
	}
	s.setSelection(ids)
}

// SelectionBounds returns the union of the selected shapes' bounds.
func (s *State) SelectionBounds() (geom.Rect, bool) {
	var union geom.Rect
	have := false
	for _, id := range s.selection {
		drawn, ok := s.boards.ActiveFrame().Shape(id)
		if !ok {
			continue
		}
		b, ok := draw.BoundingBox(drawn.Shape)
		if !ok {
			continue
		}
		if have {
			union = union.Union(b)
		} else {
			union = b
			have = true
		}
	}
	return union, have
}

// movableSelectionBounds unions only the unlocked selected shapes.
func (s *State) movableSelectionBounds() (geom.Rect, bool) {
	var union geom.Rect
	have := false
	for _, id := range s.selection {
		drawn, ok := s.boards.ActiveFrame().Shape(id)
		if !ok || drawn.Locked {
			continue
		}
		b, ok := draw.BoundingBox(drawn.Shape)
		if !ok {
			continue
		}
		if have {
			union = union.Union(b)
		} else {
			union = b
			have = true
		}
	}
	return union, have
}

// shapeIdsInRect collects shapes whose bounds intersect the rubber-band
// rectangle, in frame order. Eraser strokes are skipped.
func (s *State) shapeIdsInRect(r geom.Rect) []draw.ShapeId {
	var ids []draw.ShapeId
	for i := range s.boards.ActiveFrame().Shapes() {
		drawn := &s.boards.ActiveFrame().Shapes()[i]
		if _, isEraser := drawn.Shape.(draw.Eraser); isEraser {
			continue
		}
		b, ok := draw.BoundingBox(drawn.Shape)
		if ok && b.Intersects(r) {
			ids = append(ids, drawn.Id)
		}
	}
	return ids
}

// markSelectionDirty damages the selection halo region.
func (s *State) markSelectionDirty() {
	if b, ok := s.SelectionBounds(); ok {
		if inflated, ok := b.Inflated(selectionHaloPadding + 2); ok {
			s.dirty.MarkRect(inflated)
		}
	}
}

// captureSelectionSnapshots records the current state of every selected
// unlocked shape, keyed for undo.
func (s *State) captureSelectionSnapshots() []snapshotPair {
	pairs := make([]snapshotPair, 0, len(s.selection))
	for _, id := range s.selection {
		drawn, ok := s.boards.ActiveFrame().Shape(id)
		if !ok || drawn.Locked {
			continue
		}
		pairs = append(pairs, snapshotPair{id: id, snapshot: drawn.Snapshot()})
	}
	return pairs
}

// restoreSnapshots puts snapshotted shapes back, used when a gesture cancels.
func (s *State) restoreSnapshots(pairs []snapshotPair) {
	for _, pair := range pairs {
		drawn, ok := s.boards.ActiveFrame().Shape(pair.id)
		if !ok {
			continue
		}
		s.dirty.MarkShape(drawn.Shape)
		drawn.Shape = pair.snapshot.Shape
		drawn.Locked = pair.snapshot.Locked
		s.dirty.MarkShape(drawn.Shape)
		s.invalidateHitCacheFor(pair.id)
	}
	s.needsRedraw = true
}
