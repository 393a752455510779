package draw

// HistoryTrimStats reports how many actions a pruning pass removed from each
// stack.
type HistoryTrimStats struct {
	UndoRemoved int
	RedoRemoved int
}

// IsEmpty reports whether the pass removed nothing.
func (s HistoryTrimStats) IsEmpty() bool {
	return s.UndoRemoved == 0 && s.RedoRemoved == 0
}

func (s *HistoryTrimStats) add(other HistoryTrimStats) {
	s.UndoRemoved += other.UndoRemoved
	s.RedoRemoved += other.RedoRemoved
}

// PushUndoAction records an undoable action, dropping the oldest entries when
// the stack exceeds limit (limit 0 means unbounded). Any recorded edit
// invalidates the redo stack.
func (f *Frame) PushUndoAction(action UndoAction, limit int) {
	f.undoStack = append(f.undoStack, action)
	if limit > 0 && len(f.undoStack) > limit {
		overflow := len(f.undoStack) - limit
		f.undoStack = append(f.undoStack[:0:0], f.undoStack[overflow:]...)
	}
	f.redoStack = nil
}

// UndoLast pops the newest action, applies its inverse, and moves it to the
// redo stack. Returns false when there is nothing to undo.
func (f *Frame) UndoLast() (UndoAction, bool) {
	if len(f.undoStack) == 0 {
		return nil, false
	}
	action := f.undoStack[len(f.undoStack)-1]
	f.undoStack = f.undoStack[:len(f.undoStack)-1]
	f.applyInverse(action)
	f.redoStack = append(f.redoStack, action)
	return action, true
}

// RedoLast pops the newest undone action, re-applies it, and moves it back to
// the undo stack.
func (f *Frame) RedoLast() (UndoAction, bool) {
	if len(f.redoStack) == 0 {
		return nil, false
	}
	action := f.redoStack[len(f.redoStack)-1]
	f.redoStack = f.redoStack[:len(f.redoStack)-1]
	f.applyAction(action)
	f.undoStack = append(f.undoStack, action)
	return action, true
}

func (f *Frame) applyAction(action UndoAction) {
	switch v := action.(type) {
	case CreateAction:
		for offset, entry := range v.Shapes {
			f.insertExisting(entry.Index+offset, entry.Shape)
		}
	case DeleteAction:
		for _, entry := range v.Shapes {
			f.RemoveShapeById(entry.Shape.Id)
		}
	case ModifyAction:
		if target, ok := f.Shape(v.ShapeId); ok {
			target.Shape = v.After.Shape
			target.Locked = v.After.Locked
		}
	case ReorderAction:
		f.moveShapeTo(v.ShapeId, v.To)
	case CompoundAction:
		for _, child := range v.Actions {
			f.applyAction(child)
		}
	}
}

func (f *Frame) applyInverse(action UndoAction) {
	switch v := action.(type) {
	case CreateAction:
		for i := len(v.Shapes) - 1; i >= 0; i-- {
			f.RemoveShapeById(v.Shapes[i].Shape.Id)
		}
	case DeleteAction:
		for offset, entry := range v.Shapes {
			insertAt := entry.Index + offset
			if insertAt > len(f.shapes) {
				insertAt = len(f.shapes)
			}
			f.insertExisting(insertAt, entry.Shape)
		}
	case ModifyAction:
		if target, ok := f.Shape(v.ShapeId); ok {
			target.Shape = v.Before.Shape
			target.Locked = v.Before.Locked
		}
	case ReorderAction:
		f.moveShapeTo(v.ShapeId, v.From)
	case CompoundAction:
		for i := len(v.Actions) - 1; i >= 0; i-- {
			f.applyInverse(v.Actions[i])
		}
	}
}

// moveShapeTo relocates a shape to a target index, recomputing the insert
// position after the removal so forward moves land where they started.
func (f *Frame) moveShapeTo(id ShapeId, target int) {
	index, ok := f.FindIndex(id)
	if !ok || index == target {
		return
	}
	shape := f.shapes[index]
	f.shapes = append(f.shapes[:index], f.shapes[index+1:]...)
	insert := target
	if insert > len(f.shapes) {
		insert = len(f.shapes)
	}
	if index < insert && insert > 0 {
		insert--
	}
	f.shapes = append(f.shapes[:insert], append([]DrawnShape{shape}, f.shapes[insert:]...)...)
}

// ClampHistoryDepth truncates both stacks to limit entries, dropping from the
// oldest end.
func (f *Frame) ClampHistoryDepth(limit int) HistoryTrimStats {
	var stats HistoryTrimStats
	if limit <= 0 {
		stats.UndoRemoved = len(f.undoStack)
		stats.RedoRemoved = len(f.redoStack)
		f.undoStack = nil
		f.redoStack = nil
		return stats
	}
	f.undoStack, stats.UndoRemoved = clampStack(f.undoStack, limit)
	f.redoStack, stats.RedoRemoved = clampStack(f.redoStack, limit)
	return stats
}

func clampStack(stack []UndoAction, limit int) ([]UndoAction, int) {
	if len(stack) <= limit {
		return stack, 0
	}
	overflow := len(stack) - limit
	return append(stack[:0:0], stack[overflow:]...), overflow
}

// PruneHistoryForRemovedIds strips every reference to the removed ids from
// both stacks. Compounds are pruned child-by-child and dropped only when
// emptied.
func (f *Frame) PruneHistoryForRemovedIds(removed map[ShapeId]struct{}) HistoryTrimStats {
	if len(removed) == 0 {
		return HistoryTrimStats{}
	}
	var stats HistoryTrimStats
	f.undoStack, stats.UndoRemoved = pruneStack(f.undoStack, func(a UndoAction) (UndoAction, bool) {
		return pruneRemovedShapes(a, removed)
	})
	f.redoStack, stats.RedoRemoved = pruneStack(f.redoStack, func(a UndoAction) (UndoAction, bool) {
		return pruneRemovedShapes(a, removed)
	})
	return stats
}

// ValidateHistory drops actions whose compound nesting exceeds maxDepth.
// A maxDepth of 0 clears both stacks.
func (f *Frame) ValidateHistory(maxDepth int) HistoryTrimStats {
	if maxDepth <= 0 {
		return f.ClampHistoryDepth(0)
	}
	var stats HistoryTrimStats
	f.undoStack, stats.UndoRemoved = pruneStack(f.undoStack, func(a UndoAction) (UndoAction, bool) {
		return a, actionDepth(a) <= maxDepth
	})
	f.redoStack, stats.RedoRemoved = pruneStack(f.redoStack, func(a UndoAction) (UndoAction, bool) {
		return a, actionDepth(a) <= maxDepth
	})
	return stats
}

// PruneHistoryAgainstShapes drops Modify/Reorder actions whose target id is
// on neither the shape list nor any other history action. When the shape
// list is empty the ids carried by history itself keep replayable actions
// alive.
func (f *Frame) PruneHistoryAgainstShapes() HistoryTrimStats {
	ids := make(map[ShapeId]struct{}, len(f.shapes))
	for i := range f.shapes {
		ids[f.shapes[i].Id] = struct{}{}
	}
	if len(ids) == 0 {
		for _, action := range f.undoStack {
			collectIds(action, ids)
		}
		for _, action := range f.redoStack {
			collectIds(action, ids)
		}
	}
	if len(ids) == 0 {
		return HistoryTrimStats{}
	}
	var stats HistoryTrimStats
	f.undoStack, stats.UndoRemoved = pruneStack(f.undoStack, func(a UndoAction) (UndoAction, bool) {
		return validateAgainstShapes(a, ids)
	})
	f.redoStack, stats.RedoRemoved = pruneStack(f.redoStack, func(a UndoAction) (UndoAction, bool) {
		return validateAgainstShapes(a, ids)
	})
	return stats
}

func pruneStack(stack []UndoAction, keep func(UndoAction) (UndoAction, bool)) ([]UndoAction, int) {
	out := stack[:0]
	removed := 0
	for _, action := range stack {
		if kept, ok := keep(action); ok {
			out = append(out, kept)
		} else {
			removed++
		}
	}
	return out, removed
}
