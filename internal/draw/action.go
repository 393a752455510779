package draw

// UndoAction is the tagged variant the history engine replays in either
// direction. Apply/inverse semantics live on Frame (history.go).
type UndoAction interface {
	isUndoAction()
}

// IndexedShape pairs a shape with the paint-order index it occupied.
type IndexedShape struct {
	Index int
	Shape DrawnShape
}

// CreateAction records shapes inserted at the stored indices (in list
// order). Its inverse removes them in reverse.
type CreateAction struct {
	Shapes []IndexedShape
}

// DeleteAction is the symmetric inverse of CreateAction.
type DeleteAction struct {
	Shapes []IndexedShape
}

// ModifyAction swaps a shape between two snapshots.
type ModifyAction struct {
	ShapeId ShapeId
	Before  ShapeSnapshot
	After   ShapeSnapshot
}

// ReorderAction moves a shape between paint-order positions.
type ReorderAction struct {
	ShapeId ShapeId
	From    int
	To      int
}

// CompoundAction groups actions so undo/redo treat them atomically: forward
// order on apply, reverse order on inverse.
type CompoundAction struct {
	Actions []UndoAction
}

func (CreateAction) isUndoAction()   {}
func (DeleteAction) isUndoAction()   {}
func (ModifyAction) isUndoAction()   {}
func (ReorderAction) isUndoAction()  {}
func (CompoundAction) isUndoAction() {}

// actionDepth measures compound nesting; plain actions count 1.
func actionDepth(a UndoAction) int {
	c, ok := a.(CompoundAction)
	if !ok {
		return 1
	}
	deepest := 0
	for _, child := range c.Actions {
		if d := actionDepth(child); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

// maxShapeId returns the largest shape id the action references.
func maxShapeId(a UndoAction) (ShapeId, bool) {
	switch v := a.(type) {
	case CreateAction:
		return maxIndexedId(v.Shapes)
	case DeleteAction:
		return maxIndexedId(v.Shapes)
	case ModifyAction:
		return v.ShapeId, true
	case ReorderAction:
		return v.ShapeId, true
	case CompoundAction:
		var best ShapeId
		found := false
		for _, child := range v.Actions {
			if id, ok := maxShapeId(child); ok && (!found || id > best) {
				best = id
				found = true
			}
		}
		return best, found
	default:
		return 0, false
	}
}

func maxIndexedId(shapes []IndexedShape) (ShapeId, bool) {
	var best ShapeId
	found := false
	for _, s := range shapes {
		if !found || s.Shape.Id > best {
			best = s.Shape.Id
			found = true
		}
	}
	return best, found
}

// pruneRemovedShapes strips references to removed ids. Create/Delete keep
// their surviving entries, Modify/Reorder drop entirely, and compounds
// recurse then drop when emptied. Returns the surviving action and whether
// anything survived.
func pruneRemovedShapes(a UndoAction, removed map[ShapeId]struct{}) (UndoAction, bool) {
	switch v := a.(type) {
	case CreateAction:
		kept := keepIndexed(v.Shapes, removed)
		if len(kept) == 0 {
			return nil, false
		}
		return CreateAction{Shapes: kept}, true
	case DeleteAction:
		kept := keepIndexed(v.Shapes, removed)
		if len(kept) == 0 {
			return nil, false
		}
		return DeleteAction{Shapes: kept}, true
	case ModifyAction:
		if _, gone := removed[v.ShapeId]; gone {
			return nil, false
		}
		return v, true
	case ReorderAction:
		if _, gone := removed[v.ShapeId]; gone {
			return nil, false
		}
		return v, true
	case CompoundAction:
		kept := make([]UndoAction, 0, len(v.Actions))
		for _, child := range v.Actions {
			if pruned, ok := pruneRemovedShapes(child, removed); ok {
				kept = append(kept, pruned)
			}
		}
		if len(kept) == 0 {
			return nil, false
		}
		return CompoundAction{Actions: kept}, true
	default:
		return a, true
	}
}

func keepIndexed(shapes []IndexedShape, removed map[ShapeId]struct{}) []IndexedShape {
	kept := make([]IndexedShape, 0, len(shapes))
	for _, s := range shapes {
		if _, gone := removed[s.Shape.Id]; !gone {
			kept = append(kept, s)
		}
	}
	return kept
}

// validateAgainstShapes drops Modify/Reorder actions whose target id is not
// in the known-id set. Create/Delete carry their own shape data and always
// survive; compounds recurse then drop when emptied.
func validateAgainstShapes(a UndoAction, ids map[ShapeId]struct{}) (UndoAction, bool) {
	switch v := a.(type) {
	case CreateAction, DeleteAction:
		return a, true
	case ModifyAction:
		_, ok := ids[v.ShapeId]
		return v, ok
	case ReorderAction:
		_, ok := ids[v.ShapeId]
		return v, ok
	case CompoundAction:
		kept := make([]UndoAction, 0, len(v.Actions))
		for _, child := range v.Actions {
			if valid, ok := validateAgainstShapes(child, ids); ok {
				kept = append(kept, valid)
			}
		}
		if len(kept) == 0 {
			return nil, false
		}
		return CompoundAction{Actions: kept}, true
	default:
		return a, true
	}
}

// collectIds records every shape id referenced by the action.
func collectIds(a UndoAction, ids map[ShapeId]struct{}) {
	switch v := a.(type) {
	case CreateAction:
		for _, s := range v.Shapes {
			ids[s.Shape.Id] = struct{}{}
		}
	case DeleteAction:
		for _, s := range v.Shapes {
			ids[s.Shape.Id] = struct{}{}
		}
	case ModifyAction:
		ids[v.ShapeId] = struct{}{}
	case ReorderAction:
		ids[v.ShapeId] = struct{}{}
	case CompoundAction:
		for _, child := range v.Actions {
			collectIds(child, ids)
		}
	}
}
