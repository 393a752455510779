package draw

import "time"

// ShapeId uniquely identifies a shape within a frame. Ids are monotonic and
// never reused within a session, even after deletion.
type ShapeId = uint64

// MaxCompoundDepth is the hard ceiling on compound-action nesting accepted
// from persisted history.
const MaxCompoundDepth = 16

// DrawnShape is a shape stored on a frame together with engine metadata.
type DrawnShape struct {
	Id        ShapeId
	Shape     Shape
	CreatedAt uint64 // unix milliseconds
	Locked    bool
}

// ShapeSnapshot captures the mutable subset of a DrawnShape for Modify
// actions.
type ShapeSnapshot struct {
	Shape  Shape `json:"shape"`
	Locked bool  `json:"locked"`
}

// Snapshot extracts the mutable state of the shape.
func (d *DrawnShape) Snapshot() ShapeSnapshot {
	return ShapeSnapshot{Shape: d.Shape, Locked: d.Locked}
}

func newDrawnShape(id ShapeId, shape Shape) DrawnShape {
	return DrawnShape{
		Id:        id,
		Shape:     shape,
		CreatedAt: uint64(time.Now().UnixMilli()),
	}
}

// Frame is an ordered list of shapes (paint order = back to front) paired
// with undo and redo stacks.
type Frame struct {
	shapes      []DrawnShape
	undoStack   []UndoAction
	redoStack   []UndoAction
	nextShapeId ShapeId
	pageName    string
}

// NewFrame returns an empty frame with id generation starting at 1.
func NewFrame() *Frame {
	return &Frame{nextShapeId: 1}
}

// Clear removes all shapes and history and resets id generation.
func (f *Frame) Clear() {
	f.shapes = nil
	f.undoStack = nil
	f.redoStack = nil
	f.nextShapeId = 1
}

// Len returns the number of shapes on the frame.
func (f *Frame) Len() int { return len(f.shapes) }

// IsEmpty reports whether the frame has no shapes.
func (f *Frame) IsEmpty() bool { return len(f.shapes) == 0 }

// Shapes returns the shapes in paint order. Callers must not mutate the
// returned slice; all edits go through the frame's mutators.
func (f *Frame) Shapes() []DrawnShape { return f.shapes }

// HasPersistableData reports whether the frame carries anything worth
// writing to disk.
func (f *Frame) HasPersistableData() bool {
	return len(f.shapes) > 0 || len(f.undoStack) > 0 || len(f.redoStack) > 0
}

// PageName returns the optional user-assigned page name.
func (f *Frame) PageName() string { return f.pageName }

// SetPageName assigns or clears the page name.
func (f *Frame) SetPageName(name string) { f.pageName = name }

// CloneWithHistory copies the shapes and both history stacks. Used when
// detaching a frame into a session snapshot.
func (f *Frame) CloneWithHistory() *Frame {
	clone := &Frame{
		shapes:    append([]DrawnShape(nil), f.shapes...),
		undoStack: append([]UndoAction(nil), f.undoStack...),
		redoStack: append([]UndoAction(nil), f.redoStack...),
		pageName:  f.pageName,
	}
	clone.rebuildNextId()
	return clone
}

// CloneWithoutHistory copies the shapes but drops both history stacks. Used
// for page duplication.
func (f *Frame) CloneWithoutHistory() *Frame {
	clone := NewFrame()
	clone.shapes = append([]DrawnShape(nil), f.shapes...)
	clone.rebuildNextId()
	return clone
}

// AddShape appends a shape, clears the redo stack, and returns its new id.
func (f *Frame) AddShape(shape Shape) ShapeId {
	id := f.insertNewShape(len(f.shapes), shape)
	f.redoStack = nil
	return id
}

// TryAddShape appends a shape unless max > 0 and the frame is already full.
// Returns the new id and true on success.
func (f *Frame) TryAddShape(shape Shape, max int) (ShapeId, bool) {
	if max > 0 && len(f.shapes) >= max {
		return 0, false
	}
	return f.AddShape(shape), true
}

// InsertShapeAt inserts a shape at index (clamped to [0, len]) and returns
// its id.
func (f *Frame) InsertShapeAt(index int, shape Shape) ShapeId {
	if index < 0 {
		index = 0
	}
	if index > len(f.shapes) {
		index = len(f.shapes)
	}
	id := f.insertNewShape(index, shape)
	f.redoStack = nil
	return id
}

// TruncateShapes drops every shape past max (0 keeps everything) and returns
// the ids that were removed.
func (f *Frame) TruncateShapes(max int) map[ShapeId]struct{} {
	if max <= 0 || len(f.shapes) <= max {
		return nil
	}
	removed := make(map[ShapeId]struct{}, len(f.shapes)-max)
	for _, drawn := range f.shapes[max:] {
		removed[drawn.Id] = struct{}{}
	}
	f.shapes = f.shapes[:max]
	return removed
}

// FindIndex returns the paint-order index of the shape with the given id.
func (f *Frame) FindIndex(id ShapeId) (int, bool) {
	for i := range f.shapes {
		if f.shapes[i].Id == id {
			return i, true
		}
	}
	return 0, false
}

// Shape returns the shape with the given id.
func (f *Frame) Shape(id ShapeId) (*DrawnShape, bool) {
	if i, ok := f.FindIndex(id); ok {
		return &f.shapes[i], true
	}
	return nil, false
}

// RemoveShapeById removes and returns the shape together with the index it
// occupied.
func (f *Frame) RemoveShapeById(id ShapeId) (int, DrawnShape, bool) {
	i, ok := f.FindIndex(id)
	if !ok {
		return 0, DrawnShape{}, false
	}
	removed := f.shapes[i]
	f.shapes = append(f.shapes[:i], f.shapes[i+1:]...)
	return i, removed, true
}

// MoveShape relocates the shape at from to sit at to, adjusting for the
// removal when moving forward. Returns false for out-of-range indices.
func (f *Frame) MoveShape(from, to int) bool {
	if from < 0 || from >= len(f.shapes) || to < 0 || to >= len(f.shapes) {
		return false
	}
	if from == to {
		return true
	}
	shape := f.shapes[from]
	f.shapes = append(f.shapes[:from], f.shapes[from+1:]...)
	insert := to
	if insert > len(f.shapes) {
		insert = len(f.shapes)
	}
	if from < to && insert > 0 {
		insert--
	}
	f.shapes = append(f.shapes[:insert], append([]DrawnShape{shape}, f.shapes[insert:]...)...)
	return true
}

func (f *Frame) insertNewShape(index int, shape Shape) ShapeId {
	id := f.generateId()
	f.insertExisting(index, newDrawnShape(id, shape))
	return id
}

// insertExisting reinserts a previously materialised shape, bumping the id
// counter past its id so reuse is impossible.
func (f *Frame) insertExisting(index int, drawn DrawnShape) {
	f.markIdUsed(drawn.Id)
	if index > len(f.shapes) {
		index = len(f.shapes)
	}
	f.shapes = append(f.shapes[:index], append([]DrawnShape{drawn}, f.shapes[index:]...)...)
}

func (f *Frame) generateId() ShapeId {
	id := f.nextShapeId
	f.nextShapeId++
	return id
}

func (f *Frame) markIdUsed(id ShapeId) {
	if id >= f.nextShapeId {
		f.nextShapeId = id + 1
	}
}

// rebuildNextId recomputes the id counter from the shape list and every id
// referenced by history. Called after deserialisation and cloning.
func (f *Frame) rebuildNextId() {
	var maxId ShapeId
	for i := range f.shapes {
		if f.shapes[i].Id > maxId {
			maxId = f.shapes[i].Id
		}
	}
	for _, action := range f.undoStack {
		if id, ok := maxShapeId(action); ok && id > maxId {
			maxId = id
		}
	}
	for _, action := range f.redoStack {
		if id, ok := maxShapeId(action); ok && id > maxId {
			maxId = id
		}
	}
	f.nextShapeId = maxId + 1
}

// NextShapeId exposes the id counter for integrity checks in tests.
func (f *Frame) NextShapeId() ShapeId { return f.nextShapeId }

// UndoDepth returns the undo stack length.
func (f *Frame) UndoDepth() int { return len(f.undoStack) }

// RedoDepth returns the redo stack length.
func (f *Frame) RedoDepth() int { return len(f.redoStack) }
