package input

import (
	"testing"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

func addRect(s *State, x, y, w, h int) draw.ShapeId {
	drag(s, ToolRect, x, y, x+w, y+h)
	shapes := s.Boards().ActiveFrame().Shapes()
	return shapes[len(shapes)-1].Id
}

func TestSelectClickAndMove(t *testing.T) {
	s, _ := newTestState()
	id := addRect(s, 100, 100, 50, 50)

	s.SetTool(ToolSelect)
	s.OnMousePress(ButtonLeft, 100, 100)
	if !s.IsSelected(id) {
		t.Fatal("click on shape did not select it")
	}
	s.OnMouseMove(130, 140)
	s.OnMouseRelease(ButtonLeft, 130, 140)

	drawn, _ := s.Boards().ActiveFrame().Shape(id)
	r := drawn.Shape.(draw.Rect)
	if r.X != 130 || r.Y != 140 {
		t.Errorf("moved rect at (%d,%d), want (130,140)", r.X, r.Y)
	}

	if !s.Undo() {
		t.Fatal("undo of move failed")
	}
	drawn, _ = s.Boards().ActiveFrame().Shape(id)
	r = drawn.Shape.(draw.Rect)
	if r.X != 100 || r.Y != 100 {
		t.Errorf("rect after undo at (%d,%d), want (100,100)", r.X, r.Y)
	}
}

func TestClickOnEmptyClearsSelection(t *testing.T) {
	s, _ := newTestState()
	addRect(s, 100, 100, 50, 50)
	s.SetTool(ToolSelect)
	s.OnMousePress(ButtonLeft, 110, 110)
	s.OnMouseRelease(ButtonLeft, 110, 110)
	if !s.HasSelection() {
		t.Fatal("shape not selected")
	}

	s.OnMousePress(ButtonLeft, 900, 900)
	s.OnMouseRelease(ButtonLeft, 901, 901)
	if s.HasSelection() {
		t.Error("click on empty space kept the selection")
	}
}

func TestRubberBandSelectsIntersecting(t *testing.T) {
	s, _ := newTestState()
	a := addRect(s, 100, 100, 40, 40)
	b := addRect(s, 300, 100, 40, 40)
	addRect(s, 900, 900, 40, 40)

	s.SetTool(ToolSelect)
	s.OnMousePress(ButtonLeft, 50, 50)
	s.OnMouseMove(400, 200)
	s.OnMouseRelease(ButtonLeft, 400, 200)

	if !s.IsSelected(a) || !s.IsSelected(b) {
		t.Error("rubber band missed intersecting shapes")
	}
	if len(s.Selection()) != 2 {
		t.Errorf("selected %d shapes, want 2", len(s.Selection()))
	}
}

func TestLockedShapesSurviveDelete(t *testing.T) {
	s, _ := newTestState()
	id := addRect(s, 100, 100, 50, 50)

	s.setSelection([]draw.ShapeId{id})
	s.SetSelectionLocked(true)
	s.DeleteSelection()

	if got := s.Boards().ActiveFrame().Len(); got != 1 {
		t.Fatalf("locked shape deleted, frame has %d shapes", got)
	}
	if _, ok := s.ActiveToast(); !ok {
		t.Error("no toast when delete skipped locked shapes")
	}

	s.SetSelectionLocked(false)
	s.DeleteSelection()
	if got := s.Boards().ActiveFrame().Len(); got != 0 {
		t.Errorf("unlocked shape not deleted, frame has %d shapes", got)
	}
}

func TestDuplicateOffsetsAndSelectsCopy(t *testing.T) {
	s, _ := newTestState()
	id := addRect(s, 100, 100, 50, 50)
	s.setSelection([]draw.ShapeId{id})

	s.DuplicateSelection()
	frame := s.Boards().ActiveFrame()
	if frame.Len() != 2 {
		t.Fatalf("frame has %d shapes, want 2", frame.Len())
	}
	sel := s.Selection()
	if len(sel) != 1 || sel[0] == id {
		t.Fatal("duplicate did not select the copy")
	}
	drawn, _ := frame.Shape(sel[0])
	r := drawn.Shape.(draw.Rect)
	if r.X != 112 || r.Y != 112 {
		t.Errorf("copy at (%d,%d), want (112,112)", r.X, r.Y)
	}
}

func TestNudgeAndEdgeMovesClamp(t *testing.T) {
	s, _ := newTestState()
	id := addRect(s, 100, 100, 50, 50)
	s.setSelection([]draw.ShapeId{id})

	s.NudgeSelection(-1, 0, false)
	drawn, _ := s.Boards().ActiveFrame().Shape(id)
	if r := drawn.Shape.(draw.Rect); r.X != 92 {
		t.Errorf("rect at x=%d after nudge, want 92", r.X)
	}
	s.NudgeSelection(-1, 0, true)
	drawn, _ = s.Boards().ActiveFrame().Shape(id)
	if r := drawn.Shape.(draw.Rect); r.X != 60 {
		t.Errorf("rect at x=%d after fast nudge, want 60", r.X)
	}

	// Edge moves clamp the stroke-padded bounds, not the raw geometry.
	s.MoveSelectionToEdge(-1, 0)
	drawn, _ = s.Boards().ActiveFrame().Shape(id)
	if b, _ := draw.BoundingBox(drawn.Shape); b.X != 0 {
		t.Errorf("left edge move left bounds at x=%d, want 0", b.X)
	}

	s.MoveSelectionToEdge(1, 0)
	drawn, _ = s.Boards().ActiveFrame().Shape(id)
	if b, _ := draw.BoundingBox(drawn.Shape); b.MaxX() != 1920 {
		t.Errorf("right edge move left bounds max at %d, want 1920", b.MaxX())
	}
}

func TestReorderRoundTripsThroughUndo(t *testing.T) {
	s, _ := newTestState()
	bottom := addRect(s, 100, 100, 50, 50)
	addRect(s, 300, 300, 50, 50)

	s.setSelection([]draw.ShapeId{bottom})
	s.BringSelectionToFront()

	frame := s.Boards().ActiveFrame()
	if frame.Shapes()[frame.Len()-1].Id != bottom {
		t.Fatal("shape not on top after reorder")
	}
	if !s.Undo() {
		t.Fatal("undo of reorder failed")
	}
	if frame.Shapes()[0].Id != bottom {
		t.Error("shape not back on the bottom after undo")
	}
}

func TestUndoReorderDamagesShapeRegion(t *testing.T) {
	s, _ := newTestState()
	moved := addRect(s, 100, 100, 50, 50)
	addRect(s, 300, 300, 50, 50)
	s.setSelection([]draw.ShapeId{moved})
	s.BringSelectionToFront()

	s.Dirty().Take()
	if !s.Undo() {
		t.Fatal("undo of reorder failed")
	}
	drawn, ok := s.Boards().ActiveFrame().Shape(moved)
	if !ok {
		t.Fatal("shape missing after undo")
	}
	want, _ := draw.BoundingBox(drawn.Shape)
	assertDamageCovers(t, s.Dirty().Take(), want)
}

func TestCopyPasteFansOut(t *testing.T) {
	s, _ := newTestState()
	id := addRect(s, 100, 100, 50, 50)
	s.setSelection([]draw.ShapeId{id})

	s.CopySelection()
	s.PasteClipboard()
	s.PasteClipboard()

	frame := s.Boards().ActiveFrame()
	if frame.Len() != 3 {
		t.Fatalf("frame has %d shapes, want 3", frame.Len())
	}
	second := frame.Shapes()[2].Shape.(draw.Rect)
	if second.X != 124 || second.Y != 124 {
		t.Errorf("second paste at (%d,%d), want (124,124)", second.X, second.Y)
	}
}

func TestCornerResizeScalesSelection(t *testing.T) {
	s, _ := newTestState()
	id := addRect(s, 100, 100, 100, 100)
	s.setSelection([]draw.ShapeId{id})

	bounds, ok := s.movableSelectionBounds()
	if !ok {
		t.Fatal("selection has no bounds")
	}
	handle, _, hit := s.hitSelectionHandle(bounds.X-selectionHaloPadding, bounds.Y-selectionHaloPadding)
	if !hit || handle != HandleTopLeft {
		t.Fatalf("handle hit = %v %d, want top-left", hit, handle)
	}

	s.OnMousePress(ButtonLeft, bounds.X-selectionHaloPadding, bounds.Y-selectionHaloPadding)
	if s.Gesture() != GestureResizingSelection {
		t.Fatalf("gesture = %s, want resizing_selection", s.Gesture())
	}

	// Drag the corner to the midpoint of the padded bounds: both extents
	// halve about the fixed bottom-right anchor.
	midX := bounds.X + bounds.Width/2
	midY := bounds.Y + bounds.Height/2
	s.OnMouseMove(midX, midY)
	s.OnMouseRelease(ButtonLeft, midX, midY)

	drawn, _ := s.Boards().ActiveFrame().Shape(id)
	r := drawn.Shape.(draw.Rect)
	if r.W != 50 || r.H != 50 {
		t.Errorf("resized rect %dx%d, want 50x50", r.W, r.H)
	}
	// The anchor is the padded bounds corner at 202, so the shape's max
	// corner lands one pixel inside it.
	if r.X+r.W != 201 || r.Y+r.H != 201 {
		t.Errorf("max corner (%d,%d), want (201,201)", r.X+r.W, r.Y+r.H)
	}

	if !s.Undo() {
		t.Fatal("undo of resize failed")
	}
	drawn, _ = s.Boards().ActiveFrame().Shape(id)
	r = drawn.Shape.(draw.Rect)
	if r.W != 100 || r.H != 100 {
		t.Errorf("rect after undo %dx%d, want 100x100", r.W, r.H)
	}
}

func TestResizeEnforcesMinimumExtent(t *testing.T) {
	bounds := geom.Rect{X: 100, Y: 100, Width: 100, Height: 100}
	sx, sy := computeScaleFactors(HandleBottomRight, bounds, 101, 101)
	if sx != minResizeExtent/100 || sy != minResizeExtent/100 {
		t.Errorf("scale factors %v,%v, want %v", sx, sy, minResizeExtent/100)
	}
}
