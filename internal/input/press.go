package input

import (
	"github.com/wayscriber/wayscriber/internal/draw"
)

// OnMousePress routes a button press through the gesture state machine.
func (s *State) OnMousePress(button MouseButton, x, y int) {
	s.updatePointer(x, y)
	switch button {
	case ButtonLeft:
		s.onLeftPress(x, y)
	case ButtonRight:
		s.onRightPress(x, y)
	}
}

func (s *State) onLeftPress(x, y int) {
	// A press while typing moves the text anchor instead of starting a new
	// gesture.
	if g, ok := s.gesture.(*textInputGesture); ok {
		g.x, g.y = x, y
		s.markTextPreviewDirty()
		return
	}
	if s.gesture.kind() != GestureIdle {
		return
	}

	tool := s.ActiveTool()
	if tool == ToolHighlight {
		s.spawnClickHighlight(x, y)
		return
	}

	if s.HasSelection() {
		if handle, bounds, ok := s.hitSelectionHandle(x, y); ok {
			snapshots := s.captureSelectionSnapshots()
			if len(snapshots) > 0 {
				s.gesture = &resizingSelectionGesture{
					handle: handle, bounds: bounds,
					startX: x, startY: y,
					snapshots: snapshots,
				}
				return
			}
		}
		if id, snapshot, baseX, size, ok := s.hitTextResizeHandle(x, y); ok {
			s.gesture = &resizingTextGesture{
				shapeId: id, snapshot: snapshot,
				baseX: baseX, size: size,
			}
			return
		}
	}

	selectionClick := s.modifiers.Alt || tool == ToolSelect
	if !selectionClick {
		// A click on an existing text shape may become a double-click edit;
		// hold the press until motion or release decides.
		if id, ok := s.hitTestAt(x, y); ok {
			if drawn, found := s.boards.ActiveFrame().Shape(id); found && !drawn.Locked {
				switch drawn.Shape.(type) {
				case draw.Text, draw.StickyNote:
					s.gesture = &pendingTextClickGesture{x: x, y: y, tool: tool, shapeId: id}
					return
				}
			}
		}
	}

	if selectionClick {
		if id, ok := s.hitTestAt(x, y); ok {
			if s.modifiers.Shift {
				s.extendSelection([]draw.ShapeId{id})
			} else if !s.IsSelected(id) {
				s.setSelection([]draw.ShapeId{id})
			}
			s.gesture = &movingSelectionGesture{
				lastX: x, lastY: y,
				snapshots: s.captureSelectionSnapshots(),
			}
			return
		}
		s.gesture = &selectingGesture{startX: x, startY: y, additive: s.modifiers.Shift}
		return
	}

	switch tool {
	case ToolText:
		s.EnterTextMode(x, y)
	case ToolStickyNote:
		s.EnterStickyNoteMode(x, y)
	default:
		s.gesture = &drawingGesture{
			tool:        tool,
			startX:      x,
			startY:      y,
			points:      []draw.Point{{X: x, Y: y}},
			thicknesses: []float32{s.pointThickness()},
		}
	}
}

// onRightPress cancels whatever is in flight; when idle it retargets the
// selection under the pointer for the shell's context menu.
func (s *State) onRightPress(x, y int) {
	if s.gesture.kind() != GestureIdle {
		s.cancelGesture()
		return
	}
	if id, ok := s.hitTestAt(x, y); ok {
		if !s.IsSelected(id) {
			s.setSelection([]draw.ShapeId{id})
		}
	} else {
		s.clearSelection()
	}
}

// cancelGesture aborts the in-flight gesture, restoring any shapes the
// gesture was mutating in place.
func (s *State) cancelGesture() {
	switch g := s.gesture.(type) {
	case *drawingGesture:
		s.clearProvisionalDirty()
	case *selectingGesture:
		s.clearProvisionalDirty()
	case *movingSelectionGesture:
		s.restoreSnapshots(g.snapshots)
	case *resizingSelectionGesture:
		s.restoreSnapshots(g.snapshots)
	case *resizingTextGesture:
		s.restoreSnapshots([]snapshotPair{{id: g.shapeId, snapshot: g.snapshot}})
	case *textInputGesture:
		s.cancelTextEdit()
		s.clearTextPreviewDirty()
	}
	s.gesture = idleGesture{}
	s.needsRedraw = true
}
