package input

import (
	"log/slog"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// OnMouseRelease completes the in-flight gesture.
func (s *State) OnMouseRelease(button MouseButton, x, y int) {
	if button != ButtonLeft {
		return
	}
	s.updatePointer(x, y)
	switch g := s.gesture.(type) {
	case *drawingGesture:
		s.gesture = idleGesture{}
		s.finishDrawing(g, x, y)
	case *pendingTextClickGesture:
		s.gesture = idleGesture{}
		s.finishTextClick(g)
	case *movingSelectionGesture:
		s.gesture = idleGesture{}
		if g.moved {
			s.pushTranslationUndo(g.snapshots)
			s.markEdited()
		}
	case *selectingGesture:
		s.gesture = idleGesture{}
		s.finishSelecting(g, x, y)
	case *resizingSelectionGesture:
		s.gesture = idleGesture{}
		s.pushTranslationUndo(g.snapshots)
		s.markSelectionDirty()
		s.markEdited()
	case *resizingTextGesture:
		s.gesture = idleGesture{}
		s.finishTextResize(g)
	}
}

func (s *State) finishSelecting(g *selectingGesture, x, y int) {
	s.clearProvisionalDirty()
	dx, dy := x-g.startX, y-g.startY
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx <= selectionDragThreshold && dy <= selectionDragThreshold {
		if !g.additive {
			s.clearSelection()
		}
		return
	}
	r, ok := geom.FromMinMax(min(g.startX, x), min(g.startY, y), max(g.startX, x), max(g.startY, y))
	if !ok {
		return
	}
	ids := s.shapeIdsInRect(r)
	if g.additive {
		s.extendSelection(ids)
	} else {
		s.setSelection(ids)
	}
}

// finishTextClick resolves a released press on a text shape: the second
// click of a quick pair opens the editor, a first click is remembered.
func (s *State) finishTextClick(g *pendingTextClickGesture) {
	now := s.now()
	if last := s.lastTextClick; last != nil &&
		last.shapeId == g.shapeId &&
		now.Sub(last.at) <= textDoubleClickWindow &&
		chebyshev(last.x-g.x, last.y-g.y) <= textDoubleClickDistance {
		s.lastTextClick = nil
		s.setSelection([]draw.ShapeId{g.shapeId})
		s.EditSelectedText()
		return
	}
	s.lastTextClick = &textClick{shapeId: g.shapeId, x: g.x, y: g.y, at: now}
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

func (s *State) finishTextResize(g *resizingTextGesture) {
	drawn, ok := s.boards.ActiveFrame().Shape(g.shapeId)
	if !ok {
		return
	}
	before := wrapWidthOf(g.snapshot.Shape)
	after := wrapWidthOf(drawn.Shape)
	if intPtrEqual(before, after) {
		return
	}
	s.boards.ActiveFrame().PushUndoAction(draw.ModifyAction{
		ShapeId: g.shapeId,
		Before:  g.snapshot,
		After:   drawn.Snapshot(),
	}, s.undoLimit)
	s.markEdited()
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// finishDrawing commits the gesture as a shape, or performs stroke erasing.
func (s *State) finishDrawing(g *drawingGesture, x, y int) {
	s.clearProvisionalDirty()
	shape, ok := s.buildShape(g, x, y)
	if !ok {
		return
	}
	frame := s.boards.ActiveFrame()
	id, added := frame.TryAddShape(shape, s.maxShapes)
	if !added {
		slog.Warn("shape discarded, frame at capacity", "max", s.maxShapes)
		s.ShowToast("Shape limit reached", "")
		return
	}
	frame.PushUndoAction(s.createActionFor(id), s.undoLimit)
	s.dirty.MarkShape(shape)
	s.invalidateHitCacheFor(id)
	s.clearSelection()
	s.markEdited()
}

// buildShape turns a completed drawing gesture into its committed shape.
// Returns false when nothing should be committed: degenerate drags, the
// selection tools, and stroke-mode erasing (which edits the frame directly).
func (s *State) buildShape(g *drawingGesture, x, y int) (draw.Shape, bool) {
	switch g.tool {
	case ToolPen:
		points := appendEndpoint(g.points, x, y)
		thicknesses := g.thicknesses
		if len(points) > len(thicknesses) {
			thicknesses = append(thicknesses, s.pointThickness())
		}
		if variation(thicknesses) > float32(s.pressureThreshold)*float32(s.thickness) {
			pressure := make([]draw.PressurePoint, len(points))
			for i, p := range points {
				pressure[i] = draw.PressurePoint{X: p.X, Y: p.Y, Thick: thicknesses[i]}
			}
			return draw.FreehandPressure{Points: pressure, Color: s.color}, true
		}
		return draw.Freehand{Points: points, Color: s.color, Thick: s.thickness}, true
	case ToolMarker:
		points := appendEndpoint(g.points, x, y)
		return draw.Marker{Points: points, Color: s.markerColor(), Thick: s.thickness}, true
	case ToolEraser:
		points := appendEndpoint(g.points, x, y)
		if s.eraserMode == EraserStrokeMode {
			s.eraseStrokesByPoints(points, s.eraserHitRadius())
			return nil, false
		}
		brush := draw.EraserBrush{Size: s.eraserSize, Kind: s.eraserKind}
		return draw.Eraser{Points: points, Brush: brush}, true
	case ToolLine:
		return draw.Line{
			X1: g.startX, Y1: g.startY, X2: x, Y2: y,
			Color: s.color, Thick: s.thickness,
		}, true
	case ToolRect:
		minX, minY := min(g.startX, x), min(g.startY, y)
		w, h := max(g.startX, x)-minX, max(g.startY, y)-minY
		if w == 0 || h == 0 {
			return nil, false
		}
		return draw.Rect{
			X: minX, Y: minY, W: w, H: h,
			Fill: s.fillEnabled, Color: s.color, Thick: s.thickness,
		}, true
	case ToolEllipse:
		cx, cy, rx, ry := geom.EllipseFromDrag(g.startX, g.startY, x, y)
		if rx == 0 || ry == 0 {
			return nil, false
		}
		return draw.Ellipse{
			CX: cx, CY: cy, RX: rx, RY: ry,
			Fill: s.fillEnabled, Color: s.color, Thick: s.thickness,
		}, true
	case ToolArrow:
		return draw.Arrow{
			X1: g.startX, Y1: g.startY, X2: x, Y2: y,
			Color: s.color, Thick: s.thickness,
			ArrowLength: s.arrowLength, ArrowAngle: s.arrowAngle,
			HeadAtEnd: s.arrowHeadAtEnd,
		}, true
	case ToolStepMarker:
		return draw.StepMarker{
			X: x, Y: y, Color: s.color,
			Label: draw.StepLabel{Value: s.NextStepCounter(), Size: s.fontSize, Font: s.font},
		}, true
	}
	return nil, false
}

// appendEndpoint adds the release position unless it duplicates the last
// sample. A plain click keeps its single point and commits as a dot.
func appendEndpoint(points []draw.Point, x, y int) []draw.Point {
	if len(points) > 0 {
		last := points[len(points)-1]
		if last.X == x && last.Y == y {
			return points
		}
	}
	return append(points, draw.Point{X: x, Y: y})
}

func variation(thicknesses []float32) float32 {
	if len(thicknesses) == 0 {
		return 0
	}
	lo, hi := thicknesses[0], thicknesses[0]
	for _, t := range thicknesses[1:] {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return hi - lo
}
