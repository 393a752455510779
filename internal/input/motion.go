package input

import (
	"github.com/wayscriber/wayscriber/internal/draw"
)

// OnMouseMove advances the in-flight gesture to the new pointer position.
func (s *State) OnMouseMove(x, y int) {
	s.updatePointer(x, y)
	switch g := s.gesture.(type) {
	case *drawingGesture:
		s.moveDrawing(g, x, y)
	case *pendingTextClickGesture:
		s.maybePromotePendingClick(g, x, y)
	case *movingSelectionGesture:
		dx, dy := s.applyTranslationToSelection(x-g.lastX, y-g.lastY)
		if dx != 0 || dy != 0 {
			g.moved = true
		}
		g.lastX, g.lastY = x, y
	case *selectingGesture:
		s.markProvisionalDirty(selectingBounds(g, x, y))
	case *resizingSelectionGesture:
		s.applySelectionResize(g, x, y)
	case *resizingTextGesture:
		width := s.clampTextWrapWidth(g.baseX, x, g.size)
		s.updateTextWrapWidth(g.shapeId, width)
	}
}

func (s *State) moveDrawing(g *drawingGesture, x, y int) {
	switch g.tool {
	case ToolPen, ToolMarker, ToolEraser:
		g.points = append(g.points, draw.Point{X: x, Y: y})
		g.thicknesses = append(g.thicknesses, s.pointThickness())
	}
	s.markProvisionalDirty(s.drawingBounds(g, x, y))
}

// maybePromotePendingClick turns a held press on a text shape into a normal
// drawing gesture once the pointer travels past the drag threshold.
func (s *State) maybePromotePendingClick(g *pendingTextClickGesture, x, y int) {
	dx, dy := x-g.x, y-g.y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx <= textClickDragThreshold && dy <= textClickDragThreshold {
		return
	}
	drawing := &drawingGesture{
		tool:        g.tool,
		startX:      g.x,
		startY:      g.y,
		points:      []draw.Point{{X: g.x, Y: g.y}},
		thicknesses: []float32{s.pointThickness()},
	}
	switch g.tool {
	case ToolPen, ToolMarker, ToolEraser:
		drawing.points = append(drawing.points, draw.Point{X: x, Y: y})
		drawing.thicknesses = append(drawing.thicknesses, s.pointThickness())
	}
	s.gesture = drawing
	s.lastTextClick = nil
	s.markProvisionalDirty(s.drawingBounds(drawing, x, y))
}
