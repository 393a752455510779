package input

import (
	"math"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// provisionalPadding covers stroke width plus anti-aliasing on previews.
const provisionalPadding = 4

// markProvisionalDirty damages both the previous preview region and the new
// one, keeping trails off the surface as the gesture moves.
func (s *State) markProvisionalDirty(r geom.Rect) {
	if s.lastProvisional != nil {
		s.dirty.MarkRect(*s.lastProvisional)
	}
	s.dirty.MarkRect(r)
	saved := r
	s.lastProvisional = &saved
	s.needsRedraw = true
}

// clearProvisionalDirty damages the final preview region and forgets it.
func (s *State) clearProvisionalDirty() {
	if s.lastProvisional != nil {
		s.dirty.MarkRect(*s.lastProvisional)
		s.lastProvisional = nil
		s.needsRedraw = true
	}
}

// drawingBounds is the preview region of an in-flight drawing gesture up to
// the current pointer position.
func (s *State) drawingBounds(g *drawingGesture, x, y int) geom.Rect {
	pad := int(math.Ceil(max(s.thickness, s.eraserSize)/2)) + provisionalPadding
	switch g.tool {
	case ToolPen, ToolMarker, ToolEraser:
		minX, minY, maxX, maxY := x, y, x, y
		for _, p := range g.points {
			minX, minY = min(minX, p.X), min(minY, p.Y)
			maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
		}
		return geom.Rect{
			X: minX - pad, Y: minY - pad,
			Width: maxX - minX + 2*pad, Height: maxY - minY + 2*pad,
		}
	case ToolArrow:
		pad += int(math.Ceil(s.arrowLength))
	}
	minX, minY := min(g.startX, x), min(g.startY, y)
	maxX, maxY := max(g.startX, x), max(g.startY, y)
	return geom.Rect{
		X: minX - pad, Y: minY - pad,
		Width: maxX - minX + 2*pad, Height: maxY - minY + 2*pad,
	}
}

// selectingBounds is the rubber-band rectangle between the gesture origin
// and the pointer, padded for the outline.
func selectingBounds(g *selectingGesture, x, y int) geom.Rect {
	minX, minY := min(g.startX, x), min(g.startY, y)
	maxX, maxY := max(g.startX, x), max(g.startY, y)
	return geom.Rect{
		X: minX - provisionalPadding, Y: minY - provisionalPadding,
		Width: maxX - minX + 2*provisionalPadding, Height: maxY - minY + 2*provisionalPadding,
	}
}

// markTextPreviewDirty damages the region the live text buffer renders into:
// the bounds the committed shape would have, inflated a glyph cell so the
// cursor block past the last glyph is covered too.
func (s *State) markTextPreviewDirty() {
	g, ok := s.gesture.(*textInputGesture)
	if !ok {
		return
	}
	var shape draw.Shape
	if s.textMode == textModeStickyNote {
		shape = draw.StickyNote{
			X: g.x, Y: g.y, Text: g.buffer,
			Size: s.fontSize, Font: s.font, WrapWidth: s.textWrapWidth,
		}
	} else {
		shape = draw.Text{
			X: g.x, Y: g.y, Text: g.buffer,
			Size: s.fontSize, Font: s.font,
			Background: s.textBackground, WrapWidth: s.textWrapWidth,
		}
	}
	cell := int(math.Ceil(s.fontSize))
	r := geom.Rect{X: g.x, Y: g.y - cell, Width: 1, Height: cell}
	if b, ok := draw.BoundingBox(shape); ok {
		r = b
	}
	if inflated, ok := r.Inflated(cell + provisionalPadding); ok {
		r = inflated
	}
	if s.lastTextPreview != nil {
		s.dirty.MarkRect(*s.lastTextPreview)
	}
	s.dirty.MarkRect(r)
	saved := r
	s.lastTextPreview = &saved
	s.needsRedraw = true
}

func (s *State) clearTextPreviewDirty() {
	if s.lastTextPreview != nil {
		s.dirty.MarkRect(*s.lastTextPreview)
		s.lastTextPreview = nil
		s.needsRedraw = true
	}
}

// markShapeDirtyById damages a shape's current bounds, reporting whether the
// shape was found on the active frame.
func (s *State) markShapeDirtyById(id draw.ShapeId) bool {
	drawn, ok := s.boards.ActiveFrame().Shape(id)
	if ok {
		s.dirty.MarkShape(drawn.Shape)
	}
	return ok
}
