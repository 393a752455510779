package input

import (
	"math"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// Selection handle geometry.
const (
	handleSize      = 8
	handleTolerance = 4
	minResizeExtent = 10.0
)

// hitSelectionHandle reports which resize handle of the selection halo the
// point lands on. Corners win over edges.
func (s *State) hitSelectionHandle(x, y int) (SelectionHandle, geom.Rect, bool) {
	bounds, ok := s.movableSelectionBounds()
	if !ok {
		return 0, geom.Rect{}, false
	}
	halo, ok := bounds.Inflated(selectionHaloPadding)
	if !ok {
		return 0, geom.Rect{}, false
	}
	half := handleSize/2 + handleTolerance
	corners := []struct {
		handle SelectionHandle
		cx     int
		cy     int
	}{
		{HandleTopLeft, halo.X, halo.Y},
		{HandleTopRight, halo.MaxX(), halo.Y},
		{HandleBottomLeft, halo.X, halo.MaxY()},
		{HandleBottomRight, halo.MaxX(), halo.MaxY()},
	}
	for _, c := range corners {
		if pointNear(x, y, c.cx, c.cy, half) {
			return c.handle, bounds, true
		}
	}
	edgeHalf := handleSize/2 - 1 + handleTolerance
	midX := halo.X + halo.Width/2
	midY := halo.Y + halo.Height/2
	edges := []struct {
		handle SelectionHandle
		cx     int
		cy     int
	}{
		{HandleTop, midX, halo.Y},
		{HandleBottom, midX, halo.MaxY()},
		{HandleLeft, halo.X, midY},
		{HandleRight, halo.MaxX(), midY},
	}
	for _, e := range edges {
		if pointNear(x, y, e.cx, e.cy, edgeHalf) {
			return e.handle, bounds, true
		}
	}
	return 0, geom.Rect{}, false
}

// pointNear is a chebyshev proximity test, matching the square handles.
func pointNear(x, y, cx, cy, half int) bool {
	dx, dy := x-cx, y-cy
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= half && dy <= half
}

// resizeAnchor returns the fixed point of the original bounds for a handle:
// the opposite corner or edge midline.
func resizeAnchor(handle SelectionHandle, bounds geom.Rect) (float64, float64) {
	switch handle {
	case HandleTopLeft:
		return float64(bounds.MaxX()), float64(bounds.MaxY())
	case HandleTopRight:
		return float64(bounds.X), float64(bounds.MaxY())
	case HandleBottomLeft:
		return float64(bounds.MaxX()), float64(bounds.Y)
	case HandleBottomRight:
		return float64(bounds.X), float64(bounds.Y)
	case HandleTop:
		return float64(bounds.X), float64(bounds.MaxY())
	case HandleBottom:
		return float64(bounds.X), float64(bounds.Y)
	case HandleLeft:
		return float64(bounds.MaxX()), float64(bounds.Y)
	default: // HandleRight
		return float64(bounds.X), float64(bounds.Y)
	}
}

// computeScaleFactors derives per-axis scale factors from dragging a handle
// to (x, y), holding the opposite side fixed. New extents are floored at
// minResizeExtent, and edge handles scale one axis only.
func computeScaleFactors(handle SelectionHandle, bounds geom.Rect, x, y int) (sx, sy float64) {
	sx, sy = 1, 1
	w, h := float64(bounds.Width), float64(bounds.Height)
	if w <= 0 || h <= 0 {
		return
	}
	anchorX, anchorY := resizeAnchor(handle, bounds)
	scalesX := handle != HandleTop && handle != HandleBottom
	scalesY := handle != HandleLeft && handle != HandleRight
	if scalesX {
		newW := math.Abs(float64(x) - anchorX)
		if newW < minResizeExtent {
			newW = minResizeExtent
		}
		sx = newW / w
	}
	if scalesY {
		newH := math.Abs(float64(y) - anchorY)
		if newH < minResizeExtent {
			newH = minResizeExtent
		}
		sy = newH / h
	}
	return
}

// scalePoint maps a point through the scale about the anchor.
func scalePoint(x, y int, anchorX, anchorY, sx, sy float64) (int, int) {
	nx := anchorX + (float64(x)-anchorX)*sx
	ny := anchorY + (float64(y)-anchorY)*sy
	return int(math.Round(nx)), int(math.Round(ny))
}

// scaleShape returns the shape resized about the anchor. Text shapes and
// step markers keep their size and only move with their anchor point.
func scaleShape(shape draw.Shape, anchorX, anchorY, sx, sy float64) draw.Shape {
	switch v := shape.(type) {
	case draw.Freehand:
		v.Points = scalePoints(v.Points, anchorX, anchorY, sx, sy)
		return v
	case draw.FreehandPressure:
		points := make([]draw.PressurePoint, len(v.Points))
		for i, p := range v.Points {
			x, y := scalePoint(p.X, p.Y, anchorX, anchorY, sx, sy)
			points[i] = draw.PressurePoint{X: x, Y: y, Thick: p.Thick}
		}
		v.Points = points
		return v
	case draw.Marker:
		v.Points = scalePoints(v.Points, anchorX, anchorY, sx, sy)
		return v
	case draw.Eraser:
		v.Points = scalePoints(v.Points, anchorX, anchorY, sx, sy)
		return v
	case draw.Line:
		v.X1, v.Y1 = scalePoint(v.X1, v.Y1, anchorX, anchorY, sx, sy)
		v.X2, v.Y2 = scalePoint(v.X2, v.Y2, anchorX, anchorY, sx, sy)
		return v
	case draw.Arrow:
		v.X1, v.Y1 = scalePoint(v.X1, v.Y1, anchorX, anchorY, sx, sy)
		v.X2, v.Y2 = scalePoint(v.X2, v.Y2, anchorX, anchorY, sx, sy)
		return v
	case draw.Rect:
		x1, y1 := scalePoint(v.X, v.Y, anchorX, anchorY, sx, sy)
		x2, y2 := scalePoint(v.X+v.W, v.Y+v.H, anchorX, anchorY, sx, sy)
		v.X, v.Y = x1, y1
		v.W, v.H = max(x2-x1, 1), max(y2-y1, 1)
		return v
	case draw.Ellipse:
		v.CX, v.CY = scalePoint(v.CX, v.CY, anchorX, anchorY, sx, sy)
		v.RX = max(int(math.Round(float64(v.RX)*sx)), 1)
		v.RY = max(int(math.Round(float64(v.RY)*sy)), 1)
		return v
	case draw.Text:
		v.X, v.Y = scalePoint(v.X, v.Y, anchorX, anchorY, sx, sy)
		return v
	case draw.StickyNote:
		v.X, v.Y = scalePoint(v.X, v.Y, anchorX, anchorY, sx, sy)
		return v
	case draw.StepMarker:
		v.X, v.Y = scalePoint(v.X, v.Y, anchorX, anchorY, sx, sy)
		return v
	}
	return shape
}

func scalePoints(points []draw.Point, anchorX, anchorY, sx, sy float64) []draw.Point {
	out := make([]draw.Point, len(points))
	for i, p := range points {
		x, y := scalePoint(p.X, p.Y, anchorX, anchorY, sx, sy)
		out[i] = draw.Point{X: x, Y: y}
	}
	return out
}

// applySelectionResize rescales every snapshotted shape from its original
// state to the drag position. Working from the snapshots keeps the resize
// lossless while the pointer moves.
func (s *State) applySelectionResize(g *resizingSelectionGesture, x, y int) {
	sx, sy := computeScaleFactors(g.handle, g.bounds, x, y)
	anchorX, anchorY := resizeAnchor(g.handle, g.bounds)
	frame := s.boards.ActiveFrame()
	for _, pair := range g.snapshots {
		drawn, ok := frame.Shape(pair.id)
		if !ok {
			continue
		}
		s.dirty.MarkShape(drawn.Shape)
		drawn.Shape = scaleShape(pair.snapshot.Shape, anchorX, anchorY, sx, sy)
		s.dirty.MarkShape(drawn.Shape)
		s.invalidateHitCacheFor(pair.id)
	}
	s.needsRedraw = true
}
