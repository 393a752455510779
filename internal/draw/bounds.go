package draw

import (
	"math"

	"github.com/wayscriber/wayscriber/internal/geom"
)

// BoundingBox returns the axis-aligned bounding box of a shape, inflated to
// cover its stroke width. Degenerate shapes collapse to a rectangle of at
// least 1x1 around the single point. Returns false only when the shape has no
// drawable area at all (for example an empty polyline).
func BoundingBox(s Shape) (geom.Rect, bool) {
	switch v := s.(type) {
	case Freehand:
		return pointsBounds(v.Points, v.Thick)
	case FreehandPressure:
		return pressureBounds(v.Points)
	case Line:
		return segmentBounds(v.X1, v.Y1, v.X2, v.Y2, v.Thick)
	case Rect:
		return segmentBounds(v.X, v.Y, v.X+v.W, v.Y+v.H, v.Thick)
	case Ellipse:
		return segmentBounds(v.CX-v.RX, v.CY-v.RY, v.CX+v.RX, v.CY+v.RY, v.Thick)
	case Arrow:
		return arrowBounds(v)
	case Text:
		return textBounds(v.X, v.Y, v.Text, v.Size, v.Font, v.Background, v.WrapWidth)
	case StickyNote:
		return stickyNoteBounds(v.X, v.Y, v.Text, v.Size, v.Font, v.WrapWidth)
	case Marker:
		return pointsBounds(v.Points, markerInflate(v.Thick))
	case Eraser:
		return eraserBounds(v.Points, v.Brush.Size)
	case StepMarker:
		return stepMarkerBounds(v.X, v.Y, v.Label)
	default:
		return geom.Rect{}, false
	}
}

// strokePadding is ceil(thick/2) with a 1 px floor, the inflation applied on
// every side of a stroked shape.
func strokePadding(thick float64) int {
	pad := int(math.Ceil(thick / 2))
	if pad < 1 {
		pad = 1
	}
	return pad
}

// positiveRect widens zero-width or zero-height spans to one pixel so every
// drawable shape yields a usable damage rectangle.
func positiveRect(minX, minY, maxX, maxY int) (geom.Rect, bool) {
	if minX == maxX {
		maxX++
	}
	if minY == maxY {
		maxY++
	}
	return geom.FromMinMax(minX, minY, maxX, maxY)
}

func positiveRectF(minX, minY, maxX, maxY float64) (geom.Rect, bool) {
	return positiveRect(
		int(math.Floor(minX)),
		int(math.Floor(minY)),
		int(math.Ceil(maxX)),
		int(math.Ceil(maxY)),
	)
}

func pointsBounds(points []Point, thick float64) (geom.Rect, bool) {
	if len(points) == 0 {
		return geom.Rect{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	pad := strokePadding(thick)
	return positiveRect(minX-pad, minY-pad, maxX+pad, maxY+pad)
}

func pressureBounds(points []PressurePoint) (geom.Rect, bool) {
	if len(points) == 0 {
		return geom.Rect{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	var maxThick float32
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
		if p.Thick > maxThick {
			maxThick = p.Thick
		}
	}
	pad := int(maxThick) / 2
	if pad < 1 {
		pad = 1
	}
	return positiveRect(minX-pad, minY-pad, maxX+pad, maxY+pad)
}

func segmentBounds(x1, y1, x2, y2 int, thick float64) (geom.Rect, bool) {
	pad := strokePadding(thick)
	return positiveRect(
		min(x1, x2)-pad,
		min(y1, y2)-pad,
		max(x1, x2)+pad,
		max(y1, y2)+pad,
	)
}

func arrowBounds(a Arrow) (geom.Rect, bool) {
	tipX, tipY, tailX, tailY := a.X1, a.Y1, a.X2, a.Y2
	if a.HeadAtEnd {
		tipX, tipY, tailX, tailY = a.X2, a.Y2, a.X1, a.Y1
	}

	minX := float64(min(tipX, tailX))
	maxX := float64(max(tipX, tailX))
	minY := float64(min(tipY, tailY))
	maxY := float64(max(tipY, tailY))

	if head, ok := geom.Arrowhead(tipX, tipY, tailX, tailY, a.Thick, a.ArrowLength, a.ArrowAngle); ok {
		minX = math.Min(minX, math.Min(head.Left[0], head.Right[0]))
		maxX = math.Max(maxX, math.Max(head.Left[0], head.Right[0]))
		minY = math.Min(minY, math.Min(head.Left[1], head.Right[1]))
		maxY = math.Max(maxY, math.Max(head.Left[1], head.Right[1]))
	}

	if a.Label != nil {
		if box, ok := arrowLabelBounds(tipX, tipY, tailX, tailY, a.Thick, a.Label); ok {
			minX = math.Min(minX, float64(box.X))
			minY = math.Min(minY, float64(box.Y))
			maxX = math.Max(maxX, float64(box.MaxX()))
			maxY = math.Max(maxY, float64(box.MaxY()))
		}
	}

	pad := float64(strokePadding(a.Thick))
	return positiveRectF(minX-pad, minY-pad, maxX+pad, maxY+pad)
}

func eraserBounds(points []Point, diameter float64) (geom.Rect, bool) {
	if diameter < 1 {
		diameter = 1
	}
	return pointsBounds(points, diameter)
}
