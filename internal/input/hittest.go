package input

import (
	"math"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

const ellipseRadiusEpsilon = 1e-6

// hitBounds is a cached coarse bound: the shape's bounding box inflated by
// the hit tolerance. valid is false for shapes without pickable area.
type hitBounds struct {
	rect  geom.Rect
	valid bool
}

// hitBoundsFor returns the coarse bound for a shape, consulting the cache.
func (s *State) hitBoundsFor(id draw.ShapeId, shape draw.Shape) (geom.Rect, bool) {
	if cached, ok := s.hitCache[id]; ok {
		return cached.rect, cached.valid
	}
	b, ok := computeHitBounds(shape, s.hitTolerance)
	s.hitCache[id] = hitBounds{rect: b, valid: ok}
	return b, ok
}

func computeHitBounds(shape draw.Shape, tolerance float64) (geom.Rect, bool) {
	if _, isEraser := shape.(draw.Eraser); isEraser {
		return geom.Rect{}, false
	}
	b, ok := draw.BoundingBox(shape)
	if !ok {
		return geom.Rect{}, false
	}
	return b.Inflated(int(math.Ceil(tolerance)))
}

// invalidateHitCache drops all cached bounds and the spatial grid.
func (s *State) invalidateHitCache() {
	s.hitCache = make(map[draw.ShapeId]hitBounds)
	s.grid = nil
}

// invalidateHitCacheFor drops one shape's cached bounds.
func (s *State) invalidateHitCacheFor(id draw.ShapeId) {
	delete(s.hitCache, id)
	if s.grid != nil {
		s.grid.remove(id)
	}
}

// hitTestAt returns the topmost shape under (x, y), honouring the hit
// tolerance. Eraser strokes are transparent to picking.
func (s *State) hitTestAt(x, y int) (draw.ShapeId, bool) {
	frame := s.boards.ActiveFrame()
	shapes := frame.Shapes()
	if len(shapes) <= s.linearHitLimit {
		for i := len(shapes) - 1; i >= 0; i-- {
			if s.shapeHit(&shapes[i], x, y) {
				return shapes[i].Id, true
			}
		}
		return 0, false
	}
	if s.grid == nil || s.grid.needsRebuild() {
		s.rebuildGrid()
	}
	candidates := s.grid.candidates(x, y, s.hitTolerance)
	for i := len(shapes) - 1; i >= 0; i-- {
		if _, ok := candidates[shapes[i].Id]; !ok {
			continue
		}
		if s.shapeHit(&shapes[i], x, y) {
			return shapes[i].Id, true
		}
	}
	return 0, false
}

// hitTestAllForPoints collects every shape touched by any sample point within
// radius. Used by stroke-mode erasing.
func (s *State) hitTestAllForPoints(points []draw.Point, radius float64) []draw.ShapeId {
	frame := s.boards.ActiveFrame()
	shapes := frame.Shapes()
	var out []draw.ShapeId
	seen := make(map[draw.ShapeId]struct{})
	for i := range shapes {
		drawn := &shapes[i]
		bounds, ok := s.hitBoundsFor(drawn.Id, drawn.Shape)
		if !ok {
			continue
		}
		pad := int(math.Ceil(radius))
		inflated, ok := bounds.Inflated(pad)
		if !ok {
			continue
		}
		for _, p := range points {
			if !inflated.Contains(p.X, p.Y) {
				continue
			}
			if s.shapeHitWithin(drawn, p.X, p.Y, radius) {
				if _, dup := seen[drawn.Id]; !dup {
					seen[drawn.Id] = struct{}{}
					out = append(out, drawn.Id)
				}
				break
			}
		}
	}
	return out
}

func (s *State) shapeHit(drawn *draw.DrawnShape, x, y int) bool {
	bounds, ok := s.hitBoundsFor(drawn.Id, drawn.Shape)
	if !ok || !bounds.Contains(x, y) {
		return false
	}
	return preciseHit(drawn.Shape, x, y, s.hitTolerance)
}

func (s *State) shapeHitWithin(drawn *draw.DrawnShape, x, y int, radius float64) bool {
	return preciseHit(drawn.Shape, x, y, max(s.hitTolerance, radius))
}

func preciseHit(shape draw.Shape, x, y int, tol float64) bool {
	px, py := float64(x), float64(y)
	switch v := shape.(type) {
	case draw.Freehand:
		return polylineHit(v.Points, px, py, strokePickRadius(tol, v.Thick))
	case draw.FreehandPressure:
		return pressureHit(v.Points, px, py, tol)
	case draw.Marker:
		effective := max(v.Thick*1.35, v.Thick+1)
		return polylineHit(v.Points, px, py, strokePickRadius(tol, effective))
	case draw.Line:
		return segmentDistance(px, py, float64(v.X1), float64(v.Y1), float64(v.X2), float64(v.Y2)) <= strokePickRadius(tol, v.Thick)
	case draw.Rect:
		return rectHit(v, px, py, tol)
	case draw.Ellipse:
		return ellipseHit(v, px, py, tol)
	case draw.Arrow:
		return arrowHit(v, px, py, tol)
	case draw.Text, draw.StickyNote, draw.StepMarker:
		b, ok := draw.BoundingBox(shape)
		if !ok {
			return false
		}
		inflated, ok := b.Inflated(int(math.Ceil(tol)))
		return ok && inflated.Contains(x, y)
	case draw.Eraser:
		return false
	}
	return false
}

// strokePickRadius widens picking for thick strokes without shrinking it for
// thin ones.
func strokePickRadius(tol, thick float64) float64 {
	return max(tol, thick/2)
}

func polylineHit(points []draw.Point, px, py, radius float64) bool {
	if len(points) == 0 {
		return false
	}
	if len(points) == 1 {
		return math.Hypot(px-float64(points[0].X), py-float64(points[0].Y)) <= radius
	}
	for i := 1; i < len(points); i++ {
		d := segmentDistance(px, py,
			float64(points[i-1].X), float64(points[i-1].Y),
			float64(points[i].X), float64(points[i].Y))
		if d <= radius {
			return true
		}
	}
	return false
}

func pressureHit(points []draw.PressurePoint, px, py, tol float64) bool {
	if len(points) == 0 {
		return false
	}
	if len(points) == 1 {
		radius := strokePickRadius(tol, float64(points[0].Thick))
		return math.Hypot(px-float64(points[0].X), py-float64(points[0].Y)) <= radius
	}
	for i := 1; i < len(points); i++ {
		thick := max(float64(points[i-1].Thick), float64(points[i].Thick))
		d := segmentDistance(px, py,
			float64(points[i-1].X), float64(points[i-1].Y),
			float64(points[i].X), float64(points[i].Y))
		if d <= strokePickRadius(tol, thick) {
			return true
		}
	}
	return false
}

func rectHit(r draw.Rect, px, py, tol float64) bool {
	x1, y1 := float64(r.X), float64(r.Y)
	x2, y2 := float64(r.X+r.W), float64(r.Y+r.H)
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	pad := strokePickRadius(tol, r.Thick)
	if r.Fill {
		return px >= x1-pad && px <= x2+pad && py >= y1-pad && py <= y2+pad
	}
	// Degenerate rects collapse to a segment or point.
	if x2-x1 < 1 || y2-y1 < 1 {
		return segmentDistance(px, py, x1, y1, x2, y2) <= pad
	}
	inOuter := px >= x1-pad && px <= x2+pad && py >= y1-pad && py <= y2+pad
	inInner := px > x1+pad && px < x2-pad && py > y1+pad && py < y2-pad
	return inOuter && !inInner
}

func ellipseHit(e draw.Ellipse, px, py, tol float64) bool {
	rx, ry := float64(e.RX), float64(e.RY)
	cx, cy := float64(e.CX), float64(e.CY)
	pad := strokePickRadius(tol, e.Thick)
	if rx < ellipseRadiusEpsilon || ry < ellipseRadiusEpsilon {
		return math.Hypot(px-cx, py-cy) <= pad
	}
	dx, dy := px-cx, py-cy
	f := math.Hypot(dx/rx, dy/ry)
	if e.Fill {
		return f <= 1+pad/min(rx, ry)
	}
	// Approximate outline distance by scaling the normalised offset by the
	// smaller radius.
	return math.Abs(f-1)*min(rx, ry) <= pad
}

func arrowHit(a draw.Arrow, px, py, tol float64) bool {
	pad := strokePickRadius(tol, a.Thick)
	if segmentDistance(px, py, float64(a.X1), float64(a.Y1), float64(a.X2), float64(a.Y2)) <= pad {
		return true
	}
	tipX, tipY, tailX, tailY := a.X2, a.Y2, a.X1, a.Y1
	if !a.HeadAtEnd {
		tipX, tipY, tailX, tailY = a.X1, a.Y1, a.X2, a.Y2
	}
	head, ok := geom.Arrowhead(tipX, tipY, tailX, tailY, a.Thick, a.ArrowLength, a.ArrowAngle)
	if !ok {
		return false
	}
	return pointInTriangle(px, py,
		head.Tip[0], head.Tip[1], head.Left[0], head.Left[1], head.Right[0], head.Right[1])
}

func segmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}

func pointInTriangle(px, py, ax, ay, bx, by, cx, cy float64) bool {
	d1 := sign(px, py, ax, ay, bx, by)
	d2 := sign(px, py, bx, by, cx, cy)
	d3 := sign(px, py, cx, cy, ax, ay)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func sign(px, py, x1, y1, x2, y2 float64) float64 {
	return (px-x2)*(y1-y2) - (x1-x2)*(py-y2)
}
