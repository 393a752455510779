// Package geom provides the integer-pixel geometry primitives shared by the
// drawing model, hit testing, and damage tracking.
package geom

// Rect is an axis-aligned rectangle in surface-local integer pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FromMinMax builds a rectangle from two corners. Returns false when the
// resulting rectangle would have non-positive area.
func FromMinMax(minX, minY, maxX, maxY int) (Rect, bool) {
	if maxX <= minX || maxY <= minY {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int { return r.Y + r.Height }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Inflated grows the rectangle by pad pixels on every side. Returns false when
// a negative pad collapses the rectangle.
func (r Rect) Inflated(pad int) (Rect, bool) {
	return FromMinMax(r.X-pad, r.Y-pad, r.MaxX()+pad, r.MaxY()+pad)
}

// Translated shifts the rectangle by (dx, dy).
func (r Rect) Translated(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.MaxX(), other.MaxX())
	maxY := max(r.MaxY(), other.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.MaxX() && other.X < r.MaxX() &&
		r.Y < other.MaxY() && other.Y < r.MaxY()
}
