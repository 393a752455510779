package draw

import "github.com/wayscriber/wayscriber/internal/geom"

// maxDirtyRegions caps the region list before collapsing to a full repaint.
// Past this point per-rect bookkeeping costs more than repainting everything.
const maxDirtyRegions = 32

// DirtyTracker accumulates the rectangles invalidated since the last paint.
// The renderer repaints the union of the taken set; at worst that is the
// whole surface.
type DirtyTracker struct {
	regions []geom.Rect
	full    bool
}

// NewDirtyTracker returns a tracker that starts fully dirty so the first
// paint covers the whole surface.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{full: true}
}

// MarkFull invalidates the entire surface.
func (t *DirtyTracker) MarkFull() {
	t.full = true
	t.regions = t.regions[:0]
}

// MarkRect invalidates one rectangle. Degenerate rects are ignored.
func (t *DirtyTracker) MarkRect(r geom.Rect) {
	if t.full || r.Width <= 0 || r.Height <= 0 {
		return
	}
	t.regions = append(t.regions, r)
	if len(t.regions) > maxDirtyRegions {
		t.MarkFull()
	}
}

// MarkShape invalidates a shape's bounding box, falling back to a full
// repaint for shapes without finite bounds.
func (t *DirtyTracker) MarkShape(s Shape) {
	if box, ok := BoundingBox(s); ok {
		t.MarkRect(box)
	} else {
		t.MarkFull()
	}
}

// IsEmpty reports whether nothing needs repainting.
func (t *DirtyTracker) IsEmpty() bool {
	return !t.full && len(t.regions) == 0
}

// RegionSet is the damage handed to the renderer for one paint. Full takes
// precedence over Regions.
type RegionSet struct {
	Full    bool
	Regions []geom.Rect
}

// Take drains the accumulated damage and resets the tracker to clean.
func (t *DirtyTracker) Take() RegionSet {
	set := RegionSet{Full: t.full, Regions: t.regions}
	if set.Full {
		set.Regions = nil
	}
	t.regions = nil
	t.full = false
	return set
}
