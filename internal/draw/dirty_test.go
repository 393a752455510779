package draw_test

import (
	"testing"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

func TestDirtyTrackerStartsFull(t *testing.T) {
	tr := draw.NewDirtyTracker()
	set := tr.Take()
	if !set.Full {
		t.Error("first take should be a full repaint")
	}
	if !tr.IsEmpty() {
		t.Error("tracker not clean after take")
	}
}

func TestDirtyTrackerAccumulatesRects(t *testing.T) {
	tr := draw.NewDirtyTracker()
	tr.Take()

	tr.MarkRect(geom.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	tr.MarkRect(geom.Rect{X: 50, Y: 50, Width: 5, Height: 5})
	tr.MarkRect(geom.Rect{X: 1, Y: 1, Width: 0, Height: 7}) // degenerate, ignored

	set := tr.Take()
	if set.Full {
		t.Fatal("unexpected full repaint")
	}
	if len(set.Regions) != 2 {
		t.Fatalf("region count: got %d, want 2", len(set.Regions))
	}
	if !tr.IsEmpty() {
		t.Error("tracker not clean after take")
	}
}

func TestDirtyTrackerFullSwallowsRects(t *testing.T) {
	tr := draw.NewDirtyTracker()
	tr.Take()

	tr.MarkRect(geom.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	tr.MarkFull()
	tr.MarkRect(geom.Rect{X: 5, Y: 5, Width: 10, Height: 10})

	set := tr.Take()
	if !set.Full || len(set.Regions) != 0 {
		t.Errorf("take after MarkFull: %+v", set)
	}
}

func TestDirtyTrackerCollapsesWhenOverflowing(t *testing.T) {
	tr := draw.NewDirtyTracker()
	tr.Take()
	for i := 0; i < 100; i++ {
		tr.MarkRect(geom.Rect{X: i * 10, Y: 0, Width: 5, Height: 5})
	}
	set := tr.Take()
	if !set.Full {
		t.Error("overflowing region list should collapse to a full repaint")
	}
}

func TestDirtyTrackerMarkShape(t *testing.T) {
	tr := draw.NewDirtyTracker()
	tr.Take()

	tr.MarkShape(draw.Line{X1: 0, Y1: 0, X2: 10, Y2: 10, Color: draw.Red, Thick: 2})
	set := tr.Take()
	if set.Full || len(set.Regions) != 1 {
		t.Fatalf("mark shape: %+v", set)
	}

	// A shape without bounds falls back to full damage.
	tr.MarkShape(draw.Freehand{Color: draw.Red, Thick: 2})
	if set := tr.Take(); !set.Full {
		t.Error("boundless shape should force full damage")
	}
}
