// Package draw holds the annotation model: shapes, frames, undo history,
// board pages, and the damage tracker. It is pure data plus bookkeeping; all
// rasterisation happens outside the engine.
package draw

import (
	"encoding/json"
	"fmt"
)

// Point is a surface-local pixel coordinate. It serialises as a two-element
// array to keep the session format compact.
type Point struct {
	X int
	Y int
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

// PressurePoint is a point with a per-sample stroke thickness, serialised as
// [x, y, thickness].
type PressurePoint struct {
	X     int
	Y     int
	Thick float32
}

// MarshalJSON encodes the point as [x, y, thickness].
func (p PressurePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{p.X, p.Y, p.Thick})
}

// UnmarshalJSON decodes [x, y, thickness].
func (p *PressurePoint) UnmarshalJSON(data []byte) error {
	var arr [3]json.Number
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("pressure point: %w", err)
	}
	x, err := arr[0].Int64()
	if err != nil {
		return fmt.Errorf("pressure point x: %w", err)
	}
	y, err := arr[1].Int64()
	if err != nil {
		return fmt.Errorf("pressure point y: %w", err)
	}
	t, err := arr[2].Float64()
	if err != nil {
		return fmt.Errorf("pressure point thickness: %w", err)
	}
	p.X, p.Y, p.Thick = int(x), int(y), float32(t)
	return nil
}

// EraserKind is the brush outline used by eraser strokes.
type EraserKind string

// Eraser brush shapes.
const (
	EraserCircle EraserKind = "circle"
	EraserRect   EraserKind = "rect"
)

// EraserBrush describes the eraser footprint.
type EraserBrush struct {
	Size float64    `json:"size"`
	Kind EraserKind `json:"kind"`
}

// ArrowLabel is the optional numeric label drawn near an arrow.
type ArrowLabel struct {
	Value uint32         `json:"value"`
	Size  float64        `json:"size"`
	Font  FontDescriptor `json:"font"`
}

// StepLabel is the number plus font of a step-marker bubble.
type StepLabel struct {
	Value uint32         `json:"value"`
	Size  float64        `json:"size"`
	Font  FontDescriptor `json:"font"`
}

// Shape is the tagged variant for every drawable primitive. Dispatch is a
// type switch on the concrete type; see BoundingBox and the wire codec.
type Shape interface {
	// Kind returns the stable tag used on the wire and in user-facing labels.
	Kind() string
	isShape()
}

// Freehand is a polyline traced by the pointer.
type Freehand struct {
	Points []Point `json:"points"`
	Color  Color   `json:"color"`
	Thick  float64 `json:"thick"`
}

// FreehandPressure is a polyline with per-point thickness from a stylus.
type FreehandPressure struct {
	Points []PressurePoint `json:"points"`
	Color  Color           `json:"color"`
}

// Line is a straight segment between two points.
type Line struct {
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Color Color   `json:"color"`
	Thick float64 `json:"thick"`
}

// Rect is an axis-aligned rectangle outline or filled box.
type Rect struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	W     int     `json:"w"`
	H     int     `json:"h"`
	Fill  bool    `json:"fill"`
	Color Color   `json:"color"`
	Thick float64 `json:"thick"`
}

// Ellipse is centred at (CX, CY) with the given radii.
type Ellipse struct {
	CX    int     `json:"cx"`
	CY    int     `json:"cy"`
	RX    int     `json:"rx"`
	RY    int     `json:"ry"`
	Fill  bool    `json:"fill"`
	Color Color   `json:"color"`
	Thick float64 `json:"thick"`
}

// Arrow is a segment with a triangular head and an optional numeric label.
// When HeadAtEnd is true the head sits at (X2, Y2), otherwise at (X1, Y1).
type Arrow struct {
	X1          int         `json:"x1"`
	Y1          int         `json:"y1"`
	X2          int         `json:"x2"`
	Y2          int         `json:"y2"`
	Color       Color       `json:"color"`
	Thick       float64     `json:"thick"`
	ArrowLength float64     `json:"arrow_length"`
	ArrowAngle  float64     `json:"arrow_angle"`
	HeadAtEnd   bool        `json:"head_at_end"`
	Label       *ArrowLabel `json:"label,omitempty"`
}

// Text is an annotation anchored at its baseline origin.
type Text struct {
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Text       string         `json:"text"`
	Color      Color          `json:"color"`
	Size       float64        `json:"size"`
	Font       FontDescriptor `json:"font"`
	Background bool           `json:"background_enabled"`
	WrapWidth  *int           `json:"wrap_width,omitempty"`
}

// StickyNote is text over a filled background card.
type StickyNote struct {
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Text       string         `json:"text"`
	Background Color          `json:"background"`
	Size       float64        `json:"size"`
	Font       FontDescriptor `json:"font"`
	WrapWidth  *int           `json:"wrap_width,omitempty"`
}

// Marker is a translucent highlighter stroke.
type Marker struct {
	Points []Point `json:"points"`
	Color  Color   `json:"color"`
	Thick  float64 `json:"thick"`
}

// Eraser is a brush stroke that the renderer treats as erasing ink. At the
// model layer it behaves like any other shape.
type Eraser struct {
	Points []Point     `json:"points"`
	Brush  EraserBrush `json:"brush"`
}

// StepMarker is a numbered bubble.
type StepMarker struct {
	X     int       `json:"x"`
	Y     int       `json:"y"`
	Color Color     `json:"color"`
	Label StepLabel `json:"label"`
}

func (Freehand) isShape()         {}
func (FreehandPressure) isShape() {}
func (Line) isShape()             {}
func (Rect) isShape()             {}
func (Ellipse) isShape()          {}
func (Arrow) isShape()            {}
func (Text) isShape()             {}
func (StickyNote) isShape()       {}
func (Marker) isShape()           {}
func (Eraser) isShape()           {}
func (StepMarker) isShape()       {}

// Kind implementations double as the wire tags; keep them stable.
func (Freehand) Kind() string         { return "freehand" }
func (FreehandPressure) Kind() string { return "freehand_pressure" }
func (Line) Kind() string             { return "line" }
func (Rect) Kind() string             { return "rect" }
func (Ellipse) Kind() string          { return "ellipse" }
func (Arrow) Kind() string            { return "arrow" }
func (Text) Kind() string             { return "text" }
func (StickyNote) Kind() string       { return "sticky_note" }
func (Marker) Kind() string           { return "marker" }
func (Eraser) Kind() string           { return "eraser" }
func (StepMarker) Kind() string       { return "step_marker" }

// KindName returns a human-readable label for toolbar and toast text.
func KindName(s Shape) string {
	switch s.(type) {
	case Freehand, FreehandPressure:
		return "Freehand"
	case Line:
		return "Line"
	case Rect:
		return "Rectangle"
	case Ellipse:
		return "Ellipse"
	case Arrow:
		return "Arrow"
	case Text:
		return "Text"
	case StickyNote:
		return "Sticky Note"
	case Marker:
		return "Marker"
	case Eraser:
		return "Eraser"
	case StepMarker:
		return "Step Marker"
	default:
		return "Shape"
	}
}

// Translate returns a copy of the shape shifted by (dx, dy).
func Translate(s Shape, dx, dy int) Shape {
	switch v := s.(type) {
	case Freehand:
		v.Points = translatePoints(v.Points, dx, dy)
		return v
	case FreehandPressure:
		pts := make([]PressurePoint, len(v.Points))
		for i, p := range v.Points {
			pts[i] = PressurePoint{X: p.X + dx, Y: p.Y + dy, Thick: p.Thick}
		}
		v.Points = pts
		return v
	case Line:
		v.X1 += dx
		v.Y1 += dy
		v.X2 += dx
		v.Y2 += dy
		return v
	case Rect:
		v.X += dx
		v.Y += dy
		return v
	case Ellipse:
		v.CX += dx
		v.CY += dy
		return v
	case Arrow:
		v.X1 += dx
		v.Y1 += dy
		v.X2 += dx
		v.Y2 += dy
		return v
	case Text:
		v.X += dx
		v.Y += dy
		return v
	case StickyNote:
		v.X += dx
		v.Y += dy
		return v
	case Marker:
		v.Points = translatePoints(v.Points, dx, dy)
		return v
	case Eraser:
		v.Points = translatePoints(v.Points, dx, dy)
		return v
	case StepMarker:
		v.X += dx
		v.Y += dy
		return v
	default:
		return s
	}
}

func translatePoints(points []Point, dx, dy int) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// markerInflate widens marker strokes so the translucent ink halo is covered
// by damage and hit regions.
func markerInflate(thick float64) float64 {
	inflated := thick * 1.35
	if min := thick + 1.0; inflated < min {
		inflated = min
	}
	return inflated
}
