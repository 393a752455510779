package draw_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wayscriber/wayscriber/internal/draw"
)

func TestShapeRoundTrip(t *testing.T) {
	wrap := 240
	shapes := []draw.Shape{
		draw.Freehand{Points: []draw.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, Color: draw.Red, Thick: 2},
		draw.FreehandPressure{Points: []draw.PressurePoint{{X: 5, Y: 6, Thick: 1.5}}, Color: draw.Blue},
		draw.Line{X1: 0, Y1: 0, X2: 10, Y2: 10, Color: draw.Green, Thick: 3},
		draw.Rect{X: -4, Y: 2, W: 20, H: 8, Fill: true, Color: draw.White, Thick: 1},
		draw.Ellipse{CX: 50, CY: 60, RX: 7, RY: 9, Color: draw.Black, Thick: 2},
		draw.Arrow{
			X1: 0, Y1: 0, X2: 40, Y2: 0,
			Color: draw.Red, Thick: 2,
			ArrowLength: 20, ArrowAngle: 30, HeadAtEnd: true,
			Label: &draw.ArrowLabel{Value: 3, Size: 14, Font: draw.DefaultFont()},
		},
		draw.Text{
			X: 12, Y: 34, Text: "hello\nworld",
			Color: draw.Black, Size: 18, Font: draw.DefaultFont(),
			Background: true, WrapWidth: &wrap,
		},
		draw.StickyNote{
			X: 1, Y: 2, Text: "note",
			Background: draw.Color{R: 1, G: 0.9, B: 0.4, A: 1},
			Size:       16, Font: draw.DefaultFont(),
		},
		draw.Marker{Points: []draw.Point{{X: 0, Y: 0}, {X: 9, Y: 9}}, Color: draw.Red.WithAlpha(0.4), Thick: 12},
		draw.Eraser{Points: []draw.Point{{X: 2, Y: 2}}, Brush: draw.EraserBrush{Size: 24, Kind: draw.EraserCircle}},
		draw.StepMarker{X: 7, Y: 8, Color: draw.Blue, Label: draw.StepLabel{Value: 12, Size: 14, Font: draw.DefaultFont()}},
	}

	for _, shape := range shapes {
		t.Run(shape.Kind(), func(t *testing.T) {
			data, err := draw.MarshalShape(shape)
			if err != nil {
				t.Fatalf("MarshalShape: %v", err)
			}
			if !strings.Contains(string(data), `"kind":"`+shape.Kind()+`"`) {
				t.Errorf("encoded shape missing kind tag: %s", data)
			}
			decoded, err := draw.UnmarshalShape(data)
			if err != nil {
				t.Fatalf("UnmarshalShape: %v", err)
			}
			if diff := cmp.Diff(shape, decoded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPointWireFormat(t *testing.T) {
	data, err := json.Marshal(draw.Point{X: 3, Y: -7})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[3,-7]" {
		t.Errorf("point wire form: got %s, want [3,-7]", data)
	}

	var p draw.Point
	if err := json.Unmarshal([]byte("[11,22]"), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.X != 11 || p.Y != 22 {
		t.Errorf("decoded point: got %+v", p)
	}
}

func TestFrameRoundTripKeepsHistory(t *testing.T) {
	f := draw.NewFrame()
	f.SetPageName("intro")
	id := f.AddShape(draw.Line{X1: 0, Y1: 0, X2: 10, Y2: 10, Color: draw.Red, Thick: 2})
	index, _ := f.FindIndex(id)
	drawn, _ := f.Shape(id)
	f.PushUndoAction(draw.CreateAction{Shapes: []draw.IndexedShape{{Index: index, Shape: *drawn}}}, 0)

	before := drawn.Snapshot()
	drawn.Locked = true
	f.PushUndoAction(draw.ModifyAction{ShapeId: id, Before: before, After: drawn.Snapshot()}, 0)
	f.UndoLast()

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal frame: %v", err)
	}

	loaded := draw.NewFrame()
	if err := json.Unmarshal(data, loaded); err != nil {
		t.Fatalf("Unmarshal frame: %v", err)
	}

	if diff := cmp.Diff(f.Shapes(), loaded.Shapes()); diff != "" {
		t.Errorf("shapes (-want +got):\n%s", diff)
	}
	if loaded.UndoDepth() != f.UndoDepth() || loaded.RedoDepth() != f.RedoDepth() {
		t.Errorf("history depths: got %d/%d, want %d/%d",
			loaded.UndoDepth(), loaded.RedoDepth(), f.UndoDepth(), f.RedoDepth())
	}
	if loaded.PageName() != "intro" {
		t.Errorf("page name: got %q", loaded.PageName())
	}
	if loaded.NextShapeId() != f.NextShapeId() {
		t.Errorf("next id: got %d, want %d", loaded.NextShapeId(), f.NextShapeId())
	}

	// Replay must still work on the loaded copy.
	if _, ok := loaded.RedoLast(); !ok {
		t.Fatal("RedoLast on loaded frame failed")
	}
	shape, ok := loaded.Shape(id)
	if !ok || !shape.Locked {
		t.Errorf("redone modify lost on loaded frame: %+v", shape)
	}
}

func TestFrameDecodeDropsUnknownShapeKinds(t *testing.T) {
	payload := `{
		"shapes": [
			{"id": 1, "shape": {"kind": "hologram", "x": 1}, "created_at": 10},
			{"id": 2, "shape": {"kind": "line", "x1": 0, "y1": 0, "x2": 5, "y2": 5,
				"color": {"r": 1, "g": 0, "b": 0, "a": 1}, "thick": 2}, "created_at": 20}
		]
	}`
	f := draw.NewFrame()
	if err := json.Unmarshal([]byte(payload), f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.Len() != 1 {
		t.Fatalf("shape count: got %d, want 1 (unknown kind dropped)", f.Len())
	}
	if f.Shapes()[0].Id != 2 {
		t.Errorf("surviving shape id: got %d, want 2", f.Shapes()[0].Id)
	}
	if f.NextShapeId() != 3 {
		t.Errorf("next id rebuilt to %d, want 3", f.NextShapeId())
	}
}

func TestActionRoundTrip(t *testing.T) {
	drawn := draw.DrawnShape{
		Id:        7,
		Shape:     draw.Rect{X: 1, Y: 2, W: 3, H: 4, Color: draw.Green, Thick: 1},
		CreatedAt: 1234,
	}
	actions := []draw.UndoAction{
		draw.CreateAction{Shapes: []draw.IndexedShape{{Index: 0, Shape: drawn}}},
		draw.DeleteAction{Shapes: []draw.IndexedShape{{Index: 2, Shape: drawn}}},
		draw.ModifyAction{
			ShapeId: 7,
			Before:  draw.ShapeSnapshot{Shape: drawn.Shape},
			After:   draw.ShapeSnapshot{Shape: drawn.Shape, Locked: true},
		},
		draw.ReorderAction{ShapeId: 7, From: 1, To: 4},
		draw.CompoundAction{Actions: []draw.UndoAction{
			draw.ReorderAction{ShapeId: 7, From: 0, To: 1},
			draw.ModifyAction{
				ShapeId: 7,
				Before:  draw.ShapeSnapshot{Shape: drawn.Shape},
				After:   draw.ShapeSnapshot{Shape: drawn.Shape},
			},
		}},
	}

	for _, action := range actions {
		data, err := draw.MarshalAction(action)
		if err != nil {
			t.Fatalf("MarshalAction(%T): %v", action, err)
		}
		decoded, err := draw.UnmarshalAction(data)
		if err != nil {
			t.Fatalf("UnmarshalAction(%T): %v", action, err)
		}
		if diff := cmp.Diff(action, decoded); diff != "" {
			t.Errorf("%T round trip (-want +got):\n%s", action, diff)
		}
	}
}
