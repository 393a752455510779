package input

import (
	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// GestureKind labels the current gesture for renderers and tests.
type GestureKind string

// Gesture kinds.
const (
	GestureIdle              GestureKind = "idle"
	GestureDrawing           GestureKind = "drawing"
	GestureTextInput         GestureKind = "text_input"
	GesturePendingTextClick  GestureKind = "pending_text_click"
	GestureMovingSelection   GestureKind = "moving_selection"
	GestureSelecting         GestureKind = "selecting"
	GestureResizingText      GestureKind = "resizing_text"
	GestureResizingSelection GestureKind = "resizing_selection"
)

// gesture is the in-flight interaction, a tagged variant mirroring the
// drawing state machine.
type gesture interface {
	kind() GestureKind
}

type idleGesture struct{}

type drawingGesture struct {
	tool        Tool
	startX      int
	startY      int
	points      []draw.Point
	thicknesses []float32
}

type textInputGesture struct {
	x      int
	y      int
	buffer string
}

type pendingTextClickGesture struct {
	x       int
	y       int
	tool    Tool
	shapeId draw.ShapeId
}

type snapshotPair struct {
	id       draw.ShapeId
	snapshot draw.ShapeSnapshot
}

type movingSelectionGesture struct {
	lastX     int
	lastY     int
	snapshots []snapshotPair
	moved     bool
}

type selectingGesture struct {
	startX   int
	startY   int
	additive bool
}

type resizingTextGesture struct {
	shapeId  draw.ShapeId
	snapshot draw.ShapeSnapshot
	baseX    int
	size     float64
}

type resizingSelectionGesture struct {
	handle    SelectionHandle
	bounds    geom.Rect
	startX    int
	startY    int
	snapshots []snapshotPair
}

func (idleGesture) kind() GestureKind              { return GestureIdle }
func (*drawingGesture) kind() GestureKind          { return GestureDrawing }
func (*textInputGesture) kind() GestureKind        { return GestureTextInput }
func (*pendingTextClickGesture) kind() GestureKind { return GesturePendingTextClick }
func (*movingSelectionGesture) kind() GestureKind  { return GestureMovingSelection }
func (*selectingGesture) kind() GestureKind        { return GestureSelecting }
func (*resizingTextGesture) kind() GestureKind     { return GestureResizingText }
func (*resizingSelectionGesture) kind() GestureKind {
	return GestureResizingSelection
}

// SelectionHandle names a resize grab point on the selection bounds.
type SelectionHandle int

// Resize handles, corners first.
const (
	HandleTopLeft SelectionHandle = iota
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleTop
	HandleBottom
	HandleLeft
	HandleRight
)
