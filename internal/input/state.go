package input

import (
	"time"

	"github.com/wayscriber/wayscriber/internal/capture"
	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// Stroke thickness bounds shared by pen, marker, and eraser sizing.
const (
	MinStrokeThickness = 1.0
	MaxStrokeThickness = 50.0
)

// Font size clamp, matching configuration validation.
const (
	minFontSize = 8.0
	maxFontSize = 72.0
)

// Gesture tuning.
const (
	textClickDragThreshold  = 4
	textDoubleClickWindow   = 400 * time.Millisecond
	textDoubleClickDistance = 6
	selectionDragThreshold  = 4
	maxTextLength           = 10_000
)

// Defaults applied by Params.withDefaults.
const (
	defaultHitTestTolerance  = 6.0
	defaultLinearHitLimit    = 400
	defaultUndoStackLimit    = 100
	defaultPressureThreshold = 0.1
)

// Params configures a new engine state. Zero values fall back to the
// defaults the configuration layer would supply.
type Params struct {
	ScreenWidth  int
	ScreenHeight int

	Color         draw.Color
	Thickness     float64
	EraserSize    float64
	EraserKind    draw.EraserKind
	EraserMode    EraserMode
	MarkerOpacity float64
	FillEnabled   bool

	FontSize       float64
	Font           draw.FontDescriptor
	TextBackground bool

	ArrowLength    float64
	ArrowAngle     float64
	ArrowHeadAtEnd bool

	HitTestTolerance   float64
	LinearHitTestLimit int
	UndoStackLimit     int
	MaxShapesPerFrame  int

	PressureVariationThreshold float64

	UndoAllDelay time.Duration
	RedoAllDelay time.Duration

	Actions        ActionMap
	ClickHighlight ClickHighlightSettings
}

func (p Params) withDefaults() Params {
	if p.Thickness == 0 {
		p.Thickness = 3.0
	}
	if p.EraserSize == 0 {
		p.EraserSize = 12.0
	}
	if p.EraserKind == "" {
		p.EraserKind = draw.EraserCircle
	}
	if p.EraserMode == "" {
		p.EraserMode = EraserBrushMode
	}
	if p.MarkerOpacity == 0 {
		p.MarkerOpacity = 0.32
	}
	if p.FontSize == 0 {
		p.FontSize = 24.0
	}
	if p.Font == (draw.FontDescriptor{}) {
		p.Font = draw.DefaultFont()
	}
	if p.ArrowLength == 0 {
		p.ArrowLength = 20.0
	}
	if p.ArrowAngle == 0 {
		p.ArrowAngle = 30.0
	}
	if p.HitTestTolerance == 0 {
		p.HitTestTolerance = defaultHitTestTolerance
	}
	if p.LinearHitTestLimit == 0 {
		p.LinearHitTestLimit = defaultLinearHitLimit
	}
	if p.UndoStackLimit == 0 {
		p.UndoStackLimit = defaultUndoStackLimit
	}
	if p.PressureVariationThreshold == 0 {
		p.PressureVariationThreshold = defaultPressureThreshold
	}
	if p.UndoAllDelay == 0 {
		p.UndoAllDelay = 100 * time.Millisecond
	}
	if p.RedoAllDelay == 0 {
		p.RedoAllDelay = 100 * time.Millisecond
	}
	if p.Actions == nil {
		p.Actions = DefaultActionMap()
	}
	return p
}

// textEditTarget tracks the shape being re-edited through the text gesture.
type textEditTarget struct {
	id       draw.ShapeId
	snapshot draw.ShapeSnapshot
}

// textClick remembers the last single click on a text shape for double-click
// detection.
type textClick struct {
	shapeId draw.ShapeId
	x       int
	y       int
	at      time.Time
}

// textInputMode selects which shape the text gesture commits.
type textInputMode int

const (
	textModePlain textInputMode = iota
	textModeStickyNote
)

// State is the interaction engine. It owns the canvas set, selection, tool
// settings, gesture state, and the damage tracker, and is driven from one
// thread by abstract events plus poll calls.
type State struct {
	boards *draw.CanvasSet
	dirty  *draw.DirtyTracker

	screenWidth  int
	screenHeight int

	color          draw.Color
	thickness      float64
	eraserSize     float64
	eraserKind     draw.EraserKind
	eraserMode     EraserMode
	markerOpacity  float64
	fillEnabled    bool
	fontSize       float64
	font           draw.FontDescriptor
	textBackground bool
	arrowLength    float64
	arrowAngle     float64
	arrowHeadAtEnd bool
	showStatusBar  bool
	toolOverride   *Tool

	modifiers Modifiers
	gesture   gesture

	pointerX int
	pointerY int

	selection   []draw.ShapeId
	selectedSet map[draw.ShapeId]struct{}

	clipboard   []draw.ShapeSnapshot
	pasteSerial int

	hitTolerance      float64
	linearHitLimit    int
	undoLimit         int
	maxShapes         int
	hitCache          map[draw.ShapeId]hitBounds
	grid              *spatialGrid
	pressureThreshold float64
	lastPressure      float32
	hasPressure       bool

	labelCounter uint32
	stepCounter  uint32

	textMode        textInputMode
	textEdit        *textEditTarget
	textWrapWidth   *int
	lastTextClick   *textClick
	lastProvisional *geom.Rect
	lastTextPreview *geom.Rect

	pendingHistory *delayedHistory
	undoAllDelay   time.Duration
	redoAllDelay   time.Duration

	toast          *Toast
	blockedSince   time.Time
	hasBlocked     bool
	clickHighlight *ClickHighlight

	pendingCapture *capture.Request
	zoomRequested  bool

	actions ActionMap

	needsRedraw  bool
	sessionDirty bool
	shouldExit   bool

	now func() time.Time
}

// NewState builds an engine around an existing canvas set.
func NewState(boards *draw.CanvasSet, params Params) *State {
	p := params.withDefaults()
	highlight := NewClickHighlight(p.ClickHighlight)
	return &State{
		boards:            boards,
		dirty:             draw.NewDirtyTracker(),
		screenWidth:       p.ScreenWidth,
		screenHeight:      p.ScreenHeight,
		color:             p.Color,
		thickness:         clampThickness(p.Thickness),
		eraserSize:        clampThickness(p.EraserSize),
		eraserKind:        p.EraserKind,
		eraserMode:        p.EraserMode,
		markerOpacity:     clampMarkerOpacity(p.MarkerOpacity),
		fillEnabled:       p.FillEnabled,
		fontSize:          clampFontSize(p.FontSize),
		font:              p.Font,
		textBackground:    p.TextBackground,
		arrowLength:       p.ArrowLength,
		arrowAngle:        p.ArrowAngle,
		arrowHeadAtEnd:    p.ArrowHeadAtEnd,
		gesture:           idleGesture{},
		selectedSet:       make(map[draw.ShapeId]struct{}),
		hitTolerance:      p.HitTestTolerance,
		linearHitLimit:    p.LinearHitTestLimit,
		undoLimit:         p.UndoStackLimit,
		maxShapes:         p.MaxShapesPerFrame,
		hitCache:          make(map[draw.ShapeId]hitBounds),
		pressureThreshold: p.PressureVariationThreshold,
		undoAllDelay:      p.UndoAllDelay,
		redoAllDelay:      p.RedoAllDelay,
		clickHighlight:    highlight,
		actions:           p.Actions,
		needsRedraw:       true,
		now:               time.Now,
	}
}

// SetClock replaces the time source used for double-click detection,
// feedback timers, and history animation.
func (s *State) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Boards returns the canvas set the engine edits.
func (s *State) Boards() *draw.CanvasSet { return s.boards }

// Dirty returns the damage tracker the renderer drains.
func (s *State) Dirty() *draw.DirtyTracker { return s.dirty }

// Gesture returns the kind of the in-flight gesture.
func (s *State) Gesture() GestureKind { return s.gesture.kind() }

// NeedsRedraw reports whether the overlay should repaint.
func (s *State) NeedsRedraw() bool { return s.needsRedraw }

// ClearRedraw resets the repaint flag after a paint.
func (s *State) ClearRedraw() { s.needsRedraw = false }

// SessionDirty reports whether an edit since the last save needs persisting.
func (s *State) SessionDirty() bool { return s.sessionDirty }

// ClearSessionDirty resets the persistence flag after a save.
func (s *State) ClearSessionDirty() { s.sessionDirty = false }

// ShouldExit reports whether the engine asked the shell to quit.
func (s *State) ShouldExit() bool { return s.shouldExit }

// Modifiers returns the tracked modifier state.
func (s *State) Modifiers() Modifiers { return s.modifiers }

// SetScreenSize updates the surface dimensions used for clamping.
func (s *State) SetScreenSize(width, height int) {
	s.screenWidth = width
	s.screenHeight = height
}

// ActiveTool resolves the tool override, defaulting to the pen.
func (s *State) ActiveTool() Tool {
	if s.toolOverride != nil {
		return *s.toolOverride
	}
	return ToolPen
}

// markEdited flags both redraw and session persistence after a model edit.
func (s *State) markEdited() {
	s.needsRedraw = true
	s.sessionDirty = true
}

// updatePointer records the last known pointer position.
func (s *State) updatePointer(x, y int) {
	s.pointerX = x
	s.pointerY = y
}

// PointerPosition returns the last pointer coordinates seen.
func (s *State) PointerPosition() (int, int) { return s.pointerX, s.pointerY }

// OnPressure records the latest stylus pressure sample in [0, 1].
func (s *State) OnPressure(pressure float32) {
	if pressure < 0 {
		pressure = 0
	}
	if pressure > 1 {
		pressure = 1
	}
	s.lastPressure = pressure
	s.hasPressure = true
}

// pointThickness is the per-sample stroke width recorded while drawing.
func (s *State) pointThickness() float32 {
	if s.hasPressure {
		scaled := float32(s.thickness) * s.lastPressure
		if scaled < MinStrokeThickness {
			scaled = MinStrokeThickness
		}
		return scaled
	}
	return float32(s.thickness)
}

// RequestCapture queues a capture request for the shell to pick up.
func (s *State) RequestCapture(req capture.Request) {
	s.pendingCapture = &req
	s.needsRedraw = true
}

// TakeCaptureRequest drains the pending capture request.
func (s *State) TakeCaptureRequest() (capture.Request, bool) {
	if s.pendingCapture == nil {
		return capture.Request{}, false
	}
	req := *s.pendingCapture
	s.pendingCapture = nil
	return req, true
}

// RequestZoom asks the shell to enter zoom mode.
func (s *State) RequestZoom() { s.zoomRequested = true }

// TakeZoomRequest drains the pending zoom request.
func (s *State) TakeZoomRequest() bool {
	requested := s.zoomRequested
	s.zoomRequested = false
	return requested
}

// NextLabelCounter returns the next arrow label number.
func (s *State) NextLabelCounter() uint32 {
	s.labelCounter++
	return s.labelCounter
}

// NextStepCounter returns the next step-marker number.
func (s *State) NextStepCounter() uint32 {
	s.stepCounter++
	return s.stepCounter
}

// ResetStepCounter restarts step-marker numbering.
func (s *State) ResetStepCounter() { s.stepCounter = 0 }

// TextBuffer returns the live text-entry buffer, when the text gesture is
// active.
func (s *State) TextBuffer() (string, bool) {
	if g, ok := s.gesture.(*textInputGesture); ok {
		return g.buffer, true
	}
	return "", false
}

// SwitchBoard changes the active board mode and repaints fully.
func (s *State) SwitchBoard(mode draw.BoardMode) {
	if s.boards.ActiveMode() == mode {
		return
	}
	s.cancelGesture()
	s.clearSelection()
	s.invalidateHitCache()
	s.boards.SwitchMode(mode)
	s.dirty.MarkFull()
	s.markEdited()
}
