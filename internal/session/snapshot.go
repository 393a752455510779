package session

import (
	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/input"
)

// CurrentVersion is the session file format version this build writes.
const CurrentVersion = 4

// Snapshot is the captured state of every board plus optional tool context,
// detached from the live engine so it can be serialised or restored.
type Snapshot struct {
	ActiveMode  draw.BoardMode
	Transparent *BoardPagesSnapshot
	Whiteboard  *BoardPagesSnapshot
	Blackboard  *BoardPagesSnapshot
	ToolState   *ToolState
}

// BoardPagesSnapshot is the detached page list of one board.
type BoardPagesSnapshot struct {
	Pages  []*draw.Frame
	Active int
}

// HasPersistableData reports whether the board carries anything worth
// writing: extra pages, a non-initial active page, or any ink.
func (b *BoardPagesSnapshot) HasPersistableData() bool {
	if b == nil {
		return false
	}
	if len(b.Pages) > 1 || b.Active > 0 {
		return true
	}
	for _, page := range b.Pages {
		if page.HasPersistableData() {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no board has persistable data.
func (s *Snapshot) IsEmpty() bool {
	return !s.Transparent.HasPersistableData() &&
		!s.Whiteboard.HasPersistableData() &&
		!s.Blackboard.HasPersistableData()
}

// Board returns the snapshot for a mode, or nil.
func (s *Snapshot) Board(mode draw.BoardMode) *BoardPagesSnapshot {
	switch mode {
	case draw.ModeWhiteboard:
		return s.Whiteboard
	case draw.ModeBlackboard:
		return s.Blackboard
	default:
		return s.Transparent
	}
}

// ToolState is the subset of interaction state persisted so a restored
// session picks up where the user left off.
type ToolState struct {
	CurrentColor          draw.Color       `json:"current_color"`
	CurrentThickness      float64          `json:"current_thickness"`
	EraserSize            float64          `json:"eraser_size"`
	EraserKind            draw.EraserKind  `json:"eraser_kind"`
	EraserMode            input.EraserMode `json:"eraser_mode"`
	MarkerOpacity         *float64         `json:"marker_opacity,omitempty"`
	FillEnabled           *bool            `json:"fill_enabled,omitempty"`
	ToolOverride          *input.Tool      `json:"tool_override,omitempty"`
	CurrentFontSize       float64          `json:"current_font_size"`
	TextBackgroundEnabled bool             `json:"text_background_enabled"`
	ArrowLength           float64          `json:"arrow_length"`
	ArrowAngle            float64          `json:"arrow_angle"`
	ArrowHeadAtEnd        *bool            `json:"arrow_head_at_end,omitempty"`
	BoardPreviousColor    *draw.Color      `json:"board_previous_color,omitempty"`
	ShowStatusBar         bool             `json:"show_status_bar"`
}

// normalize fills fields that older files omit.
func (t *ToolState) normalize() {
	if t.EraserSize == 0 {
		t.EraserSize = 12.0
	}
	if t.EraserKind == "" {
		t.EraserKind = draw.EraserCircle
	}
	if t.EraserMode == "" {
		t.EraserMode = input.EraserBrushMode
	}
	if t.ToolOverride != nil && !input.ValidTool(*t.ToolOverride) {
		t.ToolOverride = nil
	}
}

// Capture detaches the state of a canvas set into a snapshot, omitting
// boards whose persistence flag is off. Pages are cloned, so later edits to
// the live set do not leak into the snapshot; history is carried up to the
// effective limit.
func Capture(set *draw.CanvasSet, options *Options, runtimeHistoryLimit int) *Snapshot {
	historyLimit := options.EffectiveHistoryLimit(runtimeHistoryLimit)
	snap := &Snapshot{ActiveMode: set.ActiveMode()}
	if options.PersistTransparent {
		snap.Transparent = captureBoard(set.Pages(draw.ModeTransparent), historyLimit)
	}
	if options.PersistWhiteboard {
		snap.Whiteboard = captureBoard(set.Pages(draw.ModeWhiteboard), historyLimit)
	}
	if options.PersistBlackboard {
		snap.Blackboard = captureBoard(set.Pages(draw.ModeBlackboard), historyLimit)
	}
	return snap
}

func captureBoard(pages *draw.BoardPages, historyLimit int) *BoardPagesSnapshot {
	if pages == nil {
		return nil
	}
	cloned := make([]*draw.Frame, pages.PageCount())
	for i, page := range pages.Pages() {
		cloned[i] = page.CloneWithHistory()
		cloned[i].ClampHistoryDepth(historyLimit)
	}
	return &BoardPagesSnapshot{Pages: cloned, Active: pages.ActiveIndex()}
}

// Apply restores a snapshot into a canvas set, clamping history to the
// runtime limit. Boards absent from the snapshot are left untouched.
func (s *Snapshot) Apply(set *draw.CanvasSet, options *Options, runtimeHistoryLimit int) {
	historyLimit := options.EffectiveHistoryLimit(runtimeHistoryLimit)
	applyBoard(set, draw.ModeTransparent, s.Transparent, historyLimit)
	applyBoard(set, draw.ModeWhiteboard, s.Whiteboard, historyLimit)
	applyBoard(set, draw.ModeBlackboard, s.Blackboard, historyLimit)
	set.SwitchMode(s.ActiveMode)
}

func applyBoard(set *draw.CanvasSet, mode draw.BoardMode, snap *BoardPagesSnapshot, historyLimit int) {
	if snap == nil {
		return
	}
	for _, page := range snap.Pages {
		page.ClampHistoryDepth(historyLimit)
	}
	set.SetPages(mode, draw.BoardPagesFrom(snap.Pages, snap.Active))
}
