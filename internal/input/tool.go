// Package input is the interaction engine: it turns abstract pointer,
// wheel, and key events into committed edits on the active frame, tracks
// the in-flight gesture, and owns selection, tool, and history state.
package input

// Tool identifies the active drawing tool.
type Tool string

// Tools. The value doubles as the persisted representation.
const (
	ToolPen        Tool = "pen"
	ToolLine       Tool = "line"
	ToolRect       Tool = "rect"
	ToolEllipse    Tool = "ellipse"
	ToolArrow      Tool = "arrow"
	ToolText       Tool = "text"
	ToolStickyNote Tool = "sticky_note"
	ToolMarker     Tool = "marker"
	ToolEraser     Tool = "eraser"
	ToolHighlight  Tool = "highlight"
	ToolSelect     Tool = "select"
	ToolStepMarker Tool = "step_marker"
)

// EraserMode selects how the eraser removes ink.
type EraserMode string

// Eraser modes.
const (
	// EraserBrushMode paints an eraser stroke that the renderer punches
	// through the ink.
	EraserBrushMode EraserMode = "brush"
	// EraserStrokeMode deletes whole shapes the brush touches.
	EraserStrokeMode EraserMode = "stroke"
)

// ValidTool reports whether t names a known tool.
func ValidTool(t Tool) bool {
	switch t {
	case ToolPen, ToolLine, ToolRect, ToolEllipse, ToolArrow, ToolText,
		ToolStickyNote, ToolMarker, ToolEraser, ToolHighlight, ToolSelect,
		ToolStepMarker:
		return true
	}
	return false
}
