package input

import (
	"github.com/wayscriber/wayscriber/internal/draw"
)

// Marker opacity clamp.
const (
	minMarkerOpacity = 0.05
	maxMarkerOpacity = 0.9
)

func clampThickness(t float64) float64 {
	if t < MinStrokeThickness {
		return MinStrokeThickness
	}
	if t > MaxStrokeThickness {
		return MaxStrokeThickness
	}
	return t
}

func clampMarkerOpacity(o float64) float64 {
	if o < minMarkerOpacity {
		return minMarkerOpacity
	}
	if o > maxMarkerOpacity {
		return maxMarkerOpacity
	}
	return o
}

func clampFontSize(size float64) float64 {
	if size < minFontSize {
		return minFontSize
	}
	if size > maxFontSize {
		return maxFontSize
	}
	return size
}

// Color returns the current pen colour.
func (s *State) Color() draw.Color { return s.color }

// SetColor changes the pen colour.
func (s *State) SetColor(c draw.Color) {
	if s.color == c {
		return
	}
	s.color = c
	s.needsRedraw = true
}

// Thickness returns the current stroke thickness.
func (s *State) Thickness() float64 { return s.thickness }

// SetThickness clamps and applies a stroke thickness. Returns true when the
// effective value changed.
func (s *State) SetThickness(t float64) bool {
	clamped := clampThickness(t)
	if clamped == s.thickness {
		return false
	}
	s.thickness = clamped
	s.needsRedraw = true
	return true
}

// EraserSize returns the eraser brush diameter.
func (s *State) EraserSize() float64 { return s.eraserSize }

// SetEraserSize clamps and applies the eraser brush diameter.
func (s *State) SetEraserSize(size float64) bool {
	clamped := clampThickness(size)
	if clamped == s.eraserSize {
		return false
	}
	s.eraserSize = clamped
	s.needsRedraw = true
	return true
}

// EraserModeSetting returns the current eraser mode.
func (s *State) EraserModeSetting() EraserMode { return s.eraserMode }

// ToggleEraserMode flips between brush and stroke erasing.
func (s *State) ToggleEraserMode() EraserMode {
	if s.eraserMode == EraserBrushMode {
		s.eraserMode = EraserStrokeMode
	} else {
		s.eraserMode = EraserBrushMode
	}
	s.needsRedraw = true
	return s.eraserMode
}

// MarkerOpacity returns the highlighter alpha.
func (s *State) MarkerOpacity() float64 { return s.markerOpacity }

// SetMarkerOpacity clamps and applies the highlighter alpha.
func (s *State) SetMarkerOpacity(o float64) bool {
	clamped := clampMarkerOpacity(o)
	if clamped == s.markerOpacity {
		return false
	}
	s.markerOpacity = clamped
	s.needsRedraw = true
	return true
}

// FillEnabled reports whether rects and ellipses commit filled.
func (s *State) FillEnabled() bool { return s.fillEnabled }

// ToggleFill flips the fill setting.
func (s *State) ToggleFill() bool {
	s.fillEnabled = !s.fillEnabled
	s.needsRedraw = true
	return s.fillEnabled
}

// FontSize returns the text tool font size.
func (s *State) FontSize() float64 { return s.fontSize }

// SetFontSize clamps and applies the text tool font size.
func (s *State) SetFontSize(size float64) bool {
	clamped := clampFontSize(size)
	if clamped == s.fontSize {
		return false
	}
	s.fontSize = clamped
	s.needsRedraw = true
	return true
}

// SetTool switches the active tool, cancelling any in-flight gesture.
func (s *State) SetTool(tool Tool) {
	if !ValidTool(tool) {
		return
	}
	s.cancelGesture()
	t := tool
	s.toolOverride = &t
	s.needsRedraw = true
}

// AdjustThicknessForTool routes a thickness step to whichever control the
// active tool exposes: eraser size, marker opacity, or stroke width.
func (s *State) AdjustThicknessForTool(delta float64) bool {
	switch s.ActiveTool() {
	case ToolEraser:
		return s.SetEraserSize(s.eraserSize + delta)
	case ToolMarker:
		return s.SetMarkerOpacity(s.markerOpacity + delta*0.05)
	default:
		return s.SetThickness(s.thickness + delta)
	}
}

// markerColor is the pen colour carrying the highlighter alpha.
func (s *State) markerColor() draw.Color {
	return s.color.WithAlpha(s.markerOpacity)
}

// eraserHitRadius is the pick radius used by stroke-mode erasing.
func (s *State) eraserHitRadius() float64 {
	return max(s.eraserSize/2, 1)
}

// ToolSettings is the snapshot of tool state the persistence layer saves
// alongside the boards.
type ToolSettings struct {
	Color          draw.Color
	Thickness      float64
	EraserSize     float64
	EraserKind     draw.EraserKind
	EraserMode     EraserMode
	MarkerOpacity  float64
	FillEnabled    bool
	FontSize       float64
	TextBackground bool
	ArrowLength    float64
	ArrowAngle     float64
	ArrowHeadAtEnd bool
	ShowStatusBar  bool
	Tool           *Tool
}

// ExportToolSettings snapshots the current tool state.
func (s *State) ExportToolSettings() ToolSettings {
	ts := ToolSettings{
		Color:          s.color,
		Thickness:      s.thickness,
		EraserSize:     s.eraserSize,
		EraserKind:     s.eraserKind,
		EraserMode:     s.eraserMode,
		MarkerOpacity:  s.markerOpacity,
		FillEnabled:    s.fillEnabled,
		FontSize:       s.fontSize,
		TextBackground: s.textBackground,
		ArrowLength:    s.arrowLength,
		ArrowAngle:     s.arrowAngle,
		ArrowHeadAtEnd: s.arrowHeadAtEnd,
		ShowStatusBar:  s.showStatusBar,
	}
	if s.toolOverride != nil {
		tool := *s.toolOverride
		ts.Tool = &tool
	}
	return ts
}

// ApplyToolSettings restores a persisted snapshot, clamping each value the
// same way live adjustments do.
func (s *State) ApplyToolSettings(ts ToolSettings) {
	s.color = ts.Color
	s.thickness = clampThickness(ts.Thickness)
	s.eraserSize = clampThickness(ts.EraserSize)
	if ts.EraserKind == draw.EraserCircle || ts.EraserKind == draw.EraserRect {
		s.eraserKind = ts.EraserKind
	}
	if ts.EraserMode == EraserBrushMode || ts.EraserMode == EraserStrokeMode {
		s.eraserMode = ts.EraserMode
	}
	s.markerOpacity = clampMarkerOpacity(ts.MarkerOpacity)
	s.fillEnabled = ts.FillEnabled
	s.fontSize = clampFontSize(ts.FontSize)
	s.textBackground = ts.TextBackground
	if ts.ArrowLength > 0 {
		s.arrowLength = ts.ArrowLength
	}
	if ts.ArrowAngle > 0 {
		s.arrowAngle = ts.ArrowAngle
	}
	s.arrowHeadAtEnd = ts.ArrowHeadAtEnd
	s.showStatusBar = ts.ShowStatusBar
	if ts.Tool != nil && ValidTool(*ts.Tool) {
		tool := *ts.Tool
		s.toolOverride = &tool
	}
	s.needsRedraw = true
}
