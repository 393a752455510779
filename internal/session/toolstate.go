package session

import (
	"github.com/wayscriber/wayscriber/internal/input"
)

// ToolStateFrom converts the engine's live tool settings into the persisted
// form.
func ToolStateFrom(ts input.ToolSettings) *ToolState {
	opacity := ts.MarkerOpacity
	fill := ts.FillEnabled
	headAtEnd := ts.ArrowHeadAtEnd
	return &ToolState{
		CurrentColor:          ts.Color,
		CurrentThickness:      ts.Thickness,
		EraserSize:            ts.EraserSize,
		EraserKind:            ts.EraserKind,
		EraserMode:            ts.EraserMode,
		MarkerOpacity:         &opacity,
		FillEnabled:           &fill,
		ToolOverride:          ts.Tool,
		CurrentFontSize:       ts.FontSize,
		TextBackgroundEnabled: ts.TextBackground,
		ArrowLength:           ts.ArrowLength,
		ArrowAngle:            ts.ArrowAngle,
		ArrowHeadAtEnd:        &headAtEnd,
		ShowStatusBar:         ts.ShowStatusBar,
	}
}

// Settings converts a persisted tool state back into engine settings.
// Optional fields absent from older files keep the engine's defaults via
// zero values, which ApplyToolSettings clamps.
func (t *ToolState) Settings() input.ToolSettings {
	ts := input.ToolSettings{
		Color:          t.CurrentColor,
		Thickness:      t.CurrentThickness,
		EraserSize:     t.EraserSize,
		EraserKind:     t.EraserKind,
		EraserMode:     t.EraserMode,
		FontSize:       t.CurrentFontSize,
		TextBackground: t.TextBackgroundEnabled,
		ArrowLength:    t.ArrowLength,
		ArrowAngle:     t.ArrowAngle,
		ShowStatusBar:  t.ShowStatusBar,
		Tool:           t.ToolOverride,
	}
	if t.MarkerOpacity != nil {
		ts.MarkerOpacity = *t.MarkerOpacity
	}
	if t.FillEnabled != nil {
		ts.FillEnabled = *t.FillEnabled
	}
	if t.ArrowHeadAtEnd != nil {
		ts.ArrowHeadAtEnd = *t.ArrowHeadAtEnd
	}
	return ts
}
