package config

import (
	"log/slog"
)

// Clamp bounds applied by Validated. Out-of-range values are pulled to the
// nearest bound and logged rather than rejected, so a bad config never stops
// the engine from starting.
const (
	minThickness = 1.0
	maxThickness = 50.0

	minMarkerOpacity = 0.05
	maxMarkerOpacity = 0.9

	minFontSize = 8.0
	maxFontSize = 72.0

	minArrowLength = 5.0
	maxArrowLength = 200.0
	minArrowAngle  = 10.0
	maxArrowAngle  = 80.0

	minUndoLimit = 10
	maxUndoLimit = 1000

	minHistoryDelayMs = 10
	maxHistoryDelayMs = 5000
)

// Validated returns a copy of c with every out-of-range or unrecognised
// value replaced, logging one warning per correction.
func (c Config) Validated(logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	d := Defaults()

	c.Drawing.Thickness = clampF(logger, "drawing.thickness", c.Drawing.Thickness, minThickness, maxThickness)
	c.Drawing.EraserSize = clampF(logger, "drawing.eraser_size", c.Drawing.EraserSize, minThickness, maxThickness)
	c.Drawing.MarkerOpacity = clampF(logger, "drawing.marker_opacity", c.Drawing.MarkerOpacity, minMarkerOpacity, maxMarkerOpacity)
	c.Drawing.FontSize = clampF(logger, "drawing.font_size", c.Drawing.FontSize, minFontSize, maxFontSize)

	c.Arrow.Length = clampF(logger, "arrow.length", c.Arrow.Length, minArrowLength, maxArrowLength)
	c.Arrow.Angle = clampF(logger, "arrow.angle", c.Arrow.Angle, minArrowAngle, maxArrowAngle)

	c.History.UndoLimit = clampI(logger, "history.undo_limit", c.History.UndoLimit, minUndoLimit, maxUndoLimit)
	c.History.UndoAllDelayMs = clampI(logger, "history.undo_all_delay_ms", c.History.UndoAllDelayMs, minHistoryDelayMs, maxHistoryDelayMs)
	c.History.RedoAllDelayMs = clampI(logger, "history.redo_all_delay_ms", c.History.RedoAllDelayMs, minHistoryDelayMs, maxHistoryDelayMs)
	if c.History.MaxShapes < 0 {
		logger.Warn("config value out of range, using default", "key", "history.max_shapes", "value", c.History.MaxShapes)
		c.History.MaxShapes = 0
	}

	c.Drawing.EraserKind = oneOf(logger, "drawing.eraser_kind", c.Drawing.EraserKind, d.Drawing.EraserKind, "circle", "rect")
	c.Drawing.EraserMode = oneOf(logger, "drawing.eraser_mode", c.Drawing.EraserMode, d.Drawing.EraserMode, "brush", "stroke")
	c.Session.Compression = oneOf(logger, "session.compression", c.Session.Compression, d.Session.Compression, "off", "on", "auto")

	c.Drawing.Color = validColor(logger, "drawing.color", c.Drawing.Color, d.Drawing.Color)
	c.Boards.WhiteboardBackground = validColor(logger, "boards.whiteboard_background", c.Boards.WhiteboardBackground, d.Boards.WhiteboardBackground)
	c.Boards.BlackboardBackground = validColor(logger, "boards.blackboard_background", c.Boards.BlackboardBackground, d.Boards.BlackboardBackground)
	c.ClickHighlight.Color = validColor(logger, "click_highlight.color", c.ClickHighlight.Color, d.ClickHighlight.Color)

	if c.ClickHighlight.Radius <= 0 {
		c.ClickHighlight.Radius = d.ClickHighlight.Radius
	}
	if c.ClickHighlight.DurationMs <= 0 {
		c.ClickHighlight.DurationMs = d.ClickHighlight.DurationMs
	}

	if c.Session.MaxUndoDepth < 0 {
		logger.Warn("config value out of range, using default", "key", "session.max_undo_depth", "value", c.Session.MaxUndoDepth)
		c.Session.MaxUndoDepth = 0
	}
	if c.Session.BackupRetention < 0 {
		logger.Warn("config value out of range, using default", "key", "session.backup_retention", "value", c.Session.BackupRetention)
		c.Session.BackupRetention = d.Session.BackupRetention
	}

	return c
}

func clampF(logger *slog.Logger, key string, v, lo, hi float64) float64 {
	switch {
	case v < lo:
		logger.Warn("config value out of range, clamping", "key", key, "value", v, "min", lo)
		return lo
	case v > hi:
		logger.Warn("config value out of range, clamping", "key", key, "value", v, "max", hi)
		return hi
	}
	return v
}

func clampI(logger *slog.Logger, key string, v, lo, hi int) int {
	switch {
	case v < lo:
		logger.Warn("config value out of range, clamping", "key", key, "value", v, "min", lo)
		return lo
	case v > hi:
		logger.Warn("config value out of range, clamping", "key", key, "value", v, "max", hi)
		return hi
	}
	return v
}

func oneOf(logger *slog.Logger, key, v, fallback string, allowed ...string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	logger.Warn("unrecognised config value, using default", "key", key, "value", v, "default", fallback)
	return fallback
}

func validColor(logger *slog.Logger, key, v, fallback string) string {
	if _, err := ParseColor(v); err != nil {
		logger.Warn("unrecognised config colour, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return v
}
