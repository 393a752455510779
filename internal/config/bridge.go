package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/input"
	"github.com/wayscriber/wayscriber/internal/session"
)

// EngineParams translates a validated config into engine construction
// parameters. Call Validated first; this assumes every value is in range.
func (c Config) EngineParams(screenWidth, screenHeight int, logger *slog.Logger) input.Params {
	color, err := ParseColor(c.Drawing.Color)
	if err != nil {
		color = draw.Red
	}

	return input.Params{
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,

		Color:         color,
		Thickness:     c.Drawing.Thickness,
		EraserSize:    c.Drawing.EraserSize,
		EraserKind:    draw.EraserKind(c.Drawing.EraserKind),
		EraserMode:    input.EraserMode(c.Drawing.EraserMode),
		MarkerOpacity: c.Drawing.MarkerOpacity,
		FillEnabled:   boolOr(c.Drawing.Fill, false),

		FontSize:       c.Drawing.FontSize,
		Font:           fontDescriptor(c.Drawing.FontFamily),
		TextBackground: boolOr(c.Drawing.TextBackground, false),

		ArrowLength:    c.Arrow.Length,
		ArrowAngle:     c.Arrow.Angle,
		ArrowHeadAtEnd: boolOr(c.Arrow.HeadAtEnd, true),

		UndoStackLimit:    c.History.UndoLimit,
		MaxShapesPerFrame: c.History.MaxShapes,
		UndoAllDelay:      time.Duration(c.History.UndoAllDelayMs) * time.Millisecond,
		RedoAllDelay:      time.Duration(c.History.RedoAllDelayMs) * time.Millisecond,

		Actions:        c.ActionMap(logger),
		ClickHighlight: c.clickHighlight(),
	}
}

func (c Config) clickHighlight() input.ClickHighlightSettings {
	color, err := ParseColor(c.ClickHighlight.Color)
	if err != nil {
		color = draw.Color{R: 1, G: 1, A: 1}
	}
	return input.ClickHighlightSettings{
		Enabled:          boolOr(c.ClickHighlight.Enabled, false),
		Radius:           c.ClickHighlight.Radius,
		OutlineThickness: c.ClickHighlight.OutlineThickness,
		Duration:         time.Duration(c.ClickHighlight.DurationMs) * time.Millisecond,
		Color:            color,
		UsePenColor:      boolOr(c.ClickHighlight.UsePenColor, false),
	}
}

// BoardBackground returns the configured background colour for a board mode.
// Transparent boards have no background.
func (c Config) BoardBackground(mode draw.BoardMode) (draw.Color, bool) {
	switch mode {
	case draw.ModeWhiteboard:
		if col, err := ParseColor(c.Boards.WhiteboardBackground); err == nil {
			return col, true
		}
		return draw.White, true
	case draw.ModeBlackboard:
		if col, err := ParseColor(c.Boards.BlackboardBackground); err == nil {
			return col, true
		}
		return draw.Black, true
	}
	return draw.Color{}, false
}

// ActionMap builds the effective keybinding map: defaults overlaid with the
// config's action -> chord entries. Unknown actions and chords already bound
// by an earlier entry are skipped with a warning.
func (c Config) ActionMap(logger *slog.Logger) input.ActionMap {
	actions := input.DefaultActionMap()
	if len(c.Keybindings) == 0 {
		return actions
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Sorted iteration keeps duplicate-chord resolution deterministic.
	names := make([]string, 0, len(c.Keybindings))
	for name := range c.Keybindings {
		names = append(names, name)
	}
	slices.Sort(names)

	claimed := make(map[string]string, len(names)) // chord -> action that took it
	for _, name := range names {
		action := input.Action(name)
		if !input.KnownAction(action) {
			logger.Warn("unknown keybinding action, keeping default", "action", name)
			continue
		}
		chord := normalizeChord(c.Keybindings[name])
		if chord == "" {
			logger.Warn("empty keybinding chord, keeping default", "action", name)
			continue
		}
		if prev, dup := claimed[chord]; dup {
			logger.Warn("duplicate keybinding chord, keeping first", "chord", chord, "kept", prev, "dropped", name)
			continue
		}
		claimed[chord] = name

		// Remove the default chords for this action before rebinding it.
		for label, a := range actions {
			if a == action {
				delete(actions, label)
			}
		}
		actions[chord] = action
	}
	return actions
}

// normalizeChord lowercases a chord and rewrites its modifiers into the
// ctrl+alt+shift order ChordLabel produces.
func normalizeChord(chord string) string {
	chord = strings.ToLower(strings.TrimSpace(chord))
	if chord == "" {
		return ""
	}

	parts := strings.Split(chord, "+")
	base := parts[len(parts)-1]
	if base == "" && strings.HasSuffix(chord, "+") {
		// The chord's key is a literal "+", e.g. "ctrl++".
		base = "+"
		parts = parts[:len(parts)-1]
	}

	var ctrl, alt, shift bool
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl", "control":
			ctrl = true
		case "alt":
			alt = true
		case "shift":
			shift = true
		}
	}

	var b strings.Builder
	if ctrl {
		b.WriteString("ctrl+")
	}
	if alt {
		b.WriteString("alt+")
	}
	if shift {
		b.WriteString("shift+")
	}
	b.WriteString(base)
	return b.String()
}

// SessionOptions translates the session section into persistence options for
// the given display. BaseDir defaults to the XDG data directory.
func (c Config) SessionOptions(displayId string) (*session.Options, error) {
	baseDir := c.Session.Directory
	if baseDir == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}

	o := session.NewOptions(baseDir, displayId)
	o.PersistTransparent = boolOr(c.Session.PersistTransparent, false)
	o.PersistWhiteboard = boolOr(c.Session.PersistWhiteboard, false)
	o.PersistBlackboard = boolOr(c.Session.PersistBlackboard, false)
	o.PersistHistory = boolOr(c.Session.PersistHistory, true)
	o.RestoreToolState = boolOr(c.Session.RestoreToolState, true)
	o.PerOutput = boolOr(c.Session.PerOutput, true)
	o.Compression = session.CompressionMode(c.Session.Compression)

	if c.History.MaxShapes > 0 {
		o.MaxShapesPerFrame = c.History.MaxShapes
	}
	if c.Session.MaxUndoDepth > 0 {
		o.MaxPersistedUndoDepth = c.Session.MaxUndoDepth
	}
	if c.Session.MaxFileSizeBytes > 0 {
		o.MaxFileSizeBytes = c.Session.MaxFileSizeBytes
	}
	if c.Session.AutoCompressBytes > 0 {
		o.AutoCompressThreshold = c.Session.AutoCompressBytes
	}
	if c.Session.BackupRetention > 0 {
		o.BackupRetention = c.Session.BackupRetention
	}

	o.AutosaveEnabled = boolOr(c.Session.AutosaveEnabled, true)
	if c.Session.AutosaveIdleMs > 0 {
		o.AutosaveIdle = time.Duration(c.Session.AutosaveIdleMs) * time.Millisecond
	}
	if c.Session.AutosaveIntervalMs > 0 {
		o.AutosaveInterval = time.Duration(c.Session.AutosaveIntervalMs) * time.Millisecond
	}
	if c.Session.AutosaveFailureBackoffMs > 0 {
		o.AutosaveFailureBackoff = time.Duration(c.Session.AutosaveFailureBackoffMs) * time.Millisecond
	}
	return o, nil
}

// dataDir returns the wayscriber-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "wayscriber"), nil
}

func fontDescriptor(family string) draw.FontDescriptor {
	if family == "" {
		return draw.DefaultFont()
	}
	return draw.FontDescriptor{Family: family, Weight: "normal", Style: "normal"}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
