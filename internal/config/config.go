// Package config loads, merges, and validates Wayscriber engine settings
// from JSON files, bridges them into the input and session packages, and
// watches the config file for live reload.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable Wayscriber settings. Zero values mean "not
// set" during merging; Validated fills in defaults and clamps out-of-range
// values afterwards.
type Config struct {
	Drawing        DrawingConfig     `json:"drawing"`
	Arrow          ArrowConfig       `json:"arrow"`
	History        HistoryConfig     `json:"history"`
	Boards         BoardsConfig      `json:"boards"`
	Session        SessionConfig     `json:"session"`
	ClickHighlight HighlightConfig   `json:"click_highlight"`
	StatusBar      *bool             `json:"status_bar,omitempty"`
	Keybindings    map[string]string `json:"keybindings,omitempty"` // action -> chord
}

// DrawingConfig sets the initial tool state.
type DrawingConfig struct {
	Color          string  `json:"color"`          // name or #RRGGBB[AA]
	Thickness      float64 `json:"thickness"`      // 1..50
	EraserSize     float64 `json:"eraser_size"`    // 1..50
	EraserKind     string  `json:"eraser_kind"`    // "circle" | "rect"
	EraserMode     string  `json:"eraser_mode"`    // "brush" | "stroke"
	MarkerOpacity  float64 `json:"marker_opacity"` // 0.05..0.9
	Fill           *bool   `json:"fill,omitempty"`
	FontSize       float64 `json:"font_size"` // 8..72
	FontFamily     string  `json:"font_family"`
	TextBackground *bool   `json:"text_background,omitempty"`
}

// ArrowConfig sets the arrowhead geometry.
type ArrowConfig struct {
	Length    float64 `json:"length"` // px
	Angle     float64 `json:"angle"`  // degrees
	HeadAtEnd *bool   `json:"head_at_end,omitempty"`
}

// HistoryConfig bounds the undo machinery.
type HistoryConfig struct {
	UndoLimit      int `json:"undo_limit"`        // 10..1000
	UndoAllDelayMs int `json:"undo_all_delay_ms"` // per-step playback delay
	RedoAllDelayMs int `json:"redo_all_delay_ms"`
	MaxShapes      int `json:"max_shapes"` // per frame, 0 = unlimited
}

// BoardsConfig sets opaque-board backgrounds.
type BoardsConfig struct {
	WhiteboardBackground string `json:"whiteboard_background"`
	BlackboardBackground string `json:"blackboard_background"`
}

// SessionConfig controls on-disk persistence.
type SessionConfig struct {
	PersistTransparent *bool  `json:"persist_transparent,omitempty"`
	PersistWhiteboard  *bool  `json:"persist_whiteboard,omitempty"`
	PersistBlackboard  *bool  `json:"persist_blackboard,omitempty"`
	PersistHistory     *bool  `json:"persist_history,omitempty"`
	RestoreToolState   *bool  `json:"restore_tool_state,omitempty"`
	PerOutput          *bool  `json:"per_output,omitempty"`
	Directory          string `json:"directory"`
	MaxUndoDepth       int    `json:"max_undo_depth"`
	MaxFileSizeBytes   int64  `json:"max_file_size_bytes"`
	Compression        string `json:"compression"` // "off" | "on" | "auto"
	AutoCompressBytes  int64  `json:"auto_compress_bytes"`
	BackupRetention    int    `json:"backup_retention"`

	AutosaveEnabled          *bool `json:"autosave_enabled,omitempty"`
	AutosaveIdleMs           int   `json:"autosave_idle_ms"`
	AutosaveIntervalMs       int   `json:"autosave_interval_ms"`
	AutosaveFailureBackoffMs int   `json:"autosave_failure_backoff_ms"`
}

// HighlightConfig tunes click-highlight pulses.
type HighlightConfig struct {
	Enabled          *bool   `json:"enabled,omitempty"`
	Radius           float64 `json:"radius"`
	OutlineThickness float64 `json:"outline_thickness"`
	DurationMs       int     `json:"duration_ms"`
	Color            string  `json:"color"`
	UsePenColor      *bool   `json:"use_pen_color,omitempty"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Drawing: DrawingConfig{
			Color:         "red",
			Thickness:     3,
			EraserSize:    12,
			EraserKind:    "circle",
			EraserMode:    "brush",
			MarkerOpacity: 0.32,
			FontSize:      24,
			FontFamily:    "sans-serif",
		},
		Arrow: ArrowConfig{Length: 20, Angle: 30},
		History: HistoryConfig{
			UndoLimit:      100,
			UndoAllDelayMs: 100,
			RedoAllDelayMs: 100,
		},
		Boards: BoardsConfig{
			WhiteboardBackground: "white",
			BlackboardBackground: "black",
		},
		Session: SessionConfig{
			Compression:        "auto",
			BackupRetention:    1,
			AutosaveIdleMs:     5000,
			AutosaveIntervalMs: 45000,
		},
		ClickHighlight: HighlightConfig{
			Radius:           22,
			OutlineThickness: 2,
			DurationMs:       600,
			Color:            "yellow",
		},
	}
}

// LoadGlobal reads ~/.config/wayscriber/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// GlobalPath returns the location LoadGlobal reads from.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wayscriber", "config.json"), nil
}

// LoadProject reads .wayscriber.json in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".wayscriber.json", false)
}

// LoadPath reads a config file at an explicit path. The file must exist.
func LoadPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(path, data)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	overlay(&result, global)
	overlay(&result, project)
	return result
}

// overlay copies every set field of src onto dst. Strings count as set when
// non-empty, numbers when non-zero, optional booleans when non-nil.
func overlay(dst *Config, src *Config) {
	if src == nil {
		return
	}

	setString(&dst.Drawing.Color, src.Drawing.Color)
	setFloat(&dst.Drawing.Thickness, src.Drawing.Thickness)
	setFloat(&dst.Drawing.EraserSize, src.Drawing.EraserSize)
	setString(&dst.Drawing.EraserKind, src.Drawing.EraserKind)
	setString(&dst.Drawing.EraserMode, src.Drawing.EraserMode)
	setFloat(&dst.Drawing.MarkerOpacity, src.Drawing.MarkerOpacity)
	setBool(&dst.Drawing.Fill, src.Drawing.Fill)
	setFloat(&dst.Drawing.FontSize, src.Drawing.FontSize)
	setString(&dst.Drawing.FontFamily, src.Drawing.FontFamily)
	setBool(&dst.Drawing.TextBackground, src.Drawing.TextBackground)

	setFloat(&dst.Arrow.Length, src.Arrow.Length)
	setFloat(&dst.Arrow.Angle, src.Arrow.Angle)
	setBool(&dst.Arrow.HeadAtEnd, src.Arrow.HeadAtEnd)

	setInt(&dst.History.UndoLimit, src.History.UndoLimit)
	setInt(&dst.History.UndoAllDelayMs, src.History.UndoAllDelayMs)
	setInt(&dst.History.RedoAllDelayMs, src.History.RedoAllDelayMs)
	setInt(&dst.History.MaxShapes, src.History.MaxShapes)

	setString(&dst.Boards.WhiteboardBackground, src.Boards.WhiteboardBackground)
	setString(&dst.Boards.BlackboardBackground, src.Boards.BlackboardBackground)

	setBool(&dst.Session.PersistTransparent, src.Session.PersistTransparent)
	setBool(&dst.Session.PersistWhiteboard, src.Session.PersistWhiteboard)
	setBool(&dst.Session.PersistBlackboard, src.Session.PersistBlackboard)
	setBool(&dst.Session.PersistHistory, src.Session.PersistHistory)
	setBool(&dst.Session.RestoreToolState, src.Session.RestoreToolState)
	setBool(&dst.Session.PerOutput, src.Session.PerOutput)
	setString(&dst.Session.Directory, src.Session.Directory)
	setInt(&dst.Session.MaxUndoDepth, src.Session.MaxUndoDepth)
	setInt64(&dst.Session.MaxFileSizeBytes, src.Session.MaxFileSizeBytes)
	setString(&dst.Session.Compression, src.Session.Compression)
	setInt64(&dst.Session.AutoCompressBytes, src.Session.AutoCompressBytes)
	setInt(&dst.Session.BackupRetention, src.Session.BackupRetention)
	setBool(&dst.Session.AutosaveEnabled, src.Session.AutosaveEnabled)
	setInt(&dst.Session.AutosaveIdleMs, src.Session.AutosaveIdleMs)
	setInt(&dst.Session.AutosaveIntervalMs, src.Session.AutosaveIntervalMs)
	setInt(&dst.Session.AutosaveFailureBackoffMs, src.Session.AutosaveFailureBackoffMs)

	setBool(&dst.ClickHighlight.Enabled, src.ClickHighlight.Enabled)
	setFloat(&dst.ClickHighlight.Radius, src.ClickHighlight.Radius)
	setFloat(&dst.ClickHighlight.OutlineThickness, src.ClickHighlight.OutlineThickness)
	setInt(&dst.ClickHighlight.DurationMs, src.ClickHighlight.DurationMs)
	setString(&dst.ClickHighlight.Color, src.ClickHighlight.Color)
	setBool(&dst.ClickHighlight.UsePenColor, src.ClickHighlight.UsePenColor)

	setBool(&dst.StatusBar, src.StatusBar)

	if len(src.Keybindings) > 0 {
		if dst.Keybindings == nil {
			dst.Keybindings = make(map[string]string, len(src.Keybindings))
		}
		for action, chord := range src.Keybindings {
			dst.Keybindings[action] = chord
		}
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setInt64(dst *int64, v int64) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst **bool, v *bool) {
	if v != nil {
		*dst = v
	}
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
