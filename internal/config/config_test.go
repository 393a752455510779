package config

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/input"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Merge precedence: for every field, project wins over global wins over
// defaults, checked on a representative cross-section of field kinds.
func TestMergePrecedence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		colorGen := rapid.SampledFrom([]string{"", "red", "blue", "#00ff00"})
		thickGen := rapid.SampledFrom([]float64{0, 2, 5, 9})
		limitGen := rapid.SampledFrom([]int{0, 50, 200})
		boolGen := rapid.SampledFrom([]int{0, 1, 2}) // unset, false, true

		mk := func(label string) *Config {
			cfg := &Config{}
			cfg.Drawing.Color = colorGen.Draw(t, label+"_color")
			cfg.Drawing.Thickness = thickGen.Draw(t, label+"_thick")
			cfg.History.UndoLimit = limitGen.Draw(t, label+"_undo")
			switch boolGen.Draw(t, label+"_fill") {
			case 1:
				f := false
				cfg.Drawing.Fill = &f
			case 2:
				tr := true
				cfg.Drawing.Fill = &tr
			}
			return cfg
		}
		global := mk("global")
		project := mk("project")

		merged := Merge(global, project)
		defaults := Defaults()

		wantString := func(p, g, d string) string {
			if p != "" {
				return p
			}
			if g != "" {
				return g
			}
			return d
		}
		if got, want := merged.Drawing.Color, wantString(project.Drawing.Color, global.Drawing.Color, defaults.Drawing.Color); got != want {
			t.Fatalf("color = %q, want %q", got, want)
		}

		wantThick := defaults.Drawing.Thickness
		if global.Drawing.Thickness != 0 {
			wantThick = global.Drawing.Thickness
		}
		if project.Drawing.Thickness != 0 {
			wantThick = project.Drawing.Thickness
		}
		if merged.Drawing.Thickness != wantThick {
			t.Fatalf("thickness = %v, want %v", merged.Drawing.Thickness, wantThick)
		}

		wantUndo := defaults.History.UndoLimit
		if global.History.UndoLimit != 0 {
			wantUndo = global.History.UndoLimit
		}
		if project.History.UndoLimit != 0 {
			wantUndo = project.History.UndoLimit
		}
		if merged.History.UndoLimit != wantUndo {
			t.Fatalf("undo limit = %d, want %d", merged.History.UndoLimit, wantUndo)
		}

		wantFill := defaults.Drawing.Fill
		if global.Drawing.Fill != nil {
			wantFill = global.Drawing.Fill
		}
		if project.Drawing.Fill != nil {
			wantFill = project.Drawing.Fill
		}
		if (merged.Drawing.Fill == nil) != (wantFill == nil) {
			t.Fatalf("fill set = %v, want %v", merged.Drawing.Fill != nil, wantFill != nil)
		}
		if merged.Drawing.Fill != nil && *merged.Drawing.Fill != *wantFill {
			t.Fatalf("fill = %v, want %v", *merged.Drawing.Fill, *wantFill)
		}
	})
}

func TestMergeNilConfigsYieldDefaults(t *testing.T) {
	merged := Merge(nil, nil)
	if merged.Drawing.Thickness != 3 || merged.History.UndoLimit != 100 {
		t.Fatalf("Merge(nil, nil) = %+v, want defaults", merged)
	}
}

func TestValidatedClampsOutOfRange(t *testing.T) {
	cfg := Defaults()
	cfg.Drawing.Thickness = 500
	cfg.Drawing.MarkerOpacity = 0.001
	cfg.Drawing.FontSize = 4
	cfg.History.UndoLimit = 3
	cfg.Arrow.Angle = 179

	v := cfg.Validated(discardLogger())

	if v.Drawing.Thickness != 50 {
		t.Errorf("thickness = %v, want 50", v.Drawing.Thickness)
	}
	if v.Drawing.MarkerOpacity != 0.05 {
		t.Errorf("marker opacity = %v, want 0.05", v.Drawing.MarkerOpacity)
	}
	if v.Drawing.FontSize != 8 {
		t.Errorf("font size = %v, want 8", v.Drawing.FontSize)
	}
	if v.History.UndoLimit != 10 {
		t.Errorf("undo limit = %d, want 10", v.History.UndoLimit)
	}
	if v.Arrow.Angle != 80 {
		t.Errorf("arrow angle = %v, want 80", v.Arrow.Angle)
	}
}

func TestValidatedReplacesUnknownEnums(t *testing.T) {
	cfg := Defaults()
	cfg.Drawing.EraserKind = "triangle"
	cfg.Drawing.EraserMode = "sponge"
	cfg.Session.Compression = "zip"
	cfg.Drawing.Color = "not-a-color"

	v := cfg.Validated(discardLogger())

	if v.Drawing.EraserKind != "circle" {
		t.Errorf("eraser kind = %q, want circle", v.Drawing.EraserKind)
	}
	if v.Drawing.EraserMode != "brush" {
		t.Errorf("eraser mode = %q, want brush", v.Drawing.EraserMode)
	}
	if v.Session.Compression != "auto" {
		t.Errorf("compression = %q, want auto", v.Session.Compression)
	}
	if v.Drawing.Color != "red" {
		t.Errorf("color = %q, want red", v.Drawing.Color)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    draw.Color
		wantErr bool
	}{
		{in: "red", want: draw.Red},
		{in: "  White ", want: draw.White},
		{in: "#ff0000", want: draw.Red},
		{in: "#f00", want: draw.Red},
		{in: "#ff000080", want: draw.Color{R: 1, A: 128.0 / 255}},
		{in: "mauvish", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) error: %v", tc.in, err)
			continue
		}
		if math.Abs(got.R-tc.want.R) > 1e-9 || math.Abs(got.G-tc.want.G) > 1e-9 ||
			math.Abs(got.B-tc.want.B) > 1e-9 || math.Abs(got.A-tc.want.A) > 1e-9 {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestActionMapRebindsAndDropsDefaultChords(t *testing.T) {
	cfg := Defaults()
	cfg.Keybindings = map[string]string{"undo": "ctrl+u"}

	actions := cfg.ActionMap(discardLogger())

	if actions["ctrl+u"] != input.ActionUndo {
		t.Fatalf("ctrl+u = %q, want undo", actions["ctrl+u"])
	}
	if _, still := actions["ctrl+z"]; still {
		t.Fatal("default undo chord survived a rebind")
	}
	// Untouched bindings remain.
	if actions["ctrl+y"] != input.ActionRedo {
		t.Fatalf("ctrl+y = %q, want redo", actions["ctrl+y"])
	}
}

func TestActionMapSkipsUnknownAction(t *testing.T) {
	cfg := Defaults()
	cfg.Keybindings = map[string]string{"launch_rockets": "ctrl+m"}

	actions := cfg.ActionMap(discardLogger())

	if _, bound := actions["ctrl+m"]; bound {
		t.Fatal("unknown action got a binding")
	}
	if actions["ctrl+z"] != input.ActionUndo {
		t.Fatal("defaults were disturbed by an unknown action")
	}
}

func TestActionMapDuplicateChordKeepsFirst(t *testing.T) {
	cfg := Defaults()
	cfg.Keybindings = map[string]string{
		"redo": "ctrl+q",
		"undo": "ctrl+q",
	}

	actions := cfg.ActionMap(discardLogger())

	// Entries apply in sorted action-name order, so redo claims the chord.
	if actions["ctrl+q"] != input.ActionRedo {
		t.Fatalf("ctrl+q = %q, want redo", actions["ctrl+q"])
	}
	// The loser keeps its default chords.
	if actions["ctrl+z"] != input.ActionUndo {
		t.Fatal("losing action lost its default binding too")
	}
}

func TestNormalizeChordOrdersModifiers(t *testing.T) {
	cases := map[string]string{
		"Shift+Ctrl+Z": "ctrl+shift+z",
		"CTRL+ALT+p":   "ctrl+alt+p",
		"control+z":    "ctrl+z",
		"ctrl++":       "ctrl++",
		"F11":          "f11",
	}
	for in, want := range cases {
		if got := normalizeChord(in); got != want {
			t.Errorf("normalizeChord(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSessionOptionsBridge(t *testing.T) {
	cfg := Defaults()
	tr := true
	cfg.Session.PersistTransparent = &tr
	cfg.Session.Directory = t.TempDir()
	cfg.Session.MaxUndoDepth = 25
	cfg.Session.AutosaveIdleMs = 1200
	cfg.History.MaxShapes = 5000

	opts, err := cfg.SessionOptions("DP-1")
	if err != nil {
		t.Fatalf("SessionOptions: %v", err)
	}
	if !opts.PersistTransparent || opts.PersistWhiteboard {
		t.Fatalf("persist flags = %v/%v, want true/false", opts.PersistTransparent, opts.PersistWhiteboard)
	}
	if opts.BaseDir != cfg.Session.Directory {
		t.Fatalf("base dir = %q, want %q", opts.BaseDir, cfg.Session.Directory)
	}
	if opts.MaxPersistedUndoDepth != 25 {
		t.Fatalf("max undo depth = %d, want 25", opts.MaxPersistedUndoDepth)
	}
	if opts.MaxShapesPerFrame != 5000 {
		t.Fatalf("max shapes = %d, want 5000", opts.MaxShapesPerFrame)
	}
	if opts.AutosaveIdle != 1200*time.Millisecond {
		t.Fatalf("autosave idle = %v, want 1.2s", opts.AutosaveIdle)
	}
}

func TestLoadPathWrapsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadPath(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parseErr.Path != path {
		t.Fatalf("ParseError.Path = %q, want %q", parseErr.Path, path)
	}
}

func TestLoadProjectAbsentIsNil(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if cfg != nil {
		t.Fatalf("LoadProject = %+v, want nil for absent file", cfg)
	}
}
