package session_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/input"
	"github.com/wayscriber/wayscriber/internal/session"
)

func testOptions(t *testing.T) *session.Options {
	t.Helper()
	options := session.NewOptions(t.TempDir(), "wayland_1")
	options.PersistTransparent = true
	return options
}

// inkPage builds a frame holding n line strokes.
func inkPage(n int) *draw.Frame {
	f := draw.NewFrame()
	for i := 0; i < n; i++ {
		f.AddShape(draw.Line{X1: i, Y1: 0, X2: i + 10, Y2: 10, Color: draw.Red, Thick: 2})
	}
	return f
}

// inkPageWithHistory builds a frame whose shapes each carry a create action.
func inkPageWithHistory(n int) *draw.Frame {
	f := draw.NewFrame()
	for i := 0; i < n; i++ {
		id := f.AddShape(draw.Line{X1: i, Y1: 0, X2: i + 10, Y2: 10, Color: draw.Blue, Thick: 2})
		index, _ := f.FindIndex(id)
		drawn, _ := f.Shape(id)
		f.PushUndoAction(draw.CreateAction{Shapes: []draw.IndexedShape{{Index: index, Shape: *drawn}}}, 0)
	}
	return f
}

func singleBoardSnapshot(pages ...*draw.Frame) *session.Snapshot {
	return &session.Snapshot{
		ActiveMode:  draw.ModeTransparent,
		Transparent: &session.BoardPagesSnapshot{Pages: pages},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	options := testOptions(t)
	options.PersistWhiteboard = true

	fill := true
	snap := &session.Snapshot{
		ActiveMode: draw.ModeWhiteboard,
		Transparent: &session.BoardPagesSnapshot{
			Pages:  []*draw.Frame{inkPageWithHistory(3), inkPage(1)},
			Active: 1,
		},
		Whiteboard: &session.BoardPagesSnapshot{
			Pages: []*draw.Frame{inkPage(2)},
		},
		ToolState: &session.ToolState{
			CurrentColor:     draw.Green,
			CurrentThickness: 5,
			EraserSize:       20,
			EraserKind:       draw.EraserCircle,
			EraserMode:       input.EraserStrokeMode,
			FillEnabled:      &fill,
			CurrentFontSize:  18,
			ArrowLength:      25,
			ArrowAngle:       30,
			ShowStatusBar:    true,
		},
	}

	if err := session.Save(snap, options); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := session.Load(options)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load returned nil for a saved session")
	}

	if loaded.ActiveMode != draw.ModeWhiteboard {
		t.Errorf("active mode: got %q", loaded.ActiveMode)
	}
	if got := loaded.Transparent; got == nil || len(got.Pages) != 2 || got.Active != 1 {
		t.Fatalf("transparent board: got %+v", got)
	}
	if diff := cmp.Diff(snap.Transparent.Pages[0].Shapes(), loaded.Transparent.Pages[0].Shapes()); diff != "" {
		t.Errorf("page 1 shapes (-want +got):\n%s", diff)
	}
	if got := loaded.Transparent.Pages[0].UndoDepth(); got != 3 {
		t.Errorf("page 1 undo depth: got %d, want 3", got)
	}
	if got := loaded.Whiteboard; got == nil || len(got.Pages) != 1 || got.Pages[0].Len() != 2 {
		t.Fatalf("whiteboard board: got %+v", got)
	}
	if diff := cmp.Diff(snap.ToolState, loaded.ToolState); diff != "" {
		t.Errorf("tool state (-want +got):\n%s", diff)
	}
}

func TestSaveLoadRoundTripProperty(t *testing.T) {
	options := testOptions(t)
	options.PersistWhiteboard = true
	options.PersistBlackboard = true

	genBoard := func(t *rapid.T, label string) *session.BoardPagesSnapshot {
		if !rapid.Bool().Draw(t, label+"_present") {
			return nil
		}
		pageCount := rapid.IntRange(1, 3).Draw(t, label+"_pages")
		pages := make([]*draw.Frame, pageCount)
		for i := range pages {
			pages[i] = inkPage(rapid.IntRange(0, 5).Draw(t, label+"_shapes"))
		}
		return &session.BoardPagesSnapshot{
			Pages:  pages,
			Active: rapid.IntRange(0, pageCount-1).Draw(t, label+"_active"),
		}
	}

	rapid.Check(t, func(t *rapid.T) {
		snap := &session.Snapshot{
			ActiveMode:  draw.ParseBoardMode(rapid.SampledFrom([]string{"transparent", "whiteboard", "blackboard"}).Draw(t, "mode")),
			Transparent: genBoard(t, "transparent"),
			Whiteboard:  genBoard(t, "whiteboard"),
			Blackboard:  genBoard(t, "blackboard"),
		}

		if err := session.Save(snap, options); err != nil {
			t.Fatalf("Save: %v", err)
		}
		loaded, err := session.Load(options)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}

		if snap.IsEmpty() {
			if loaded != nil {
				t.Fatalf("empty snapshot loaded as %+v", loaded)
			}
			return
		}
		if loaded == nil {
			t.Fatal("Load returned nil for persistable snapshot")
		}
		if loaded.ActiveMode != snap.ActiveMode {
			t.Errorf("active mode: got %q, want %q", loaded.ActiveMode, snap.ActiveMode)
		}
		for _, mode := range []draw.BoardMode{draw.ModeTransparent, draw.ModeWhiteboard, draw.ModeBlackboard} {
			want, got := snap.Board(mode), loaded.Board(mode)
			if (want == nil) != (got == nil) {
				t.Fatalf("%s board presence: got %v, want %v", mode, got != nil, want != nil)
			}
			if want == nil {
				continue
			}
			if got.Active != want.Active {
				t.Errorf("%s active page: got %d, want %d", mode, got.Active, want.Active)
			}
			if len(got.Pages) != len(want.Pages) {
				t.Fatalf("%s page count: got %d, want %d", mode, len(got.Pages), len(want.Pages))
			}
			for i := range want.Pages {
				if diff := cmp.Diff(want.Pages[i].Shapes(), got.Pages[i].Shapes()); diff != "" {
					t.Errorf("%s page %d shapes (-want +got):\n%s", mode, i, diff)
				}
			}
		}
	})
}

func TestEmptySnapshotRemovesFile(t *testing.T) {
	options := testOptions(t)

	if err := session.Save(singleBoardSnapshot(inkPage(2)), options); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(options.SessionFilePath()); err != nil {
		t.Fatalf("session file after save: %v", err)
	}

	if err := session.Save(singleBoardSnapshot(draw.NewFrame()), options); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	if _, err := os.Stat(options.SessionFilePath()); !os.IsNotExist(err) {
		t.Errorf("session file should be removed for empty snapshot, stat: %v", err)
	}
}

func TestCompressionModes(t *testing.T) {
	readFile := func(t *testing.T, path string) []byte {
		t.Helper()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		return data
	}

	t.Run("auto below threshold stays plain", func(t *testing.T) {
		options := testOptions(t)
		if err := session.Save(singleBoardSnapshot(inkPage(1)), options); err != nil {
			t.Fatalf("Save: %v", err)
		}
		data := readFile(t, options.SessionFilePath())
		if data[0] != '{' {
			t.Errorf("small payload should be plain JSON, starts with %#x", data[0])
		}
	})

	t.Run("auto above threshold compresses", func(t *testing.T) {
		options := testOptions(t)
		options.AutoCompressThreshold = 64
		if err := session.Save(singleBoardSnapshot(inkPage(5)), options); err != nil {
			t.Fatalf("Save: %v", err)
		}
		data := readFile(t, options.SessionFilePath())
		if data[0] != 0x1f || data[1] != 0x8b {
			t.Errorf("payload over threshold should be gzip, starts with %#x %#x", data[0], data[1])
		}
		loaded, err := session.Load(options)
		if err != nil || loaded == nil {
			t.Fatalf("Load of compressed file: %+v, %v", loaded, err)
		}
		if loaded.Transparent.Pages[0].Len() != 5 {
			t.Errorf("shapes after compressed round trip: got %d", loaded.Transparent.Pages[0].Len())
		}
	})

	t.Run("on always compresses", func(t *testing.T) {
		options := testOptions(t)
		options.Compression = session.CompressionOn
		if err := session.Save(singleBoardSnapshot(inkPage(1)), options); err != nil {
			t.Fatalf("Save: %v", err)
		}
		data := readFile(t, options.SessionFilePath())
		if data[0] != 0x1f || data[1] != 0x8b {
			t.Errorf("forced compression should be gzip, starts with %#x %#x", data[0], data[1])
		}
	})

	t.Run("off never compresses", func(t *testing.T) {
		options := testOptions(t)
		options.Compression = session.CompressionOff
		options.AutoCompressThreshold = 1
		if err := session.Save(singleBoardSnapshot(inkPage(5)), options); err != nil {
			t.Fatalf("Save: %v", err)
		}
		data := readFile(t, options.SessionFilePath())
		if data[0] != '{' {
			t.Errorf("compression off should write plain JSON, starts with %#x", data[0])
		}
	})
}

func TestOversizePayloadLeavesExistingFile(t *testing.T) {
	options := testOptions(t)

	if err := session.Save(singleBoardSnapshot(inkPage(1)), options); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, err := os.ReadFile(options.SessionFilePath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	options.MaxFileSizeBytes = 16
	if err := session.Save(singleBoardSnapshot(inkPage(50)), options); err != nil {
		t.Fatalf("Save over limit should skip, not fail: %v", err)
	}
	after, err := os.ReadFile(options.SessionFilePath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("oversize save must leave the previous file untouched")
	}
}

func TestOversizeFileSkipsLoad(t *testing.T) {
	options := testOptions(t)

	if err := session.Save(singleBoardSnapshot(inkPage(3)), options); err != nil {
		t.Fatalf("Save: %v", err)
	}
	options.MaxFileSizeBytes = 16
	loaded, err := session.Load(options)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Errorf("oversize file should not load, got %+v", loaded)
	}
	if _, err := os.Stat(options.SessionFilePath()); err != nil {
		t.Errorf("oversize file must remain on disk: %v", err)
	}
}

func TestLoadSkipsNewerFileVersion(t *testing.T) {
	options := testOptions(t)

	payload := `{"version": 99, "active_mode": "transparent",
		"transparent_pages": [{"shapes": [{"id": 1, "shape": {"kind": "line",
			"x1": 0, "y1": 0, "x2": 5, "y2": 5,
			"color": {"r": 1, "g": 0, "b": 0, "a": 1}, "thick": 2}, "created_at": 1}]}]}`
	if err := os.MkdirAll(options.BaseDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(options.SessionFilePath(), []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := session.Load(options)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Errorf("newer file version should not load, got %+v", loaded)
	}
	if _, err := os.Stat(options.SessionFilePath()); err != nil {
		t.Errorf("file from a newer version must remain on disk: %v", err)
	}
}

func TestLoadLiftsLegacySingleFrame(t *testing.T) {
	options := testOptions(t)

	payload := `{"version": 1, "active_mode": "whiteboard",
		"transparent": {"shapes": [{"id": 1, "shape": {"kind": "line",
			"x1": 0, "y1": 0, "x2": 5, "y2": 5,
			"color": {"r": 0, "g": 1, "b": 0, "a": 1}, "thick": 2}, "created_at": 1}]}}`
	if err := os.MkdirAll(options.BaseDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(options.SessionFilePath(), []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := session.Load(options)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("legacy file should load")
	}
	if loaded.ActiveMode != draw.ModeWhiteboard {
		t.Errorf("active mode: got %q", loaded.ActiveMode)
	}
	board := loaded.Transparent
	if board == nil || len(board.Pages) != 1 || board.Active != 0 {
		t.Fatalf("legacy frame should lift to one page: %+v", board)
	}
	if board.Pages[0].Len() != 1 {
		t.Errorf("lifted page shape count: got %d", board.Pages[0].Len())
	}
}

func TestCorruptFileQuarantinedToBackup(t *testing.T) {
	options := testOptions(t)

	junk := []byte("this is not json {{{")
	if err := os.MkdirAll(options.BaseDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(options.SessionFilePath(), junk, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := session.Load(options)
	if err != nil {
		t.Fatalf("Load of corrupt file should not error: %v", err)
	}
	if loaded != nil {
		t.Errorf("corrupt file should yield nil, got %+v", loaded)
	}
	if _, err := os.Stat(options.SessionFilePath()); !os.IsNotExist(err) {
		t.Errorf("corrupt file should be removed, stat: %v", err)
	}
	backup, err := os.ReadFile(options.BackupFilePath())
	if err != nil {
		t.Fatalf("quarantined backup missing: %v", err)
	}
	if !bytes.Equal(backup, junk) {
		t.Error("quarantined backup should hold the original bytes")
	}
}

func TestSaveFailsWhenLocked(t *testing.T) {
	options := testOptions(t)
	if err := os.MkdirAll(options.BaseDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	holder := flock.New(options.LockFilePath())
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquiring test lock: %v (locked=%v)", err, locked)
	}
	defer holder.Unlock()

	err = session.Save(singleBoardSnapshot(inkPage(1)), options)
	if !errors.Is(err, session.ErrLocked) {
		t.Errorf("Save under contention: got %v, want ErrLocked", err)
	}
}

func TestBackupRotationKeepsPreviousFile(t *testing.T) {
	options := testOptions(t)

	if err := session.Save(singleBoardSnapshot(inkPage(1)), options); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	first, _ := os.ReadFile(options.SessionFilePath())

	if err := session.Save(singleBoardSnapshot(inkPage(2)), options); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	backup, err := os.ReadFile(options.BackupFilePath())
	if err != nil {
		t.Fatalf("backup missing after rotation: %v", err)
	}
	if !bytes.Equal(backup, first) {
		t.Error("backup should hold the previous session contents")
	}

	options.BackupRetention = 0
	if err := session.Save(singleBoardSnapshot(inkPage(3)), options); err != nil {
		t.Fatalf("third Save: %v", err)
	}
	current, _ := os.ReadFile(options.SessionFilePath())
	if bytes.Equal(current, backup) {
		t.Error("session file should have advanced past the backup")
	}
}

func TestLoadStripsHistoryWhenNotPersisted(t *testing.T) {
	options := testOptions(t)

	if err := session.Save(singleBoardSnapshot(inkPageWithHistory(3)), options); err != nil {
		t.Fatalf("Save: %v", err)
	}

	options.PersistHistory = false
	loaded, err := session.Load(options)
	if err != nil || loaded == nil {
		t.Fatalf("Load: %+v, %v", loaded, err)
	}
	page := loaded.Transparent.Pages[0]
	if page.Len() != 3 {
		t.Errorf("shapes survive history stripping: got %d, want 3", page.Len())
	}
	if page.UndoDepth() != 0 || page.RedoDepth() != 0 {
		t.Errorf("history depths: got %d/%d, want 0/0", page.UndoDepth(), page.RedoDepth())
	}
}

func TestLoadClampsPersistedHistoryDepth(t *testing.T) {
	options := testOptions(t)

	if err := session.Save(singleBoardSnapshot(inkPageWithHistory(5)), options); err != nil {
		t.Fatalf("Save: %v", err)
	}

	options.MaxPersistedUndoDepth = 2
	loaded, err := session.Load(options)
	if err != nil || loaded == nil {
		t.Fatalf("Load: %+v, %v", loaded, err)
	}
	if got := loaded.Transparent.Pages[0].UndoDepth(); got != 2 {
		t.Errorf("clamped undo depth: got %d, want 2", got)
	}
}

func TestLoadTruncatesOverlongPages(t *testing.T) {
	options := testOptions(t)

	if err := session.Save(singleBoardSnapshot(inkPageWithHistory(6)), options); err != nil {
		t.Fatalf("Save: %v", err)
	}

	options.MaxShapesPerFrame = 4
	loaded, err := session.Load(options)
	if err != nil || loaded == nil {
		t.Fatalf("Load: %+v, %v", loaded, err)
	}
	page := loaded.Transparent.Pages[0]
	if page.Len() != 4 {
		t.Errorf("truncated shape count: got %d, want 4", page.Len())
	}
	if page.UndoDepth() != 4 {
		t.Errorf("history referencing trimmed shapes should be pruned: depth %d, want 4", page.UndoDepth())
	}
}

func TestLoadMissingFileYieldsNil(t *testing.T) {
	options := testOptions(t)
	loaded, err := session.Load(options)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Errorf("missing file should yield nil, got %+v", loaded)
	}
}

func TestSaveSkippedWhenPersistenceDisabled(t *testing.T) {
	options := session.NewOptions(t.TempDir(), "wayland_1")
	if err := session.Save(singleBoardSnapshot(inkPage(1)), options); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(options.BaseDir)
	if err == nil && len(entries) > 0 {
		names := make([]string, len(entries))
		for i, entry := range entries {
			names[i] = entry.Name()
		}
		t.Errorf("disabled persistence must not write files, found %v in %s", names, filepath.Base(options.BaseDir))
	}
}
