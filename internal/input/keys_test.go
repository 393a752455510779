package input

import (
	"testing"
	"time"

	"github.com/wayscriber/wayscriber/internal/capture"
	"github.com/wayscriber/wayscriber/internal/draw"
)

func TestChordLabelNormalisation(t *testing.T) {
	cases := []struct {
		key  Key
		mods Modifiers
		want string
	}{
		{CharKey('z'), Modifiers{Ctrl: true}, "ctrl+z"},
		{CharKey('Z'), Modifiers{Ctrl: true, Shift: true}, "ctrl+shift+z"},
		{CharKey('p'), Modifiers{Ctrl: true, Alt: true}, "ctrl+alt+p"},
		{NamedKey(KeyNamePageDown), Modifiers{Ctrl: true}, "ctrl+pagedown"},
		{NamedKey(KeyNameEscape), Modifiers{}, "escape"},
	}
	for _, tc := range cases {
		got, ok := ChordLabel(tc.key, tc.mods)
		if !ok || got != tc.want {
			t.Errorf("ChordLabel(%+v, %+v) = %q/%v, want %q", tc.key, tc.mods, got, ok, tc.want)
		}
	}
}

func TestUndoChord(t *testing.T) {
	s, _ := newTestState()
	drag(s, ToolLine, 0, 0, 100, 100)

	s.SetModifiers(Modifiers{Ctrl: true})
	s.OnKeyPress(CharKey('z'))
	if got := s.Boards().ActiveFrame().Len(); got != 0 {
		t.Errorf("frame has %d shapes after ctrl+z, want 0", got)
	}

	s.SetModifiers(Modifiers{Ctrl: true, Shift: true})
	s.OnKeyPress(CharKey('z'))
	if got := s.Boards().ActiveFrame().Len(); got != 1 {
		t.Errorf("frame has %d shapes after ctrl+shift+z, want 1", got)
	}
}

func TestShiftFallsBackToUnshiftedBinding(t *testing.T) {
	s, _ := newTestState()
	s.SetModifiers(Modifiers{Shift: true})
	s.OnKeyPress(CharKey('r'))
	if s.ActiveTool() != ToolRect {
		t.Errorf("tool = %s, want rect via shift fallback", s.ActiveTool())
	}
}

func TestToolSelectionKeys(t *testing.T) {
	s, _ := newTestState()
	cases := []struct {
		key  rune
		want Tool
	}{
		{'p', ToolPen}, {'l', ToolLine}, {'r', ToolRect}, {'o', ToolEllipse},
		{'a', ToolArrow}, {'m', ToolMarker}, {'e', ToolEraser}, {'s', ToolSelect},
		{'n', ToolStepMarker},
	}
	for _, tc := range cases {
		s.OnKeyPress(CharKey(tc.key))
		if s.ActiveTool() != tc.want {
			t.Errorf("key %q selected %s, want %s", tc.key, s.ActiveTool(), tc.want)
		}
	}
}

func TestEscapePeelsStateInOrder(t *testing.T) {
	s, _ := newTestState()
	id := addRect(s, 100, 100, 50, 50)
	s.setSelection([]draw.ShapeId{id})
	s.SetTool(ToolPen)
	s.OnMousePress(ButtonLeft, 500, 500)
	s.OnMouseMove(550, 550)

	s.OnKeyPress(NamedKey(KeyNameEscape))
	if s.Gesture() != GestureIdle {
		t.Fatal("first escape did not cancel the gesture")
	}
	if !s.HasSelection() {
		t.Fatal("first escape also dropped the selection")
	}

	s.OnKeyPress(NamedKey(KeyNameEscape))
	if s.HasSelection() {
		t.Fatal("second escape did not clear the selection")
	}
	if s.ShouldExit() {
		t.Fatal("second escape exited early")
	}

	s.OnKeyPress(NamedKey(KeyNameEscape))
	if !s.ShouldExit() {
		t.Error("third escape did not request exit")
	}
}

func TestDeleteKeyRemovesSelection(t *testing.T) {
	s, _ := newTestState()
	id := addRect(s, 100, 100, 50, 50)
	s.setSelection([]draw.ShapeId{id})

	s.OnKeyPress(NamedKey(KeyNameDelete))
	if got := s.Boards().ActiveFrame().Len(); got != 0 {
		t.Errorf("frame has %d shapes after delete, want 0", got)
	}
}

func TestBoardSwitchKeysWorkWhileTyping(t *testing.T) {
	s, _ := newTestState()
	s.EnterTextMode(100, 100)
	typeString(s, "keep")

	s.OnKeyPress(NamedKey("F11"))
	if s.Boards().ActiveMode() != draw.ModeWhiteboard {
		t.Errorf("board = %s, want whiteboard", s.Boards().ActiveMode())
	}
}

func TestCaptureChordQueuesRequest(t *testing.T) {
	s, _ := newTestState()
	s.SetModifiers(Modifiers{Ctrl: true})
	s.OnKeyPress(CharKey('p'))

	req, ok := s.TakeCaptureRequest()
	if !ok {
		t.Fatal("no capture request queued")
	}
	if _, isFull := req.Type.(capture.FullScreen); !isFull {
		t.Errorf("capture type = %T, want FullScreen", req.Type)
	}
	if !req.Destination.WantsClipboard() || !req.Destination.WantsFile() {
		t.Errorf("capture destination = %v", req.Destination)
	}
	if _, again := s.TakeCaptureRequest(); again {
		t.Error("capture request not drained")
	}
}

func TestDelayedUndoAllAnimates(t *testing.T) {
	s, clock := newTestState()
	drag(s, ToolLine, 0, 0, 10, 10)
	drag(s, ToolLine, 20, 20, 30, 30)
	drag(s, ToolLine, 40, 40, 50, 50)

	s.SetModifiers(Modifiers{Ctrl: true, Alt: true})
	s.OnKeyPress(CharKey('z'))
	if !s.HistoryAnimationActive() {
		t.Fatal("undo-all animation not started")
	}

	if !s.TickDelayedHistory() {
		t.Fatal("first due step did not apply")
	}
	if got := s.Boards().ActiveFrame().Len(); got != 2 {
		t.Fatalf("frame has %d shapes after first step, want 2", got)
	}

	if s.TickDelayedHistory() {
		t.Fatal("step applied before its delay elapsed")
	}

	clock.advance(s.undoAllDelay)
	s.TickDelayedHistory()
	clock.advance(s.undoAllDelay)
	s.TickDelayedHistory()

	if got := s.Boards().ActiveFrame().Len(); got != 0 {
		t.Errorf("frame has %d shapes after undo all, want 0", got)
	}
	if s.HistoryAnimationActive() {
		t.Error("animation still active after last step")
	}
}

func TestToastExpires(t *testing.T) {
	s, clock := newTestState()
	s.ShowToast("saved", "")
	if _, ok := s.ActiveToast(); !ok {
		t.Fatal("toast not active")
	}
	clock.advance(toastDuration)
	if _, ok := s.ActiveToast(); ok {
		t.Error("toast survived its window")
	}
}

func TestBlockedFeedbackExpires(t *testing.T) {
	s, clock := newTestState()
	s.Undo() // nothing to undo
	if !s.BlockedFeedbackActive() {
		t.Fatal("refused undo did not flash")
	}
	clock.advance(250 * time.Millisecond)
	if s.BlockedFeedbackActive() {
		t.Error("blocked cue survived its window")
	}
}

func TestClickHighlightCapsActiveFlashes(t *testing.T) {
	s, clock := newTestState()
	s.ClickHighlights().SetEnabled(true)
	s.SetTool(ToolHighlight)
	for i := 0; i < 6; i++ {
		s.OnMousePress(ButtonLeft, 100+i*10, 100)
		s.OnMouseRelease(ButtonLeft, 100+i*10, 100)
	}
	if got := s.ClickHighlights().ActiveCount(); got != maxActiveHighlights {
		t.Errorf("active flashes = %d, want %d", got, maxActiveHighlights)
	}
	if got := s.Boards().ActiveFrame().Len(); got != 0 {
		t.Errorf("highlight clicks committed %d shapes, want 0", got)
	}

	clock.advance(time.Second)
	s.TickFeedback()
	if got := s.ClickHighlights().ActiveCount(); got != 0 {
		t.Errorf("active flashes after expiry = %d, want 0", got)
	}
}
