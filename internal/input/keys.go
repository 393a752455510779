package input

import (
	"github.com/wayscriber/wayscriber/internal/capture"
	"github.com/wayscriber/wayscriber/internal/draw"
)

// SetModifiers replaces the tracked modifier state. The compositor reports
// the full set on every change.
func (s *State) SetModifiers(mods Modifiers) {
	s.modifiers = mods
}

// OnKeyPress dispatches a key through text entry or the keybinding map.
func (s *State) OnKeyPress(key Key) {
	if key.IsModifier() {
		return
	}
	if g, ok := s.gesture.(*textInputGesture); ok {
		s.onTextKey(g, key)
		return
	}
	label, ok := ChordLabel(key, s.modifiers)
	if !ok {
		return
	}
	action, bound := s.actions[label]
	if !bound && s.modifiers.Shift {
		if fallback, stripped := unshiftedLabel(label); stripped {
			action, bound = s.actions[fallback]
		}
	}
	if bound {
		s.ExecuteAction(action)
		return
	}
	if key.Name == KeyNameReturn && !s.modifiers.Shift && s.HasSelection() {
		s.EditSelectedText()
	}
}

// onTextKey feeds a key into the live text buffer. Named keys still reach
// the keybinding map so board switches and captures work while typing;
// character keys only do so with ctrl or alt held.
func (s *State) onTextKey(g *textInputGesture, key Key) {
	switch key.Name {
	case KeyNameEscape:
		s.cancelGesture()
		return
	case KeyNameReturn:
		if s.modifiers.Shift {
			s.appendTextRune(g, '\n')
			return
		}
		s.commitText(g)
		return
	case KeyNameBackspace:
		if g.buffer != "" {
			runes := []rune(g.buffer)
			g.buffer = string(runes[:len(runes)-1])
			s.markTextPreviewDirty()
		}
		return
	}
	if key.IsChar() && !s.modifiers.Ctrl && !s.modifiers.Alt {
		s.appendTextRune(g, key.Rune)
		return
	}
	if label, ok := ChordLabel(key, s.modifiers); ok {
		if action, bound := s.actions[label]; bound {
			s.ExecuteAction(action)
		}
	}
}

func (s *State) appendTextRune(g *textInputGesture, r rune) {
	if len([]rune(g.buffer)) >= maxTextLength {
		return
	}
	g.buffer += string(r)
	s.markTextPreviewDirty()
}

// ExecuteAction performs a named engine operation.
func (s *State) ExecuteAction(action Action) {
	switch action {
	case ActionExit:
		s.exitStep()
	case ActionUndo:
		s.Undo()
	case ActionRedo:
		s.Redo()
	case ActionUndoAll:
		s.StartUndoAll()
	case ActionRedoAll:
		s.StartRedoAll()
	case ActionClearCanvas:
		s.ClearCanvas()

	case ActionEnterTextMode:
		s.EnterTextMode(s.screenWidth/2, s.screenHeight/2)
	case ActionEnterStickyNote:
		s.EnterStickyNoteMode(s.screenWidth/2, s.screenHeight/2)

	case ActionSelectPenTool:
		s.SetTool(ToolPen)
	case ActionSelectLineTool:
		s.SetTool(ToolLine)
	case ActionSelectRectTool:
		s.SetTool(ToolRect)
	case ActionSelectEllipseTool:
		s.SetTool(ToolEllipse)
	case ActionSelectArrowTool:
		s.SetTool(ToolArrow)
	case ActionSelectMarkerTool:
		s.SetTool(ToolMarker)
	case ActionSelectEraserTool:
		s.SetTool(ToolEraser)
	case ActionSelectSelectTool:
		s.SetTool(ToolSelect)
	case ActionSelectStepMarkerTool:
		s.SetTool(ToolStepMarker)
	case ActionToggleEraserMode:
		mode := s.ToggleEraserMode()
		if mode == EraserStrokeMode {
			s.ShowToast("Eraser: delete whole strokes", "")
		} else {
			s.ShowToast("Eraser: brush", "")
		}
	case ActionToggleFill:
		s.ToggleFill()

	case ActionIncreaseThickness:
		s.AdjustThicknessForTool(1)
	case ActionDecreaseThickness:
		s.AdjustThicknessForTool(-1)
	case ActionIncreaseFontSize:
		s.SetFontSize(s.fontSize + 2)
	case ActionDecreaseFontSize:
		s.SetFontSize(s.fontSize - 2)
	case ActionIncreaseMarkerOpacity:
		s.SetMarkerOpacity(s.markerOpacity + 0.05)
	case ActionDecreaseMarkerOpacity:
		s.SetMarkerOpacity(s.markerOpacity - 0.05)

	case ActionCopySelection:
		s.requireSelection(func() { s.CopySelection() })
	case ActionPasteSelection:
		s.PasteClipboard()
	case ActionSelectAll:
		s.SelectAll()
	case ActionDuplicateSelection:
		s.requireSelection(func() { s.DuplicateSelection() })
	case ActionDeleteSelection:
		s.requireSelection(func() { s.DeleteSelection() })
	case ActionMoveSelectionToFront:
		s.requireSelection(func() { s.BringSelectionToFront() })
	case ActionMoveSelectionToBack:
		s.requireSelection(func() { s.SendSelectionToBack() })
	case ActionNudgeSelectionUp:
		s.NudgeSelection(0, -1, s.modifiers.Shift)
	case ActionNudgeSelectionDown:
		s.NudgeSelection(0, 1, s.modifiers.Shift)
	case ActionNudgeSelectionLeft:
		s.NudgeSelection(-1, 0, s.modifiers.Shift)
	case ActionNudgeSelectionRight:
		s.NudgeSelection(1, 0, s.modifiers.Shift)
	case ActionMoveSelectionToStart:
		s.requireSelection(func() { s.MoveSelectionToEdge(-1, 0) })
	case ActionMoveSelectionToEnd:
		s.requireSelection(func() { s.MoveSelectionToEdge(1, 0) })
	case ActionMoveSelectionToTop:
		s.requireSelection(func() { s.MoveSelectionToEdge(0, -1) })
	case ActionMoveSelectionToBottom:
		s.requireSelection(func() { s.MoveSelectionToEdge(0, 1) })
	case ActionLockSelection:
		s.requireSelection(func() { s.SetSelectionLocked(true) })
	case ActionUnlockSelection:
		s.requireSelection(func() { s.SetSelectionLocked(false) })

	case ActionNextPage:
		s.pageOp(func() bool { return s.boards.ActivePages().NextPage() })
	case ActionPrevPage:
		s.pageOp(func() bool { return s.boards.ActivePages().PrevPage() })
	case ActionNewPage:
		s.pageOp(func() bool { s.boards.ActivePages().NewPage(); return true })
	case ActionDuplicatePage:
		s.pageOp(func() bool { s.boards.ActivePages().DuplicatePage(); return true })
	case ActionDeletePage:
		s.pageOp(func() bool {
			return s.boards.ActivePages().DeletePage() != draw.PageDeletePending
		})

	case ActionSwitchTransparent:
		s.SwitchBoard(draw.ModeTransparent)
	case ActionSwitchWhiteboard:
		s.SwitchBoard(draw.ModeWhiteboard)
	case ActionSwitchBlackboard:
		s.SwitchBoard(draw.ModeBlackboard)

	case ActionCaptureFullScreen:
		s.requestCapture(capture.FullScreen{})
	case ActionCaptureActiveWindow:
		s.requestCapture(capture.ActiveWindow{})
	case ActionCaptureSelection:
		s.requestCapture(s.captureSelectionType())
	}
}

// exitStep peels one layer of state per press: gesture, then running
// history animation, then selection, then the app itself.
func (s *State) exitStep() {
	switch {
	case s.gesture.kind() != GestureIdle:
		s.cancelGesture()
	case s.pendingHistory != nil:
		s.CancelHistoryAnimation()
	case s.HasSelection():
		s.clearSelection()
	default:
		s.shouldExit = true
	}
}

// requireSelection runs fn, or flashes the refusal cue with nothing
// selected.
func (s *State) requireSelection(fn func()) {
	if !s.HasSelection() {
		s.flashBlocked()
		return
	}
	fn()
}

func (s *State) pageOp(fn func() bool) {
	s.cancelGesture()
	if !fn() {
		s.flashBlocked()
		return
	}
	s.clearSelection()
	s.invalidateHitCache()
	s.dirty.MarkFull()
	s.markEdited()
}

func (s *State) requestCapture(t capture.Type) {
	s.RequestCapture(capture.NewRequest(t, capture.ClipboardAndFile, nil))
}

// captureSelectionType captures the selection's bounds when something is
// selected, falling back to the full screen.
func (s *State) captureSelectionType() capture.Type {
	b, ok := s.SelectionBounds()
	if !ok {
		return capture.FullScreen{}
	}
	halo, ok := b.Inflated(selectionHaloPadding)
	if !ok {
		halo = b
	}
	return capture.Selection{X: halo.X, Y: halo.Y, W: halo.Width, H: halo.Height}
}
