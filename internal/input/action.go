package input

import "strings"

// Action names an engine operation a key chord can trigger. The string value
// is the identifier used in keybinding configuration.
type Action string

// Actions reachable through the keybinding map.
const (
	ActionExit            Action = "exit"
	ActionUndo            Action = "undo"
	ActionRedo            Action = "redo"
	ActionUndoAll         Action = "undo_all"
	ActionRedoAll         Action = "redo_all"
	ActionClearCanvas     Action = "clear_canvas"
	ActionEnterTextMode   Action = "enter_text_mode"
	ActionEnterStickyNote Action = "enter_sticky_note_mode"

	ActionSelectPenTool        Action = "select_pen_tool"
	ActionSelectLineTool       Action = "select_line_tool"
	ActionSelectRectTool       Action = "select_rect_tool"
	ActionSelectEllipseTool    Action = "select_ellipse_tool"
	ActionSelectArrowTool      Action = "select_arrow_tool"
	ActionSelectMarkerTool     Action = "select_marker_tool"
	ActionSelectEraserTool     Action = "select_eraser_tool"
	ActionSelectSelectTool     Action = "select_select_tool"
	ActionSelectStepMarkerTool Action = "select_step_marker_tool"
	ActionToggleEraserMode     Action = "toggle_eraser_mode"
	ActionToggleFill           Action = "toggle_fill"

	ActionIncreaseThickness     Action = "increase_thickness"
	ActionDecreaseThickness     Action = "decrease_thickness"
	ActionIncreaseFontSize      Action = "increase_font_size"
	ActionDecreaseFontSize      Action = "decrease_font_size"
	ActionIncreaseMarkerOpacity Action = "increase_marker_opacity"
	ActionDecreaseMarkerOpacity Action = "decrease_marker_opacity"

	ActionCopySelection         Action = "copy_selection"
	ActionPasteSelection        Action = "paste_selection"
	ActionSelectAll             Action = "select_all"
	ActionDuplicateSelection    Action = "duplicate_selection"
	ActionDeleteSelection       Action = "delete_selection"
	ActionMoveSelectionToFront  Action = "move_selection_to_front"
	ActionMoveSelectionToBack   Action = "move_selection_to_back"
	ActionNudgeSelectionUp      Action = "nudge_selection_up"
	ActionNudgeSelectionDown    Action = "nudge_selection_down"
	ActionNudgeSelectionLeft    Action = "nudge_selection_left"
	ActionNudgeSelectionRight   Action = "nudge_selection_right"
	ActionMoveSelectionToStart  Action = "move_selection_to_start"
	ActionMoveSelectionToEnd    Action = "move_selection_to_end"
	ActionMoveSelectionToTop    Action = "move_selection_to_top"
	ActionMoveSelectionToBottom Action = "move_selection_to_bottom"
	ActionLockSelection         Action = "lock_selection"
	ActionUnlockSelection       Action = "unlock_selection"

	ActionNextPage      Action = "next_page"
	ActionPrevPage      Action = "prev_page"
	ActionNewPage       Action = "new_page"
	ActionDuplicatePage Action = "duplicate_page"
	ActionDeletePage    Action = "delete_page"

	ActionSwitchTransparent Action = "switch_board_transparent"
	ActionSwitchWhiteboard  Action = "switch_board_whiteboard"
	ActionSwitchBlackboard  Action = "switch_board_blackboard"

	ActionCaptureFullScreen   Action = "capture_full_screen"
	ActionCaptureActiveWindow Action = "capture_active_window"
	ActionCaptureSelection    Action = "capture_selection"
)

// ActionMap resolves a normalised chord label to an action.
type ActionMap map[string]Action

// KnownAction reports whether a is a recognised action identifier. The
// configuration layer uses this to reject typoed keybinding entries.
func KnownAction(a Action) bool {
	_, ok := knownActions[a]
	return ok
}

var knownActions = func() map[Action]struct{} {
	all := []Action{
		ActionExit, ActionUndo, ActionRedo, ActionUndoAll, ActionRedoAll,
		ActionClearCanvas, ActionEnterTextMode, ActionEnterStickyNote,
		ActionSelectPenTool, ActionSelectLineTool, ActionSelectRectTool,
		ActionSelectEllipseTool, ActionSelectArrowTool, ActionSelectMarkerTool,
		ActionSelectEraserTool, ActionSelectSelectTool, ActionSelectStepMarkerTool,
		ActionToggleEraserMode, ActionToggleFill,
		ActionIncreaseThickness, ActionDecreaseThickness,
		ActionIncreaseFontSize, ActionDecreaseFontSize,
		ActionIncreaseMarkerOpacity, ActionDecreaseMarkerOpacity,
		ActionCopySelection, ActionPasteSelection, ActionSelectAll,
		ActionDuplicateSelection, ActionDeleteSelection,
		ActionMoveSelectionToFront, ActionMoveSelectionToBack,
		ActionNudgeSelectionUp, ActionNudgeSelectionDown,
		ActionNudgeSelectionLeft, ActionNudgeSelectionRight,
		ActionMoveSelectionToStart, ActionMoveSelectionToEnd,
		ActionMoveSelectionToTop, ActionMoveSelectionToBottom,
		ActionLockSelection, ActionUnlockSelection,
		ActionNextPage, ActionPrevPage, ActionNewPage,
		ActionDuplicatePage, ActionDeletePage,
		ActionSwitchTransparent, ActionSwitchWhiteboard, ActionSwitchBlackboard,
		ActionCaptureFullScreen, ActionCaptureActiveWindow, ActionCaptureSelection,
	}
	m := make(map[Action]struct{}, len(all))
	for _, a := range all {
		m[a] = struct{}{}
	}
	return m
}()

// ChordLabel normalises a key plus modifier state into the lookup form used
// by the map: lowercase, "ctrl+"/"alt+"/"shift+" prefixes in that order.
func ChordLabel(key Key, mods Modifiers) (string, bool) {
	var base string
	switch {
	case key.Name != "":
		base = strings.ToLower(key.Name)
	case key.Rune != 0:
		base = strings.ToLower(string(key.Rune))
	default:
		return "", false
	}

	var b strings.Builder
	if mods.Ctrl {
		b.WriteString("ctrl+")
	}
	if mods.Alt {
		b.WriteString("alt+")
	}
	if mods.Shift {
		b.WriteString("shift+")
	}
	b.WriteString(base)
	return b.String(), true
}

// unshiftedLabel strips a shift+ prefix so shifted chords can fall back to
// their unshifted binding.
func unshiftedLabel(label string) (string, bool) {
	const prefix = "shift+"
	if i := strings.LastIndex(label, prefix); i >= 0 {
		return label[:i] + label[i+len(prefix):], true
	}
	return "", false
}

// DefaultActionMap returns the built-in keybindings. The configuration layer
// replaces individual entries; unknown actions there fall back to these.
func DefaultActionMap() ActionMap {
	return ActionMap{
		"escape": ActionExit,

		"ctrl+z":       ActionUndo,
		"ctrl+shift+z": ActionRedo,
		"ctrl+y":       ActionRedo,
		"ctrl+alt+z":   ActionUndoAll,
		"ctrl+alt+y":   ActionRedoAll,
		"ctrl+l":       ActionClearCanvas,

		"t":       ActionEnterTextMode,
		"shift+t": ActionEnterStickyNote,

		"p": ActionSelectPenTool,
		"l": ActionSelectLineTool,
		"r": ActionSelectRectTool,
		"o": ActionSelectEllipseTool,
		"a": ActionSelectArrowTool,
		"m": ActionSelectMarkerTool,
		"e": ActionSelectEraserTool,
		"s": ActionSelectSelectTool,
		"n": ActionSelectStepMarkerTool,

		"shift+e": ActionToggleEraserMode,
		"f":       ActionToggleFill,

		"+":       ActionIncreaseThickness,
		"=":       ActionIncreaseThickness,
		"-":       ActionDecreaseThickness,
		"ctrl++":  ActionIncreaseFontSize,
		"ctrl+-":  ActionDecreaseFontSize,
		"shift++": ActionIncreaseMarkerOpacity,
		"shift+-": ActionDecreaseMarkerOpacity,

		"ctrl+c":       ActionCopySelection,
		"ctrl+v":       ActionPasteSelection,
		"ctrl+a":       ActionSelectAll,
		"ctrl+d":       ActionDuplicateSelection,
		"delete":       ActionDeleteSelection,
		"backspace":    ActionDeleteSelection,
		"ctrl+shift+f": ActionMoveSelectionToFront,
		"ctrl+shift+b": ActionMoveSelectionToBack,

		"up":           ActionNudgeSelectionUp,
		"down":         ActionNudgeSelectionDown,
		"left":         ActionNudgeSelectionLeft,
		"right":        ActionNudgeSelectionRight,
		"home":         ActionMoveSelectionToStart,
		"end":          ActionMoveSelectionToEnd,
		"pageup":       ActionMoveSelectionToTop,
		"pagedown":     ActionMoveSelectionToBottom,
		"ctrl+k":       ActionLockSelection,
		"ctrl+shift+k": ActionUnlockSelection,

		"ctrl+pagedown": ActionNextPage,
		"ctrl+pageup":   ActionPrevPage,
		"ctrl+n":        ActionNewPage,
		"ctrl+shift+d":  ActionDuplicatePage,
		"ctrl+shift+x":  ActionDeletePage,

		"f10": ActionSwitchTransparent,
		"f11": ActionSwitchWhiteboard,
		"f12": ActionSwitchBlackboard,

		"ctrl+p":       ActionCaptureFullScreen,
		"ctrl+shift+p": ActionCaptureActiveWindow,
		"ctrl+alt+p":   ActionCaptureSelection,
	}
}
