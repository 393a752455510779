package session

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/wayscriber/wayscriber/internal/draw"
)

// sessionFile is the on-disk shape of a snapshot. The legacy single-frame
// fields (transparent, whiteboard, blackboard) are accepted on read and
// lifted into single-page lists.
type sessionFile struct {
	Version      uint32      `json:"version"`
	LastModified string      `json:"last_modified"`
	ActiveMode   string      `json:"active_mode"`
	Transparent  *draw.Frame `json:"transparent,omitempty"`
	Whiteboard   *draw.Frame `json:"whiteboard,omitempty"`
	Blackboard   *draw.Frame `json:"blackboard,omitempty"`

	TransparentPages []*draw.Frame `json:"transparent_pages,omitempty"`
	WhiteboardPages  []*draw.Frame `json:"whiteboard_pages,omitempty"`
	BlackboardPages  []*draw.Frame `json:"blackboard_pages,omitempty"`

	TransparentActivePage *int `json:"transparent_active_page,omitempty"`
	WhiteboardActivePage  *int `json:"whiteboard_active_page,omitempty"`
	BlackboardActivePage  *int `json:"blackboard_active_page,omitempty"`

	ToolState *ToolState `json:"tool_state,omitempty"`
}

func fileFromSnapshot(snapshot *Snapshot) *sessionFile {
	file := &sessionFile{
		Version:      CurrentVersion,
		LastModified: time.Now().UTC().Format(time.RFC3339),
		ActiveMode:   string(snapshot.ActiveMode),
		ToolState:    snapshot.ToolState,
	}
	if board := snapshot.Transparent; board != nil {
		file.TransparentPages = board.Pages
		file.TransparentActivePage = &board.Active
	}
	if board := snapshot.Whiteboard; board != nil {
		file.WhiteboardPages = board.Pages
		file.WhiteboardActivePage = &board.Active
	}
	if board := snapshot.Blackboard; board != nil {
		file.BlackboardPages = board.Pages
		file.BlackboardActivePage = &board.Active
	}
	return file
}

func (f *sessionFile) toSnapshot() *Snapshot {
	snap := &Snapshot{
		ActiveMode:  draw.ParseBoardMode(f.ActiveMode),
		Transparent: boardFromFile(f.TransparentPages, f.TransparentActivePage, f.Transparent),
		Whiteboard:  boardFromFile(f.WhiteboardPages, f.WhiteboardActivePage, f.Whiteboard),
		Blackboard:  boardFromFile(f.BlackboardPages, f.BlackboardActivePage, f.Blackboard),
		ToolState:   f.ToolState,
	}
	if snap.ToolState != nil {
		snap.ToolState.normalize()
	}
	return snap
}

// boardFromFile builds a board snapshot from either the paged fields or the
// legacy single frame.
func boardFromFile(pages []*draw.Frame, active *int, legacy *draw.Frame) *BoardPagesSnapshot {
	if pages != nil {
		if len(pages) == 0 {
			pages = []*draw.Frame{draw.NewFrame()}
		}
		index := 0
		if active != nil {
			index = *active
		}
		if index < 0 {
			index = 0
		}
		if index > len(pages)-1 {
			index = len(pages) - 1
		}
		return &BoardPagesSnapshot{Pages: pages, Active: index}
	}
	if legacy != nil {
		return &BoardPagesSnapshot{Pages: []*draw.Frame{legacy}}
	}
	return nil
}

// enforceShapeLimits truncates overlong pages and prunes history entries that
// referenced the trimmed shapes.
func enforceShapeLimits(snapshot *Snapshot, maxShapes int) {
	if maxShapes <= 0 {
		return
	}
	for _, mode := range []draw.BoardMode{draw.ModeTransparent, draw.ModeWhiteboard, draw.ModeBlackboard} {
		board := snapshot.Board(mode)
		if board == nil {
			continue
		}
		for idx, page := range board.Pages {
			removed := page.TruncateShapes(maxShapes)
			if len(removed) == 0 {
				continue
			}
			slog.Warn("session page exceeds shape limit, truncating",
				"board", mode, "page", idx+1,
				"shapes", page.Len()+len(removed), "limit", maxShapes)
			stats := page.PruneHistoryForRemovedIds(removed)
			if !stats.IsEmpty() {
				slog.Warn("dropped history actions referencing trimmed shapes",
					"board", mode, "page", idx+1,
					"undo_removed", stats.UndoRemoved, "redo_removed", stats.RedoRemoved)
			}
		}
	}
}

// applyHistoryPolicies validates persisted history per page: structural
// depth checks first, missing-shape pruning second, then the disk depth
// limit (negative means unlimited).
func applyHistoryPolicies(board *BoardPagesSnapshot, mode draw.BoardMode, depthLimit int) {
	if board == nil {
		return
	}
	for idx, page := range board.Pages {
		if stats := page.ValidateHistory(draw.MaxCompoundDepth); !stats.IsEmpty() {
			slog.Warn("removed structurally invalid history actions",
				"board", mode, "page", idx+1,
				"undo_removed", stats.UndoRemoved, "redo_removed", stats.RedoRemoved)
		}
		if stats := page.PruneHistoryAgainstShapes(); !stats.IsEmpty() {
			slog.Warn("removed history actions referencing missing shapes",
				"board", mode, "page", idx+1,
				"undo_removed", stats.UndoRemoved, "redo_removed", stats.RedoRemoved)
		}
		if depthLimit >= 0 {
			if stats := page.ClampHistoryDepth(depthLimit); !stats.IsEmpty() {
				slog.Debug("clamped persisted history depth",
					"board", mode, "page", idx+1, "limit", depthLimit,
					"undo_removed", stats.UndoRemoved, "redo_removed", stats.RedoRemoved)
			}
		}
	}
}

// boardKeys lists every top-level field that can hold frames with history.
var boardKeys = []string{
	"transparent", "whiteboard", "blackboard",
	"transparent_pages", "whiteboard_pages", "blackboard_pages",
}

// maxHistoryDepth scans the raw document for the deepest compound nesting on
// any stack, before typed decoding is attempted.
func maxHistoryDepth(doc map[string]json.RawMessage) int {
	maxDepth := 0
	for _, key := range boardKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		for _, frame := range rawFrames(raw) {
			for _, stackKey := range []string{"undo_stack", "redo_stack"} {
				var stack []json.RawMessage
				if err := json.Unmarshal(frame[stackKey], &stack); err == nil {
					if d := rawStackDepth(stack); d > maxDepth {
						maxDepth = d
					}
				}
			}
		}
	}
	return maxDepth
}

// stripHistory removes undo and redo stacks from every frame in the raw
// document so a file with undecodable history still yields its shapes.
func stripHistory(doc map[string]json.RawMessage) {
	for _, key := range boardKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var single map[string]json.RawMessage
		if err := json.Unmarshal(raw, &single); err == nil {
			delete(single, "undo_stack")
			delete(single, "redo_stack")
			if data, err := json.Marshal(single); err == nil {
				doc[key] = data
			}
			continue
		}
		var pages []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &pages); err == nil {
			for _, page := range pages {
				delete(page, "undo_stack")
				delete(page, "redo_stack")
			}
			if data, err := json.Marshal(pages); err == nil {
				doc[key] = data
			}
		}
	}
}

func rawFrames(raw json.RawMessage) []map[string]json.RawMessage {
	var single map[string]json.RawMessage
	if err := json.Unmarshal(raw, &single); err == nil {
		return []map[string]json.RawMessage{single}
	}
	var pages []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &pages); err == nil {
		return pages
	}
	return nil
}

func rawStackDepth(stack []json.RawMessage) int {
	depth := 0
	for _, action := range stack {
		if d := rawActionDepth(action); d > depth {
			depth = d
		}
	}
	return depth
}

func rawActionDepth(action json.RawMessage) int {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(action, &obj); err != nil {
		return 1
	}
	var kind string
	if err := json.Unmarshal(obj["kind"], &kind); err != nil || kind != "compound" {
		return 1
	}
	childMax := 0
	var children []json.RawMessage
	if err := json.Unmarshal(obj["actions"], &children); err == nil {
		childMax = rawStackDepth(children)
	}
	return 1 + childMax
}
