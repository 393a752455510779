// Package report builds shareable summaries of an on-disk Wayscriber
// session and renders them as text, Markdown, or JSON.
package report

import (
	"time"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/session"
)

// Report is the complete, renderable description of a saved session.
type Report struct {
	File    FileMeta     `json:"file"`
	Boards  []BoardMeta  `json:"boards"`
	Tool    *ToolMeta    `json:"tool,omitempty"`
	Flags   FlagsMeta    `json:"flags"`
	Backup  *BackupMeta  `json:"backup,omitempty"`
	History *HistoryMeta `json:"history,omitempty"`
}

// FileMeta describes the session file itself.
type FileMeta struct {
	Path       string    `json:"path"`
	Exists     bool      `json:"exists"`
	SizeBytes  int64     `json:"size_bytes"`
	Modified   time.Time `json:"modified,omitzero"`
	Version    uint32    `json:"version,omitempty"`
	Compressed bool      `json:"compressed"`
	Output     string    `json:"output,omitempty"`
}

// BackupMeta describes the rotated backup, when one exists.
type BackupMeta struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// FlagsMeta echoes the persistence configuration the session was saved with.
type FlagsMeta struct {
	PersistTransparent bool `json:"persist_transparent"`
	PersistWhiteboard  bool `json:"persist_whiteboard"`
	PersistBlackboard  bool `json:"persist_blackboard"`
	PersistHistory     bool `json:"persist_history"`
	RestoreToolState   bool `json:"restore_tool_state"`
}

// BoardMeta summarises one persisted board.
type BoardMeta struct {
	Mode   string     `json:"mode"`
	Active bool       `json:"active"`
	Pages  []PageMeta `json:"pages"`
}

// PageMeta summarises one page of a board.
type PageMeta struct {
	Name      string         `json:"name,omitempty"`
	Active    bool           `json:"active"`
	Shapes    int            `json:"shapes"`
	ByKind    map[string]int `json:"by_kind,omitempty"`
	UndoDepth int            `json:"undo_depth,omitempty"`
	RedoDepth int            `json:"redo_depth,omitempty"`
}

// ToolMeta is the persisted tool state, flattened for rendering.
type ToolMeta struct {
	Color         string  `json:"color"`
	Thickness     float64 `json:"thickness"`
	EraserSize    float64 `json:"eraser_size"`
	EraserKind    string  `json:"eraser_kind"`
	EraserMode    string  `json:"eraser_mode"`
	MarkerOpacity float64 `json:"marker_opacity,omitempty"`
	Fill          bool    `json:"fill"`
	Tool          string  `json:"tool,omitempty"`
	FontSize      float64 `json:"font_size"`
	ArrowLength   float64 `json:"arrow_length"`
	ArrowAngle    float64 `json:"arrow_angle"`
}

// HistoryMeta aggregates undo/redo depth across all persisted pages.
type HistoryMeta struct {
	UndoTotal int `json:"undo_total"`
	RedoTotal int `json:"redo_total"`
}

// Build assembles a report from an inspection plus the loaded snapshot.
// Either input may be nil; missing pieces simply stay empty.
func Build(insp *session.Inspection, snap *session.Snapshot) *Report {
	r := &Report{}

	if insp != nil {
		r.File = FileMeta{
			Path:       insp.SessionPath,
			Exists:     insp.Exists,
			SizeBytes:  insp.SizeBytes,
			Modified:   insp.Modified,
			Version:    insp.FileVersion,
			Compressed: insp.Compressed,
			Output:     insp.ActiveIdentity,
		}
		r.Flags = FlagsMeta{
			PersistTransparent: insp.PersistTransparent,
			PersistWhiteboard:  insp.PersistWhiteboard,
			PersistBlackboard:  insp.PersistBlackboard,
			PersistHistory:     insp.PersistHistory,
			RestoreToolState:   insp.RestoreToolState,
		}
		if insp.BackupExists {
			r.Backup = &BackupMeta{Path: insp.BackupPath, SizeBytes: insp.BackupSizeBytes}
		}
	}

	if snap == nil {
		return r
	}

	undoTotal, redoTotal := 0, 0
	for _, mode := range []draw.BoardMode{draw.ModeTransparent, draw.ModeWhiteboard, draw.ModeBlackboard} {
		board := snap.Board(mode)
		if board == nil {
			continue
		}
		meta := BoardMeta{Mode: string(mode), Active: mode == snap.ActiveMode}
		for idx, page := range board.Pages {
			pm := PageMeta{
				Name:      page.PageName(),
				Active:    idx == board.Active,
				Shapes:    page.Len(),
				UndoDepth: page.UndoDepth(),
				RedoDepth: page.RedoDepth(),
			}
			if page.Len() > 0 {
				pm.ByKind = make(map[string]int)
				for _, s := range page.Shapes() {
					pm.ByKind[s.Shape.Kind()]++
				}
			}
			undoTotal += pm.UndoDepth
			redoTotal += pm.RedoDepth
			meta.Pages = append(meta.Pages, pm)
		}
		r.Boards = append(r.Boards, meta)
	}
	if undoTotal > 0 || redoTotal > 0 {
		r.History = &HistoryMeta{UndoTotal: undoTotal, RedoTotal: redoTotal}
	}

	if t := snap.ToolState; t != nil {
		tm := &ToolMeta{
			Color:       formatColor(t.CurrentColor),
			Thickness:   t.CurrentThickness,
			EraserSize:  t.EraserSize,
			EraserKind:  string(t.EraserKind),
			EraserMode:  string(t.EraserMode),
			FontSize:    t.CurrentFontSize,
			ArrowLength: t.ArrowLength,
			ArrowAngle:  t.ArrowAngle,
		}
		if t.MarkerOpacity != nil {
			tm.MarkerOpacity = *t.MarkerOpacity
		}
		if t.FillEnabled != nil {
			tm.Fill = *t.FillEnabled
		}
		if t.ToolOverride != nil {
			tm.Tool = string(*t.ToolOverride)
		}
		r.Tool = tm
	}
	return r
}
