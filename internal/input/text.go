package input

import (
	"github.com/wayscriber/wayscriber/internal/draw"
)

// Text wrap resize tuning.
const (
	textResizeHandleSize   = 10
	textResizeHandleOffset = 6
	textWrapMinWidth       = 40
)

// EnterTextMode starts text entry anchored at (x, y). Any in-flight gesture
// is cancelled first.
func (s *State) EnterTextMode(x, y int) {
	s.startTextInput(x, y, textModePlain, "")
}

// EnterStickyNoteMode starts sticky-note entry anchored at (x, y).
func (s *State) EnterStickyNoteMode(x, y int) {
	s.startTextInput(x, y, textModeStickyNote, "")
}

func (s *State) startTextInput(x, y int, mode textInputMode, buffer string) {
	s.cancelGesture()
	s.textMode = mode
	s.gesture = &textInputGesture{x: x, y: y, buffer: buffer}
	s.markTextPreviewDirty()
	s.needsRedraw = true
}

// EditSelectedText re-opens the single selected text shape for editing. The
// shape's text is blanked while the live buffer renders in its place.
func (s *State) EditSelectedText() bool {
	if len(s.selection) != 1 {
		return false
	}
	id := s.selection[0]
	drawn, ok := s.boards.ActiveFrame().Shape(id)
	if !ok || drawn.Locked {
		return false
	}
	switch v := drawn.Shape.(type) {
	case draw.Text:
		s.textEdit = &textEditTarget{id: id, snapshot: drawn.Snapshot()}
		s.dirty.MarkShape(drawn.Shape)
		v.Text = ""
		drawn.Shape = v
		s.startTextInput(v.X, v.Y, textModePlain, s.textEdit.snapshot.Shape.(draw.Text).Text)
		return true
	case draw.StickyNote:
		s.textEdit = &textEditTarget{id: id, snapshot: drawn.Snapshot()}
		s.dirty.MarkShape(drawn.Shape)
		v.Text = ""
		drawn.Shape = v
		s.startTextInput(v.X, v.Y, textModeStickyNote, s.textEdit.snapshot.Shape.(draw.StickyNote).Text)
		return true
	}
	return false
}

// cancelTextEdit restores the shape that was being re-edited.
func (s *State) cancelTextEdit() {
	if s.textEdit == nil {
		return
	}
	if drawn, ok := s.boards.ActiveFrame().Shape(s.textEdit.id); ok {
		drawn.Shape = s.textEdit.snapshot.Shape
		drawn.Locked = s.textEdit.snapshot.Locked
		s.dirty.MarkShape(drawn.Shape)
		s.invalidateHitCacheFor(s.textEdit.id)
	}
	s.textEdit = nil
	s.needsRedraw = true
}

// commitText finishes text entry: either writing the buffer back into the
// re-edited shape, or committing a new shape at the anchor. An empty buffer
// cancels instead.
func (s *State) commitText(g *textInputGesture) {
	defer func() {
		s.gesture = idleGesture{}
		s.clearTextPreviewDirty()
	}()
	if g.buffer == "" {
		s.cancelTextEdit()
		return
	}
	if s.textEdit != nil {
		s.commitTextEdit(g.buffer)
		return
	}
	var shape draw.Shape
	if s.textMode == textModeStickyNote {
		shape = draw.StickyNote{
			X:          g.x,
			Y:          g.y,
			Text:       g.buffer,
			Background: s.color,
			Size:       s.fontSize,
			Font:       s.font,
			WrapWidth:  s.textWrapWidth,
		}
	} else {
		shape = draw.Text{
			X:          g.x,
			Y:          g.y,
			Text:       g.buffer,
			Color:      s.color,
			Size:       s.fontSize,
			Font:       s.font,
			Background: s.textBackground,
			WrapWidth:  s.textWrapWidth,
		}
	}
	frame := s.boards.ActiveFrame()
	id, ok := frame.TryAddShape(shape, s.maxShapes)
	if !ok {
		s.ShowToast("Shape limit reached", "")
		return
	}
	frame.PushUndoAction(s.createActionFor(id), s.undoLimit)
	s.dirty.MarkShape(shape)
	s.invalidateHitCacheFor(id)
	s.markEdited()
}

// commitTextEdit writes the buffer into the re-edited shape and records a
// single modify step against the pre-edit snapshot.
func (s *State) commitTextEdit(buffer string) {
	target := s.textEdit
	s.textEdit = nil
	frame := s.boards.ActiveFrame()
	drawn, ok := frame.Shape(target.id)
	if !ok {
		return
	}
	switch v := drawn.Shape.(type) {
	case draw.Text:
		v.Text = buffer
		drawn.Shape = v
	case draw.StickyNote:
		v.Text = buffer
		drawn.Shape = v
	default:
		return
	}
	s.dirty.MarkShape(target.snapshot.Shape)
	s.dirty.MarkShape(drawn.Shape)
	s.invalidateHitCacheFor(target.id)
	if !snapshotsEqualText(target.snapshot, drawn.Snapshot()) {
		frame.PushUndoAction(draw.ModifyAction{
			ShapeId: target.id,
			Before:  target.snapshot,
			After:   drawn.Snapshot(),
		}, s.undoLimit)
		s.markEdited()
	}
	s.needsRedraw = true
}

func snapshotsEqualText(a, b draw.ShapeSnapshot) bool {
	at, aok := textOf(a.Shape)
	bt, bok := textOf(b.Shape)
	return aok && bok && at == bt && a.Locked == b.Locked
}

func textOf(s draw.Shape) (string, bool) {
	switch v := s.(type) {
	case draw.Text:
		return v.Text, true
	case draw.StickyNote:
		return v.Text, true
	}
	return "", false
}

// hitTextResizeHandle reports whether (x, y) lands on the wrap-width handle
// of an unlocked text shape: a small square just right of the shape bounds.
func (s *State) hitTextResizeHandle(x, y int) (draw.ShapeId, draw.ShapeSnapshot, int, float64, bool) {
	for _, id := range s.selection {
		drawn, ok := s.boards.ActiveFrame().Shape(id)
		if !ok || drawn.Locked {
			continue
		}
		var baseX int
		var size float64
		switch v := drawn.Shape.(type) {
		case draw.Text:
			baseX, size = v.X, v.Size
		case draw.StickyNote:
			baseX, size = v.X, v.Size
		default:
			continue
		}
		b, ok := draw.BoundingBox(drawn.Shape)
		if !ok {
			continue
		}
		handleX := b.MaxX() + textResizeHandleOffset
		handleY := b.Y + b.Height/2
		if pointNear(x, y, handleX, handleY, textResizeHandleSize/2+handleTolerance) {
			return id, drawn.Snapshot(), baseX, size, true
		}
	}
	return 0, draw.ShapeSnapshot{}, 0, 0, false
}

// clampTextWrapWidth bounds a dragged wrap width between a readable minimum
// and the space remaining on screen.
func (s *State) clampTextWrapWidth(baseX, x int, size float64) int {
	width := x - baseX
	minWidth := int(max(size*2, textWrapMinWidth))
	if width < minWidth {
		width = minWidth
	}
	if s.screenWidth > 0 && baseX+width > s.screenWidth {
		width = s.screenWidth - baseX
	}
	return width
}

// updateTextWrapWidth applies a live wrap width to the shape being resized.
func (s *State) updateTextWrapWidth(id draw.ShapeId, width int) {
	drawn, ok := s.boards.ActiveFrame().Shape(id)
	if !ok || drawn.Locked {
		return
	}
	switch v := drawn.Shape.(type) {
	case draw.Text:
		if v.WrapWidth != nil && *v.WrapWidth == width {
			return
		}
		s.dirty.MarkShape(drawn.Shape)
		w := width
		v.WrapWidth = &w
		drawn.Shape = v
	case draw.StickyNote:
		if v.WrapWidth != nil && *v.WrapWidth == width {
			return
		}
		s.dirty.MarkShape(drawn.Shape)
		w := width
		v.WrapWidth = &w
		drawn.Shape = v
	default:
		return
	}
	s.dirty.MarkShape(drawn.Shape)
	s.invalidateHitCacheFor(id)
	s.needsRedraw = true
}

// wrapWidthOf extracts the wrap width from a text shape snapshot.
func wrapWidthOf(s draw.Shape) *int {
	switch v := s.(type) {
	case draw.Text:
		return v.WrapWidth
	case draw.StickyNote:
		return v.WrapWidth
	}
	return nil
}
