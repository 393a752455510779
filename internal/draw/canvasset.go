package draw

// BoardMode selects which board a canvas set is drawing on.
type BoardMode string

// Board modes. Transparent annotates the screen directly; whiteboard and
// blackboard are opaque boards.
const (
	ModeTransparent BoardMode = "transparent"
	ModeWhiteboard  BoardMode = "whiteboard"
	ModeBlackboard  BoardMode = "blackboard"
)

// ParseBoardMode maps a persisted mode string to a BoardMode, falling back
// to transparent for anything unrecognised.
func ParseBoardMode(s string) BoardMode {
	switch BoardMode(s) {
	case ModeWhiteboard:
		return ModeWhiteboard
	case ModeBlackboard:
		return ModeBlackboard
	default:
		return ModeTransparent
	}
}

// CanvasSet keeps one page list per board mode. The transparent board always
// exists; whiteboard and blackboard are created on first write so switching
// modes never allocates a board nobody draws on.
type CanvasSet struct {
	transparent *BoardPages
	whiteboard  *BoardPages
	blackboard  *BoardPages
	activeMode  BoardMode
}

// NewCanvasSet returns a set with only the transparent board initialised.
func NewCanvasSet() *CanvasSet {
	return &CanvasSet{
		transparent: NewBoardPages(),
		activeMode:  ModeTransparent,
	}
}

func (c *CanvasSet) ensurePages(mode BoardMode) *BoardPages {
	switch mode {
	case ModeWhiteboard:
		if c.whiteboard == nil {
			c.whiteboard = NewBoardPages()
		}
		return c.whiteboard
	case ModeBlackboard:
		if c.blackboard == nil {
			c.blackboard = NewBoardPages()
		}
		return c.blackboard
	default:
		return c.transparent
	}
}

// ActiveMode returns the active board mode.
func (c *CanvasSet) ActiveMode() BoardMode { return c.activeMode }

// SwitchMode changes the active board. Pages for the new mode are created
// lazily on first write, not here.
func (c *CanvasSet) SwitchMode(mode BoardMode) {
	c.activeMode = mode
}

// ActiveFrame returns the active page of the active board, creating the
// board if it does not exist yet.
func (c *CanvasSet) ActiveFrame() *Frame {
	return c.ensurePages(c.activeMode).ActiveFrame()
}

// ActivePages returns the page list of the active board, creating the board
// if needed.
func (c *CanvasSet) ActivePages() *BoardPages {
	return c.ensurePages(c.activeMode)
}

// ClearActive clears the active frame.
func (c *CanvasSet) ClearActive() {
	c.ActiveFrame().Clear()
}

// Pages returns the page list for a mode, or nil when the board was never
// created.
func (c *CanvasSet) Pages(mode BoardMode) *BoardPages {
	switch mode {
	case ModeWhiteboard:
		return c.whiteboard
	case ModeBlackboard:
		return c.blackboard
	default:
		return c.transparent
	}
}

// Frame returns the active frame for a mode, or nil when the board was never
// created.
func (c *CanvasSet) Frame(mode BoardMode) *Frame {
	if pages := c.Pages(mode); pages != nil {
		return pages.ActiveFrame()
	}
	return nil
}

// SetPages replaces a board's page list. A nil value resets the transparent
// board to a single empty page and removes the other boards entirely.
func (c *CanvasSet) SetPages(mode BoardMode, pages *BoardPages) {
	switch mode {
	case ModeWhiteboard:
		c.whiteboard = pages
	case ModeBlackboard:
		c.blackboard = pages
	default:
		if pages == nil {
			pages = NewBoardPages()
		}
		c.transparent = pages
	}
}

// PageCount returns the number of pages a mode holds; boards that were never
// created report one.
func (c *CanvasSet) PageCount(mode BoardMode) int {
	if pages := c.Pages(mode); pages != nil {
		return pages.PageCount()
	}
	return 1
}

// ActivePageIndex returns the active page index for a mode; boards that were
// never created report zero.
func (c *CanvasSet) ActivePageIndex(mode BoardMode) int {
	if pages := c.Pages(mode); pages != nil {
		return pages.ActiveIndex()
	}
	return 0
}

// NextPage advances the mode's active page.
func (c *CanvasSet) NextPage(mode BoardMode) bool {
	return c.ensurePages(mode).NextPage()
}

// PrevPage steps the mode's active page back.
func (c *CanvasSet) PrevPage(mode BoardMode) bool {
	return c.ensurePages(mode).PrevPage()
}

// NewPage appends an empty page to the mode's board.
func (c *CanvasSet) NewPage(mode BoardMode) {
	c.ensurePages(mode).NewPage()
}

// DuplicatePage copies the mode's active page.
func (c *CanvasSet) DuplicatePage(mode BoardMode) {
	c.ensurePages(mode).DuplicatePage()
}

// DeletePage removes the mode's active page, clearing instead when it is
// the last one.
func (c *CanvasSet) DeletePage(mode BoardMode) PageDeleteOutcome {
	return c.ensurePages(mode).DeletePage()
}
