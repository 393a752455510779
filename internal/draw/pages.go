package draw

// BoardPages is the ordered page list of a single board mode, with exactly
// one active page. The list is never empty.
type BoardPages struct {
	pages  []*Frame
	active int
}

// PageDeleteOutcome tells the caller what a delete request did.
type PageDeleteOutcome int

const (
	// PageRemoved means the page was removed from the board.
	PageRemoved PageDeleteOutcome = iota
	// PageCleared means the last remaining page was cleared in place.
	PageCleared
	// PageDeletePending means nothing happened, e.g. the index was out of
	// range or the request awaits confirmation.
	PageDeletePending
)

// NewBoardPages returns a board with one empty page.
func NewBoardPages() *BoardPages {
	return &BoardPages{pages: []*Frame{NewFrame()}}
}

// BoardPagesFrom builds a board from existing pages, clamping the active
// index. An empty slice yields a single empty page.
func BoardPagesFrom(pages []*Frame, active int) *BoardPages {
	if len(pages) == 0 {
		pages = []*Frame{NewFrame()}
	}
	if active < 0 {
		active = 0
	}
	if active > len(pages)-1 {
		active = len(pages) - 1
	}
	return &BoardPages{pages: pages, active: active}
}

// PageCount returns the number of pages.
func (b *BoardPages) PageCount() int { return len(b.pages) }

// ActiveIndex returns the active page index.
func (b *BoardPages) ActiveIndex() int { return b.active }

// ActiveFrame returns the active page.
func (b *BoardPages) ActiveFrame() *Frame { return b.pages[b.active] }

// Pages returns the page list in order. Callers must not mutate it.
func (b *BoardPages) Pages() []*Frame { return b.pages }

// NextPage advances to the following page if one exists.
func (b *BoardPages) NextPage() bool {
	if b.active+1 < len(b.pages) {
		b.active++
		return true
	}
	return false
}

// PrevPage steps back to the previous page if one exists.
func (b *BoardPages) PrevPage() bool {
	if b.active > 0 {
		b.active--
		return true
	}
	return false
}

// SwitchToPage activates the page at index. Returns false when the index is
// out of range or already active.
func (b *BoardPages) SwitchToPage(index int) bool {
	if index >= 0 && index < len(b.pages) && index != b.active {
		b.active = index
		return true
	}
	return false
}

// NewPage appends an empty page and makes it active.
func (b *BoardPages) NewPage() {
	b.pages = append(b.pages, NewFrame())
	b.active = len(b.pages) - 1
}

// DuplicatePage appends a history-free copy of the active page and makes it
// active.
func (b *BoardPages) DuplicatePage() {
	b.pages = append(b.pages, b.ActiveFrame().CloneWithoutHistory())
	b.active = len(b.pages) - 1
}

// DuplicatePageAt clones the page at index, inserts the copy right after it,
// and activates the copy. Returns the copy's index.
func (b *BoardPages) DuplicatePageAt(index int) (int, bool) {
	if index < 0 || index >= len(b.pages) {
		return 0, false
	}
	cloned := b.pages[index].CloneWithoutHistory()
	insertAt := index + 1
	b.insertAt(insertAt, cloned)
	b.active = insertAt
	return insertAt, true
}

// InsertPage places a page right after the active one and activates it.
func (b *BoardPages) InsertPage(page *Frame) {
	insertAt := b.active + 1
	if insertAt > len(b.pages) {
		insertAt = len(b.pages)
	}
	b.insertAt(insertAt, page)
	b.active = insertAt
}

// DeletePage removes the active page. The last remaining page is cleared in
// place instead of removed.
func (b *BoardPages) DeletePage() PageDeleteOutcome {
	if len(b.pages) == 1 {
		b.pages[0].Clear()
		return PageCleared
	}
	b.removeAt(b.active)
	if b.active >= len(b.pages) {
		b.active = len(b.pages) - 1
	}
	return PageRemoved
}

// DeletePageAt removes the page at index, clearing instead when it is the
// only page.
func (b *BoardPages) DeletePageAt(index int) PageDeleteOutcome {
	if index < 0 || index >= len(b.pages) {
		return PageDeletePending
	}
	if len(b.pages) == 1 {
		b.pages[0].Clear()
		b.active = 0
		return PageCleared
	}
	b.removeAt(index)
	if b.active == index {
		if b.active >= len(b.pages) {
			b.active = len(b.pages) - 1
		}
	} else if b.active > index {
		b.active--
	}
	return PageRemoved
}

// TakePage removes and returns the page at index. The board always keeps at
// least one page; taking the only page swaps in a fresh empty one.
func (b *BoardPages) TakePage(index int) (*Frame, bool) {
	if index < 0 || index >= len(b.pages) {
		return nil, false
	}
	if len(b.pages) == 1 {
		page := b.pages[0]
		b.pages[0] = NewFrame()
		b.active = 0
		return page, true
	}
	page := b.pages[index]
	b.removeAt(index)
	if b.active == index {
		if b.active >= len(b.pages) {
			b.active = len(b.pages) - 1
		}
	} else if b.active > index {
		b.active--
	}
	return page, true
}

// PushPage appends a page, activates it, and returns its index.
func (b *BoardPages) PushPage(page *Frame) int {
	b.pages = append(b.pages, page)
	b.active = len(b.pages) - 1
	return b.active
}

// MovePage relocates a page from one index to another, keeping the active
// page the same frame wherever it lands.
func (b *BoardPages) MovePage(from, to int) bool {
	n := len(b.pages)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	page := b.pages[from]
	b.removeAt(from)
	insertAt := to
	if insertAt > len(b.pages) {
		insertAt = len(b.pages)
	}
	b.insertAt(insertAt, page)

	switch {
	case b.active == from:
		b.active = insertAt
	case from < b.active && insertAt >= b.active:
		b.active--
	case from > b.active && insertAt <= b.active:
		b.active++
		if max := len(b.pages) - 1; b.active > max {
			b.active = max
		}
	}
	return true
}

// TrimTrailingEmptyPages drops pages with no persistable data from the tail,
// always keeping at least one page.
func (b *BoardPages) TrimTrailingEmptyPages() {
	for len(b.pages) > 1 && !b.pages[len(b.pages)-1].HasPersistableData() {
		b.pages = b.pages[:len(b.pages)-1]
		if b.active >= len(b.pages) {
			b.active = len(b.pages) - 1
		}
	}
}

// PageNameAt returns the name of the page at index, if set.
func (b *BoardPages) PageNameAt(index int) (string, bool) {
	if index < 0 || index >= len(b.pages) {
		return "", false
	}
	name := b.pages[index].PageName()
	return name, name != ""
}

// SetPageNameAt names the page at index. An empty name clears it.
func (b *BoardPages) SetPageNameAt(index int, name string) bool {
	if index < 0 || index >= len(b.pages) {
		return false
	}
	b.pages[index].SetPageName(name)
	return true
}

func (b *BoardPages) insertAt(index int, page *Frame) {
	b.pages = append(b.pages, nil)
	copy(b.pages[index+1:], b.pages[index:])
	b.pages[index] = page
}

func (b *BoardPages) removeAt(index int) {
	b.pages = append(b.pages[:index], b.pages[index+1:]...)
}
