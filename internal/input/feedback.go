package input

import (
	"math"
	"time"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// Feedback timing.
const (
	toastDuration           = 5 * time.Second
	blockedFeedbackDuration = 200 * time.Millisecond
	maxActiveHighlights     = 4
	defaultHighlightRadius  = 22.0
)

// Toast is a transient status message, optionally naming the action whose
// keybinding resolves it.
type Toast struct {
	Message string
	Action  Action
	shownAt time.Time
}

// ShowToast displays a status message. A non-empty action lets the UI
// append the bound shortcut.
func (s *State) ShowToast(message string, action Action) {
	s.toast = &Toast{Message: message, Action: action, shownAt: s.now()}
	s.needsRedraw = true
}

// ActiveToast returns the current toast, expiring it when its window has
// passed.
func (s *State) ActiveToast() (Toast, bool) {
	if s.toast == nil {
		return Toast{}, false
	}
	if s.now().Sub(s.toast.shownAt) >= toastDuration {
		s.toast = nil
		s.needsRedraw = true
		return Toast{}, false
	}
	return *s.toast, true
}

// DismissToast clears the toast immediately.
func (s *State) DismissToast() {
	if s.toast != nil {
		s.toast = nil
		s.needsRedraw = true
	}
}

// flashBlocked starts the brief visual cue that an action was refused.
func (s *State) flashBlocked() {
	s.blockedSince = s.now()
	s.hasBlocked = true
	s.needsRedraw = true
}

// BlockedFeedbackActive reports whether the refusal cue should still render.
func (s *State) BlockedFeedbackActive() bool {
	if !s.hasBlocked {
		return false
	}
	if s.now().Sub(s.blockedSince) >= blockedFeedbackDuration {
		s.hasBlocked = false
		s.needsRedraw = true
		return false
	}
	return true
}

// ClickHighlightSettings configures the expanding ring drawn at click
// positions while highlight mode is active.
type ClickHighlightSettings struct {
	Enabled          bool
	Radius           float64
	OutlineThickness float64
	Duration         time.Duration
	Color            draw.Color
	UsePenColor      bool
}

func (c ClickHighlightSettings) withDefaults() ClickHighlightSettings {
	if c.Radius == 0 {
		c.Radius = defaultHighlightRadius
	}
	if c.OutlineThickness == 0 {
		c.OutlineThickness = 2
	}
	if c.Duration == 0 {
		c.Duration = 600 * time.Millisecond
	}
	if c.Color == (draw.Color{}) && !c.UsePenColor {
		c.Color = draw.Color{R: 1, G: 0.85, B: 0.2, A: 0.85}
	}
	return c
}

type clickFlash struct {
	x     int
	y     int
	start time.Time
	color draw.Color
}

// ClickHighlight tracks the short-lived click rings. At most
// maxActiveHighlights render at once; older flashes are dropped first.
type ClickHighlight struct {
	settings ClickHighlightSettings
	active   []clickFlash
}

// NewClickHighlight builds the tracker with defaults filled in.
func NewClickHighlight(settings ClickHighlightSettings) *ClickHighlight {
	return &ClickHighlight{settings: settings.withDefaults()}
}

// Enabled reports whether click highlighting is on.
func (c *ClickHighlight) Enabled() bool { return c.settings.Enabled }

// SetEnabled toggles click highlighting.
func (c *ClickHighlight) SetEnabled(enabled bool) { c.settings.Enabled = enabled }

// Spawn starts a flash at the click position.
func (c *ClickHighlight) Spawn(x, y int, penColor draw.Color, now time.Time) (geom.Rect, bool) {
	if !c.settings.Enabled {
		return geom.Rect{}, false
	}
	color := c.settings.Color
	if c.settings.UsePenColor {
		color = penColor
	}
	if len(c.active) >= maxActiveHighlights {
		c.active = c.active[len(c.active)-maxActiveHighlights+1:]
	}
	c.active = append(c.active, clickFlash{x: x, y: y, start: now, color: color})
	return c.flashBounds(x, y), true
}

// Advance expires finished flashes, returning the regions they occupied.
func (c *ClickHighlight) Advance(now time.Time) []geom.Rect {
	var expired []geom.Rect
	kept := c.active[:0]
	for _, f := range c.active {
		if now.Sub(f.start) >= c.settings.Duration {
			expired = append(expired, c.flashBounds(f.x, f.y))
			continue
		}
		kept = append(kept, f)
	}
	c.active = kept
	return expired
}

// ActiveCount returns how many flashes are currently live.
func (c *ClickHighlight) ActiveCount() int { return len(c.active) }

// flashBounds covers the ring plus outline with a little padding.
func (c *ClickHighlight) flashBounds(x, y int) geom.Rect {
	extent := int(math.Ceil(c.settings.Radius+c.settings.OutlineThickness)) + 2
	return geom.Rect{X: x - extent, Y: y - extent, Width: 2 * extent, Height: 2 * extent}
}

// ClickHighlights exposes the tracker for rendering and configuration.
func (s *State) ClickHighlights() *ClickHighlight { return s.clickHighlight }

// spawnClickHighlight starts a flash and damages its region.
func (s *State) spawnClickHighlight(x, y int) {
	if bounds, ok := s.clickHighlight.Spawn(x, y, s.color, s.now()); ok {
		s.dirty.MarkRect(bounds)
		s.needsRedraw = true
	}
}

// TickFeedback advances time-based feedback. The shell calls this from its
// frame loop; it returns true when another paint is needed.
func (s *State) TickFeedback() bool {
	repaint := false
	for _, r := range s.clickHighlight.Advance(s.now()) {
		s.dirty.MarkRect(r)
		repaint = true
	}
	if s.toast != nil {
		if _, ok := s.ActiveToast(); !ok {
			repaint = true
		}
	}
	if s.hasBlocked && !s.BlockedFeedbackActive() {
		repaint = true
	}
	if repaint {
		s.needsRedraw = true
	}
	return repaint
}
