package input

// OnScroll adjusts tool parameters from the wheel. Scrolling up is a
// negative delta in compositor coordinates; it increases the value.
func (s *State) OnScroll(delta float64) {
	steps := 1.0
	if delta > 0 {
		steps = -1.0
	}
	switch {
	case s.modifiers.Ctrl && s.modifiers.Alt:
		s.RequestZoom()
	case s.modifiers.Shift:
		s.SetFontSize(s.fontSize + steps*2)
	default:
		s.AdjustThicknessForTool(steps)
	}
}
