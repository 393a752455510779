package draw

// Color is an RGBA colour with components in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Common colours used by drawing defaults and board backgrounds.
var (
	Red   = Color{R: 1, A: 1}
	Green = Color{G: 1, A: 1}
	Blue  = Color{B: 1, A: 1}
	White = Color{R: 1, G: 1, B: 1, A: 1}
	Black = Color{A: 1}
)

// WithAlpha returns the colour with its alpha channel replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// FontDescriptor selects a font family plus weight and style for text shapes.
type FontDescriptor struct {
	Family string `json:"family"`
	Weight string `json:"weight,omitempty"`
	Style  string `json:"style,omitempty"`
}

// DefaultFont is used when a text shape carries no explicit descriptor.
func DefaultFont() FontDescriptor {
	return FontDescriptor{Family: "sans-serif", Weight: "normal", Style: "normal"}
}
