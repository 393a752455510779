package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wayscriber/wayscriber/internal/draw"
)

var namedColors = map[string]draw.Color{
	"red":     {R: 1, A: 1},
	"green":   {G: 1, A: 1},
	"blue":    {B: 1, A: 1},
	"white":   {R: 1, G: 1, B: 1, A: 1},
	"black":   {A: 1},
	"yellow":  {R: 1, G: 1, A: 1},
	"orange":  {R: 1, G: 0.65, A: 1},
	"purple":  {R: 0.5, B: 0.5, A: 1},
	"cyan":    {G: 1, B: 1, A: 1},
	"magenta": {R: 1, B: 1, A: 1},
	"pink":    {R: 1, G: 0.75, B: 0.8, A: 1},
	"gray":    {R: 0.5, G: 0.5, B: 0.5, A: 1},
	"grey":    {R: 0.5, G: 0.5, B: 0.5, A: 1},
}

// ParseColor resolves a colour name or a #RGB, #RRGGBB, or #RRGGBBAA hex
// string into a draw colour.
func ParseColor(s string) (draw.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[name]; ok {
		return c, nil
	}
	if !strings.HasPrefix(name, "#") {
		return draw.Color{}, fmt.Errorf("unknown color %q", s)
	}

	hex := name[1:]
	switch len(hex) {
	case 3:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String() + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return draw.Color{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return draw.Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	return draw.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
