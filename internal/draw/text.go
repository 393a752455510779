package draw

import (
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wayscriber/wayscriber/internal/geom"
)

// Text metrics come from a throwaway 1x1 drawing context so measuring never
// touches a real surface. Faces are cached per weight/style/size because
// truetype face construction is not cheap and text bounds are recomputed on
// every damage pass.

const (
	textLineSpacing   = 1.3
	textBackgroundPad = 4
	stickyNotePad     = 8
	stickyShadow      = 3
)

type faceKey struct {
	bold   bool
	italic bool
	size   float64
}

var (
	measureMu  sync.Mutex
	measureCtx *gg.Context
	faceCache  = map[faceKey]font.Face{}
	fontCache  = map[[2]bool]*truetype.Font{}
)

func lookupFace(fd FontDescriptor, size float64) (font.Face, bool) {
	bold := strings.EqualFold(fd.Weight, "bold")
	italic := strings.EqualFold(fd.Style, "italic")
	key := faceKey{bold: bold, italic: italic, size: size}
	if face, ok := faceCache[key]; ok {
		return face, true
	}

	ttf, ok := fontCache[[2]bool{bold, italic}]
	if !ok {
		var data []byte
		switch {
		case bold && italic:
			data = gobolditalic.TTF
		case bold:
			data = gobold.TTF
		case italic:
			data = goitalic.TTF
		default:
			data = goregular.TTF
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			return nil, false
		}
		ttf = parsed
		fontCache[[2]bool{bold, italic}] = ttf
	}

	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faceCache[key] = face
	return face, true
}

// measureText returns the ink extent of the text in pixels, honouring an
// optional wrap width. Returns false for empty text or an unusable face.
func measureText(text string, size float64, fd FontDescriptor, wrapWidth *int) (w, h float64, ok bool) {
	if text == "" || size <= 0 {
		return 0, 0, false
	}

	measureMu.Lock()
	defer measureMu.Unlock()

	face, ok := lookupFace(fd, size)
	if !ok {
		return 0, 0, false
	}
	if measureCtx == nil {
		measureCtx = gg.NewContext(1, 1)
	}
	measureCtx.SetFontFace(face)

	var lines []string
	if wrapWidth != nil && *wrapWidth > 0 {
		for _, para := range strings.Split(text, "\n") {
			lines = append(lines, measureCtx.WordWrap(para, float64(*wrapWidth))...)
		}
	} else {
		lines = strings.Split(text, "\n")
	}
	if len(lines) == 0 {
		return 0, 0, false
	}

	var maxLine float64
	for _, line := range lines {
		lw, _ := measureCtx.MeasureString(line)
		if lw > maxLine {
			maxLine = lw
		}
	}
	if wrapWidth != nil && *wrapWidth > 0 && maxLine < float64(*wrapWidth) {
		maxLine = float64(*wrapWidth)
	}

	height := float64(len(lines)) * size * textLineSpacing
	return maxLine, height, true
}

// textBounds computes the bounding box of a text shape anchored at its
// baseline origin (x, y). The first line's ascent extends above the baseline.
func textBounds(x, y int, text string, size float64, fd FontDescriptor, background bool, wrapWidth *int) (geom.Rect, bool) {
	w, h, ok := measureText(text, size, fd, wrapWidth)
	if !ok {
		// Zero-glyph shapes still occupy a caret-sized sliver.
		w, h = 1, size*textLineSpacing
	}
	top := float64(y) - size
	left := float64(x)
	right := left + w
	bottom := top + h
	if background {
		left -= textBackgroundPad
		top -= textBackgroundPad
		right += textBackgroundPad
		bottom += textBackgroundPad
	}
	return positiveRectF(left, top, right, bottom)
}

func stickyNoteBounds(x, y int, text string, size float64, fd FontDescriptor, wrapWidth *int) (geom.Rect, bool) {
	w, h, ok := measureText(text, size, fd, wrapWidth)
	if !ok {
		w, h = 1, size*textLineSpacing
	}
	top := float64(y) - size - stickyNotePad
	left := float64(x) - stickyNotePad
	right := float64(x) + w + stickyNotePad + stickyShadow
	bottom := top + h + 2*stickyNotePad + stickyShadow
	return positiveRectF(left, top, right, bottom)
}

// stepMarkerBounds covers the bubble circle plus its outline. The radius
// grows with the digit count so multi-digit labels stay inside the bubble.
func stepMarkerBounds(x, y int, label StepLabel) (geom.Rect, bool) {
	r := StepMarkerRadius(label)
	outline := stepMarkerOutline(label.Size)
	extent := r + outline/2
	return positiveRectF(
		float64(x)-extent,
		float64(y)-extent,
		float64(x)+extent,
		float64(y)+extent,
	)
}

// StepMarkerRadius returns the bubble radius for a step marker label.
func StepMarkerRadius(label StepLabel) float64 {
	digits := 1
	for v := label.Value; v >= 10; v /= 10 {
		digits++
	}
	base := label.Size * 0.9
	return base + float64(digits-1)*label.Size*0.25
}

func stepMarkerOutline(size float64) float64 {
	return math.Max(1.5, size*0.12)
}

// arrowLabelBounds positions the label ink box just off the arrow shaft
// midpoint, on the side away from the head.
func arrowLabelBounds(tipX, tipY, tailX, tailY int, thick float64, label *ArrowLabel) (geom.Rect, bool) {
	text := formatUint(label.Value)
	w, h, ok := measureText(text, label.Size, label.Font, nil)
	if !ok {
		return geom.Rect{}, false
	}

	midX := float64(tipX+tailX) / 2
	midY := float64(tipY+tailY) / 2
	dx := float64(tailX - tipX)
	dy := float64(tailY - tipY)
	dist := math.Hypot(dx, dy)
	offset := thick/2 + label.Size*0.75
	if dist > 0 {
		// Perpendicular offset from the shaft.
		midX += -dy / dist * offset
		midY += dx / dist * offset
	} else {
		midY -= offset
	}
	return positiveRectF(midX-w/2, midY-h/2, midX+w/2, midY+h/2)
}

func formatUint(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
