package geom

import "math"

// ArrowheadTriangle holds the three corners of an arrowhead in float pixels.
// Tip is the point of the arrow; Left and Right are the barb corners.
type ArrowheadTriangle struct {
	Tip   [2]float64
	Left  [2]float64
	Right [2]float64
}

// Arrowhead computes the triangular head for an arrow whose tip sits at
// (tipX, tipY) and whose shaft runs toward (tailX, tailY). Length and angle
// (degrees) describe the head geometry; the head scales up slightly with
// stroke thickness so thick arrows stay readable. Returns false for a
// zero-length shaft.
func Arrowhead(tipX, tipY, tailX, tailY int, thick, length, angleDeg float64) (ArrowheadTriangle, bool) {
	dx := float64(tailX - tipX)
	dy := float64(tailY - tipY)
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return ArrowheadTriangle{}, false
	}

	scaled := length + thick*1.5
	if scaled > dist {
		scaled = dist
	}
	angle := angleDeg * math.Pi / 180

	shaft := math.Atan2(dy, dx)
	leftAngle := shaft + angle
	rightAngle := shaft - angle

	tip := [2]float64{float64(tipX), float64(tipY)}
	left := [2]float64{
		tip[0] + scaled*math.Cos(leftAngle),
		tip[1] + scaled*math.Sin(leftAngle),
	}
	right := [2]float64{
		tip[0] + scaled*math.Cos(rightAngle),
		tip[1] + scaled*math.Sin(rightAngle),
	}
	return ArrowheadTriangle{Tip: tip, Left: left, Right: right}, true
}

// EllipseFromDrag converts a drag gesture (press at x1,y1 and release at
// x2,y2) into a centre plus radii, matching how the overlay previews an
// ellipse inscribed in the dragged rectangle.
func EllipseFromDrag(x1, y1, x2, y2 int) (cx, cy, rx, ry int) {
	minX, maxX := min(x1, x2), max(x1, x2)
	minY, maxY := min(y1, y2), max(y1, y2)
	cx = (minX + maxX) / 2
	cy = (minY + maxY) / 2
	rx = (maxX - minX) / 2
	ry = (maxY - minY) / 2
	return
}
