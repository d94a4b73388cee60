// Package exercise provides per-frame form analysis and repetition counting
// for body-weight exercises.
package exercise

import (
	"math"

	"github.com/ayusman/vyayam/internal/pose"
)

// AngleAt computes the angle in degrees at vertex p2 formed by the segments
// p2-p1 and p2-p3. The result is in [0,180]. Degenerate input (either segment
// has zero length) yields 0; callers must not trust a 0° reading when the
// underlying landmarks are low confidence.
func AngleAt(p1, p2, p3 pose.Point) float64 {
	v1x := p1.X - p2.X
	v1y := p1.Y - p2.Y
	v2x := p3.X - p2.X
	v2y := p3.Y - p2.Y

	m1 := math.Sqrt(v1x*v1x + v1y*v1y)
	m2 := math.Sqrt(v2x*v2x + v2y*v2y)
	if m1 == 0 || m2 == 0 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y) / (m1 * m2)
	// Clamp to avoid NaN from acos when rounding pushes |cos| past 1.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b pose.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// inclineFromHorizontal computes the angle in degrees between the segment
// from base to top and the horizontal direction pointing from ref toward
// base. Near 0 the segment lies flat toward ref's far side, near 90 it is
// vertical, and past 90 it leans back over ref. Returns 0 when base and ref
// share an x coordinate or the segment has zero length.
func inclineFromHorizontal(top, base, ref pose.Point) float64 {
	dx := base.X - ref.X
	if dx == 0 {
		return 0
	}
	// Synthetic point one horizontal unit away from base, on ref's far side.
	away := pose.Point{X: base.X + math.Copysign(1, dx), Y: base.Y}
	return AngleAt(top, base, away)
}

// lineDistance returns the perpendicular distance from p to the infinite line
// through a and b. Returns the distance from p to a when a and b coincide.
func lineDistance(p, a, b pose.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return Distance(p, a)
	}
	cross := dx*(p.Y-a.Y) - dy*(p.X-a.X)
	return math.Abs(cross) / length
}
