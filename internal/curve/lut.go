package curve

import (
	"math"

	"github.com/san-kum/drivetrain/internal/geom"
)

// LUT is an ordered table of curve samples at uniform parameter steps.
type LUT []geom.Coordinate

// Resolution is the number of steps, one less than the sample count.
func (l LUT) Resolution() int {
	if len(l) == 0 {
		return 0
	}
	return len(l) - 1
}

// ApproximateLength sums the distances between consecutive samples. It
// under-estimates the arc length of a curved path and converges from below
// as resolution grows.
func ApproximateLength(lut LUT) float64 {
	var total float64
	for i := 1; i < len(lut); i++ {
		total += geom.Distance(lut[i-1], lut[i])
	}
	return total
}

// ProgressIndex maps a travelled distance onto the sample that lies at or
// just beyond it, assuming samples are evenly spread along the arc. The
// result is clamped to [1, Resolution] so the target is never the sample
// the robot started on.
func (l LUT) ProgressIndex(travelled, length float64) int {
	n := l.Resolution()
	if n == 0 {
		return 0
	}
	if length <= 0 {
		return n
	}
	idx := int(math.Ceil(travelled / length * float64(n)))
	if idx < 1 {
		idx = 1
	}
	if idx > n {
		idx = n
	}
	return idx
}

// Last returns the final sample.
func (l LUT) Last() geom.Coordinate {
	return l[len(l)-1]
}
