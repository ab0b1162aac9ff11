package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Coordinate is a position in the fixed field frame. The frame is compass
// style: heading 0 faces +Y and headings grow clockwise, so a robot at
// heading h moves along (sin h, cos h).
type Coordinate = r2.Point

// Pt builds a Coordinate.
func Pt(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y}
}

// Distance is the Euclidean distance from a to b.
func Distance(a, b Coordinate) float64 {
	return b.Sub(a).Norm()
}

// Bearing is the absolute heading, in degrees on [0, 360), of the ray from
// a to b. Coincident points have no defined bearing; 0 is returned.
func Bearing(a, b Coordinate) float64 {
	d := b.Sub(a)
	if d.X == 0 && d.Y == 0 {
		return 0
	}
	return NormalizeDeg(RadToDeg(math.Atan2(d.X, d.Y)))
}

// Forward is the unit vector a robot at the given heading (degrees) drives along.
func Forward(headingDeg float64) Coordinate {
	s, c := math.Sincos(DegToRad(headingDeg))
	return Coordinate{X: s, Y: c}
}

// Project returns the point dist units ahead of p along headingDeg.
// Negative dist projects behind.
func Project(p Coordinate, headingDeg, dist float64) Coordinate {
	return p.Add(Forward(headingDeg).Mul(dist))
}

// AlongTrack is the signed distance from p to target measured along
// headingDeg: positive when the target is ahead.
func AlongTrack(p, target Coordinate, headingDeg float64) float64 {
	return target.Sub(p).Dot(Forward(headingDeg))
}
