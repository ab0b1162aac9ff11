// Package curve builds the cubic trajectory used by pose following and the
// sampled lookup table the follower walks along.
package curve

import (
	"math"

	"github.com/san-kum/drivetrain/internal/geom"
)

// Pose is a position with a heading in degrees (compass frame).
type Pose struct {
	Position geom.Coordinate
	Heading  float64
}

// Bezier is a cubic curve leaving Start tangent to its heading and arriving
// at End tangent to its heading. The biases are the distances of the two
// inner control points from their endpoints, i.e. how strongly each end
// pulls the curve along its heading.
type Bezier struct {
	Start     Pose
	End       Pose
	StartBias float64
	EndBias   float64

	p0, p1, p2, p3 geom.Coordinate
}

func NewBezier(start, end Pose, startBias, endBias float64) *Bezier {
	b := &Bezier{
		Start:     start,
		End:       end,
		StartBias: startBias,
		EndBias:   endBias,
	}
	b.p0 = start.Position
	b.p1 = geom.Project(start.Position, start.Heading, startBias)
	b.p2 = geom.Project(end.Position, end.Heading, -endBias)
	b.p3 = end.Position
	return b
}

// ControlPoints returns p0..p3.
func (b *Bezier) ControlPoints() [4]geom.Coordinate {
	return [4]geom.Coordinate{b.p0, b.p1, b.p2, b.p3}
}

// At evaluates the curve at parameter t in [0, 1]. t is clamped.
func (b *Bezier) At(t float64) geom.Coordinate {
	if t <= 0 {
		return b.p0
	}
	if t >= 1 {
		return b.p3
	}
	u := 1 - t
	w0 := u * u * u
	w1 := 3 * u * u * t
	w2 := 3 * u * t * t
	w3 := t * t * t
	return b.p0.Mul(w0).Add(b.p1.Mul(w1)).Add(b.p2.Mul(w2)).Add(b.p3.Mul(w3))
}

// Tangent is the first derivative at t.
func (b *Bezier) Tangent(t float64) geom.Coordinate {
	t = math.Max(0, math.Min(1, t))
	u := 1 - t
	a := b.p1.Sub(b.p0).Mul(3 * u * u)
	c := b.p2.Sub(b.p1).Mul(6 * u * t)
	d := b.p3.Sub(b.p2).Mul(3 * t * t)
	return a.Add(c).Add(d)
}

// HeadingAt is the direction of travel at t in degrees. Where the tangent
// vanishes (zero bias at an endpoint) the endpoint heading is used.
func (b *Bezier) HeadingAt(t float64) float64 {
	d := b.Tangent(t)
	if d.Norm() < 1e-12 {
		if t < 0.5 {
			return geom.NormalizeDeg(b.Start.Heading)
		}
		return geom.NormalizeDeg(b.End.Heading)
	}
	return geom.Bearing(geom.Pt(0, 0), d)
}

// CreateLUT samples the curve at resolution uniform parameter steps,
// returning resolution+1 points including both endpoints. A resolution
// below 1 yields nil.
func (b *Bezier) CreateLUT(resolution int) LUT {
	if resolution < 1 {
		return nil
	}
	lut := make(LUT, resolution+1)
	for i := 0; i <= resolution; i++ {
		lut[i] = b.At(float64(i) / float64(resolution))
	}
	// exact endpoints regardless of rounding
	lut[0] = b.p0
	lut[resolution] = b.p3
	return lut
}
