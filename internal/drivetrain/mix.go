// Package drivetrain maps linear and rotational demands onto left/right
// wheel commands for a differential drive and keeps them inside the
// actuator range. Positive rotation is clockwise: it speeds up the left
// side and slows the right.
package drivetrain

import "math"

// MaxCommand is the actuator range in source units (±127).
const MaxCommand = 127.0

// Wheels is one tick's command pair.
type Wheels struct {
	Left  float64
	Right float64
}

// Clamp limits v to [-limit, limit].
func Clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

// Spin is an in-place turn: the sides run at equal and opposite speed.
func Spin(v float64) Wheels {
	return Wheels{Left: v, Right: -v}
}

// Straight drives both sides at v.
func Straight(v float64) Wheels {
	return Wheels{Left: v, Right: v}
}

// Clamp limits each side independently.
func (w Wheels) Clamp(limit float64) Wheels {
	return Wheels{Left: Clamp(w.Left, limit), Right: Clamp(w.Right, limit)}
}

// Desaturate scales both sides by the same factor so the larger magnitude
// is at most limit. The left/right ratio is preserved.
func (w Wheels) Desaturate(limit float64) Wheels {
	peak := math.Max(math.Abs(w.Left), math.Abs(w.Right))
	if peak <= limit || peak == 0 {
		return w
	}
	k := limit / peak
	return Wheels{Left: w.Left * k, Right: w.Right * k}
}

// Mix combines a linear and a rotational demand. The rotational term is
// clipped first and the linear term gets whatever headroom remains, so
// heading correction is never starved by forward speed.
func Mix(linear, rotation, limit float64) Wheels {
	rotation = Clamp(rotation, limit)
	room := limit - math.Abs(rotation)
	linear = Clamp(linear, room)
	return Wheels{Left: linear + rotation, Right: linear - rotation}
}

// Blend is the point-seek mix: the whole command is slowed by
// |rotation|*bias so sharp turns advance less, then rotation is added to
// the left side and subtracted from the right.
func Blend(linear, rotation, bias float64) Wheels {
	base := linear - math.Abs(rotation)*bias
	return Wheels{Left: base + rotation, Right: base - rotation}
}

// ArcRatio is the left/right travel ratio for an arc of the given radius,
// with each side offset from the turning centre by its track offset.
// ok is false when the ratio is undefined or cannot be split.
func ArcRatio(radius, offsetLeft, offsetRight float64) (ratio float64, ok bool) {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return 0, false
	}
	right := radius + offsetRight
	if right == 0 {
		return 0, false
	}
	ratio = (radius + offsetLeft) / right
	if ratio == -1 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0, false
	}
	return ratio, true
}

// ArcSplit distributes a mean speed v across both sides at the given
// left/right ratio and desaturates the pair to limit.
func ArcSplit(v, ratio, limit float64) Wheels {
	right := 2 * v / (ratio + 1)
	return Wheels{Left: ratio * right, Right: right}.Desaturate(limit)
}
