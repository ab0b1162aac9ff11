package geom

import "math"

const fullTurn = 360.0

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDeg maps any angle in degrees onto [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, fullTurn)
	if deg < 0 {
		deg += fullTurn
	}
	// -1e-15 + 360 rounds to 360
	if deg >= fullTurn {
		deg = 0
	}
	return deg
}

// NormalizeRad maps any angle in radians onto [0, 2π).
func NormalizeRad(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	if rad >= 2*math.Pi {
		rad = 0
	}
	return rad
}

// MinError returns the signed shortest rotation, in degrees, that takes
// current onto target. The result lies in (-180, 180]; positive means
// clockwise (increasing heading).
func MinError(target, current float64) float64 {
	d := math.Mod(target-current, fullTurn)
	if d <= -180 {
		d += fullTurn
	} else if d > 180 {
		d -= fullTurn
	}
	return d
}

// AbsError is the magnitude of MinError.
func AbsError(target, current float64) float64 {
	return math.Abs(MinError(target, current))
}

// DirToSpin returns +1 when the minimal rotation from current to target is
// clockwise and -1 when it is counter-clockwise. Zero error reports +1.
func DirToSpin(target, current float64) int {
	if MinError(target, current) < 0 {
		return -1
	}
	return 1
}

// Sign returns -1, 0 or +1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
