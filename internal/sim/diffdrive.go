package sim

import "math"

// State layout of the differential drive.
const (
	IdxX = iota
	IdxY
	IdxHeading // radians, unbounded, clockwise positive
	IdxRotation
	IdxVLeft
	IdxVRight
	stateDim
)

// DiffDrive is the kinematic model of a differential-drive base in the
// compass frame. Control is [left, right] in command units.
type DiffDrive struct {
	TrackWidth    float64
	VelocityScale float64
	MotorLag      float64
}

func (d *DiffDrive) StateDim() int   { return stateDim }
func (d *DiffDrive) ControlDim() int { return 2 }

func (d *DiffDrive) Derivative(x State, u Control, t float64) State {
	dx := make(State, stateDim)
	vl, vr := x[IdxVLeft], x[IdxVRight]
	v := (vl + vr) / 2
	s, c := math.Sincos(x[IdxHeading])

	dx[IdxX] = v * s
	dx[IdxY] = v * c
	dx[IdxHeading] = (vl - vr) / d.TrackWidth
	dx[IdxRotation] = v

	if d.MotorLag > 0 && len(u) >= 2 {
		dx[IdxVLeft] = (u[0]*d.VelocityScale - vl) / d.MotorLag
		dx[IdxVRight] = (u[1]*d.VelocityScale - vr) / d.MotorLag
	}
	return dx
}
