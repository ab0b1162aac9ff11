package integrators

import "github.com/san-kum/drivetrain/internal/sim"

// Euler is the explicit first-order method. With a 10 ms tick and no motor
// lag the drivetrain kinematics are well within its stable range.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t float64, dt float64) sim.State {
	dx := dyn.Derivative(x, u, t)
	result := make(sim.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
