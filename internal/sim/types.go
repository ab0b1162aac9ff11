package sim

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

// Config describes the simulated robot.
type Config struct {
	TrackWidth    float64
	VelocityScale float64
	// MotorLag is the first-order time constant of the wheels in seconds;
	// 0 makes them follow the command instantly.
	MotorLag float64
	// HeadingNoise is the standard deviation, in degrees, added to every
	// heading read.
	HeadingNoise float64
	MaxCommand   float64
	Seed         int64

	StartX       float64
	StartY       float64
	StartHeading float64
}

// DefaultConfig matches the competition drivetrain: a track of about 730
// rotation units and 21 units/s per command unit.
func DefaultConfig() Config {
	return Config{
		TrackWidth:    730,
		VelocityScale: 21,
		MaxCommand:    127,
		Seed:          1,
	}
}

// SimError reports a simulation that left the valid state space.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func validateConfig(cfg Config) error {
	if cfg.TrackWidth <= 0 {
		return fmt.Errorf("track width must be positive, got %f", cfg.TrackWidth)
	}
	if cfg.VelocityScale <= 0 {
		return fmt.Errorf("velocity scale must be positive, got %f", cfg.VelocityScale)
	}
	if cfg.MotorLag < 0 {
		return fmt.Errorf("motor lag must not be negative, got %f", cfg.MotorLag)
	}
	if cfg.HeadingNoise < 0 {
		return fmt.Errorf("heading noise must not be negative, got %f", cfg.HeadingNoise)
	}
	return nil
}
