package control

import "math"

// Constants are the tuning of one PID run.
type Constants struct {
	P float64 `yaml:"p"`
	I float64 `yaml:"i"`
	D float64 `yaml:"d"`
	// Tolerance is the error magnitude at or below which the integral is
	// cleared and a primitive may start settling.
	Tolerance float64 `yaml:"tolerance"`
	// IntegralThreshold freezes accumulation while |error| is at or above it.
	IntegralThreshold float64 `yaml:"integral_threshold"`
	// MaxIntegral zeroes the accumulator once its magnitude exceeds it.
	MaxIntegral float64 `yaml:"max_integral"`
}

// NewConstants mirrors the positional form used in routine scripts.
func NewConstants(p, i, d, tolerance, integralThreshold, maxIntegral float64) Constants {
	return Constants{
		P:                 p,
		I:                 i,
		D:                 d,
		Tolerance:         tolerance,
		IntegralThreshold: integralThreshold,
		MaxIntegral:       maxIntegral,
	}
}

// PID is a discrete, tick-based controller. It carries no notion of dt:
// the integral is a plain sum of errors and the derivative is the
// difference from the previous sample.
type PID struct {
	constants Constants
	integral  float64
	prevErr   float64
}

// NewPID creates a controller. initialError seeds the previous error so the
// first derivative sample does not kick.
func NewPID(c Constants, initialError float64) *PID {
	return &PID{
		constants: c,
		prevErr:   initialError,
	}
}

// Out feeds one error sample and returns the unsaturated control value.
func (p *PID) Out(err float64) float64 {
	c := p.constants
	mag := math.Abs(err)

	switch {
	case mag <= c.Tolerance:
		p.integral = 0
	case mag < c.IntegralThreshold:
		p.integral += err
	}

	if math.Abs(p.integral) > c.MaxIntegral {
		p.integral = 0
	}

	derivative := err - p.prevErr
	p.prevErr = err

	return c.P*err + c.I*p.integral + c.D*derivative
}

// Update swaps the gains mid-run. Integral and derivative history are kept,
// which is what gain scheduling relies on.
func (p *PID) Update(c Constants) {
	p.constants = c
}

func (p *PID) Constants() Constants { return p.constants }
func (p *PID) Integral() float64    { return p.integral }

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":                p.constants.P,
		"Ki":                p.constants.I,
		"Kd":                p.constants.D,
		"Tolerance":         p.constants.Tolerance,
		"IntegralThreshold": p.constants.IntegralThreshold,
		"MaxIntegral":       p.constants.MaxIntegral,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.constants.P = value
	case "Ki":
		p.constants.I = value
	case "Kd":
		p.constants.D = value
	case "Tolerance":
		p.constants.Tolerance = value
	case "IntegralThreshold":
		p.constants.IntegralThreshold = value
	case "MaxIntegral":
		p.constants.MaxIntegral = value
	}
}
