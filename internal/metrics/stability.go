package metrics

import (
	"math"
	"time"

	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/motion"
)

// IntegratedError is the integral of |error| dt in error-seconds. Time
// between samples of different primitives is not counted.
type IntegratedError struct {
	sum       float64
	primitive string
	last      time.Duration
}

func NewIntegratedError() *IntegratedError { return &IntegratedError{} }

func (e *IntegratedError) Name() string { return "iae" }

func (e *IntegratedError) OnTick(s motion.Sample) {
	if s.Primitive == e.primitive && s.Elapsed > e.last {
		e.sum += math.Abs(s.Error) * (s.Elapsed - e.last).Seconds()
	}
	e.primitive = s.Primitive
	e.last = s.Elapsed
}

func (e *IntegratedError) Value() float64 { return e.sum }

func (e *IntegratedError) Reset() {
	e.sum = 0
	e.primitive = ""
	e.last = 0
}

// Saturation is the fraction of ticks where either wheel sat at the
// command limit.
type Saturation struct {
	limit      float64
	violations int
	samples    int
}

// NewSaturation uses drivetrain.MaxCommand when limit <= 0.
func NewSaturation(limit float64) *Saturation {
	if limit <= 0 {
		limit = drivetrain.MaxCommand
	}
	return &Saturation{limit: limit}
}

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) OnTick(sample motion.Sample) {
	s.samples++
	if math.Abs(sample.Command.Left) >= s.limit || math.Abs(sample.Command.Right) >= s.limit {
		s.violations++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.violations = 0
	s.samples = 0
}
