package sim

import (
	"math"
	"math/rand"
	"sync"

	"github.com/san-kum/drivetrain/internal/geom"
	"github.com/san-kum/drivetrain/internal/robot"
)

// Robot is a simulated differential-drive base. It satisfies robot.Robot:
// heading, rotation and position come from the integrated state and the
// drivetrain commands become the model's control input.
type Robot struct {
	mu sync.Mutex

	dyn        *DiffDrive
	integrator Integrator
	cfg        Config
	rng        *rand.Rand

	x        State
	u        Control
	rotZero  float64
	t        float64
	steps    int
	stopMode robot.BrakeMode
	lastErr  error
}

var _ robot.Robot = (*Robot)(nil)

func NewRobot(cfg Config, integrator Integrator) (*Robot, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxCommand <= 0 {
		cfg.MaxCommand = 127
	}
	r := &Robot{
		dyn: &DiffDrive{
			TrackWidth:    cfg.TrackWidth,
			VelocityScale: cfg.VelocityScale,
			MotorLag:      cfg.MotorLag,
		},
		integrator: integrator,
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		x:          make(State, stateDim),
		u:          make(Control, 2),
	}
	r.x[IdxX] = cfg.StartX
	r.x[IdxY] = cfg.StartY
	r.x[IdxHeading] = geom.DegToRad(cfg.StartHeading)
	return r, nil
}

func (r *Robot) DegHeading() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := geom.RadToDeg(r.x[IdxHeading])
	if r.cfg.HeadingNoise > 0 {
		h += r.rng.NormFloat64() * r.cfg.HeadingNoise
	}
	return geom.NormalizeDeg(h)
}

func (r *Robot) RadHeading() float64 {
	return geom.NormalizeRad(geom.DegToRad(r.DegHeading()))
}

func (r *Robot) Rotation() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x[IdxRotation] - r.rotZero
}

func (r *Robot) ResetRotation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotZero = r.x[IdxRotation]
}

func (r *Robot) Position() geom.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return geom.Pt(r.x[IdxX], r.x[IdxY])
}

func (r *Robot) SpinDiffy(right, left float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setCommand(left, right)
}

func (r *Robot) Spin(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setCommand(v, v)
}

func (r *Robot) Stop(mode robot.BrakeMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setCommand(0, 0)
	r.stopMode = mode
	if mode != robot.Coast {
		r.x[IdxVLeft] = 0
		r.x[IdxVRight] = 0
	}
}

// setCommand must be called with mu held.
func (r *Robot) setCommand(left, right float64) {
	limit := r.cfg.MaxCommand
	r.u[0] = math.Max(-limit, math.Min(limit, left))
	r.u[1] = math.Max(-limit, math.Min(limit, right))
	if r.dyn.MotorLag == 0 {
		r.x[IdxVLeft] = r.u[0] * r.dyn.VelocityScale
		r.x[IdxVRight] = r.u[1] * r.dyn.VelocityScale
	}
}

// Step integrates the model forward by dt seconds.
func (r *Robot) Step(dt float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.integrator.Step(r.dyn, r.x, r.u, r.t, dt)
	if !next.IsValid() {
		if r.lastErr == nil {
			r.lastErr = SimError{Time: r.t, Step: r.steps, Message: "invalid state (NaN/Inf)"}
		}
		return r.lastErr
	}
	r.x = next
	r.t += dt
	r.steps++
	return nil
}

// Snapshot returns a copy of the full state vector.
func (r *Robot) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x.Clone()
}

// Command returns the last [left, right] command.
func (r *Robot) Command() (left, right float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.u[0], r.u[1]
}

func (r *Robot) LastStop() robot.BrakeMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopMode
}

// Err returns the first integration failure, if any.
func (r *Robot) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// SetHeading overrides the heading, for test setups.
func (r *Robot) SetHeading(deg float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.x[IdxHeading] = geom.DegToRad(deg)
}
