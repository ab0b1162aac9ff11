package sim

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/san-kum/drivetrain/internal/timing"
)

// Simulator couples a simulated robot to a mock clock. Its scheduler
// integrates the robot over each yielded interval and then advances the
// clock, so control loops run as fast as the CPU allows while seeing
// consistent simulated time.
type Simulator struct {
	robot     *Robot
	clk       *clock.Mock
	scheduler *timing.StepScheduler
	observers []Observer
	start     time.Time
	steps     int
}

// Observer sees the robot state after every integration step.
type Observer interface {
	OnStep(x State, u Control, t float64)
}

func New(cfg Config, integrator Integrator) (*Simulator, error) {
	r, err := NewRobot(cfg, integrator)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		robot: r,
		clk:   clock.NewMock(),
	}
	s.start = s.clk.Now()
	s.scheduler = timing.NewStepScheduler(s.clk, s.step)
	return s, nil
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Robot() *Robot               { return s.robot }
func (s *Simulator) Clock() *clock.Mock          { return s.clk }
func (s *Simulator) Scheduler() timing.Scheduler { return s.scheduler }
func (s *Simulator) Elapsed() time.Duration      { return s.clk.Since(s.start) }
func (s *Simulator) Steps() int                  { return s.steps }

func (s *Simulator) step(d time.Duration) {
	// integration failures are latched on the robot and surfaced by Run
	_ = s.robot.Step(d.Seconds())
	s.steps++

	if len(s.observers) == 0 {
		return
	}
	x := s.robot.Snapshot()
	l, r := s.robot.Command()
	t := s.Elapsed().Seconds() + d.Seconds()
	for _, obs := range s.observers {
		obs.OnStep(x, Control{l, r}, t)
	}
}

// Run executes fn against the simulated robot and reports the first
// integration failure if fn itself succeeded.
func (s *Simulator) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return err
	}
	return s.robot.Err()
}
