package motion

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/robot"
	"github.com/san-kum/drivetrain/internal/timing"
)

// Reason says why a primitive returned.
type Reason int

const (
	Timeout Reason = iota
	Settled
	ReachedTolerance
	Overshoot
	PathComplete
	Canceled
	Rejected
)

func (r Reason) String() string {
	switch r {
	case Timeout:
		return "timeout"
	case Settled:
		return "settled"
	case ReachedTolerance:
		return "tolerance"
	case Overshoot:
		return "overshoot"
	case PathComplete:
		return "path_complete"
	case Canceled:
		return "canceled"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Result summarises one primitive run.
type Result struct {
	Primitive  string
	Reason     Reason
	Elapsed    time.Duration
	Ticks      int
	FinalError float64
	// Converged reports whether |error| was ever within tolerance;
	// SettledAt is the first instant it was.
	Converged bool
	SettledAt time.Duration
}

// loop is the Running -> Settling -> Terminated machine shared by every
// primitive. A primitive samples its sensors, computes an error, asks
// check whether to terminate, commands the actuators and yields.
type loop struct {
	c         *Chassis
	ctx       context.Context
	name      string
	timeout   time.Duration
	tolerance float64

	timer     *timing.Timer
	settle    *timing.Timer
	settleFor time.Duration

	res Result
}

func (c *Chassis) begin(ctx context.Context, name string, timeout time.Duration, tolerance float64) *loop {
	clk := c.sched.Clock()
	return &loop{
		c:         c,
		ctx:       ctx,
		name:      name,
		timeout:   timeout,
		tolerance: tolerance,
		timer:     timing.NewTimer(clk),
		res:       Result{Primitive: name},
	}
}

// withSettle enables the Settling state: the loop ends once |error| has
// stayed under tolerance for d.
func (l *loop) withSettle(d time.Duration) *loop {
	l.settle = timing.NewTimer(l.c.sched.Clock())
	l.settleFor = d
	return l
}

// check records err for this tick and reports whether the loop must stop.
// The timeout is evaluated first and always wins.
func (l *loop) check(err float64) (Reason, bool) {
	l.res.FinalError = err
	elapsed := l.timer.Elapsed()
	mag := math.Abs(err)

	if !l.res.Converged && mag <= l.tolerance {
		l.res.Converged = true
		l.res.SettledAt = elapsed
	}

	if elapsed >= l.timeout {
		return Timeout, true
	}
	if l.ctx.Err() != nil {
		return Canceled, true
	}

	if l.settle != nil {
		if mag >= l.tolerance {
			l.settle.Reset()
		} else if l.settle.Elapsed() >= l.settleFor {
			return Settled, true
		}
	}
	return 0, false
}

// command issues a wheel pair, clamped to the actuator range.
func (l *loop) command(w drivetrain.Wheels) {
	w = w.Clamp(l.c.tuning.MaxCommand)
	l.c.robot.SpinDiffy(w.Right, w.Left)
	l.observe(w)
}

// spin issues the same command to both sides through Spin.
func (l *loop) spin(v float64) {
	v = drivetrain.Clamp(v, l.c.tuning.MaxCommand)
	l.c.robot.Spin(v)
	l.observe(drivetrain.Straight(v))
}

func (l *loop) observe(w drivetrain.Wheels) {
	r := l.c.robot
	s := Sample{
		Primitive: l.name,
		Tick:      l.res.Ticks,
		Elapsed:   l.timer.Elapsed(),
		Error:     l.res.FinalError,
		Command:   w,
		Heading:   r.DegHeading(),
		Rotation:  r.Rotation(),
		Position:  r.Position(),
	}
	l.c.emit(s)
	l.c.logger.Debug("tick",
		zap.String("primitive", l.name),
		zap.Int("tick", s.Tick),
		zap.Float64("error", s.Error),
		zap.Float64("left", w.Left),
		zap.Float64("right", w.Right),
	)
}

func (l *loop) yield() {
	l.res.Ticks++
	l.c.sched.Yield(l.c.tuning.Tick)
}

// finish brakes and returns the result. A canceled context is reported as
// an error so callers chaining primitives stop the sequence.
func (l *loop) finish(reason Reason) (Result, error) {
	l.c.robot.Stop(robot.Brake)
	l.res.Reason = reason
	l.res.Elapsed = l.timer.Elapsed()
	l.c.logger.Info("primitive finished",
		zap.String("primitive", l.name),
		zap.Stringer("reason", reason),
		zap.Duration("elapsed", l.res.Elapsed),
		zap.Int("ticks", l.res.Ticks),
		zap.Float64("error", l.res.FinalError),
	)
	l.c.report(l.res)
	if reason == Canceled {
		return l.res, l.ctx.Err()
	}
	return l.res, nil
}

// reject brakes without running the loop.
func (l *loop) reject(err error) (Result, error) {
	l.c.robot.Stop(robot.Brake)
	l.res.Reason = Rejected
	l.c.logger.Warn("primitive rejected", zap.String("primitive", l.name), zap.Error(err))
	l.c.report(l.res)
	return l.res, err
}
