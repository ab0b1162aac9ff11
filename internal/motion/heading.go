package motion

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/drivetrain/internal/control"
	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/geom"
)

// SpinTo turns in place to an absolute heading in degrees. It ends once the
// heading error has stayed within tolerance for the spin settle time, or on
// timeout.
func (c *Chassis) SpinTo(ctx context.Context, target float64, timeout time.Duration, k control.Constants) (Result, error) {
	l := c.begin(ctx, "spin_to", timeout, k.Tolerance).withSettle(c.tuning.SpinSettle)

	heading := c.robot.DegHeading()
	pid := control.NewPID(k, geom.MinError(target, heading))

	for {
		heading = c.robot.DegHeading()
		err := geom.MinError(target, heading)
		if reason, done := l.check(err); done {
			return l.finish(reason)
		}

		l.command(drivetrain.Spin(pid.Out(err)))
		l.yield()
	}
}

// SpinToDefault runs SpinTo with the configured spin gains.
func (c *Chassis) SpinToDefault(ctx context.Context, target float64, timeout time.Duration) (Result, error) {
	return c.SpinTo(ctx, target, timeout, c.tuning.Spin)
}

// TimedSpin spins open-loop at a fixed speed toward target. It stops when
// the required direction flips, meaning the heading overshot the target,
// or on timeout.
func (c *Chassis) TimedSpin(ctx context.Context, target, speed float64, timeout time.Duration) (Result, error) {
	l := c.begin(ctx, "timed_spin", timeout, 0)
	initDir := geom.DirToSpin(target, c.robot.DegHeading())
	speed = math.Abs(speed)

	for {
		heading := c.robot.DegHeading()
		dir := geom.DirToSpin(target, heading)
		if reason, done := l.check(geom.MinError(target, heading)); done {
			return l.finish(reason)
		}
		if dir != initDir {
			return l.finish(Overshoot)
		}

		l.command(drivetrain.Spin(float64(dir) * speed))
		l.yield()
	}
}

// VelsUntilHeading drives fixed, open-loop right/left commands until the
// heading is within tolerance of the target, or on timeout.
func (c *Chassis) VelsUntilHeading(ctx context.Context, rvolt, lvolt, heading, tolerance float64, timeout time.Duration) (Result, error) {
	l := c.begin(ctx, "vels_until_heading", timeout, tolerance)
	w := drivetrain.Wheels{Left: lvolt, Right: rvolt}

	for {
		err := geom.MinError(heading, c.robot.DegHeading())
		if reason, done := l.check(err); done {
			return l.finish(reason)
		}
		if math.Abs(err) <= tolerance {
			return l.finish(ReachedTolerance)
		}

		l.command(w)
		l.yield()
	}
}

// ArcTurn drives an arc of the given radius until the heading reaches
// theta (radians, absolute). The left/right split is fixed by geometry:
// left/right = (radius+offsetLeft)/(radius+offsetRight). The PID only sets
// the overall magnitude, and the pair is scaled down together when it
// would exceed the actuator range so the ratio holds on every tick.
func (c *Chassis) ArcTurn(ctx context.Context, theta, radius float64, timeout time.Duration, k control.Constants) (Result, error) {
	l := c.begin(ctx, "arc_turn", timeout, k.Tolerance)

	ratio, ok := drivetrain.ArcRatio(radius, c.tuning.TrackOffsetLeft, c.tuning.TrackOffsetRight)
	if !ok {
		return l.reject(ErrDegenerateArc)
	}
	// sense is +1 when driving forward along this arc turns clockwise
	probe := drivetrain.ArcSplit(1, ratio, math.Inf(1))
	sense := geom.Sign(probe.Left - probe.Right)
	if sense == 0 {
		return l.reject(ErrDegenerateArc)
	}

	target := geom.NormalizeDeg(geom.RadToDeg(theta))
	pid := control.NewPID(k, geom.MinError(target, c.robot.DegHeading()))
	limit := c.tuning.MaxCommand

	for {
		err := geom.MinError(target, c.robot.DegHeading())
		if reason, done := l.check(err); done {
			return l.finish(reason)
		}

		v := drivetrain.Clamp(sense*pid.Out(err), limit)
		l.command(drivetrain.ArcSplit(v, ratio, limit))
		l.yield()
	}
}

// ArcTurnDefault runs ArcTurn with the configured arc gains.
func (c *Chassis) ArcTurnDefault(ctx context.Context, theta, radius float64, timeout time.Duration) (Result, error) {
	return c.ArcTurn(ctx, theta, radius, timeout, c.tuning.Arc)
}
