package motion

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/drivetrain/internal/control"
	"github.com/san-kum/drivetrain/internal/curve"
	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/geom"
)

// PointSeek is the stateless velocity blend toward a target point: a
// linear term proportional to distance and a rotational term proportional
// to the bearing error, with the whole command slowed by
// |rotation|*rotationBias.
func PointSeek(pos geom.Coordinate, heading float64, target geom.Coordinate, lkp, rkp, rotationBias float64) drivetrain.Wheels {
	linear := geom.Distance(pos, target) * lkp
	rotation := geom.MinError(geom.Bearing(pos, target), heading) * rkp
	return drivetrain.Blend(linear, rotation, rotationBias)
}

// MoveToVel evaluates PointSeek from the current pose without commanding
// anything.
func (c *Chassis) MoveToVel(target geom.Coordinate, lkp, rkp, rotationBias float64) drivetrain.Wheels {
	return PointSeek(c.robot.Position(), c.robot.DegHeading(), target, lkp, rkp, rotationBias)
}

// MoveToOptions shapes the rotational side of MoveTo.
type MoveToOptions struct {
	// RotationBias slows the whole command by |rotation|*bias.
	RotationBias float64 `yaml:"rotation_bias"`
	// RotationScale bounds the rotational share of the actuator range,
	// on (0, 1]. Anything else means 1.
	RotationScale float64 `yaml:"rotation_scale"`
	// RotationCut is the distance at which the scheduled angular P reaches 0.
	RotationCut float64 `yaml:"rotation_cut"`
}

// MoveTo drives to a point. The angular proportional gain is scheduled
// linearly from its initial value down to 0 as the distance shrinks from
// its starting value to RotationCut, which damps the terminal spin that
// pure point seeking produces near the goal. Linear output is scaled by
// the cosine of the bearing error (0 beyond 90 degrees) so the robot turns
// before it advances. Timeout only.
func (c *Chassis) MoveTo(ctx context.Context, target geom.Coordinate, timeout time.Duration, lin, rot control.Constants, opts MoveToOptions) (Result, error) {
	l := c.begin(ctx, "move_to", timeout, lin.Tolerance)

	pos := c.robot.Position()
	linErr := geom.Distance(pos, target)
	rotErr := geom.MinError(geom.Bearing(pos, target), c.robot.DegHeading())

	linear := control.NewPID(lin, linErr)
	rotation := control.NewPID(rot, rotErr)
	schedule := control.NewSchedule(rot.P, linErr, opts.RotationCut)

	limit := c.tuning.MaxCommand
	rotLimit := limit
	if opts.RotationScale > 0 && opts.RotationScale <= 1 {
		rotLimit = limit * opts.RotationScale
	}

	for {
		pos = c.robot.Position()
		linErr = geom.Distance(pos, target)
		rotErr = geom.MinError(geom.Bearing(pos, target), c.robot.DegHeading())

		if reason, done := l.check(linErr); done {
			return l.finish(reason)
		}

		rot.P = schedule.At(linErr)
		rotation.Update(rot)

		align := 0.0
		if math.Abs(rotErr) <= 90 {
			align = math.Cos(geom.DegToRad(rotErr))
		}

		vr := drivetrain.Clamp(rotation.Out(rotErr), rotLimit)
		vl := align * linear.Out(linErr)
		base := vl - math.Abs(vr)*opts.RotationBias
		l.command(drivetrain.Mix(base, vr, limit))
		l.yield()
	}
}

// MoveToDefault runs MoveTo with the configured gains and options.
func (c *Chassis) MoveToDefault(ctx context.Context, target geom.Coordinate, timeout time.Duration) (Result, error) {
	return c.MoveTo(ctx, target, timeout, c.tuning.MoveLinear, c.tuning.MoveAngular, c.tuning.Move)
}

// MoveToPose follows a curve. A lookup table is sampled once; progress is
// the distance actually travelled divided by the estimated curve length,
// rounded up to the next sample, and the robot point-seeks a sample
// Lookahead steps beyond its progress. The run completes when progress
// reaches the final sample or the robot is within EndTolerance of it.
func (c *Chassis) MoveToPose(ctx context.Context, path *curve.Bezier, timeout time.Duration, opts PoseOptions) (Result, error) {
	l := c.begin(ctx, "move_to_pose", timeout, opts.EndTolerance)

	if path == nil {
		return l.reject(ErrDegenerateCurve)
	}
	lut := path.CreateLUT(opts.Resolution)
	length := curve.ApproximateLength(lut)
	if degenerateCurve(path, lut, length) {
		return l.reject(ErrDegenerateCurve)
	}
	last := lut.Resolution()

	prev := c.robot.Position()
	travelled := 0.0

	for {
		pos := c.robot.Position()
		travelled += geom.Distance(prev, pos)
		prev = pos

		remaining := geom.Distance(pos, lut.Last())
		if reason, done := l.check(remaining); done {
			return l.finish(reason)
		}

		idx := lut.ProgressIndex(travelled, length)
		if idx >= last || remaining <= opts.EndTolerance {
			return l.finish(PathComplete)
		}

		goal := lut[min(idx+opts.Lookahead, last)]
		w := PointSeek(pos, c.robot.DegHeading(), goal, opts.LinearKP, opts.RotationKP, opts.RotationBias)
		l.command(w.Desaturate(c.tuning.MaxCommand))
		l.yield()
	}
}

// curveEpsilon is the length, relative to the control point spread, below
// which a curve counts as a single point. The Bernstein blend leaves a
// residue of order 1e-13 on a curve whose control points coincide.
const curveEpsilon = 1e-9

// degenerateCurve reports whether the table is too coarse to steer along
// (fewer than two steps) or the curve is a point.
func degenerateCurve(path *curve.Bezier, lut curve.LUT, length float64) bool {
	if lut.Resolution() < 2 {
		return true
	}
	cp := path.ControlPoints()
	span := 0.0
	for _, p := range cp[1:] {
		span = math.Max(span, geom.Distance(cp[0], p))
	}
	return length < curveEpsilon*(1+span)
}

// MoveToPoseDefault follows path with the configured pose options.
func (c *Chassis) MoveToPoseDefault(ctx context.Context, path *curve.Bezier, timeout time.Duration) (Result, error) {
	return c.MoveToPose(ctx, path, timeout, c.tuning.Pose)
}
