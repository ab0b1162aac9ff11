package motion

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/drivetrain/internal/control"
	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/geom"
)

// Drive moves straight until the rotation sensor has advanced by target.
// Both sides receive the same PID output. Drive ends on timeout only;
// tolerance is reported through Result.Converged/SettledAt.
func (c *Chassis) Drive(ctx context.Context, target float64, timeout time.Duration, tolerance float64) (Result, error) {
	k := c.tuning.Drive
	k.Tolerance = tolerance
	return c.DriveWith(ctx, target, timeout, k)
}

// DriveWith is Drive with explicit gains.
func (c *Chassis) DriveWith(ctx context.Context, target float64, timeout time.Duration, k control.Constants) (Result, error) {
	l := c.begin(ctx, "drive", timeout, k.Tolerance)

	c.robot.ResetRotation()
	pid := control.NewPID(k, target)

	for {
		err := target - c.robot.Rotation()
		if reason, done := l.check(err); done {
			return l.finish(reason)
		}

		l.command(drivetrain.Straight(pid.Out(err)))
		l.yield()
	}
}

// AutoDrive drives target rotation units while holding an absolute
// heading. The angular term is clipped first and the linear term takes the
// remaining headroom. Once the heading error falls under the zero band the
// angular proportional gain is dropped to 0 for the rest of the run to stop
// over-correcting near the target. Timeout only.
func (c *Chassis) AutoDrive(ctx context.Context, target, heading float64, timeout time.Duration, lin, ang control.Constants) (Result, error) {
	l := c.begin(ctx, "auto_drive", timeout, lin.Tolerance)

	c.robot.ResetRotation()
	linear := control.NewPID(lin, target)
	angular := control.NewPID(ang, geom.MinError(heading, c.robot.DegHeading()))
	zeroed := false

	for {
		herr := geom.MinError(heading, c.robot.DegHeading())
		if !zeroed && math.Abs(herr) < c.tuning.AutoZeroBand {
			ang.P = 0
			angular.Update(ang)
			zeroed = true
		}

		lerr := target - c.robot.Rotation()
		if reason, done := l.check(lerr); done {
			return l.finish(reason)
		}

		va := angular.Out(herr)
		vl := linear.Out(lerr)
		l.command(drivetrain.Mix(vl, va, c.tuning.MaxCommand))
		l.yield()
	}
}

// AutoDriveDefault runs AutoDrive with the configured gains.
func (c *Chassis) AutoDriveDefault(ctx context.Context, target, heading float64, timeout time.Duration) (Result, error) {
	return c.AutoDrive(ctx, target, heading, timeout, c.tuning.AutoLinear, c.tuning.AutoAngular)
}

// OdomDrive drives distance units along the current heading using the
// position estimate. The target point is projected once at the start; the
// error is the signed distance remaining along the starting heading, so a
// negative distance drives backwards. Ends when settled or on timeout.
func (c *Chassis) OdomDrive(ctx context.Context, distance float64, timeout time.Duration, tolerance float64) (Result, error) {
	k := c.tuning.Odom
	k.Tolerance = tolerance
	l := c.begin(ctx, "odom_drive", timeout, tolerance).withSettle(c.tuning.OdomSettle)

	heading := c.robot.DegHeading()
	start := c.robot.Position()
	target := geom.Project(start, heading, distance)
	pid := control.NewPID(k, distance)

	for {
		err := geom.AlongTrack(c.robot.Position(), target, heading)
		if reason, done := l.check(err); done {
			return l.finish(reason)
		}

		l.spin(pid.Out(err))
		l.yield()
	}
}
