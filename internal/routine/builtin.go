package routine

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/drivetrain/internal/curve"
	"github.com/san-kum/drivetrain/internal/geom"
	"github.com/san-kum/drivetrain/internal/motion"
)

// Builtins returns a registry holding the stock routines, with skills
// selected.
func Builtins() *Registry {
	r := NewRegistry()
	must(r.Register("skills", "every primitive once around the field", RoutineFunc(skills)))
	must(r.Register("win_point", "match-start routine: shoot, collect, line up", RoutineFunc(winPoint)))
	must(r.Register("square", "point-to-point square with 1200 unit sides", RoutineFunc(square)))
	must(r.Register("s_curve", "follow two mirrored curves", RoutineFunc(sCurve)))
	must(r.Register("spin_tune", "quarter turns with each turn preset", RoutineFunc(spinTune)))
	return r
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// step chains primitives and stops at the first error.
type step func() (motion.Result, error)

func sequence(steps ...step) error {
	for _, s := range steps {
		if _, err := s(); err != nil {
			return err
		}
	}
	return nil
}

func winPoint(ctx context.Context, c *motion.Chassis) error {
	t := c.Tuning()
	small, ok := t.Preset("small_turn")
	if !ok {
		return errors.New("missing small_turn preset")
	}
	med, ok := t.Preset("med_turn")
	if !ok {
		return errors.New("missing med_turn preset")
	}
	ms := time.Millisecond

	return sequence(
		func() (motion.Result, error) { return c.Drive(ctx, -500, 800*ms, 1) },
		func() (motion.Result, error) { return c.SpinTo(ctx, 357.7, 800*ms, small) },
		func() (motion.Result, error) { c.Wait(300 * ms); return motion.Result{}, nil },
		func() (motion.Result, error) { return c.SpinTo(ctx, 233, 1000*ms, med) },
		func() (motion.Result, error) { return c.Drive(ctx, 1300, 800*ms, 5) },
		func() (motion.Result, error) { return c.SpinToDefault(ctx, 347.4, 1100*ms) },
		func() (motion.Result, error) { return c.Drive(ctx, 500, 600*ms, 1) },
		func() (motion.Result, error) { return c.SpinToDefault(ctx, 216.6, 1000*ms) },
		func() (motion.Result, error) { return c.Drive(ctx, 6150, 2300*ms, 20) },
		func() (motion.Result, error) { return c.SpinToDefault(ctx, 270, 700*ms) },
	)
}

func skills(ctx context.Context, c *motion.Chassis) error {
	ms := time.Millisecond
	pos := c.Robot().Position()
	h := c.Robot().DegHeading()
	ahead := geom.Project(pos, h, 1500)

	path := curve.NewBezier(
		curve.Pose{Position: ahead, Heading: geom.NormalizeDeg(h + 90)},
		curve.Pose{Position: geom.Project(geom.Project(ahead, h+90, 1200), h, 1200), Heading: geom.NormalizeDeg(h + 90)},
		600, 600,
	)

	return sequence(
		func() (motion.Result, error) { return c.AutoDriveDefault(ctx, 1500, h, 2000*ms) },
		func() (motion.Result, error) { return c.SpinToDefault(ctx, geom.NormalizeDeg(h+90), 1000*ms) },
		func() (motion.Result, error) { return c.MoveToPoseDefault(ctx, path, 4000*ms) },
		func() (motion.Result, error) { return c.OdomDrive(ctx, -400, 1500*ms, 5) },
		func() (motion.Result, error) {
			return c.ArcTurnDefault(ctx, geom.DegToRad(geom.NormalizeDeg(h+180)), 600, 2500*ms)
		},
		func() (motion.Result, error) { return c.TimedSpin(ctx, geom.NormalizeDeg(h+270), 40, 2000*ms) },
		func() (motion.Result, error) {
			return c.VelsUntilHeading(ctx, -30, -127, geom.NormalizeDeg(h+202), 4, 5000*ms)
		},
		func() (motion.Result, error) { return c.MoveToDefault(ctx, pos, 4000*ms) },
	)
}

func square(ctx context.Context, c *motion.Chassis) error {
	start := c.Robot().Position()
	h := c.Robot().DegHeading()
	const side = 1200.0

	corners := make([]geom.Coordinate, 0, 4)
	p := start
	for i := 0; i < 4; i++ {
		p = geom.Project(p, h+float64(i)*90, side)
		corners = append(corners, p)
	}
	for _, corner := range corners {
		if _, err := c.MoveToDefault(ctx, corner, 3500*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

func sCurve(ctx context.Context, c *motion.Chassis) error {
	pos := c.Robot().Position()
	h := c.Robot().DegHeading()

	mid := geom.Project(geom.Project(pos, h, 1200), h+90, 600)
	end := geom.Project(geom.Project(mid, h, 1200), h-90, 600)
	first := curve.NewBezier(curve.Pose{Position: pos, Heading: h}, curve.Pose{Position: mid, Heading: h}, 500, 500)
	second := curve.NewBezier(curve.Pose{Position: mid, Heading: h}, curve.Pose{Position: end, Heading: h}, 500, 500)

	for _, path := range []*curve.Bezier{first, second} {
		if _, err := c.MoveToPoseDefault(ctx, path, 4000*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

func spinTune(ctx context.Context, c *motion.Chassis) error {
	t := c.Tuning()
	h := c.Robot().DegHeading()
	for i, name := range []string{"small_turn", "med_turn", "big_turn", "spin"} {
		k, ok := t.Preset(name)
		if !ok {
			return errors.Errorf("missing %s preset", name)
		}
		target := geom.NormalizeDeg(h + float64(i+1)*90)
		if _, err := c.SpinTo(ctx, target, 3*time.Second, k); err != nil {
			return err
		}
	}
	return nil
}
