package motion_test

import (
	"context"
	"math"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/drivetrain/internal/control"
	"github.com/san-kum/drivetrain/internal/curve"
	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/geom"
	"github.com/san-kum/drivetrain/internal/integrators"
	"github.com/san-kum/drivetrain/internal/motion"
	"github.com/san-kum/drivetrain/internal/robot"
	"github.com/san-kum/drivetrain/internal/sim"
)

func TestMotion(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Motion Suite")
}

const tick = 10 * time.Millisecond

type rig struct {
	sim *sim.Simulator
	rec *motion.Recorder
	c   *motion.Chassis
}

func newRig(startHeading float64) *rig {
	cfg := sim.DefaultConfig()
	cfg.StartHeading = startHeading
	s, err := sim.New(cfg, integrators.NewRK4())
	Expect(err).NotTo(HaveOccurred())

	rec := &motion.Recorder{}
	c := motion.New(s.Robot(), s.Scheduler(), motion.WithObserver(rec))
	return &rig{sim: s, rec: rec, c: c}
}

func (r *rig) robot() *sim.Robot { return r.sim.Robot() }

func (r *rig) expectBraked() {
	l, rt := r.robot().Command()
	Expect(l).To(BeZero())
	Expect(rt).To(BeZero())
	Expect(r.robot().LastStop()).To(Equal(robot.Brake))
}

var _ = Describe("SpinTo", func() {
	var r *rig
	ctx := context.Background()

	BeforeEach(func() { r = newRig(0) })

	It("approaches the target monotonically with proportional-only gains", func() {
		k := control.NewConstants(2, 0, 0, 0.5, 0, 0)
		res, err := r.c.SpinTo(ctx, 90, 3*time.Second, k)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.Settled))
		Expect(res.Elapsed).To(BeNumerically("~", 1020*time.Millisecond, 2*tick))
		Expect(math.Abs(res.FinalError)).To(BeNumerically("<", 0.5))

		prev := math.Inf(1)
		for _, s := range r.rec.Samples {
			Expect(math.Abs(s.Error)).To(BeNumerically("<=", prev+1e-9))
			prev = math.Abs(s.Error)
		}
		r.expectBraked()
	})

	It("settles on the short way round with the default gains", func() {
		res, err := r.c.SpinToDefault(ctx, -90, 3*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.Settled))
		Expect(r.robot().DegHeading()).To(BeNumerically("~", 270, 0.05))
		first := r.rec.Samples[0].Command
		Expect(first.Left).To(BeNumerically("<", 0))
		Expect(first.Right).To(BeNumerically(">", 0))
	})

	It("stops within one tick of the timeout even while far from the target", func() {
		res, err := r.c.SpinToDefault(ctx, 90, 100*time.Millisecond)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.Timeout))
		Expect(res.Elapsed).To(BeNumerically(">=", 100*time.Millisecond))
		Expect(res.Elapsed).To(BeNumerically("<=", 100*time.Millisecond+tick))
		Expect(res.Converged).To(BeFalse())
		r.expectBraked()
	})
})

var _ = Describe("Drive", func() {
	It("reaches the target distance long before the timeout but only ends on timeout", func() {
		r := newRig(0)
		res, err := r.c.Drive(context.Background(), 1000, 2*time.Second, 5)

		Expect(err).NotTo(HaveOccurred())
		By("timeout-only termination")
		Expect(res.Reason).To(Equal(motion.Timeout))
		Expect(res.Elapsed).To(Equal(2 * time.Second))
		Expect(res.Converged).To(BeTrue())
		Expect(res.SettledAt).To(BeNumerically("<", 2*time.Second))
		Expect(math.Abs(res.FinalError)).To(BeNumerically("<=", 5))
		Expect(r.robot().Rotation()).To(BeNumerically("~", 1000, 5))
		r.expectBraked()
	})
})

var _ = Describe("AutoDrive", func() {
	It("holds heading while driving and ends on timeout", func() {
		r := newRig(0)
		res, err := r.c.AutoDriveDefault(context.Background(), 1000, 0, 3*time.Second)

		Expect(err).NotTo(HaveOccurred())
		By("timeout-only termination")
		Expect(res.Reason).To(Equal(motion.Timeout))
		Expect(r.robot().Rotation()).To(BeNumerically("~", 1000, 5))
		Expect(geom.MinError(0, r.robot().DegHeading())).To(BeNumerically("~", 0, 0.5))
	})
})

var _ = Describe("OdomDrive", func() {
	It("settles along the starting heading", func() {
		r := newRig(0)
		res, err := r.c.OdomDrive(context.Background(), 500, 3*time.Second, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.Settled))
		Expect(r.robot().Position().Y).To(BeNumerically("~", 500, 5))
		Expect(r.robot().Position().X).To(BeNumerically("~", 0, 1e-6))
	})

	It("drives backwards for a negative distance", func() {
		r := newRig(90)
		res, err := r.c.OdomDrive(context.Background(), -300, 3*time.Second, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.Settled))
		Expect(r.robot().Position().X).To(BeNumerically("~", -300, 5))
	})
})

var _ = Describe("open-loop heading primitives", func() {
	ctx := context.Background()

	It("VelsUntilHeading ends once the heading is within tolerance", func() {
		r := newRig(0)
		res, err := r.c.VelsUntilHeading(ctx, -30, -127, 202, 4, 3*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.ReachedTolerance))
		Expect(r.robot().DegHeading()).To(BeNumerically(">=", 198))
		Expect(r.robot().DegHeading()).To(BeNumerically("<=", 206))
		for _, s := range r.rec.Samples {
			Expect(s.Command).To(Equal(drivetrain.Wheels{Left: -127, Right: -30}))
		}
	})

	It("TimedSpin stops as soon as the heading passes the target", func() {
		r := newRig(0)
		res, err := r.c.TimedSpin(ctx, 90, 40, 3*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.Overshoot))
		Expect(res.Elapsed).To(Equal(690 * time.Millisecond))
		Expect(r.robot().DegHeading()).To(BeNumerically(">", 90))
		Expect(r.robot().DegHeading()).To(BeNumerically("<", 92))
	})

	It("TimedSpin turns counter-clockwise when that is shorter", func() {
		r := newRig(0)
		res, err := r.c.TimedSpin(ctx, 270, -40, 3*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.Overshoot))
		Expect(r.robot().DegHeading()).To(BeNumerically("<", 270))
		Expect(r.robot().DegHeading()).To(BeNumerically(">", 268))
	})
})

var _ = Describe("ArcTurn", func() {
	It("keeps the wheel ratio fixed by the arc geometry on every tick", func() {
		r := newRig(0)
		t := r.c.Tuning()
		res, err := r.c.ArcTurnDefault(context.Background(), math.Pi/2, 600, 3*time.Second)

		Expect(err).NotTo(HaveOccurred())
		By("timeout-only termination")
		Expect(res.Reason).To(Equal(motion.Timeout))
		Expect(r.robot().DegHeading()).To(BeNumerically("~", 90, 0.5))

		ratio := (600 + t.TrackOffsetLeft) / (600 + t.TrackOffsetRight)
		Expect(r.rec.Samples).NotTo(BeEmpty())
		for _, s := range r.rec.Samples {
			if s.Command.Right == 0 {
				Expect(s.Command.Left).To(BeZero())
				continue
			}
			Expect(s.Command.Left / s.Command.Right).To(BeNumerically("~", ratio, 1e-9))
			Expect(math.Abs(s.Command.Left)).To(BeNumerically("<=", t.MaxCommand))
		}
	})

	It("rejects a radius that puts a wheel on the turning centre", func() {
		r := newRig(0)
		radius := -r.c.Tuning().TrackOffsetRight
		res, err := r.c.ArcTurnDefault(context.Background(), math.Pi/2, radius, time.Second)

		Expect(err).To(MatchError(motion.ErrDegenerateArc))
		Expect(res.Reason).To(Equal(motion.Rejected))
		Expect(res.Ticks).To(BeZero())
		Expect(r.rec.Results).To(HaveLen(1))
		r.expectBraked()
	})
})

var _ = Describe("MoveTo", func() {
	ctx := context.Background()

	It("lands on a point straight ahead", func() {
		r := newRig(0)
		target := geom.Pt(0, 800)
		res, err := r.c.MoveToDefault(ctx, target, 3*time.Second)

		Expect(err).NotTo(HaveOccurred())
		By("timeout-only termination")
		Expect(res.Reason).To(Equal(motion.Timeout))
		Expect(geom.Distance(r.robot().Position(), target)).To(BeNumerically("<", 2))
	})

	It("turns toward an off-axis point before reaching it", func() {
		r := newRig(0)
		target := geom.Pt(600, 600)
		_, err := r.c.MoveToDefault(ctx, target, 4*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(geom.Distance(r.robot().Position(), target)).To(BeNumerically("<", 10))
		first := r.rec.Samples[0].Command
		Expect(first.Left).To(BeNumerically(">", first.Right))
	})
})

var _ = Describe("MoveToPose", func() {
	ctx := context.Background()

	It("follows a curve to its end", func() {
		r := newRig(0)
		path := curve.NewBezier(
			curve.Pose{Position: geom.Pt(0, 0), Heading: 0},
			curve.Pose{Position: geom.Pt(600, 1200), Heading: 90},
			400, 400,
		)
		res, err := r.c.MoveToPoseDefault(ctx, path, 5*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(motion.PathComplete))
		Expect(res.Elapsed).To(BeNumerically("<", 5*time.Second))
		Expect(geom.Distance(r.robot().Position(), geom.Pt(600, 1200))).To(BeNumerically("<", 30))
	})

	It("rejects a zero-length curve", func() {
		r := newRig(0)
		p := curve.Pose{Position: geom.Pt(10, 10), Heading: 0}
		res, err := r.c.MoveToPoseDefault(ctx, curve.NewBezier(p, p, 0, 0), time.Second)

		Expect(err).To(MatchError(motion.ErrDegenerateCurve))
		Expect(res.Reason).To(Equal(motion.Rejected))
	})
})

var _ = Describe("cancellation", func() {
	It("ends a running primitive and reports the context error", func() {
		r := newRig(0)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		r.c.AddObserver(motion.ObserverFunc(func(s motion.Sample) {
			if s.Tick == 5 {
				cancel()
			}
		}))

		res, err := r.c.Drive(ctx, 1000, 2*time.Second, 5)

		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Reason).To(Equal(motion.Canceled))
		Expect(res.Ticks).To(Equal(6))
		r.expectBraked()
	})

	It("does not command anything when already canceled", func() {
		r := newRig(0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := r.c.SpinToDefault(ctx, 90, time.Second)

		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Reason).To(Equal(motion.Canceled))
		Expect(r.rec.Samples).To(BeEmpty())
	})
})

var _ = DescribeTable("every primitive honours its timeout",
	func(run func(ctx context.Context, c *motion.Chassis, timeout time.Duration) (motion.Result, error)) {
		r := newRig(0)
		timeout := 150 * time.Millisecond
		res, err := run(context.Background(), r.c, timeout)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Elapsed).To(BeNumerically("<=", timeout+tick))
		r.expectBraked()
	},
	Entry("spin_to", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		return c.SpinToDefault(ctx, 170, d)
	}),
	Entry("drive", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		return c.Drive(ctx, 5000, d, 5)
	}),
	Entry("auto_drive", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		return c.AutoDriveDefault(ctx, 5000, 45, d)
	}),
	Entry("odom_drive", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		return c.OdomDrive(ctx, 5000, d, 5)
	}),
	Entry("timed_spin", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		return c.TimedSpin(ctx, 170, 10, d)
	}),
	Entry("vels_until_heading", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		return c.VelsUntilHeading(ctx, 10, 10, 90, 1, d)
	}),
	Entry("arc_turn", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		return c.ArcTurnDefault(ctx, math.Pi, 600, d)
	}),
	Entry("move_to", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		return c.MoveToDefault(ctx, geom.Pt(3000, 3000), d)
	}),
	Entry("move_to_pose", func(ctx context.Context, c *motion.Chassis, d time.Duration) (motion.Result, error) {
		path := curve.NewBezier(
			curve.Pose{Position: geom.Pt(0, 0)},
			curve.Pose{Position: geom.Pt(0, 5000)},
			1000, 1000,
		)
		return c.MoveToPoseDefault(ctx, path, d)
	}),
)
