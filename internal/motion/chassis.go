package motion

import (
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/drivetrain/internal/control"
	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/robot"
	"github.com/san-kum/drivetrain/internal/timing"
)

// PoseOptions tunes curve following.
type PoseOptions struct {
	Resolution   int     `yaml:"resolution"`
	Lookahead    int     `yaml:"lookahead"`
	LinearKP     float64 `yaml:"linear_kp"`
	RotationKP   float64 `yaml:"rotation_kp"`
	RotationBias float64 `yaml:"rotation_bias"`
	EndTolerance float64 `yaml:"end_tolerance"`
}

// Tuning is everything a chassis needs besides its robot and scheduler.
type Tuning struct {
	Tick       time.Duration
	MaxCommand float64

	// Track offsets of each side from the robot centre, in rotation units,
	// signed along the turn axis.
	TrackOffsetLeft  float64
	TrackOffsetRight float64

	SpinSettle time.Duration
	OdomSettle time.Duration

	Spin        control.Constants
	Drive       control.Constants
	AutoLinear  control.Constants
	AutoAngular control.Constants
	Odom        control.Constants
	MoveLinear  control.Constants
	MoveAngular control.Constants
	Arc         control.Constants

	// Presets are extra named gain sets, such as turn sizes, that
	// routines pick by name.
	Presets map[string]control.Constants

	// AutoZeroBand is the heading error below which autoDrive drops its
	// angular proportional gain for the rest of the run.
	AutoZeroBand float64

	Move MoveToOptions
	Pose PoseOptions
}

// DefaultTuning returns the gains and geometry the competition robot ran.
func DefaultTuning() Tuning {
	return Tuning{
		Tick:             timing.DefaultTick,
		MaxCommand:       drivetrain.MaxCommand,
		TrackOffsetLeft:  368.2,
		TrackOffsetRight: -362,
		SpinSettle:       250 * time.Millisecond,
		OdomSettle:       10 * time.Millisecond,
		Spin:             control.NewConstants(3.7, 1.3, 26, 0.05, 2.4, 20),
		// integral disabled: threshold 0 never accumulates
		Drive:       control.NewConstants(0.3, 0.2, 2.4, 5, 0, 10000),
		AutoLinear:  control.NewConstants(0.3, 0.2, 2.4, 5, 30, 1000),
		AutoAngular: control.NewConstants(4, 0.7, 4, 0, 190, 20),
		Odom:        control.NewConstants(2.1, 0, 0.1, 5, 30, 10000),
		MoveLinear:  control.NewConstants(0.2, 0, 2, 10, 0, 100),
		MoveAngular: control.NewConstants(8, 0, 0, 1, 0, 100),
		Arc:         control.NewConstants(2.8, 0, 20, 0.05, 5, 100),
		Presets: map[string]control.Constants{
			"small_turn": control.NewConstants(10, 1.6, 2, 0.05, 7, 10),
			"med_turn":   control.NewConstants(4, 1.5, 20, 0.05, 2.4, 20),
			"big_turn":   control.NewConstants(3.7, 1.5, 35, 0.05, 2.4, 20),
		},
		AutoZeroBand: 0.5,
		Move: MoveToOptions{
			RotationBias:  0.2,
			RotationScale: 0.6,
			RotationCut:   50,
		},
		Pose: PoseOptions{
			Resolution:   100,
			Lookahead:    20,
			LinearKP:     0.3,
			RotationKP:   4,
			RotationBias: 0.3,
			EndTolerance: 15,
		},
	}
}

// Preset looks up a named gain set. The fixed fields are reachable by
// their yaml names as well.
func (t Tuning) Preset(name string) (control.Constants, bool) {
	switch name {
	case "spin":
		return t.Spin, true
	case "drive":
		return t.Drive, true
	case "auto_linear":
		return t.AutoLinear, true
	case "auto_angular":
		return t.AutoAngular, true
	case "odom":
		return t.Odom, true
	case "move_linear":
		return t.MoveLinear, true
	case "move_angular":
		return t.MoveAngular, true
	case "arc":
		return t.Arc, true
	}
	k, ok := t.Presets[name]
	return k, ok
}

// Chassis is the explicit robot context every primitive runs against. It
// holds read access to the sensors, the actuation handle and the scheduler.
// A Chassis runs one primitive at a time; callers must not start a
// primitive while another is active.
type Chassis struct {
	robot     robot.Robot
	sched     timing.Scheduler
	logger    *zap.Logger
	tuning    Tuning
	observers []Observer
}

type Option func(*Chassis)

func WithLogger(l *zap.Logger) Option {
	return func(c *Chassis) { c.logger = l }
}

func WithTuning(t Tuning) Option {
	return func(c *Chassis) { c.tuning = t }
}

func WithObserver(o Observer) Option {
	return func(c *Chassis) { c.observers = append(c.observers, o) }
}

func New(r robot.Robot, sched timing.Scheduler, opts ...Option) *Chassis {
	c := &Chassis{
		robot:  r,
		sched:  sched,
		logger: zap.NewNop(),
		tuning: DefaultTuning(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tuning.Tick <= 0 {
		c.tuning.Tick = timing.DefaultTick
	}
	if c.tuning.MaxCommand <= 0 {
		c.tuning.MaxCommand = drivetrain.MaxCommand
	}
	return c
}

func (c *Chassis) AddObserver(o Observer) { c.observers = append(c.observers, o) }
func (c *Chassis) Tuning() Tuning         { return c.tuning }
func (c *Chassis) Robot() robot.Robot     { return c.robot }
func (c *Chassis) Logger() *zap.Logger    { return c.logger }

// Wait yields for d without commanding the actuators, the scripted
// equivalent of a fixed delay between primitives.
func (c *Chassis) Wait(d time.Duration) {
	timer := timing.NewTimer(c.sched.Clock())
	for timer.Elapsed() < d {
		step := c.tuning.Tick
		if rest := d - timer.Elapsed(); rest < step {
			step = rest
		}
		c.sched.Yield(step)
	}
}

// Stop halts the drivetrain with the given mode.
func (c *Chassis) Stop(mode robot.BrakeMode) {
	c.robot.Stop(mode)
}
