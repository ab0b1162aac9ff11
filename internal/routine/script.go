package routine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/drivetrain/internal/control"
	"github.com/san-kum/drivetrain/internal/curve"
	"github.com/san-kum/drivetrain/internal/geom"
	"github.com/san-kum/drivetrain/internal/motion"
	"github.com/san-kum/drivetrain/internal/robot"
)

// Script is a routine loaded from YAML.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// ContinueOnError runs the remaining steps after a failed one and
	// reports all failures together. Cancellation always stops the script.
	ContinueOnError bool   `yaml:"continue_on_error"`
	Steps           []Step `yaml:"steps"`
}

// Step is one primitive call. Which fields matter depends on Do.
type Step struct {
	Do        string        `yaml:"do"`
	Timeout   time.Duration `yaml:"timeout"`
	Target    float64       `yaml:"target"`
	Heading   float64       `yaml:"heading"`
	Tolerance float64       `yaml:"tolerance"`
	// Gains names a preset; Angular names the second preset of two-loop
	// primitives.
	Gains   string `yaml:"gains"`
	Angular string `yaml:"angular"`

	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Speed  float64 `yaml:"speed"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Radius float64 `yaml:"radius"`

	// relative curve end for move_to_pose
	EndHeading float64 `yaml:"end_heading"`
	StartBias  float64 `yaml:"start_bias"`
	EndBias    float64 `yaml:"end_bias"`

	Duration time.Duration `yaml:"duration"`
	Mode     string        `yaml:"mode"`
}

// StepKind names a script step and the fields it reads.
type StepKind struct {
	Do     string
	Fields string
}

var stepKinds = []StepKind{
	{"spin_to", "heading, timeout, gains"},
	{"timed_spin", "heading, speed, timeout"},
	{"vels_until_heading", "right, left, heading, tolerance, timeout"},
	{"arc_turn", "heading, radius, timeout, gains"},
	{"drive", "target, tolerance, timeout, gains"},
	{"auto_drive", "target, heading, timeout, gains, angular"},
	{"odom_drive", "target, tolerance, timeout"},
	{"move_to", "x, y, timeout"},
	{"move_to_pose", "x, y, end_heading, start_bias, end_bias, timeout"},
	{"wait", "duration"},
	{"stop", "mode"},
}

func StepKinds() []StepKind { return append([]StepKind(nil), stepKinds...) }

func knownStep(do string) bool {
	for _, k := range stepKinds {
		if k.Do == do {
			return true
		}
	}
	return false
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, errors.Wrapf(err, "script %s", path)
	}
	return s, nil
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	if s.Name == "" {
		return errors.New("script has no name")
	}
	if len(s.Steps) == 0 {
		return errors.Errorf("script %s has no steps", s.Name)
	}
	for i, st := range s.Steps {
		if !knownStep(st.Do) {
			return errors.Errorf("step %d: unknown primitive %q", i+1, st.Do)
		}
		if st.Do != "wait" && st.Do != "stop" && st.Timeout <= 0 {
			return errors.Errorf("step %d (%s): timeout must be positive", i+1, st.Do)
		}
		if st.Do == "stop" {
			if _, err := robot.ParseBrakeMode(st.Mode); err != nil {
				return errors.Wrapf(err, "step %d", i+1)
			}
		}
	}
	return nil
}

func (s *Script) Run(ctx context.Context, c *motion.Chassis) error {
	var errs error
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if err := st.run(ctx, c); err != nil {
			err = errors.Wrapf(err, "step %d (%s)", i+1, st.Do)
			if !s.ContinueOnError || ctx.Err() != nil {
				return multierr.Append(errs, err)
			}
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func lookup(t motion.Tuning, name, fallback string) (control.Constants, error) {
	if name == "" {
		name = fallback
	}
	k, ok := t.Preset(name)
	if !ok {
		return control.Constants{}, errors.Errorf("unknown gain preset %q", name)
	}
	return k, nil
}

// run executes one step. Positions in a script are relative to the
// robot's pose when the step starts: y is ahead, x is to the right.
func (st Step) run(ctx context.Context, c *motion.Chassis) error {
	t := c.Tuning()
	var err error

	switch st.Do {
	case "wait":
		c.Wait(st.Duration)
		return nil
	case "stop":
		mode, perr := robot.ParseBrakeMode(st.Mode)
		if perr != nil {
			return perr
		}
		c.Stop(mode)
		return nil

	case "spin_to":
		k, kerr := lookup(t, st.Gains, "spin")
		if kerr != nil {
			return kerr
		}
		_, err = c.SpinTo(ctx, st.Heading, st.Timeout, k)
	case "timed_spin":
		_, err = c.TimedSpin(ctx, st.Heading, st.Speed, st.Timeout)
	case "vels_until_heading":
		_, err = c.VelsUntilHeading(ctx, st.Right, st.Left, st.Heading, st.Tolerance, st.Timeout)
	case "arc_turn":
		k, kerr := lookup(t, st.Gains, "arc")
		if kerr != nil {
			return kerr
		}
		_, err = c.ArcTurn(ctx, geom.DegToRad(st.Heading), st.Radius, st.Timeout, k)

	case "drive":
		k, kerr := lookup(t, st.Gains, "drive")
		if kerr != nil {
			return kerr
		}
		if st.Tolerance > 0 {
			k.Tolerance = st.Tolerance
		}
		_, err = c.DriveWith(ctx, st.Target, st.Timeout, k)
	case "auto_drive":
		lin, kerr := lookup(t, st.Gains, "auto_linear")
		if kerr != nil {
			return kerr
		}
		ang, kerr := lookup(t, st.Angular, "auto_angular")
		if kerr != nil {
			return kerr
		}
		_, err = c.AutoDrive(ctx, st.Target, st.Heading, st.Timeout, lin, ang)
	case "odom_drive":
		tol := st.Tolerance
		if tol <= 0 {
			tol = t.Odom.Tolerance
		}
		_, err = c.OdomDrive(ctx, st.Target, st.Timeout, tol)

	case "move_to":
		lin, kerr := lookup(t, st.Gains, "move_linear")
		if kerr != nil {
			return kerr
		}
		ang, kerr := lookup(t, st.Angular, "move_angular")
		if kerr != nil {
			return kerr
		}
		_, err = c.MoveTo(ctx, st.relative(c), st.Timeout, lin, ang, t.Move)
	case "move_to_pose":
		r := c.Robot()
		start := curve.Pose{Position: r.Position(), Heading: r.DegHeading()}
		end := curve.Pose{Position: st.relative(c), Heading: geom.NormalizeDeg(start.Heading + st.EndHeading)}
		sb, eb := st.StartBias, st.EndBias
		if sb == 0 && eb == 0 {
			d := geom.Distance(start.Position, end.Position) / 3
			sb, eb = d, d
		}
		_, err = c.MoveToPoseDefault(ctx, curve.NewBezier(start, end, sb, eb), st.Timeout)
	}
	return err
}

func (st Step) relative(c *motion.Chassis) geom.Coordinate {
	r := c.Robot()
	h := r.DegHeading()
	p := geom.Project(r.Position(), h, st.Y)
	return geom.Project(p, h+90, st.X)
}

func (r *Registry) RegisterScript(s *Script) error {
	return r.Register(s.Name, s.Description, s)
}

// LoadDir registers every *.yaml script in dir.
func (r *Registry) LoadDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}
	var errs error
	for _, p := range paths {
		s, err := LoadScript(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, r.RegisterScript(s))
	}
	return errs
}
