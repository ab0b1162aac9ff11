package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/drivetrain/internal/control"
	"github.com/san-kum/drivetrain/internal/motion"
	"github.com/san-kum/drivetrain/internal/sim"
)

const (
	DefaultTick       = 10 * time.Millisecond
	DefaultMaxCommand = 127.0
	DefaultIntegrator = "rk4"
	DefaultRoutine    = "skills"
	DefaultLogLevel   = "info"
)

type Config struct {
	Routine    string `yaml:"routine"`
	Integrator string `yaml:"integrator"`
	LogLevel   string `yaml:"log_level"`

	Tick             time.Duration `yaml:"tick"`
	MaxCommand       float64       `yaml:"max_command"`
	TrackOffsetLeft  float64       `yaml:"track_offset_left"`
	TrackOffsetRight float64       `yaml:"track_offset_right"`
	SpinSettle       time.Duration `yaml:"spin_settle"`
	OdomSettle       time.Duration `yaml:"odom_settle"`
	AutoZeroBand     float64       `yaml:"auto_zero_band"`

	PID  map[string]control.Constants `yaml:"pid"`
	Move motion.MoveToOptions         `yaml:"move"`
	Pose motion.PoseOptions           `yaml:"pose"`
	Sim  SimConfig                    `yaml:"sim"`
}

type SimConfig struct {
	TrackWidth    float64 `yaml:"track_width"`
	VelocityScale float64 `yaml:"velocity_scale"`
	MotorLag      float64 `yaml:"motor_lag"`
	HeadingNoise  float64 `yaml:"heading_noise"`
	Seed          int64   `yaml:"seed"`
	StartX        float64 `yaml:"start_x"`
	StartY        float64 `yaml:"start_y"`
	StartHeading  float64 `yaml:"start_heading"`
}

func DefaultConfig() *Config {
	t := motion.DefaultTuning()
	s := sim.DefaultConfig()

	pid := map[string]control.Constants{
		"spin":         t.Spin,
		"drive":        t.Drive,
		"auto_linear":  t.AutoLinear,
		"auto_angular": t.AutoAngular,
		"odom":         t.Odom,
		"move_linear":  t.MoveLinear,
		"move_angular": t.MoveAngular,
		"arc":          t.Arc,
	}
	for name, k := range t.Presets {
		pid[name] = k
	}

	return &Config{
		Routine:          DefaultRoutine,
		Integrator:       DefaultIntegrator,
		LogLevel:         DefaultLogLevel,
		Tick:             DefaultTick,
		MaxCommand:       DefaultMaxCommand,
		TrackOffsetLeft:  t.TrackOffsetLeft,
		TrackOffsetRight: t.TrackOffsetRight,
		SpinSettle:       t.SpinSettle,
		OdomSettle:       t.OdomSettle,
		AutoZeroBand:     t.AutoZeroBand,
		PID:              pid,
		Move:             t.Move,
		Pose:             t.Pose,
		Sim: SimConfig{
			TrackWidth:    s.TrackWidth,
			VelocityScale: s.VelocityScale,
			Seed:          s.Seed,
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the
// keys it changes. PID entries are merged per name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	defaults := cfg.PID
	cfg.PID = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	for name, k := range defaults {
		if _, ok := cfg.PID[name]; !ok {
			if cfg.PID == nil {
				cfg.PID = make(map[string]control.Constants)
			}
			cfg.PID[name] = k
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Tick <= 0 {
		return errors.Errorf("tick must be positive, got %v", c.Tick)
	}
	if c.MaxCommand <= 0 {
		return errors.Errorf("max_command must be positive, got %f", c.MaxCommand)
	}
	if c.Pose.Resolution < 1 {
		return errors.Errorf("pose.resolution must be at least 1, got %d", c.Pose.Resolution)
	}
	for name, k := range c.PID {
		if k.Tolerance < 0 {
			return errors.Errorf("pid %q: tolerance must not be negative", name)
		}
	}
	return nil
}

// Tuning converts the file layout into chassis tuning. Gain sets absent
// from the file keep their defaults.
func (c *Config) Tuning() motion.Tuning {
	t := motion.DefaultTuning()
	t.Tick = c.Tick
	t.MaxCommand = c.MaxCommand
	t.TrackOffsetLeft = c.TrackOffsetLeft
	t.TrackOffsetRight = c.TrackOffsetRight
	t.SpinSettle = c.SpinSettle
	t.OdomSettle = c.OdomSettle
	t.AutoZeroBand = c.AutoZeroBand
	t.Move = c.Move
	t.Pose = c.Pose

	fixed := map[string]*control.Constants{
		"spin":         &t.Spin,
		"drive":        &t.Drive,
		"auto_linear":  &t.AutoLinear,
		"auto_angular": &t.AutoAngular,
		"odom":         &t.Odom,
		"move_linear":  &t.MoveLinear,
		"move_angular": &t.MoveAngular,
		"arc":          &t.Arc,
	}
	presets := make(map[string]control.Constants, len(t.Presets))
	for name, k := range t.Presets {
		presets[name] = k
	}
	for name, k := range c.PID {
		if dst, ok := fixed[name]; ok {
			*dst = k
			continue
		}
		presets[name] = k
	}
	t.Presets = presets
	return t
}

func (c *Config) SimConfig() sim.Config {
	s := sim.DefaultConfig()
	s.TrackWidth = c.Sim.TrackWidth
	s.VelocityScale = c.Sim.VelocityScale
	s.MotorLag = c.Sim.MotorLag
	s.HeadingNoise = c.Sim.HeadingNoise
	s.Seed = c.Sim.Seed
	s.StartX = c.Sim.StartX
	s.StartY = c.Sim.StartY
	s.StartHeading = c.Sim.StartHeading
	s.MaxCommand = c.MaxCommand
	return s
}
