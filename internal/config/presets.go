package config

import (
	"sort"
	"time"
)

// Presets are whole robot configurations for common test conditions.
var Presets = map[string]func() *Config{
	"competition": DefaultConfig,
	"practice": func() *Config {
		c := DefaultConfig()
		c.Sim.MotorLag = 0.05
		return c
	},
	"noisy": func() *Config {
		c := DefaultConfig()
		c.Sim.MotorLag = 0.05
		c.Sim.HeadingNoise = 0.3
		return c
	},
	"sluggish": func() *Config {
		c := DefaultConfig()
		c.Sim.MotorLag = 0.15
		c.Sim.VelocityScale = 14
		return c
	},
	"coarse": func() *Config {
		c := DefaultConfig()
		c.Tick = 20 * time.Millisecond
		c.Integrator = "euler"
		return c
	},
}

func GetPreset(name string) *Config {
	if p, ok := Presets[name]; ok {
		return p()
	}
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
