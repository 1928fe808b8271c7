package config

import "sort"

// Preset is a named adjustment applied on top of the defaults.
type Preset struct {
	Description string
	Apply       func(c *Config)
}

var Presets = map[string]Preset{
	"default": {
		Description: "noise camera, 120x120 grid",
		Apply:       func(c *Config) {},
	},
	"calm": {
		Description: "slow drifting noise, long lifetimes",
		Apply: func(c *Config) {
			c.Camera.Source = "noise"
			c.Camera.FPS = 15
			c.Physics.FieldGain = 0.05
			c.Particle.LifeSpanMin, c.Particle.LifeSpanMax = 2000, 6000
		},
	},
	"storm": {
		Description: "orbiting blobs, strong flow, quick resets",
		Apply: func(c *Config) {
			c.Camera.Source = "blobs"
			c.Camera.Blobs = 6
			c.Physics.FieldGain = 0.5
			c.Particle.LifeSpanMin, c.Particle.LifeSpanMax = 200, 800
			c.Particle.ReturnMin, c.Particle.ReturnMax = 100, 400
			c.Reset.MinFraction, c.Reset.MaxFraction = 0.1, 0.3
		},
	},
	"dense": {
		Description: "200x200 grid with repulsion",
		Apply: func(c *Config) {
			c.Grid.Cols, c.Grid.Rows = 200, 200
			c.Repulsion.Enabled = true
			c.Repulsion.Radius = 3
		},
	},
	"still": {
		Description: "static camera, particles stay tethered",
		Apply: func(c *Config) {
			c.Camera.Source = "still"
			c.Ticks = 500
		},
	},
	"quick": {
		Description: "small grid and short run for smoke tests",
		Apply: func(c *Config) {
			c.Grid.Cols, c.Grid.Rows = 30, 30
			c.Ticks = 300
			c.FPS = 0
			c.Particle.LifeSpanMin, c.Particle.LifeSpanMax = 50, 150
			c.Particle.ReturnMin, c.Particle.ReturnMax = 20, 60
		},
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
