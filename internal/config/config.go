package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flowgrid/internal/dynamo"
	"github.com/san-kum/flowgrid/internal/flow"
	"github.com/san-kum/flowgrid/internal/physics"
	"github.com/san-kum/flowgrid/internal/sim"
)

const (
	DefaultTicks        = 3000
	DefaultFPS          = 60
	DefaultWorldWidth   = 960
	DefaultWorldHeight  = 720
	DefaultGridSize     = 120
	DefaultRadius       = 1.0
	DefaultLifeSpanMin  = 1000
	DefaultLifeSpanMax  = 5000
	DefaultReturnMin    = 250
	DefaultReturnMax    = 2000
	DefaultGravityY     = 0.004
	DefaultResetMin     = 0.3
	DefaultResetMax     = 0.7
	DefaultCameraWidth  = 640
	DefaultCameraHeight = 480
	DefaultCameraFPS    = 30
	DefaultDecimate     = 0.25
	DefaultWindow       = 5
	DefaultMinEigen     = 1e-3
)

type Config struct {
	Seed      int64           `yaml:"seed"`
	Ticks     int             `yaml:"ticks"`
	FPS       int             `yaml:"fps"`
	Workers   int             `yaml:"workers"`
	World     WorldConfig     `yaml:"world"`
	Grid      GridConfig      `yaml:"grid"`
	Particle  ParticleConfig  `yaml:"particle"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Reset     ResetConfig     `yaml:"reset"`
	Repulsion RepulsionConfig `yaml:"repulsion"`
	Camera    CameraConfig    `yaml:"camera"`
	Flow      FlowConfig      `yaml:"flow"`
}

type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type GridConfig struct {
	Cols   int     `yaml:"cols"`
	Rows   int     `yaml:"rows"`
	Radius float64 `yaml:"radius"`
}

type ParticleConfig struct {
	LifeSpanMin int `yaml:"life_span_min"`
	LifeSpanMax int `yaml:"life_span_max"`
	ReturnMin   int `yaml:"return_min"`
	ReturnMax   int `yaml:"return_max"`
}

type PhysicsConfig struct {
	Stiffness      float64 `yaml:"stiffness"`
	RestLength     float64 `yaml:"rest_length"`
	DetachDistance float64 `yaml:"detach_distance"`
	Drag           float64 `yaml:"drag"`
	GravityX       float64 `yaml:"gravity_x"`
	GravityY       float64 `yaml:"gravity_y"`
	FieldMin       float64 `yaml:"field_min"`
	FieldMax       float64 `yaml:"field_max"`
	FieldGain      float64 `yaml:"field_gain"`
}

type ResetConfig struct {
	MinFraction float64 `yaml:"min_fraction"`
	MaxFraction float64 `yaml:"max_fraction"`
}

type RepulsionConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
	Scale   float64 `yaml:"scale"`
}

type CameraConfig struct {
	Source string `yaml:"source"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Dir    string `yaml:"dir"`
	Blobs  int    `yaml:"blobs"`
	Mirror bool   `yaml:"mirror"`
}

type FlowConfig struct {
	Algorithm string  `yaml:"algorithm"`
	Decimate  float64 `yaml:"decimate"`
	Window    int     `yaml:"window"`
	MinEigen  float64 `yaml:"min_eigen"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Seed:  1,
		Ticks: DefaultTicks,
		FPS:   DefaultFPS,
		World: WorldConfig{Width: DefaultWorldWidth, Height: DefaultWorldHeight},
		Grid: GridConfig{
			Cols:   DefaultGridSize,
			Rows:   DefaultGridSize,
			Radius: DefaultRadius,
		},
		Particle: ParticleConfig{
			LifeSpanMin: DefaultLifeSpanMin,
			LifeSpanMax: DefaultLifeSpanMax,
			ReturnMin:   DefaultReturnMin,
			ReturnMax:   DefaultReturnMax,
		},
		Physics: PhysicsConfig{
			Stiffness:      p.Stiffness,
			RestLength:     p.RestLength,
			DetachDistance: p.DetachDistance,
			Drag:           p.Drag,
			GravityY:       DefaultGravityY,
			FieldMin:       p.FieldMin,
			FieldMax:       p.FieldMax,
			FieldGain:      p.FieldGain,
		},
		Reset: ResetConfig{MinFraction: DefaultResetMin, MaxFraction: DefaultResetMax},
		Repulsion: RepulsionConfig{
			Radius: 4,
			Scale:  0.05,
		},
		Camera: CameraConfig{
			Source: "noise",
			Width:  DefaultCameraWidth,
			Height: DefaultCameraHeight,
			FPS:    DefaultCameraFPS,
			Blobs:  4,
			Mirror: true,
		},
		Flow: FlowConfig{
			Algorithm: "lucas-kanade",
			Decimate:  DefaultDecimate,
			Window:    DefaultWindow,
			MinEigen:  DefaultMinEigen,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver decodes the file at path on top of base, so keys missing from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func bounds(field string, value any, reason string) error {
	return &dynamo.ParamError{Field: field, Value: value, Reason: reason}
}

// Validate checks ranges that would otherwise produce a degenerate run.
func (c *Config) Validate() error {
	switch {
	case c.Ticks < 0:
		return bounds("ticks", c.Ticks, "must not be negative")
	case c.FPS < 0:
		return bounds("fps", c.FPS, "must not be negative")
	case c.World.Width <= 0 || c.World.Height <= 0:
		return bounds("world", c.World, "must be positive")
	case c.Grid.Cols <= 0 || c.Grid.Rows <= 0:
		return bounds("grid", c.Grid, "cols and rows must be positive")
	case c.Grid.Radius < 0:
		return bounds("grid.radius", c.Grid.Radius, "must not be negative")
	case c.Particle.LifeSpanMin <= 0 || c.Particle.LifeSpanMax < c.Particle.LifeSpanMin:
		return bounds("particle.life_span", c.Particle, "need 0 < min <= max")
	case c.Particle.ReturnMin <= 0 || c.Particle.ReturnMax < c.Particle.ReturnMin:
		return bounds("particle.return", c.Particle, "need 0 < min <= max")
	case c.Physics.DetachDistance <= 0:
		return bounds("physics.detach_distance", c.Physics.DetachDistance, "must be positive")
	case c.Physics.FieldMin < 0 || c.Physics.FieldMax < c.Physics.FieldMin:
		return bounds("physics.field", c.Physics, "need 0 <= field_min <= field_max")
	case c.Reset.MinFraction < 0 || c.Reset.MaxFraction > 1 || c.Reset.MaxFraction < c.Reset.MinFraction:
		return bounds("reset", c.Reset, "need 0 <= min <= max <= 1")
	case c.Repulsion.Enabled && c.Repulsion.Radius <= 0:
		return bounds("repulsion.radius", c.Repulsion.Radius, "must be positive when enabled")
	case c.Camera.Width <= 0 || c.Camera.Height <= 0:
		return bounds("camera", c.Camera, "width and height must be positive")
	case c.Camera.FPS < 0:
		return bounds("camera.fps", c.Camera.FPS, "must not be negative")
	case c.Flow.Decimate <= 0 || c.Flow.Decimate > 1:
		return bounds("flow.decimate", c.Flow.Decimate, "must be in (0, 1]")
	case c.Flow.Window < 1:
		return bounds("flow.window", c.Flow.Window, "must be at least 1")
	}
	return nil
}

func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		Stiffness:      c.Physics.Stiffness,
		RestLength:     c.Physics.RestLength,
		DetachDistance: c.Physics.DetachDistance,
		Drag:           c.Physics.Drag,
		FieldMin:       c.Physics.FieldMin,
		FieldMax:       c.Physics.FieldMax,
		FieldGain:      c.Physics.FieldGain,
	}
}

func (c *Config) SceneConfig() sim.SceneConfig {
	return sim.SceneConfig{
		World:           physics.Bounds{Width: c.World.Width, Height: c.World.Height},
		Cols:            c.Grid.Cols,
		Rows:            c.Grid.Rows,
		Radius:          c.Grid.Radius,
		LifeSpanMin:     c.Particle.LifeSpanMin,
		LifeSpanMax:     c.Particle.LifeSpanMax,
		ReturnMin:       c.Particle.ReturnMin,
		ReturnMax:       c.Particle.ReturnMax,
		Params:          c.PhysicsParams(),
		Gravity:         dynamo.V(c.Physics.GravityX, c.Physics.GravityY),
		ResetMin:        c.Reset.MinFraction,
		ResetMax:        c.Reset.MaxFraction,
		Repulsion:       c.Repulsion.Enabled,
		RepulsionRadius: c.Repulsion.Radius,
		RepulsionScale:  c.Repulsion.Scale,
		Workers:         c.Workers,
		Seed:            c.Seed,
	}
}

func (c *Config) WorkerOptions() flow.WorkerOptions {
	return flow.WorkerOptions{Decimate: c.Flow.Decimate, Mirror: c.Camera.Mirror}
}

func (c *Config) RunConfig(record bool) sim.Config {
	return sim.Config{Ticks: c.Ticks, FPS: c.FPS, Record: record}
}

// GetParams flattens the tunable physics values, keyed as in the YAML file.
func (c *Config) GetParams() map[string]float64 {
	params := c.PhysicsParams().GetParams()
	params["gravity_x"] = c.Physics.GravityX
	params["gravity_y"] = c.Physics.GravityY
	params["reset_min"] = c.Reset.MinFraction
	params["reset_max"] = c.Reset.MaxFraction
	return params
}

// SetParam updates one value named as in GetParams. It reports whether the
// name was known.
func (c *Config) SetParam(name string, value float64) bool {
	switch name {
	case "stiffness":
		c.Physics.Stiffness = value
	case "rest_length":
		c.Physics.RestLength = value
	case "detach_distance":
		c.Physics.DetachDistance = value
	case "drag":
		c.Physics.Drag = value
	case "field_min":
		c.Physics.FieldMin = value
	case "field_max":
		c.Physics.FieldMax = value
	case "field_gain":
		c.Physics.FieldGain = value
	case "gravity_x":
		c.Physics.GravityX = value
	case "gravity_y":
		c.Physics.GravityY = value
	case "reset_min":
		c.Reset.MinFraction = value
	case "reset_max":
		c.Reset.MaxFraction = value
	default:
		return false
	}
	return true
}
