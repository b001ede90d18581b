package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/circlesim/internal/dynamo"
)

const (
	DefaultDt         = 1.0 / 60.0
	DefaultDuration   = 10.0
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultGravityY   = 9.8 * 30
	DefaultCount      = 10
	DefaultMinRadius  = 10.0
	DefaultMaxRadius  = 30.0
	DefaultMaxSpeed   = 100.0
	DefaultIterations = 1
)

type Config struct {
	Scene      string       `yaml:"scene"`
	Integrator string       `yaml:"integrator"`
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	Seed       int64        `yaml:"seed"`
	World      WorldConfig  `yaml:"world"`
	Spawn      SpawnConfig  `yaml:"spawn"`
	Bodies     []BodyConfig `yaml:"bodies,omitempty"`
}

type WorldConfig struct {
	Width               float64 `yaml:"width"`
	Height              float64 `yaml:"height"`
	GravityX            float64 `yaml:"gravity_x"`
	GravityY            float64 `yaml:"gravity_y"`
	CollisionIterations int     `yaml:"collision_iterations"`
}

// SpawnConfig drives the randomly generated circles of the random and rain
// scenes and of interactive spawning.
type SpawnConfig struct {
	Count       int     `yaml:"count"`
	MinRadius   float64 `yaml:"min_radius"`
	MaxRadius   float64 `yaml:"max_radius"`
	MaxSpeed    float64 `yaml:"max_speed"`
	Restitution float64 `yaml:"restitution"`
}

// BodyConfig places one circle explicitly. Zero Mass means π·r², a nil
// Restitution means the body default.
type BodyConfig struct {
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	VX          float64  `yaml:"vx"`
	VY          float64  `yaml:"vy"`
	Radius      float64  `yaml:"radius"`
	Mass        float64  `yaml:"mass,omitempty"`
	Restitution *float64 `yaml:"restitution,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      "random",
		Integrator: "semi-implicit",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		World: WorldConfig{
			Width:               DefaultWidth,
			Height:              DefaultHeight,
			GravityY:            DefaultGravityY,
			CollisionIterations: DefaultIterations,
		},
		Spawn: SpawnConfig{
			Count:       DefaultCount,
			MinRadius:   DefaultMinRadius,
			MaxRadius:   DefaultMaxRadius,
			MaxSpeed:    DefaultMaxSpeed,
			Restitution: dynamo.DefaultRestitution,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Clone returns a deep copy, so presets can be customised without
// touching the shared table.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	for i, b := range out.Bodies {
		if b.Restitution != nil {
			out.Bodies[i].Restitution = Float(*b.Restitution)
		}
	}
	return &out
}

// Validate reports the first out-of-range field.
func (c *Config) Validate() error {
	check := func(ok bool, format string, args ...any) error {
		if ok {
			return nil
		}
		return fmt.Errorf(format+": %w", append(args, dynamo.ErrParameterBounds)...)
	}

	checks := []error{
		check(positive(c.Dt), "dt %v", c.Dt),
		check(positive(c.Duration), "duration %v", c.Duration),
		check(positive(c.World.Width) && positive(c.World.Height),
			"world %vx%v", c.World.Width, c.World.Height),
		check(finite(c.World.GravityX) && finite(c.World.GravityY),
			"gravity (%v, %v)", c.World.GravityX, c.World.GravityY),
		check(c.World.CollisionIterations >= 1,
			"collision_iterations %d", c.World.CollisionIterations),
		check(c.Spawn.Count >= 0, "spawn count %d", c.Spawn.Count),
		check(positive(c.Spawn.MinRadius) && c.Spawn.MaxRadius >= c.Spawn.MinRadius && finite(c.Spawn.MaxRadius),
			"spawn radius [%v, %v]", c.Spawn.MinRadius, c.Spawn.MaxRadius),
		check(c.Spawn.MaxSpeed >= 0 && finite(c.Spawn.MaxSpeed), "spawn max_speed %v", c.Spawn.MaxSpeed),
		check(c.Spawn.Restitution >= 0 && c.Spawn.Restitution <= 1,
			"spawn restitution %v", c.Spawn.Restitution),
	}
	for i, b := range c.Bodies {
		checks = append(checks,
			check(positive(b.Radius), "body %d radius %v", i, b.Radius),
			check(b.Mass >= 0 && finite(b.Mass), "body %d mass %v", i, b.Mass),
			check(b.Restitution == nil || (*b.Restitution >= 0 && *b.Restitution <= 1),
				"body %d restitution %v", i, fmtOptional(b.Restitution)),
		)
	}

	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 { return &v }

func fmtOptional(f *float64) any {
	if f == nil {
		return "unset"
	}
	return *f
}

func positive(f float64) bool { return f > 0 && !math.IsInf(f, 0) }
func finite(f float64) bool   { return !math.IsNaN(f) && !math.IsInf(f, 0) }
