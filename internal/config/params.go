package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/circlesim/internal/dynamo"
)

// Tunable parameters addressable by name from sweeps and grid searches.
// Integer-valued ones are rounded.
var params = map[string]func(c *Config, v float64){
	"dt":          func(c *Config, v float64) { c.Dt = v },
	"duration":    func(c *Config, v float64) { c.Duration = v },
	"width":       func(c *Config, v float64) { c.World.Width = v },
	"height":      func(c *Config, v float64) { c.World.Height = v },
	"gravity":     func(c *Config, v float64) { c.World.GravityY = v },
	"gravity_x":   func(c *Config, v float64) { c.World.GravityX = v },
	"iterations":  func(c *Config, v float64) { c.World.CollisionIterations = int(math.Round(v)) },
	"count":       func(c *Config, v float64) { c.Spawn.Count = int(math.Round(v)) },
	"min_radius":  func(c *Config, v float64) { c.Spawn.MinRadius = v },
	"max_radius":  func(c *Config, v float64) { c.Spawn.MaxRadius = v },
	"max_speed":   func(c *Config, v float64) { c.Spawn.MaxSpeed = v },
	"restitution": func(c *Config, v float64) { c.Spawn.Restitution = v },
}

// SetParam assigns a named parameter. It does not validate the result.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q (available: %v): %w", name, ParamNames(), dynamo.ErrParameterBounds)
	}
	set(c, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
