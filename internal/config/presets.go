package config

import "sort"

func preset(scene string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Scene = scene
	mutate(cfg)
	return cfg
}

var Presets = map[string]map[string]*Config{
	"random": {
		"default": preset("random", func(c *Config) {}),
		"crowd": preset("random", func(c *Config) {
			c.Spawn.Count = 60
			c.Spawn.MinRadius, c.Spawn.MaxRadius = 6, 14
			c.World.CollisionIterations = 4
		}),
		"bouncy": preset("random", func(c *Config) {
			c.Spawn.Restitution = 1.0
			c.Spawn.MaxSpeed = 300
			c.World.GravityY = 0
		}),
	},
	"drop": {
		"default": preset("drop", func(c *Config) { c.Duration = 5 }),
		"moon": preset("drop", func(c *Config) {
			c.Duration = 15
			c.World.GravityY = 1.62 * 30
		}),
	},
	"pair": {
		"elastic": preset("pair", func(c *Config) {
			c.World.GravityY = 0
			c.Duration = 4
			c.Bodies = []BodyConfig{
				{X: 300, Y: 300, VX: 100, Radius: 20, Mass: 1, Restitution: Float(1)},
				{X: 500, Y: 300, VX: -100, Radius: 20, Mass: 1, Restitution: Float(1)},
			}
		}),
		"heavy": preset("pair", func(c *Config) {
			c.World.GravityY = 0
			c.Duration = 4
			c.Bodies = []BodyConfig{
				{X: 200, Y: 300, VX: 150, Radius: 30},
				{X: 500, Y: 300, Radius: 10},
			}
		}),
	},
	"stack": {
		"tower": preset("stack", func(c *Config) {
			c.Spawn.Count = 8
			c.World.CollisionIterations = 8
		}),
	},
	"rain": {
		"drizzle": preset("rain", func(c *Config) {
			c.Spawn.Count = 40
			c.Spawn.MinRadius, c.Spawn.MaxRadius = 5, 8
		}),
		"storm": preset("rain", func(c *Config) {
			c.Spawn.Count = 150
			c.Spawn.MinRadius, c.Spawn.MaxRadius = 4, 6
			c.World.CollisionIterations = 3
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
