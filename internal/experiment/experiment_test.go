package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/physics"
)

func TestBuildWorldScenes(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		scene  string
		bodies int
	}{
		{"random", config.DefaultCount},
		{"drop", 1},
		{"pair", 2},
		{"stack", config.DefaultCount},
		{"rain", config.DefaultCount},
	}

	for _, tt := range tests {
		t.Run(tt.scene, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Scene = tt.scene
			w, err := r.BuildWorld(cfg)
			if err != nil {
				t.Fatalf("BuildWorld() error = %v", err)
			}
			if w.Len() != tt.bodies {
				t.Errorf("expected %d bodies, got %d", tt.bodies, w.Len())
			}
			for i, s := range w.Bodies() {
				lo, hi := s.Bounds()
				if lo.X < 0 || lo.Y < 0 || hi.X > w.Width() || hi.Y > w.Height() {
					t.Errorf("body %d starts outside the world: %v..%v", i, lo, hi)
				}
			}
		})
	}
}

func TestRandomSceneMatchesSpawnRanges(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	w, err := NewRegistry().BuildWorld(cfg)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range w.Bodies() {
		c := s.(*physics.Circle)
		if c.Radius() < cfg.Spawn.MinRadius || c.Radius() > cfg.Spawn.MaxRadius {
			t.Errorf("radius %f outside [%f, %f]", c.Radius(), cfg.Spawn.MinRadius, cfg.Spawn.MaxRadius)
		}
		if math.Abs(c.Velocity.X) > cfg.Spawn.MaxSpeed || math.Abs(c.Velocity.Y) > cfg.Spawn.MaxSpeed {
			t.Errorf("velocity %v exceeds %f", c.Velocity, cfg.Spawn.MaxSpeed)
		}
		if c.Restitution != cfg.Spawn.Restitution {
			t.Errorf("expected restitution %f, got %f", cfg.Spawn.Restitution, c.Restitution)
		}
	}
}

func TestBuildWorldIsSeeded(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()
	cfg.Seed = 3

	a, _ := r.BuildWorld(cfg)
	b, _ := r.BuildWorld(cfg)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("same seed should build identical worlds")
	}

	cfg.Seed = 4
	c, _ := r.BuildWorld(cfg)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different seeds should build different worlds")
	}
}

func TestBuildWorldExplicitBodies(t *testing.T) {
	cfg := config.GetPreset("pair", "elastic")
	w, err := NewRegistry().BuildWorld(cfg)
	if err != nil {
		t.Fatal(err)
	}

	c := w.Bodies()[0].(*physics.Circle)
	if c.Mass != 1 || c.Restitution != 1 || c.Velocity.X != 100 {
		t.Errorf("unexpected first body: mass %f, e %f, v %v", c.Mass, c.Restitution, c.Velocity)
	}
	if w.Gravity() != (dynamo.Vec2{}) {
		t.Errorf("expected zero gravity, got %v", w.Gravity())
	}
}

func TestBuildWorldZeroRestitution(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"default pair", func(c *config.Config) { c.Spawn.Restitution = 0 }},
		{"explicit bodies", func(c *config.Config) {
			c.Bodies = []config.BodyConfig{
				{X: 300, Y: 300, Radius: 20, Restitution: config.Float(0)},
				{X: 500, Y: 300, Radius: 20, Restitution: config.Float(0)},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Scene = "pair"
			tt.mutate(cfg)
			if err := cfg.Validate(); err != nil {
				t.Fatal(err)
			}

			w, err := NewRegistry().BuildWorld(cfg)
			if err != nil {
				t.Fatal(err)
			}
			for i, s := range w.Bodies() {
				if e := s.Dynamics().Restitution; e != 0 {
					t.Errorf("body %d restitution = %v, want 0", i, e)
				}
			}
		})
	}
}

func TestBuildWorldUnsetRestitutionKeepsDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scene = "pair"
	cfg.Bodies = []config.BodyConfig{{X: 300, Y: 300, Radius: 20}}

	w, err := NewRegistry().BuildWorld(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if e := w.Bodies()[0].Dynamics().Restitution; e != dynamo.DefaultRestitution {
		t.Errorf("expected default restitution, got %v", e)
	}
}

func TestBuildWorldErrors(t *testing.T) {
	r := NewRegistry()

	cfg := config.DefaultConfig()
	cfg.Scene = "nonexistent"
	if _, err := r.BuildWorld(cfg); !errors.Is(err, dynamo.ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Integrator = "rk45"
	if _, err := r.BuildWorld(cfg); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Dt = -1
	if _, err := r.BuildWorld(cfg); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestListings(t *testing.T) {
	r := NewRegistry()

	scenes := r.ListScenes()
	want := []string{"drop", "pair", "rain", "random", "stack"}
	if len(scenes) != len(want) {
		t.Fatalf("expected %v, got %v", want, scenes)
	}
	for i := range want {
		if scenes[i] != want[i] {
			t.Errorf("expected %v, got %v", want, scenes)
		}
	}

	if got := r.ListIntegrators(); len(got) != 3 {
		t.Errorf("expected 3 integrators, got %v", got)
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("pair", "elastic")
	exp := New(cfg, NewRegistry())

	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before Setup")
	}
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.StepsTaken != 240 {
		t.Errorf("expected 240 steps, got %d", res.StepsTaken)
	}
	if res.Metrics["collisions"] < 1 {
		t.Errorf("expected the pair to collide, got %v", res.Metrics["collisions"])
	}
	if res.Metrics["containment"] != 1 {
		t.Errorf("expected bodies to stay inside, got %v", res.Metrics["containment"])
	}
	if res.Metrics["momentum"] > 1e-9 {
		t.Errorf("symmetric pair should carry no net momentum, got %v", res.Metrics["momentum"])
	}
}

func TestEnsembleFactory(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()
	cfg.Duration = 0.5

	ens := dynamo.NewEnsemble(r.Factory(cfg), 4, 10)
	results, err := ens.Run(context.Background(), dynamo.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, res := range results {
		if res.StepsTaken != 30 {
			t.Errorf("run %d: expected 30 steps, got %d", i, res.StepsTaken)
		}
	}
	if cfg.Seed != 0 {
		t.Error("factory must not mutate the shared config")
	}
}
