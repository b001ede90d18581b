package experiment

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/integrators"
	"github.com/san-kum/circlesim/internal/metrics"
	"github.com/san-kum/circlesim/internal/physics"
)

// SceneFunc populates an empty, already configured world.
type SceneFunc func(w *physics.World, cfg *config.Config, rng *rand.Rand) error

type Registry struct {
	scenes      map[string]SceneFunc
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes:      make(map[string]SceneFunc),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.scenes["random"] = randomScene
	r.scenes["drop"] = dropScene
	r.scenes["pair"] = pairScene
	r.scenes["stack"] = stackScene
	r.scenes["rain"] = rainScene

	r.integrators["semi-implicit"] = func() dynamo.Integrator { return integrators.NewSemiImplicitEuler() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }

	return r
}

// RegisterScene adds or replaces a scene.
func (r *Registry) RegisterScene(name string, fn SceneFunc) {
	r.scenes[name] = fn
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownIntegrator)
	}
	return fn(), nil
}

func (r *Registry) ListScenes() []string {
	return sortedKeys(r.scenes)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

// BuildWorld validates cfg and returns a populated world. The same config
// and seed always produce the same world.
func (r *Registry) BuildWorld(cfg *config.Config) (*physics.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scene, ok := r.scenes[cfg.Scene]
	if !ok {
		return nil, fmt.Errorf("%q: %w", cfg.Scene, dynamo.ErrUnknownScene)
	}
	integrator, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	w, err := physics.NewWorld(cfg.World.Width, cfg.World.Height)
	if err != nil {
		return nil, err
	}
	w.SetGravity(dynamo.V(cfg.World.GravityX, cfg.World.GravityY))
	if err := w.SetCollisionIterations(cfg.World.CollisionIterations); err != nil {
		return nil, err
	}
	w.SetIntegrator(integrator)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if err := scene(w, cfg, rng); err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Scene, err)
	}
	return w, nil
}

// Factory adapts BuildWorld to dynamo.Ensemble: every member gets cfg with
// its own seed and the default metrics.
func (r *Registry) Factory(cfg *config.Config) dynamo.Factory {
	return func(seed int64) (dynamo.System, []dynamo.Metric, error) {
		c := cfg.Clone()
		c.Seed = seed
		w, err := r.BuildWorld(c)
		if err != nil {
			return nil, nil, err
		}
		return w, r.DefaultMetrics(w), nil
	}
}

func (r *Registry) DefaultMetrics(w *physics.World) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewEnergyDrift(w),
		metrics.NewMomentum(),
		metrics.NewMaxPenetration(),
		metrics.NewContainment(w.Width(), w.Height()),
		metrics.NewCollisions(w),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RandomCircle builds a circle at pos with a radius drawn from
// [MinRadius, MaxRadius], a random colour and the spawn restitution.
func RandomCircle(rng *rand.Rand, pos dynamo.Vec2, spawn config.SpawnConfig) (*physics.Circle, error) {
	radius := spawn.MinRadius + rng.Float64()*(spawn.MaxRadius-spawn.MinRadius)
	c, err := physics.NewCircle(pos, radius, physics.RandomColor(rng))
	if err != nil {
		return nil, err
	}
	if err := c.SetRestitution(spawn.Restitution); err != nil {
		return nil, err
	}
	return c, nil
}

func addBodies(w *physics.World, bodies []config.BodyConfig, rng *rand.Rand) error {
	for i, bc := range bodies {
		pos := dynamo.V(bc.X, bc.Y)
		color := physics.RandomColor(rng)

		var (
			c   *physics.Circle
			err error
		)
		if bc.Mass > 0 {
			c, err = physics.NewCircleWithMass(pos, bc.Radius, bc.Mass, color)
		} else {
			c, err = physics.NewCircle(pos, bc.Radius, color)
		}
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		if bc.Restitution != nil {
			if err := c.SetRestitution(*bc.Restitution); err != nil {
				return fmt.Errorf("body %d: %w", i, err)
			}
		}
		c.Velocity = dynamo.V(bc.VX, bc.VY)
		w.AddBody(c)
	}
	return nil
}

func randomScene(w *physics.World, cfg *config.Config, rng *rand.Rand) error {
	for i := 0; i < cfg.Spawn.Count; i++ {
		c, err := RandomCircle(rng, dynamo.Vec2{}, cfg.Spawn)
		if err != nil {
			return err
		}
		r := c.Radius()
		c.Position = dynamo.V(
			uniform(rng, r, w.Width()-r),
			uniform(rng, r, w.Height()-r),
		)
		c.Velocity = dynamo.V(
			uniform(rng, -cfg.Spawn.MaxSpeed, cfg.Spawn.MaxSpeed),
			uniform(rng, -cfg.Spawn.MaxSpeed, cfg.Spawn.MaxSpeed),
		)
		w.AddBody(c)
	}
	return addBodies(w, cfg.Bodies, rng)
}

// dropScene releases one circle of radius 20 from a sixth of the height,
// centred horizontally.
func dropScene(w *physics.World, cfg *config.Config, rng *rand.Rand) error {
	c, err := physics.NewCircle(dynamo.V(w.Width()/2, w.Height()/6), 20, physics.RandomColor(rng))
	if err != nil {
		return err
	}
	if err := c.SetRestitution(cfg.Spawn.Restitution); err != nil {
		return err
	}
	w.AddBody(c)
	return addBodies(w, cfg.Bodies, rng)
}

// pairScene uses the configured bodies, or a symmetric head-on pair.
func pairScene(w *physics.World, cfg *config.Config, rng *rand.Rand) error {
	bodies := cfg.Bodies
	if len(bodies) == 0 {
		y := w.Height() / 2
		bodies = []config.BodyConfig{
			{X: w.Width() / 4, Y: y, VX: cfg.Spawn.MaxSpeed, Radius: 20, Restitution: config.Float(cfg.Spawn.Restitution)},
			{X: 3 * w.Width() / 4, Y: y, VX: -cfg.Spawn.MaxSpeed, Radius: 20, Restitution: config.Float(cfg.Spawn.Restitution)},
		}
	}
	return addBodies(w, bodies, rng)
}

// stackScene piles Count circles of MaxRadius in a resting column on the
// floor.
func stackScene(w *physics.World, cfg *config.Config, rng *rand.Rand) error {
	r := cfg.Spawn.MaxRadius
	for i := 0; i < cfg.Spawn.Count; i++ {
		pos := dynamo.V(w.Width()/2, w.Height()-r-float64(2*i)*r)
		c, err := physics.NewCircle(pos, r, physics.RandomColor(rng))
		if err != nil {
			return err
		}
		if err := c.SetRestitution(cfg.Spawn.Restitution); err != nil {
			return err
		}
		w.AddBody(c)
	}
	return addBodies(w, cfg.Bodies, rng)
}

// rainScene lays Count circles on a grid over the upper half of the world,
// at rest.
func rainScene(w *physics.World, cfg *config.Config, rng *rand.Rand) error {
	n := cfg.Spawn.Count
	if n == 0 {
		return addBodies(w, cfg.Bodies, rng)
	}
	cell := 2 * cfg.Spawn.MaxRadius
	cols := int(math.Max(1, math.Floor(w.Width()/cell)))
	for i := 0; i < n; i++ {
		col, row := i%cols, i/cols
		pos := dynamo.V(
			cell/2+float64(col)*cell,
			cell/2+float64(row)*cell,
		)
		c, err := RandomCircle(rng, pos, cfg.Spawn)
		if err != nil {
			return err
		}
		w.AddBody(c)
	}
	return addBodies(w, cfg.Bodies, rng)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
