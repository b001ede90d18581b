package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/physics"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	world     *physics.World
	simulator *dynamo.Simulator
	log       *zap.Logger
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		log:      zap.NewNop(),
	}
}

func (e *Experiment) SetLogger(l *zap.Logger) {
	if l != nil {
		e.log = l
	}
}

// Setup builds the world and a simulator carrying the default metrics plus
// any extra ones.
func (e *Experiment) Setup(extra ...dynamo.Metric) error {
	w, err := e.registry.BuildWorld(e.cfg)
	if err != nil {
		return err
	}
	e.world = w
	e.simulator = dynamo.New(w)
	e.simulator.SetLogger(e.log)
	for _, m := range e.registry.DefaultMetrics(w) {
		e.simulator.AddMetric(m)
	}
	for _, m := range extra {
		e.simulator.AddMetric(m)
	}

	e.log.Info("experiment ready",
		zap.String("scene", e.cfg.Scene),
		zap.String("integrator", e.cfg.Integrator),
		zap.Int64("seed", e.cfg.Seed),
		zap.Int("bodies", w.Len()))
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return e.simulator.Run(ctx, e.SimConfig())
}

// SimConfig translates the experiment config into simulator settings.
func (e *Experiment) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	}
}

func (e *Experiment) World() *physics.World        { return e.world }
func (e *Experiment) Simulator() *dynamo.Simulator { return e.simulator }
func (e *Experiment) Config() *config.Config       { return e.cfg }
