package automation

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/experiment"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Seed is handed to steps that leave theirs at zero, offset by the
	// step index.
	Seed  int64  `yaml:"seed"`
	Steps []Step `yaml:"steps"`
}

// Step is one run of a scenario. In YAML it is a regular config document
// plus optional name and preset keys; the preset is applied first and the
// remaining keys override it.
type Step struct {
	Name   string
	Preset string
	Config *config.Config
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Name   string `yaml:"name"`
		Scene  string `yaml:"scene"`
		Preset string `yaml:"preset"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if head.Scene != "" {
		cfg.Scene = head.Scene
	}
	if head.Preset != "" {
		p := config.GetPreset(cfg.Scene, head.Preset)
		if p == nil {
			return fmt.Errorf("unknown preset %s for scene %s", head.Preset, cfg.Scene)
		}
		cfg = p
	}
	if err := node.Decode(cfg); err != nil {
		return err
	}

	s.Name = head.Name
	if s.Name == "" {
		s.Name = cfg.Scene
	}
	s.Preset = head.Preset
	s.Config = cfg
	return nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

type StepResult struct {
	Name        string
	Config      *config.Config
	Result      *dynamo.Result
	Fingerprint uint64
}

// RunScenario executes all steps in a scenario. Results of the steps that
// finished are returned alongside the first error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg := step.Config.Clone()
		if cfg.Seed == 0 {
			cfg.Seed = scenario.Seed + int64(i)
		}
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}

		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("name", step.Name))

		exp := experiment.New(cfg, registry)
		exp.SetLogger(log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Name:        step.Name,
			Config:      cfg,
			Result:      result,
			Fingerprint: exp.World().Fingerprint(),
		})
	}

	return results, nil
}

// Sweep runs one scene across evenly spaced values of a single parameter.
type Sweep struct {
	Base  *config.Config
	Param string
	Min   float64
	Max   float64
	Steps int
}

type SweepResult struct {
	ParamValue float64
	Result     *dynamo.Result
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *Sweep, registry *experiment.Registry, log *zap.Logger) ([]SweepResult, error) {
	if sweep.Steps < 1 {
		return nil, fmt.Errorf("sweep steps %d: %w", sweep.Steps, dynamo.ErrParameterBounds)
	}
	if log == nil {
		log = zap.NewNop()
	}

	paramStep := 0.0
	if sweep.Steps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	}

	results := make([]SweepResult, 0, sweep.Steps)
	for i := 0; i < sweep.Steps; i++ {
		paramVal := sweep.Min + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.Param, paramVal); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return results, err
		}

		exp := experiment.New(cfg, registry)
		exp.SetLogger(log)
		if err := exp.Setup(); err != nil {
			return results, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{ParamValue: paramVal, Result: result})
		log.Debug("sweep point",
			zap.Int("index", i+1),
			zap.String("param", sweep.Param),
			zap.Float64("value", paramVal))
	}

	return results, nil
}
