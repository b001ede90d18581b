package dynamo

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Simulator drives a System for a fixed number of steps.
type Simulator struct {
	sys       System
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

func New(sys System) *Simulator {
	return &Simulator{
		sys:       sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetLogger replaces the no-op logger.
func (s *Simulator) SetLogger(l *zap.Logger) {
	if l != nil {
		s.log = l
	}
}

// Run steps the system Duration/Dt times and records every state.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	snap := s.sys.Snapshot()
	result.States = append(result.States, snap.State())
	result.Times = append(result.Times, t)

	initialEnergy := s.energy()
	s.log.Debug("simulation started",
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt),
		zap.Int("bodies", len(snap)))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(snap, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap, t)
		}

		if err := s.sys.Step(cfg.Dt); err != nil {
			return result, &SimulationError{Step: i, Time: t, Wrapped: err}
		}
		t += cfg.Dt
		result.StepsTaken++

		snap = s.sys.Snapshot()
		st := snap.State()
		if cfg.ValidateState && !st.IsValid() {
			s.log.Warn("state diverged", zap.Int("step", i), zap.Float64("t", t))
			return result, &SimulationError{Step: i, Time: t, Wrapped: ErrInvalidState}
		}

		result.States = append(result.States, st)
		result.Times = append(result.Times, t)
	}

	finalEnergy := s.energy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug("simulation finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("energy_drift", result.EnergyDrift))

	return result, nil
}

// RunWithCallback steps until Duration elapses, the context ends or the
// callback returns false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Snapshot, float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	steps := stepCount(cfg)
	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.sys.Snapshot(), t) {
			return nil
		}

		if err := s.sys.Step(cfg.Dt); err != nil {
			return &SimulationError{Step: step, Time: t, Wrapped: err}
		}
		t += cfg.Dt
	}

	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt %v: %w", cfg.Dt, ErrInvalidTimestep)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration %v: %w", cfg.Duration, ErrParameterBounds)
	}
	if cfg.Duration/cfg.Dt > maxSteps {
		return fmt.Errorf("duration %v at dt %v exceeds %d steps: %w", cfg.Duration, cfg.Dt, maxSteps, ErrParameterBounds)
	}
	return nil
}

const maxSteps = math.MaxInt32

// stepCount is the number of steps both Run and RunWithCallback take.
func stepCount(cfg Config) int {
	return int(math.Round(cfg.Duration / cfg.Dt))
}

func (s *Simulator) energy() float64 {
	if h, ok := s.sys.(Hamiltonian); ok {
		return h.Energy()
	}
	return 0
}
