package dynamo

import "math"

// State is a flattened trajectory sample: x, y, vx, vy per body.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Sample is the read-only view of one body at one instant.
type Sample struct {
	Position Vec2
	Velocity Vec2
	Mass     float64
	Radius   float64
}

// Snapshot is the state of every body in insertion order.
type Snapshot []Sample

// State flattens the snapshot into x, y, vx, vy quadruples.
func (s Snapshot) State() State {
	st := make(State, 0, len(s)*4)
	for _, b := range s {
		st = append(st, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y)
	}
	return st
}

// System is anything that advances in discrete steps and can be sampled.
type System interface {
	Step(dt float64) error
	Snapshot() Snapshot
}

// Hamiltonian systems report a total energy, used for drift tracking.
type Hamiltonian interface {
	Energy() float64
}

// Integrator advances a single body by dt using whatever forces were
// accumulated on it.
type Integrator interface {
	Integrate(b *Body, dt float64)
}

type Metric interface {
	Name() string
	Observe(s Snapshot, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	ValidateState bool
}

// DefaultConfig is a 10 second run at the 60 Hz frame rate.
func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	States      []State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}
