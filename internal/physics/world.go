package physics

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/san-kum/circlesim/internal/dynamo"
)

const (
	// DefaultGravity matches 9.8 m/s² at 30 px per metre, y pointing down.
	DefaultGravity = 9.8 * 30

	DefaultCollisionIterations = 1
)

// World owns the bodies and advances them in fixed steps.
type World struct {
	bodies     []Shape
	gravity    dynamo.Vec2
	width      float64
	height     float64
	iterations int
	integrator dynamo.Integrator
	contacts   []Contact

	mu      sync.Mutex
	pending []Shape
}

var (
	_ dynamo.System      = (*World)(nil)
	_ dynamo.Hamiltonian = (*World)(nil)
)

// NewWorld returns an empty world of the given size with default gravity
// and a single collision pass.
func NewWorld(width, height float64) (*World, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("world bounds %vx%v: %w", width, height, dynamo.ErrParameterBounds)
	}
	return &World{
		bodies:     make([]Shape, 0),
		gravity:    dynamo.V(0, DefaultGravity),
		width:      width,
		height:     height,
		iterations: DefaultCollisionIterations,
	}, nil
}

func (w *World) Width() float64       { return w.width }
func (w *World) Height() float64      { return w.height }
func (w *World) Gravity() dynamo.Vec2 { return w.gravity }
func (w *World) Len() int             { return len(w.bodies) }

// Bodies returns the bodies in insertion order. The slice must not be
// modified; use AddBody or Spawn.
func (w *World) Bodies() []Shape { return w.bodies }

// Contacts returns the overlaps resolved during the last Step. The slice is
// reused by the next Step; copy it to keep it.
func (w *World) Contacts() []Contact { return w.contacts }

func (w *World) SetGravity(g dynamo.Vec2) { w.gravity = g }

// SetCollisionIterations sets how many resolution passes run per step.
func (w *World) SetCollisionIterations(n int) error {
	if n < 1 {
		return fmt.Errorf("collision iterations %d: %w", n, dynamo.ErrParameterBounds)
	}
	w.iterations = n
	return nil
}

// SetIntegrator replaces Body.Step as the integration scheme. nil restores
// the default.
func (w *World) SetIntegrator(in dynamo.Integrator) { w.integrator = in }

// AddBody appends s immediately. Call it only between steps.
func (w *World) AddBody(s Shape) {
	w.bodies = append(w.bodies, s)
}

// Spawn queues s to be added at the start of the next Step. It is safe to
// call from an input goroutine while a step is running.
func (w *World) Spawn(s Shape) {
	w.mu.Lock()
	w.pending = append(w.pending, s)
	w.mu.Unlock()
}

// Pending returns the number of queued spawns.
func (w *World) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("step dt %v: %w", dt, dynamo.ErrInvalidTimestep)
	}

	w.flushSpawns()

	for _, s := range w.bodies {
		b := s.Dynamics()
		s.ApplyForce(w.gravity.Scale(b.Mass))
	}

	for _, s := range w.bodies {
		if w.integrator != nil {
			w.integrator.Integrate(s.Dynamics(), dt)
		} else {
			s.Step(dt)
		}
	}

	for _, s := range w.bodies {
		w.contain(s)
	}

	w.contacts = w.contacts[:0]
	for pass := 0; pass < w.iterations; pass++ {
		for i := 0; i < len(w.bodies); i++ {
			for j := i + 1; j < len(w.bodies); j++ {
				if c, ok := collide(w.bodies[i], w.bodies[j]); ok {
					c.I, c.J = i, j
					w.contacts = append(w.contacts, c)
				}
			}
		}
	}

	return nil
}

func (w *World) flushSpawns() {
	w.mu.Lock()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()

	w.bodies = append(w.bodies, pending...)
}

// contain keeps s inside [0, width] x [0, height], reflecting and damping
// the velocity component of every wall it crossed.
func (w *World) contain(s Shape) {
	switch v := s.(type) {
	case *Circle:
		containCircle(v, w.width, w.height)
	default:
		panic(fmt.Sprintf("physics: unhandled shape %T", s))
	}
}

func containCircle(c *Circle, width, height float64) {
	r, e := c.radius, c.Restitution

	if c.Position.X-r < 0 {
		c.Position.X = r
		c.Velocity.X = -c.Velocity.X * e
	}
	if c.Position.X+r > width {
		c.Position.X = width - r
		c.Velocity.X = -c.Velocity.X * e
	}
	if c.Position.Y-r < 0 {
		c.Position.Y = r
		c.Velocity.Y = -c.Velocity.Y * e
	}
	if c.Position.Y+r > height {
		c.Position.Y = height - r
		c.Velocity.Y = -c.Velocity.Y * e
	}
}

// Energy is the kinetic energy plus the potential energy in the uniform
// gravity field, -m·g·p.
func (w *World) Energy() float64 {
	total := 0.0
	for _, s := range w.bodies {
		b := s.Dynamics()
		total += b.KineticEnergy() - b.Mass*w.gravity.Dot(b.Position)
	}
	return total
}

func (w *World) Snapshot() dynamo.Snapshot {
	snap := make(dynamo.Snapshot, len(w.bodies))
	for i, s := range w.bodies {
		b := s.Dynamics()
		snap[i] = dynamo.Sample{
			Position: b.Position,
			Velocity: b.Velocity,
			Mass:     b.Mass,
			Radius:   extent(s),
		}
	}
	return snap
}

// Fingerprint hashes the exact bit patterns of every position and velocity.
// Two worlds with equal fingerprints are in bit-identical states.
func (w *World) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, s := range w.bodies {
		b := s.Dynamics()
		for _, f := range [4]float64{b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y} {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
			_, _ = d.Write(buf[:])
		}
	}
	return d.Sum64()
}
