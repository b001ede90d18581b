package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/circlesim/internal/dynamo"
)

const g = 294.0

func fall(in dynamo.Integrator, steps int, dt float64) dynamo.Body {
	b, _ := dynamo.NewBody(dynamo.V(0, 0), 2)
	for i := 0; i < steps; i++ {
		b.ApplyForce(dynamo.V(0, g*b.Mass))
		in.Integrate(&b, dt)
	}
	return b
}

func TestIntegrators_Velocity(t *testing.T) {
	tests := []struct {
		name string
		in   dynamo.Integrator
	}{
		{"semi-implicit", NewSemiImplicitEuler()},
		{"euler", NewEuler()},
		{"verlet", NewVerlet()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fall(tt.in, 60, 1.0/60)
			if math.Abs(b.Velocity.Y-g) > 1e-9 {
				t.Errorf("expected vy %v after 1s, got %v", g, b.Velocity.Y)
			}
			if b.Force != (dynamo.Vec2{}) {
				t.Errorf("force not cleared: %v", b.Force)
			}
		})
	}
}

func TestIntegrators_Position(t *testing.T) {
	dt := 1.0 / 60
	n := 60.0
	exact := 0.5 * g * 1.0

	tests := []struct {
		name     string
		in       dynamo.Integrator
		expected float64
	}{
		{"semi-implicit", NewSemiImplicitEuler(), g * dt * dt * n * (n + 1) / 2},
		{"euler", NewEuler(), g * dt * dt * n * (n - 1) / 2},
		{"verlet", NewVerlet(), exact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fall(tt.in, 60, dt)
			if math.Abs(b.Position.Y-tt.expected) > 1e-6 {
				t.Errorf("expected y %.6f, got %.6f", tt.expected, b.Position.Y)
			}
		})
	}
}

func TestSemiImplicitMatchesBodyStep(t *testing.T) {
	a, _ := dynamo.NewBody(dynamo.V(1, 2), 3)
	b := a
	a.Velocity = dynamo.V(4, 5)
	b.Velocity = dynamo.V(4, 5)

	a.ApplyForce(dynamo.V(7, 8))
	b.ApplyForce(dynamo.V(7, 8))
	a.Step(0.01)
	NewSemiImplicitEuler().Integrate(&b, 0.01)

	if a != b {
		t.Errorf("semi-implicit integrator diverged from Body.Step: %+v vs %+v", a, b)
	}
}

func BenchmarkSemiImplicitEuler(b *testing.B) {
	benchIntegrator(b, NewSemiImplicitEuler())
}

func BenchmarkEuler(b *testing.B) {
	benchIntegrator(b, NewEuler())
}

func BenchmarkVerlet(b *testing.B) {
	benchIntegrator(b, NewVerlet())
}

func benchIntegrator(b *testing.B, in dynamo.Integrator) {
	body, _ := dynamo.NewBody(dynamo.V(0, 0), 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		body.ApplyForce(dynamo.V(0, g))
		in.Integrate(&body, 0.01)
	}
}
