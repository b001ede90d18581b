package integrators

import "github.com/san-kum/circlesim/internal/dynamo"

// SemiImplicitEuler updates velocity before position. It is the default
// scheme and defers to Body.Step.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (SemiImplicitEuler) Integrate(b *dynamo.Body, dt float64) {
	b.Step(dt)
}

// Euler is the explicit scheme: the position moves with the velocity from
// the start of the step. It gains energy under gravity and exists for
// comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (Euler) Integrate(b *dynamo.Body, dt float64) {
	b.Acceleration = b.Force.Scale(1.0 / b.Mass)
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Velocity = b.Velocity.Add(b.Acceleration.Scale(dt))
	b.Force = dynamo.Vec2{}
}
