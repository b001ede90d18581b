package dynamo

import "fmt"

// DefaultRestitution is the energy retention applied on bounces unless a
// body is configured otherwise.
const DefaultRestitution = 0.8

// Integrable is the capability set the world needs to move a body. It is
// kept apart from shape behaviour so new shapes reuse the same dynamics.
type Integrable interface {
	ApplyForce(f Vec2)
	Step(dt float64)
}

// Body holds the dynamic state of a point mass.
//
// Acceleration is derived from Force on every Step and Force is cleared
// afterwards, so forces must be re-applied each step.
type Body struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Force        Vec2
	Mass         float64
	Restitution  float64
}

var _ Integrable = (*Body)(nil)

// NewBody returns a body at rest. Mass must be positive and finite.
func NewBody(pos Vec2, mass float64) (Body, error) {
	if !(mass > 0) || !isFinite(mass) {
		return Body{}, fmt.Errorf("mass %v: %w", mass, ErrParameterBounds)
	}
	if !pos.IsFinite() {
		return Body{}, fmt.Errorf("position %v: %w", pos, ErrParameterBounds)
	}
	return Body{
		Position:    pos,
		Mass:        mass,
		Restitution: DefaultRestitution,
	}, nil
}

// SetRestitution changes the bounce coefficient; it must lie in [0, 1].
func (b *Body) SetRestitution(e float64) error {
	if e < 0 || e > 1 || !isFinite(e) {
		return fmt.Errorf("restitution %v: %w", e, ErrParameterBounds)
	}
	b.Restitution = e
	return nil
}

// ApplyForce accumulates f into the force for the current step.
func (b *Body) ApplyForce(f Vec2) {
	b.Force = b.Force.Add(f)
}

// Step advances the body by dt using semi-implicit Euler: velocity is
// updated first and the new velocity moves the position.
func (b *Body) Step(dt float64) {
	b.Acceleration = b.Force.Scale(1.0 / b.Mass)
	b.Velocity = b.Velocity.Add(b.Acceleration.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Force = Vec2{}
}

// Momentum returns m·v.
func (b *Body) Momentum() Vec2 {
	return b.Velocity.Scale(b.Mass)
}

// KineticEnergy returns ½·m·|v|².
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.LenSq()
}

// Dynamics exposes the body itself; shapes embedding Body inherit it.
func (b *Body) Dynamics() *Body {
	return b
}
