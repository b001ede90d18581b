package integrators

import "github.com/san-kum/circlesim/internal/dynamo"

// Verlet is velocity Verlet with the force held constant across the step,
// which is exact for uniform gravity between contacts.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (Verlet) Integrate(b *dynamo.Body, dt float64) {
	b.Acceleration = b.Force.Scale(1.0 / b.Mass)
	b.Position = b.Position.Add(b.Velocity.Scale(dt)).Add(b.Acceleration.Scale(0.5 * dt * dt))
	b.Velocity = b.Velocity.Add(b.Acceleration.Scale(dt))
	b.Force = dynamo.Vec2{}
}
