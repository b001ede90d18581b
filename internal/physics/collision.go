package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/circlesim/internal/dynamo"
)

// Contact describes one resolved overlap. I and J are body indices, I < J.
type Contact struct {
	I, J        int
	Normal      dynamo.Vec2
	Penetration float64
	// Impulse is the scalar impulse applied along Normal; zero when the
	// pair was already separating.
	Impulse float64
}

// fallbackNormal separates bodies whose centres coincide.
var fallbackNormal = dynamo.V(1, 0)

// collide dispatches on the concrete shape pair.
func collide(a, b Shape) (Contact, bool) {
	switch sa := a.(type) {
	case *Circle:
		switch sb := b.(type) {
		case *Circle:
			return ResolveCircles(sa, sb)
		}
	}
	panic(fmt.Sprintf("physics: unhandled shape pair %T/%T", a, b))
}

// ResolveCircles separates two overlapping circles and exchanges an impulse
// along the contact normal, which points from a to b.
//
// Pairs whose normal velocity is already separating receive no impulse but
// are still pushed apart, so they cannot stay visibly overlapped.
func ResolveCircles(a, b *Circle) (Contact, bool) {
	delta := b.Position.Sub(a.Position)
	distance := delta.Len()
	minDistance := a.radius + b.radius
	if distance >= minDistance {
		return Contact{}, false
	}

	penetration := minDistance - distance

	normal := fallbackNormal
	if distance != 0 {
		normal = delta.Normalize()
	}

	c := Contact{Normal: normal, Penetration: penetration}

	velAlongNormal := b.Velocity.Sub(a.Velocity).Dot(normal)
	if velAlongNormal < 0 {
		e := math.Min(a.Restitution, b.Restitution)
		j := -(1 + e) * velAlongNormal
		j /= 1/a.Mass + 1/b.Mass

		impulse := normal.Scale(j)
		a.Velocity = a.Velocity.Sub(impulse.Scale(1 / a.Mass))
		b.Velocity = b.Velocity.Add(impulse.Scale(1 / b.Mass))
		c.Impulse = j
	}

	correction := normal.Scale(penetration * 0.5)
	a.Position = a.Position.Sub(correction)
	b.Position = b.Position.Add(correction)

	return c, true
}
