package physics

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/circlesim/internal/dynamo"
)

// Color is an opaque RGB triple, used only by renderers.
type Color struct {
	R, G, B uint8
}

var White = Color{R: 255, G: 255, B: 255}

// RandomColor picks each channel in [50, 255] so circles stay visible on a
// black background.
func RandomColor(rng *rand.Rand) Color {
	return Color{
		R: uint8(50 + rng.Intn(206)),
		G: uint8(50 + rng.Intn(206)),
		B: uint8(50 + rng.Intn(206)),
	}
}

// Shape is a drawable, collidable body. The interface is sealed; the only
// implementation is *Circle.
type Shape interface {
	dynamo.Integrable
	Dynamics() *dynamo.Body
	// Bounds returns the axis-aligned box enclosing the shape.
	Bounds() (min, max dynamo.Vec2)
	shape()
}

// Circle is a body with a fixed radius and an immutable colour.
type Circle struct {
	dynamo.Body
	radius float64
	color  Color
}

var _ Shape = (*Circle)(nil)

// NewCircle builds a circle whose mass is its area, π·r².
func NewCircle(pos dynamo.Vec2, radius float64, color Color) (*Circle, error) {
	if err := checkRadius(radius); err != nil {
		return nil, err
	}
	return NewCircleWithMass(pos, radius, math.Pi*radius*radius, color)
}

// NewCircleWithMass builds a circle with an explicit mass.
func NewCircleWithMass(pos dynamo.Vec2, radius, mass float64, color Color) (*Circle, error) {
	if err := checkRadius(radius); err != nil {
		return nil, err
	}
	body, err := dynamo.NewBody(pos, mass)
	if err != nil {
		return nil, fmt.Errorf("circle: %w", err)
	}
	return &Circle{Body: body, radius: radius, color: color}, nil
}

func checkRadius(r float64) error {
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("circle radius %v: %w", r, dynamo.ErrParameterBounds)
	}
	return nil
}

func (c *Circle) Radius() float64 { return c.radius }
func (c *Circle) Color() Color    { return c.color }

func (c *Circle) Bounds() (min, max dynamo.Vec2) {
	r := dynamo.V(c.radius, c.radius)
	return c.Position.Sub(r), c.Position.Add(r)
}

func (c *Circle) shape() {}

// extent returns the radius-like size used for snapshots.
func extent(s Shape) float64 {
	switch v := s.(type) {
	case *Circle:
		return v.radius
	default:
		panic(fmt.Sprintf("physics: unhandled shape %T", s))
	}
}
