package metrics

import "github.com/san-kum/circlesim/internal/dynamo"

// MaxPenetration records the deepest overlap between any two bodies seen
// in any sample. Zero means no sample ever had overlapping bodies.
type MaxPenetration struct {
	name string
	max  float64
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration"}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(s dynamo.Snapshot, t float64) {
	if p := Penetration(s); p > m.max {
		m.max = p
	}
}

func (m *MaxPenetration) Value() float64 { return m.max }
func (m *MaxPenetration) Reset()         { m.max = 0 }

// Penetration returns the deepest pairwise overlap in s.
func Penetration(s dynamo.Snapshot) float64 {
	deepest := 0.0
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			pen := s[i].Radius + s[j].Radius - s[i].Position.Dist(s[j].Position)
			if pen > deepest {
				deepest = pen
			}
		}
	}
	return deepest
}

// containSlack absorbs the rounding of a clamp to width-r.
const containSlack = 1e-9

// Containment is the fraction of samples in which every body lies fully
// inside the world rectangle.
type Containment struct {
	name          string
	width, height float64
	violations    int
	samples       int
}

func NewContainment(width, height float64) *Containment {
	return &Containment{
		name:   "containment",
		width:  width,
		height: height,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(s dynamo.Snapshot, t float64) {
	c.samples++
	for _, b := range s {
		p, r := b.Position, b.Radius-containSlack
		if p.X-r < 0 || p.X+r > c.width || p.Y-r < 0 || p.Y+r > c.height {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
