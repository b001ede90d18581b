package metrics

import (
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/physics"
)

// ContactSource exposes the contacts resolved by the most recent step.
type ContactSource interface {
	Contacts() []physics.Contact
}

// Collisions counts resolved contacts and the impulses they carried.
// It samples the source on every observation, so it sees the contacts of
// the step that produced the observed snapshot.
type Collisions struct {
	name     string
	src      ContactSource
	count    int
	impulses int
}

func NewCollisions(src ContactSource) *Collisions {
	return &Collisions{name: "collisions", src: src}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(s dynamo.Snapshot, t float64) {
	for _, ct := range c.src.Contacts() {
		c.count++
		if ct.Impulse != 0 {
			c.impulses++
		}
	}
}

func (c *Collisions) Value() float64 { return float64(c.count) }

// Impulses returns how many of the counted contacts exchanged momentum.
func (c *Collisions) Impulses() int { return c.impulses }

func (c *Collisions) Reset() {
	c.count = 0
	c.impulses = 0
}
