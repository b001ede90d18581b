package metrics

import "github.com/san-kum/circlesim/internal/dynamo"

// Momentum averages the magnitude of the total linear momentum.
type Momentum struct {
	name    string
	sum     float64
	samples int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(s dynamo.Snapshot, t float64) {
	var p dynamo.Vec2
	for _, b := range s {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	m.sum += p.Len()
	m.samples++
}

func (m *Momentum) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Momentum) Reset() {
	m.sum = 0
	m.samples = 0
}
