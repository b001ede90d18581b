package analysis

import "math"

// Component selects one of the four values stored per body.
type Component int

const (
	X Component = iota
	Y
	VX
	VY
)

// Index returns the column of component c of body b in a state row.
func Index(body int, c Component) int {
	return body*4 + int(c)
}

// Column extracts column idx from every row. Rows that are too short are
// skipped.
func Column(states [][]float64, idx int) []float64 {
	out := make([]float64, 0, len(states))
	for _, row := range states {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}

type Stats struct {
	Min, Max, Mean, Std float64
}

func Describe(series []float64) Stats {
	if len(series) == 0 {
		return Stats{}
	}

	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	sum := 0.0
	for _, v := range series {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
	}
	s.Mean = sum / float64(len(series))

	variance := 0.0
	for _, v := range series {
		d := v - s.Mean
		variance += d * d
	}
	s.Std = math.Sqrt(variance / float64(len(series)))
	return s
}

// Bounces counts downward-to-upward reversals of a vertical velocity
// series (y grows downwards, so a floor bounce turns vy from positive to
// negative).
func Bounces(vy []float64) int {
	n := 0
	for i := 1; i < len(vy); i++ {
		if vy[i-1] > 0 && vy[i] < 0 {
			n++
		}
	}
	return n
}
