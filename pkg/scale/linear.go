// Package scale maps data domains onto pixel ranges for the commit scatter:
// linear and square-root scales for numbers, and a niceable time scale.
package scale

import (
	"math"
)

// DefaultTickCount is the approximate number of ticks requested when the
// caller does not care.
const DefaultTickCount = 10

// Tick step thresholds: sqrt(50), sqrt(10), sqrt(2).
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear maps [D0, D1] onto [R0, R1]. The range may be inverted (R0 > R1),
// as the hour axis is. A degenerate domain maps every value to the range
// midpoint.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear creates a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map projects a domain value into the range. Values outside the domain are
// extrapolated.
func (s Linear) Map(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 || math.IsNaN(span) {
		return (s.R0 + s.R1) / 2
	}

	return s.R0 + (v-s.D0)/span*(s.R1-s.R0)
}

// Ticks returns roughly count evenly spaced round values within the domain.
func (s Linear) Ticks(count int) []float64 {
	lo, hi := min(s.D0, s.D1), max(s.D0, s.D1)

	step := TickStep(lo, hi, count)
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		if lo == hi {
			return []float64{lo}
		}

		return nil
	}

	first := math.Ceil(lo / step)
	last := math.Floor(hi / step)

	ticks := make([]float64, 0, int(last-first)+1)

	for i := first; i <= last; i++ {
		ticks = append(ticks, i*step)
	}

	return ticks
}

// TickStep returns a step of 1, 2 or 5 times a power of ten such that about
// count steps cover [lo, hi]. Returns 0 for an empty span or count.
func TickStep(lo, hi float64, count int) float64 {
	if count <= 0 || hi <= lo {
		return 0
	}

	raw := (hi - lo) / float64(count)
	power := math.Floor(math.Log10(raw))
	magnitude := math.Pow(10, power)
	ratio := raw / magnitude

	var factor float64

	switch {
	case ratio >= e10:
		factor = 10
	case ratio >= e5:
		factor = 5
	case ratio >= e2:
		factor = 2
	default:
		factor = 1
	}

	return factor * magnitude
}

// Sqrt maps [D0, D1] onto [R0, R1] through a square-root transform, so the
// area of a circle with the mapped radius grows linearly with the value.
type Sqrt struct {
	D0, D1 float64
	R0, R1 float64
}

// NewSqrt creates a square-root scale.
func NewSqrt(d0, d1, r0, r1 float64) Sqrt {
	return Sqrt{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map projects a domain value into the range.
func (s Sqrt) Map(v float64) float64 {
	return Linear{D0: signedSqrt(s.D0), D1: signedSqrt(s.D1), R0: s.R0, R1: s.R1}.Map(signedSqrt(v))
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}

	return math.Sqrt(v)
}
