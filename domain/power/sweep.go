package power

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultSweepPoints is the number of effect sizes on a power curve.
const DefaultSweepPoints = 16

// Sweep is the raw effect grid and its standardized image.
type Sweep struct {
	Method       string    `json:"method"`
	Raw          []float64 `json:"raw_values"`
	Standardized []float64 `json:"standardized_values"`
}

// GenerateSweep returns n evenly spaced values spanning [min, max] inclusive
// and ascending. A single point yields min. Inverted ranges are the
// validator's job; here the endpoints are simply ordered.
func GenerateSweep(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{min}
	}
	lo, hi := min, max
	if lo > hi {
		lo, hi = hi, lo
	}
	return floats.Span(make([]float64, n), lo, hi)
}
