package effectsize

import "math"

// Correlation is the identity conversion for the "correlation" method.
func Correlation(r float64) float64 {
	return r
}

// RSquaredToR converts variance explained into a non-negative correlation.
// Negative inputs map to zero.
func RSquaredToR(r2 float64) float64 {
	if r2 <= 0 {
		return 0
	}
	return math.Sqrt(r2)
}
