// Package effectsize converts clinically meaningful effect parameterizations
// into the standardized metrics consumed by power routines: Cohen's d for
// continuous outcomes, Cohen's h for proportions and r for correlations.
//
// Every function is pure. Preconditions such as a positive reference SD are
// checked by the caller's validation step, not here.
package effectsize

// CohensD is the identity conversion for the "cohens_d" method.
func CohensD(d float64) float64 {
	return d
}

// PercentReductionToD converts a fractional reduction of the reference value
// (0.2 means 20%) into Cohen's d.
func PercentReductionToD(pct, referenceValue, referenceSD float64) float64 {
	return (pct * referenceValue) / referenceSD
}

// DifferenceToD converts an absolute mean difference into Cohen's d.
func DifferenceToD(difference, referenceSD float64) float64 {
	return difference / referenceSD
}

// ActiveChangeToD converts the expected treatment-arm value into Cohen's d
// relative to the reference arm. The sign assumes a lower-is-better outcome:
// an active value below the reference gives a positive d. Callers on a
// higher-is-better scale must flip the sign themselves.
func ActiveChangeToD(activeValue, referenceValue, referenceSD float64) float64 {
	return (referenceValue - activeValue) / referenceSD
}
