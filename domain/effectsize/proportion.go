package effectsize

import "math"

// Proportions derived from a baseline are clamped to this interval before
// the arcsine transform so extreme inputs stay finite.
const (
	MinProportion = 0.001
	MaxProportion = 0.999
)

// CohensH returns 2*(asin(sqrt(p1)) - asin(sqrt(p2))). Defined for p1, p2 in (0,1).
func CohensH(p1, p2 float64) float64 {
	return 2 * (math.Asin(math.Sqrt(p1)) - math.Asin(math.Sqrt(p2)))
}

// CohensHInverse recovers p1 from h and the reference proportion p2.
func CohensHInverse(h, p2 float64) float64 {
	angle := h/2 + math.Asin(math.Sqrt(p2))
	angle = clamp(angle, 0, math.Pi/2)
	s := math.Sin(angle)
	return s * s
}

// DifferenceToH treats diff as p1 - baseline.
func DifferenceToH(diff, baseline float64) float64 {
	p1 := clampProportion(baseline + diff)
	return CohensH(p1, baseline)
}

// OddsRatioToH treats or as odds(p1) / odds(baseline).
func OddsRatioToH(or, baseline float64) float64 {
	odds2 := baseline / (1 - baseline)
	odds1 := or * odds2
	p1 := clampProportion(odds1 / (1 + odds1))
	return CohensH(p1, baseline)
}

// RelativeRiskToH treats rr as p1 / baseline.
func RelativeRiskToH(rr, baseline float64) float64 {
	p1 := clampProportion(rr * baseline)
	return CohensH(p1, baseline)
}

// ProportionsToH is CohensH with the treatment proportion clamped like the
// other baseline-relative conversions.
func ProportionsToH(p1, baseline float64) float64 {
	return CohensH(clampProportion(p1), baseline)
}

func clampProportion(p float64) float64 {
	return clamp(p, MinProportion, MaxProportion)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
