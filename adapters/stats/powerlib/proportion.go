package powerlib

import (
	"math"

	"trialpower/domain/power"
	"trialpower/ports"

	"gonum.org/v1/gonum/stat/distuv"
)

// twoProportion is the normal approximation on Cohen's h with unequal arms.
func twoProportion(h, a float64, alt power.Alternative, n1, n2 float64) ports.Outcome {
	z := distuv.UnitNormal.Quantile(1 - a)
	k := h * math.Sqrt(n1*n2/(n1+n2))

	pw := distuv.UnitNormal.CDF(k - z)
	if alt == power.TwoSided {
		pw += distuv.UnitNormal.CDF(-k - z)
	}
	return ports.Outcome{
		FieldPower:    clampProbability(pw),
		FieldNCP:      k,
		FieldCritical: z,
	}
}
