package powerlib

import (
	"math"

	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/ports"

	"gonum.org/v1/gonum/stat/distuv"
)

// correlation uses the critical r of the exact t test, mapped with Fisher's
// z together with the small-sample bias correction r/(2(n-1)).
func correlation(r, a float64, alt power.Alternative, n float64) (ports.Outcome, error) {
	if n <= 3 {
		return nil, core.NewDomainError("n", n)
	}
	if math.Abs(r) >= 1 {
		return nil, core.NewDomainError("r", r)
	}

	df := n - 2
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - a)
	rc := math.Sqrt(t * t / (t*t + df))
	zr := math.Atanh(r) + r/(2*(n-1))
	zrc := math.Atanh(rc)
	scale := math.Sqrt(n - 3)

	pw := distuv.UnitNormal.CDF((zr - zrc) * scale)
	if alt == power.TwoSided {
		pw += distuv.UnitNormal.CDF((-zr - zrc) * scale)
	}
	return ports.Outcome{
		FieldPower:    clampProbability(pw),
		FieldNCP:      zr * scale,
		FieldDF:       df,
		FieldCritical: rc,
	}, nil
}
