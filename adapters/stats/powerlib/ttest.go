package powerlib

import (
	"math"

	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/ports"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

func (l *Library) twoSampleT(d, a float64, alt power.Alternative, n1, n2 float64) (ports.Outcome, error) {
	df := n1 + n2 - 2
	if df <= 0 {
		return nil, core.NewDomainError("df", df)
	}
	ncp := d * math.Sqrt(n1*n2/(n1+n2))
	return l.noncentralT(ncp, df, a, alt), nil
}

func (l *Library) oneSampleT(d, a float64, alt power.Alternative, n float64) (ports.Outcome, error) {
	df := n - 1
	if df <= 0 {
		return nil, core.NewDomainError("df", df)
	}
	ncp := d * math.Sqrt(n)
	return l.noncentralT(ncp, df, a, alt), nil
}

// noncentralT computes P(T' > c) (+ P(T' < -c) when two-sided) where T' is
// noncentral t with df degrees of freedom and noncentrality ncp, and c is
// the upper a-quantile of the central t. T' = (Z+ncp)/sqrt(V/df) with
// V ~ chi2(df), so each tail is an expectation over V of a normal tail; the
// expectation is integrated on the chi-square probability scale.
func (l *Library) noncentralT(ncp, df, a float64, alt power.Alternative) ports.Outcome {
	crit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - a)
	chi := distuv.ChiSquared{K: df}

	integrand := func(u float64) float64 {
		s := math.Sqrt(chi.Quantile(u) / df)
		p := distuv.UnitNormal.Survival(crit*s - ncp)
		if alt == power.TwoSided {
			p += distuv.UnitNormal.CDF(-crit*s - ncp)
		}
		return p
	}

	pw := quad.Fixed(integrand, 0, 1, l.nodes, nil, 0)
	return ports.Outcome{
		FieldPower:    clampProbability(pw),
		FieldNCP:      ncp,
		FieldDF:       df,
		FieldCritical: crit,
	}
}
