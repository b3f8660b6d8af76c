package registry

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"trialpower/domain/power"
)

type issues struct {
	list    []string
	flagged map[string]bool
}

func (is *issues) addf(format string, args ...any) {
	is.list = append(is.list, fmt.Sprintf(format, args...))
}

// flagf records an issue against a named parameter so the bounds check does
// not report the same value twice.
func (is *issues) flagf(name, format string, args ...any) {
	if is.flagged == nil {
		is.flagged = map[string]bool{}
	}
	is.flagged[name] = true
	is.addf(format, args...)
}

// check appends any problems it finds with p.
type check func(p power.Params, is *issues)

// validator runs every check in order and returns the combined issues.
func validator(checks ...check) power.ValidateFunc {
	return func(p power.Params) []string {
		var is issues
		for _, c := range checks {
			c(p, &is)
		}
		return is.list
	}
}

// commonChecks apply to every test. checkBounds runs last so it only sees
// values the domain checks accepted.
func commonChecks() []check {
	return []check{checkChoices, checkSignificance, checkTargetPower, checkEffectRange, checkDependencies, checkBounds}
}

func checkSampleSize(min float64) check {
	return func(p power.Params, is *issues) {
		n := p.Number(KeySampleSize)
		switch {
		case !(n > 0) || math.IsInf(n, 0):
			is.flagf(KeySampleSize, "sample size must be positive (got %g)", n)
		case n < min:
			is.flagf(KeySampleSize, "sample size must be at least %g (got %g)", min, n)
		}
	}
}

func checkAttrition(p power.Params, is *issues) {
	dropout := p.Number(KeyDropout)
	dropin := p.Number(KeyDropin)
	valid := true
	if !(dropout >= 0 && dropout <= 1) {
		is.flagf(KeyDropout, "dropout rate must be between 0 and 1 (got %g)", dropout)
		valid = false
	}
	if !(dropin >= 0 && dropin <= 1) {
		is.flagf(KeyDropin, "drop-in rate must be between 0 and 1 (got %g)", dropin)
		valid = false
	}
	if valid && dropout+dropin > MAX_COMBINED_ATTRITION {
		is.addf("combined dropout and drop-in loss of %.0f%% exceeds 100%% of the sample", (dropout+dropin)*100)
	}
}

func checkAllocation(p power.Params, is *issues) {
	if p.Choice(KeyAllocation) != AllocationRatio {
		return
	}
	if r := p.Number(KeyAllocationRatio); !(r > 0) || math.IsInf(r, 0) {
		is.flagf(KeyAllocationRatio, "allocation ratio must be positive (got %g)", r)
	}
}

func checkSignificance(p power.Params, is *issues) {
	if a := p.Number(power.KeyAlpha); !(a > 0 && a < 1) {
		is.flagf(power.KeyAlpha, "significance level must be strictly between 0 and 1 (got %g)", a)
	}
}

func checkTargetPower(p power.Params, is *issues) {
	if t := p.Number(power.KeyTargetPower); !(t > 0 && t < 1) {
		is.flagf(power.KeyTargetPower, "target power must be strictly between 0 and 1 (got %g)", t)
	}
}

func checkChoices(p power.Params, is *issues) {
	in := p.Inputs()
	for _, ps := range p.Spec().Parameters {
		if ps.Kind != power.KindChoice {
			continue
		}
		v, ok := in.Choices[ps.Name]
		if !ok || v == "" || slices.Contains(ps.Choices, v) {
			continue
		}
		if ps.Name == power.KeyEffectMethod {
			is.addf("effect size method %q is not available for this test (choose one of %s)", v, strings.Join(ps.Choices, ", "))
			continue
		}
		is.addf("%s must be one of %s (got %q)", strings.ToLower(ps.Label), strings.Join(ps.Choices, ", "), v)
	}
}

func checkEffectRange(p power.Params, is *issues) {
	es, ok := p.EffectSpec()
	if !ok {
		return
	}
	r := p.EffectRange()
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		is.addf("effect size range must be numeric")
		return
	}
	if r.Min > r.Max {
		is.addf("effect size minimum (%g) must not exceed maximum (%g)", r.Min, r.Max)
	}
	if !es.Bounds.Contains(r.Min) || !es.Bounds.Contains(r.Max) {
		is.addf("effect size range for %s must lie within [%g, %g]", es.Method, es.Bounds.Min, es.Bounds.Max)
	}
}

func checkDependencies(p power.Params, is *issues) {
	es, ok := p.EffectSpec()
	if !ok {
		return
	}
	for _, dep := range es.Dependencies {
		v := p.Number(dep.Name)
		switch dep.Name {
		case KeyReferenceSD:
			if !(v > 0) || math.IsInf(v, 0) {
				is.flagf(dep.Name, "reference standard deviation must be positive (got %g)", v)
			}
		case KeyBaseline:
			if !(v > 0 && v < 1) {
				is.flagf(dep.Name, "baseline proportion must be strictly between 0 and 1 (got %g)", v)
			}
		default:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				is.flagf(dep.Name, "%s must be a finite number", strings.ToLower(dep.Label))
			}
		}
	}
}

// checkBounds enforces the declared range of every visible numeric parameter
// and active-method dependency.
func checkBounds(p power.Params, is *issues) {
	params := p.Spec().Parameters
	if es, ok := p.EffectSpec(); ok {
		params = append(slices.Clip(params), es.Dependencies...)
	}
	for _, ps := range params {
		if ps.Kind == power.KindChoice || is.flagged[ps.Name] || !p.Visible(ps) {
			continue
		}
		v := p.Number(ps.Name)
		if math.IsNaN(v) || ps.Bounds.Contains(v) {
			continue
		}
		is.flagf(ps.Name, "%s must be between %g and %g (got %g)", strings.ToLower(ps.Label), ps.Bounds.Min, ps.Bounds.Max, v)
	}
}
