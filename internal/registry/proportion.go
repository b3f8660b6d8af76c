package registry

import (
	"trialpower/domain/effectsize"
	"trialpower/domain/power"
)

func proportionMethods() []power.EffectSizeSpec {
	withBaseline := func(conv func(raw, baseline float64) float64) power.ConvertFunc {
		return func(raw float64, p power.Params) float64 {
			return conv(raw, p.Number(KeyBaseline))
		}
	}
	deps := func() []power.ParameterSpec { return []power.ParameterSpec{baseline()} }

	return []power.EffectSizeSpec{
		{
			Method:       MethodProportions,
			Label:        "Treatment group proportion",
			Standard:     "h",
			Bounds:       power.Bounds{Min: effectsize.MinProportion, Max: effectsize.MaxProportion},
			DefaultRange: power.Bounds{Min: 0.45, Max: 0.7},
			Dependencies: deps(),
			Convert:      withBaseline(effectsize.ProportionsToH),
		},
		{
			Method:       MethodDifference,
			Label:        "Risk difference (treatment - control)",
			Standard:     "h",
			Bounds:       power.Bounds{Min: -0.99, Max: 0.99},
			DefaultRange: power.Bounds{Min: 0.05, Max: 0.3},
			Dependencies: deps(),
			Convert:      withBaseline(effectsize.DifferenceToH),
		},
		{
			Method:       MethodOddsRatio,
			Label:        "Odds ratio",
			Standard:     "h",
			Bounds:       power.Bounds{Min: 1.0 / MAX_ODDS_RATIO, Max: MAX_ODDS_RATIO},
			DefaultRange: power.Bounds{Min: 1.2, Max: 3},
			Dependencies: deps(),
			Convert:      withBaseline(effectsize.OddsRatioToH),
		},
		{
			Method:       MethodRelativeRisk,
			Label:        "Relative risk",
			Standard:     "h",
			Bounds:       power.Bounds{Min: 1.0 / MAX_ODDS_RATIO, Max: MAX_ODDS_RATIO},
			DefaultRange: power.Bounds{Min: 1.1, Max: 1.8},
			Dependencies: deps(),
			Convert:      withBaseline(effectsize.RelativeRiskToH),
		},
		{
			Method:       MethodCohensH,
			Label:        "Cohen's h",
			Standard:     "h",
			Bounds:       power.Bounds{Min: -3.15, Max: 3.15},
			DefaultRange: power.Bounds{Min: 0.1, Max: 0.6},
			Convert:      func(raw float64, _ power.Params) float64 { return raw },
		},
	}
}

// TwoProportion compares two independent proportions through Cohen's h.
// Attrition is not modelled for binary endpoints.
func TwoProportion() *power.TestSpec {
	spec := &power.TestSpec{
		ID:          TwoProportionID,
		Name:        "Two-proportion test",
		Description: "Compares response rates of two independent arms using the arcsine transform.",
		PowerRef:    power.RefTwoProportion,
		EffectSizes: proportionMethods(),
		ComputeDesign: func(p power.Params) power.Design {
			return power.NewTwoGroupDesign(p.Number(KeySampleSize), allocationRatio(p), 0)
		},
		Validate: validator(append([]check{checkSampleSize(0), checkAllocation}, commonChecks()...)...),
	}
	own := []power.ParameterSpec{sampleSizeParam("Total sample size", 2, 200, 2)}
	own = append(own, allocationParams()...)
	return assemble(spec, own...)
}
